package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"crispy/internal/order/domain/dto"
	"crispy/internal/xpkg/logger"
)

const requestTimeout = 10 * time.Second

type OrderHandler struct {
	orderService OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		mylog:        mylog,
	}
}

// Checkout places an order from a JSON cart.
func (oh *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.Action("checkout")

		var req dto.CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Warn("Failed to parse checkout body", "error", err.Error())
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}
		mylog.Debug("Received cart", "customer_name", req.CustomerName, "number_of_items", len(req.Items))

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		order, err := oh.orderService.Create(ctx, req)
		if err != nil {
			writeError(w, mylog, err)
			return
		}

		jsonResponse(w, http.StatusCreated, dto.OrderResponse{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			Total:       order.Total,
		})
	}
}

// TrackByID serves the live tracking snapshot for an order id.
func (oh *OrderHandler) TrackByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
		if err != nil || id <= 0 {
			jsonError(w, http.StatusBadRequest, errors.New("order id must be a positive integer"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		snap, err := oh.orderService.Snapshot(ctx, id)
		if err != nil {
			writeError(w, oh.mylog.Action("track_order"), err)
			return
		}
		jsonResponse(w, http.StatusOK, snap)
	}
}

func (oh *OrderHandler) TrackByNumber() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		snap, err := oh.orderService.SnapshotByNumber(ctx, r.PathValue("orderNumber"))
		if err != nil {
			writeError(w, oh.mylog.Action("track_order"), err)
			return
		}
		jsonResponse(w, http.StatusOK, snap)
	}
}
