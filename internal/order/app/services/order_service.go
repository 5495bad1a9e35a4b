package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"crispy/internal/order/app/core"
	"crispy/internal/order/domain/dto"
	"crispy/internal/order/domain/models"
	"crispy/internal/xpkg/auth"
	apperr "crispy/internal/xpkg/errors"
	"crispy/internal/xpkg/logger"
	"crispy/internal/xpkg/metrics"
)

type Options struct {
	StrictTransitions     bool
	EstimatedReadyMinutes int

	// Now and NewOrderNumber default to time.Now and NewOrderNumber.
	Now            func() time.Time
	NewOrderNumber func() string
}

type OrderService struct {
	orderRepo core.IOrderRepo
	priceBook core.IPriceBook
	publisher core.IPublisher
	metrics   *metrics.Metrics
	mylog     logger.Logger

	strict         bool
	estimatedReady int
	now            func() time.Time
	newNumber      func() string
}

// NewOrderService wires the order ledger and status tracker. publisher may
// be nil, in which case no status notifications are sent.
func NewOrderService(
	orderRepo core.IOrderRepo,
	priceBook core.IPriceBook,
	publisher core.IPublisher,
	m *metrics.Metrics,
	mylogger logger.Logger,
	opts Options,
) *OrderService {
	s := &OrderService{
		orderRepo:      orderRepo,
		priceBook:      priceBook,
		publisher:      publisher,
		metrics:        m,
		mylog:          mylogger,
		strict:         opts.StrictTransitions,
		estimatedReady: opts.EstimatedReadyMinutes,
		now:            opts.Now,
		newNumber:      opts.NewOrderNumber,
	}
	if s.estimatedReady <= 0 {
		s.estimatedReady = models.DefaultEstimatedReadyMinutes
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newNumber == nil {
		s.newNumber = NewOrderNumber
	}
	return s
}

// NewOrderNumber returns ORD- followed by 8 random characters from [A-Z0-9].
func NewOrderNumber() string {
	var b strings.Builder
	b.Grow(len(core.OrderNumberPrefix) + core.OrderNumberLength)
	b.WriteString(core.OrderNumberPrefix)
	for range core.OrderNumberLength {
		b.WriteByte(core.OrderNumberAlphabet[rand.IntN(len(core.OrderNumberAlphabet))])
	}
	return b.String()
}

// Create places an order from the cart. Names and unit prices come from the
// price book and the total is computed from them; the order starts as paid
// with one tracking event.
func (os *OrderService) Create(ctx context.Context, req dto.CheckoutRequest) (models.Order, error) {
	mylog := os.mylog.Action("create_order")

	if err := ValidateCheckout(req); err != nil {
		mylog.Warn("Rejected checkout", "reason", err.Error())
		return models.Order{}, err
	}

	ids := make([]int64, 0, len(req.Items))
	for _, li := range req.Items {
		ids = append(ids, li.MenuItemID)
	}
	prices, err := os.priceBook.Prices(ctx, ids)
	if err != nil {
		mylog.Error("Failed to load menu prices", err)
		return models.Order{}, fmt.Errorf("cannot load menu prices: %w", err)
	}
	items, err := PriceItems(req.Items, prices)
	if err != nil {
		mylog.Warn("Rejected checkout", "reason", err.Error())
		return models.Order{}, err
	}
	total := models.SumItems(items)
	if req.Total != 0 && req.Total != total {
		mylog.Warn("Ignoring client supplied total", "client_total", req.Total.String(), "total", total.String())
	}

	for attempt := 1; attempt <= core.MaxOrderNumberAttempts; attempt++ {
		now := os.now().UTC()
		order := models.Order{
			OrderNumber:           os.newNumber(),
			UserID:                req.UserID,
			CustomerName:          strings.TrimSpace(req.CustomerName),
			CustomerEmail:         strings.TrimSpace(req.CustomerEmail),
			CustomerPhone:         strings.TrimSpace(req.CustomerPhone),
			Total:                 total,
			Status:                models.StatusPaid,
			EstimatedReadyMinutes: os.estimatedReady,
			CreatedAt:             now,
			UpdatedAt:             now,
			PaidAt:                &now,
			Items:                 items,
		}
		first := models.TrackingEvent{
			Status:    models.StatusPaid,
			Notes:     "Order placed",
			ChangedBy: "checkout",
			CreatedAt: now,
		}

		err := os.orderRepo.Create(ctx, &order, first)
		if errors.Is(err, core.ErrDuplicateOrderNumber) {
			mylog.Warn("Order number collision, regenerating", "order_number", order.OrderNumber, "attempt", attempt)
			continue
		}
		if err != nil {
			mylog.Error("Failed to save order", err)
			return models.Order{}, fmt.Errorf("cannot save order: %w", err)
		}

		os.metrics.OrdersCreated.Inc()
		mylog.Info("Order created", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total.String())
		return order, nil
	}

	err = fmt.Errorf("%w: no unique order number after %d attempts", apperr.ErrConflict, core.MaxOrderNumberAttempts)
	mylog.Error("Failed to allocate order number", err)
	return models.Order{}, err
}

// ValidateCheckout checks the cart before any write.
func ValidateCheckout(req dto.CheckoutRequest) error {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return apperr.NewValidation("customer_name", "is required")
	}
	if len(name) > core.MaxCustomerNameLen {
		return apperr.NewValidation("customer_name", "must be at most %d characters", core.MaxCustomerNameLen)
	}

	if len(req.Items) < core.MinItems {
		return apperr.NewValidation("items", "%s", core.ErrEmptyCart)
	}
	if len(req.Items) > core.MaxItems {
		return apperr.NewValidation("items", "must hold at most %d lines, got %d", core.MaxItems, len(req.Items))
	}
	for i, item := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.MenuItemID <= 0 {
			return apperr.NewValidation(field+".menu_item_id", "is required")
		}
		if item.Quantity < core.MinItemQuantity || item.Quantity > core.MaxItemQuantity {
			return apperr.NewValidation(field+".quantity", "must be in range [%d, %d], got %d",
				core.MinItemQuantity, core.MaxItemQuantity, item.Quantity)
		}
	}
	return nil
}

// PriceItems snapshots catalog names and prices onto the cart lines. Client
// supplied names and prices are ignored.
func PriceItems(lines []dto.LineItem, prices map[int64]models.MenuPrice) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for i, li := range lines {
		field := fmt.Sprintf("items[%d]", i)
		p, ok := prices[li.MenuItemID]
		if !ok || !p.Available {
			return nil, apperr.NewValidation(field+".menu_item_id", "menu item %d is not available", li.MenuItemID)
		}
		if p.UnitPrice < 0 || p.UnitPrice > core.MaxUnitPrice {
			return nil, apperr.NewValidation(field+".unit_price", "catalog price %s out of range", p.UnitPrice)
		}
		items = append(items, models.OrderItem{
			MenuItemID: li.MenuItemID,
			Name:       p.Name,
			UnitPrice:  p.UnitPrice,
			Quantity:   li.Quantity,
		})
	}
	return items, nil
}

func (os *OrderService) Get(ctx context.Context, id int64) (models.Order, error) {
	order, err := os.orderRepo.GetByID(ctx, id)
	if err != nil {
		return models.Order{}, os.lookupErr("get_order", err)
	}
	return order, nil
}

func (os *OrderService) GetByNumber(ctx context.Context, orderNumber string) (models.Order, error) {
	order, err := os.orderRepo.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(orderNumber)))
	if err != nil {
		return models.Order{}, os.lookupErr("get_order_by_number", err)
	}
	return order, nil
}

func (os *OrderService) lookupErr(action string, err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	os.mylog.Action(action).Error("Failed to load order", err)
	return fmt.Errorf("cannot load order: %w", err)
}

// Purge deletes an order with its items and tracking events. Admin only.
func (os *OrderService) Purge(ctx context.Context, actor auth.Identity, orderID int64) error {
	mylog := os.mylog.Action("purge_order")
	if err := auth.RequireStaff(actor); err != nil {
		return err
	}
	if actor.Role != auth.RoleAdmin {
		return fmt.Errorf("%w: purge requires admin", apperr.ErrForbidden)
	}

	if err := os.orderRepo.Delete(ctx, orderID); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			mylog.Error("Failed to purge order", err, "order_id", orderID)
		}
		return err
	}
	mylog.Info("Order purged", "order_id", orderID, "by", actor.Label())
	return nil
}
