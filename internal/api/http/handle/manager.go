package handle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"crispy/internal/order/domain/models"
	"crispy/internal/xpkg/auth"
	apperr "crispy/internal/xpkg/errors"
	"crispy/internal/xpkg/logger"
)

type ManagerHandler struct {
	orders     OrderService
	attendance AttendanceService
	analytics  AnalyticsService
	mylog      logger.Logger
}

func NewManagerHandler(orders OrderService, attendance AttendanceService, analytics AnalyticsService, mylog logger.Logger) *ManagerHandler {
	return &ManagerHandler{
		orders:     orders,
		attendance: attendance,
		analytics:  analytics,
		mylog:      mylog,
	}
}

// actor returns the identity placed on the context by the staff middleware.
func actor(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// UpdateStatus handles the status form on the order board. Unknown status
// values are logged and ignored.
func (mh *ManagerHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := mh.mylog.Action("update_order_status")

		id, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
		if err != nil || id <= 0 {
			redirect(w, r, "error", "Invalid order id")
			return
		}
		if err := r.ParseForm(); err != nil {
			redirect(w, r, "error", "Invalid form")
			return
		}
		status := r.PostFormValue("status")

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		_, err = mh.orders.ApplyTransition(ctx, actor(r), id, status, r.PostFormValue("notes"))
		switch {
		case err == nil:
			redirect(w, r, "msg", fmt.Sprintf("Order status updated to %s", strings.ToLower(strings.TrimSpace(status))))
		case errors.Is(err, apperr.ErrInvalidStatus):
			mylog.Warn("Ignoring unknown status", "order_id", id, "status", status)
			redirect(w, r, "", "")
		case statusFor(err) != http.StatusInternalServerError:
			redirect(w, r, "error", err.Error())
		default:
			writeError(w, mylog, err)
		}
	}
}

func (mh *ManagerHandler) ClockIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirect(w, r, "error", "Invalid form")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		_, err := mh.attendance.ClockIn(ctx, actor(r), r.PostFormValue("notes"))
		switch {
		case err == nil:
			redirect(w, r, "msg", "Clocked in")
		case errors.Is(err, apperr.ErrAlreadyClockedIn):
			redirect(w, r, "error", "You are already clocked in")
		case statusFor(err) != http.StatusInternalServerError:
			redirect(w, r, "error", err.Error())
		default:
			writeError(w, mh.mylog.Action("clock_in"), err)
		}
	}
}

func (mh *ManagerHandler) ClockOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirect(w, r, "error", "Invalid form")
			return
		}
		breakMinutes := 0
		if raw := strings.TrimSpace(r.PostFormValue("break_minutes")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				redirect(w, r, "error", "Break minutes must be a whole number")
				return
			}
			breakMinutes = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		_, hours, err := mh.attendance.ClockOut(ctx, actor(r), breakMinutes)
		switch {
		case err == nil:
			redirect(w, r, "msg", fmt.Sprintf("Clocked out. Hours worked: %.2f", hours))
		case errors.Is(err, apperr.ErrNotClockedIn):
			redirect(w, r, "error", "You are not clocked in")
		case statusFor(err) != http.StatusInternalServerError:
			redirect(w, r, "error", err.Error())
		default:
			writeError(w, mh.mylog.Action("clock_out"), err)
		}
	}
}

type statsResponse struct {
	Pending     int `json:"pending"`
	Preparing   int `json:"preparing"`
	Ready       int `json:"ready"`
	ActiveStaff int `json:"active_staff"`
}

func (mh *ManagerHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := mh.mylog.Action("stats")
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		counts, err := mh.orders.Counts(ctx, actor(r))
		if err != nil {
			writeError(w, mylog, err)
			return
		}
		onShift, err := mh.attendance.ActiveCount(ctx, actor(r))
		if err != nil {
			writeError(w, mylog, err)
			return
		}
		jsonResponse(w, http.StatusOK, statsResponse{
			Pending:     counts.Pending,
			Preparing:   counts.Preparing,
			Ready:       counts.Ready,
			ActiveStaff: onShift,
		})
	}
}

func (mh *ManagerHandler) ActiveOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		board, err := mh.orders.ListActive(ctx, actor(r))
		if err != nil {
			writeError(w, mh.mylog.Action("active_orders"), err)
			return
		}
		jsonResponse(w, http.StatusOK, board)
	}
}

type dashboardResponse struct {
	TotalOrders  int            `json:"total_orders"`
	Pending      int            `json:"pending"`
	Preparing    int            `json:"preparing"`
	Ready        int            `json:"ready"`
	Revenue      models.Money   `json:"revenue"`
	RecentOrders []models.Order `json:"recent_orders"`
}

func (mh *ManagerHandler) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := mh.mylog.Action("dashboard")
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		counts, err := mh.orders.Counts(ctx, actor(r))
		if err != nil {
			writeError(w, mylog, err)
			return
		}
		recent, err := mh.orders.Recent(ctx, actor(r))
		if err != nil {
			writeError(w, mylog, err)
			return
		}
		if recent == nil {
			recent = []models.Order{}
		}
		jsonResponse(w, http.StatusOK, dashboardResponse{
			TotalOrders:  counts.Total,
			Pending:      counts.Pending,
			Preparing:    counts.Preparing,
			Ready:        counts.Ready,
			Revenue:      counts.Revenue,
			RecentOrders: recent,
		})
	}
}

func (mh *ManagerHandler) Analytics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		summary, err := mh.analytics.Summary(ctx, actor(r))
		if err != nil {
			writeError(w, mh.mylog.Action("analytics"), err)
			return
		}
		jsonResponse(w, http.StatusOK, summary)
	}
}

func (mh *ManagerHandler) DailySales() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		sales, err := mh.analytics.DailySales(ctx, actor(r), r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, mh.mylog.Action("daily_sales"), err)
			return
		}
		jsonResponse(w, http.StatusOK, sales)
	}
}

func (mh *ManagerHandler) ActiveShifts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		shifts, err := mh.attendance.ListActive(ctx, actor(r))
		if err != nil {
			writeError(w, mh.mylog.Action("active_shifts"), err)
			return
		}
		jsonResponse(w, http.StatusOK, shifts)
	}
}

func (mh *ManagerHandler) MyShifts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		shifts, err := mh.attendance.Recent(ctx, actor(r))
		if err != nil {
			writeError(w, mh.mylog.Action("my_shifts"), err)
			return
		}
		jsonResponse(w, http.StatusOK, shifts)
	}
}
