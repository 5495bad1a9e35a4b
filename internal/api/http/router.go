package http

import (
	"net/http"

	"crispy/internal/api/http/handle"
	"crispy/internal/xpkg/logger"
	"crispy/internal/xpkg/metrics"
)

type Deps struct {
	Orders     handle.OrderService
	Attendance handle.AttendanceService
	Analytics  handle.AnalyticsService
	DB         handle.Pinger
	Metrics    *metrics.Metrics
	Logger     logger.Logger
}

// NewRouter registers every route on a fresh mux and wraps it with request
// logging and metrics.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	orderHandler := handle.NewOrderHandler(d.Orders, d.Logger)
	managerHandler := handle.NewManagerHandler(d.Orders, d.Attendance, d.Analytics, d.Logger)

	mux.Handle("POST /api/checkout", orderHandler.Checkout())
	mux.Handle("GET /api/track/{orderId}", orderHandler.TrackByID())
	mux.Handle("GET /api/track/number/{orderNumber}", orderHandler.TrackByNumber())

	mux.Handle("POST /manager/order/{orderId}/status", staffOnly(managerHandler.UpdateStatus()))
	mux.Handle("POST /manager/clock-in", staffOnly(managerHandler.ClockIn()))
	mux.Handle("POST /manager/clock-out", staffOnly(managerHandler.ClockOut()))
	mux.Handle("GET /manager/api/stats", staffOnly(managerHandler.Stats()))
	mux.Handle("GET /manager/api/orders", staffOnly(managerHandler.ActiveOrders()))
	mux.Handle("GET /manager/api/dashboard", staffOnly(managerHandler.Dashboard()))
	mux.Handle("GET /manager/api/analytics", staffOnly(managerHandler.Analytics()))
	mux.Handle("GET /manager/api/daily-sales", staffOnly(managerHandler.DailySales()))
	mux.Handle("GET /manager/api/attendance/active", staffOnly(managerHandler.ActiveShifts()))
	mux.Handle("GET /manager/api/attendance/me", staffOnly(managerHandler.MyShifts()))

	mux.Handle("GET /healthz", handle.Health(d.DB, d.Logger))
	mux.Handle("GET /metrics", d.Metrics.Handler())

	return observe(mux, d.Metrics, d.Logger)
}
