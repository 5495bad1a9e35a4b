package handle

import (
	"context"

	analyticsdto "crispy/internal/analytics/domain/dto"
	attendancedto "crispy/internal/attendance/domain/dto"
	attendancemodels "crispy/internal/attendance/domain/models"
	"crispy/internal/order/domain/dto"
	"crispy/internal/order/domain/models"
	"crispy/internal/xpkg/auth"
)

// ManagerHome is where manager form posts redirect to.
const ManagerHome = "/manager"

type OrderService interface {
	Create(ctx context.Context, req dto.CheckoutRequest) (models.Order, error)
	Snapshot(ctx context.Context, orderID int64) (dto.TrackingSnapshot, error)
	SnapshotByNumber(ctx context.Context, orderNumber string) (dto.TrackingSnapshot, error)
	ApplyTransition(ctx context.Context, actor auth.Identity, orderID int64, status, notes string) (models.TrackingEvent, error)
	ListActive(ctx context.Context, actor auth.Identity) ([]dto.ActiveOrder, error)
	Counts(ctx context.Context, actor auth.Identity) (dto.StatusCounts, error)
	Recent(ctx context.Context, actor auth.Identity) ([]models.Order, error)
}

type AttendanceService interface {
	ClockIn(ctx context.Context, actor auth.Identity, notes string) (attendancemodels.ClockRecord, error)
	ClockOut(ctx context.Context, actor auth.Identity, breakMinutes int) (attendancemodels.ClockRecord, float64, error)
	ListActive(ctx context.Context, actor auth.Identity) ([]attendancedto.Shift, error)
	ActiveCount(ctx context.Context, actor auth.Identity) (int, error)
	Recent(ctx context.Context, actor auth.Identity) ([]attendancedto.Shift, error)
}

type AnalyticsService interface {
	Summary(ctx context.Context, actor auth.Identity) (analyticsdto.Summary, error)
	DailySales(ctx context.Context, actor auth.Identity, date string) (analyticsdto.DailySales, error)
}

type Pinger interface {
	IsAlive(ctx context.Context) error
}
