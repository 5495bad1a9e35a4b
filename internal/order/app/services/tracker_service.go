package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crispy/internal/order/app/core"
	"crispy/internal/order/domain/dto"
	"crispy/internal/order/domain/models"
	"crispy/internal/xpkg/auth"
	apperr "crispy/internal/xpkg/errors"

	"github.com/google/uuid"
)

// ApplyTransition moves an order to status and appends a tracking event.
// Unknown statuses fail with ErrInvalidStatus before anything is written.
func (os *OrderService) ApplyTransition(ctx context.Context, actor auth.Identity, orderID int64, status, notes string) (models.TrackingEvent, error) {
	mylog := os.mylog.Action("apply_transition").With("order_id", orderID, "requested_status", status)

	if err := auth.RequireStaff(actor); err != nil {
		mylog.Warn("Rejected transition from non-staff caller", "role", string(actor.Role))
		return models.TrackingEvent{}, err
	}

	to, err := models.ParseStatus(status)
	if err != nil {
		return models.TrackingEvent{}, err
	}

	var from models.Status
	notes = strings.TrimSpace(notes)
	order, event, err := os.orderRepo.Transition(ctx, orderID, func(o *models.Order) (models.TrackingEvent, error) {
		now := os.now().UTC()
		prev, err := o.Transition(to, now, os.strict)
		if err != nil {
			return models.TrackingEvent{}, err
		}
		from = prev
		return models.TrackingEvent{
			OrderID:   o.ID,
			Status:    to,
			Notes:     notes,
			ChangedBy: actor.Label(),
			CreatedAt: now,
		}, nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
			mylog.Warn("Transition rejected", "reason", err.Error())
			return models.TrackingEvent{}, err
		}
		mylog.Error("Failed to apply transition", err)
		return models.TrackingEvent{}, fmt.Errorf("cannot update order status: %w", err)
	}

	os.metrics.OrderTransitions.WithLabelValues(string(to)).Inc()
	mylog.Info("Order status updated", "order_number", order.OrderNumber, "from", string(from), "to", string(to), "by", actor.Label())

	os.notify(ctx, dto.StatusChanged{
		MessageID:   uuid.NewString(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   from,
		NewStatus:   to,
		ChangedBy:   event.ChangedBy,
		Notes:       event.Notes,
		ChangedAt:   event.CreatedAt,
	})
	return event, nil
}

// notify publishes a committed transition. Failures are logged only; the
// transition itself already succeeded.
func (os *OrderService) notify(ctx context.Context, msg dto.StatusChanged) {
	if os.publisher == nil {
		return
	}
	if err := os.publisher.PublishStatusChanged(ctx, msg); err != nil {
		os.mylog.Action("publish_status_changed").Warn("Failed to publish status change", "order_number", msg.OrderNumber, "error", err.Error())
	}
}

// Snapshot returns the live tracking view of an order by id.
func (os *OrderService) Snapshot(ctx context.Context, orderID int64) (dto.TrackingSnapshot, error) {
	order, err := os.Get(ctx, orderID)
	if err != nil {
		return dto.TrackingSnapshot{}, err
	}
	return os.snapshot(ctx, order)
}

// SnapshotByNumber returns the live tracking view of an order by its number.
func (os *OrderService) SnapshotByNumber(ctx context.Context, orderNumber string) (dto.TrackingSnapshot, error) {
	order, err := os.GetByNumber(ctx, orderNumber)
	if err != nil {
		return dto.TrackingSnapshot{}, err
	}
	return os.snapshot(ctx, order)
}

func (os *OrderService) snapshot(ctx context.Context, order models.Order) (dto.TrackingSnapshot, error) {
	events, err := os.orderRepo.ListTracking(ctx, order.ID)
	if err != nil {
		os.mylog.Action("snapshot").Error("Failed to load tracking events", err, "order_id", order.ID)
		return dto.TrackingSnapshot{}, fmt.Errorf("cannot load tracking events: %w", err)
	}
	return BuildSnapshot(order, events, os.now()), nil
}

// BuildSnapshot assembles the tracking payload. Elapsed time is measured
// against now.
func BuildSnapshot(order models.Order, events []models.TrackingEvent, now time.Time) dto.TrackingSnapshot {
	if events == nil {
		events = []models.TrackingEvent{}
	}
	return dto.TrackingSnapshot{
		ID:                    order.ID,
		OrderNumber:           order.OrderNumber,
		Status:                order.Status,
		ProgressPercentage:    order.Status.Progress(),
		ElapsedSeconds:        order.ElapsedSeconds(now),
		EstimatedReadyMinutes: order.EstimatedReadyMinutes,
		PaidAt:                order.PaidAt,
		PreparingAt:           order.PreparingAt,
		ReadyAt:               order.ReadyAt,
		CompletedAt:           order.CompletedAt,
		Tracking:              events,
	}
}

// ListActive returns the staff order board: paid, preparing and ready
// orders, newest first.
func (os *OrderService) ListActive(ctx context.Context, actor auth.Identity) ([]dto.ActiveOrder, error) {
	if err := auth.RequireStaff(actor); err != nil {
		return nil, err
	}

	orders, err := os.orderRepo.ListByStatus(ctx, models.ActiveStatuses, core.ActiveOrdersLimit)
	if err != nil {
		os.mylog.Action("list_active_orders").Error("Failed to list active orders", err)
		return nil, fmt.Errorf("cannot list active orders: %w", err)
	}

	now := os.now()
	board := make([]dto.ActiveOrder, 0, len(orders))
	for _, o := range orders {
		board = append(board, dto.ActiveOrder{
			ID:             o.ID,
			OrderNumber:    o.OrderNumber,
			CustomerName:   o.CustomerName,
			Status:         o.Status,
			Total:          o.Total,
			ItemsSummary:   ItemsSummary(o.Items),
			ElapsedMinutes: o.ElapsedSeconds(now) / 60,
			CreatedAt:      o.CreatedAt,
		})
	}
	return board, nil
}

// ItemsSummary renders line items as "2x Fries, 1x Tea".
func ItemsSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

// Counts returns dashboard counters over all orders.
func (os *OrderService) Counts(ctx context.Context, actor auth.Identity) (dto.StatusCounts, error) {
	if err := auth.RequireStaff(actor); err != nil {
		return dto.StatusCounts{}, err
	}

	byStatus, revenue, err := os.orderRepo.CountByStatus(ctx)
	if err != nil {
		os.mylog.Action("count_orders").Error("Failed to count orders", err)
		return dto.StatusCounts{}, fmt.Errorf("cannot count orders: %w", err)
	}

	counts := dto.StatusCounts{
		Pending:   byStatus[models.StatusPending] + byStatus[models.StatusPaid],
		Preparing: byStatus[models.StatusPreparing],
		Ready:     byStatus[models.StatusReady],
		Revenue:   revenue,
	}
	for _, n := range byStatus {
		counts.Total += n
	}
	return counts, nil
}

// Recent returns the latest orders for the dashboard.
func (os *OrderService) Recent(ctx context.Context, actor auth.Identity) ([]models.Order, error) {
	if err := auth.RequireStaff(actor); err != nil {
		return nil, err
	}
	orders, err := os.orderRepo.ListRecent(ctx, core.RecentOrdersLimit)
	if err != nil {
		os.mylog.Action("list_recent_orders").Error("Failed to list recent orders", err)
		return nil, fmt.Errorf("cannot list recent orders: %w", err)
	}
	return orders, nil
}
