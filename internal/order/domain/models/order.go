package models

import (
	"time"
)

const DefaultEstimatedReadyMinutes = 15

type Order struct {
	ID                    int64       `json:"id"`
	OrderNumber           string      `json:"order_number"`
	UserID                *int64      `json:"user_id,omitempty"`
	CustomerName          string      `json:"customer_name"`
	CustomerEmail         string      `json:"customer_email,omitempty"`
	CustomerPhone         string      `json:"customer_phone,omitempty"`
	Total                 Money       `json:"total"`
	Status                Status      `json:"status"`
	EstimatedReadyMinutes int         `json:"estimated_ready_minutes"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
	PaidAt                *time.Time  `json:"paid_at"`
	PreparingAt           *time.Time  `json:"preparing_at"`
	ReadyAt               *time.Time  `json:"ready_at"`
	CompletedAt           *time.Time  `json:"completed_at"`
	Items                 []OrderItem `json:"items,omitempty"`
}

// OrderItem is a line item with name and price captured at order time.
type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"order_id"`
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  Money  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
}

func (i OrderItem) Subtotal() Money {
	return i.UnitPrice.Mul(i.Quantity)
}

// TrackingEvent is one immutable status change.
type TrackingEvent struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	ChangedBy string    `json:"changed_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SumItems is the order total derived from its line items.
func SumItems(items []OrderItem) Money {
	var total Money
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// milestone returns the timestamp slot stamped on first entry into s, or
// nil for statuses without one.
func (o *Order) milestone(s Status) **time.Time {
	switch s {
	case StatusPaid:
		return &o.PaidAt
	case StatusPreparing:
		return &o.PreparingAt
	case StatusReady:
		return &o.ReadyAt
	case StatusCompleted:
		return &o.CompletedAt
	}
	return nil
}

// Transition moves the order to status `to` at time `at`, stamping the
// matching milestone only if it was never set. It returns the previous
// status.
func (o *Order) Transition(to Status, at time.Time, strict bool) (Status, error) {
	prev := o.Status
	if err := CheckTransition(prev, to, strict); err != nil {
		return prev, err
	}

	o.Status = to
	o.UpdatedAt = at
	if slot := o.milestone(to); slot != nil && *slot == nil {
		t := at
		*slot = &t
	}
	return prev, nil
}

// ElapsedSeconds is the wall-clock age of the order at now.
func (o *Order) ElapsedSeconds(now time.Time) int64 {
	d := now.Sub(o.CreatedAt)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
