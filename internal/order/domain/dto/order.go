package dto

import (
	"time"

	"crispy/internal/order/domain/models"
)

// CheckoutRequest is the cart handed over by the cart/session layer.
// Total is accepted for compatibility and never trusted.
type CheckoutRequest struct {
	UserID        *int64       `json:"user_id,omitempty"`
	CustomerName  string       `json:"customer_name"`
	CustomerEmail string       `json:"customer_email"`
	CustomerPhone string       `json:"customer_phone"`
	Items         []LineItem   `json:"items"`
	Total         models.Money `json:"total,omitempty"`
}

// LineItem names a menu item and quantity. Name and UnitPrice are echoed by
// the cart layer for display only; checkout prices from the catalog.
type LineItem struct {
	MenuItemID int64        `json:"menu_item_id"`
	Name       string       `json:"name"`
	UnitPrice  models.Money `json:"unit_price"`
	Quantity   int          `json:"quantity"`
}

type OrderResponse struct {
	ID          int64         `json:"id"`
	OrderNumber string        `json:"order_number"`
	Status      models.Status `json:"status"`
	Total       models.Money  `json:"total"`
}

// TrackingSnapshot is the payload served by the live tracking endpoints.
type TrackingSnapshot struct {
	ID                    int64                  `json:"id"`
	OrderNumber           string                 `json:"order_number"`
	Status                models.Status          `json:"status"`
	ProgressPercentage    int                    `json:"progress_percentage"`
	ElapsedSeconds        int64                  `json:"elapsed_seconds"`
	EstimatedReadyMinutes int                    `json:"estimated_ready_minutes"`
	PaidAt                *time.Time             `json:"paid_at"`
	PreparingAt           *time.Time             `json:"preparing_at"`
	ReadyAt               *time.Time             `json:"ready_at"`
	CompletedAt           *time.Time             `json:"completed_at"`
	Tracking              []models.TrackingEvent `json:"tracking"`
}

// StatusChanged is published after every committed transition.
type StatusChanged struct {
	MessageID   string        `json:"message_id"`
	OrderID     int64         `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	OldStatus   models.Status `json:"old_status"`
	NewStatus   models.Status `json:"new_status"`
	ChangedBy   string        `json:"changed_by"`
	Notes       string        `json:"notes,omitempty"`
	ChangedAt   time.Time     `json:"changed_at"`
}

// ActiveOrder is one row of the staff order board.
type ActiveOrder struct {
	ID             int64         `json:"id"`
	OrderNumber    string        `json:"order_number"`
	CustomerName   string        `json:"customer_name"`
	Status         models.Status `json:"status"`
	Total          models.Money  `json:"total"`
	ItemsSummary   string        `json:"items_summary"`
	ElapsedMinutes int64         `json:"elapsed_minutes"`
	CreatedAt      time.Time     `json:"created_at"`
}

// StatusCounts backs the dashboard counters. Pending includes paid orders
// that have not started preparation.
type StatusCounts struct {
	Total     int          `json:"total_orders"`
	Pending   int          `json:"pending"`
	Preparing int          `json:"preparing"`
	Ready     int          `json:"ready"`
	Revenue   models.Money `json:"revenue"`
}
