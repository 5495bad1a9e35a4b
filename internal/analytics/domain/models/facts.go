package models

import (
	"time"

	ordermodels "crispy/internal/order/domain/models"
)

// OrderFact is the slice of an order the rollups read.
type OrderFact struct {
	ID        int64
	Total     ordermodels.Money
	Status    ordermodels.Status
	CreatedAt time.Time
}

// ItemFact is one line item joined with its order's status and creation
// time.
type ItemFact struct {
	OrderID        int64
	Name           string
	Quantity       int
	OrderStatus    ordermodels.Status
	OrderCreatedAt time.Time
}

type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

var windowDays = map[Window]int{
	WindowToday: 0,
	WindowWeek:  7,
	WindowMonth: 30,
}

// Midnight truncates t to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Start is the first instant included in the window relative to now.
func (w Window) Start(now time.Time) time.Time {
	return Midnight(now).AddDate(0, 0, -windowDays[w])
}

// Contains reports whether a creation time falls in the window. Only the
// lower bound is checked.
func (w Window) Contains(createdAt, now time.Time) bool {
	return !createdAt.Before(w.Start(now))
}
