package core

import "crispy/internal/order/domain/models"

const (
	OrderNumberPrefix   = "ORD-"
	OrderNumberLength   = 8
	OrderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// attempts before a collision is reported as a conflict
	MaxOrderNumberAttempts = 5

	ActiveOrdersLimit = 20
	RecentOrdersLimit = 50

	MaxCustomerNameLen = 100

	MinItems        = 1
	MaxItems        = 20
	MinItemQuantity = 1
	MaxItemQuantity = 50
)

// MaxUnitPrice bounds catalog prices so a full cart total stays far inside
// int64 cents.
const MaxUnitPrice models.Money = 1_000_000
