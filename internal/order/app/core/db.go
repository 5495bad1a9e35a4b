package core

import (
	"context"

	"crispy/internal/order/domain/dto"
	"crispy/internal/order/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	GetPool() *pgxpool.Pool
	IsAlive(ctx context.Context) error
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Mutator applies a status change to a locked order and returns the event to
// append. Returning an error aborts the transaction.
type Mutator func(order *models.Order) (models.TrackingEvent, error)

type IOrderRepo interface {
	// Create persists the order, its items and the first tracking event in
	// one transaction and fills in generated ids. It fails with
	// ErrDuplicateOrderNumber when the number is taken.
	Create(ctx context.Context, order *models.Order, first models.TrackingEvent) error
	GetByID(ctx context.Context, id int64) (models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (models.Order, error)
	ListTracking(ctx context.Context, orderID int64) ([]models.TrackingEvent, error)
	// Transition locks the order row, runs mutate and persists the new
	// status, milestones and event atomically.
	Transition(ctx context.Context, orderID int64, mutate Mutator) (models.Order, models.TrackingEvent, error)
	ListByStatus(ctx context.Context, statuses []models.Status, limit int) ([]models.Order, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, models.Money, error)
	// Delete removes the order together with its items and tracking events.
	Delete(ctx context.Context, orderID int64) error
}

// IPriceBook resolves authoritative prices for menu items. Ids missing from
// the catalog are absent from the result.
type IPriceBook interface {
	Prices(ctx context.Context, menuItemIDs []int64) (map[int64]models.MenuPrice, error)
}

type IPublisher interface {
	PublishStatusChanged(ctx context.Context, msg dto.StatusChanged) error
}
