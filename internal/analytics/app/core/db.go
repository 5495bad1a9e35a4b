package core

import (
	"context"
	"time"

	"crispy/internal/analytics/domain/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	GetPool() *pgxpool.Pool
}

// IAnalyticsRepo reads raw rows for the half-open range [from, to). Rows of
// every status are returned; filtering happens in the rollups.
type IAnalyticsRepo interface {
	Orders(ctx context.Context, from, to time.Time) ([]models.OrderFact, error)
	Items(ctx context.Context, from, to time.Time) ([]models.ItemFact, error)
}
