package db

import (
	"context"
	"fmt"
	"time"

	"crispy/internal/analytics/app/core"
	"crispy/internal/analytics/domain/models"
	ordermodels "crispy/internal/order/domain/models"
)

type AnalyticsRepo struct {
	db core.IDB
}

func NewAnalyticsRepo(db core.IDB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

func (ar *AnalyticsRepo) Orders(ctx context.Context, from, to time.Time) ([]models.OrderFact, error) {
	q := `
	SELECT
		id,
		total_cents,
		status,
		created_at
	FROM orders
	WHERE created_at >= $1 AND created_at < $2
	ORDER BY created_at`

	rows, err := ar.db.GetPool().Query(ctx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var facts []models.OrderFact
	for rows.Next() {
		var (
			f      models.OrderFact
			cents  int64
			status string
		)
		if err := rows.Scan(&f.ID, &cents, &status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		f.Total = ordermodels.Money(cents)
		f.Status = ordermodels.Status(status)
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (ar *AnalyticsRepo) Items(ctx context.Context, from, to time.Time) ([]models.ItemFact, error) {
	q := `
	SELECT
		oi.order_id,
		oi.name,
		oi.quantity,
		o.status,
		o.created_at
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE o.created_at >= $1 AND o.created_at < $2`

	rows, err := ar.db.GetPool().Query(ctx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var facts []models.ItemFact
	for rows.Next() {
		var (
			f      models.ItemFact
			status string
		)
		if err := rows.Scan(&f.OrderID, &f.Name, &f.Quantity, &status, &f.OrderCreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		f.OrderStatus = ordermodels.Status(status)
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
