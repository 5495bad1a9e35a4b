package db

import (
	"context"
	"fmt"

	"crispy/internal/order/app/core"
	"crispy/internal/order/domain/models"
	apperr "crispy/internal/xpkg/errors"
)

// MenuRepo reads checkout prices from the menu_items catalog.
type MenuRepo struct {
	db core.IDB
}

func NewMenuRepo(db core.IDB) *MenuRepo {
	return &MenuRepo{db: db}
}

func (mr *MenuRepo) Prices(ctx context.Context, menuItemIDs []int64) (map[int64]models.MenuPrice, error) {
	if err := mr.db.IsAlive(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrDBConn, err)
	}

	q := `
	SELECT
		id,
		name,
		price_cents,
		available
	FROM
		menu_items
	WHERE
		id = ANY($1)
	`
	rows, err := mr.db.GetPool().Query(ctx, q, menuItemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[int64]models.MenuPrice, len(menuItemIDs))
	for rows.Next() {
		var p models.MenuPrice
		if err := rows.Scan(&p.MenuItemID, &p.Name, &p.UnitPrice, &p.Available); err != nil {
			return nil, err
		}
		prices[p.MenuItemID] = p
	}
	return prices, rows.Err()
}
