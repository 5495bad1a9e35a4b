package db

import (
	"context"
	"errors"
	"fmt"

	"crispy/internal/order/app/core"
	"crispy/internal/order/domain/models"
	xdb "crispy/internal/xpkg/db"
	apperr "crispy/internal/xpkg/errors"

	"github.com/jackc/pgx/v5"
)

const orderNumberConstraint = "orders_order_number_key"

const orderColumns = `
		id,
		order_number,
		user_id,
		customer_name,
		COALESCE(customer_email, ''),
		COALESCE(customer_phone, ''),
		total_cents,
		status,
		estimated_ready_minutes,
		created_at,
		updated_at,
		paid_at,
		preparing_at,
		ready_at,
		completed_at`

type OrderRepo struct {
	db core.IDB
}

func NewOrderRepo(db core.IDB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (or *OrderRepo) Create(ctx context.Context, order *models.Order, first models.TrackingEvent) error {
	if err := or.db.IsAlive(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrDBConn, err)
	}

	return or.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (
				order_number,
				user_id,
				customer_name,
				customer_email,
				customer_phone,
				total_cents,
				status,
				estimated_ready_minutes,
				created_at,
				updated_at,
				paid_at
			)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11)
			RETURNING id
		`,
			order.OrderNumber,
			order.UserID,
			order.CustomerName,
			order.CustomerEmail,
			order.CustomerPhone,
			order.Total.Cents(),
			string(order.Status),
			order.EstimatedReadyMinutes,
			order.CreatedAt,
			order.UpdatedAt,
			order.PaidAt,
		).Scan(&order.ID)
		if err != nil {
			if xdb.IsUniqueViolation(err, orderNumberConstraint) {
				return core.ErrDuplicateOrderNumber
			}
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			err = tx.QueryRow(ctx, `
				INSERT INTO order_items (
					order_id,
					menu_item_id,
					name,
					unit_price_cents,
					quantity
				)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, order.ID, item.MenuItemID, item.Name, item.UnitPrice.Cents(), item.Quantity).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("failed to insert item: %w", err)
			}
		}

		first.OrderID = order.ID
		if _, err := insertTracking(ctx, tx, first); err != nil {
			return err
		}
		return nil
	})
}

func (or *OrderRepo) GetByID(ctx context.Context, id int64) (models.Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`
	return or.getOne(ctx, q, id)
}

func (or *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (models.Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders WHERE order_number = $1`
	return or.getOne(ctx, q, orderNumber)
}

func (or *OrderRepo) getOne(ctx context.Context, q string, key any) (models.Order, error) {
	pool := or.db.GetPool()

	order, err := scanOrder(pool.QueryRow(ctx, q, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, fmt.Errorf("%w: order %v", apperr.ErrNotFound, key)
		}
		return models.Order{}, err
	}

	items, err := or.itemsFor(ctx, []int64{order.ID})
	if err != nil {
		return models.Order{}, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (or *OrderRepo) ListTracking(ctx context.Context, orderID int64) ([]models.TrackingEvent, error) {
	q := `
	SELECT
		id,
		order_id,
		status,
		COALESCE(notes, ''),
		changed_by,
		created_at
	FROM
		order_tracking
	WHERE
		order_id = $1
	ORDER BY
		created_at, id
	`
	rows, err := or.db.GetPool().Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.TrackingEvent
	for rows.Next() {
		var ev models.TrackingEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.OrderID,
			&ev.Status,
			&ev.Notes,
			&ev.ChangedBy,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Transition serializes concurrent writers on the order row with FOR UPDATE.
func (or *OrderRepo) Transition(ctx context.Context, orderID int64, mutate core.Mutator) (models.Order, models.TrackingEvent, error) {
	var (
		order models.Order
		event models.TrackingEvent
	)

	err := or.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		q1 := `SELECT` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
		order, err = scanOrder(tx.QueryRow(ctx, q1, orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: order %d", apperr.ErrNotFound, orderID)
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		event, err = mutate(&order)
		if err != nil {
			return err
		}

		q2 := `
		UPDATE
			orders
		SET
			status = $2,
			updated_at = $3,
			paid_at = $4,
			preparing_at = $5,
			ready_at = $6,
			completed_at = $7
		WHERE
			id = $1`
		cmdTag, err := tx.Exec(ctx, q2,
			order.ID,
			string(order.Status),
			order.UpdatedAt,
			order.PaidAt,
			order.PreparingAt,
			order.ReadyAt,
			order.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: order %d", apperr.ErrNotFound, orderID)
		}

		event.OrderID = order.ID
		event.ID, err = insertTracking(ctx, tx, event)
		return err
	})
	if err != nil {
		return models.Order{}, models.TrackingEvent{}, err
	}
	return order, event, nil
}

func (or *OrderRepo) ListByStatus(ctx context.Context, statuses []models.Status, limit int) ([]models.Order, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	q := `SELECT` + orderColumns + ` FROM orders WHERE status = ANY($1) ORDER BY created_at DESC LIMIT $2`
	return or.list(ctx, q, names, limit)
}

func (or *OrderRepo) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
	return or.list(ctx, q, limit)
}

func (or *OrderRepo) list(ctx context.Context, q string, args ...any) ([]models.Order, error) {
	rows, err := or.db.GetPool().Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []models.Order
		ids    []int64
	)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := or.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (or *OrderRepo) CountByStatus(ctx context.Context) (map[models.Status]int, models.Money, error) {
	q := `
	SELECT
		status,
		COUNT(*),
		COALESCE(SUM(total_cents), 0)
	FROM
		orders
	GROUP BY
		status
	`
	rows, err := or.db.GetPool().Query(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	var revenue models.Money
	for rows.Next() {
		var (
			status models.Status
			n      int
			sum    int64
		)
		if err := rows.Scan(&status, &n, &sum); err != nil {
			return nil, 0, err
		}
		counts[status] = n
		if status != models.StatusCancelled {
			revenue += models.Money(sum)
		}
	}
	return counts, revenue, rows.Err()
}

// Delete removes the order aggregate. Items and tracking events are deleted
// explicitly in the same transaction.
func (or *OrderRepo) Delete(ctx context.Context, orderID int64) error {
	return or.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM order_tracking WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("failed to delete tracking events: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
		if err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: order %d", apperr.ErrNotFound, orderID)
		}
		return nil
	})
}

func (or *OrderRepo) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItem, error) {
	q := `
	SELECT
		id,
		order_id,
		menu_item_id,
		name,
		unit_price_cents,
		quantity
	FROM
		order_items
	WHERE
		order_id = ANY($1)
	ORDER BY
		order_id, id
	`
	rows, err := or.db.GetPool().Query(ctx, q, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MenuItemID,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
		); err != nil {
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func insertTracking(ctx context.Context, tx pgx.Tx, ev models.TrackingEvent) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO order_tracking (
			order_id,
			status,
			notes,
			changed_by,
			created_at
		)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id
	`, ev.OrderID, string(ev.Status), ev.Notes, ev.ChangedBy, ev.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tracking event: %w", err)
	}
	return id, nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.Total,
		&o.Status,
		&o.EstimatedReadyMinutes,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.PaidAt,
		&o.PreparingAt,
		&o.ReadyAt,
		&o.CompletedAt,
	)
	return o, err
}
