package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"crispy/internal/order/app/core"
	"crispy/internal/order/domain/dto"
	"crispy/internal/order/domain/models"
	apperr "crispy/internal/xpkg/errors"
)

type fakeOrderRepo struct {
	mu       sync.Mutex
	nextID   int64
	orders   map[int64]models.Order
	numbers  map[string]int64
	tracking map[int64][]models.TrackingEvent
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[int64]models.Order),
		numbers:  make(map[string]int64),
		tracking: make(map[int64][]models.TrackingEvent),
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order, first models.TrackingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.numbers[order.OrderNumber]; taken {
		return core.ErrDuplicateOrderNumber
	}
	r.nextID++
	order.ID = r.nextID
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].ID = int64(i + 1)
	}
	r.orders[order.ID] = cloneOrder(*order)
	r.numbers[order.OrderNumber] = order.ID

	r.nextID++
	first.ID = r.nextID
	first.OrderID = order.ID
	r.tracking[order.ID] = append(r.tracking[order.ID], first)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: order %d", apperr.ErrNotFound, id)
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) GetByNumber(ctx context.Context, number string) (models.Order, error) {
	r.mu.Lock()
	id, ok := r.numbers[number]
	r.mu.Unlock()
	if !ok {
		return models.Order{}, fmt.Errorf("%w: order %s", apperr.ErrNotFound, number)
	}
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) ListTracking(_ context.Context, orderID int64) ([]models.TrackingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.TrackingEvent(nil), r.tracking[orderID]...), nil
}

func (r *fakeOrderRepo) Transition(_ context.Context, orderID int64, mutate core.Mutator) (models.Order, models.TrackingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return models.Order{}, models.TrackingEvent{}, fmt.Errorf("%w: order %d", apperr.ErrNotFound, orderID)
	}
	o = cloneOrder(o)
	ev, err := mutate(&o)
	if err != nil {
		return models.Order{}, models.TrackingEvent{}, err
	}
	r.nextID++
	ev.ID = r.nextID
	ev.OrderID = orderID
	r.orders[orderID] = o
	r.tracking[orderID] = append(r.tracking[orderID], ev)
	return cloneOrder(o), ev, nil
}

func (r *fakeOrderRepo) ListByStatus(_ context.Context, statuses []models.Status, limit int) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[models.Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []models.Order
	for _, o := range r.orders {
		if want[o.Status] {
			out = append(out, cloneOrder(o))
		}
	}
	return newestFirst(out, limit), nil
}

func (r *fakeOrderRepo) ListRecent(_ context.Context, limit int) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	return newestFirst(out, limit), nil
}

func (r *fakeOrderRepo) CountByStatus(_ context.Context) (map[models.Status]int, models.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.Status]int)
	var revenue models.Money
	for _, o := range r.orders {
		counts[o.Status]++
		if o.Status != models.StatusCancelled {
			revenue += o.Total
		}
	}
	return counts, revenue, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %d", apperr.ErrNotFound, orderID)
	}
	delete(r.orders, orderID)
	delete(r.numbers, o.OrderNumber)
	delete(r.tracking, orderID)
	return nil
}

func newestFirst(orders []models.Order, limit int) []models.Order {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.PaidAt = cloneTime(o.PaidAt)
	o.PreparingAt = cloneTime(o.PreparingAt)
	o.ReadyAt = cloneTime(o.ReadyAt)
	o.CompletedAt = cloneTime(o.CompletedAt)
	return o
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

type fakePriceBook struct {
	prices map[int64]models.MenuPrice
	err    error
}

func newFakePriceBook() *fakePriceBook {
	return &fakePriceBook{prices: map[int64]models.MenuPrice{
		1: {MenuItemID: 1, Name: "Fries", UnitPrice: 399, Available: true},
		2: {MenuItemID: 2, Name: "Tea", UnitPrice: 249, Available: true},
		3: {MenuItemID: 3, Name: "Soup", UnitPrice: 550, Available: false},
	}}
}

func (b *fakePriceBook) Prices(_ context.Context, ids []int64) (map[int64]models.MenuPrice, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make(map[int64]models.MenuPrice, len(ids))
	for _, id := range ids {
		if p, ok := b.prices[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []dto.StatusChanged
	err  error
}

func (p *fakePublisher) PublishStatusChanged(_ context.Context, msg dto.StatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
