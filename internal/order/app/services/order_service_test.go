package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"crispy/internal/order/domain/dto"
	"crispy/internal/order/domain/models"
	"crispy/internal/xpkg/auth"
	apperr "crispy/internal/xpkg/errors"
	"crispy/internal/xpkg/logger"
	"crispy/internal/xpkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	staff    = auth.Identity{ID: 42, Name: "Dana", Role: auth.RoleStaff}
	customer = auth.Identity{ID: 7, Role: auth.RoleCustomer}
	t0       = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc   *OrderService
	repo  *fakeOrderRepo
	menu  *fakePriceBook
	pub   *fakePublisher
	clock *fakeClock
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		repo:  newFakeOrderRepo(),
		menu:  newFakePriceBook(),
		pub:   &fakePublisher{},
		clock: &fakeClock{now: t0},
	}
	if opts.Now == nil {
		opts.Now = f.clock.Now
	}
	f.svc = NewOrderService(f.repo, f.menu, f.pub, metrics.New(), logger.Discard(), opts)
	return f
}

func friesAndTea() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		CustomerName:  "Sam",
		CustomerEmail: "sam@example.com",
		Items: []dto.LineItem{
			{MenuItemID: 1, Name: "Fries", UnitPrice: models.MoneyFromFloat(3.99), Quantity: 2},
			{MenuItemID: 2, Name: "Tea", UnitPrice: models.MoneyFromFloat(2.49), Quantity: 1},
		},
	}
}

func TestNewOrderNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[A-Z0-9]{8}$`)
	seen := make(map[string]bool)
	for range 1000 {
		n := NewOrderNumber()
		assert.Regexp(t, re, n)
		seen[n] = true
	}
	// 36^8 space; a collision in 1000 draws would be suspicious
	assert.Len(t, seen, 1000)
}

func TestCreateOrderScenario(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	req := friesAndTea()
	req.Total = models.MoneyFromFloat(1.00) // client total is ignored
	order, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "10.47", order.Total.String())
	assert.Equal(t, models.StatusPaid, order.Status)
	assert.Equal(t, 15, order.EstimatedReadyMinutes)
	require.NotNil(t, order.PaidAt)
	assert.Equal(t, t0, *order.PaidAt)
	assert.Len(t, order.Items, 2)

	snap, err := f.svc.Snapshot(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, snap.Tracking, 1)
	assert.Equal(t, models.StatusPaid, snap.Tracking[0].Status)
	assert.Equal(t, 25, snap.ProgressPercentage)

	f.clock.Advance(3 * time.Minute)
	ev, err := f.svc.ApplyTransition(ctx, staff, order.ID, "preparing", "on the grill")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, ev.Status)
	assert.Equal(t, "Dana", ev.ChangedBy)

	snap, err = f.svc.SnapshotByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, 60, snap.ProgressPercentage)
	require.NotNil(t, snap.PreparingAt)
	assert.Equal(t, t0.Add(3*time.Minute), *snap.PreparingAt)
	require.Len(t, snap.Tracking, 2)
	assert.Equal(t, models.StatusPreparing, snap.Tracking[1].Status)
	assert.Equal(t, "on the grill", snap.Tracking[1].Notes)
	assert.Equal(t, int64(180), snap.ElapsedSeconds)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	empty := friesAndTea()
	empty.Items = nil
	_, err := f.svc.Create(ctx, empty)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	zero := friesAndTea()
	zero.Items[1].Quantity = 0
	_, err = f.svc.Create(ctx, zero)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	negative := friesAndTea()
	negative.Items[0].Quantity = -3
	_, err = f.svc.Create(ctx, negative)
	var vErr *apperr.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "items[0].quantity", vErr.Field)

	noName := friesAndTea()
	noName.CustomerName = "  "
	_, err = f.svc.Create(ctx, noName)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	assert.Empty(t, f.repo.orders)
}

func TestCreateOrderPricesFromCatalog(t *testing.T) {
	f := newFixture(t, Options{})

	req := friesAndTea()
	req.Items[0].Name = "Free fries"
	req.Items[0].UnitPrice = 0
	req.Items[0].Quantity = 50
	order, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "201.99", order.Total.String())
	assert.Equal(t, "Fries", order.Items[0].Name)
	assert.Equal(t, models.Money(399), order.Items[0].UnitPrice)
}

func TestCreateOrderBounds(t *testing.T) {
	f := newFixture(t, Options{})
	f.menu.prices[9] = models.MenuPrice{MenuItemID: 9, Name: "Gold", UnitPrice: 1 << 62, Available: true}
	ctx := context.Background()

	tests := []struct {
		name  string
		edit  func(req *dto.CheckoutRequest)
		field string
	}{
		{"quantity above max", func(req *dto.CheckoutRequest) { req.Items[0].Quantity = 51 }, "items[0].quantity"},
		{"too many lines", func(req *dto.CheckoutRequest) {
			for range 20 {
				req.Items = append(req.Items, req.Items[1])
			}
		}, "items"},
		{"catalog price out of range", func(req *dto.CheckoutRequest) {
			req.Items[0] = dto.LineItem{MenuItemID: 9, Quantity: 4}
		}, "items[0].unit_price"},
		{"unknown menu item", func(req *dto.CheckoutRequest) { req.Items[1].MenuItemID = 77 }, "items[1].menu_item_id"},
		{"unavailable menu item", func(req *dto.CheckoutRequest) { req.Items[0].MenuItemID = 3 }, "items[0].menu_item_id"},
		{"missing menu item id", func(req *dto.CheckoutRequest) { req.Items[0].MenuItemID = 0 }, "items[0].menu_item_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := friesAndTea()
			tt.edit(&req)
			_, err := f.svc.Create(ctx, req)
			var vErr *apperr.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrderPriceBookFailure(t *testing.T) {
	f := newFixture(t, Options{})
	f.menu.err = errors.New("connection reset")

	_, err := f.svc.Create(context.Background(), friesAndTea())
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrValidation))
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrderRetriesOnCollision(t *testing.T) {
	numbers := []string{"ORD-AAAAAAAA", "ORD-AAAAAAAA", "ORD-BBBBBBBB"}
	var i int
	f := newFixture(t, Options{NewOrderNumber: func() string {
		n := numbers[i]
		i++
		return n
	}})
	ctx := context.Background()

	first, err := f.svc.Create(ctx, friesAndTea())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, friesAndTea())
	require.NoError(t, err)

	assert.Equal(t, "ORD-AAAAAAAA", first.OrderNumber)
	assert.Equal(t, "ORD-BBBBBBBB", second.OrderNumber)
	assert.Len(t, f.repo.orders, 2)
}

func TestCreateOrderConflictAfterRetryBudget(t *testing.T) {
	f := newFixture(t, Options{NewOrderNumber: func() string { return "ORD-SAMESAME" }})
	ctx := context.Background()

	_, err := f.svc.Create(ctx, friesAndTea())
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, friesAndTea())
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Len(t, f.repo.orders, 1)
}

func TestGetOrderNotFound(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.Get(context.Background(), 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.svc.SnapshotByNumber(context.Background(), "ORD-NOPE0000")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestGetByNumberNormalizesInput(t *testing.T) {
	f := newFixture(t, Options{NewOrderNumber: func() string { return "ORD-ABCD1234" }})
	_, err := f.svc.Create(context.Background(), friesAndTea())
	require.NoError(t, err)

	o, err := f.svc.GetByNumber(context.Background(), " ord-abcd1234 ")
	require.NoError(t, err)
	assert.Equal(t, "ORD-ABCD1234", o.OrderNumber)
}

func TestPurgeRequiresAdmin(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	order, err := f.svc.Create(ctx, friesAndTea())
	require.NoError(t, err)

	err = f.svc.Purge(ctx, staff, order.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	admin := auth.Identity{ID: 1, Role: auth.RoleAdmin}
	require.NoError(t, f.svc.Purge(ctx, admin, order.ID))
	assert.Empty(t, f.repo.tracking[order.ID])

	_, err = f.svc.Get(ctx, order.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestConcurrentCreatesProduceUniqueNumbers(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(ctx, friesAndTea())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, f.repo.numbers, 50)
}
