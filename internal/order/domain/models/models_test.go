package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperr "crispy/internal/xpkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	want := map[Status]int{
		StatusPending:   10,
		StatusPaid:      25,
		StatusPreparing: 60,
		StatusReady:     90,
		StatusCompleted: 100,
		StatusCancelled: 0,
	}
	for st, pct := range want {
		assert.Equal(t, pct, st.Progress(), st)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Preparing ")
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, st)

	_, err = ParseStatus("cooking")
	assert.True(t, errors.Is(err, apperr.ErrInvalidStatus))
}

func TestCheckTransitionLenient(t *testing.T) {
	for _, from := range Statuses {
		for _, to := range Statuses {
			assert.NoError(t, CheckTransition(from, to, false), "%s -> %s", from, to)
		}
	}
	assert.Error(t, CheckTransition(StatusPaid, "baking", false))
}

func TestCheckTransitionStrict(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPaid, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusCompleted, true},
		{StatusPreparing, StatusPreparing, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPending, StatusReady, false},
		{StatusReady, StatusPreparing, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPaid, false},
	}
	for _, tt := range tests {
		err := CheckTransition(tt.from, tt.to, true)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
			continue
		}
		assert.True(t, errors.Is(err, apperr.ErrValidation), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionStampsMilestoneOnce(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o := &Order{Status: StatusPaid, CreatedAt: created}

	first := created.Add(2 * time.Minute)
	prev, err := o.Transition(StatusPreparing, first, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, prev)
	require.NotNil(t, o.PreparingAt)
	assert.Equal(t, first, *o.PreparingAt)

	_, err = o.Transition(StatusReady, created.Add(5*time.Minute), false)
	require.NoError(t, err)

	// re-entering preparing keeps the first stamp
	_, err = o.Transition(StatusPreparing, created.Add(9*time.Minute), false)
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, o.Status)
	assert.Equal(t, first, *o.PreparingAt)
	assert.Equal(t, created.Add(9*time.Minute), o.UpdatedAt)
}

func TestTransitionRejectedLeavesOrderUntouched(t *testing.T) {
	o := &Order{Status: StatusPaid}
	_, err := o.Transition("baking", time.Now(), false)
	assert.Error(t, err)
	assert.Equal(t, StatusPaid, o.Status)
	assert.Nil(t, o.PreparingAt)
}

func TestElapsedSeconds(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o := &Order{CreatedAt: created}
	assert.Equal(t, int64(90), o.ElapsedSeconds(created.Add(90*time.Second+400*time.Millisecond)))
	assert.Equal(t, int64(0), o.ElapsedSeconds(created.Add(-time.Minute)))
}

func TestSumItems(t *testing.T) {
	items := []OrderItem{
		{Name: "Fries", UnitPrice: MoneyFromFloat(3.99), Quantity: 2},
		{Name: "Tea", UnitPrice: MoneyFromFloat(2.49), Quantity: 1},
	}
	assert.Equal(t, Money(1047), SumItems(items))
	assert.Equal(t, "10.47", SumItems(items).String())
}

func TestMoneyJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`3.99`), &m))
	assert.Equal(t, Money(399), m)

	require.NoError(t, json.Unmarshal([]byte(`"12.5"`), &m))
	assert.Equal(t, Money(1250), m)

	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Money(1047)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 10.47}`, string(b))

	assert.Equal(t, "-0.05", Money(-5).String())
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}
