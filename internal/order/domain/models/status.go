package models

import (
	"fmt"
	"strings"

	apperr "crispy/internal/xpkg/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusPaid,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
}

// ActiveStatuses are the statuses the kitchen is still working on.
var ActiveStatuses = []Status{StatusPaid, StatusPreparing, StatusReady}

var progress = map[Status]int{
	StatusPending:   10,
	StatusPaid:      25,
	StatusPreparing: 60,
	StatusReady:     90,
	StatusCompleted: 100,
	StatusCancelled: 0,
}

// ParseStatus accepts only the six lifecycle values (case and surrounding
// whitespace are ignored).
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := progress[st]; !ok {
		return "", fmt.Errorf("%w: %q", apperr.ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := progress[s]
	return ok
}

// Progress is the customer-facing completion percentage.
func (s Status) Progress() int {
	return progress[s]
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// rank is the position on the forward path; cancelled is off the path.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusPaid:
		return 1
	case StatusPreparing:
		return 2
	case StatusReady:
		return 3
	case StatusCompleted:
		return 4
	}
	return -1
}

// CheckTransition validates from -> to. Lenient mode accepts any pair of
// valid statuses. Strict mode allows re-applying the current status, a
// single forward step, and cancellation from a non-terminal status.
func CheckTransition(from, to Status, strict bool) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidStatus, to)
	}
	if !strict || from == to {
		return nil
	}
	if from.IsTerminal() {
		return apperr.NewValidation("status", "order is %s and cannot move to %s", from, to)
	}
	if to == StatusCancelled || to.rank() == from.rank()+1 {
		return nil
	}
	return apperr.NewValidation("status", "cannot move from %s to %s", from, to)
}
