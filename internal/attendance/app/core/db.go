package core

import (
	"context"
	"time"

	"crispy/internal/attendance/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	GetPool() *pgxpool.Pool
	IsAlive(ctx context.Context) error
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type IClockRepo interface {
	// Open inserts an open record. It fails with ErrAlreadyClockedIn when
	// the staff member already has one.
	Open(ctx context.Context, staffID int64, at time.Time, notes string) (models.ClockRecord, error)
	// Close sets clock-out and break on the open record. It fails with
	// ErrNotClockedIn when there is none.
	Close(ctx context.Context, staffID int64, at time.Time, breakMinutes int) (models.ClockRecord, error)
	ListActive(ctx context.Context) ([]models.ClockRecord, error)
	ListByStaff(ctx context.Context, staffID int64, limit int) ([]models.ClockRecord, error)
}
