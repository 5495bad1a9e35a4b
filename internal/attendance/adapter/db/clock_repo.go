package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crispy/internal/attendance/app/core"
	"crispy/internal/attendance/domain/models"
	xdb "crispy/internal/xpkg/db"
	apperr "crispy/internal/xpkg/errors"

	"github.com/jackc/pgx/v5"
)

const (
	openShiftIndex = "staff_clock_ins_open_key"
	staffUserFKey  = "staff_clock_ins_staff_id_fkey"
)

const clockColumns = `
		c.id,
		c.staff_id,
		COALESCE(u.name, u.email, ''),
		c.clock_in,
		c.clock_out,
		c.break_minutes,
		COALESCE(c.notes, '')`

type ClockRepo struct {
	db core.IDB
}

func NewClockRepo(db core.IDB) *ClockRepo {
	return &ClockRepo{db: db}
}

// Open relies on the partial unique index over open records, so two
// concurrent clock-ins cannot both succeed.
func (cr *ClockRepo) Open(ctx context.Context, staffID int64, at time.Time, notes string) (models.ClockRecord, error) {
	q := `
	INSERT INTO staff_clock_ins (staff_id, clock_in, notes)
	VALUES ($1, $2, NULLIF($3, ''))
	RETURNING id`

	record := models.ClockRecord{StaffID: staffID, ClockIn: at, Notes: notes}
	if err := cr.db.GetPool().QueryRow(ctx, q, staffID, at, notes).Scan(&record.ID); err != nil {
		return models.ClockRecord{}, openErr(err, staffID)
	}
	return record, nil
}

// openErr maps constraint failures of a clock-in insert. Staff rows in users
// are provisioned by the account layer.
func openErr(err error, staffID int64) error {
	switch {
	case xdb.IsUniqueViolation(err, openShiftIndex):
		return fmt.Errorf("%w: staff %d", apperr.ErrAlreadyClockedIn, staffID)
	case xdb.IsForeignKeyViolation(err, staffUserFKey):
		return fmt.Errorf("%w: staff %d has no user account", apperr.ErrForbidden, staffID)
	default:
		return fmt.Errorf("failed to insert clock-in: %w", err)
	}
}

func (cr *ClockRepo) Close(ctx context.Context, staffID int64, at time.Time, breakMinutes int) (models.ClockRecord, error) {
	q := `
	WITH closed AS (
		UPDATE
			staff_clock_ins
		SET
			clock_out = GREATEST(clock_in, $2),
			break_minutes = $3
		WHERE
			staff_id = $1 AND clock_out IS NULL
		RETURNING *
	)
	SELECT` + clockColumns + `
	FROM closed c
	LEFT JOIN users u ON u.id = c.staff_id`

	record, err := scanClock(cr.db.GetPool().QueryRow(ctx, q, staffID, at, breakMinutes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ClockRecord{}, fmt.Errorf("%w: staff %d", apperr.ErrNotClockedIn, staffID)
		}
		return models.ClockRecord{}, fmt.Errorf("failed to update clock-out: %w", err)
	}
	return record, nil
}

func (cr *ClockRepo) ListActive(ctx context.Context) ([]models.ClockRecord, error) {
	q := `
	SELECT` + clockColumns + `
	FROM staff_clock_ins c
	LEFT JOIN users u ON u.id = c.staff_id
	WHERE c.clock_out IS NULL
	ORDER BY c.clock_in`
	return cr.list(ctx, q)
}

func (cr *ClockRepo) ListByStaff(ctx context.Context, staffID int64, limit int) ([]models.ClockRecord, error) {
	q := `
	SELECT` + clockColumns + `
	FROM staff_clock_ins c
	LEFT JOIN users u ON u.id = c.staff_id
	WHERE c.staff_id = $1
	ORDER BY c.clock_in DESC
	LIMIT $2`
	return cr.list(ctx, q, staffID, limit)
}

func (cr *ClockRepo) list(ctx context.Context, q string, args ...any) ([]models.ClockRecord, error) {
	rows, err := cr.db.GetPool().Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clock records: %w", err)
	}
	defer rows.Close()

	var records []models.ClockRecord
	for rows.Next() {
		r, err := scanClock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanClock(row pgx.Row) (models.ClockRecord, error) {
	var r models.ClockRecord
	err := row.Scan(
		&r.ID,
		&r.StaffID,
		&r.StaffName,
		&r.ClockIn,
		&r.ClockOut,
		&r.BreakMinutes,
		&r.Notes,
	)
	return r, err
}
