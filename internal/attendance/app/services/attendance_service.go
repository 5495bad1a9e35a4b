package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crispy/internal/attendance/app/core"
	"crispy/internal/attendance/domain/dto"
	"crispy/internal/attendance/domain/models"
	"crispy/internal/xpkg/auth"
	apperr "crispy/internal/xpkg/errors"
	"crispy/internal/xpkg/logger"
	"crispy/internal/xpkg/metrics"
)

type AttendanceService struct {
	clockRepo core.IClockRepo
	metrics   *metrics.Metrics
	mylog     logger.Logger
	now       func() time.Time
}

// NewAttendanceService builds the attendance tracker. now defaults to
// time.Now when nil.
func NewAttendanceService(clockRepo core.IClockRepo, m *metrics.Metrics, mylogger logger.Logger, now func() time.Time) *AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{
		clockRepo: clockRepo,
		metrics:   m,
		mylog:     mylogger,
		now:       now,
	}
}

// ClockIn opens a shift for the caller.
func (as *AttendanceService) ClockIn(ctx context.Context, actor auth.Identity, notes string) (models.ClockRecord, error) {
	mylog := as.mylog.Action("clock_in").With("staff_id", actor.ID)
	if err := auth.RequireStaff(actor); err != nil {
		return models.ClockRecord{}, err
	}

	notes = strings.TrimSpace(notes)
	if len(notes) > core.MaxNotesLen {
		return models.ClockRecord{}, apperr.NewValidation("notes", "must be at most %d characters", core.MaxNotesLen)
	}

	record, err := as.clockRepo.Open(ctx, actor.ID, as.now().UTC(), notes)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyClockedIn) {
			mylog.Warn("Staff already clocked in")
			return models.ClockRecord{}, err
		}
		if errors.Is(err, apperr.ErrForbidden) {
			mylog.Warn("Staff has no user account")
			return models.ClockRecord{}, err
		}
		mylog.Error("Failed to clock in", err)
		return models.ClockRecord{}, fmt.Errorf("cannot clock in: %w", err)
	}

	as.metrics.AttendanceEvents.WithLabelValues(core.KindClockIn).Inc()
	mylog.Info("Staff clocked in", "record_id", record.ID, "staff", actor.Label())
	return record, nil
}

// ClockOut closes the caller's open shift and returns it with the hours
// worked. Negative breaks are treated as zero; breaks over a day are
// rejected.
func (as *AttendanceService) ClockOut(ctx context.Context, actor auth.Identity, breakMinutes int) (models.ClockRecord, float64, error) {
	mylog := as.mylog.Action("clock_out").With("staff_id", actor.ID)
	if err := auth.RequireStaff(actor); err != nil {
		return models.ClockRecord{}, 0, err
	}
	if breakMinutes > core.MaxBreakMinutes {
		return models.ClockRecord{}, 0, apperr.NewValidation("break_minutes", "must be at most %d", core.MaxBreakMinutes)
	}

	record, err := as.clockRepo.Close(ctx, actor.ID, as.now().UTC(), models.ClampBreak(breakMinutes))
	if err != nil {
		if errors.Is(err, apperr.ErrNotClockedIn) {
			mylog.Warn("Staff is not clocked in")
			return models.ClockRecord{}, 0, err
		}
		mylog.Error("Failed to clock out", err)
		return models.ClockRecord{}, 0, fmt.Errorf("cannot clock out: %w", err)
	}

	hours := record.HoursWorked(as.now())
	as.metrics.AttendanceEvents.WithLabelValues(core.KindClockOut).Inc()
	mylog.Info("Staff clocked out", "record_id", record.ID, "hours_worked", hours)
	return record, hours, nil
}

// ListActive returns everyone currently on shift with live hours.
func (as *AttendanceService) ListActive(ctx context.Context, actor auth.Identity) ([]dto.Shift, error) {
	if err := auth.RequireStaff(actor); err != nil {
		return nil, err
	}
	records, err := as.clockRepo.ListActive(ctx)
	if err != nil {
		as.mylog.Action("list_active_shifts").Error("Failed to list active shifts", err)
		return nil, fmt.Errorf("cannot list active shifts: %w", err)
	}
	return as.toShifts(records), nil
}

// ActiveCount is the live headcount for the stats widget.
func (as *AttendanceService) ActiveCount(ctx context.Context, actor auth.Identity) (int, error) {
	shifts, err := as.ListActive(ctx, actor)
	if err != nil {
		return 0, err
	}
	return len(shifts), nil
}

// Recent returns the caller's latest shifts, newest first.
func (as *AttendanceService) Recent(ctx context.Context, actor auth.Identity) ([]dto.Shift, error) {
	if err := auth.RequireStaff(actor); err != nil {
		return nil, err
	}
	records, err := as.clockRepo.ListByStaff(ctx, actor.ID, core.RecentShiftsLimit)
	if err != nil {
		as.mylog.Action("list_recent_shifts").Error("Failed to list shifts", err, "staff_id", actor.ID)
		return nil, fmt.Errorf("cannot list shifts: %w", err)
	}
	return as.toShifts(records), nil
}

func (as *AttendanceService) toShifts(records []models.ClockRecord) []dto.Shift {
	now := as.now()
	shifts := make([]dto.Shift, 0, len(records))
	for _, r := range records {
		shifts = append(shifts, dto.Shift{
			ID:           r.ID,
			StaffID:      r.StaffID,
			StaffName:    r.StaffName,
			ClockIn:      r.ClockIn,
			ClockOut:     r.ClockOut,
			BreakMinutes: r.BreakMinutes,
			Notes:        r.Notes,
			HoursWorked:  r.HoursWorked(now),
			Active:       r.Active(),
		})
	}
	return shifts
}
