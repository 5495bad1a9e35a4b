package models

import (
	"math"
	"time"
)

// ClockRecord is one attendance interval. A nil ClockOut means the staff
// member is still on shift.
type ClockRecord struct {
	ID           int64
	StaffID      int64
	StaffName    string
	ClockIn      time.Time
	ClockOut     *time.Time
	BreakMinutes int
	Notes        string
}

func (r *ClockRecord) Active() bool {
	return r.ClockOut == nil
}

// HoursWorked is the interval length net of breaks, in hours rounded to two
// decimals and never negative. Active records accrue up to now.
func (r *ClockRecord) HoursWorked(now time.Time) float64 {
	end := now
	if r.ClockOut != nil {
		end = *r.ClockOut
	}
	hours := end.Sub(r.ClockIn).Hours() - float64(r.BreakMinutes)/60
	if hours <= 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}

// ClampBreak turns a negative break into zero.
func ClampBreak(minutes int) int {
	return max(minutes, 0)
}
