package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoursWorked(t *testing.T) {
	in := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		t := in.Add(d)
		return &t
	}

	tests := []struct {
		name   string
		record ClockRecord
		now    time.Time
		want   float64
	}{
		{"closed shift", ClockRecord{ClockIn: in, ClockOut: at(8 * time.Hour)}, in, 8},
		{"break subtracted", ClockRecord{ClockIn: in, ClockOut: at(8 * time.Hour), BreakMinutes: 30}, in, 7.5},
		{"rounded to cents of an hour", ClockRecord{ClockIn: in, ClockOut: at(100 * time.Minute)}, in, 1.67},
		{"break longer than shift", ClockRecord{ClockIn: in, ClockOut: at(10 * time.Minute), BreakMinutes: 45}, in, 0},
		{"immediate clock out", ClockRecord{ClockIn: in, ClockOut: at(2 * time.Second)}, in, 0},
		{"active accrues to now", ClockRecord{ClockIn: in}, in.Add(90 * time.Minute), 1.5},
		{"clock skew", ClockRecord{ClockIn: in}, in.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.record.HoursWorked(tt.now), 1e-9)
		})
	}
}

func TestClampBreak(t *testing.T) {
	assert.Equal(t, 0, ClampBreak(-15))
	assert.Equal(t, 0, ClampBreak(0))
	assert.Equal(t, 20, ClampBreak(20))
}
