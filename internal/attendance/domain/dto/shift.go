package dto

import "time"

// Shift is the JSON view of a clock record with its computed hours.
type Shift struct {
	ID           int64      `json:"id"`
	StaffID      int64      `json:"staff_id"`
	StaffName    string     `json:"staff_name,omitempty"`
	ClockIn      time.Time  `json:"clock_in"`
	ClockOut     *time.Time `json:"clock_out"`
	BreakMinutes int        `json:"break_minutes"`
	Notes        string     `json:"notes,omitempty"`
	HoursWorked  float64    `json:"hours_worked"`
	Active       bool       `json:"active"`
}
