package core

const (
	// RecentShiftsLimit is how many past records a staff member sees.
	RecentShiftsLimit = 14
	MaxNotesLen       = 500
	MaxBreakMinutes   = 24 * 60

	KindClockIn  = "clock_in"
	KindClockOut = "clock_out"
)
