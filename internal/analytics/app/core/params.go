package core

const (
	TopItemsLimit   = 5
	DailySeriesDays = 7
	DateLayout      = "2006-01-02"
)
