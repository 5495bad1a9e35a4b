package services

import (
	"sort"
	"time"

	"crispy/internal/analytics/app/core"
	"crispy/internal/analytics/domain/dto"
	"crispy/internal/analytics/domain/models"
	ordermodels "crispy/internal/order/domain/models"
)

func counted(s ordermodels.Status) bool {
	return s != ordermodels.StatusCancelled
}

// Totals sums revenue and counts non-cancelled orders created in w.
func Totals(orders []models.OrderFact, w models.Window, now time.Time) dto.WindowTotals {
	var t dto.WindowTotals
	for _, o := range orders {
		if counted(o.Status) && w.Contains(o.CreatedAt, now) {
			t.Revenue += o.Total
			t.Orders++
		}
	}
	return t
}

// Average divides revenue by count, rounding half away from zero to the
// cent. Zero orders give zero.
func Average(t dto.WindowTotals) ordermodels.Money {
	if t.Orders == 0 {
		return 0
	}
	n := ordermodels.Money(t.Orders)
	return (t.Revenue + n/2) / n
}

// TopItems ranks item names by quantity sold in w. Equal quantities are
// ordered by name.
func TopItems(items []models.ItemFact, w models.Window, now time.Time, limit int) []dto.TopItem {
	byName := make(map[string]int)
	for _, it := range items {
		if counted(it.OrderStatus) && w.Contains(it.OrderCreatedAt, now) {
			byName[it.Name] += it.Quantity
		}
	}
	return rank(byName, limit)
}

func rank(byName map[string]int, limit int) []dto.TopItem {
	top := make([]dto.TopItem, 0, len(byName))
	for name, qty := range byName {
		top = append(top, dto.TopItem{Name: name, Quantity: qty})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

// HourlyDistribution buckets today's non-cancelled orders by UTC hour.
func HourlyDistribution(orders []models.OrderFact, now time.Time) [24]int {
	var hours [24]int
	for _, o := range orders {
		if counted(o.Status) && models.WindowToday.Contains(o.CreatedAt, now) {
			hours[o.CreatedAt.UTC().Hour()]++
		}
	}
	return hours
}

// DailyRevenueSeries covers the last days calendar days, oldest first,
// ending with today.
func DailyRevenueSeries(orders []models.OrderFact, now time.Time, days int) []dto.DayRevenue {
	today := models.Midnight(now)
	first := today.AddDate(0, 0, -(days - 1))

	series := make([]dto.DayRevenue, days)
	for i := range series {
		d := first.AddDate(0, 0, i)
		series[i] = dto.DayRevenue{
			Date: d.Format(core.DateLayout),
			Day:  d.Format("Mon"),
		}
	}
	for _, o := range orders {
		if !counted(o.Status) {
			continue
		}
		i := int(models.Midnight(o.CreatedAt).Sub(first).Hours() / 24)
		if i < 0 || i >= days {
			continue
		}
		series[i].Revenue += o.Total
		series[i].Orders++
	}
	return series
}

// Summarize assembles the analytics payload from month-window rows.
func Summarize(orders []models.OrderFact, items []models.ItemFact, now time.Time) dto.Summary {
	month := Totals(orders, models.WindowMonth, now)
	return dto.Summary{
		Today:              Totals(orders, models.WindowToday, now),
		Week:               Totals(orders, models.WindowWeek, now),
		Month:              month,
		AverageOrderValue:  Average(month),
		TopItems:           TopItems(items, models.WindowMonth, now, core.TopItemsLimit),
		HourlyDistribution: HourlyDistribution(orders, now),
		DailyRevenue:       DailyRevenueSeries(orders, now, core.DailySeriesDays),
	}
}

// ComputeDailySales rolls up the non-cancelled orders created on day.
func ComputeDailySales(orders []models.OrderFact, items []models.ItemFact, day time.Time) dto.DailySales {
	start := models.Midnight(day)
	end := start.AddDate(0, 0, 1)
	on := func(t time.Time) bool {
		return !t.Before(start) && t.Before(end)
	}

	var totals dto.WindowTotals
	for _, o := range orders {
		if counted(o.Status) && on(o.CreatedAt) {
			totals.Revenue += o.Total
			totals.Orders++
		}
	}
	byName := make(map[string]int)
	for _, it := range items {
		if counted(it.OrderStatus) && on(it.OrderCreatedAt) {
			byName[it.Name] += it.Quantity
		}
	}

	sales := dto.DailySales{
		Date:              start.Format(core.DateLayout),
		TotalOrders:       totals.Orders,
		TotalRevenue:      totals.Revenue,
		AverageOrderValue: Average(totals),
	}
	if top := rank(byName, 1); len(top) > 0 {
		sales.TopItem = top[0].Name
	}
	return sales
}
