package dto

import (
	ordermodels "crispy/internal/order/domain/models"
)

type WindowTotals struct {
	Revenue ordermodels.Money `json:"revenue"`
	Orders  int               `json:"orders"`
}

type TopItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type DayRevenue struct {
	Date    string            `json:"date"`
	Day     string            `json:"day"`
	Revenue ordermodels.Money `json:"revenue"`
	Orders  int               `json:"orders"`
}

// Summary is the manager analytics payload.
type Summary struct {
	Today              WindowTotals      `json:"today"`
	Week               WindowTotals      `json:"week"`
	Month              WindowTotals      `json:"month"`
	AverageOrderValue  ordermodels.Money `json:"average_order_value"`
	TopItems           []TopItem         `json:"top_items"`
	HourlyDistribution [24]int           `json:"hourly_distribution"`
	DailyRevenue       []DayRevenue      `json:"daily_revenue"`
}

// DailySales is the rollup of one UTC date. It is computed on request and
// never stored.
type DailySales struct {
	Date              string            `json:"date"`
	TotalOrders       int               `json:"total_orders"`
	TotalRevenue      ordermodels.Money `json:"total_revenue"`
	AverageOrderValue ordermodels.Money `json:"average_order_value"`
	TopItem           string            `json:"top_item"`
}
