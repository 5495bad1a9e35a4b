package models

// MenuPrice is the live catalog price of a menu item at checkout time.
type MenuPrice struct {
	MenuItemID int64
	Name       string
	UnitPrice  Money
	Available  bool
}
