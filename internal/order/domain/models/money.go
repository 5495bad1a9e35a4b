package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in cents.
type Money int64

// MoneyFromFloat rounds a decimal currency amount to the nearest cent.
func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

func (m Money) Cents() int64 { return int64(m) }

func (m Money) Float64() float64 { return float64(m) / 100 }

// Mul multiplies by a quantity.
func (m Money) Mul(qty int) Money { return m * Money(qty) }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes as a JSON number with two decimals, e.g. 10.47.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", data, err)
	}
	*m = MoneyFromFloat(f)
	return nil
}
