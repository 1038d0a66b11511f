// Package types - Money and cost line types
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

// CurrencyUSD is the only currency the engine prices in.
const CurrencyUSD Currency = "USD"

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Hundred is used for percent conversions.
var Hundred = decimal.NewFromInt(100)

// Round2 rounds a monetary or percentage value to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NonNegative returns d, or zero when d is negative.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// SafeDiv returns num/den, or zero when den is zero.
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// CostLine represents a single named monetary line
type CostLine struct {
	// Key is a stable machine-readable identifier (e.g. "ocean_freight")
	Key string `json:"key"`

	// Label is a human-readable label
	Label string `json:"label"`

	// Amount is rounded to cents
	Amount decimal.Decimal `json:"amount"`
}

// SumLines adds the amounts of lines.
func SumLines(lines []CostLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
