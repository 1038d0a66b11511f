// Package order holds the working list of line items a user is building.
// An Order is a value: Add and Clear return a new order and never modify
// the receiver, so a presentation layer can keep history or share orders
// between requests without copying.
package order

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/types"
)

// Order is an ordered, append-only list of line items.
type Order struct {
	items []types.LineItem
}

// New returns an order holding items in the given order.
func New(items ...types.LineItem) Order {
	return Order{items: append([]types.LineItem(nil), items...)}
}

// Add returns a new order with item appended.
func (o Order) Add(item types.LineItem) Order {
	items := make([]types.LineItem, len(o.items), len(o.items)+1)
	copy(items, o.items)
	return Order{items: append(items, item)}
}

// Clear returns an empty order.
func (o Order) Clear() Order {
	return Order{}
}

// Items returns a copy of the line items.
func (o Order) Items() []types.LineItem {
	return append([]types.LineItem(nil), o.items...)
}

// Len returns the number of line items.
func (o Order) Len() int {
	return len(o.items)
}

// IsEmpty reports whether the order has no items.
func (o Order) IsEmpty() bool {
	return len(o.items) == 0
}

// First returns the first line item, which drives a representative
// calculation.
func (o Order) First() (types.LineItem, bool) {
	if len(o.items) == 0 {
		return types.LineItem{}, false
	}
	return o.items[0], true
}

// Totals summarizes the entered quantities of every item.
type Totals struct {
	Items      int             `json:"items"`
	Units      int64           `json:"units"`
	Cost       decimal.Decimal `json:"cost"`
	VolumeCuft decimal.Decimal `json:"volume_cuft"`
	WeightLbs  decimal.Decimal `json:"weight_lbs"`
}

// Totals sums units, cost, volume and weight across all items, rounded to
// two places. It is for display; calculations work from the items.
func (o Order) Totals() Totals {
	t := Totals{Items: len(o.items)}
	cost, volume, weight := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range o.items {
		t.Units += item.Quantity
		cost = cost.Add(item.TotalCost())
		volume = volume.Add(item.TotalVolumeCuft())
		weight = weight.Add(item.TotalWeightLbs())
	}
	t.Cost = types.Round2(cost)
	t.VolumeCuft = types.Round2(volume)
	t.WeightLbs = types.Round2(weight)
	return t
}
