package order

import (
	"testing"

	"github.com/shopspring/decimal"

	"landed-cost/core/types"
)

func line(name string, qty int64) types.LineItem {
	return types.MustLineItem(types.LineItemInput{
		Name:       name,
		VolumeCuft: 0.5,
		WeightLbs:  2,
		Quantity:   qty,
		UnitCost:   10,
		Category:   "electronics",
	})
}

func TestAddReturnsNewOrder(t *testing.T) {
	empty := Order{}
	one := empty.Add(line("a", 1))
	two := one.Add(line("b", 2))

	if !empty.IsEmpty() || one.Len() != 1 || two.Len() != 2 {
		t.Fatalf("lengths = %d, %d, %d", empty.Len(), one.Len(), two.Len())
	}

	// Appending to the same base twice must not share storage.
	left := two.Add(line("left", 1))
	right := two.Add(line("right", 1))
	if left.Items()[2].Name != "left" || right.Items()[2].Name != "right" {
		t.Errorf("branches share storage: %s / %s", left.Items()[2].Name, right.Items()[2].Name)
	}
}

func TestItemsIsACopy(t *testing.T) {
	o := New(line("a", 1), line("b", 1))
	items := o.Items()
	items[0].Name = "changed"

	if first, _ := o.First(); first.Name != "a" {
		t.Errorf("First().Name = %q, want a", first.Name)
	}
}

func TestClear(t *testing.T) {
	o := New(line("a", 1))
	cleared := o.Clear()
	if !cleared.IsEmpty() {
		t.Error("Clear() returned a non-empty order")
	}
	if o.Len() != 1 {
		t.Error("Clear() modified the receiver")
	}
	if _, ok := cleared.First(); ok {
		t.Error("First() on an empty order reported an item")
	}
}

func TestTotals(t *testing.T) {
	o := New(line("a", 100), line("b", 50))
	got := o.Totals()

	if got.Items != 2 || got.Units != 150 {
		t.Errorf("items/units = %d/%d, want 2/150", got.Items, got.Units)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want int64
	}{
		{"cost", got.Cost, 1500},
		{"volume", got.VolumeCuft, 75},
		{"weight", got.WeightLbs, 300},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.NewFromInt(c.want)) {
			t.Errorf("%s = %s, want %d", c.name, c.got, c.want)
		}
	}
}
