package output

import (
	"fmt"
	"io"

	"landed-cost/core/order"
)

// RenderOrder writes the working order as a boxed list with totals.
func RenderOrder(w io.Writer, o order.Order) error {
	b := &boxWriter{w: w}
	b.line(boxTop)
	b.title("WORKING ORDER")
	b.line(boxRule)
	if o.IsEmpty() {
		b.row("(no items)", "")
		b.line(boxBottom)
		return b.err
	}

	for i, item := range o.Items() {
		label := fmt.Sprintf("%d. %s", i+1, item.Name)
		if item.Category != "" {
			label += " [" + item.Category + "]"
		}
		b.row(label, fmt.Sprintf("%d × %s", item.Quantity, money(item.UnitCost)))
		b.row(fmt.Sprintf("   %s cu ft, %s lbs each", item.VolumeCuft.StringFixed(3), item.WeightLbs.StringFixed(2)), "")
	}

	t := o.Totals()
	b.line(boxRule)
	b.row(fmt.Sprintf("Items: %d, units: %d", t.Items, t.Units), money(t.Cost))
	b.row("Total volume (cu ft)", t.VolumeCuft.StringFixed(2))
	b.row("Total weight (lbs)", t.WeightLbs.StringFixed(2))
	b.line(boxBottom)
	return b.err
}
