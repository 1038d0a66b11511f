package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"landed-cost/core/engine"
	"landed-cost/core/marketplace"
	"landed-cost/core/types"
)

const (
	boxTop    = "┌─────────────────────────────────────────────────────────────────────────┐"
	boxRule   = "├─────────────────────────────────────────────────────────────────────────┤"
	boxBottom = "└─────────────────────────────────────────────────────────────────────────┘"
)

type cliFormatter struct {
	opts Options
}

func (f *cliFormatter) Format() Format { return FormatCLI }

func (f *cliFormatter) Render(w io.Writer, r *engine.Result) error {
	b := &boxWriter{w: w}

	b.line(boxTop)
	b.title("LANDED COST ESTIMATE")
	b.line(boxRule)
	b.row("Container", r.ContainerID)
	b.row("Mode", string(r.Mode))
	b.row("Item", r.Item.Name)
	b.row("Units", fmt.Sprintf("%d (%s)", r.Fit.Units, r.Fit.Binding))
	b.row("Space utilization", fmt.Sprintf("%s%% [%s]", r.Fit.SpaceUtilizationPct.StringFixed(2), UtilizationBand(r.Fit.SpaceUtilizationPct)))
	b.row("Weight utilization", r.Fit.WeightUtilizationPct.StringFixed(2)+"%")
	b.row("Remaining volume", r.Fit.RemainingVolumeCuft.StringFixed(2)+" cu ft")

	b.line(boxRule)
	b.title("IMPORT COSTS")
	b.line(boxRule)
	if f.opts.ShowDetails {
		for _, line := range r.Costs.Lines() {
			b.row(line.Label, money(line.Amount))
		}
		b.row("Tariff rate", fmt.Sprintf("%s%% (%s)", r.Costs.TariffRatePct.String(), r.Costs.TariffCategory))
		b.line(boxRule)
	}
	b.row("Total import cost", money(r.Costs.Total))
	b.row("Per unit", money(r.Costs.PerUnit))

	for _, fees := range []*marketplace.FeeBreakdown{r.Amazon, r.Walmart} {
		if fees == nil {
			continue
		}
		b.line(boxRule)
		b.title(strings.ToUpper(fees.Marketplace.DisplayName()) + " FEES (PER UNIT)")
		b.line(boxRule)
		if f.opts.ShowDetails {
			for _, line := range fees.Lines() {
				b.row(line.Label, money(line.Amount))
			}
		}
		b.row("Total fees", money(fees.Total))
	}

	p := r.Pricing
	b.line(boxRule)
	b.title("PRICING")
	b.line(boxRule)
	price := money(p.SellingPrice)
	if p.SellingPriceDefaulted {
		price += " (markup)"
	}
	b.row("Selling price", price)
	b.row("Landed cost per unit", money(p.LandedCostPerUnit))
	b.row("Gross margin", fmt.Sprintf("%s (%s%%)", money(p.GrossMarginPerUnit), p.GrossMarginPct.StringFixed(2)))
	b.row(fmt.Sprintf("Price for %s%% margin", p.TargetMarginPct.String()), money(p.SuggestedPrice))
	b.line(boxBottom)

	for _, warning := range r.Warnings {
		b.printf("Warning: %s\n", warning)
	}
	b.printf("\nRates: %s (%s)\n", r.RatesSource, r.RatesFingerprint)
	return b.err
}

// boxWriter keeps the first write error so rendering code stays linear.
type boxWriter struct {
	w   io.Writer
	err error
}

func (b *boxWriter) printf(format string, args ...interface{}) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.w, format, args...)
}

func (b *boxWriter) line(s string) {
	b.printf("%s\n", s)
}

func (b *boxWriter) title(s string) {
	pad := 71 - len([]rune(s))
	left := pad / 2
	b.printf("│ %s%s%s │\n", strings.Repeat(" ", left), s, strings.Repeat(" ", pad-left))
}

func (b *boxWriter) row(label, value string) {
	b.printf("│ %-50s %20s │\n", truncate(label, 50), truncate(value, 20))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func money(d decimal.Decimal) string {
	return "$" + types.Round2(d).StringFixed(2)
}
