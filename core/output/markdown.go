package output

import (
	"fmt"
	"io"
	"strings"

	"landed-cost/core/engine"
	"landed-cost/core/marketplace"
)

type markdownFormatter struct {
	opts Options
}

func (f *markdownFormatter) Format() Format { return FormatMarkdown }

func (f *markdownFormatter) Render(w io.Writer, r *engine.Result) error {
	var sb strings.Builder

	sb.WriteString("## Landed Cost Estimate\n\n")
	fmt.Fprintf(&sb, "**%s** in a `%s` container (%s mode)\n\n", r.Item.Name, r.ContainerID, r.Mode)

	sb.WriteString("| Fit | |\n|---|---:|\n")
	fmt.Fprintf(&sb, "| Units | %d (%s) |\n", r.Fit.Units, r.Fit.Binding)
	fmt.Fprintf(&sb, "| Space utilization | %s%% (%s) |\n", r.Fit.SpaceUtilizationPct.StringFixed(2), UtilizationBand(r.Fit.SpaceUtilizationPct))
	fmt.Fprintf(&sb, "| Weight utilization | %s%% |\n", r.Fit.WeightUtilizationPct.StringFixed(2))
	fmt.Fprintf(&sb, "| Remaining volume | %s cu ft |\n\n", r.Fit.RemainingVolumeCuft.StringFixed(2))

	sb.WriteString("| Import cost | Amount |\n|---|---:|\n")
	if f.opts.ShowDetails {
		for _, line := range r.Costs.Lines() {
			fmt.Fprintf(&sb, "| %s | %s |\n", line.Label, money(line.Amount))
		}
	}
	fmt.Fprintf(&sb, "| **Total** | **%s** |\n", money(r.Costs.Total))
	fmt.Fprintf(&sb, "| Per unit | %s |\n\n", money(r.Costs.PerUnit))

	for _, fees := range []*marketplace.FeeBreakdown{r.Amazon, r.Walmart} {
		if fees == nil {
			continue
		}
		fmt.Fprintf(&sb, "| %s fees (per unit) | Amount |\n|---|---:|\n", fees.Marketplace.DisplayName())
		if f.opts.ShowDetails {
			for _, line := range fees.Lines() {
				fmt.Fprintf(&sb, "| %s | %s |\n", line.Label, money(line.Amount))
			}
		}
		fmt.Fprintf(&sb, "| **Total** | **%s** |\n\n", money(fees.Total))
	}

	p := r.Pricing
	sb.WriteString("### Pricing\n\n")
	fmt.Fprintf(&sb, "- Selling price: %s\n", money(p.SellingPrice))
	fmt.Fprintf(&sb, "- Landed cost per unit: %s\n", money(p.LandedCostPerUnit))
	fmt.Fprintf(&sb, "- Gross margin: %s (%s%%)\n", money(p.GrossMarginPerUnit), p.GrossMarginPct.StringFixed(2))
	fmt.Fprintf(&sb, "- Price for %s%% margin: %s\n", p.TargetMarginPct.String(), money(p.SuggestedPrice))

	if len(r.Warnings) > 0 {
		sb.WriteString("\n### Warnings\n\n")
		for _, warning := range r.Warnings {
			fmt.Fprintf(&sb, "- %s\n", warning)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
