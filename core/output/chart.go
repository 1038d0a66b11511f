package output

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/engine"
	"landed-cost/core/types"
)

// Slice is one segment of a cost distribution chart.
type Slice struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// CostDistribution returns the non-zero import cost lines with their share
// of the line sum, for a pie or donut chart.
func CostDistribution(result *engine.Result) []Slice {
	lines := result.Costs.Lines()
	sum := types.SumLines(lines)

	slices := make([]Slice, 0, len(lines))
	for _, line := range lines {
		if line.Amount.IsZero() {
			continue
		}
		slices = append(slices, Slice{
			Key:     line.Key,
			Label:   line.Label,
			Amount:  line.Amount,
			Percent: types.Round2(types.SafeDiv(line.Amount, sum).Mul(types.Hundred)),
		})
	}
	return slices
}

// Band is a utilization gauge band.
type Band string

const (
	BandLow  Band = "low"
	BandFair Band = "fair"
	BandGood Band = "good"
	BandOver Band = "over"
)

var (
	fairFrom = decimal.NewFromInt(70)
	goodFrom = decimal.NewFromInt(90)
)

// UtilizationBand places a utilization percentage on the gauge: below 70 is
// low, 70 up to 90 fair, 90 through 100 good, anything above 100 over.
func UtilizationBand(pct decimal.Decimal) Band {
	switch {
	case pct.GreaterThan(types.Hundred):
		return BandOver
	case pct.GreaterThanOrEqual(goodFrom):
		return BandGood
	case pct.GreaterThanOrEqual(fairFrom):
		return BandFair
	}
	return BandLow
}
