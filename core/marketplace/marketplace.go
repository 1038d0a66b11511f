// Package marketplace estimates per-unit marketplace fulfillment fees.
// The Amazon and Walmart estimators are independent pure functions; callers
// toggle each on or off.
package marketplace

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/rates"
	"landed-cost/core/types"
)

// Marketplace identifies a fee schedule.
type Marketplace string

const (
	Amazon  Marketplace = "amazon"
	Walmart Marketplace = "walmart"
)

// DisplayName returns the marketplace name for reports.
func (m Marketplace) DisplayName() string {
	switch m {
	case Amazon:
		return "Amazon FBA"
	case Walmart:
		return "Walmart WFS"
	}
	return string(m)
}

// OuncesPerPound converts item weight for tier lookup.
var OuncesPerPound = decimal.NewFromInt(16)

// FeeBreakdown is the per-unit fee estimate for one marketplace. Amounts are
// rounded to cents; Total is rounded once from the unrounded parts. Fees a
// marketplace does not charge are zero.
type FeeBreakdown struct {
	Marketplace      Marketplace     `json:"marketplace"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	ReferralRate     decimal.Decimal `json:"referral_rate"`
	ReferralCategory types.Category  `json:"referral_category"`

	Referral       decimal.Decimal `json:"referral_fee"`
	Fulfillment    decimal.Decimal `json:"fulfillment_fee"`
	PickPack       decimal.Decimal `json:"pick_pack_fee"`
	Storage        decimal.Decimal `json:"storage_fee"`
	WeightHandling decimal.Decimal `json:"weight_handling_fee"`
	Total          decimal.Decimal `json:"total"`

	// FulfillmentTierOz is the matched weight tier (Amazon only)
	FulfillmentTierOz decimal.Decimal `json:"fulfillment_tier_oz"`
}

// Lines returns the fee lines this marketplace charges.
func (f FeeBreakdown) Lines() []types.CostLine {
	lines := []types.CostLine{
		{Key: "referral", Label: "Referral fee", Amount: f.Referral},
		{Key: "fulfillment", Label: "Fulfillment fee", Amount: f.Fulfillment},
	}
	if f.Marketplace == Walmart {
		lines = append(lines, types.CostLine{Key: "pick_pack", Label: "Pick & pack", Amount: f.PickPack})
	}
	lines = append(lines, types.CostLine{Key: "storage", Label: "Monthly storage", Amount: f.Storage})
	if f.Marketplace == Walmart {
		lines = append(lines, types.CostLine{Key: "weight_handling", Label: "Weight handling", Amount: f.WeightHandling})
	}
	return lines
}

// EstimateAmazon prices one unit of item under the FBA schedule.
func EstimateAmazon(item types.LineItem, sellingPrice decimal.Decimal, table *rates.RatesConfig) FeeBreakdown {
	fees := table.FBAFees
	price := types.NonNegative(sellingPrice)

	category, rate := fees.ReferralRates.Resolve(item.Category)
	referral := price.Mul(rate)
	tierOz, fulfillment := fulfillmentTier(fees.FulfillmentTiers, item.WeightLbs.Mul(OuncesPerPound))
	storage := item.VolumeCuft.Mul(decimal.NewFromFloat(fees.StoragePerCuftMonth))

	return FeeBreakdown{
		Marketplace:       Amazon,
		SellingPrice:      types.Round2(price),
		ReferralRate:      rate,
		ReferralCategory:  category,
		Referral:          types.Round2(referral),
		Fulfillment:       types.Round2(fulfillment),
		Storage:           types.Round2(storage),
		Total:             types.Round2(referral.Add(fulfillment).Add(storage)),
		FulfillmentTierOz: tierOz,
	}
}

// fulfillmentTier returns the first tier whose threshold covers weightOz.
// Heavier items fall back to the smallest tier. tiers must be sorted
// ascending, as a normalized table is.
func fulfillmentTier(tiers []rates.FulfillmentTier, weightOz decimal.Decimal) (threshold, fee decimal.Decimal) {
	if len(tiers) == 0 {
		return decimal.Zero, decimal.Zero
	}
	for _, tier := range tiers {
		limit := decimal.NewFromFloat(tier.MaxWeightOz)
		if limit.GreaterThanOrEqual(weightOz) {
			return limit, decimal.NewFromFloat(tier.Fee)
		}
	}
	return decimal.NewFromFloat(tiers[0].MaxWeightOz), decimal.NewFromFloat(tiers[0].Fee)
}

// EstimateWalmart prices one unit of item under the WFS schedule.
func EstimateWalmart(item types.LineItem, sellingPrice decimal.Decimal, table *rates.RatesConfig) FeeBreakdown {
	fees := table.WFSFees
	price := types.NonNegative(sellingPrice)
	one := decimal.NewFromInt(1)

	category, rate := fees.ReferralRates.Resolve(item.Category)
	referral := price.Mul(rate)
	fulfillment := item.WeightLbs.Mul(decimal.NewFromFloat(fees.FulfillmentPerLb))
	pickPack := decimal.NewFromFloat(fees.PickPackFee)
	storage := item.VolumeCuft.Mul(decimal.NewFromFloat(fees.StoragePerCuftMonth))
	extraLbs := decimal.Max(decimal.Zero, item.WeightLbs.Sub(one))
	handling := decimal.NewFromFloat(fees.WeightHandling.FirstLb).
		Add(extraLbs.Mul(decimal.NewFromFloat(fees.WeightHandling.AdditionalLb)))

	total := referral.Add(fulfillment).Add(pickPack).Add(storage).Add(handling)

	return FeeBreakdown{
		Marketplace:      Walmart,
		SellingPrice:     types.Round2(price),
		ReferralRate:     rate,
		ReferralCategory: category,
		Referral:         types.Round2(referral),
		Fulfillment:      types.Round2(fulfillment),
		PickPack:         types.Round2(pickPack),
		Storage:          types.Round2(storage),
		WeightHandling:   types.Round2(handling),
		Total:            types.Round2(total),
	}
}
