package marketplace

import (
	"testing"

	"github.com/shopspring/decimal"

	"landed-cost/core/rates"
	"landed-cost/core/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(weight, volume float64, category string) types.LineItem {
	return types.MustLineItem(types.LineItemInput{
		Name:       "Test item",
		VolumeCuft: volume,
		WeightLbs:  weight,
		Quantity:   1,
		UnitCost:   10,
		Category:   category,
	})
}

func checkFees(t *testing.T, got FeeBreakdown, want map[string]string) {
	t.Helper()
	fields := map[string]decimal.Decimal{
		"referral":        got.Referral,
		"fulfillment":     got.Fulfillment,
		"pick_pack":       got.PickPack,
		"storage":         got.Storage,
		"weight_handling": got.WeightHandling,
		"total":           got.Total,
	}
	for name, w := range want {
		if !fields[name].Equal(dec(w)) {
			t.Errorf("%s %s = %s, want %s", got.Marketplace, name, fields[name], w)
		}
	}
}

func TestEstimateAmazon(t *testing.T) {
	fees := EstimateAmazon(item(2, 0.5, "electronics"), dec("30"), rates.Default())

	checkFees(t, fees, map[string]string{
		"referral":    "2.40",
		"fulfillment": "5.40",
		"storage":     "0.44",
		"total":       "8.24",
		"pick_pack":   "0",
	})
	if !fees.FulfillmentTierOz.Equal(dec("32")) {
		t.Errorf("tier = %s oz, want 32", fees.FulfillmentTierOz)
	}
	if len(fees.Lines()) != 3 {
		t.Errorf("Lines() = %d, want 3", len(fees.Lines()))
	}
}

func TestAmazonFulfillmentTiers(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		wantTier string
		wantFee  string
	}{
		{"under first tier", 0.1, "4", "3.22"},
		{"exactly one pound", 1, "16", "3.77"},
		{"just over a pound", 1.01, "24", "4.75"},
		{"heaviest tier", 20, "320", "9.61"},
		{"heavier than every tier", 25, "4", "3.22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees := EstimateAmazon(item(tt.weight, 0.1, "home"), dec("20"), rates.Default())
			if !fees.FulfillmentTierOz.Equal(dec(tt.wantTier)) {
				t.Errorf("tier = %s, want %s", fees.FulfillmentTierOz, tt.wantTier)
			}
			if !fees.Fulfillment.Equal(dec(tt.wantFee)) {
				t.Errorf("fulfillment = %s, want %s", fees.Fulfillment, tt.wantFee)
			}
		})
	}
}

func TestEstimateWalmart(t *testing.T) {
	fees := EstimateWalmart(item(2, 0.5, "electronics"), dec("30"), rates.Default())

	checkFees(t, fees, map[string]string{
		"referral":        "2.40",
		"fulfillment":     "1.00",
		"pick_pack":       "3.45",
		"storage":         "0.38",
		"weight_handling": "0.75",
		"total":           "7.98",
	})
	if len(fees.Lines()) != 5 {
		t.Errorf("Lines() = %d, want 5", len(fees.Lines()))
	}
}

func TestWalmartWeightHandling(t *testing.T) {
	tests := []struct {
		weight float64
		want   string
	}{
		{0.5, "0.40"},
		{1, "0.40"},
		{3, "1.10"},
		{10.5, "3.73"}, // 0.40 + 9.5*0.35 = 3.725
	}

	for _, tt := range tests {
		fees := EstimateWalmart(item(tt.weight, 0.2, "toys"), dec("15"), rates.Default())
		if !fees.WeightHandling.Equal(dec(tt.want)) {
			t.Errorf("weight %v: handling = %s, want %s", tt.weight, fees.WeightHandling, tt.want)
		}
	}
}

func TestUnknownCategoryUsesDefaultReferral(t *testing.T) {
	table := rates.Default()
	table.FBAFees.ReferralRates.Default = 0.2
	table.WFSFees.ReferralRates.Default = 0.1

	amazon := EstimateAmazon(item(1, 0.1, "widgets"), dec("50"), table)
	walmart := EstimateWalmart(item(1, 0.1, "widgets"), dec("50"), table)

	if !amazon.Referral.Equal(dec("10")) || amazon.ReferralCategory.IsKnown() {
		t.Errorf("amazon referral = %s (%v), want 10 (other)", amazon.Referral, amazon.ReferralCategory)
	}
	if !walmart.Referral.Equal(dec("5")) || walmart.ReferralCategory.IsKnown() {
		t.Errorf("walmart referral = %s (%v), want 5 (other)", walmart.Referral, walmart.ReferralCategory)
	}
}

func TestEstimatorsAreIndependent(t *testing.T) {
	// footwear has an FBA rate but no WFS entry
	it := item(1, 0.1, "footwear")
	amazon := EstimateAmazon(it, dec("100"), rates.Default())
	walmart := EstimateWalmart(it, dec("100"), rates.Default())

	if !amazon.ReferralCategory.IsKnown() {
		t.Error("footwear should be a known FBA category")
	}
	if walmart.ReferralCategory.IsKnown() {
		t.Error("footwear should fall back to the WFS default")
	}
}

func TestNegativePriceClampsToZero(t *testing.T) {
	for _, fees := range []FeeBreakdown{
		EstimateAmazon(item(1, 0.1, "toys"), dec("-5"), rates.Default()),
		EstimateWalmart(item(1, 0.1, "toys"), dec("-5"), rates.Default()),
	} {
		if !fees.Referral.IsZero() || !fees.SellingPrice.IsZero() {
			t.Errorf("%s: referral %s on price %s", fees.Marketplace, fees.Referral, fees.SellingPrice)
		}
		for _, line := range fees.Lines() {
			if line.Amount.IsNegative() {
				t.Errorf("%s %s is negative: %s", fees.Marketplace, line.Key, line.Amount)
			}
		}
	}
}
