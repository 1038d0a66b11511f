package engine

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"landed-cost/core/fit"
	"landed-cost/core/order"
	"landed-cost/core/rates"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
	"landed-cost/internal/metrics"
)

func init() {
	logging.UseLogger(zap.NewNop())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func speaker(qty int64) types.LineItem {
	return types.MustLineItem(types.LineItemInput{
		Name:       "Bluetooth Speaker",
		VolumeCuft: 0.5,
		WeightLbs:  2,
		Quantity:   qty,
		UnitCost:   10,
		Category:   "electronics",
	})
}

func jacket(qty int64) types.LineItem {
	return types.MustLineItem(types.LineItemInput{
		Name:       "Jacket",
		VolumeCuft: 2,
		WeightLbs:  3,
		Quantity:   qty,
		UnitCost:   25,
		Category:   "apparel",
	})
}

func newEngine() *Engine {
	return New(rates.NewStaticProvider(rates.Default()), nil, DefaultOptions())
}

func request(items ...types.LineItem) Request {
	req := DefaultRequest()
	req.Order = order.New(items...)
	return req
}

func assertAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestCalculate40HighCube(t *testing.T) {
	r, err := newEngine().Calculate(context.Background(), request(speaker(1)))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if r.Fit.Units != 4842 || r.Costs.Units != 4842 {
		t.Fatalf("fit %d / costs %d units, want 4842", r.Fit.Units, r.Costs.Units)
	}
	assertAmount(t, "space utilization", r.Fit.SpaceUtilizationPct, "90")
	assertAmount(t, "total", r.Costs.Total, "80193.61")
	assertAmount(t, "per unit", r.Costs.PerUnit, "16.56")

	if r.Amazon == nil || r.Walmart == nil {
		t.Fatal("both marketplaces should be estimated by default")
	}
	assertAmount(t, "amazon total", r.Amazon.Total, "8.24")
	assertAmount(t, "walmart total", r.Walmart.Total, "7.98")

	p := r.Pricing
	if !p.SellingPriceDefaulted {
		t.Error("selling price should default to the markup")
	}
	assertAmount(t, "selling price", p.SellingPrice, "30")
	assertAmount(t, "landed cost", p.LandedCostPerUnit, "24.80")
	assertAmount(t, "suggested price", p.SuggestedPrice, "35.43")
	assertAmount(t, "gross margin", p.GrossMarginPerUnit, "5.20")
	assertAmount(t, "gross margin pct", p.GrossMarginPct, "17.33")
	assertAmount(t, "target margin pct", p.TargetMarginPct, "30")

	if r.ID == "" || r.RatesSource != rates.SourceDefault || r.RatesFingerprint == "" {
		t.Errorf("missing metadata: id=%q source=%q fingerprint=%q", r.ID, r.RatesSource, r.RatesFingerprint)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestCalculateRefusesOverCapacity(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := New(rates.NewStaticProvider(rates.Default()), metrics.New(reg), DefaultOptions())

	_, err := e.Calculate(context.Background(), request(speaker(6000)))
	if !errors.IsType(err, errors.TypeCapacity) {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", err)
	}
	if !strings.Contains(err.Error(), "need 2700 cu ft, max 2690 cu ft") {
		t.Errorf("message = %q", err.Error())
	}

	if _, err := e.Calculate(context.Background(), request(speaker(1))); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	n, err := testutil.GatherAndCount(reg, "landed_cost_calculations_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Errorf("calculation series = %d, want 2 (rejected and success)", n)
	}
}

func TestCapacityCountsEveryItem(t *testing.T) {
	// Each item fits alone; together they do not.
	_, err := newEngine().Calculate(context.Background(), request(speaker(4000), jacket(500)))
	if !errors.IsType(err, errors.TypeCapacity) {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", err)
	}
}

func TestRepresentativeModeUsesFirstItem(t *testing.T) {
	r, err := newEngine().Calculate(context.Background(), request(speaker(10), jacket(10)))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.Item.Name != "Bluetooth Speaker" || r.Costs.Units != 4842 {
		t.Errorf("priced %q x%d, want the speaker x4842", r.Item.Name, r.Costs.Units)
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "1 more item") {
		t.Errorf("warnings = %v", r.Warnings)
	}
	if r.OrderTotals.Items != 2 || r.OrderTotals.Units != 20 {
		t.Errorf("order totals = %+v", r.OrderTotals)
	}
}

func TestOrderModePricesWholeOrder(t *testing.T) {
	req := request(speaker(1000), jacket(100))
	req.Mode = ModeOrder

	r, err := newEngine().Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.Fit.Binding != fit.BindingOrder || r.Fit.Units != 1100 {
		t.Errorf("fit = %d (%s), want 1100 (order)", r.Fit.Units, r.Fit.Binding)
	}
	assertAmount(t, "total", r.Costs.Total, "22831.56")
	assertAmount(t, "tariff", r.Costs.Tariff, "3696.35")
	if len(r.Costs.Items) != 2 {
		t.Errorf("item tariffs = %d, want 2", len(r.Costs.Items))
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestExplicitDefaultTableMatchesFallback(t *testing.T) {
	providers := map[string]*rates.Provider{
		"static":  rates.NewStaticProvider(rates.Default()),
		"no path": rates.NewProvider("", nil),
		"missing": rates.NewProvider(filepath.Join(t.TempDir(), "nope.yaml"), nil),
	}

	req := request(speaker(1), jacket(3))
	var want string
	for name, p := range providers {
		r, err := New(p, nil, DefaultOptions()).Calculate(context.Background(), req)
		if err != nil {
			t.Fatalf("%s: Calculate: %v", name, err)
		}
		r.ID = ""
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		if want == "" {
			want = string(data)
			continue
		}
		if string(data) != want {
			t.Errorf("%s: result differs from the built-in table", name)
		}
	}
}

// pairedRates hands out one fixed table and source.
type pairedRates struct {
	table  *rates.RatesConfig
	source rates.Source
}

func (p pairedRates) Snapshot() (*rates.RatesConfig, rates.Source) {
	return p.table, p.source
}

func TestResultReportsSourceOfTableUsed(t *testing.T) {
	table := rates.Default()
	table.TariffRates.Default = 10

	e := New(pairedRates{table: table, source: rates.SourceFile}, nil, DefaultOptions())
	r, err := e.Calculate(context.Background(), request(speaker(1)))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.RatesSource != rates.SourceFile || r.RatesFingerprint != table.Fingerprint() {
		t.Errorf("rates = %s/%s, want file/%s", r.RatesSource, r.RatesFingerprint, table.Fingerprint())
	}
}

func TestMarketplaceToggles(t *testing.T) {
	req := request(speaker(1))
	req.IncludeAmazon = false
	req.IncludeWalmart = false
	req.SellingPrice = dec("40")

	r, err := newEngine().Calculate(context.Background(), req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.Amazon != nil || r.Walmart != nil {
		t.Error("disabled marketplaces were estimated")
	}
	if r.Pricing.SellingPriceDefaulted {
		t.Error("explicit selling price reported as defaulted")
	}
	assertAmount(t, "landed cost", r.Pricing.LandedCostPerUnit, "16.56")
	assertAmount(t, "gross margin", r.Pricing.GrossMarginPerUnit, "23.44")
}

func TestOverflowWarning(t *testing.T) {
	safe := types.MustLineItem(types.LineItemInput{Name: "Safe", VolumeCuft: 1, WeightLbs: 60000, Quantity: 1, UnitCost: 900})

	r, err := newEngine().Calculate(context.Background(), request(safe))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.Fit.Binding != fit.BindingMinimum || r.Fit.Units != 1 {
		t.Errorf("fit = %d (%s), want 1 (minimum)", r.Fit.Units, r.Fit.Binding)
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "overflows") {
		t.Errorf("warnings = %v", r.Warnings)
	}
}

func TestCalculateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Request)
		want   errors.Type
	}{
		{"empty order", func(r *Request) { r.Order = order.Order{} }, errors.TypeInput},
		{"bad mode", func(r *Request) { r.Mode = "bulk" }, errors.TypeInput},
		{"bad target", func(r *Request) { r.UtilizationTarget = dec("1.5") }, errors.TypeInput},
		{"negative price", func(r *Request) { r.SellingPrice = dec("-1") }, errors.TypeInput},
		{"negative days", func(r *Request) { r.ChinaWarehouseDays = -3 }, errors.TypeInput},
		{"unknown container", func(r *Request) { r.ContainerID = "53ft" }, errors.TypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(speaker(1))
			tt.modify(&req)
			_, err := newEngine().Calculate(context.Background(), req)
			if !errors.IsType(err, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, err)
			}
		})
	}
}

func TestCalculateHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newEngine().Calculate(ctx, request(speaker(1))); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeRepresentative, "representative": ModeRepresentative, "order": ModeOrder} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %s, %v", in, got, err)
		}
	}
}
