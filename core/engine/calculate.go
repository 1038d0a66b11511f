// Package engine runs landed-cost calculations: the capacity check, the
// container fit, the import cost aggregate and the marketplace fee estimates.
// The CLI and the HTTP API are thin wrappers around it.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"landed-cost/core/fit"
	"landed-cost/core/landed"
	"landed-cost/core/marketplace"
	"landed-cost/core/order"
	"landed-cost/core/rates"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
	"landed-cost/internal/metrics"
)

// Mode selects how an order with several items is priced.
type Mode string

const (
	// ModeRepresentative fits and prices the first item alone as a full
	// container load. Further items only count toward the capacity check.
	ModeRepresentative Mode = "representative"

	// ModeOrder prices every item at its entered quantity as one shared
	// load, taxing each item at its own category rate.
	ModeOrder Mode = "order"
)

// ParseMode parses a mode name. Empty selects ModeRepresentative.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeRepresentative:
		return ModeRepresentative, nil
	case ModeOrder:
		return ModeOrder, nil
	}
	return "", errors.Inputf("unknown mode %q (use %s or %s)", s, ModeRepresentative, ModeOrder)
}

// RatesProvider supplies the rates table for a calculation.
type RatesProvider interface {
	Snapshot() (*rates.RatesConfig, rates.Source)
}

// Options tune the pricing summary.
type Options struct {
	// Markup is applied to the unit cost when a request has no selling price
	Markup decimal.Decimal

	// TargetMargin is the gross margin the suggested price aims for
	TargetMargin decimal.Decimal
}

// DefaultOptions returns a 3x markup and a 30% target margin.
func DefaultOptions() Options {
	return Options{
		Markup:       decimal.NewFromInt(3),
		TargetMargin: decimal.RequireFromString("0.30"),
	}
}

// Engine runs calculations against the current rates table. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	rates   RatesProvider
	metrics *metrics.Metrics
	opts    Options
	log     *zap.Logger
}

// New creates an engine. m may be nil.
func New(provider RatesProvider, m *metrics.Metrics, opts Options) *Engine {
	return &Engine{
		rates:   provider,
		metrics: m,
		opts:    opts,
		log:     logging.Named("engine"),
	}
}

// Request is the input to a calculation.
type Request struct {
	Order               order.Order
	ContainerID         string
	UtilizationTarget   decimal.Decimal
	ChinaWarehouseDays  int64
	OceanFreightPerCuft decimal.Decimal
	InlandTrucking      decimal.Decimal

	// SellingPrice is the per-unit marketplace price; zero prices at the
	// engine's markup over unit cost
	SellingPrice decimal.Decimal

	IncludeAmazon  bool
	IncludeWalmart bool
	Mode           Mode
}

// DefaultRequest returns the standard parameters with an empty order.
func DefaultRequest() Request {
	return Request{
		ContainerID:         "40hc",
		UtilizationTarget:   decimal.RequireFromString("0.90"),
		ChinaWarehouseDays:  7,
		OceanFreightPerCuft: decimal.NewFromInt(2),
		InlandTrucking:      decimal.NewFromInt(1200),
		IncludeAmazon:       true,
		IncludeWalmart:      true,
		Mode:                ModeRepresentative,
	}
}

// Pricing relates the landed unit cost to the selling price.
type Pricing struct {
	SellingPrice          decimal.Decimal `json:"selling_price"`
	SellingPriceDefaulted bool            `json:"selling_price_defaulted"`
	ImportCostPerUnit     decimal.Decimal `json:"import_cost_per_unit"`
	MarketplaceFeePerUnit decimal.Decimal `json:"marketplace_fee_per_unit"`
	LandedCostPerUnit     decimal.Decimal `json:"landed_cost_per_unit"`
	SuggestedPrice        decimal.Decimal `json:"suggested_price"`
	TargetMarginPct       decimal.Decimal `json:"target_margin_percent"`
	GrossMarginPerUnit    decimal.Decimal `json:"gross_margin_per_unit"`
	GrossMarginPct        decimal.Decimal `json:"gross_margin_percent"`
}

// Result is the outcome of a calculation.
type Result struct {
	ID                string          `json:"id"`
	Mode              Mode            `json:"mode"`
	ContainerID       string          `json:"container_id"`
	UtilizationTarget decimal.Decimal `json:"utilization_target"`
	RatesSource       rates.Source    `json:"rates_source"`
	RatesFingerprint  string          `json:"rates_fingerprint"`

	// Item is the line item the fit and fee estimates were made for
	Item  types.LineItem   `json:"item"`
	Items []types.LineItem `json:"items"`

	Fit     fit.Result                `json:"fit"`
	Costs   landed.Breakdown          `json:"costs"`
	Amazon  *marketplace.FeeBreakdown `json:"amazon,omitempty"`
	Walmart *marketplace.FeeBreakdown `json:"walmart,omitempty"`
	Pricing Pricing                   `json:"pricing"`

	OrderTotals order.Totals `json:"order_totals"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// Calculate runs one calculation. The only blocking validation is the
// container capacity check, which returns a CAPACITY_EXCEEDED error.
func (e *Engine) Calculate(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	result, err := e.calculate(ctx, req)

	outcome := metrics.ResultSuccess
	switch {
	case errors.IsType(err, errors.TypeCapacity):
		outcome = metrics.ResultRejected
	case err != nil:
		outcome = metrics.ResultError
	}
	e.metrics.ObserveCalculation(outcome, modeLabel(req.Mode), started)

	if err != nil {
		e.log.Debug("calculation refused", zap.String("outcome", outcome), zap.Error(err))
		return nil, err
	}
	e.log.Info("calculation complete",
		zap.String("id", result.ID),
		zap.String("mode", string(result.Mode)),
		zap.String("container", result.ContainerID),
		zap.Int64("units", result.Costs.Units),
		zap.String("total", result.Costs.Total.StringFixed(2)),
		zap.Duration("took", time.Since(started)),
	)
	return result, nil
}

func modeLabel(m Mode) string {
	mode, err := ParseMode(string(m))
	if err != nil {
		return "invalid"
	}
	return string(mode)
}

func (e *Engine) calculate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}
	if req.Order.IsEmpty() {
		return nil, errors.Input("order has no items; add at least one line item")
	}
	if err := fit.ValidateTarget(req.UtilizationTarget); err != nil {
		return nil, err
	}
	if req.SellingPrice.IsNegative() {
		return nil, errors.Inputf("selling price must not be negative, got %s", req.SellingPrice)
	}
	params := landed.Params{
		ChinaWarehouseDays:  req.ChinaWarehouseDays,
		OceanFreightPerCuft: req.OceanFreightPerCuft,
		InlandTrucking:      req.InlandTrucking,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	table, source := e.rates.Snapshot()
	container, err := table.Container(req.ContainerID)
	if err != nil {
		return nil, err
	}

	items := req.Order.Items()
	if err := fit.CheckCapacity(items, container, req.UtilizationTarget); err != nil {
		return nil, err
	}

	item, _ := req.Order.First()
	result := &Result{
		ID:                uuid.NewString(),
		Mode:              mode,
		ContainerID:       container.ID,
		UtilizationTarget: req.UtilizationTarget,
		RatesSource:       source,
		RatesFingerprint:  table.Fingerprint(),
		Item:              item,
		Items:             items,
		OrderTotals:       req.Order.Totals(),
	}

	switch mode {
	case ModeOrder:
		result.Fit = fit.Utilization(items, container)
		result.Costs, err = landed.AggregateOrder(items, params, table)
	default:
		result.Fit, err = fit.EstimateFit(item, container, req.UtilizationTarget)
		if err != nil {
			return nil, err
		}
		result.Costs, err = landed.AggregateCosts(item, result.Fit.Units, params, table)
		if extra := len(items) - 1; extra > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%d more item(s) in the order were not priced; %s mode prices %q only (use %s mode for the whole order)",
				extra, ModeRepresentative, item.Name, ModeOrder))
		}
	}
	if err != nil {
		return nil, err
	}

	if result.Fit.Overflow() {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"load overflows the container: space %s%%, weight %s%%",
			result.Fit.SpaceUtilizationPct.StringFixed(2), result.Fit.WeightUtilizationPct.StringFixed(2)))
	}

	price, defaulted := req.SellingPrice, false
	if price.IsZero() {
		price, defaulted = types.Round2(item.UnitCost.Mul(e.opts.Markup)), true
	}
	if req.IncludeAmazon {
		fees := marketplace.EstimateAmazon(item, price, table)
		result.Amazon = &fees
	}
	if req.IncludeWalmart {
		fees := marketplace.EstimateWalmart(item, price, table)
		result.Walmart = &fees
	}
	result.Pricing = e.price(result, price, defaulted)

	return result, nil
}

// price builds the pricing summary from the rounded per-unit figures, so it
// agrees with what is displayed. Amazon fees count toward landed cost when
// Amazon is included.
func (e *Engine) price(r *Result, sellingPrice decimal.Decimal, defaulted bool) Pricing {
	fees := decimal.Zero
	if r.Amazon != nil {
		fees = r.Amazon.Total
	}
	landedCost := r.Costs.PerUnit.Add(fees)

	suggested := decimal.Zero
	if keep := decimal.NewFromInt(1).Sub(e.opts.TargetMargin); keep.IsPositive() {
		suggested = landedCost.Div(keep)
	}
	margin := sellingPrice.Sub(landedCost)

	return Pricing{
		SellingPrice:          sellingPrice,
		SellingPriceDefaulted: defaulted,
		ImportCostPerUnit:     r.Costs.PerUnit,
		MarketplaceFeePerUnit: fees,
		LandedCostPerUnit:     landedCost,
		SuggestedPrice:        types.Round2(suggested),
		TargetMarginPct:       types.Round2(e.opts.TargetMargin.Mul(types.Hundred)),
		GrossMarginPerUnit:    types.Round2(margin),
		GrossMarginPct:        types.Round2(types.SafeDiv(margin, sellingPrice).Mul(types.Hundred)),
	}
}
