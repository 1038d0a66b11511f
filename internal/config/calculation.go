package config

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/engine"
)

// Request returns an engine request with these defaults and an empty order.
func (c CalculationConfig) Request() engine.Request {
	return engine.Request{
		ContainerID:         c.ContainerID,
		UtilizationTarget:   decimal.NewFromFloat(c.UtilizationTarget),
		ChinaWarehouseDays:  int64(c.ChinaWarehouseDays),
		OceanFreightPerCuft: decimal.NewFromFloat(c.OceanFreightPerCuft),
		InlandTrucking:      decimal.NewFromFloat(c.InlandTrucking),
		IncludeAmazon:       c.IncludeAmazon,
		IncludeWalmart:      c.IncludeWalmart,
		Mode:                engine.ModeRepresentative,
	}
}

// EngineOptions returns the pricing options. Non-positive values keep the
// engine defaults.
func (c CalculationConfig) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	if c.Markup > 0 {
		opts.Markup = decimal.NewFromFloat(c.Markup)
	}
	if c.TargetMargin > 0 && c.TargetMargin < 1 {
		opts.TargetMargin = decimal.NewFromFloat(c.TargetMargin)
	}
	return opts
}
