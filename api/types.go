package api

import (
	"github.com/shopspring/decimal"

	"landed-cost/adapters/orderfile"
	"landed-cost/core/engine"
	"landed-cost/core/rates"
)

// CalculateRequest is the body of POST /calculate and the export endpoints.
// Omitted parameters take the server defaults.
type CalculateRequest struct {
	Items []orderfile.Item `json:"items"`

	ContainerID         string   `json:"container_id,omitempty"`
	UtilizationTarget   *float64 `json:"utilization_target,omitempty"`
	ChinaWarehouseDays  *int64   `json:"china_warehouse_days,omitempty"`
	OceanFreightPerCuft *float64 `json:"ocean_freight_per_cuft,omitempty"`
	InlandTrucking      *float64 `json:"inland_trucking,omitempty"`

	// SellingPrice of zero prices at the default markup; a negative price is
	// rejected
	SellingPrice float64 `json:"selling_price,omitempty"`

	IncludeAmazon  *bool  `json:"include_amazon,omitempty"`
	IncludeWalmart *bool  `json:"include_walmart,omitempty"`
	Mode           string `json:"mode,omitempty"`
}

// toEngine overlays the request on defaults.
func (c CalculateRequest) toEngine(defaults engine.Request) (engine.Request, error) {
	o, err := orderfile.Document{Items: c.Items}.Order()
	if err != nil {
		return engine.Request{}, err
	}

	req := defaults
	req.Order = o
	if c.ContainerID != "" {
		req.ContainerID = c.ContainerID
	}
	if c.UtilizationTarget != nil {
		req.UtilizationTarget = decimal.NewFromFloat(*c.UtilizationTarget)
	}
	if c.ChinaWarehouseDays != nil {
		req.ChinaWarehouseDays = *c.ChinaWarehouseDays
	}
	if c.OceanFreightPerCuft != nil {
		req.OceanFreightPerCuft = decimal.NewFromFloat(*c.OceanFreightPerCuft)
	}
	if c.InlandTrucking != nil {
		req.InlandTrucking = decimal.NewFromFloat(*c.InlandTrucking)
	}
	if c.SellingPrice != 0 {
		req.SellingPrice = decimal.NewFromFloat(c.SellingPrice)
	}
	if c.IncludeAmazon != nil {
		req.IncludeAmazon = *c.IncludeAmazon
	}
	if c.IncludeWalmart != nil {
		req.IncludeWalmart = *c.IncludeWalmart
	}
	if c.Mode != "" {
		req.Mode = engine.Mode(c.Mode)
	}
	return req, nil
}

// RatesResponse is the body of GET /rates and POST /rates/reload.
type RatesResponse struct {
	Source      rates.Source       `json:"source"`
	Path        string             `json:"path,omitempty"`
	Fingerprint string             `json:"fingerprint"`
	LoadError   string             `json:"load_error,omitempty"`
	Rates       *rates.RatesConfig `json:"rates,omitempty"`
}

// ContainerInfo is one entry of GET /containers.
type ContainerInfo struct {
	ID         string  `json:"id"`
	VolumeCuft float64 `json:"volume_cuft"`
	PayloadLbs float64 `json:"payload_lbs"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error type as code, plus any context such as the
// required and maximum volumes of a capacity error.
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
