// Package landed aggregates the import cost of a container load, from the
// factory price through freight, customs and tariff to the US warehouse.
package landed

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/rates"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

var (
	// CuftPerCbm converts cubic feet to cubic meters for drayage.
	CuftPerCbm = decimal.RequireFromString("35.315")

	// DrayagePerCbm is the port-to-warehouse rate in dollars per cubic meter.
	DrayagePerCbm = decimal.NewFromInt(150)
)

// Params are the shipment inputs that do not come from the rates table.
type Params struct {
	ChinaWarehouseDays  int64
	OceanFreightPerCuft decimal.Decimal
	InlandTrucking      decimal.Decimal
}

// Validate rejects negative shipment inputs.
func (p Params) Validate() error {
	if p.ChinaWarehouseDays < 0 {
		return errors.Inputf("china warehouse days must not be negative, got %d", p.ChinaWarehouseDays)
	}
	if p.OceanFreightPerCuft.IsNegative() {
		return errors.Inputf("ocean freight rate must not be negative, got %s", p.OceanFreightPerCuft)
	}
	if p.InlandTrucking.IsNegative() {
		return errors.Inputf("inland trucking must not be negative, got %s", p.InlandTrucking)
	}
	return nil
}

// ItemTariff is the duty assessed on one line item.
type ItemTariff struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Category types.Category  `json:"category"`
	RatePct  decimal.Decimal `json:"rate_percent"`
	CIFValue decimal.Decimal `json:"cif_value"`
	Tariff   decimal.Decimal `json:"tariff"`
}

// Breakdown is the full import cost of a load. Every amount is rounded to
// cents on its own; Total and PerUnit are rounded once from the unrounded
// components, so Total may differ from the sum of the lines by a cent.
type Breakdown struct {
	Units      int64           `json:"units"`
	VolumeCuft decimal.Decimal `json:"volume_cuft"`

	ItemCost       decimal.Decimal `json:"total_item_cost"`
	OceanFreight   decimal.Decimal `json:"ocean_freight"`
	Warehousing    decimal.Decimal `json:"china_warehousing"`
	Insurance      decimal.Decimal `json:"insurance"`
	CustomsBond    decimal.Decimal `json:"customs_bond"`
	CustomsEntry   decimal.Decimal `json:"customs_entry"`
	ISIFee         decimal.Decimal `json:"isi_fee"`
	MPF            decimal.Decimal `json:"merchandise_processing_fee"`
	HMF            decimal.Decimal `json:"harbor_maintenance_fee"`
	ISF            decimal.Decimal `json:"import_security_fee"`
	Drayage        decimal.Decimal `json:"drayage"`
	InlandTrucking decimal.Decimal `json:"inland_trucking"`
	Tariff         decimal.Decimal `json:"tariff"`

	CIFValue decimal.Decimal `json:"cif_value"`

	// TariffRatePct is the item's rate in representative mode and the
	// blended rate (tariff / CIF) for a whole order.
	TariffRatePct decimal.Decimal `json:"tariff_rate_percent"`

	// TariffCategory is the resolved category. For an order whose items
	// resolve to different categories it is Other; see Items.
	TariffCategory types.Category `json:"tariff_category"`
	Items          []ItemTariff   `json:"items"`

	Total   decimal.Decimal `json:"total"`
	PerUnit decimal.Decimal `json:"per_unit"`
}

// Lines returns the cost lines in display order.
func (b Breakdown) Lines() []types.CostLine {
	return []types.CostLine{
		{Key: "item_cost", Label: "Product cost", Amount: b.ItemCost},
		{Key: "ocean_freight", Label: "Ocean freight", Amount: b.OceanFreight},
		{Key: "china_warehousing", Label: "China warehousing", Amount: b.Warehousing},
		{Key: "insurance", Label: "Cargo insurance", Amount: b.Insurance},
		{Key: "customs_bond", Label: "Customs bond", Amount: b.CustomsBond},
		{Key: "customs_entry", Label: "Customs entry", Amount: b.CustomsEntry},
		{Key: "isi_fee", Label: "ISI filing", Amount: b.ISIFee},
		{Key: "mpf", Label: "Merchandise processing fee", Amount: b.MPF},
		{Key: "hmf", Label: "Harbor maintenance fee", Amount: b.HMF},
		{Key: "isf", Label: "Import security fee", Amount: b.ISF},
		{Key: "drayage", Label: "Port drayage", Amount: b.Drayage},
		{Key: "inland_trucking", Label: "Inland trucking", Amount: b.InlandTrucking},
		{Key: "tariff", Label: "Tariff", Amount: b.Tariff},
	}
}

// components holds the unrounded cost parts of a load.
type components struct {
	itemCost, freight, warehousing, insurance decimal.Decimal
	bond, entry, isi, mpf, hmf, isf           decimal.Decimal
	drayage, trucking, tariff, cif            decimal.Decimal
}

func (c components) total() decimal.Decimal {
	return c.itemCost.
		Add(c.freight).
		Add(c.warehousing).
		Add(c.insurance).
		Add(c.bond).
		Add(c.entry).
		Add(c.isi).
		Add(c.mpf).
		Add(c.hmf).
		Add(c.isf).
		Add(c.drayage).
		Add(c.trucking).
		Add(c.tariff)
}

// shipment prices everything that depends only on the load's total cost and
// volume. Tariff is left to the caller.
func shipment(totalCost, volume decimal.Decimal, params Params, table *rates.RatesConfig) components {
	fees := table.ImportFees
	shipping := table.ShippingCosts

	freight := volume.Mul(params.OceanFreightPerCuft)
	declared := totalCost.Add(freight)
	insurance := declared.Mul(decimal.NewFromFloat(shipping.InsuranceRate))

	return components{
		itemCost: totalCost,
		freight:  freight,
		warehousing: volume.
			Mul(decimal.NewFromFloat(shipping.ChineseWarehousingPerDayPerCuft)).
			Mul(decimal.NewFromInt(params.ChinaWarehouseDays)),
		insurance: insurance,
		bond:      decimal.NewFromFloat(fees.CustomsBondFee),
		entry:     decimal.NewFromFloat(fees.CustomsEntryFee),
		isi:       decimal.NewFromFloat(fees.ISIFee),
		mpf:       declared.Mul(decimal.NewFromFloat(fees.MerchandiseProcessingFee)),
		hmf:       declared.Mul(decimal.NewFromFloat(fees.HarborMaintenanceFee)),
		isf:       declared.Mul(decimal.NewFromFloat(fees.ImportSecurityFee)),
		drayage:   volume.Div(CuftPerCbm).Mul(DrayagePerCbm),
		trucking:  params.InlandTrucking,
		cif:       declared.Add(insurance),
	}
}

// AggregateCosts prices units of item as a single-product load.
func AggregateCosts(item types.LineItem, units int64, params Params, table *rates.RatesConfig) (Breakdown, error) {
	if err := params.Validate(); err != nil {
		return Breakdown{}, err
	}
	if units < 0 {
		return Breakdown{}, errors.Inputf("units must not be negative, got %d", units)
	}

	n := decimal.NewFromInt(units)
	volume := item.VolumeFor(units)
	c := shipment(item.UnitCost.Mul(n), volume, params, table)

	category, ratePct := table.TariffRates.Resolve(item.Category)
	c.tariff = c.cif.Mul(ratePct).Div(types.Hundred)

	b := build(c, units, volume)
	b.TariffRatePct = ratePct
	b.TariffCategory = category
	b.Items = []ItemTariff{{
		ItemID:   item.ID,
		Name:     item.Name,
		Category: category,
		RatePct:  ratePct,
		CIFValue: types.Round2(c.cif),
		Tariff:   types.Round2(c.tariff),
	}}
	return b, nil
}

// AggregateOrder prices every item at its entered quantity as one load.
// Freight is shared by volume and insurance by cost; each item's CIF share is
// taxed at its own category rate. A zero total volume or cost gives every
// item a zero share of freight or insurance.
func AggregateOrder(items []types.LineItem, params Params, table *rates.RatesConfig) (Breakdown, error) {
	if err := params.Validate(); err != nil {
		return Breakdown{}, err
	}
	if len(items) == 0 {
		return Breakdown{}, errors.Input("order has no items")
	}

	var units int64
	totalCost, volume := decimal.Zero, decimal.Zero
	for _, item := range items {
		units += item.Quantity
		totalCost = totalCost.Add(item.TotalCost())
		volume = volume.Add(item.TotalVolumeCuft())
	}

	c := shipment(totalCost, volume, params, table)

	tariffs := make([]ItemTariff, 0, len(items))
	tariff := decimal.Zero
	category, mixed := types.Category{}, false
	for i, item := range items {
		cost := item.TotalCost()
		freight := c.freight.Mul(types.SafeDiv(item.TotalVolumeCuft(), volume))
		insurance := c.insurance.Mul(types.SafeDiv(cost, totalCost))
		cif := cost.Add(freight).Add(insurance)

		cat, ratePct := table.TariffRates.Resolve(item.Category)
		duty := cif.Mul(ratePct).Div(types.Hundred)
		tariff = tariff.Add(duty)

		if i == 0 {
			category = cat
		} else if cat != category {
			mixed = true
		}

		tariffs = append(tariffs, ItemTariff{
			ItemID:   item.ID,
			Name:     item.Name,
			Category: cat,
			RatePct:  ratePct,
			CIFValue: types.Round2(cif),
			Tariff:   types.Round2(duty),
		})
	}
	c.tariff = tariff
	if mixed {
		category = types.OtherCategory()
	}

	b := build(c, units, volume)
	b.TariffRatePct = types.Round2(types.SafeDiv(tariff, c.cif).Mul(types.Hundred))
	b.TariffCategory = category
	b.Items = tariffs
	return b, nil
}

func build(c components, units int64, volume decimal.Decimal) Breakdown {
	total := c.total()
	perUnit := decimal.Zero
	if units > 0 {
		perUnit = total.Div(decimal.NewFromInt(units))
	}
	return Breakdown{
		Units:          units,
		VolumeCuft:     types.Round2(volume),
		ItemCost:       types.Round2(c.itemCost),
		OceanFreight:   types.Round2(c.freight),
		Warehousing:    types.Round2(c.warehousing),
		Insurance:      types.Round2(c.insurance),
		CustomsBond:    types.Round2(c.bond),
		CustomsEntry:   types.Round2(c.entry),
		ISIFee:         types.Round2(c.isi),
		MPF:            types.Round2(c.mpf),
		HMF:            types.Round2(c.hmf),
		ISF:            types.Round2(c.isf),
		Drayage:        types.Round2(c.drayage),
		InlandTrucking: types.Round2(c.trucking),
		Tariff:         types.Round2(c.tariff),
		CIFValue:       types.Round2(c.cif),
		Total:          types.Round2(total),
		PerUnit:        types.Round2(perUnit),
	}
}
