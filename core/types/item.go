package types

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"landed-cost/internal/errors"
)

// CubicInchesPerCubicFoot converts inch dimensions to cubic feet.
var CubicInchesPerCubicFoot = decimal.NewFromInt(1728)

// Dimensions are outer carton dimensions in inches.
type Dimensions struct {
	LengthIn decimal.Decimal `json:"length_in"`
	WidthIn  decimal.Decimal `json:"width_in"`
	HeightIn decimal.Decimal `json:"height_in"`
}

// IsZero reports whether no dimension was given.
func (d Dimensions) IsZero() bool {
	return d.LengthIn.IsZero() && d.WidthIn.IsZero() && d.HeightIn.IsZero()
}

// CubicInches returns L*W*H. It is exact, unlike VolumeCuft.
func (d Dimensions) CubicInches() decimal.Decimal {
	return d.LengthIn.Mul(d.WidthIn).Mul(d.HeightIn)
}

// VolumeCuft returns L*W*H in cubic feet, rounded to the decimal division
// precision.
func (d Dimensions) VolumeCuft() decimal.Decimal {
	return d.CubicInches().Div(CubicInchesPerCubicFoot)
}

// LineItem is one product entry in an order. Build it with NewLineItem;
// it is not modified afterwards.
type LineItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Dimensions Dimensions      `json:"dimensions"`
	VolumeCuft decimal.Decimal `json:"volume_cuft"`
	WeightLbs  decimal.Decimal `json:"weight_lbs"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost_usd"`

	// Category is the raw, normalized tag; rate tables resolve it
	Category string `json:"category"`
}

// LineItemInput is the unvalidated form of a line item, as entered by a user
// or read from an order document.
type LineItemInput struct {
	ID         string
	Name       string
	LengthIn   float64
	WidthIn    float64
	HeightIn   float64
	VolumeCuft float64 // used when no dimensions are given
	WeightLbs  float64
	Quantity   int64
	UnitCost   float64
	Category   string
}

// NewLineItem validates in and derives the unit volume.
func NewLineItem(in LineItemInput) (LineItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return LineItem{}, errors.Input("item name is required")
	}
	if in.Quantity < 1 {
		return LineItem{}, errors.Inputf("item %q: quantity must be at least 1, got %d", name, in.Quantity)
	}
	if in.UnitCost < 0 {
		return LineItem{}, errors.Inputf("item %q: unit cost must not be negative", name)
	}
	if in.WeightLbs < 0 || in.VolumeCuft < 0 || in.LengthIn < 0 || in.WidthIn < 0 || in.HeightIn < 0 {
		return LineItem{}, errors.Inputf("item %q: dimensions and weight must not be negative", name)
	}

	dims := Dimensions{
		LengthIn: decimal.NewFromFloat(in.LengthIn),
		WidthIn:  decimal.NewFromFloat(in.WidthIn),
		HeightIn: decimal.NewFromFloat(in.HeightIn),
	}
	volume := decimal.NewFromFloat(in.VolumeCuft)
	if !dims.IsZero() {
		volume = dims.VolumeCuft()
	}
	weight := decimal.NewFromFloat(in.WeightLbs)
	if !volume.IsPositive() && !weight.IsPositive() {
		return LineItem{}, errors.Inputf("item %q: needs a positive volume or weight", name)
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	return LineItem{
		ID:         id,
		Name:       name,
		Dimensions: dims,
		VolumeCuft: volume,
		WeightLbs:  weight,
		Quantity:   in.Quantity,
		UnitCost:   decimal.NewFromFloat(in.UnitCost),
		Category:   NormalizeTag(in.Category),
	}, nil
}

// MustLineItem is NewLineItem for fixtures; it panics on invalid input.
func MustLineItem(in LineItemInput) LineItem {
	item, err := NewLineItem(in)
	if err != nil {
		panic(err)
	}
	return item
}

// VolumeFor returns the volume of n units. With dimensions the product is
// taken in cubic inches and divided once, so 1152 cu in x 4035 is exactly
// 2690 cu ft.
func (i LineItem) VolumeFor(n int64) decimal.Decimal {
	if i.Dimensions.IsZero() {
		return i.VolumeCuft.Mul(decimal.NewFromInt(n))
	}
	return i.Dimensions.CubicInches().Mul(decimal.NewFromInt(n)).Div(CubicInchesPerCubicFoot)
}

// TotalVolumeCuft returns volume * quantity.
func (i LineItem) TotalVolumeCuft() decimal.Decimal {
	return i.VolumeFor(i.Quantity)
}

// TotalWeightLbs returns weight * quantity.
func (i LineItem) TotalWeightLbs() decimal.Decimal {
	return i.WeightLbs.Mul(decimal.NewFromInt(i.Quantity))
}

// TotalCost returns unit cost * quantity.
func (i LineItem) TotalCost() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(i.Quantity))
}

// Input returns the item in its unvalidated form, for re-serialization.
func (i LineItem) Input() LineItemInput {
	return LineItemInput{
		ID:         i.ID,
		Name:       i.Name,
		LengthIn:   i.Dimensions.LengthIn.InexactFloat64(),
		WidthIn:    i.Dimensions.WidthIn.InexactFloat64(),
		HeightIn:   i.Dimensions.HeightIn.InexactFloat64(),
		VolumeCuft: i.VolumeCuft.InexactFloat64(),
		WeightLbs:  i.WeightLbs.InexactFloat64(),
		Quantity:   i.Quantity,
		UnitCost:   i.UnitCost.InexactFloat64(),
		Category:   i.Category,
	}
}
