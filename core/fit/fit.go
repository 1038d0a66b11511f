// Package fit estimates how many units of one item fit in a container.
package fit

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/rates"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Binding names the constraint that set the unit count.
type Binding string

const (
	BindingVolume Binding = "volume"
	BindingWeight Binding = "weight"

	// BindingMinimum means a single unit already exceeds the target and
	// the one-unit floor applied
	BindingMinimum Binding = "minimum"

	// BindingOrder means the count is the entered order quantity
	BindingOrder Binding = "order"
)

// Result is the outcome of a fit estimate. Utilization percentages are not
// clamped: above 100 means the load overflows the container.
type Result struct {
	ContainerID          string          `json:"container_id"`
	Units                int64           `json:"units"`
	VolumeFit            int64           `json:"volume_fit"`
	WeightFit            int64           `json:"weight_fit"`
	Binding              Binding         `json:"binding"`
	UsedVolumeCuft       decimal.Decimal `json:"used_volume_cuft"`
	UsedWeightLbs        decimal.Decimal `json:"used_weight_lbs"`
	SpaceUtilizationPct  decimal.Decimal `json:"space_utilization_percent"`
	WeightUtilizationPct decimal.Decimal `json:"weight_utilization_percent"`
	RemainingVolumeCuft  decimal.Decimal `json:"remaining_volume_cuft"`
	MaxVolumeCuft        decimal.Decimal `json:"max_volume_cuft"`
	MaxWeightLbs         decimal.Decimal `json:"max_weight_lbs"`
}

// Overflow reports whether either utilization exceeds 100%.
func (r Result) Overflow() bool {
	return r.SpaceUtilizationPct.GreaterThan(types.Hundred) || r.WeightUtilizationPct.GreaterThan(types.Hundred)
}

// ValidateTarget checks a utilization target is in (0, 1].
func ValidateTarget(target decimal.Decimal) error {
	if !target.IsPositive() || target.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Inputf("utilization target must be in (0, 1], got %s", target)
	}
	return nil
}

// EstimateFit computes how many units of item fit in container at the given
// utilization target. The binding constraint is the smaller of the volume
// and weight fits, and the result is never below one unit. An axis on which
// the item measures zero does not constrain.
func EstimateFit(item types.LineItem, container rates.Container, target decimal.Decimal) (Result, error) {
	if err := ValidateTarget(target); err != nil {
		return Result{}, err
	}
	if !item.VolumeCuft.IsPositive() && !item.WeightLbs.IsPositive() {
		return Result{}, errors.Inputf("item %q has neither volume nor weight", item.Name)
	}

	volumeLimit := container.Volume().Mul(target)
	weightLimit := container.Payload().Mul(target)

	volumeFit, volumeBounded := unitsWithin(volumeLimit, item.VolumeCuft)
	if !item.Dimensions.IsZero() {
		// exact in cubic inches; the rounded cu ft volume can lose a unit
		volumeFit, volumeBounded = unitsWithin(volumeLimit.Mul(types.CubicInchesPerCubicFoot), item.Dimensions.CubicInches())
	}
	weightFit, weightBounded := unitsWithin(weightLimit, item.WeightLbs)

	var units int64
	var binding Binding
	switch {
	case volumeBounded && (!weightBounded || volumeFit <= weightFit):
		units, binding = volumeFit, BindingVolume
	default:
		units, binding = weightFit, BindingWeight
	}
	if units < 1 {
		units, binding = 1, BindingMinimum
	}

	r := measure(container, units, item.VolumeFor(units), item.WeightLbs.Mul(decimal.NewFromInt(units)))
	r.VolumeFit = volumeFit
	r.WeightFit = weightFit
	r.Binding = binding
	return r, nil
}

// unitsWithin returns floor(limit/per). bounded is false when per is zero,
// in which case the axis places no limit.
func unitsWithin(limit, per decimal.Decimal) (units int64, bounded bool) {
	if !per.IsPositive() {
		return 0, false
	}
	return limit.Div(per).Floor().IntPart(), true
}

// Utilization measures the entered quantities of every item against the
// container, without fitting. Used by the multi-item order mode.
func Utilization(items []types.LineItem, container rates.Container) Result {
	var units int64
	volume, weight := decimal.Zero, decimal.Zero
	for _, item := range items {
		units += item.Quantity
		volume = volume.Add(item.TotalVolumeCuft())
		weight = weight.Add(item.TotalWeightLbs())
	}
	r := measure(container, units, volume, weight)
	r.Binding = BindingOrder
	return r
}

func measure(container rates.Container, units int64, usedVolume, usedWeight decimal.Decimal) Result {
	maxVolume := container.Volume()
	maxWeight := container.Payload()
	return Result{
		ContainerID:          container.ID,
		Units:                units,
		UsedVolumeCuft:       types.Round2(usedVolume),
		UsedWeightLbs:        types.Round2(usedWeight),
		SpaceUtilizationPct:  types.Round2(types.SafeDiv(usedVolume, maxVolume).Mul(types.Hundred)),
		WeightUtilizationPct: types.Round2(types.SafeDiv(usedWeight, maxWeight).Mul(types.Hundred)),
		RemainingVolumeCuft:  types.Round2(maxVolume.Sub(usedVolume)),
		MaxVolumeCuft:        maxVolume,
		MaxWeightLbs:         maxWeight,
	}
}

// RequiredVolume is the space an order asks for at the utilization target:
// sum(volume*quantity) * target.
func RequiredVolume(items []types.LineItem, target decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalVolumeCuft())
	}
	return total.Mul(target)
}

// CheckCapacity refuses an order whose required volume exceeds the
// container. The error carries both volumes so the caller can adjust.
func CheckCapacity(items []types.LineItem, container rates.Container, target decimal.Decimal) error {
	required := RequiredVolume(items, target)
	if required.LessThanOrEqual(container.Volume()) {
		return nil
	}
	return errors.Capacity(container.ID, required.Round(0).String(), container.Volume().String()).
		WithContext("required_volume_cuft", required.Round(2).InexactFloat64()).
		WithContext("max_volume_cuft", container.VolumeCuft)
}
