// Package rates holds the rates table every calculation reads: container
// capacities, tariff rates, customs fees, shipping constants and marketplace
// fee schedules.
package rates

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// RatesConfig is the complete rates table. Treat a loaded table as read-only.
type RatesConfig struct {
	Containers    map[string]Container `json:"containers" yaml:"containers"`
	TariffRates   RateTable            `json:"tariff_rates" yaml:"tariff_rates"`
	ImportFees    ImportFees           `json:"import_fees" yaml:"import_fees"`
	ShippingCosts ShippingCosts        `json:"shipping_costs" yaml:"shipping_costs"`
	FBAFees       FBAFees              `json:"fba_fees" yaml:"fba_fees"`
	WFSFees       WFSFees              `json:"wfs_fees" yaml:"wfs_fees"`
}

// Container is the usable capacity of one container type.
type Container struct {
	ID         string  `json:"-" yaml:"-"`
	VolumeCuft float64 `json:"volume_cuft" yaml:"volume_cuft" hcl:"volume_cuft,attr"`
	PayloadLbs float64 `json:"payload_lbs" yaml:"payload_lbs" hcl:"payload_lbs,attr"`
}

// Volume returns the volume capacity in cubic feet.
func (c Container) Volume() decimal.Decimal { return decimal.NewFromFloat(c.VolumeCuft) }

// Payload returns the weight capacity in pounds.
func (c Container) Payload() decimal.Decimal { return decimal.NewFromFloat(c.PayloadLbs) }

// RateTable maps category tags to rates, with a default for everything else.
// Tariff tables hold percentages (25 = 25%); referral tables hold fractions.
type RateTable struct {
	Default    float64            `json:"default" yaml:"default" hcl:"default,attr"`
	Categories map[string]float64 `json:"categories" yaml:"categories" hcl:"categories,optional"`
}

// Resolve matches raw case-insensitively. Unknown tags resolve to
// OtherCategory and the table default; Resolve never fails.
func (t RateTable) Resolve(raw string) (types.Category, decimal.Decimal) {
	tag := types.NormalizeTag(raw)
	if rate, ok := t.Categories[tag]; ok && tag != "" {
		return types.KnownCategory(tag), decimal.NewFromFloat(rate)
	}
	return types.OtherCategory(), decimal.NewFromFloat(t.Default)
}

// Rate is Resolve without the category.
func (t RateTable) Rate(raw string) decimal.Decimal {
	_, rate := t.Resolve(raw)
	return rate
}

// ImportFees is the US customs fee schedule. The flat fees are dollars per
// entry; the others are fractions of declared value.
type ImportFees struct {
	CustomsBondFee           float64 `json:"customs_bond_fee" yaml:"customs_bond_fee" hcl:"customs_bond_fee,attr"`
	CustomsEntryFee          float64 `json:"customs_entry_fee" yaml:"customs_entry_fee" hcl:"customs_entry_fee,attr"`
	ISIFee                   float64 `json:"isi_fee" yaml:"isi_fee" hcl:"isi_fee,attr"`
	MerchandiseProcessingFee float64 `json:"merchandise_processing_fee" yaml:"merchandise_processing_fee" hcl:"merchandise_processing_fee,attr"`
	HarborMaintenanceFee     float64 `json:"harbor_maintenance_fee" yaml:"harbor_maintenance_fee" hcl:"harbor_maintenance_fee,attr"`
	ImportSecurityFee        float64 `json:"import_security_fee" yaml:"import_security_fee" hcl:"import_security_fee,attr"`
}

// ShippingCosts are the origin-side shipping constants.
type ShippingCosts struct {
	ChineseWarehousingPerDayPerCuft float64 `json:"chinese_warehousing_per_day_per_cuft" yaml:"chinese_warehousing_per_day_per_cuft" hcl:"chinese_warehousing_per_day_per_cuft,attr"`
	InsuranceRate                   float64 `json:"insurance_rate" yaml:"insurance_rate" hcl:"insurance_rate,attr"`
}

// FulfillmentTier is a flat fee for items up to MaxWeightOz.
type FulfillmentTier struct {
	MaxWeightOz float64 `json:"max_weight_oz" yaml:"max_weight_oz" hcl:"max_weight_oz,attr"`
	Fee         float64 `json:"fee" yaml:"fee" hcl:"fee,attr"`
}

// FBAFees is the Amazon-style fee schedule.
type FBAFees struct {
	ReferralRates       RateTable         `json:"referral_rates" yaml:"referral_rates" hcl:"referral_rates,block"`
	FulfillmentTiers    []FulfillmentTier `json:"fulfillment_tiers" yaml:"fulfillment_tiers" hcl:"fulfillment_tier,block"`
	StoragePerCuftMonth float64           `json:"storage_per_cuft_month" yaml:"storage_per_cuft_month" hcl:"storage_per_cuft_month,attr"`
}

// WeightHandling prices the first pound separately from the rest.
type WeightHandling struct {
	FirstLb      float64 `json:"first_lb" yaml:"first_lb" hcl:"first_lb,attr"`
	AdditionalLb float64 `json:"additional_lb" yaml:"additional_lb" hcl:"additional_lb,attr"`
}

// WFSFees is the Walmart-style fee schedule.
type WFSFees struct {
	ReferralRates       RateTable      `json:"referral_rates" yaml:"referral_rates" hcl:"referral_rates,block"`
	FulfillmentPerLb    float64        `json:"fulfillment_per_lb" yaml:"fulfillment_per_lb" hcl:"fulfillment_per_lb,attr"`
	PickPackFee         float64        `json:"pick_pack_fee" yaml:"pick_pack_fee" hcl:"pick_pack_fee,attr"`
	StoragePerCuftMonth float64        `json:"storage_per_cuft_month" yaml:"storage_per_cuft_month" hcl:"storage_per_cuft_month,attr"`
	WeightHandling      WeightHandling `json:"weight_handling" yaml:"weight_handling" hcl:"weight_handling,block"`
}

// Container returns the container with the given id, matched case-insensitively.
func (c *RatesConfig) Container(id string) (Container, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	container, ok := c.Containers[key]
	if !ok {
		return Container{}, errors.NotFound("container", id).
			WithContext("available", c.ContainerIDs())
	}
	container.ID = key
	return container, nil
}

// ContainerIDs returns the container ids sorted by volume, smallest first.
func (c *RatesConfig) ContainerIDs() []string {
	ids := make([]string, 0, len(c.Containers))
	for id := range c.Containers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		vi, vj := c.Containers[ids[i]].VolumeCuft, c.Containers[ids[j]].VolumeCuft
		if vi != vj {
			return vi < vj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Normalize lower-cases container ids and category keys and sorts the
// fulfillment tiers by weight threshold. Keys that differ only in case
// collide, which is a CONFIG_ERROR: neither value is preferred.
func (c *RatesConfig) Normalize() error {
	containers := make(map[string]Container, len(c.Containers))
	for id, container := range c.Containers {
		key := types.NormalizeTag(id)
		if _, dup := containers[key]; dup {
			return errors.Newf(errors.TypeConfig, "container %q is declared more than once (ids ignore case)", key).
				WithContext("container_id", key)
		}
		containers[key] = container
	}
	c.Containers = containers

	tables := []struct {
		name  string
		table *RateTable
	}{
		{"tariff_rates", &c.TariffRates},
		{"fba_fees.referral_rates", &c.FBAFees.ReferralRates},
		{"wfs_fees.referral_rates", &c.WFSFees.ReferralRates},
	}
	for _, t := range tables {
		categories, err := normalizeKeys(t.name, t.table.Categories)
		if err != nil {
			return err
		}
		t.table.Categories = categories
	}

	sort.SliceStable(c.FBAFees.FulfillmentTiers, func(i, j int) bool {
		return c.FBAFees.FulfillmentTiers[i].MaxWeightOz < c.FBAFees.FulfillmentTiers[j].MaxWeightOz
	})
	return nil
}

func normalizeKeys(table string, in map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		key := types.NormalizeTag(k)
		if _, dup := out[key]; dup {
			return nil, errors.Newf(errors.TypeConfig, "%s lists category %q more than once (categories ignore case)", table, key).
				WithContext("category", key)
		}
		out[key] = v
	}
	return out, nil
}

// Validate checks the table is complete and usable.
func (c *RatesConfig) Validate() error {
	if len(c.Containers) == 0 {
		return errors.New(errors.TypeConfig, "rates table has no containers")
	}
	for id, container := range c.Containers {
		if container.VolumeCuft <= 0 || container.PayloadLbs <= 0 {
			return errors.Newf(errors.TypeConfig, "container %q needs positive volume_cuft and payload_lbs", id)
		}
	}
	if len(c.FBAFees.FulfillmentTiers) == 0 {
		return errors.New(errors.TypeConfig, "fba_fees has no fulfillment tiers")
	}
	for _, tier := range c.FBAFees.FulfillmentTiers {
		if tier.MaxWeightOz <= 0 || tier.Fee < 0 {
			return errors.Newf(errors.TypeConfig, "invalid fulfillment tier %+v", tier)
		}
	}

	tables := map[string]RateTable{
		"tariff_rates":            c.TariffRates,
		"fba_fees.referral_rates": c.FBAFees.ReferralRates,
		"wfs_fees.referral_rates": c.WFSFees.ReferralRates,
	}
	for name, table := range tables {
		if table.Default < 0 {
			return errors.Newf(errors.TypeConfig, "%s default must not be negative", name)
		}
		for tag, rate := range table.Categories {
			if rate < 0 {
				return errors.Newf(errors.TypeConfig, "%s rate for %q must not be negative", name, tag)
			}
		}
	}

	scalars := map[string]float64{
		"import_fees.customs_bond_fee":                        c.ImportFees.CustomsBondFee,
		"import_fees.customs_entry_fee":                       c.ImportFees.CustomsEntryFee,
		"import_fees.isi_fee":                                 c.ImportFees.ISIFee,
		"import_fees.merchandise_processing_fee":              c.ImportFees.MerchandiseProcessingFee,
		"import_fees.harbor_maintenance_fee":                  c.ImportFees.HarborMaintenanceFee,
		"import_fees.import_security_fee":                     c.ImportFees.ImportSecurityFee,
		"shipping_costs.chinese_warehousing_per_day_per_cuft": c.ShippingCosts.ChineseWarehousingPerDayPerCuft,
		"shipping_costs.insurance_rate":                       c.ShippingCosts.InsuranceRate,
		"fba_fees.storage_per_cuft_month":                     c.FBAFees.StoragePerCuftMonth,
		"wfs_fees.fulfillment_per_lb":                         c.WFSFees.FulfillmentPerLb,
		"wfs_fees.pick_pack_fee":                              c.WFSFees.PickPackFee,
		"wfs_fees.storage_per_cuft_month":                     c.WFSFees.StoragePerCuftMonth,
		"wfs_fees.weight_handling.first_lb":                   c.WFSFees.WeightHandling.FirstLb,
		"wfs_fees.weight_handling.additional_lb":              c.WFSFees.WeightHandling.AdditionalLb,
	}
	for name, v := range scalars {
		if v < 0 {
			return errors.Newf(errors.TypeConfig, "%s must not be negative", name)
		}
	}
	return nil
}

// Fingerprint returns a short, stable hash of the table contents.
func (c *RatesConfig) Fingerprint() string {
	// encoding/json sorts map keys, so equal tables hash equally.
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:12]
}

// Clone returns a deep copy.
func (c *RatesConfig) Clone() *RatesConfig {
	out := *c
	out.Containers = make(map[string]Container, len(c.Containers))
	for id, container := range c.Containers {
		out.Containers[id] = container
	}
	out.TariffRates.Categories = copyRates(c.TariffRates.Categories)
	out.FBAFees.ReferralRates.Categories = copyRates(c.FBAFees.ReferralRates.Categories)
	out.WFSFees.ReferralRates.Categories = copyRates(c.WFSFees.ReferralRates.Categories)
	out.FBAFees.FulfillmentTiers = append([]FulfillmentTier(nil), c.FBAFees.FulfillmentTiers...)
	return &out
}

func copyRates(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
