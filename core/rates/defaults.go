package rates

// Default returns the built-in rates table. Each call returns a fresh copy.
func Default() *RatesConfig {
	return &RatesConfig{
		Containers: map[string]Container{
			"20ft": {VolumeCuft: 1172, PayloadLbs: 47900},
			"40ft": {VolumeCuft: 2390, PayloadLbs: 58750},
			"40hc": {VolumeCuft: 2690, PayloadLbs: 50100},
		},
		TariffRates: RateTable{
			Default: 25.0,
			Categories: map[string]float64{
				"electronics": 25.0,
				"furniture":   25.0,
				"home":        25.0,
				"kitchenware": 25.0,
				"tools":       25.0,
				"apparel":     32.0,
				"footwear":    37.5,
				"textiles":    16.0,
				"toys":        0.0,
			},
		},
		ImportFees: ImportFees{
			CustomsBondFee:           450.0,
			CustomsEntryFee:          150.0,
			ISIFee:                   75.0,
			MerchandiseProcessingFee: 0.003464,
			HarborMaintenanceFee:     0.00125,
			ImportSecurityFee:        0.0005,
		},
		ShippingCosts: ShippingCosts{
			ChineseWarehousingPerDayPerCuft: 0.05,
			InsuranceRate:                   0.005,
		},
		FBAFees: FBAFees{
			ReferralRates: RateTable{
				Default: 0.15,
				Categories: map[string]float64{
					"electronics": 0.08,
					"furniture":   0.15,
					"home":        0.15,
					"kitchenware": 0.15,
					"tools":       0.15,
					"apparel":     0.17,
					"footwear":    0.15,
					"toys":        0.15,
				},
			},
			FulfillmentTiers: []FulfillmentTier{
				{MaxWeightOz: 4, Fee: 3.22},
				{MaxWeightOz: 8, Fee: 3.40},
				{MaxWeightOz: 12, Fee: 3.58},
				{MaxWeightOz: 16, Fee: 3.77},
				{MaxWeightOz: 24, Fee: 4.75},
				{MaxWeightOz: 32, Fee: 5.40},
				{MaxWeightOz: 48, Fee: 6.10},
				{MaxWeightOz: 320, Fee: 9.61},
			},
			StoragePerCuftMonth: 0.87,
		},
		WFSFees: WFSFees{
			ReferralRates: RateTable{
				Default: 0.15,
				Categories: map[string]float64{
					"electronics": 0.08,
					"furniture":   0.15,
					"home":        0.15,
					"apparel":     0.15,
					"toys":        0.15,
				},
			},
			FulfillmentPerLb:    0.50,
			PickPackFee:         3.45,
			StoragePerCuftMonth: 0.75,
			WeightHandling: WeightHandling{
				FirstLb:      0.40,
				AdditionalLb: 0.35,
			},
		},
	}
}
