package types

import (
	"testing"

	"github.com/shopspring/decimal"

	"landed-cost/internal/errors"
)

func TestNewLineItemDerivesVolumeFromDimensions(t *testing.T) {
	item, err := NewLineItem(LineItemInput{
		Name:     "  Bluetooth Speaker ",
		LengthIn: 12,
		WidthIn:  12,
		HeightIn: 6,
		Quantity: 100,
		UnitCost: 10,
		Category: " Electronics ",
	})
	if err != nil {
		t.Fatalf("NewLineItem: %v", err)
	}

	if !item.VolumeCuft.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("VolumeCuft = %s, want 0.5", item.VolumeCuft)
	}
	if item.Name != "Bluetooth Speaker" {
		t.Errorf("Name = %q", item.Name)
	}
	if item.Category != "electronics" {
		t.Errorf("Category = %q, want electronics", item.Category)
	}
	if item.ID == "" {
		t.Error("expected a generated ID")
	}
	if !item.TotalVolumeCuft().Equal(decimal.NewFromInt(50)) {
		t.Errorf("TotalVolumeCuft = %s, want 50", item.TotalVolumeCuft())
	}
	if !item.TotalCost().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("TotalCost = %s, want 1000", item.TotalCost())
	}
}

func TestNewLineItemUsesExplicitVolumeWithoutDimensions(t *testing.T) {
	item, err := NewLineItem(LineItemInput{Name: "Lamp", VolumeCuft: 1.25, WeightLbs: 3, Quantity: 1})
	if err != nil {
		t.Fatalf("NewLineItem: %v", err)
	}
	if !item.VolumeCuft.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("VolumeCuft = %s, want 1.25", item.VolumeCuft)
	}
}

func TestNewLineItemValidation(t *testing.T) {
	tests := []struct {
		name string
		in   LineItemInput
	}{
		{"missing name", LineItemInput{VolumeCuft: 1, Quantity: 1}},
		{"zero quantity", LineItemInput{Name: "x", VolumeCuft: 1}},
		{"negative cost", LineItemInput{Name: "x", VolumeCuft: 1, Quantity: 1, UnitCost: -1}},
		{"negative weight", LineItemInput{Name: "x", VolumeCuft: 1, WeightLbs: -2, Quantity: 1}},
		{"no volume or weight", LineItemInput{Name: "x", Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLineItem(tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsType(err, errors.TypeInput) {
				t.Errorf("expected INPUT_ERROR, got %v", err)
			}
		})
	}
}

func TestCategoryVariants(t *testing.T) {
	known := KnownCategory(" Toys ")
	if !known.IsKnown() || known.Tag() != "toys" {
		t.Errorf("known = %+v", known)
	}

	other := OtherCategory()
	if other.IsKnown() || other.Tag() != OtherTag {
		t.Errorf("other = %+v", other)
	}

	var zero Category
	if zero != other {
		t.Error("zero Category should be Other")
	}

	text, err := known.MarshalText()
	if err != nil || string(text) != "toys" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
}

func TestSafeDivAndNonNegative(t *testing.T) {
	if got := SafeDiv(decimal.NewFromInt(10), decimal.Zero); !got.IsZero() {
		t.Errorf("SafeDiv by zero = %s, want 0", got)
	}
	if got := SafeDiv(decimal.NewFromInt(10), decimal.NewFromInt(4)); !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("SafeDiv = %s, want 2.5", got)
	}
	if got := NonNegative(decimal.NewFromInt(-3)); !got.IsZero() {
		t.Errorf("NonNegative(-3) = %s", got)
	}
	if got := Round2(decimal.RequireFromString("1.005")); !got.Equal(decimal.RequireFromString("1.01")) {
		t.Errorf("Round2(1.005) = %s, want 1.01", got)
	}
}
