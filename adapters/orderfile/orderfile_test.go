package orderfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"landed-cost/core/order"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

const sampleYAML = `items:
  - name: Bluetooth Speaker
    length_in: 12
    width_in: 8
    height_in: 9
    weight_lbs: 2
    quantity: 500
    unit_cost: 10
    category: Electronics
  - name: Yoga Mat
    volume_cuft: 0.35
    weight_lbs: 2.5
    quantity: 200
    unit_cost: 4.75
`

func TestDecodeYAML(t *testing.T) {
	o, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	items := o.Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if !items[0].VolumeCuft.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("volume from dimensions = %s, want 0.5", items[0].VolumeCuft)
	}
	if items[0].Category != "electronics" {
		t.Errorf("category = %q, want normalized tag", items[0].Category)
	}
	if items[1].Category != "" || items[1].Quantity != 200 {
		t.Errorf("second item = %+v", items[1])
	}
	if items[0].ID == "" {
		t.Error("missing generated id")
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		want   errors.Type
	}{
		{"unknown field", FormatYAML, "items:\n  - name: x\n    colour: red\n", errors.TypeParsing},
		{"bad yaml", FormatYAML, "items: [", errors.TypeParsing},
		{"bad json", FormatJSON, `{"items": [}`, errors.TypeParsing},
		{"zero quantity", FormatJSON, `{"items": [{"name": "x", "volume_cuft": 1, "weight_lbs": 1, "quantity": 0, "unit_cost": 1}]}`, errors.TypeInput},
		{"no size", FormatJSON, `{"items": [{"name": "x", "quantity": 1, "unit_cost": 1}]}`, errors.TypeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.data), tt.format)
			if !errors.IsType(err, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeReportsItemIndex(t *testing.T) {
	data := `{"items": [
		{"name": "ok", "volume_cuft": 1, "weight_lbs": 1, "quantity": 1, "unit_cost": 1},
		{"name": "bad", "volume_cuft": 1, "weight_lbs": 1, "quantity": 1, "unit_cost": -1}
	]}`
	_, err := Decode(strings.NewReader(data), FormatJSON)
	e, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected typed error, got %v", err)
	}
	if e.Context["item_index"] != 1 {
		t.Errorf("item_index = %v, want 1", e.Context["item_index"])
	}
}

func TestEmptyDocumentIsEmptyOrder(t *testing.T) {
	o, err := Decode(strings.NewReader(""), FormatYAML)
	if err != nil || !o.IsEmpty() {
		t.Errorf("Decode(\"\") = %d items, %v", o.Len(), err)
	}
}

func TestWriteThenRead(t *testing.T) {
	for _, name := range []string{"order.yaml", "order.json"} {
		t.Run(name, func(t *testing.T) {
			src, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			path := filepath.Join(t.TempDir(), "nested", name)
			if err := Write(path, src); err != nil {
				t.Fatalf("Write: %v", err)
			}

			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			want := src.Items()
			for i, item := range got.Items() {
				if item.ID != want[i].ID || item.Name != want[i].Name || !item.VolumeCuft.Equal(want[i].VolumeCuft) {
					t.Errorf("item %d = %+v, want %+v", i, item, want[i])
				}
			}

			// Only the yoga mat has no dimensions.
			data, _ := os.ReadFile(path)
			if n := strings.Count(string(data), "volume_cuft"); n != 1 {
				t.Errorf("volume_cuft written %d times, want 1:\n%s", n, data)
			}
		})
	}
}

func TestReadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Read(path); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	o, err := ReadOrEmpty(path)
	if err != nil || !o.IsEmpty() {
		t.Errorf("ReadOrEmpty = %d items, %v", o.Len(), err)
	}
}

func TestReadRejectsExtension(t *testing.T) {
	if _, err := Read("order.txt"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}
}

func TestNewDocumentKeepsOrder(t *testing.T) {
	o := order.New(
		types.MustLineItem(types.LineItemInput{Name: "first", VolumeCuft: 1, Quantity: 1}),
		types.MustLineItem(types.LineItemInput{Name: "second", VolumeCuft: 2, Quantity: 1}),
	)
	doc := NewDocument(o)
	if len(doc.Items) != 2 || doc.Items[0].Name != "first" || doc.Items[1].VolumeCuft != 2 {
		t.Errorf("doc = %+v", doc)
	}
}
