// Package orderfile reads and writes order documents: a list of line items
// in YAML or JSON, selected by file extension.
package orderfile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"landed-cost/core/order"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Format is an order document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.Inputf("unsupported order file extension %q (use .yaml or .json)", filepath.Ext(path))
}

// Document is the on-disk layout of an order.
type Document struct {
	Items []Item `json:"items" yaml:"items"`
}

// Item is one line item in a document. Give either the three dimensions or
// volume_cuft.
type Item struct {
	ID         string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string  `json:"name" yaml:"name"`
	LengthIn   float64 `json:"length_in,omitempty" yaml:"length_in,omitempty"`
	WidthIn    float64 `json:"width_in,omitempty" yaml:"width_in,omitempty"`
	HeightIn   float64 `json:"height_in,omitempty" yaml:"height_in,omitempty"`
	VolumeCuft float64 `json:"volume_cuft,omitempty" yaml:"volume_cuft,omitempty"`
	WeightLbs  float64 `json:"weight_lbs" yaml:"weight_lbs"`
	Quantity   int64   `json:"quantity" yaml:"quantity"`
	UnitCost   float64 `json:"unit_cost" yaml:"unit_cost"`
	Category   string  `json:"category,omitempty" yaml:"category,omitempty"`
}

// Input converts the document item to an unvalidated line item.
func (i Item) Input() types.LineItemInput {
	return types.LineItemInput{
		ID:         i.ID,
		Name:       i.Name,
		LengthIn:   i.LengthIn,
		WidthIn:    i.WidthIn,
		HeightIn:   i.HeightIn,
		VolumeCuft: i.VolumeCuft,
		WeightLbs:  i.WeightLbs,
		Quantity:   i.Quantity,
		UnitCost:   i.UnitCost,
		Category:   i.Category,
	}
}

// FromLineItem converts a validated line item for writing. Volume is only
// written when the item has no dimensions.
func FromLineItem(li types.LineItem) Item {
	in := li.Input()
	item := Item{
		ID:        in.ID,
		Name:      in.Name,
		LengthIn:  in.LengthIn,
		WidthIn:   in.WidthIn,
		HeightIn:  in.HeightIn,
		WeightLbs: in.WeightLbs,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Category:  in.Category,
	}
	if li.Dimensions.IsZero() {
		item.VolumeCuft = in.VolumeCuft
	}
	return item
}

// Read loads the order at path. A missing file is a NOT_FOUND error.
func Read(path string) (order.Order, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return order.Order{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return order.Order{}, errors.NotFound("order file", path)
		}
		return order.Order{}, errors.Wrap(errors.TypeInput, "open order file", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// ReadOrEmpty is Read, but a missing file is an empty order.
func ReadOrEmpty(path string) (order.Order, error) {
	o, err := Read(path)
	if errors.IsType(err, errors.TypeNotFound) {
		return order.Order{}, nil
	}
	return o, err
}

// Decode parses an order document and validates every item.
func Decode(r io.Reader, format Format) (order.Order, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return order.Order{}, errors.Parsing("decode order YAML", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return order.Order{}, errors.Parsing("decode order JSON", err)
		}
	default:
		return order.Order{}, errors.Inputf("unsupported order format %q", format)
	}
	return doc.Order()
}

// Order validates the document items into an order.
func (d Document) Order() (order.Order, error) {
	items := make([]types.LineItem, 0, len(d.Items))
	for i, in := range d.Items {
		item, err := types.NewLineItem(in.Input())
		if err != nil {
			if e, ok := errors.As(err); ok {
				return order.Order{}, e.WithContext("item_index", i)
			}
			return order.Order{}, err
		}
		items = append(items, item)
	}
	return order.New(items...), nil
}

// NewDocument converts an order for writing.
func NewDocument(o order.Order) Document {
	items := o.Items()
	doc := Document{Items: make([]Item, 0, len(items))}
	for _, li := range items {
		doc.Items = append(doc.Items, FromLineItem(li))
	}
	return doc
}

// Encode writes o in format.
func Encode(w io.Writer, o order.Order, format Format) error {
	doc := NewDocument(o)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Internal("encode order YAML", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.Internal("encode order JSON", err)
		}
		return nil
	}
	return errors.Inputf("unsupported order format %q", format)
}

// Write saves o to path, creating the directory if needed.
func Write(path string, o order.Order) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, o, format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.TypeInternal, "create order directory", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(errors.TypeInternal, "write order file", err)
	}
	return nil
}
