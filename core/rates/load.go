package rates

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
)

// Format is a rates file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// Source says where a table in use came from.
type Source string

const (
	// SourceFile is a table read and validated from disk
	SourceFile Source = "file"

	// SourceDefault is the built-in table
	SourceDefault Source = "default"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", errors.Newf(errors.TypeConfig, "unsupported rates file extension %q (use .json, .yaml or .hcl)", filepath.Ext(path))
}

// Load reads, validates and normalizes a rates table. Any failure is
// returned; the caller decides whether to fall back.
func Load(path string) (*RatesConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("read rates file "+path, err)
	}
	return Decode(data, format, path)
}

// Decode parses a rates table from data. name is used in HCL diagnostics.
func Decode(data []byte, format Format, name string) (*RatesConfig, error) {
	var (
		cfg *RatesConfig
		err error
	)
	switch format {
	case FormatJSON:
		cfg, err = decodeDocument(data, func(doc *document) error {
			dec := json.NewDecoder(bytes.NewReader(data))
			return dec.Decode(doc)
		})
	case FormatYAML:
		cfg, err = decodeDocument(data, func(doc *document) error {
			return yaml.Unmarshal(data, doc)
		})
	case FormatHCL:
		cfg, err = decodeHCL(data, name)
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported rates format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path and falls back to Default on any failure. The
// fallback is all-or-nothing: a table that fails to load contributes nothing.
// The load error is returned for logging only. An empty path selects the
// built-in table without error.
func LoadOrDefault(path string) (*RatesConfig, Source, error) {
	if path == "" {
		return Default(), SourceDefault, nil
	}
	cfg, err := Load(path)
	if err != nil {
		logging.Warn("rates table unavailable, using built-in defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return Default(), SourceDefault, err
	}
	logging.Debug("rates table loaded",
		zap.String("path", path),
		zap.String("fingerprint", cfg.Fingerprint()),
	)
	return cfg, SourceFile, nil
}

// document mirrors RatesConfig with optional sections so missing ones
// can be reported instead of silently decoding as zero.
type document struct {
	Containers    map[string]Container `json:"containers" yaml:"containers"`
	TariffRates   *RateTable           `json:"tariff_rates" yaml:"tariff_rates"`
	ImportFees    *ImportFees          `json:"import_fees" yaml:"import_fees"`
	ShippingCosts *ShippingCosts       `json:"shipping_costs" yaml:"shipping_costs"`
	FBAFees       *FBAFees             `json:"fba_fees" yaml:"fba_fees"`
	WFSFees       *WFSFees             `json:"wfs_fees" yaml:"wfs_fees"`
}

func decodeDocument(data []byte, unmarshal func(*document) error) (*RatesConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.TypeConfig, "rates file is empty")
	}
	var doc document
	if err := unmarshal(&doc); err != nil {
		return nil, errors.Parsing("decode rates table", err)
	}

	var missing []string
	if doc.Containers == nil {
		missing = append(missing, "containers")
	}
	if doc.TariffRates == nil {
		missing = append(missing, "tariff_rates")
	}
	if doc.ImportFees == nil {
		missing = append(missing, "import_fees")
	}
	if doc.ShippingCosts == nil {
		missing = append(missing, "shipping_costs")
	}
	if doc.FBAFees == nil {
		missing = append(missing, "fba_fees")
	}
	if doc.WFSFees == nil {
		missing = append(missing, "wfs_fees")
	}
	if len(missing) > 0 {
		return nil, errors.Newf(errors.TypeConfig, "rates table is missing sections: %s", strings.Join(missing, ", ")).
			WithContext("missing", missing)
	}

	return &RatesConfig{
		Containers:    doc.Containers,
		TariffRates:   *doc.TariffRates,
		ImportFees:    *doc.ImportFees,
		ShippingCosts: *doc.ShippingCosts,
		FBAFees:       *doc.FBAFees,
		WFSFees:       *doc.WFSFees,
	}, nil
}

// hclDocument is the HCL layout of a rates table. Containers are labelled
// blocks; every other section is a single required block.
type hclDocument struct {
	Containers    []hclContainer `hcl:"container,block"`
	TariffRates   RateTable      `hcl:"tariff_rates,block"`
	ImportFees    ImportFees     `hcl:"import_fees,block"`
	ShippingCosts ShippingCosts  `hcl:"shipping_costs,block"`
	FBAFees       FBAFees        `hcl:"fba_fees,block"`
	WFSFees       WFSFees        `hcl:"wfs_fees,block"`
}

type hclContainer struct {
	ID         string  `hcl:"id,label"`
	VolumeCuft float64 `hcl:"volume_cuft,attr"`
	PayloadLbs float64 `hcl:"payload_lbs,attr"`
}

func decodeHCL(src []byte, filename string) (*RatesConfig, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("parse rates HCL", diags)
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.Parsing("decode rates HCL", diags)
	}

	containers := make(map[string]Container, len(doc.Containers))
	for _, c := range doc.Containers {
		if _, dup := containers[c.ID]; dup {
			return nil, errors.Newf(errors.TypeConfig, "container %q declared twice", c.ID)
		}
		containers[c.ID] = Container{VolumeCuft: c.VolumeCuft, PayloadLbs: c.PayloadLbs}
	}

	return &RatesConfig{
		Containers:    containers,
		TariffRates:   doc.TariffRates,
		ImportFees:    doc.ImportFees,
		ShippingCosts: doc.ShippingCosts,
		FBAFees:       doc.FBAFees,
		WFSFees:       doc.WFSFees,
	}, nil
}
