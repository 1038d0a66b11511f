// Package cmd - calculate command
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landed-cost/adapters/orderfile"
	"landed-cost/core/engine"
	"landed-cost/core/output"
	"landed-cost/core/rates"
	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
)

const defaultOrderPath = "order.yaml"

type calculateOptions struct {
	orderPath   string
	ratesPath   string
	container   string
	target      float64
	days        int
	freightRate float64
	trucking    float64
	price       float64
	noAmazon    bool
	noWalmart   bool
	mode        string
	format      string
	details     bool

	xlsxPath string
	pdfPath  string
	csvPath  string
}

// newCalculateCmd represents the calculate command
func newCalculateCmd(root *rootOptions) *cobra.Command {
	opts := &calculateOptions{}
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the landed cost of the working order",
		Long: `Fit the working order into a container and estimate the landed cost,
the marketplace fees and the margin at a selling price.

Flags left unset take their values from the config file.

Examples:
  landed-cost calculate
  landed-cost calculate --order spring.yaml --container 40ft --target 0.85
  landed-cost calculate --price 34.99 --no-walmart
  landed-cost calculate --format markdown --pdf quote.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.orderPath, "order", "o", defaultOrderPath, "order file (.yaml or .json)")
	f.StringVar(&opts.ratesPath, "rates", "", "rates file (.json, .yaml or .hcl); overrides the config")
	f.StringVarP(&opts.container, "container", "c", "", "container type (20ft, 40ft, 40hc)")
	f.Float64Var(&opts.target, "target", 0, "utilization target, a fraction in (0, 1]")
	f.IntVar(&opts.days, "days", 0, "days in the China warehouse")
	f.Float64Var(&opts.freightRate, "freight-rate", 0, "ocean freight per cubic foot (USD)")
	f.Float64Var(&opts.trucking, "trucking", 0, "inland trucking per shipment (USD)")
	f.Float64VarP(&opts.price, "price", "p", 0, "selling price per unit (USD); default is a markup over unit cost")
	f.BoolVar(&opts.noAmazon, "no-amazon", false, "skip the Amazon FBA estimate")
	f.BoolVar(&opts.noWalmart, "no-walmart", false, "skip the Walmart WFS estimate")
	f.StringVarP(&opts.mode, "mode", "m", string(engine.ModeRepresentative), "multi-item mode (representative, order)")
	f.StringVarP(&opts.format, "format", "f", "", "output format (cli, json, markdown)")
	f.BoolVarP(&opts.details, "details", "d", true, "show every cost line")
	f.StringVar(&opts.xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	f.StringVar(&opts.pdfPath, "pdf", "", "also write a PDF quote to this path")
	f.StringVar(&opts.csvPath, "csv", "", "also write the line items as CSV to this path")
	return cmd
}

func runCalculate(cmd *cobra.Command, root *rootOptions, opts *calculateOptions) error {
	cfg := root.cfg
	flags := cmd.Flags()

	o, err := orderfile.Read(opts.orderPath)
	if err != nil {
		if errors.IsType(err, errors.TypeNotFound) {
			return fmt.Errorf("no order at %s; add items with 'landed-cost order add'", opts.orderPath)
		}
		return err
	}

	req := cfg.Calculation.Request()
	req.Order = o
	req.Mode = engine.Mode(opts.mode)
	if flags.Changed("container") {
		req.ContainerID = opts.container
	}
	if flags.Changed("target") {
		req.UtilizationTarget = decimal.NewFromFloat(opts.target)
	}
	if flags.Changed("days") {
		req.ChinaWarehouseDays = int64(opts.days)
	}
	if flags.Changed("freight-rate") {
		req.OceanFreightPerCuft = decimal.NewFromFloat(opts.freightRate)
	}
	if flags.Changed("trucking") {
		req.InlandTrucking = decimal.NewFromFloat(opts.trucking)
	}
	if flags.Changed("price") {
		req.SellingPrice = decimal.NewFromFloat(opts.price)
	}
	if opts.noAmazon {
		req.IncludeAmazon = false
	}
	if opts.noWalmart {
		req.IncludeWalmart = false
	}

	ratesPath := cfg.Rates.Path
	if flags.Changed("rates") {
		ratesPath = opts.ratesPath
	}
	provider := rates.NewProvider(ratesPath, nil)
	if err := provider.LastError(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: using built-in rates: %v\n", err)
	}

	eng := engine.New(provider, nil, cfg.Calculation.EngineOptions())
	result, err := eng.Calculate(cmd.Context(), req)
	if err != nil {
		return err
	}

	format := cfg.Output.DefaultFormat
	if flags.Changed("format") {
		format = opts.format
	}
	showDetails := cfg.Output.ShowDetails
	if flags.Changed("details") {
		showDetails = opts.details
	}
	formatter, err := output.NewFormatter(output.Format(format), output.Options{ShowDetails: showDetails})
	if err != nil {
		return err
	}
	if err := formatter.Render(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	exports := []struct {
		path  string
		write func(io.Writer) error
	}{
		{opts.xlsxPath, func(w io.Writer) error { return output.WriteXLSX(w, result) }},
		{opts.pdfPath, func(w io.Writer) error { return output.WritePDF(w, result) }},
		{opts.csvPath, func(w io.Writer) error { return output.WriteItemsCSV(w, result.Items) }},
	}
	for _, export := range exports {
		if export.path == "" {
			continue
		}
		if err := writeFile(export.path, export.write); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", export.path)
	}
	return nil
}

// writeFile creates path and streams write into it.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.TypeInternal, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(errors.TypeInternal, err, "close %s", path)
	}
	logging.Debug("export written", zap.String("path", path))
	return nil
}
