package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"landed-cost/core/engine"
	"landed-cost/core/marketplace"
	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// ItemColumns are the header of an item export.
var ItemColumns = []string{
	"id", "name", "length_in", "width_in", "height_in",
	"volume_cuft", "weight_lbs", "quantity", "unit_cost_usd", "category",
}

func itemRecord(item types.LineItem) []string {
	return []string{
		item.ID,
		item.Name,
		item.Dimensions.LengthIn.String(),
		item.Dimensions.WidthIn.String(),
		item.Dimensions.HeightIn.String(),
		item.VolumeCuft.String(),
		item.WeightLbs.String(),
		strconv.FormatInt(item.Quantity, 10),
		item.UnitCost.StringFixed(2),
		item.Category,
	}
}

// WriteItemsCSV writes the line items as CSV with an ItemColumns header.
func WriteItemsCSV(w io.Writer, items []types.LineItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ItemColumns); err != nil {
		return errors.Internal("write csv header", err)
	}
	for _, item := range items {
		if err := cw.Write(itemRecord(item)); err != nil {
			return errors.Internal("write csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Internal("flush csv", err)
	}
	return nil
}

// Workbook sheet names.
const (
	SheetItems = "items"
	SheetCosts = "costs"
	SheetFees  = "fees"
)

// WriteXLSX writes a workbook with the order items, the import cost lines
// and the marketplace fees of result.
func WriteXLSX(w io.Writer, result *engine.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetItems); err != nil {
		return errors.Internal("create items sheet", err)
	}
	for _, name := range []string{SheetCosts, SheetFees} {
		if _, err := f.NewSheet(name); err != nil {
			return errors.Internal("create "+name+" sheet", err)
		}
	}

	header := make([]interface{}, len(ItemColumns))
	for i, col := range ItemColumns {
		header[i] = col
	}
	rows := [][]interface{}{header}
	for _, item := range result.Items {
		rows = append(rows, []interface{}{
			item.ID,
			item.Name,
			item.Dimensions.LengthIn.InexactFloat64(),
			item.Dimensions.WidthIn.InexactFloat64(),
			item.Dimensions.HeightIn.InexactFloat64(),
			item.VolumeCuft.InexactFloat64(),
			item.WeightLbs.InexactFloat64(),
			item.Quantity,
			item.UnitCost.InexactFloat64(),
			item.Category,
		})
	}
	if err := setRows(f, SheetItems, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"key", "label", "amount_usd"}}
	for _, line := range result.Costs.Lines() {
		rows = append(rows, []interface{}{line.Key, line.Label, line.Amount.InexactFloat64()})
	}
	rows = append(rows,
		[]interface{}{"total", "Total import cost", result.Costs.Total.InexactFloat64()},
		[]interface{}{"per_unit", "Per unit", result.Costs.PerUnit.InexactFloat64()},
		[]interface{}{"units", "Units", result.Costs.Units},
	)
	if err := setRows(f, SheetCosts, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"marketplace", "key", "label", "amount_usd"}}
	for _, fees := range []*marketplace.FeeBreakdown{result.Amazon, result.Walmart} {
		if fees == nil {
			continue
		}
		for _, line := range fees.Lines() {
			rows = append(rows, []interface{}{string(fees.Marketplace), line.Key, line.Label, line.Amount.InexactFloat64()})
		}
		rows = append(rows, []interface{}{string(fees.Marketplace), "total", "Total fees", fees.Total.InexactFloat64()})
	}
	if err := setRows(f, SheetFees, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.Internal("write workbook", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Internal("cell name", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.Internal(fmt.Sprintf("write %s row %d", sheet, i+1), err)
		}
	}
	return nil
}

// WritePDF writes a one-page quote for result.
func WritePDF(w io.Writer, result *engine.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Landed Cost Estimate", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Landed Cost Estimate")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Item: %s", result.Item.Name),
		fmt.Sprintf("Container: %s (%s mode)", result.ContainerID, result.Mode),
		fmt.Sprintf("Units: %d (%s)", result.Fit.Units, result.Fit.Binding),
		fmt.Sprintf("Space utilization: %s%%   Weight utilization: %s%%",
			result.Fit.SpaceUtilizationPct.StringFixed(2), result.Fit.WeightUtilizationPct.StringFixed(2)),
		fmt.Sprintf("Rates: %s (%s)", result.RatesSource, result.RatesFingerprint),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	table := func(title string, lines []types.CostLine, total string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(110, 6, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, "Amount (USD)", "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, line := range lines {
			pdf.CellFormat(110, 6, line.Label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, line.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(110, 6, "Total", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, total, "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	table("Import costs", result.Costs.Lines(), result.Costs.Total.StringFixed(2))
	for _, fees := range []*marketplace.FeeBreakdown{result.Amazon, result.Walmart} {
		if fees != nil {
			table(fees.Marketplace.DisplayName()+" fees (per unit)", fees.Lines(), fees.Total.StringFixed(2))
		}
	}

	p := result.Pricing
	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Selling price: %s", p.SellingPrice.StringFixed(2)),
		fmt.Sprintf("Landed cost per unit: %s", p.LandedCostPerUnit.StringFixed(2)),
		fmt.Sprintf("Gross margin: %s (%s%%)", p.GrossMarginPerUnit.StringFixed(2), p.GrossMarginPct.StringFixed(2)),
		fmt.Sprintf("Price for %s%% margin: %s", p.TargetMarginPct.String(), p.SuggestedPrice.StringFixed(2)),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Internal("write pdf", err)
	}
	return nil
}
