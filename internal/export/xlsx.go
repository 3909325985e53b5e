package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Invoices"
	lineItemsSheet = "Line Items"
)

// WriteXLSX writes a workbook with an "Invoices" summary sheet and a
// "Line Items" sheet holding every line item of every successful result.
func WriteXLSX(out io.Writer, results []Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("xlsx rename sheet: %w", err)
	}
	if _, err := f.NewSheet(lineItemsSheet); err != nil {
		return fmt.Errorf("xlsx new sheet: %w", err)
	}

	if err := writeRow(f, summarySheet, 1, columns); err != nil {
		return err
	}
	if err := writeRow(f, lineItemsSheet, 1, lineItemColumns); err != nil {
		return err
	}

	itemRow := 2
	for i := range results {
		r := &results[i]
		if err := writeRow(f, summarySheet, i+2, resultToRow(r)); err != nil {
			return err
		}
		if r.Record == nil {
			continue
		}
		for j := range r.Record.LineItems {
			if err := writeRow(f, lineItemsSheet, itemRow, lineItemToRow(r.Source, &r.Record.LineItems[j])); err != nil {
				return err
			}
			itemRow++
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 32) // source
	_ = f.SetColWidth(summarySheet, "B", "C", 28) // customer
	_ = f.SetColWidth(summarySheet, "O", "O", 48) // error
	_ = f.SetColWidth(lineItemsSheet, "A", "C", 28)

	idx, err := f.GetSheetIndex(summarySheet)
	if err != nil {
		return fmt.Errorf("xlsx sheet index: %w", err)
	}
	f.SetActiveSheet(idx)

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("xlsx row %d of %s: %w", row, sheet, err)
	}
	return nil
}
