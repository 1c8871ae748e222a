package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// columnWidths are the XLSX widths of the five report columns.
var columnWidths = []float64{12, 15, 40, 20, 80}

// WriteXLSX writes records to a single-sheet workbook at path.
//
// PARAMETERS:
//   - path: The output file; an existing file is overwritten.
//   - records: The projected report records.
//   - labels: Sheet name and column headers.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func WriteXLSX(path string, records []Record, labels Labels) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := labels.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	header := labels.Header()
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, record := range records {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := record.Values()
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := styleSheet(f, sheet, len(records)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// styleSheet applies the bold header, column widths and a frozen header row.
func styleSheet(f *excelize.File, sheet string, rows int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E7E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columnWidths), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	if rows > 0 {
		wrapStyle, err := f.NewStyle(&excelize.Style{
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		})
		if err != nil {
			return fmt.Errorf("failed to create details style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(columnWidths), rows+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "E2", last, wrapStyle); err != nil {
			return fmt.Errorf("failed to style details: %w", err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// WriteCSV writes records as CSV with a header line.
func WriteCSV(w io.Writer, records []Record, labels Labels) error {
	// Excel only detects UTF-8 in CSV files that start with a BOM.
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(labels.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(record.Values()); err != nil {
			return fmt.Errorf("failed to write record %s: %w", record.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
