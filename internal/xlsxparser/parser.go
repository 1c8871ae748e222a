// =============================================================================
// Sales Ledger Comparer - XLSX Snapshot Parser
// =============================================================================
//
// This module decodes a ledger workbook into a grid of typed cells. It does no
// interpretation of the ledger itself: finding the header, resolving columns
// and normalizing rows all happen in the snapshot package.
//
// CELL TYPING:
//   Cells are read with their raw (unformatted) values so that dates arrive
//   as spreadsheet serial numbers. The stored cell type decides whether the
//   value is kept as a number or as text:
//
//   | Stored type               | Decoded as                   |
//   |---------------------------|------------------------------|
//   | shared / inline string    | text                         |
//   | formula string result     | text                         |
//   | boolean                   | text ("TRUE" / "FALSE")      |
//   | error                     | text (e.g. "#N/A")           |
//   | number / unset            | number, if it parses         |
//
// SHEET SELECTION:
//   The first sheet is used unless a sheet name is given.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// =============================================================================
// GRID STRUCTURE
// =============================================================================

// Grid is the decoded content of one worksheet.
type Grid struct {
	// SourceFile is the path of the workbook.
	SourceFile string

	// Sheet is the worksheet that was read.
	Sheet string

	// Rows holds typed cells, row by row. Trailing empty cells are omitted.
	Rows [][]types.Cell
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a worksheet from an XLSX workbook.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - sheet: The worksheet name; empty selects the first sheet.
//
// RETURNS:
//   - The decoded Grid.
//   - An error if the workbook cannot be opened or the sheet cannot be read.
func Parse(path, sheet string) (*Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	grid, err := parseFile(f, sheet)
	if err != nil {
		return nil, err
	}
	grid.SourceFile = path
	return grid, nil
}

// parseFile decodes one sheet from an already opened workbook.
func parseFile(f *excelize.File, sheet string) (*Grid, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(f.GetSheetList(), ", "))
	}

	// Raw values keep dates as serial numbers instead of formatted text.
	rawRows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	grid := &Grid{
		Sheet: sheet,
		Rows:  make([][]types.Cell, len(rawRows)),
	}

	for r, raw := range rawRows {
		cells := make([]types.Cell, len(raw))
		for c, value := range raw {
			cell, err := decodeCell(f, sheet, c, r, value)
			if err != nil {
				return nil, fmt.Errorf("error decoding row %d: %w", r+1, err)
			}
			cells[c] = cell
		}
		grid.Rows[r] = cells
	}

	return grid, nil
}

// decodeCell turns a raw cell value into a typed Cell using the stored type.
func decodeCell(f *excelize.File, sheet string, col, row int, raw string) (types.Cell, error) {
	if raw == "" {
		return types.Cell{}, nil
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return types.Cell{}, err
	}

	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return types.Cell{}, fmt.Errorf("failed to read type of %s: %w", axis, err)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeError, excelize.CellTypeDate:
		return types.Text(raw), nil
	case excelize.CellTypeBool:
		if raw == "1" {
			return types.Text("TRUE"), nil
		}
		return types.Text("FALSE"), nil
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return types.Number(v), nil
	}
	return types.Text(raw), nil
}

// =============================================================================
// GRID METHODS
// =============================================================================

// Strings returns the grid as plain strings, for header discovery.
func (g *Grid) Strings() [][]string {
	out := make([][]string, len(g.Rows))
	for i, row := range g.Rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.String()
		}
		out[i] = cells
	}
	return out
}

// =============================================================================
// MULTI-SHEET SUPPORT
// =============================================================================

// ListSheets returns the worksheet names of a workbook, in order.
func ListSheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}
