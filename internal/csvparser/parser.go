// =============================================================================
// Sales Ledger Comparer - CSV Snapshot Parser
// =============================================================================
//
// This module decodes a ledger that was exported as CSV instead of XLSX. The
// output has the same shape as the XLSX parser's grid so the snapshot package
// can treat both sources alike.
//
// CELL TYPING:
//   CSV carries no cell types, so every non-empty value is decoded as text.
//   A "46023" in a CSV export therefore stays "46023"; it is only converted
//   to a date when the workbook stored it as a number.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon)
//   - Ragged rows (variable number of fields per record)
//   - Lazy quotes for hand-edited exports
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/config"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns its records as typed cells.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV settings from the main configuration.
//
// RETURNS:
//   - One slice of cells per record.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) ([][]types.Cell, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(bufio.NewReader(file), settings)
}

// Read decodes CSV records from r.
func Read(r io.Reader, settings config.CSVSettings) ([][]types.Cell, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	rows := make([][]types.Cell, len(records))
	for i, record := range records {
		cells := make([]types.Cell, len(record))
		for j, value := range record {
			if value != "" {
				cells[j] = types.Text(value)
			}
		}
		rows[i] = cells
	}

	return rows, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports are often ragged: subtotal lines stop after a few columns.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}
