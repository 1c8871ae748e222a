// =============================================================================
// Sales Ledger Comparer - Column Resolver
// =============================================================================
//
// This module locates the header row of a ledger sheet and maps each semantic
// field (identifier, date, status, ...) to a column position.
//
// MATCHING:
//   Header cells and target labels are both reduced to a matching form:
//     1. every whitespace / invisible spacing rune is removed
//     2. full-width characters are folded to their narrow forms
//     3. Unicode case folding is applied
//   A field maps to the FIRST header whose matching form contains the
//   label's matching form. Fields without a match map to types.NotFound; this
//   is never an error, later stages skip such fields.
//
// HEADER DISCOVERY:
//   FindHeaderRow scans a bounded number of leading rows for a cell that
//   contains the identifier label. Failing to find one is fatal for the file.
//
// =============================================================================

package columns

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/normalize"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// DefaultScanLimit is the number of leading rows searched for the header.
const DefaultScanLimit = 100

// ErrHeaderNotFound is returned when no header row carries the identifier label.
var ErrHeaderNotFound = errors.New("header row not found")

// =============================================================================
// LABELS
// =============================================================================

// Labels holds the header text that identifies each semantic field.
type Labels map[types.Field]string

// DefaultLabels returns the header labels used by the sales ledger exports.
func DefaultLabels() Labels {
	return Labels{
		types.FieldID:       "編號",
		types.FieldDate:     "日",
		types.FieldStatus:   "狀態",
		types.FieldProduct:  "產品",
		types.FieldQtyPiece: "Qtypc",
		types.FieldQtyKW:    "QtykW",
		types.FieldProject:  "案名",
		types.FieldCustomer: "客戶",
	}
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve maps every labelled field to its column in header.
//
// PARAMETERS:
//   - header: The header row cells, in column order.
//   - labels: The label to search for, per field.
//
// RETURNS:
//   - A ColumnMap; fields without a label or without a match hold NotFound.
func Resolve(header []string, labels Labels) types.ColumnMap {
	cols := types.NewColumnMap()

	matchForms := make([]string, len(header))
	for i, h := range header {
		matchForms[i] = MatchForm(h)
	}

	for _, field := range types.Fields {
		cols[field] = findColumn(matchForms, labels[field])
	}

	return cols
}

// findColumn returns the first column whose match form contains label.
func findColumn(matchForms []string, label string) int {
	target := MatchForm(label)
	if target == "" {
		return types.NotFound
	}

	for i, form := range matchForms {
		if strings.Contains(form, target) {
			return i
		}
	}
	return types.NotFound
}

// MatchForm reduces a header or label to the form used for fuzzy matching.
func MatchForm(s string) string {
	s = normalize.StripInvisible(s)
	s = width.Fold.String(s)
	return cases.Fold().String(s)
}

// =============================================================================
// HEADER DISCOVERY
// =============================================================================

// FindHeaderRow returns the index of the first row, within the first limit
// rows, that has a cell containing idLabel.
//
// RETURNS:
//   - The 0-based row index.
//   - An error wrapping ErrHeaderNotFound when no such row exists.
func FindHeaderRow(rows [][]string, idLabel string, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultScanLimit
	}

	target := MatchForm(idLabel)
	if target == "" {
		return -1, fmt.Errorf("%w: identifier label is empty", ErrHeaderNotFound)
	}

	for i := 0; i < len(rows) && i < limit; i++ {
		for _, cell := range rows[i] {
			if strings.Contains(MatchForm(cell), target) {
				return i, nil
			}
		}
	}

	return -1, fmt.Errorf("%w: no row within the first %d contains %q", ErrHeaderNotFound, limit, idLabel)
}
