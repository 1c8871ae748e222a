// =============================================================================
// Sales Ledger Comparer - Snapshot Builder
// =============================================================================
//
// This module turns a decoded cell grid into a Snapshot: the header row is
// located, columns are resolved, and every data row below the header is
// normalized into a types.Row.
//
// ROW NORMALIZATION:
//   1. The identifier is rendered with normalize.Display; numeric cells in
//      the date-serial range become "YYYY/MM/DD".
//   2. Rows whose identifier is empty, or reduces to nothing once invisible
//      characters are stripped, are discarded and counted.
//   3. Project name and customer are rendered the same way; a column that
//      was not found yields "".
//   4. The raw cells and the column map are kept on the row.
//
// =============================================================================

package snapshot

import (
	"fmt"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/columns"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/normalize"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// Snapshot is one parsed ledger file.
type Snapshot struct {
	// Path and Sheet identify the source. Sheet is empty for CSV files.
	Path  string
	Sheet string

	// HeaderRow is the 1-based row number of the header.
	HeaderRow int
	Header    []string
	Columns   types.ColumnMap

	// Rows holds the normalized data rows in sheet order.
	Rows []types.Row

	// Discarded counts data rows dropped for lacking an identifier.
	Discarded int

	// Fingerprint is the xxh3 hash of the source file content.
	Fingerprint uint64
}

// Options controls header discovery and column resolution.
type Options struct {
	// Labels identifies each field's header. Nil means columns.DefaultLabels.
	Labels columns.Labels

	// ScanLimit bounds the header search; zero means columns.DefaultScanLimit.
	ScanLimit int
}

func (o Options) labels() columns.Labels {
	if o.Labels == nil {
		return columns.DefaultLabels()
	}
	return o.Labels
}

// =============================================================================
// BUILDING
// =============================================================================

// Build locates the header in rows and normalizes everything below it.
//
// PARAMETERS:
//   - rows: The decoded grid, in sheet order.
//   - opts: Label and scan settings.
//
// RETURNS:
//   - A Snapshot with Path, Sheet and Fingerprint left empty.
//   - An error wrapping columns.ErrHeaderNotFound if no header is found.
func Build(rows [][]types.Cell, opts Options) (*Snapshot, error) {
	labels := opts.labels()

	text := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = c.String()
		}
		text[i] = cells
	}

	headerIdx, err := columns.FindHeaderRow(text, labels[types.FieldID], opts.ScanLimit)
	if err != nil {
		return nil, err
	}

	header := text[headerIdx]
	cols := columns.Resolve(header, labels)
	if !cols.Has(types.FieldID) {
		// FindHeaderRow and Resolve use the same matching, so this only
		// happens with inconsistent labels.
		return nil, fmt.Errorf("%w: identifier column not resolved", columns.ErrHeaderNotFound)
	}

	snap := &Snapshot{
		HeaderRow: headerIdx + 1,
		Header:    header,
		Columns:   cols,
		Rows:      make([]types.Row, 0, len(rows)-headerIdx-1),
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row, ok := NormalizeRow(rows[i], cols, i+1)
		if !ok {
			snap.Discarded++
			continue
		}
		snap.Rows = append(snap.Rows, row)
	}

	return snap, nil
}

// NormalizeRow converts one raw row into a types.Row.
//
// PARAMETERS:
//   - cells: The raw row.
//   - cols: The snapshot's column map.
//   - number: The 1-based sheet row number.
//
// RETURNS:
//   - The normalized row, and false if the row has no usable identifier.
func NormalizeRow(cells []types.Cell, cols types.ColumnMap, number int) (types.Row, bool) {
	id := normalize.Display(cellAt(cells, cols, types.FieldID))
	if id == "" || normalize.Key(id) == "" {
		return types.Row{}, false
	}

	return types.Row{
		ID:          id,
		ProjectName: normalize.Display(cellAt(cells, cols, types.FieldProject)),
		Customer:    normalize.Display(cellAt(cells, cols, types.FieldCustomer)),
		Number:      number,
		Date:        cellAt(cells, cols, types.FieldDate),
		Status:      cellAt(cells, cols, types.FieldStatus),
		Product:     cellAt(cells, cols, types.FieldProduct),
		QtyPiece:    cellAt(cells, cols, types.FieldQtyPiece),
		QtyKW:       cellAt(cells, cols, types.FieldQtyKW),
		Cells:       cells,
		Columns:     cols,
	}, true
}

// cellAt returns the cell of a field, or an empty cell if the field is
// unmapped or the row is shorter than its column.
func cellAt(cells []types.Cell, cols types.ColumnMap, f types.Field) types.Cell {
	idx, ok := cols.Index(f)
	if !ok || idx >= len(cells) {
		return types.Cell{}
	}
	return cells[idx]
}
