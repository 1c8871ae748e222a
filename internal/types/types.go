// =============================================================================
// Sales Ledger Comparer - Shared Types
// =============================================================================
//
// This package contains the types shared by every stage of the comparison
// pipeline. Keeping them here avoids import cycles between:
//   - columns    (header resolution)
//   - snapshot   (row normalization)
//   - diff       (comparison engine)
//   - report     (export projection)
//   - summary    (AI summary)
//
// LIFECYCLE:
//   Row and ColumnMap values are produced once per parsed file and are never
//   modified afterwards. A ComparisonResult is produced once per comparison;
//   the only later change is attaching a summary via WithSummary, which
//   returns a copy.
//
// =============================================================================

package types

import "strconv"

// =============================================================================
// CELL VALUES
// =============================================================================

// CellKind tells whether a spreadsheet cell held nothing, text, or a number.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is a single decoded spreadsheet value.
//
// The decoder keeps numbers as numbers so that the date-serial heuristic can
// be applied only to numeric cells. A text cell holding "46023" stays text.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// IsEmpty reports whether the cell carries no value at all.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell without any normalization.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// =============================================================================
// SEMANTIC FIELDS
// =============================================================================

// Field enumerates the semantic columns of the sales ledger.
type Field int

const (
	FieldID Field = iota
	FieldDate
	FieldStatus
	FieldProduct
	FieldQtyPiece
	FieldQtyKW
	FieldProject
	FieldCustomer

	fieldCount
)

// Fields lists every semantic field in declaration order.
var Fields = []Field{
	FieldID,
	FieldDate,
	FieldStatus,
	FieldProduct,
	FieldQtyPiece,
	FieldQtyKW,
	FieldProject,
	FieldCustomer,
}

var fieldNames = [fieldCount]string{
	FieldID:       "id",
	FieldDate:     "date",
	FieldStatus:   "status",
	FieldProduct:  "product",
	FieldQtyPiece: "qty_pc",
	FieldQtyKW:    "qty_kw",
	FieldProject:  "project",
	FieldCustomer: "customer",
}

// String returns the configuration key of the field (e.g. "qty_pc").
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// ParseField maps a configuration key back to a Field.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// =============================================================================
// COLUMN MAP
// =============================================================================

// NotFound marks a field whose header could not be located.
const NotFound = -1

// ColumnMap maps every semantic field to a 0-based column index for one
// snapshot's header layout. Missing fields hold NotFound.
type ColumnMap [fieldCount]int

// NewColumnMap returns a map with every field set to NotFound.
func NewColumnMap() ColumnMap {
	var m ColumnMap
	for i := range m {
		m[i] = NotFound
	}
	return m
}

// Index returns the column of a field and whether it was found.
func (m ColumnMap) Index(f Field) (int, bool) {
	if f < 0 || f >= fieldCount {
		return NotFound, false
	}
	idx := m[f]
	return idx, idx != NotFound
}

// Has reports whether a field was resolved.
func (m ColumnMap) Has(f Field) bool {
	_, ok := m.Index(f)
	return ok
}

// =============================================================================
// ROW
// =============================================================================

// Row is one normalized data row of a snapshot.
type Row struct {
	// ID is the display form of the identifier cell. Never empty.
	ID string

	// ProjectName is empty for aggregate/subtotal lines.
	ProjectName string

	// Customer may be empty.
	Customer string

	// Number is the 1-based row number in the source sheet.
	Number int

	// Tracked cells, extracted through Columns at normalization time.
	Date     Cell
	Status   Cell
	Product  Cell
	QtyPiece Cell
	QtyKW    Cell

	// Cells is the full raw row; Columns is the layout it was read with.
	Cells   []Cell
	Columns ColumnMap
}

// Field returns the named cell for a field and whether the field exists in
// this row's column map.
func (r Row) Field(f Field) (Cell, bool) {
	if !r.Columns.Has(f) {
		return Cell{}, false
	}

	switch f {
	case FieldDate:
		return r.Date, true
	case FieldStatus:
		return r.Status, true
	case FieldProduct:
		return r.Product, true
	case FieldQtyPiece:
		return r.QtyPiece, true
	case FieldQtyKW:
		return r.QtyKW, true
	case FieldID:
		return Text(r.ID), true
	case FieldProject:
		return Text(r.ProjectName), true
	case FieldCustomer:
		return Text(r.Customer), true
	}
	return Cell{}, false
}

// IsSubtotal reports whether the row is an aggregate line rather than an item.
func (r Row) IsSubtotal() bool {
	return r.ProjectName == ""
}

// =============================================================================
// COMPARISON RESULT
// =============================================================================

// DefaultEmptyPlaceholder replaces blank values in a FieldChange.
const DefaultEmptyPlaceholder = "(empty)"

// FieldChange is one changed tracked field of a modified row.
type FieldChange struct {
	Field    Field
	Column   string
	OldValue string
	NewValue string
}

// ComparisonDiff describes a matched row whose tracked fields differ.
type ComparisonDiff struct {
	Key         string
	ID          string
	ProjectName string
	Customer    string

	OldRowNumber int
	NewRowNumber int

	// Changes follow the tracked-field order, not the column order.
	Changes []FieldChange
}

// IsSubtotal reports whether the diff belongs to an aggregate line.
func (d ComparisonDiff) IsSubtotal() bool {
	return d.ProjectName == ""
}

// Stats counts what the engine saw while comparing.
type Stats struct {
	OldRows       int
	NewRows       int
	Unchanged     int
	DuplicateKeys int
}

// ComparisonResult is the fully partitioned outcome of one comparison.
type ComparisonResult struct {
	Added    []Row
	Removed  []Row
	Modified []ComparisonDiff
	Summary  string
	Stats    Stats
}

// HasChanges reports whether any partition is non-empty.
func (r *ComparisonResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0 || len(r.Modified) > 0
}

// WithSummary returns a copy of the result carrying the given summary text.
func (r *ComparisonResult) WithSummary(summary string) *ComparisonResult {
	cp := *r
	cp.Summary = summary
	return &cp
}
