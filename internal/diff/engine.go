// =============================================================================
// Sales Ledger Comparer - Diff Engine
// =============================================================================
//
// This module matches the rows of two snapshots by identity and partitions
// them into added, removed and modified rows.
//
// ALGORITHM:
//   1. Index the old rows by the normalized identity key.
//   2. Walk the new rows in order:
//        - key not in the index       -> added
//        - key in the index           -> compare the tracked fields
//            any field differs        -> modified
//            no field differs         -> unchanged (not reported)
//   3. Walk the old rows in order; every key never matched -> removed.
//
// TRACKED FIELDS:
//   Only the tracked fields are compared, in their configured order. A field
//   missing from either side's column map is skipped for that pair.
//
// DUPLICATE KEYS:
//   When one snapshot contains the same key twice, the first row wins and the
//   later ones are counted in Stats.DuplicateKeys and otherwise ignored, so
//   the partitions stay disjoint by identity.
//
// The engine does no I/O and keeps no state between calls; every Compare
// returns a freshly allocated result.
//
// =============================================================================

package diff

import (
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/normalize"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// TrackedField is one compared field together with the label used in changes.
type TrackedField struct {
	Field types.Field
	Label string
}

// DefaultTracked returns the ledger's tracked fields in comparison order.
func DefaultTracked() []TrackedField {
	return []TrackedField{
		{Field: types.FieldDate, Label: "日"},
		{Field: types.FieldStatus, Label: "狀態"},
		{Field: types.FieldProduct, Label: "產品"},
		{Field: types.FieldQtyPiece, Label: "Qty pc"},
		{Field: types.FieldQtyKW, Label: "Qty kW"},
	}
}

// Trackable reports whether f belongs to the fixed set of compared fields.
// The identifier, project and customer columns are never compared.
func Trackable(f types.Field) bool {
	switch f {
	case types.FieldDate, types.FieldStatus, types.FieldProduct, types.FieldQtyPiece, types.FieldQtyKW:
		return true
	}
	return false
}

// Options configures an Engine.
type Options struct {
	// Tracked lists the compared fields. Nil means DefaultTracked.
	// Fields that are not Trackable are dropped.
	Tracked []TrackedField

	// EmptyPlaceholder replaces blank values in a FieldChange.
	// Empty means types.DefaultEmptyPlaceholder.
	EmptyPlaceholder string
}

// Engine compares snapshots. The zero value is not usable; call New.
type Engine struct {
	tracked     []TrackedField
	placeholder string
}

// New creates an Engine from opts, filling in defaults.
func New(opts Options) *Engine {
	tracked := opts.Tracked
	if tracked == nil {
		tracked = DefaultTracked()
	}
	placeholder := opts.EmptyPlaceholder
	if placeholder == "" {
		placeholder = types.DefaultEmptyPlaceholder
	}

	kept := make([]TrackedField, 0, len(tracked))
	for _, tf := range tracked {
		if Trackable(tf.Field) {
			kept = append(kept, tf)
		}
	}

	return &Engine{
		tracked:     kept,
		placeholder: placeholder,
	}
}

// Tracked returns a copy of the engine's tracked fields.
func (e *Engine) Tracked() []TrackedField {
	return append([]TrackedField(nil), e.tracked...)
}

// =============================================================================
// COMPARISON
// =============================================================================

// Compare partitions newRows against oldRows.
//
// PARAMETERS:
//   - oldRows: The baseline snapshot, in sheet order.
//   - newRows: The updated snapshot, in sheet order.
//
// RETURNS:
//   - A new ComparisonResult. Added and Modified follow newRows order,
//     Removed follows oldRows order.
func (e *Engine) Compare(oldRows, newRows []types.Row) *types.ComparisonResult {
	result := &types.ComparisonResult{
		Added:    []types.Row{},
		Removed:  []types.Row{},
		Modified: []types.ComparisonDiff{},
		Stats: types.Stats{
			OldRows: len(oldRows),
			NewRows: len(newRows),
		},
	}

	oldIndex := make(map[string]int, len(oldRows))
	oldKeys := make([]string, len(oldRows))
	for i, row := range oldRows {
		key := normalize.Key(row.ID)
		oldKeys[i] = key
		if key == "" {
			continue
		}
		if _, dup := oldIndex[key]; dup {
			result.Stats.DuplicateKeys++
			continue
		}
		oldIndex[key] = i
	}

	matched := make(map[string]bool, len(oldIndex))
	seenNew := make(map[string]bool, len(newRows))

	for _, newRow := range newRows {
		key := normalize.Key(newRow.ID)
		if key == "" {
			continue
		}
		if seenNew[key] {
			result.Stats.DuplicateKeys++
			continue
		}
		seenNew[key] = true

		idx, ok := oldIndex[key]
		if !ok {
			result.Added = append(result.Added, newRow)
			continue
		}
		matched[key] = true

		oldRow := oldRows[idx]
		changes := e.compareFields(oldRow, newRow)
		if len(changes) == 0 {
			result.Stats.Unchanged++
			continue
		}

		result.Modified = append(result.Modified, types.ComparisonDiff{
			Key:          key,
			ID:           newRow.ID,
			ProjectName:  newRow.ProjectName,
			Customer:     newRow.Customer,
			OldRowNumber: oldRow.Number,
			NewRowNumber: newRow.Number,
			Changes:      changes,
		})
	}

	for i, oldRow := range oldRows {
		key := oldKeys[i]
		if key == "" || matched[key] || oldIndex[key] != i {
			continue
		}
		result.Removed = append(result.Removed, oldRow)
	}

	return result
}

// compareFields returns the tracked fields whose normalized values differ.
func (e *Engine) compareFields(oldRow, newRow types.Row) []types.FieldChange {
	var changes []types.FieldChange

	for _, tf := range e.tracked {
		oldCell, okOld := oldRow.Field(tf.Field)
		newCell, okNew := newRow.Field(tf.Field)
		if !okOld || !okNew {
			continue
		}

		// Changes carry the same normalized forms that were compared.
		oldValue, newValue := normalize.ForComparison(oldCell), normalize.ForComparison(newCell)
		if oldValue == newValue {
			continue
		}

		changes = append(changes, types.FieldChange{
			Field:    tf.Field,
			Column:   tf.Label,
			OldValue: e.value(oldValue),
			NewValue: e.value(newValue),
		})
	}

	return changes
}

// value substitutes the placeholder for an empty normalized value.
func (e *Engine) value(normalized string) string {
	if normalized == "" {
		return e.placeholder
	}
	return normalized
}
