// =============================================================================
// Sales Ledger Comparer - Snapshot Validation
// =============================================================================
//
// This module inspects snapshots for conditions the diff engine tolerates
// silently but the user should know about:
//   - Tracked columns that could not be located (the field is skipped)
//   - Duplicate identifiers (only the first row takes part in matching)
//   - Rows dropped for lacking an identifier
//   - Layout drift between the baseline and the updated file
//   - Comparing a file with an identical copy of itself
//
// ERROR HANDLING:
//   - Findings are collected, never returned as errors
//   - Each finding carries its file, field and row for troubleshooting
//   - Nothing here stops a comparison; header failures are reported by the
//     snapshot loader before validation runs
//
// =============================================================================

package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/diff"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/normalize"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/snapshot"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// =============================================================================
// WARNING TYPES
// =============================================================================

// Severity grades a finding.
type Severity string

const (
	// SeverityWarning may change how the result should be read.
	SeverityWarning Severity = "warning"

	// SeverityInfo is context only.
	SeverityInfo Severity = "info"
)

// Kind identifies the check that produced a finding.
type Kind string

const (
	KindMissingColumn  Kind = "missing_column"
	KindDuplicateKey   Kind = "duplicate_key"
	KindDiscardedRows  Kind = "discarded_rows"
	KindNoRows         Kind = "no_rows"
	KindLayoutDrift    Kind = "layout_drift"
	KindIdenticalInput Kind = "identical_input"
)

// Warning represents a single validation finding.
type Warning struct {
	Severity Severity
	Kind     Kind

	// File is the base name of the snapshot the finding belongs to; empty for
	// findings about the pair.
	File string

	// Field is the affected field label, if any.
	Field string

	// RowNumber is the 1-based sheet row, or 0 when not row specific.
	RowNumber int

	Message string
}

// Error implements the error interface.
func (w *Warning) Error() string {
	var loc []string
	if w.File != "" {
		loc = append(loc, w.File)
	}
	if w.RowNumber > 0 {
		loc = append(loc, fmt.Sprintf("row %d", w.RowNumber))
	}
	if w.Field != "" {
		loc = append(loc, fmt.Sprintf("field '%s'", w.Field))
	}

	prefix := fmt.Sprintf("[%s]", strings.ToUpper(string(w.Severity)))
	if len(loc) == 0 {
		return prefix + " " + w.Message
	}
	return fmt.Sprintf("%s %s: %s", prefix, strings.Join(loc, ", "), w.Message)
}

// =============================================================================
// SINGLE SNAPSHOT CHECKS
// =============================================================================

// Inspect checks one snapshot.
//
// PARAMETERS:
//   - snap: The loaded snapshot.
//   - tracked: The compared fields.
//
// RETURNS:
//   - The findings, in check order. Duplicates follow sheet order.
func Inspect(snap *snapshot.Snapshot, tracked []diff.TrackedField) []*Warning {
	file := filepath.Base(snap.Path)
	var warnings []*Warning

	for _, tf := range tracked {
		if snap.Columns.Has(tf.Field) {
			continue
		}
		warnings = append(warnings, &Warning{
			Severity: SeverityWarning,
			Kind:     KindMissingColumn,
			File:     file,
			Field:    tf.Label,
			Message:  "column not found in header; field is not compared",
		})
	}

	if !snap.Columns.Has(types.FieldProject) {
		warnings = append(warnings, &Warning{
			Severity: SeverityInfo,
			Kind:     KindMissingColumn,
			File:     file,
			Field:    types.FieldProject.String(),
			Message:  "project column not found; every row is shown as a subtotal row",
		})
	}

	if len(snap.Rows) == 0 {
		warnings = append(warnings, &Warning{
			Severity: SeverityWarning,
			Kind:     KindNoRows,
			File:     file,
			Message:  fmt.Sprintf("no data rows below the header on row %d", snap.HeaderRow),
		})
	}

	if snap.Discarded > 0 {
		warnings = append(warnings, &Warning{
			Severity: SeverityInfo,
			Kind:     KindDiscardedRows,
			File:     file,
			Message:  fmt.Sprintf("%d row(s) without an identifier were skipped", snap.Discarded),
		})
	}

	warnings = append(warnings, duplicateKeys(file, snap.Rows)...)

	return warnings
}

// duplicateKeys reports every row whose identity key was already used.
func duplicateKeys(file string, rows []types.Row) []*Warning {
	var warnings []*Warning
	first := make(map[string]int, len(rows))

	for _, row := range rows {
		key := normalize.Key(row.ID)
		if prev, dup := first[key]; dup {
			warnings = append(warnings, &Warning{
				Severity:  SeverityWarning,
				Kind:      KindDuplicateKey,
				File:      file,
				RowNumber: row.Number,
				Message:   fmt.Sprintf("identifier %q already used on row %d; this row is ignored", row.ID, prev),
			})
			continue
		}
		first[key] = row.Number
	}

	return warnings
}

// =============================================================================
// PAIR CHECKS
// =============================================================================

// ComparePair checks the baseline and updated snapshots against each other.
func ComparePair(baseline, updated *snapshot.Snapshot, tracked []diff.TrackedField) []*Warning {
	var warnings []*Warning

	if baseline.Fingerprint != 0 && baseline.Fingerprint == updated.Fingerprint {
		warnings = append(warnings, &Warning{
			Severity: SeverityWarning,
			Kind:     KindIdenticalInput,
			Message: fmt.Sprintf("%s and %s have identical content",
				filepath.Base(baseline.Path), filepath.Base(updated.Path)),
		})
	}

	for _, tf := range tracked {
		oldIdx, inOld := baseline.Columns.Index(tf.Field)
		newIdx, inNew := updated.Columns.Index(tf.Field)

		switch {
		case inOld != inNew:
			side := "updated"
			if !inOld {
				side = "baseline"
			}
			warnings = append(warnings, &Warning{
				Severity: SeverityWarning,
				Kind:     KindLayoutDrift,
				Field:    tf.Label,
				Message:  fmt.Sprintf("column missing from the %s file; field is not compared", side),
			})
		case inOld && oldIdx != newIdx:
			warnings = append(warnings, &Warning{
				Severity: SeverityInfo,
				Kind:     KindLayoutDrift,
				Field:    tf.Label,
				Message:  fmt.Sprintf("column moved from position %d to %d", oldIdx+1, newIdx+1),
			})
		}
	}

	return warnings
}

// =============================================================================
// WARNING FORMATTING
// =============================================================================

// Count returns the number of findings with the given severity.
func Count(warnings []*Warning, severity Severity) int {
	n := 0
	for _, w := range warnings {
		if w.Severity == severity {
			n++
		}
	}
	return n
}

// FormatWarnings formats findings for display or logging.
//
// RETURNS:
//   - A numbered list, or a one-line note when there are no findings.
func FormatWarnings(warnings []*Warning) string {
	if len(warnings) == 0 {
		return "No validation warnings."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation found %d issue(s):\n\n", len(warnings)))

	for i, w := range warnings {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, w.Error()))
	}

	return builder.String()
}
