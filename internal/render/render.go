// =============================================================================
// Sales Ledger Comparer - Terminal Rendering
// =============================================================================
//
// This module prints comparison results, snapshot layouts and validation
// findings as pterm tables. All output goes to the Renderer's writer, so the
// same code serves stdout and tests.
//
// =============================================================================

package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/columns"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/report"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/snapshot"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/validation"
)

// SubtotalLabel is shown instead of the empty project name of subtotal rows.
const SubtotalLabel = "aggregate/subtotal row"

// Renderer writes tables to w.
type Renderer struct {
	w             io.Writer
	subtotalLabel string
}

// New creates a Renderer. An empty subtotalLabel means SubtotalLabel.
func New(w io.Writer, subtotalLabel string) *Renderer {
	if subtotalLabel == "" {
		subtotalLabel = SubtotalLabel
	}
	return &Renderer{w: w, subtotalLabel: subtotalLabel}
}

// =============================================================================
// COMPARISON RESULT
// =============================================================================

// Stats prints the partition counts.
func (r *Renderer) Stats(result *types.ComparisonResult) {
	fmt.Fprintf(r.w, "%s  %s  %s  %s\n",
		pterm.FgYellow.Sprintf("Modified: %d", len(result.Modified)),
		pterm.FgGreen.Sprintf("Added: %d", len(result.Added)),
		pterm.FgRed.Sprintf("Removed: %d", len(result.Removed)),
		pterm.FgGray.Sprintf("Unchanged: %d", result.Stats.Unchanged),
	)
}

// Result prints the counts, the three partitions and the summary, if any.
func (r *Renderer) Result(result *types.ComparisonResult) error {
	r.Stats(result)

	if !result.HasChanges() {
		fmt.Fprintln(r.w, pterm.FgGreen.Sprint("No differences found."))
		return nil
	}

	if len(result.Modified) > 0 {
		data := pterm.TableData{{"Row", "ID", "Project", "Customer", "Changes"}}
		for _, d := range result.Modified {
			data = append(data, []string{
				strconv.Itoa(d.NewRowNumber),
				d.ID,
				r.project(d.ProjectName),
				d.Customer,
				report.ChangeDescription(d.Changes),
			})
		}
		if err := r.table(pterm.FgYellow.Sprint("Modified"), data); err != nil {
			return err
		}
	}

	if len(result.Added) > 0 {
		if err := r.table(pterm.FgGreen.Sprint("Added"), r.rowTable(result.Added)); err != nil {
			return err
		}
	}

	if len(result.Removed) > 0 {
		if err := r.table(pterm.FgRed.Sprint("Removed"), r.rowTable(result.Removed)); err != nil {
			return err
		}
	}

	if result.Summary != "" {
		fmt.Fprintln(r.w, pterm.DefaultBox.WithTitle("Summary").Sprint(result.Summary))
	}

	return nil
}

func (r *Renderer) rowTable(rows []types.Row) pterm.TableData {
	data := pterm.TableData{{"Row", "ID", "Project", "Customer"}}
	for _, row := range rows {
		data = append(data, []string{
			strconv.Itoa(row.Number),
			row.ID,
			r.project(row.ProjectName),
			row.Customer,
		})
	}
	return data
}

func (r *Renderer) project(name string) string {
	if name == "" {
		return pterm.Italic.Sprint(r.subtotalLabel)
	}
	return name
}

func (r *Renderer) table(title string, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintf(r.w, "\n%s (%d)\n%s\n", title, len(data)-1, out)
	return nil
}

// =============================================================================
// SNAPSHOT LAYOUT
// =============================================================================

// Snapshot prints where each field was found in snap.
func (r *Renderer) Snapshot(snap *snapshot.Snapshot, labels columns.Labels) error {
	source := snap.Path
	if snap.Sheet != "" {
		source += " [" + snap.Sheet + "]"
	}
	fmt.Fprintf(r.w, "%s\nHeader on row %d, %d data rows, %d skipped\n",
		pterm.Bold.Sprint(source), snap.HeaderRow, len(snap.Rows), snap.Discarded)

	data := pterm.TableData{{"Field", "Label", "Column", "Header"}}
	for _, field := range types.Fields {
		column, header := "-", pterm.FgRed.Sprint("not found")
		if idx, ok := snap.Columns.Index(field); ok {
			column = columnName(idx)
			header = snap.Header[idx]
		}
		data = append(data, []string{field.String(), labels[field], column, header})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintln(r.w, out)
	return nil
}

// columnName converts a 0-based index to a spreadsheet column name.
func columnName(idx int) string {
	name := ""
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}

// =============================================================================
// VALIDATION
// =============================================================================

// Warnings prints validation findings, one per line.
func (r *Renderer) Warnings(warnings []*validation.Warning) {
	for _, w := range warnings {
		line := w.Error()
		if w.Severity == validation.SeverityWarning {
			line = pterm.FgYellow.Sprint(line)
		} else {
			line = pterm.FgGray.Sprint(line)
		}
		fmt.Fprintln(r.w, line)
	}
}
