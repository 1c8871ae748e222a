// =============================================================================
// Sales Ledger Comparer - Report Projection
// =============================================================================
//
// This module flattens a ComparisonResult into report records: one record per
// diff entry, never one per field. Records are ordered modified, added,
// removed, each partition keeping the engine's order.
//
// DETAILS COLUMN:
//   | Kind     | Details                                              |
//   |----------|------------------------------------------------------|
//   | modified | [日]: 2026/01/01 -> 2026/02/01 ; [狀態]: Open -> Won  |
//   | added    | 新增資料：[日: 2026/03/01] [狀態: Open] ...           |
//   | removed  | 此項次已從更新檔案中刪除                               |
//
// =============================================================================

package report

import (
	"fmt"
	"strings"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/diff"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/normalize"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// Kind classifies a record.
type Kind int

const (
	KindModified Kind = iota
	KindAdded
	KindRemoved
)

// Record is one row of an exported report.
type Record struct {
	Kind        Kind
	KindLabel   string
	ID          string
	ProjectName string
	Customer    string
	Details     string
}

// Labels holds every text written into a report.
type Labels struct {
	SheetName string

	KindHeader     string
	IDHeader       string
	ProjectHeader  string
	CustomerHeader string
	DetailsHeader  string

	KindModified string
	KindAdded    string
	KindRemoved  string

	// AddedPrefix starts the details of an added row.
	AddedPrefix string

	// AddedFields are listed, when present, in the details of an added row.
	AddedFields []diff.TrackedField

	RemovedMessage string
}

// DefaultLabels returns the Traditional Chinese report texts.
func DefaultLabels() Labels {
	return Labels{
		SheetName:      "業務異動報告",
		KindHeader:     "狀態類型",
		IDHeader:       "編號",
		ProjectHeader:  "案名",
		CustomerHeader: "客戶",
		DetailsHeader:  "變更明細",
		KindModified:   "內容異動",
		KindAdded:      "全新增項",
		KindRemoved:    "已移除項",
		AddedPrefix:    "新增資料：",
		AddedFields:    diff.DefaultTracked()[:4],
		RemovedMessage: "此項次已從更新檔案中刪除",
	}
}

// Header returns the report column headers in order.
func (l Labels) Header() []string {
	return []string{l.KindHeader, l.IDHeader, l.ProjectHeader, l.CustomerHeader, l.DetailsHeader}
}

// =============================================================================
// PROJECTION
// =============================================================================

// Records projects result into report records.
func Records(result *types.ComparisonResult, labels Labels) []Record {
	records := make([]Record, 0, len(result.Modified)+len(result.Added)+len(result.Removed))

	for _, d := range result.Modified {
		records = append(records, Record{
			Kind:        KindModified,
			KindLabel:   labels.KindModified,
			ID:          d.ID,
			ProjectName: d.ProjectName,
			Customer:    d.Customer,
			Details:     ChangeDescription(d.Changes),
		})
	}

	for _, row := range result.Added {
		records = append(records, Record{
			Kind:        KindAdded,
			KindLabel:   labels.KindAdded,
			ID:          row.ID,
			ProjectName: row.ProjectName,
			Customer:    row.Customer,
			Details:     addedDescription(row, labels),
		})
	}

	for _, row := range result.Removed {
		records = append(records, Record{
			Kind:        KindRemoved,
			KindLabel:   labels.KindRemoved,
			ID:          row.ID,
			ProjectName: row.ProjectName,
			Customer:    row.Customer,
			Details:     labels.RemovedMessage,
		})
	}

	return records
}

// ChangeDescription renders changes as "[field]: old -> new" joined by " ; ".
func ChangeDescription(changes []types.FieldChange) string {
	parts := make([]string, len(changes))
	for i, c := range changes {
		parts[i] = fmt.Sprintf("[%s]: %s -> %s", c.Column, c.OldValue, c.NewValue)
	}
	return strings.Join(parts, " ; ")
}

func addedDescription(row types.Row, labels Labels) string {
	var b strings.Builder
	b.WriteString(labels.AddedPrefix)

	first := true
	for _, tf := range labels.AddedFields {
		cell, ok := row.Field(tf.Field)
		if !ok {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&b, "[%s: %s]", tf.Label, normalize.Display(cell))
	}

	return b.String()
}

// =============================================================================
// RECORD METHODS
// =============================================================================

// Values returns the record as report cells, in header order.
func (r Record) Values() []string {
	return []string{r.KindLabel, r.ID, r.ProjectName, r.Customer, r.Details}
}
