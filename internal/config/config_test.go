package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/diff"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.HeaderScanLimit)
	assert.Equal(t, ",", cfg.CSVSettings.Delimiter)
	assert.Equal(t, "(empty)", cfg.EmptyPlaceholder)
	assert.Equal(t, "編號", cfg.Columns["id"])
	assert.Len(t, cfg.TrackedFields, 5)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 15, cfg.AI.MaxItems)
	assert.Equal(t, "aggregate/subtotal row", cfg.Report.SubtotalLabel)

	require.NoError(t, validateMainConfig(cfg))
	assert.Equal(t, diff.DefaultTracked(), cfg.DiffOptions().Tracked)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
sheet: 出貨排程
columns:
  id: 項次
  customer: 客戶名稱
csv_settings:
  delimiter: semicolon
tracked_fields:
  - field: status
  - field: qty_kw
    label: kW
empty_placeholder: "-"
ai:
  timeout: 30s
  max_items: 5
report:
  kind_added: Added
  subtotal_label: 小計
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "出貨排程", cfg.Sheet)
	assert.Equal(t, "semicolon", cfg.CSVSettings.Delimiter)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 5, cfg.AI.MaxItems)

	labels := cfg.ColumnLabels()
	assert.Equal(t, "項次", labels[types.FieldID])
	assert.Equal(t, "客戶名稱", labels[types.FieldCustomer])
	assert.Equal(t, "狀態", labels[types.FieldStatus], "unset columns keep their default label")

	opts := cfg.DiffOptions()
	assert.Equal(t, []diff.TrackedField{
		{Field: types.FieldStatus, Label: "狀態"},
		{Field: types.FieldQtyKW, Label: "kW"},
	}, opts.Tracked)
	assert.Equal(t, "-", opts.EmptyPlaceholder)

	report := cfg.ReportLabels()
	assert.Equal(t, "Added", report.KindAdded)
	assert.Equal(t, "內容異動", report.KindModified)
	assert.Equal(t, "小計", cfg.Report.SubtotalLabel)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"log level", "log_level: loud", "unknown log_level"},
		{"scan limit", "header_scan_limit: -1", "header_scan_limit"},
		{"unknown column", "columns:\n  owner: 負責人", `unknown field "owner"`},
		{"empty id label", "columns:\n  id: \" \"", "must not be empty"},
		{"unknown tracked", "tracked_fields:\n  - field: price", `unknown field "price"`},
		{"tracked id", "tracked_fields:\n  - field: id", `"id" cannot be tracked`},
		{"tracked project", "tracked_fields:\n  - field: project\n  - field: customer", `"project" cannot be tracked`},
		{"tracked customer", "tracked_fields:\n  - field: status\n  - field: customer", `"customer" cannot be tracked`},
		{"tracked twice", "tracked_fields:\n  - field: date\n  - field: date", "listed twice"},
		{"max items", "ai:\n  max_items: -2", "ai.max_items"},
		{"malformed", "columns: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMainConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "salesdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: reports\n"), 0644))

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "reports", cfg.OutputDir)

	_, err = LoadMainConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
