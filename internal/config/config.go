// =============================================================================
// Sales Ledger Comparer - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. Every setting has a built-in default, so the tool runs
// without any configuration file at all.
//
// CONFIGURATION FILE (salesdiff.yaml):
//   - column labels used to locate the ledger headers
//   - the tracked fields compared between snapshots, in order
//   - CSV parsing settings
//   - AI summary settings
//   - report labels (sheet name, column headers, kind names)
//
// LOOKUP ORDER (performed by the CLI):
//   1. --config flag
//   2. ./salesdiff.yaml
//   3. ~/.salesdiff.yaml
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/columns"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/diff"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/report"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where reports are written when --report is given without a
	// directory component.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ReportFileFormat defines the generated report file name.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYY-MM-DD)
	//
	// Default: "業務異動報告_{date}.xlsx"
	ReportFileFormat string `yaml:"report_file_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "trace", "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// SNAPSHOT SETTINGS
	// =========================================================================

	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`

	// HeaderScanLimit is the number of leading rows searched for the header.
	// Default: 100
	HeaderScanLimit int `yaml:"header_scan_limit"`

	// Columns maps a field key (id, date, status, product, qty_pc, qty_kw,
	// project, customer) to the header label that identifies it. Labels are
	// matched ignoring whitespace, width and case. Missing keys keep their
	// default label.
	Columns map[string]string `yaml:"columns"`

	// CSVSettings contains settings for parsing CSV snapshots.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// =========================================================================
	// COMPARISON SETTINGS
	// =========================================================================

	// TrackedFields lists the compared fields, in report order. Only date,
	// status, product, qty_pc and qty_kw are allowed; entries may be
	// relabeled, reordered or omitted.
	// Default: date, status, product, qty_pc, qty_kw
	TrackedFields []TrackedField `yaml:"tracked_fields"`

	// EmptyPlaceholder replaces blank values in reported changes.
	// Default: "(empty)"
	EmptyPlaceholder string `yaml:"empty_placeholder"`

	// =========================================================================
	// COLLABORATORS
	// =========================================================================

	AI     AISettings     `yaml:"ai"`
	Report ReportSettings `yaml:"report"`
}

// TrackedField names one compared field and the label shown for it.
type TrackedField struct {
	Field string `yaml:"field"`
	Label string `yaml:"label"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "tab", "semicolon"
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// =============================================================================
// AI SETTINGS STRUCTURE
// =============================================================================

// AISettings configures the optional executive summary.
type AISettings struct {
	// APIKey for the Gemini API. Usually supplied through GEMINI_API_KEY.
	APIKey string `yaml:"api_key"`

	// Model is the Gemini model name.
	// Default: "gemini-3-flash-preview"
	Model string `yaml:"model"`

	// MaxItems caps the number of modified rows quoted in the prompt.
	// Default: 15
	MaxItems int `yaml:"max_items"`

	// Language is the language the summary is requested in.
	// Default: "Traditional Chinese (繁體中文)"
	Language string `yaml:"language"`

	// Timeout bounds the whole summary request, retries included.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// RetryMax is the number of HTTP retries on transient failures.
	// Default: 3
	RetryMax int `yaml:"retry_max"`
}

// =============================================================================
// REPORT SETTINGS STRUCTURE
// =============================================================================

// ReportSettings holds the texts written into exported reports.
// Empty values fall back to the report package defaults.
type ReportSettings struct {
	SheetName      string `yaml:"sheet_name"`
	KindHeader     string `yaml:"kind_header"`
	IDHeader       string `yaml:"id_header"`
	ProjectHeader  string `yaml:"project_header"`
	CustomerHeader string `yaml:"customer_header"`
	DetailsHeader  string `yaml:"details_header"`
	KindModified   string `yaml:"kind_modified"`
	KindAdded      string `yaml:"kind_added"`
	KindRemoved    string `yaml:"kind_removed"`
	AddedPrefix    string `yaml:"added_prefix"`
	RemovedMessage string `yaml:"removed_message"`

	// SubtotalLabel names rows without a project name in tables and prompts.
	// Default: "aggregate/subtotal row"
	SubtotalLabel string `yaml:"subtotal_label"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct, with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration document.
func Parse(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ReportFileFormat == "" {
		config.ReportFileFormat = "業務異動報告_{date}.xlsx"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.HeaderScanLimit == 0 {
		config.HeaderScanLimit = columns.DefaultScanLimit
	}
	if config.EmptyPlaceholder == "" {
		config.EmptyPlaceholder = types.DefaultEmptyPlaceholder
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}

	defaults := columns.DefaultLabels()
	if config.Columns == nil {
		config.Columns = make(map[string]string, len(defaults))
	}
	for field, label := range defaults {
		if _, ok := config.Columns[field.String()]; !ok {
			config.Columns[field.String()] = label
		}
	}

	if len(config.TrackedFields) == 0 {
		for _, tf := range diff.DefaultTracked() {
			config.TrackedFields = append(config.TrackedFields, TrackedField{
				Field: tf.Field.String(),
				Label: tf.Label,
			})
		}
	}

	// AI defaults.
	if config.AI.Model == "" {
		config.AI.Model = "gemini-3-flash-preview"
	}
	if config.AI.MaxItems == 0 {
		config.AI.MaxItems = 15
	}
	if config.AI.Language == "" {
		config.AI.Language = "Traditional Chinese (繁體中文)"
	}
	if config.AI.Timeout == 0 {
		config.AI.Timeout = 60 * time.Second
	}
	if config.AI.RetryMax == 0 {
		config.AI.RetryMax = 3
	}

	if config.Report.SubtotalLabel == "" {
		config.Report.SubtotalLabel = "aggregate/subtotal row"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	if config.HeaderScanLimit < 0 {
		return fmt.Errorf("header_scan_limit must not be negative, got %d", config.HeaderScanLimit)
	}

	for key := range config.Columns {
		if _, ok := types.ParseField(key); !ok {
			return fmt.Errorf("columns: unknown field %q", key)
		}
	}
	if strings.TrimSpace(config.Columns[types.FieldID.String()]) == "" {
		return fmt.Errorf("columns: the %q label must not be empty", types.FieldID)
	}

	seen := make(map[string]bool, len(config.TrackedFields))
	for i, tf := range config.TrackedFields {
		field, ok := types.ParseField(tf.Field)
		if !ok {
			return fmt.Errorf("tracked_fields[%d]: unknown field %q", i, tf.Field)
		}
		if !diff.Trackable(field) {
			return fmt.Errorf("tracked_fields[%d]: %q cannot be tracked (allowed: date, status, product, qty_pc, qty_kw)", i, tf.Field)
		}
		if seen[tf.Field] {
			return fmt.Errorf("tracked_fields[%d]: %q listed twice", i, tf.Field)
		}
		seen[tf.Field] = true
	}

	if config.AI.MaxItems < 0 {
		return fmt.Errorf("ai.max_items must not be negative, got %d", config.AI.MaxItems)
	}
	if config.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must not be negative")
	}

	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// ColumnLabels returns the header labels keyed by field.
func (c *MainConfig) ColumnLabels() columns.Labels {
	labels := make(columns.Labels, len(c.Columns))
	for key, label := range c.Columns {
		if field, ok := types.ParseField(key); ok {
			labels[field] = label
		}
	}
	return labels
}

// DiffOptions returns the comparison engine settings.
func (c *MainConfig) DiffOptions() diff.Options {
	tracked := make([]diff.TrackedField, 0, len(c.TrackedFields))
	for _, tf := range c.TrackedFields {
		field, ok := types.ParseField(tf.Field)
		if !ok {
			continue
		}
		label := tf.Label
		if label == "" {
			label = c.Columns[tf.Field]
		}
		tracked = append(tracked, diff.TrackedField{Field: field, Label: label})
	}

	return diff.Options{
		Tracked:          tracked,
		EmptyPlaceholder: c.EmptyPlaceholder,
	}
}

// ReportLabels returns the report texts, falling back to the defaults.
func (c *MainConfig) ReportLabels() report.Labels {
	labels := report.DefaultLabels()
	r := c.Report

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&labels.SheetName, r.SheetName)
	override(&labels.KindHeader, r.KindHeader)
	override(&labels.IDHeader, r.IDHeader)
	override(&labels.ProjectHeader, r.ProjectHeader)
	override(&labels.CustomerHeader, r.CustomerHeader)
	override(&labels.DetailsHeader, r.DetailsHeader)
	override(&labels.KindModified, r.KindModified)
	override(&labels.KindAdded, r.KindAdded)
	override(&labels.KindRemoved, r.KindRemoved)
	override(&labels.AddedPrefix, r.AddedPrefix)
	override(&labels.RemovedMessage, r.RemovedMessage)

	return labels
}
