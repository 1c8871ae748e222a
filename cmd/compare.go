// =============================================================================
// Sales Ledger Comparer - Compare Command
// =============================================================================
//
// This file defines the 'compare' command, the main command of the tool. It
// compares an updated ledger export against a baseline export.
//
// COMMAND USAGE:
//   salesdiff compare BASELINE UPDATED [flags]
//
// FLAGS:
//   --sheet      : Worksheet to read from XLSX files (default: first sheet)
//   --report     : Write an XLSX report (optionally to the given path)
//   --csv        : Write a CSV report to the given path ("-" for stdout)
//   --summary    : Request an AI executive summary
//   --no-table   : Do not print the difference tables
//   --exit-code  : Exit with status 1 when differences are found
//
// PROCESSING PIPELINE:
//   1. Load and validate both snapshots
//   2. Compare the rows by identifier
//   3. Optionally summarize the result with Gemini
//   4. Print the result
//   5. Write the requested reports
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/comparator"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/config"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/render"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/report"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/summary"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
	"github.com/navygreg-tw/deliver-schedule--comparison/pkg/utils"
)

// autoReport is the --report value used when the flag is given without a
// path. The report name is then generated from report_file_format.
const autoReport = "auto"

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// compareOptions holds the flags of one compare invocation.
type compareOptions struct {
	sheet    string
	report   string
	csv      string
	summary  bool
	noTable  bool
	exitCode bool
	progress bool
}

var compareFlags compareOptions

// =============================================================================
// COMPARE COMMAND DEFINITION
// =============================================================================

var compareCmd = &cobra.Command{
	Use:   "compare BASELINE UPDATED",
	Short: "Compare an updated ledger export against a baseline",
	Long: `The compare command loads the baseline and the updated ledger (XLSX or CSV),
locates the header row in each, matches the rows by identifier and reports:

  - Modified rows: present in both files with at least one tracked field changed
  - Added rows:    present only in the updated file
  - Removed rows:  present only in the baseline file

Rows without a project name are aggregate/subtotal rows; they are compared like
any other row and labeled in the output.

A report can be exported as XLSX (--report) or CSV (--csv). With --summary, a
short executive summary is requested from Gemini (requires GEMINI_API_KEY); a
failing summary never fails the comparison.`,

	Args: cobra.ExactArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := compareFlags
		opts.progress = opts.csv != "-"
		return runCompare(ctx, cmd.OutOrStdout(), mainConfig, opts, args[0], args[1])
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(compareCmd)

	flags := compareCmd.Flags()
	flags.StringVar(&compareFlags.sheet, "sheet", "",
		"Worksheet to read from XLSX files (default: first sheet)")
	flags.StringVar(&compareFlags.report, "report", "",
		"Write an XLSX report; without a value the name comes from report_file_format")
	flags.Lookup("report").NoOptDefVal = autoReport
	flags.StringVar(&compareFlags.csv, "csv", "",
		`Write a CSV report to the given path ("-" for stdout)`)
	flags.BoolVar(&compareFlags.summary, "summary", false,
		"Request an AI executive summary (requires GEMINI_API_KEY)")
	flags.BoolVar(&compareFlags.noTable, "no-table", false,
		"Do not print the difference tables")
	flags.BoolVar(&compareFlags.exitCode, "exit-code", false,
		"Exit with status 1 when differences are found")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runCompare executes one comparison and writes every requested output.
func runCompare(ctx context.Context, out io.Writer, cfg *config.MainConfig, opts compareOptions, baseline, updated string) error {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.sheet != "" {
		c := *cfg
		c.Sheet = opts.sheet
		cfg = &c
	}

	// =========================================================================
	// STEP 1: COMPARE
	// =========================================================================

	var spinner *pterm.SpinnerPrinter
	if opts.progress {
		spinner, _ = pterm.DefaultSpinner.
			WithStyle(pterm.NewStyle(pterm.FgCyan)).
			WithDelay(100 * time.Millisecond).
			WithRemoveWhenDone(true).
			Start("Comparing ledgers...")
	}

	result, err := comparator.New(cfg, utils.Log).Run(ctx, baseline, updated)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	comparison := result.Comparison

	// =========================================================================
	// STEP 2: SUMMARY
	// =========================================================================

	if opts.summary {
		comparison = summarize(ctx, cfg, comparison)
	}

	// =========================================================================
	// STEP 3: OUTPUT
	// =========================================================================

	// The CSV report owns stdout when it is written there.
	renderer := render.New(out, cfg.Report.SubtotalLabel)
	switch {
	case opts.csv == "-":
	case opts.noTable:
		renderer.Stats(comparison)
		if comparison.Summary != "" {
			fmt.Fprintln(out, comparison.Summary)
		}
	default:
		if err := renderer.Result(comparison); err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 4: REPORTS
	// =========================================================================

	labels := cfg.ReportLabels()
	records := report.Records(comparison, labels)

	if opts.report != "" {
		requested := opts.report
		if requested == autoReport {
			requested = ""
		}
		path, err := utils.NewFileManager(cfg.OutputDir).ReportPath(requested, cfg.ReportFileFormat)
		if err != nil {
			return err
		}
		if err := report.WriteXLSX(path, records, labels); err != nil {
			return err
		}
		utils.Log.Infof("Report written to %s (%d records)", path, len(records))
	}

	if opts.csv != "" {
		if err := writeCSVReport(out, opts.csv, records, labels); err != nil {
			return err
		}
	}

	if opts.exitCode && comparison.HasChanges() {
		return errDifferences
	}
	return nil
}

// summarize attaches an AI summary to comparison. Failures are logged and
// leave the comparison unchanged.
func summarize(ctx context.Context, cfg *config.MainConfig, comparison *types.ComparisonResult) *types.ComparisonResult {
	ctx, cancel := context.WithTimeout(ctx, cfg.AI.Timeout)
	defer cancel()

	summarizer := summary.New(
		summary.GeminiFactory(summary.GeminiConfig{
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			RetryMax: cfg.AI.RetryMax,
			Log:      utils.Log,
		}),
		summary.Options{
			MaxItems:      cfg.AI.MaxItems,
			Language:      cfg.AI.Language,
			SubtotalLabel: cfg.Report.SubtotalLabel,
		},
	)

	text, err := summarizer.Summarize(ctx, comparison)
	switch {
	case errors.Is(err, summary.ErrNoChanges):
		utils.Log.Debug("No changes, summary skipped")
		return comparison
	case err != nil:
		utils.Log.Warnf("AI summary unavailable: %v", err)
		return comparison
	}
	return comparison.WithSummary(text)
}

// writeCSVReport writes the CSV report to path, or to out when path is "-".
func writeCSVReport(out io.Writer, path string, records []report.Record, labels report.Labels) error {
	if path == "-" {
		return report.WriteCSV(out, records, labels)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}
	if err := report.WriteCSV(f, records, labels); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close CSV report: %w", err)
	}
	utils.Log.Infof("CSV report written to %s (%d records)", path, len(records))
	return nil
}
