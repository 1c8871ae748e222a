// =============================================================================
// Sales Ledger Comparer - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command. It loads one ledger file and shows
// how it was read: the header row, where each field was found, and any
// validation findings. Use it when a comparison reports missing columns.
//
// COMMAND USAGE:
//   salesdiff inspect FILE [flags]
//
// FLAGS:
//   --sheet   : Worksheet to read (default: first sheet)
//   --sheets  : Only list the worksheets of an XLSX file
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/comparator"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/config"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/render"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/xlsxparser"
	"github.com/navygreg-tw/deliver-schedule--comparison/pkg/utils"
)

var (
	inspectSheet      string
	inspectListSheets bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show how a ledger file is read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectListSheets {
			return listSheets(cmd.OutOrStdout(), args[0])
		}
		return runInspect(cmd.Context(), cmd.OutOrStdout(), mainConfig, inspectSheet, args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "Worksheet to read (default: first sheet)")
	inspectCmd.Flags().BoolVar(&inspectListSheets, "sheets", false, "Only list the worksheets of an XLSX file")
}

// runInspect loads path and prints its layout and validation findings.
func runInspect(ctx context.Context, out io.Writer, cfg *config.MainConfig, sheet, path string) error {
	if cfg == nil {
		cfg = config.Default()
	}
	if sheet != "" {
		c := *cfg
		c.Sheet = sheet
		cfg = &c
	}

	snap, warnings, err := comparator.New(cfg, utils.Log).Inspect(ctx, path)
	if err != nil {
		return err
	}

	renderer := render.New(out, cfg.Report.SubtotalLabel)
	if err := renderer.Snapshot(snap, cfg.ColumnLabels()); err != nil {
		return err
	}
	renderer.Warnings(warnings)
	return nil
}

func listSheets(out io.Writer, path string) error {
	sheets, err := xlsxparser.ListSheets(path)
	if err != nil {
		return err
	}
	for i, name := range sheets {
		fmt.Fprintf(out, "%d. %s\n", i+1, name)
	}
	return nil
}
