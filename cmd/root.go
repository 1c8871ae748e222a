// =============================================================================
// Sales Ledger Comparer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesdiff)
//   ├── compareCmd (salesdiff compare BASELINE UPDATED)
//   ├── inspectCmd (salesdiff inspect FILE)
//   └── versionCmd (salesdiff version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Locates and loads the YAML configuration (or uses the defaults)
//   2. Overlays flags and environment variables through viper
//   3. Sets the log level
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/config"
	"github.com/navygreg-tw/deliver-schedule--comparison/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path given with --config.
var cfgFile string

// mainConfig is loaded once by the root command's pre-run hook.
var mainConfig *config.MainConfig

// errDifferences makes the process exit with status 1 without printing an
// error; see compare --exit-code.
var errDifferences = errors.New("differences found")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "salesdiff",
	Short: "Compare two sales ledger snapshots and report what changed",
	Long: `salesdiff compares a baseline and an updated export of the sales ledger
(XLSX or CSV) and reports the rows that were added, removed or modified.

Rows are matched by their identifier (編號). Only the tracked fields are
compared (日, 狀態, 產品, Qty pc, Qty kW by default), and whitespace,
invisible characters and date-serial encoding never count as changes.

Example Usage:
  salesdiff compare old.xlsx new.xlsx             # Print the differences
  salesdiff compare old.xlsx new.xlsx --report    # Also write an XLSX report
  salesdiff compare old.xlsx new.xlsx --summary   # Add an AI executive summary
  salesdiff inspect new.xlsx                      # Show how the header was read`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := utils.SetLogLevel(cfg.LogLevel); err != nil {
			return err
		}
		mainConfig = cfg
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDifferences) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./salesdiff.yaml, then $HOME/.salesdiff.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "",
		"Set log level. Available: trace, debug, info, warn, error")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("loglevel"))
	viper.BindEnv("ai.api_key", "GEMINI_API_KEY")
	viper.SetEnvPrefix("SALESDIFF")
	viper.AutomaticEnv()
}

// loadConfig loads the configuration file and overlays flags and environment.
func loadConfig() (*config.MainConfig, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if path != "" {
		cfg, err = config.LoadMainConfig(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		utils.Log.Debugf("Using config file: %s", path)
	}

	if level := viper.GetString("log_level"); level != "" {
		cfg.LogLevel = level
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = viper.GetString("ai.api_key")
	}

	return cfg, nil
}

// configPath returns the configuration file to load, or "" for the defaults.
func configPath() (string, error) {
	if cfgFile != "" {
		if !utils.FileExists(cfgFile) {
			return "", fmt.Errorf("config file %s not found", cfgFile)
		}
		return cfgFile, nil
	}

	candidates := []string{"salesdiff.yaml"}
	if home, err := homedir.Expand("~/.salesdiff.yaml"); err == nil {
		candidates = append(candidates, home)
	}

	for _, candidate := range candidates {
		if utils.FileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}
