// =============================================================================
// Sales Ledger Comparer - Main Entry Point
// =============================================================================
//
// USAGE:
//   salesdiff compare BASELINE UPDATED  - Compare two ledger snapshots
//   salesdiff inspect FILE              - Show how a ledger file is read
//   salesdiff version                   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Snapshot loading, comparison, reporting
//   - pkg/       : Shared utilities (logging, file naming, fingerprints)
//
// =============================================================================

package main

import (
	"github.com/navygreg-tw/deliver-schedule--comparison/cmd"
)

func main() {
	cmd.Execute()
}
