// =============================================================================
// Sales Ledger Comparer - Comparison Pipeline
// =============================================================================
//
// This module orchestrates one comparison run, from the two input files to a
// validated, partitioned result.
//
// PIPELINE:
//   1. Load the baseline and updated snapshots concurrently
//   2. Validate each snapshot and the pair
//   3. Run the diff engine
//   4. Record statistics and timing
//
// CONCURRENCY:
//   Only the two file loads run in parallel. The first load error cancels the
//   other one. The diff engine itself runs synchronously once both snapshots
//   are available, and every run builds its own result.
//
// =============================================================================

package comparator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/config"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/diff"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/snapshot"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/validation"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one comparison run.
type Result struct {
	// RunID identifies the run in logs and generated file names.
	RunID string

	// Baseline and Updated are the loaded snapshots.
	Baseline *snapshot.Snapshot
	Updated  *snapshot.Snapshot

	// Comparison is the partitioned diff.
	Comparison *types.ComparisonResult

	// Warnings are the validation findings for both files and the pair.
	Warnings []*validation.Warning

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// =============================================================================
// COMPARATOR STRUCTURE
// =============================================================================

// Logger is the logging interface used by the comparator.
// *logrus.Logger and logrus.FieldLogger satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Comparator runs comparisons with a fixed configuration.
type Comparator struct {
	loader  *snapshot.Loader
	engine  *diff.Engine
	tracked []diff.TrackedField
	logger  Logger
}

// New creates a Comparator from the main configuration.
//
// PARAMETERS:
//   - cfg: The main configuration (column labels, tracked fields, CSV settings).
//   - logger: Receives progress and validation messages.
func New(cfg *config.MainConfig, logger Logger) *Comparator {
	engine := diff.New(cfg.DiffOptions())

	loader := snapshot.NewLoader(cfg)
	if fl, ok := logger.(logrus.FieldLogger); ok {
		loader.Log = fl
	}

	return &Comparator{
		loader:  loader,
		engine:  engine,
		tracked: engine.Tracked(),
		logger:  logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run compares the updated file against the baseline file.
//
// RETURNS:
//   - The Result of the run.
//   - An error if either file cannot be loaded; a missing header is fatal
//     and wraps columns.ErrHeaderNotFound.
func (c *Comparator) Run(ctx context.Context, baselinePath, updatedPath string) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.New().String()}

	c.logger.Infof("Comparing %s -> %s (run %s)", filepath.Base(baselinePath), filepath.Base(updatedPath), result.RunID)

	// =========================================================================
	// STEP 1: LOAD SNAPSHOTS
	// =========================================================================

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := c.loader.Load(gctx, baselinePath)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		result.Baseline = snap
		return nil
	})
	g.Go(func() error {
		snap, err := c.loader.Load(gctx, updatedPath)
		if err != nil {
			return fmt.Errorf("updated: %w", err)
		}
		result.Updated = snap
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.Errorf("Failed to load snapshots: %v", err)
		return nil, err
	}

	c.logger.Debugf("Loaded %d baseline rows and %d updated rows",
		len(result.Baseline.Rows), len(result.Updated.Rows))

	// =========================================================================
	// STEP 2: VALIDATE
	// =========================================================================

	result.Warnings = append(result.Warnings, validation.Inspect(result.Baseline, c.tracked)...)
	result.Warnings = append(result.Warnings, validation.Inspect(result.Updated, c.tracked)...)
	result.Warnings = append(result.Warnings, validation.ComparePair(result.Baseline, result.Updated, c.tracked)...)

	for _, w := range result.Warnings {
		if w.Severity == validation.SeverityWarning {
			c.logger.Warnf("%s", w.Error())
		} else {
			c.logger.Debugf("%s", w.Error())
		}
	}

	// =========================================================================
	// STEP 3: COMPARE
	// =========================================================================

	result.Comparison = c.engine.Compare(result.Baseline.Rows, result.Updated.Rows)

	// =========================================================================
	// STEP 4: STATISTICS
	// =========================================================================

	result.Elapsed = time.Since(start)
	c.logger.Infof("Comparison finished in %s: %d modified, %d added, %d removed, %d unchanged",
		result.Elapsed.Round(time.Millisecond),
		len(result.Comparison.Modified),
		len(result.Comparison.Added),
		len(result.Comparison.Removed),
		result.Comparison.Stats.Unchanged)

	return result, nil
}

// Inspect loads a single file and validates it on its own.
func (c *Comparator) Inspect(ctx context.Context, path string) (*snapshot.Snapshot, []*validation.Warning, error) {
	snap, err := c.loader.Load(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return snap, validation.Inspect(snap, c.tracked), nil
}
