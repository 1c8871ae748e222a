package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/config"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/csvparser"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
	"github.com/navygreg-tw/deliver-schedule--comparison/internal/xlsxparser"
	"github.com/navygreg-tw/deliver-schedule--comparison/pkg/utils"
)

// Loader reads ledger files from disk. It is safe for concurrent use.
type Loader struct {
	Options

	// Sheet selects the worksheet of XLSX files; empty means the first.
	Sheet string

	// CSV configures the CSV decoder.
	CSV config.CSVSettings

	// Log receives per-file diagnostics. Nil means utils.Log.
	Log logrus.FieldLogger
}

// NewLoader builds a Loader from the main configuration.
func NewLoader(cfg *config.MainConfig) *Loader {
	return &Loader{
		Options: Options{
			Labels:    cfg.ColumnLabels(),
			ScanLimit: cfg.HeaderScanLimit,
		},
		Sheet: cfg.Sheet,
		CSV:   cfg.CSVSettings,
	}
}

func (l *Loader) logger() logrus.FieldLogger {
	if l.Log == nil {
		return utils.Log
	}
	return l.Log
}

// Load decodes path, selected by extension, and builds its Snapshot.
//
// RETURNS:
//   - The Snapshot.
//   - An error wrapping columns.ErrHeaderNotFound when the header is missing,
//     or a decoding error.
func (l *Loader) Load(ctx context.Context, path string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows  [][]types.Cell
		sheet string
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		grid, err := xlsxparser.Parse(path, l.Sheet)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rows, sheet = grid.Rows, grid.Sheet
	case ".csv":
		var err error
		rows, err = csvparser.Parse(path, l.CSV)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported file type %q (expected .xlsx, .xlsm or .csv)", path, ext)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := Build(rows, l.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	snap.Path = path
	snap.Sheet = sheet

	snap.Fingerprint, err = utils.Fingerprint(path)
	if err != nil {
		return nil, err
	}

	log := l.logger().WithField("file", filepath.Base(path))
	if snap.Discarded > 0 {
		log.Debugf("Discarded %d rows without an identifier", snap.Discarded)
	}
	log.Debugf("Header on row %d, %d data rows", snap.HeaderRow, len(snap.Rows))

	return snap, nil
}
