// =============================================================================
// Sales Ledger Comparer - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the comparer:
//   - Output directory management
//   - Report file naming (uuid / timestamp / date placeholders)
//   - Content fingerprints used to spot identical snapshots
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager places generated reports in the output directory.
type FileManager struct {
	// OutputDir is where generated reports are written.
	OutputDir string
}

// NewFileManager creates a new FileManager for the given output directory.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if fm.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// ReportPath resolves where a report should be written.
//
// PARAMETERS:
//   - requested: The path given by the user. A bare file name is placed in
//     the output directory; a path with a directory is used as is. An empty
//     value generates a name from format.
//   - format: The file name format used when requested is empty.
//
// RETURNS:
//   - The report path.
//   - An error if the target directory cannot be created.
func (fm *FileManager) ReportPath(requested, format string) (string, error) {
	name := requested
	if name == "" {
		name = GenerateOutputFileName(format, nil)
	}

	if filepath.Dir(name) != "." {
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", filepath.Dir(name), err)
		}
		return name, nil
	}

	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}
	return filepath.Join(fm.OutputDir, name), nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a report file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYY-MM-DD)
//               {time}      - Current time (HHMMSS)
//   - params: Extra placeholder values, e.g. {"sheet": "2026Q1"}.
//
// RETURNS:
//   - The generated file name, always ending in .xlsx or .csv.
//
// EXAMPLE:
//   format: "業務異動報告_{date}.xlsx"
//   output: "業務異動報告_2026-01-15.xlsx"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("2006-01-02"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	switch strings.ToLower(filepath.Ext(result)) {
	case ".xlsx", ".csv":
	default:
		result += ".xlsx"
	}

	return result
}

// =============================================================================
// FINGERPRINTS
// =============================================================================

// Fingerprint returns the xxh3 hash of a file's content.
func Fingerprint(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return h.Sum64(), nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a regular file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
