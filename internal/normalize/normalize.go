// =============================================================================
// Sales Ledger Comparer - Value Normalization
// =============================================================================
//
// This module turns decoded cell values into canonical strings. It is the
// single primitive used for identity keys, field comparison and header
// matching, so that invisible formatting artifacts in a manually maintained
// ledger never register as changes.
//
// RULES (applied in order by ForComparison):
//   a. empty / blank-after-trim            -> ""
//   b. number inside the date-serial range -> "YYYY/MM/DD"
//   c. anything else                       -> its string form
//   d. strip every whitespace and invisible spacing rune, anywhere
//
// =============================================================================

package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// =============================================================================
// DATE SERIALS
// =============================================================================

const (
	// Spreadsheet serials strictly between these bounds are treated as dates
	// (roughly 1982-02-17 to 2064-04-10).
	minDateSerial = 30000
	maxDateSerial = 60000

	// unixEpochSerial is the serial of 1970-01-01 (day 0 = 1899-12-30).
	unixEpochSerial = 25569

	secondsPerDay = 86400
)

// DateSerial converts a spreadsheet date serial to "YYYY/MM/DD".
// The second return value is false when v is outside the plausible range.
func DateSerial(v float64) (string, bool) {
	if v <= minDateSerial || v >= maxDateSerial {
		return "", false
	}

	seconds := int64((v - unixEpochSerial) * secondsPerDay)
	return time.Unix(seconds, 0).UTC().Format("2006/01/02"), true
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// Display renders a cell for humans: date serials become calendar strings,
// other numbers use their shortest decimal form, text is trimmed.
func Display(c types.Cell) string {
	switch c.Kind {
	case types.CellNumber:
		if s, ok := DateSerial(c.Number); ok {
			return s
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case types.CellText:
		return strings.TrimSpace(c.Text)
	default:
		return ""
	}
}

// ForComparison returns the canonical comparison form of a cell.
func ForComparison(c types.Cell) string {
	return StripInvisible(Display(c))
}

// Key returns the identity key for an already-rendered identifier.
func Key(id string) string {
	return ForComparison(types.Text(id))
}

// StripInvisible removes all whitespace and zero-width characters.
func StripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if IsInvisible(r) {
			return -1
		}
		return r
	}, s)
}

// IsInvisible reports whether r is whitespace or an invisible spacing rune.
func IsInvisible(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}

	switch r {
	case '\uFEFF', // byte-order mark
		'\u200B', // zero-width space
		'\u200C', // zero-width non-joiner
		'\u200D', // zero-width joiner
		'\u2060': // word joiner
		return true
	}
	return false
}
