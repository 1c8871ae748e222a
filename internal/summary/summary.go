// =============================================================================
// Sales Ledger Comparer - AI Summary
// =============================================================================
//
// This module asks a language model for a short executive summary of a
// comparison result. The model is a capability handed in by the caller and
// created fresh for every request; nothing here holds a client between calls.
//
// PROMPT LAYOUT:
//   - the three partition counts
//   - up to MaxItems modified rows, one per line:
//       - [A1] 台南案: 狀態 from Open to Closed, Qty pc from 10 to 12
//   - the analyst instruction and the target language
//
// =============================================================================

package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/navygreg-tw/deliver-schedule--comparison/internal/types"
)

// ErrNoChanges is returned when there is nothing to summarize.
var ErrNoChanges = errors.New("comparison has no changes to summarize")

// Model generates text for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelFactory creates a Model for a single request.
type ModelFactory func(ctx context.Context) (Model, error)

// Options shapes the prompt.
type Options struct {
	// MaxItems caps the quoted modified rows. Zero means 15.
	MaxItems int

	// Language is the requested answer language.
	Language string

	// SubtotalLabel stands in for the project name of subtotal rows.
	SubtotalLabel string
}

func (o Options) withDefaults() Options {
	if o.MaxItems <= 0 {
		o.MaxItems = 15
	}
	if o.Language == "" {
		o.Language = "Traditional Chinese (繁體中文)"
	}
	if o.SubtotalLabel == "" {
		o.SubtotalLabel = "aggregate/subtotal row"
	}
	return o
}

// Summarizer produces executive summaries of comparison results.
type Summarizer struct {
	factory ModelFactory
	opts    Options
}

// New creates a Summarizer that obtains its model from factory.
func New(factory ModelFactory, opts Options) *Summarizer {
	return &Summarizer{factory: factory, opts: opts.withDefaults()}
}

// Summarize returns the model's summary of result. The result itself is not
// modified; attach the text with result.WithSummary.
func (s *Summarizer) Summarize(ctx context.Context, result *types.ComparisonResult) (string, error) {
	if !result.HasChanges() {
		return "", ErrNoChanges
	}

	model, err := s.factory(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create model: %w", err)
	}

	text, err := model.Generate(ctx, BuildPrompt(result, s.opts))
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("model returned an empty summary")
	}
	return text, nil
}

// BuildPrompt renders the summary prompt for result.
func BuildPrompt(result *types.ComparisonResult, opts Options) string {
	opts = opts.withDefaults()

	var b strings.Builder
	b.WriteString("I compared two sales ledger spreadsheets. Summary of the differences:\n")
	fmt.Fprintf(&b, "- Modified rows: %d\n", len(result.Modified))
	fmt.Fprintf(&b, "- Added rows: %d\n", len(result.Added))
	fmt.Fprintf(&b, "- Removed rows: %d\n", len(result.Removed))

	if len(result.Modified) > 0 {
		shown := result.Modified
		if len(shown) > opts.MaxItems {
			shown = shown[:opts.MaxItems]
		}

		fmt.Fprintf(&b, "\nNotable changes (first %d):\n", len(shown))
		for _, d := range shown {
			name := d.ProjectName
			if d.IsSubtotal() {
				name = opts.SubtotalLabel
			}

			changes := make([]string, len(d.Changes))
			for i, c := range d.Changes {
				changes[i] = fmt.Sprintf("%s from %s to %s", c.Column, c.OldValue, c.NewValue)
			}
			fmt.Fprintf(&b, "- [%s] %s: %s\n", d.ID, name, strings.Join(changes, ", "))
		}
	}

	b.WriteString("\nAs a senior business analyst, write a concise executive summary in ")
	b.WriteString(opts.Language)
	b.WriteString(". Focus on what these changes, such as quantity (Qty) changes and status changes, may mean for the business.\n")

	return b.String()
}
