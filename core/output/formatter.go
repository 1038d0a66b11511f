// Package output renders calculation results for people and machines,
// and exports them as spreadsheets, PDF quotes and CSV item lists.
package output

import (
	"encoding/json"
	"io"

	"landed-cost/core/engine"
	"landed-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *engine.Result) error
}

// Options control how much detail a formatter shows.
type Options struct {
	// ShowDetails lists every cost line rather than totals only
	ShowDetails bool
}

// NewFormatter returns the formatter for format.
func NewFormatter(format Format, opts Options) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return &cliFormatter{opts: opts}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatMarkdown:
		return &markdownFormatter{opts: opts}, nil
	}
	return nil, errors.Inputf("unknown output format %q (use cli, json or markdown)", format)
}

type jsonFormatter struct{}

func (jsonFormatter) Format() Format { return FormatJSON }

func (jsonFormatter) Render(w io.Writer, result *engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
