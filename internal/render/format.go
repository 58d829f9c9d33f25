// Package render turns aggregated Harbor data into HTML or Markdown
// documents.
package render

import (
	"path/filepath"
	"strings"

	"github.com/naka-gawa/harbor-summary/internal/domain"
)

// Format selects an output document type.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Label is the human name of the format, used in status messages.
func (f Format) Label() string {
	if f == FormatMarkdown {
		return "Markdown"
	}
	return "HTML"
}

// ParseFormat validates a --format value. "md" is accepted as an alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", domain.NewConfigError("unsupported format %q (choose html or markdown)", s)
	}
}

// InferFormat picks the format from an output path: .md and .markdown mean
// Markdown, anything else HTML.
func InferFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatHTML
	}
}

// DefaultOutput is the file written when no output path is given.
func DefaultOutput(f Format) string {
	if f == FormatMarkdown {
		return "harbor_summary.md"
	}
	return "harbor_summary.html"
}
