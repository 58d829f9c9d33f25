package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Preview renders a Markdown document for display in a terminal.
// A width of zero keeps glamour's default wrapping.
func Preview(markdown string, width int) (string, error) {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown preview: %w", err)
	}
	return out, nil
}
