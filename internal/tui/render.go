package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer formats activity output for the terminal.
type MarkdownRenderer struct {
	style string
	width int
}

// NewMarkdownRenderer returns a renderer using a glamour standard style
// ("auto", "dark", "light", "notty", ...). Width 0 disables wrapping.
func NewMarkdownRenderer(style string, width int) *MarkdownRenderer {
	if style == "" {
		style = "auto"
	}
	return &MarkdownRenderer{style: style, width: width}
}

// Render converts markdown to styled terminal text.
func (r *MarkdownRenderer) Render(markdown string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(r.width)}
	if r.style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	}
	term, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("tui: markdown renderer: %w", err)
	}
	out, err := term.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("tui: render markdown: %w", err)
	}
	return out, nil
}
