package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderFunc turns markdown into terminal output.
type RenderFunc func(markdown string) (string, error)

// NewRenderer returns a RenderFunc backed by glamour, wrapping at width.
// An empty style picks light or dark from the terminal background.
func NewRenderer(style string, width int) (RenderFunc, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// Plain is a RenderFunc that returns the markdown unchanged.
func Plain(markdown string) (string, error) {
	return markdown, nil
}
