package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const maxReadableWidth = 100

// RenderMarkdown renders case text (description, preconditions, steps)
// with glamour. Plain text is returned unchanged when color is off or
// rendering fails.
func RenderMarkdown(markdown string) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	if !ShouldUseColor() {
		return markdown + "\n"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(Width(80), maxReadableWidth)),
	)
	if err != nil {
		return markdown + "\n"
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown + "\n"
	}
	return rendered
}

// Section renders a labelled block of markdown, or nothing when body is
// empty.
func Section(label, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return RenderAccent(label) + "\n" + RenderMarkdown(body)
}
