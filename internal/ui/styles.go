package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	if !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// Ayu theme color palette
var (
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}

	// Result colors
	ColorPassed = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#aad94c",
	}
	ColorFailed = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f26d78",
	}
	ColorBlocked = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorSkipped = lipgloss.AdaptiveColor{
		Light: "#9099a1",
		Dark:  "#8090a0",
	}

	// Priority colors
	ColorPriorityHigh = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorPriorityMedium = lipgloss.AdaptiveColor{
		Light: "#e6b450",
		Dark:  "#e6b450",
	}
)

// Styles
var (
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	BoldStyle   = lipgloss.NewStyle().Bold(true)

	PassedStyle  = lipgloss.NewStyle().Foreground(ColorPassed)
	FailedStyle  = lipgloss.NewStyle().Foreground(ColorFailed).Bold(true)
	BlockedStyle = lipgloss.NewStyle().Foreground(ColorBlocked)
	SkippedStyle = lipgloss.NewStyle().Foreground(ColorSkipped)

	PriorityHighStyle   = lipgloss.NewStyle().Foreground(ColorPriorityHigh).Bold(true)
	PriorityMediumStyle = lipgloss.NewStyle().Foreground(ColorPriorityMedium)
)

// Status icons
const (
	IconPassed   = "✓"
	IconFailed   = "✗"
	IconBlocked  = "●"
	IconSkipped  = "○"
	IconInvalid  = "?"
	IconActive   = "◐"
	IconComplete = "✓"
	IconAborted  = "✗"
	PriorityIcon = "●"
)

// RenderResultIcon returns the colored icon for a result status.
func RenderResultIcon(status string) string {
	switch status {
	case "passed":
		return PassedStyle.Render(IconPassed)
	case "failed":
		return FailedStyle.Render(IconFailed)
	case "blocked":
		return BlockedStyle.Render(IconBlocked)
	case "skipped":
		return SkippedStyle.Render(IconSkipped)
	default:
		return MutedStyle.Render(IconInvalid)
	}
}

// RenderResult renders a result status string with coloring.
func RenderResult(status string) string {
	switch status {
	case "passed":
		return PassedStyle.Render(status)
	case "failed":
		return FailedStyle.Render(status)
	case "blocked":
		return BlockedStyle.Render(status)
	case "skipped", "invalid":
		return SkippedStyle.Render(status)
	default:
		return status
	}
}

// RenderRunIcon returns the icon for a run status label.
func RenderRunIcon(status string) string {
	switch status {
	case "active", "in progress":
		return AccentStyle.Render(IconActive)
	case "complete", "passed":
		return PassedStyle.Render(IconComplete)
	case "abort", "aborted", "failed":
		return FailedStyle.Render(IconAborted)
	default:
		return MutedStyle.Render(IconInvalid)
	}
}

// RenderPriority renders a case priority label with icon and color.
func RenderPriority(label string) string {
	text := PriorityIcon + " " + label
	switch label {
	case "high":
		return PriorityHighStyle.Render(text)
	case "medium":
		return PriorityMediumStyle.Render(text)
	case "undefined":
		return MutedStyle.Render(text)
	default:
		return text
	}
}

// RenderMuted renders text in muted gray.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderBold renders text in bold.
func RenderBold(s string) string {
	return BoldStyle.Render(s)
}

// RenderAccent renders text with accent color.
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderCompletedLine renders an entire line dimmed, for finished runs.
func RenderCompletedLine(line string) string {
	return SkippedStyle.Render(line)
}
