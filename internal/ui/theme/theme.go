package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette: dark paper, warm ink.
var (
	Primary   = lipgloss.Color("#60A5FA") // Sky
	Secondary = lipgloss.Color("#34D399") // Mint
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#F59E0B") // Orange
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	Ink       = lipgloss.Color("#E2E8F0")
	Paper     = lipgloss.Color("#111827")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#374151")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Glyph = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Canvas = lipgloss.NewStyle().
		Foreground(Ink).
		Background(Paper).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)

	CanvasActive = Canvas.
			BorderForeground(Accent)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// ScoreColor picks the bar color for a 0-100 score.
func ScoreColor(score int) lipgloss.Style {
	switch {
	case score >= 75:
		return lipgloss.NewStyle().Background(Success)
	case score >= 50:
		return lipgloss.NewStyle().Background(Warning)
	default:
		return lipgloss.NewStyle().Background(Error)
	}
}

// BarEmpty is the unfilled part of a score bar.
var BarEmpty = lipgloss.NewStyle().Background(Border)
