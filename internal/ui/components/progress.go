package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scribe/internal/ui/theme"
)

// ScoreBar displays a labelled 0-100 score as a horizontal bar.
type ScoreBar struct {
	Label string
	Score int
	Width int
}

// NewScoreBar creates a score bar.
func NewScoreBar(label string, score, width int) ScoreBar {
	return ScoreBar{Label: label, Score: score, Width: width}
}

// View renders the bar.
func (p ScoreBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	const percentWidth = 6 // "  100%"
	barWidth := max(p.Width-lipgloss.Width(result)-percentWidth, 4)

	score := min(max(p.Score, 0), 100)
	filled := barWidth * score / 100

	result += theme.ScoreColor(score).Render(strings.Repeat(" ", filled)) +
		theme.BarEmpty.Render(strings.Repeat(" ", barWidth-filled))

	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d%%", score))

	return result
}
