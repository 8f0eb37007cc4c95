package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scribe/internal/analysis"
	"github.com/abhisek/scribe/internal/raster"
	"github.com/abhisek/scribe/internal/stroke"
	"github.com/abhisek/scribe/internal/ui/components"
	"github.com/abhisek/scribe/internal/ui/theme"
)

// Canvas origin within the content area: one blank row and column of
// margin, then the border.
const (
	canvasLeft = 2
	canvasTop  = 2
	minRows    = 4
	maxTips    = 4
)

// canvasRect is where the drawing cells were last rendered, in content
// coordinates.
type canvasRect struct {
	left, top  int
	cols, rows int
}

func (r canvasRect) contains(x, y int) bool {
	return x >= r.left && x < r.left+r.cols && y >= r.top && y < r.top+r.rows
}

func (s *Screen) canvasSize() int {
	if s.cfg.Raster.Size > 0 {
		return s.cfg.Raster.Size
	}
	return raster.DefaultSize
}

func panelWidth(width int) int {
	return min(max(width/3, 28), 44)
}

// layoutCanvas sizes the canvas to fit beside the panel. Cells are about
// twice as tall as wide, so a square canvas spans twice as many columns as
// rows.
func layoutCanvas(width, height int) canvasRect {
	availW := width - panelWidth(width) - 6
	availH := height - 3
	rows := max(min(availH, availW/2), minRows)
	return canvasRect{left: canvasLeft, top: canvasTop, cols: rows * 2, rows: rows}
}

// View records where the canvas is drawn so mouse input maps onto it.
func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}

	rect := layoutCanvas(width, height)
	if rect != s.canvas {
		s.canvas = rect
		size := float64(s.canvasSize())
		s.session.SetViewport(stroke.Viewport{
			Left:         float64(rect.left),
			Top:          float64(rect.top),
			ClientWidth:  float64(rect.cols),
			ClientHeight: float64(rect.rows),
			CanvasWidth:  size,
			CanvasHeight: size,
		})
	}

	pw := panelWidth(width)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		" ",
		s.renderCanvas(rect),
		"   ",
		lipgloss.NewStyle().Width(pw).Render(s.renderPanel(pw)),
	)
	return "\n" + body
}

func (s *Screen) renderCanvas(rect canvasRect) string {
	opts := s.cfg.Raster
	opts.Size = s.canvasSize()
	// Thicken ink so a stroke still covers whole cells after downsampling.
	opts.LineWidth = max(opts.LineWidth, 1.5*float64(opts.Size)/float64(rect.rows*2))
	img := raster.Render(s.session.Snapshot(), opts)

	style := theme.Canvas
	if s.session.Drawing() {
		style = theme.CanvasActive
	}
	return style.Render(strings.Join(raster.Cells(img, rect.cols, rect.rows), "\n"))
}

func (s *Screen) renderPanel(width int) string {
	var b strings.Builder
	lang := s.session.Language()
	level := s.session.Level()

	b.WriteString(theme.Subtitle.Render("Write "))
	b.WriteString(theme.Glyph.Render(s.session.Character()))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("   %d/%d", s.session.Index()+1, len(level.Characters))))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%s · %s", lang.Name, lang.Script)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(level.Name))
	b.WriteString("\n\n")

	b.WriteString(s.renderStatus())

	if r := s.session.Result(); r != nil {
		b.WriteString(renderResult(*r, width))
	} else {
		b.WriteString(s.renderTips())
	}
	return b.String()
}

func (s *Screen) renderStatus() string {
	switch {
	case s.session.Analyzing():
		return s.spinner.View() + " " + theme.Hint.Render("Analyzing...") + "\n\n"
	case s.session.LastError() != nil:
		return theme.Bad.Render("Analysis failed: ") +
			theme.Body.Render(s.session.LastError().Error()) + "\n\n"
	case s.session.LastOutcome() != nil && !s.session.LastOutcome().Parsed:
		return theme.Hint.Render("Could not read the model's reply.") + "\n\n"
	case len(s.session.Strokes()) == 0 && !s.session.Drawing():
		return theme.Hint.Render("Draw the character in the box.") + "\n\n"
	}
	return ""
}

func renderResult(r analysis.Result, width int) string {
	var b strings.Builder

	if r.Has(analysis.FieldStrokeQuality) {
		b.WriteString(components.NewScoreBar("Strokes  ", r.StrokeQuality.Value, width).View())
		b.WriteString("\n")
	}
	if r.Has(analysis.FieldFormation) {
		b.WriteString(components.NewScoreBar("Formation", r.Formation.Value, width).View())
		b.WriteString("\n")
	}
	if o := r.Reported.Overall; o != nil {
		line := fmt.Sprintf("Model says %d%% overall", *o)
		if f := r.Reported.Formation; f != nil {
			line += fmt.Sprintf(", %d%% formation", *f)
		}
		b.WriteString(theme.Subtitle.Render(line))
		b.WriteString("\n")
	}

	writeList(&b, "Next strokes", r.NextStrokes, nil)
	writeList(&b, "Watch out for", r.Mistakes.Mistakes, r.Mistakes.Improvements)
	return b.String()
}

func (s *Screen) renderTips() string {
	tips := s.session.Tips()
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	var b strings.Builder
	writeList(&b, "Tips", tips, nil)
	return b.String()
}

// writeList renders a titled bullet list. When follow has an entry for an
// item it is shown indented below it.
func writeList(b *strings.Builder, title string, items, follow []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	for i, item := range items {
		b.WriteString(theme.Body.Render("• " + item))
		b.WriteString("\n")
		if i < len(follow) && follow[i] != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("  → " + follow[i]))
			b.WriteString("\n")
		}
	}
}

func renderError(width, height int, msg string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Bad.Render("Cannot start practice")+"\n\n"+theme.Body.Render(msg)+"\n\n"+
			theme.Hint.Render("Press Esc to go back"))
}
