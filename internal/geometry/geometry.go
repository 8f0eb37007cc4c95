// Package geometry computes simple shape metrics over captured strokes.
// It is independent of the remote analysis pipeline.
package geometry

import (
	"errors"
	"math"

	"github.com/abhisek/scribe/internal/stroke"
)

// ErrEmptyInput is returned when bounds are requested for no points.
var ErrEmptyInput = errors.New("geometry: no points")

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Width      float64
	Height     float64
	CenterX    float64
	CenterY    float64
}

// Metrics summarizes a stroke history.
type Metrics struct {
	StrokeCount int
	MeanLength  float64
	TotalLength float64
	Bounds      Bounds
	// Density is total length over bounding area; 0 for degenerate bounds.
	Density float64
	// Empty is set when there were no points to bound.
	Empty bool
}

// Length returns the polyline length of a stroke.
func Length(s stroke.Stroke) float64 {
	var total float64
	for i := 1; i < len(s.Points); i++ {
		dx := s.Points[i].X - s.Points[i-1].X
		dy := s.Points[i].Y - s.Points[i-1].Y
		total += math.Hypot(dx, dy)
	}
	return total
}

// BoundsOf returns the bounding box over all points in strokes.
func BoundsOf(strokes []stroke.Stroke) (Bounds, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	n := 0
	for _, s := range strokes {
		for _, p := range s.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
			n++
		}
	}
	if n == 0 {
		return Bounds{}, ErrEmptyInput
	}
	w, h := maxX-minX, maxY-minY
	return Bounds{
		MinX: minX, MinY: minY,
		MaxX: maxX, MaxY: maxY,
		Width: w, Height: h,
		CenterX: minX + w/2,
		CenterY: minY + h/2,
	}, nil
}

// Measure computes Metrics for a stroke history. It never fails; an input
// without points yields zero bounds with Empty set.
func Measure(strokes []stroke.Stroke) Metrics {
	m := Metrics{StrokeCount: len(strokes)}
	for _, s := range strokes {
		m.TotalLength += Length(s)
	}
	if m.StrokeCount > 0 {
		m.MeanLength = m.TotalLength / float64(m.StrokeCount)
	}

	b, err := BoundsOf(strokes)
	if err != nil {
		m.Empty = true
		return m
	}
	m.Bounds = b
	if area := b.Width * b.Height; area > 0 {
		m.Density = m.TotalLength / area
	}
	return m
}
