// Package stroke captures freehand pointer input as timestamped polylines.
package stroke

import "time"

// Point is a position in intrinsic canvas pixels.
type Point struct {
	X float64
	Y float64
}

// Stroke is one pen-down to pen-up polyline.
type Stroke struct {
	Points  []Point
	Started time.Time
}

// Len returns the number of points in the stroke.
func (s Stroke) Len() int {
	return len(s.Points)
}

// Clone returns a deep copy of the stroke.
func (s Stroke) Clone() Stroke {
	pts := make([]Point, len(s.Points))
	copy(pts, s.Points)
	return Stroke{Points: pts, Started: s.Started}
}

// History is the ordered stroke list for the current character attempt.
// It only grows by Append; Undo and Clear are the only removals.
type History struct {
	strokes []Stroke
}

// Append adds a committed stroke to the end of the history.
func (h *History) Append(s Stroke) {
	h.strokes = append(h.strokes, s)
}

// Undo removes the most recent stroke. It reports false when the history
// was already empty.
func (h *History) Undo() bool {
	if len(h.strokes) == 0 {
		return false
	}
	h.strokes = h.strokes[:len(h.strokes)-1]
	return true
}

// Clear empties the history.
func (h *History) Clear() {
	h.strokes = nil
}

// Len returns the number of committed strokes.
func (h *History) Len() int {
	return len(h.strokes)
}

// Strokes returns a copy of the committed strokes, safe to retain.
func (h *History) Strokes() []Stroke {
	out := make([]Stroke, len(h.strokes))
	for i, s := range h.strokes {
		out[i] = s.Clone()
	}
	return out
}
