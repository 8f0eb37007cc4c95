package stroke

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// fileStroke is the on-disk shape of a stroke:
// {"points": [[x, y], ...], "timestamp": ms}.
type fileStroke struct {
	Points    [][2]float64 `json:"points"`
	Timestamp int64        `json:"timestamp"`
}

// Decode reads a JSON array of strokes.
func Decode(r io.Reader) ([]Stroke, error) {
	var raw []fileStroke
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode strokes: %w", err)
	}
	out := make([]Stroke, 0, len(raw))
	for _, fs := range raw {
		s := Stroke{Points: make([]Point, len(fs.Points))}
		for i, p := range fs.Points {
			s.Points[i] = Point{X: p[0], Y: p[1]}
		}
		if fs.Timestamp != 0 {
			s.Started = time.UnixMilli(fs.Timestamp)
		}
		out = append(out, s)
	}
	return out, nil
}

// Encode writes strokes in the format Decode reads.
func Encode(w io.Writer, strokes []Stroke) error {
	raw := make([]fileStroke, len(strokes))
	for i, s := range strokes {
		raw[i].Points = make([][2]float64, len(s.Points))
		for j, p := range s.Points {
			raw[i].Points[j] = [2]float64{p.X, p.Y}
		}
		if !s.Started.IsZero() {
			raw[i].Timestamp = s.Started.UnixMilli()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// ReadFile decodes a stroke file. "-" reads standard input.
func ReadFile(path string) ([]Stroke, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	strokes, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return strokes, nil
}
