package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/abhisek/scribe/internal/stroke"
)

func pts(xy ...float64) stroke.Stroke {
	var s stroke.Stroke
	for i := 0; i+1 < len(xy); i += 2 {
		s.Points = append(s.Points, stroke.Point{X: xy[i], Y: xy[i+1]})
	}
	return s
}

func TestLength(t *testing.T) {
	tests := []struct {
		name string
		s    stroke.Stroke
		want float64
	}{
		{"3-4-5", pts(0, 0, 3, 4), 5.0},
		{"single point", pts(7, 7), 0},
		{"empty", stroke.Stroke{}, 0},
		{"two segments", pts(0, 0, 3, 4, 3, 10), 11.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Length(tt.s); got != tt.want {
				t.Errorf("Length = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundsOf(t *testing.T) {
	b, err := BoundsOf([]stroke.Stroke{pts(1, 1, 4, 1), pts(1, 5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Bounds{MinX: 1, MinY: 1, MaxX: 4, MaxY: 5, Width: 3, Height: 4, CenterX: 2.5, CenterY: 3}
	if b != want {
		t.Errorf("BoundsOf = %+v, want %+v", b, want)
	}
}

func TestBoundsOf_Empty(t *testing.T) {
	if _, err := BoundsOf(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("nil strokes: err = %v, want ErrEmptyInput", err)
	}
	if _, err := BoundsOf([]stroke.Stroke{{}}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("pointless stroke: err = %v, want ErrEmptyInput", err)
	}
}

func TestMeasure(t *testing.T) {
	m := Measure([]stroke.Stroke{pts(0, 0, 3, 4), pts(0, 4, 3, 4)})
	if m.StrokeCount != 2 {
		t.Errorf("StrokeCount = %d", m.StrokeCount)
	}
	if m.TotalLength != 8 || m.MeanLength != 4 {
		t.Errorf("lengths total=%v mean=%v", m.TotalLength, m.MeanLength)
	}
	if math.Abs(m.Density-8.0/12.0) > 1e-12 {
		t.Errorf("Density = %v", m.Density)
	}
}

func TestMeasure_DegenerateBounds(t *testing.T) {
	m := Measure([]stroke.Stroke{pts(0, 0, 10, 0)})
	if m.Density != 0 {
		t.Errorf("horizontal line density = %v, want 0", m.Density)
	}
	if math.IsInf(m.Density, 0) || math.IsNaN(m.Density) {
		t.Error("density must be finite")
	}
}

func TestMeasure_Empty(t *testing.T) {
	m := Measure(nil)
	if !m.Empty || m.MeanLength != 0 || m.Density != 0 {
		t.Errorf("unexpected metrics for empty input: %+v", m)
	}
}

func TestCompare_IdenticalIs100(t *testing.T) {
	shape := []stroke.Stroke{pts(10, 10, 60, 10, 60, 90), pts(10, 50, 60, 50)}
	c, err := Compare(shape, shape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Score != 100 {
		t.Errorf("Score = %v, want 100", c.Score)
	}
}

func TestCompare_StrokeCountPenalty(t *testing.T) {
	ideal := Metrics{StrokeCount: 3, Bounds: Bounds{Width: 10, Height: 10}, Density: 1}
	user := ideal
	user.StrokeCount = 1

	c, _ := CompareMetrics(user, ideal)
	// two missing strokes halve to 1, weighted at 0.20
	if c.Score != 80 {
		t.Errorf("Score = %v, want 80", c.Score)
	}
}

func TestCompare_ClampedAtZero(t *testing.T) {
	ideal := Metrics{StrokeCount: 1, Bounds: Bounds{Width: 1, Height: 1}, Density: 0.1}
	user := Metrics{StrokeCount: 20, Bounds: Bounds{Width: 100, Height: 1}, Density: 9}
	if c, _ := CompareMetrics(user, ideal); c.Score != 0 {
		t.Errorf("Score = %v, want 0", c.Score)
	}
}

func TestCompare_DegenerateIdeal(t *testing.T) {
	ideal := Metrics{StrokeCount: 1, Bounds: Bounds{Width: 10, Height: 0}}
	user := Metrics{StrokeCount: 1, Bounds: Bounds{Width: 10, Height: 5}}
	c, err := CompareMetrics(user, ideal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(c.Score) || math.IsInf(c.Score, 0) {
		t.Fatalf("score must be finite, got %v", c.Score)
	}
	if c.Size != 1 || c.Proportion != 1 {
		t.Errorf("degenerate ideal should be a full mismatch, got %+v", c)
	}
}

func TestCompare_Empty(t *testing.T) {
	shape := []stroke.Stroke{pts(10, 10, 60, 90)}
	tests := []struct {
		name        string
		user, ideal []stroke.Stroke
	}{
		{"no attempt", nil, shape},
		{"no ideal", shape, nil},
		{"both empty", nil, nil},
		{"pointless strokes", []stroke.Stroke{{}, {}}, shape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compare(tt.user, tt.ideal)
			if !errors.Is(err, ErrEmptyInput) {
				t.Fatalf("err = %v, want ErrEmptyInput", err)
			}
			if c.Score != 0 {
				t.Errorf("Score = %v, want 0", c.Score)
			}
		})
	}
}
