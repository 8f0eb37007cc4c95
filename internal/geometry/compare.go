package geometry

import (
	"math"

	"github.com/abhisek/scribe/internal/stroke"
)

// Comparison weights. They sum to 1.
const (
	weightSize       = 0.25
	weightProportion = 0.35
	weightCount      = 0.20
	weightDensity    = 0.20
)

// Comparison holds the per-dimension differences and the combined score.
type Comparison struct {
	Size        float64 // |1 - userArea/idealArea|
	Proportion  float64 // |1 - userRatio/idealRatio|
	StrokeCount float64 // |userCount - idealCount|
	Density     float64 // |userDensity - idealDensity|
	Score       float64 // 0..100
}

// Compare scores how closely user resembles ideal on a 0..100 scale.
// Identical inputs score 100. Either side without points yields
// ErrEmptyInput.
func Compare(user, ideal []stroke.Stroke) (Comparison, error) {
	return CompareMetrics(Measure(user), Measure(ideal))
}

// CompareMetrics is Compare over precomputed metrics.
func CompareMetrics(u, i Metrics) (Comparison, error) {
	if u.Empty || i.Empty {
		return Comparison{}, ErrEmptyInput
	}
	c := Comparison{
		Size:        ratioDiff(area(u.Bounds), area(i.Bounds)),
		Proportion:  ratioDiff(aspect(u.Bounds), aspect(i.Bounds)),
		StrokeCount: math.Abs(float64(u.StrokeCount - i.StrokeCount)),
		Density:     math.Abs(u.Density - i.Density),
	}

	score := 100.0
	score -= c.Size * 100 * weightSize
	score -= c.Proportion * 100 * weightProportion
	score -= (c.StrokeCount / 2) * 100 * weightCount
	score -= c.Density * 100 * weightDensity
	c.Score = math.Max(0, math.Min(100, score))
	return c, nil
}

// ratioDiff returns |1 - a/b|. A zero reference counts as a full mismatch
// unless a is zero too.
func ratioDiff(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return 1
	}
	return math.Abs(1 - a/b)
}

func area(b Bounds) float64 {
	return b.Width * b.Height
}

func aspect(b Bounds) float64 {
	if b.Height == 0 {
		return 0
	}
	return b.Width / b.Height
}
