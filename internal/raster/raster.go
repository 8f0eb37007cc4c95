// Package raster renders stroke histories onto a fixed-size bitmap and
// encodes the result for embedding in model requests.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/abhisek/scribe/internal/stroke"
)

// Defaults for the practice canvas.
const (
	DefaultSize      = 400
	DefaultLineWidth = 2.0
)

// discSides is the polygon resolution used for round caps and joins.
const discSides = 24

// Options control rendering. Zero values take the defaults.
type Options struct {
	Size       int
	LineWidth  float64
	Background color.Color
	Ink        color.Color
}

// DefaultOptions returns a 400x400 canvas with 2px black ink on white.
func DefaultOptions() Options {
	return Options{
		Size:       DefaultSize,
		LineWidth:  DefaultLineWidth,
		Background: color.White,
		Ink:        color.Black,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Size <= 0 {
		o.Size = d.Size
	}
	if o.LineWidth <= 0 {
		o.LineWidth = d.LineWidth
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	if o.Ink == nil {
		o.Ink = d.Ink
	}
	return o
}

// Render draws strokes in order onto a square canvas. Each stroke is one
// continuous path with round caps and joins. Strokes without points are
// skipped and a single point renders as a dot. Output depends only on the
// inputs.
func Render(strokes []stroke.Stroke, opts Options) *image.RGBA {
	opts = opts.withDefaults()
	bounds := image.Rect(0, 0, opts.Size, opts.Size)
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(opts.Background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(opts.Size, opts.Size)
	z.DrawOp = draw.Over
	r := opts.LineWidth / 2

	var drew bool
	for _, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		addStroke(z, s.Points, r)
		drew = true
	}
	if drew {
		z.Draw(dst, bounds, image.NewUniform(opts.Ink), image.Point{})
	}
	return dst
}

// addStroke adds the outline of a round-capped, round-joined polyline as a
// union of segment quads and vertex discs. Every polygon is emitted with the
// same winding so overlapping coverage saturates instead of cancelling.
func addStroke(z *vector.Rasterizer, p []stroke.Point, r float64) {
	for i := range p {
		addDisc(z, p[i], r)
		if i == 0 {
			continue
		}
		addSegment(z, p[i-1], p[i], r)
	}
}

func addDisc(z *vector.Rasterizer, c stroke.Point, r float64) {
	for i := 0; i < discSides; i++ {
		a := 2 * math.Pi * float64(i) / discSides
		x := float32(c.X + r*math.Cos(a))
		y := float32(c.Y + r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func addSegment(z *vector.Rasterizer, a, b stroke.Point, r float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*r, dx/l*r

	quad := [4]stroke.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}
	// Discs are emitted with positive signed area; match them.
	if signedArea(quad[:]) < 0 {
		quad[1], quad[3] = quad[3], quad[1]
	}
	z.MoveTo(float32(quad[0].X), float32(quad[0].Y))
	for _, q := range quad[1:] {
		z.LineTo(float32(q.X), float32(q.Y))
	}
	z.ClosePath()
}

func signedArea(poly []stroke.Point) float64 {
	var s float64
	for i := range poly {
		j := (i + 1) % len(poly)
		s += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return s / 2
}
