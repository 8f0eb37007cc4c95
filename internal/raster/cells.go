package raster

import (
	"image"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// inkThreshold is the gray level below which a downsampled pixel counts as
// ink.
const inkThreshold = 200

// Cells downsamples img to a cols x rows terminal grid. Each cell covers two
// vertical pixels and is drawn with half-block glyphs.
func Cells(img image.Image, cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	small := image.NewGray(image.Rect(0, 0, cols, rows*2))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	lines := make([]string, rows)
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		sb.Reset()
		for c := 0; c < cols; c++ {
			top := small.GrayAt(c, 2*r).Y < inkThreshold
			bottom := small.GrayAt(c, 2*r+1).Y < inkThreshold
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		lines[r] = sb.String()
	}
	return lines
}
