package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/abhisek/scribe/internal/stroke"
)

// MIMEPNG is the media type of encoded rasters.
const MIMEPNG = "image/png"

// Payload is an encoded raster ready to embed in a request body.
type Payload struct {
	MIMEType string
	// Bytes is the raw PNG.
	Bytes []byte
	// Data is Bytes in standard base64.
	Data string
	// DataURI is "data:<mime>;base64,<data>".
	DataURI string
}

// Encode serializes img as PNG.
func Encode(img image.Image) (Payload, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Payload{}, fmt.Errorf("encode png: %w", err)
	}
	data := base64.StdEncoding.EncodeToString(buf.Bytes())
	return Payload{
		MIMEType: MIMEPNG,
		Bytes:    buf.Bytes(),
		Data:     data,
		DataURI:  "data:" + MIMEPNG + ";base64," + data,
	}, nil
}

// Rasterize renders strokes and encodes the result in one step.
func Rasterize(strokes []stroke.Stroke, opts Options) (Payload, error) {
	return Encode(Render(strokes, opts))
}
