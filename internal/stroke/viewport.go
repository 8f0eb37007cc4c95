package stroke

// Viewport maps client coordinates (screen pixels, terminal cells) onto the
// canvas's intrinsic pixel grid. The displayed element may be scaled
// relative to the canvas, so stored points only depend on canvas size.
type Viewport struct {
	// Left and Top are the element's client-space origin.
	Left float64
	Top  float64

	// ClientWidth and ClientHeight are the displayed element size.
	ClientWidth  float64
	ClientHeight float64

	// CanvasWidth and CanvasHeight are the intrinsic canvas dimensions.
	CanvasWidth  float64
	CanvasHeight float64
}

// Identity returns a Viewport whose client space equals canvas space.
func Identity(width, height float64) Viewport {
	return Viewport{
		ClientWidth:  width,
		ClientHeight: height,
		CanvasWidth:  width,
		CanvasHeight: height,
	}
}

// ToCanvas translates a client-space position into canvas pixels.
func (v Viewport) ToCanvas(clientX, clientY float64) Point {
	sx, sy := 1.0, 1.0
	if v.ClientWidth > 0 && v.CanvasWidth > 0 {
		sx = v.CanvasWidth / v.ClientWidth
	}
	if v.ClientHeight > 0 && v.CanvasHeight > 0 {
		sy = v.CanvasHeight / v.ClientHeight
	}
	return Point{
		X: (clientX - v.Left) * sx,
		Y: (clientY - v.Top) * sy,
	}
}

// Contains reports whether a client-space position lies on the element.
func (v Viewport) Contains(clientX, clientY float64) bool {
	return clientX >= v.Left && clientX < v.Left+v.ClientWidth &&
		clientY >= v.Top && clientY < v.Top+v.ClientHeight
}
