package stroke

import "time"

// Observer receives capture notifications. Slices passed to StrokesChanged
// are copies owned by the receiver.
type Observer interface {
	StrokesChanged(strokes []Stroke)
	DrawingChanged(drawing bool)
}

// Capture turns pointer events into strokes. It is not safe for concurrent
// use; the owning event loop serializes all calls.
type Capture struct {
	view     Viewport
	history  History
	open     []Point
	started  time.Time
	drawing  bool
	observer Observer
	now      func() time.Time
}

// NewCapture creates a Capture translating through view. observer may be nil.
func NewCapture(view Viewport, observer Observer) *Capture {
	return &Capture{
		view:     view,
		observer: observer,
		now:      time.Now,
	}
}

// SetViewport updates the client-to-canvas mapping, e.g. after a resize.
func (c *Capture) SetViewport(v Viewport) {
	c.view = v
}

// Viewport returns the current client-to-canvas mapping.
func (c *Capture) Viewport() Viewport {
	return c.view
}

// Drawing reports whether a stroke is currently open.
func (c *Capture) Drawing() bool {
	return c.drawing
}

// Down opens a new stroke at the given client position.
func (c *Capture) Down(clientX, clientY float64) {
	if c.drawing {
		// A lost release: commit what we have before starting over.
		c.Up()
	}
	c.open = []Point{c.view.ToCanvas(clientX, clientY)}
	c.started = c.now()
	c.drawing = true
	c.notifyDrawing()
}

// Move extends the open stroke. It is ignored while not drawing.
func (c *Capture) Move(clientX, clientY float64) {
	if !c.drawing {
		return
	}
	c.open = append(c.open, c.view.ToCanvas(clientX, clientY))
}

// Up closes the open stroke and commits it to the history.
func (c *Capture) Up() {
	if !c.drawing {
		return
	}
	if len(c.open) > 0 {
		c.history.Append(Stroke{Points: c.open, Started: c.started})
		c.notifyStrokes()
	}
	c.open = nil
	c.drawing = false
	c.notifyDrawing()
}

// Leave handles the pointer leaving the canvas; it behaves like Up.
func (c *Capture) Leave() {
	c.Up()
}

// Undo removes the last committed stroke. On an empty history nothing is
// emitted.
func (c *Capture) Undo() {
	if c.history.Undo() {
		c.notifyStrokes()
	}
}

// Clear empties the history, discards any open stroke and emits the empty
// history.
func (c *Capture) Clear() {
	c.history.Clear()
	c.open = nil
	c.notifyStrokes()
}

// Reset returns the capture to its initial state without notifying. Used
// when the practice target changes.
func (c *Capture) Reset() {
	c.history.Clear()
	c.open = nil
	c.drawing = false
}

// Strokes returns the committed strokes.
func (c *Capture) Strokes() []Stroke {
	return c.history.Strokes()
}

// Snapshot returns the committed strokes plus the open stroke, if any.
func (c *Capture) Snapshot() []Stroke {
	out := c.history.Strokes()
	if c.drawing && len(c.open) > 0 {
		out = append(out, Stroke{Points: append([]Point(nil), c.open...), Started: c.started})
	}
	return out
}

func (c *Capture) notifyStrokes() {
	if c.observer != nil {
		c.observer.StrokesChanged(c.history.Strokes())
	}
}

func (c *Capture) notifyDrawing() {
	if c.observer != nil {
		c.observer.DrawingChanged(c.drawing)
	}
}
