package stroke

import (
	"testing"
)

type recorder struct {
	strokes [][]Stroke
	drawing []bool
}

func (r *recorder) StrokesChanged(s []Stroke) { r.strokes = append(r.strokes, s) }
func (r *recorder) DrawingChanged(d bool)     { r.drawing = append(r.drawing, d) }

func TestCapture_SingleStroke(t *testing.T) {
	rec := &recorder{}
	c := NewCapture(Identity(400, 400), rec)

	c.Down(10, 10)
	c.Move(20, 20)
	c.Move(30, 25)
	c.Up()

	if len(rec.strokes) != 1 {
		t.Fatalf("expected 1 StrokesChanged, got %d", len(rec.strokes))
	}
	got := rec.strokes[0]
	if len(got) != 1 || got[0].Len() != 3 {
		t.Fatalf("expected one 3-point stroke, got %+v", got)
	}
	if len(rec.drawing) != 2 || !rec.drawing[0] || rec.drawing[1] {
		t.Errorf("drawing notifications = %v, want [true false]", rec.drawing)
	}
}

func TestCapture_MoveWhileNotDrawingIgnored(t *testing.T) {
	c := NewCapture(Identity(400, 400), nil)
	c.Move(5, 5)
	c.Up()
	if n := len(c.Strokes()); n != 0 {
		t.Errorf("expected no strokes, got %d", n)
	}
}

func TestCapture_UndoEmptyIsNoop(t *testing.T) {
	rec := &recorder{}
	c := NewCapture(Identity(400, 400), rec)
	c.Undo()
	if len(rec.strokes) != 0 {
		t.Errorf("undo on empty history emitted %d events", len(rec.strokes))
	}
}

func TestCapture_UndoRemovesLast(t *testing.T) {
	rec := &recorder{}
	c := NewCapture(Identity(400, 400), rec)
	c.Down(0, 0)
	c.Up()
	c.Down(50, 50)
	c.Move(60, 60)
	c.Up()
	c.Undo()

	last := rec.strokes[len(rec.strokes)-1]
	if len(last) != 1 || last[0].Len() != 1 {
		t.Fatalf("after undo expected the single-point stroke, got %+v", last)
	}
}

func TestCapture_ClearEmitsEmpty(t *testing.T) {
	rec := &recorder{}
	c := NewCapture(Identity(400, 400), rec)
	c.Down(1, 1)
	c.Up()
	c.Clear()

	last := rec.strokes[len(rec.strokes)-1]
	if len(last) != 0 {
		t.Errorf("clear should emit empty history, got %d strokes", len(last))
	}
}

func TestCapture_DownWhileDrawingCommitsOpenStroke(t *testing.T) {
	c := NewCapture(Identity(400, 400), nil)
	c.Down(1, 1)
	c.Move(2, 2)
	c.Down(100, 100)
	c.Up()

	strokes := c.Strokes()
	if len(strokes) != 2 {
		t.Fatalf("expected 2 strokes, got %d", len(strokes))
	}
	if strokes[0].Len() != 2 || strokes[1].Len() != 1 {
		t.Errorf("unexpected stroke lengths %d, %d", strokes[0].Len(), strokes[1].Len())
	}
}

func TestCapture_LeaveCommits(t *testing.T) {
	c := NewCapture(Identity(400, 400), nil)
	c.Down(1, 1)
	c.Leave()
	if c.Drawing() {
		t.Error("leave should end drawing")
	}
	if len(c.Strokes()) != 1 {
		t.Error("leave should commit the open stroke")
	}
}

func TestCapture_ResetDropsEverything(t *testing.T) {
	rec := &recorder{}
	c := NewCapture(Identity(400, 400), rec)
	c.Down(1, 1)
	c.Up()
	c.Down(2, 2)
	before := len(rec.strokes)
	c.Reset()

	if c.Drawing() || len(c.Strokes()) != 0 {
		t.Error("reset should leave an empty, idle capture")
	}
	if len(rec.strokes) != before {
		t.Error("reset should not notify")
	}
}

func TestCapture_SnapshotIncludesOpenStroke(t *testing.T) {
	c := NewCapture(Identity(400, 400), nil)
	c.Down(1, 1)
	c.Up()
	c.Down(5, 5)
	c.Move(6, 6)
	if n := len(c.Snapshot()); n != 2 {
		t.Errorf("snapshot len = %d, want 2", n)
	}
	if n := len(c.Strokes()); n != 1 {
		t.Errorf("committed len = %d, want 1", n)
	}
}

func TestCapture_EmittedSliceIsACopy(t *testing.T) {
	rec := &recorder{}
	c := NewCapture(Identity(400, 400), rec)
	c.Down(1, 1)
	c.Up()
	rec.strokes[0][0].Points[0].X = 999

	if c.Strokes()[0].Points[0].X != 1 {
		t.Error("observer mutation leaked into history")
	}
}

func TestViewport_ToCanvas(t *testing.T) {
	v := Viewport{
		Left: 10, Top: 20,
		ClientWidth: 200, ClientHeight: 100,
		CanvasWidth: 400, CanvasHeight: 400,
	}
	tests := []struct {
		x, y   float64
		wantX  float64
		wantY  float64
	}{
		{10, 20, 0, 0},
		{110, 70, 200, 200},
		{210, 120, 400, 400},
	}
	for _, tt := range tests {
		p := v.ToCanvas(tt.x, tt.y)
		if p.X != tt.wantX || p.Y != tt.wantY {
			t.Errorf("ToCanvas(%v,%v) = %+v, want (%v,%v)", tt.x, tt.y, p, tt.wantX, tt.wantY)
		}
	}
	if !v.Contains(10, 20) || v.Contains(210, 20) {
		t.Error("Contains boundary mismatch")
	}
}
