package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
		{200, 60, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader_Height(t *testing.T) {
	h := RenderHeader("Practice", "gemini-2.0-flash", 100)
	if got := lipgloss.Height(h); got != HeaderHeight {
		t.Fatalf("header height = %d, want %d", got, HeaderHeight)
	}
	if !strings.Contains(h, "Practice") || !strings.Contains(h, "gemini-2.0-flash") {
		t.Errorf("header missing title or status:\n%s", h)
	}
}

func TestRenderFrame_ContentStartsBelowHeader(t *testing.T) {
	header := RenderHeader("T", "", 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "Quit"}}, 80)
	frame := RenderFrame(header, "CONTENT", footer, 80, 30)

	lines := strings.Split(frame, "\n")
	if !strings.Contains(lines[HeaderHeight], "CONTENT") {
		t.Fatalf("line %d = %q, want content", HeaderHeight, lines[HeaderHeight])
	}
}
