package mandel

import (
	"math"
	"testing"
)

func TestViewportState_Defaults(t *testing.T) {
	s := NewViewportState()
	if got, want := s.Viewport(), DefaultViewport(); got != want {
		t.Errorf("Viewport() = %+v, want %+v", got, want)
	}
	if s.NeedsRedraw() {
		t.Error("fresh state should not need a redraw")
	}
}

func TestViewportState_TransitionsSetRedraw(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*ViewportState)
	}{
		{"pan-up", (*ViewportState).PanUp},
		{"pan-down", (*ViewportState).PanDown},
		{"pan-left", (*ViewportState).PanLeft},
		{"pan-right", (*ViewportState).PanRight},
		{"zoom-in", (*ViewportState).ZoomIn},
		{"zoom-out", (*ViewportState).ZoomOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewViewportState()
			tt.apply(s)
			if !s.NeedsRedraw() {
				t.Error("transition did not set needs-redraw")
			}
			s.ClearRedraw()
			if s.NeedsRedraw() {
				t.Error("ClearRedraw did not clear the flag")
			}
		})
	}
}

func TestViewportState_PanInverse(t *testing.T) {
	// Pan-right then pan-left with no zoom change in between must
	// restore the offset exactly: both steps are the same float32 value.
	s := NewViewportState()
	before := s.Viewport()

	s.PanRight()
	s.PanLeft()
	if got := s.Viewport().OffsetX; got != before.OffsetX {
		t.Errorf("pan right+left: OffsetX = %v, want %v", got, before.OffsetX)
	}

	s.PanDown()
	s.PanUp()
	if got := s.Viewport().OffsetY; got != before.OffsetY {
		t.Errorf("pan down+up: OffsetY = %v, want %v", got, before.OffsetY)
	}
}

func TestViewportState_ZoomInverse(t *testing.T) {
	s := NewViewportState()
	before := s.Viewport().Zoom

	s.ZoomIn()
	s.ZoomOut()
	got := s.Viewport().Zoom
	if diff := math.Abs(float64(got - before)); diff > 1e-6 {
		t.Errorf("zoom in+out: Zoom = %v, want %v (diff %v)", got, before, diff)
	}
}

func TestViewportState_PanScalesWithZoom(t *testing.T) {
	// The pan step is PanStep/zoom: at higher zoom the same key event
	// must move the offset by a smaller amount.
	coarse := NewViewportState()
	coarse.PanRight()
	coarseDelta := coarse.Viewport().OffsetX - DefaultOffsetX

	fine := NewViewportState()
	for range 20 {
		fine.ZoomIn()
	}
	zoomed := fine.Viewport().OffsetX
	fine.PanRight()
	fineDelta := fine.Viewport().OffsetX - zoomed

	if fineDelta >= coarseDelta {
		t.Errorf("pan step did not shrink with zoom: coarse %v, fine %v", coarseDelta, fineDelta)
	}
}

func TestViewportState_ZoomStaysPositive(t *testing.T) {
	s := NewViewportState()
	for range 500 {
		s.ZoomOut()
	}
	if z := s.Viewport().Zoom; z <= 0 {
		t.Errorf("Zoom = %v after repeated zoom-out, want > 0", z)
	}
}

func TestViewportState_Apply(t *testing.T) {
	tests := []struct {
		ev     Event
		redraw bool
	}{
		{EventPanUp, true},
		{EventPanDown, true},
		{EventPanLeft, true},
		{EventPanRight, true},
		{EventZoomIn, true},
		{EventZoomOut, true},
		{EventNone, false},
		{EventQuit, false},
	}

	for _, tt := range tests {
		t.Run(tt.ev.String(), func(t *testing.T) {
			s := NewViewportState()
			s.Apply(tt.ev)
			if s.NeedsRedraw() != tt.redraw {
				t.Errorf("Apply(%v): NeedsRedraw = %v, want %v", tt.ev, s.NeedsRedraw(), tt.redraw)
			}
		})
	}
}

func TestEvent_String(t *testing.T) {
	if got := EventPanUp.String(); got != "pan-up" {
		t.Errorf("String() = %q, want %q", got, "pan-up")
	}
	if got := Event(99).String(); got != "Unknown(99)" {
		t.Errorf("String() = %q, want %q", got, "Unknown(99)")
	}
}
