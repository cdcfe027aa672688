package mandel

// Raster and iteration parameters of the core pipeline. These are
// compile-time constants: the presentation layer adapts to them, not the
// other way around.
const (
	// Width and Height are the raster dimensions in pixels.
	Width  = 800
	Height = 600

	// MaxIter is the escape-time iteration cap. A point that survives
	// MaxIter iterations is presumed interior to the set.
	MaxIter = 800
)

// Complex-plane framing.
const (
	// AspectX and AspectY fix the default framing: at zoom 1 the raster
	// spans 3.5 units of the real axis and 2.0 units of the imaginary axis.
	AspectX = 3.5
	AspectY = 2.0

	// escapeRadiusSq is the squared modulus beyond which iteration stops.
	escapeRadiusSq = 4.0
)

// Input step sizes.
const (
	// PanStep is the pan distance per key event at zoom 1. The effective
	// step is PanStep/zoom, keeping apparent screen-space speed constant.
	PanStep = 0.1

	// ZoomFactor is the multiplicative zoom step per key event.
	ZoomFactor = 1.05
)

// Default viewport: a region near the boundary of the main cardioid that
// shows detail immediately instead of the full-set overview.
const (
	DefaultOffsetX = -0.70592258656
	DefaultOffsetY = -0.26765202596
	DefaultZoom    = 0.5
)

// Viewport is a value snapshot of the pan/zoom parameters that define
// which region of the complex plane maps to the raster.
//
// Invariant: Zoom > 0. The only mutations are multiplicative zoom steps
// and pan offsets, so a viewport derived from DefaultViewport by Apply
// transitions always satisfies it.
type Viewport struct {
	OffsetX float32
	OffsetY float32
	Zoom    float32
}

// DefaultViewport returns the startup viewport.
func DefaultViewport() Viewport {
	return Viewport{
		OffsetX: DefaultOffsetX,
		OffsetY: DefaultOffsetY,
		Zoom:    DefaultZoom,
	}
}

// ViewportState holds the mutable pan/zoom parameters plus the
// needs-redraw flag driven by input events.
//
// Thread safety: ViewportState is NOT safe for concurrent use. It is
// mutated only by the interaction loop goroutine; the coordinator receives
// value snapshots via Viewport().
type ViewportState struct {
	vp          Viewport
	needsRedraw bool
}

// NewViewportState creates viewport state positioned at the default view.
// The needs-redraw flag starts clear; the explorer issues the initial
// generation explicitly.
func NewViewportState() *ViewportState {
	return &ViewportState{vp: DefaultViewport()}
}

// Viewport returns a value snapshot of the current parameters.
func (s *ViewportState) Viewport() Viewport { return s.vp }

// NeedsRedraw reports whether a transition occurred since the last
// ClearRedraw.
func (s *ViewportState) NeedsRedraw() bool { return s.needsRedraw }

// ClearRedraw clears the needs-redraw flag. The interaction loop calls it
// after issuing a generation request, whether or not the request was
// accepted.
func (s *ViewportState) ClearRedraw() { s.needsRedraw = false }

// PanUp moves the view up by PanStep/zoom.
func (s *ViewportState) PanUp() {
	s.vp.OffsetY -= PanStep / s.vp.Zoom
	s.needsRedraw = true
}

// PanDown moves the view down by PanStep/zoom.
func (s *ViewportState) PanDown() {
	s.vp.OffsetY += PanStep / s.vp.Zoom
	s.needsRedraw = true
}

// PanLeft moves the view left by PanStep/zoom.
func (s *ViewportState) PanLeft() {
	s.vp.OffsetX -= PanStep / s.vp.Zoom
	s.needsRedraw = true
}

// PanRight moves the view right by PanStep/zoom.
func (s *ViewportState) PanRight() {
	s.vp.OffsetX += PanStep / s.vp.Zoom
	s.needsRedraw = true
}

// ZoomIn multiplies the zoom by ZoomFactor.
func (s *ViewportState) ZoomIn() {
	s.vp.Zoom *= ZoomFactor
	s.needsRedraw = true
}

// ZoomOut divides the zoom by ZoomFactor.
func (s *ViewportState) ZoomOut() {
	s.vp.Zoom /= ZoomFactor
	s.needsRedraw = true
}

// Apply performs the transition for a single input event. Quit and unknown
// events are no-ops; the interaction loop handles termination itself.
func (s *ViewportState) Apply(ev Event) {
	switch ev {
	case EventPanUp:
		s.PanUp()
	case EventPanDown:
		s.PanDown()
	case EventPanLeft:
		s.PanLeft()
	case EventPanRight:
		s.PanRight()
	case EventZoomIn:
		s.ZoomIn()
	case EventZoomOut:
		s.ZoomOut()
	}
}
