package mandel

import (
	"errors"
	"fmt"
)

// Event is a discrete input event delivered by the presentation
// collaborator. The six control events mirror the explorer's key bindings:
// w/s/a/d pan, e zooms in, q zooms out.
type Event int

const (
	// EventNone is the zero event and has no effect.
	EventNone Event = iota

	// EventQuit terminates the interaction loop.
	EventQuit

	// EventPanUp pans the view up (key w).
	EventPanUp

	// EventPanDown pans the view down (key s).
	EventPanDown

	// EventPanLeft pans the view left (key a).
	EventPanLeft

	// EventPanRight pans the view right (key d).
	EventPanRight

	// EventZoomIn zooms in (key e).
	EventZoomIn

	// EventZoomOut zooms out (key q).
	EventZoomOut
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventQuit:
		return "quit"
	case EventPanUp:
		return "pan-up"
	case EventPanDown:
		return "pan-down"
	case EventPanLeft:
		return "pan-left"
	case EventPanRight:
		return "pan-right"
	case EventZoomIn:
		return "zoom-in"
	case EventZoomOut:
		return "zoom-out"
	default:
		return fmt.Sprintf("Unknown(%d)", int(e))
	}
}

// Presenter is the presentation collaborator: it delivers input events and
// displays completed frames. The explorer calls Poll and Present once per
// loop cycle from the loop goroutine.
type Presenter interface {
	// Poll returns the input events that arrived since the last call,
	// in order. It must not block waiting for input.
	Poll() []Event

	// Present displays the frame. The presenter must not write to the
	// buffer and must not retain it past the next Present call.
	Present(fb *FrameBuffer) error
}

// Overlay draws on top of a completed frame before presentation, e.g. a
// HUD with the current viewport coordinates. Overlays receive a private
// copy of the frame and may write to it freely.
type Overlay interface {
	Draw(fb *FrameBuffer, vp Viewport)
}

// Explorer ties the viewport state, the generation coordinator, and the
// presenter together into the interaction loop.
type Explorer struct {
	state   *ViewportState
	coord   *Coordinator
	pres    Presenter
	overlay Overlay

	// scratch receives the frame copy overlays draw on. Reused across
	// cycles; only allocated when an overlay is configured.
	scratch *FrameBuffer
}

// New creates an explorer. A presenter is required; everything else
// defaults: the active generator, the standard palette, the Width×Height
// raster, no overlay.
func New(opts ...Option) (*Explorer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.presenter == nil {
		return nil, errors.New("mandel: a presenter is required")
	}

	coord := NewCoordinator(cfg.generator, cfg.palette, cfg.width, cfg.height)
	e := &Explorer{
		state:   NewViewportState(),
		coord:   coord,
		pres:    cfg.presenter,
		overlay: cfg.overlay,
	}
	if e.overlay != nil {
		e.scratch = NewFrameBuffer(coord.width, coord.height)
	}
	return e, nil
}

// Coordinator returns the explorer's generation coordinator.
func (e *Explorer) Coordinator() *Coordinator { return e.coord }

// State returns the explorer's viewport state. It must only be touched
// from the goroutine running the loop.
func (e *Explorer) State() *ViewportState { return e.state }

// Run executes the interaction loop until the presenter delivers
// EventQuit or Present returns an error.
//
// Each cycle drains all pending input events and applies their
// transitions, issues a regeneration request if any transition occurred
// (clearing the needs-redraw flag whether or not the request was
// dispatched), and unconditionally presents the current frame. The loop
// never blocks waiting for a generation to complete; an in-flight
// generation simply means this cycle presents the previous frame.
func (e *Explorer) Run() error {
	// Kick off the initial frame before the first cycle.
	e.coord.Request(e.state.Viewport())
	Logger().Debug("initial frame blank", "blank", e.coord.Frame().Uniform())

	for {
		for _, ev := range e.pres.Poll() {
			if ev == EventQuit {
				return nil
			}
			e.state.Apply(ev)
		}

		if e.state.NeedsRedraw() {
			e.coord.Request(e.state.Viewport())
			e.state.ClearRedraw()
		}

		if err := e.present(); err != nil {
			return err
		}
	}
}

// present hands the current front frame to the presenter, routing it
// through the overlay scratch copy when an overlay is configured.
func (e *Explorer) present() error {
	fb := e.coord.Frame()
	if e.overlay != nil {
		copy(e.scratch.Data(), fb.Data())
		e.overlay.Draw(e.scratch, e.state.Viewport())
		fb = e.scratch
	}
	if err := e.pres.Present(fb); err != nil {
		return fmt.Errorf("mandel: present: %w", err)
	}
	return nil
}
