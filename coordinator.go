package mandel

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator dispatches full-frame generations and publishes the results.
//
// At most one generation runs at a time. A request arriving while one is
// in flight is not queued; it is coalesced into a single pending slot that
// always holds the latest viewport (latest-wins, depth 1). When the
// in-flight generation finishes, the pending request, if any, is
// dispatched immediately.
//
// Every request is tagged with a monotonically increasing epoch. A
// completed generation commits its frame only if its epoch is still the
// latest requested; results superseded by a newer request are discarded
// instead of briefly reverting the display to a stale view.
//
// Finished frames are published with an atomic pointer swap, so the
// presentation path never observes a half-written buffer. Each generation
// writes into a fresh buffer; published frames are immutable.
type Coordinator struct {
	gen     Generator
	palette *Palette
	width   int
	height  int

	mu       sync.Mutex
	inFlight bool
	pending  *Viewport
	epoch    uint64

	front atomic.Pointer[FrameBuffer]

	// onError handles a failed generation. The default treats it as an
	// unhandled fault and panics, terminating the process; tests inject
	// a recorder.
	onError func(error)
}

// NewCoordinator creates a coordinator producing width×height frames with
// the given generator and palette. A nil generator selects the active
// registered generator (or the CPU fallback); a nil palette builds the
// default one. Frame never returns nil: the coordinator starts with a
// blank frame published.
func NewCoordinator(g Generator, p *Palette, width, height int) *Coordinator {
	if g == nil {
		g = ActiveGenerator()
	}
	if p == nil {
		p = BuildPalette()
	}
	if width <= 0 {
		width = Width
	}
	if height <= 0 {
		height = Height
	}
	c := &Coordinator{
		gen:     g,
		palette: p,
		width:   width,
		height:  height,
	}
	c.front.Store(NewFrameBuffer(width, height))
	c.onError = func(err error) {
		Logger().Error("generation failed", "generator", c.gen.Name(), "err", err)
		panic(err)
	}
	return c
}

// Request asks for a regeneration against the given viewport snapshot.
//
// It returns true if a generation was dispatched immediately and false if
// one was already in flight, in which case the viewport is parked in the
// pending slot (replacing any older pending viewport) and dispatched when
// the current generation completes. Request never blocks.
func (c *Coordinator) Request(vp Viewport) bool {
	c.mu.Lock()
	c.epoch++
	if c.inFlight {
		v := vp
		c.pending = &v
		c.mu.Unlock()
		return false
	}
	c.inFlight = true
	epoch := c.epoch
	c.mu.Unlock()

	go c.generate(vp, epoch)
	return true
}

// Frame returns the most recently published frame. The returned buffer is
// immutable and safe to read without synchronization.
func (c *Coordinator) Frame() *FrameBuffer {
	return c.front.Load()
}

// InFlight reports whether a generation is currently running.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Epoch returns the epoch of the latest request.
func (c *Coordinator) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// generate runs one full-frame generation. It executes on its own
// goroutine; the coordinator retains no handle to it beyond the in-flight
// flag.
func (c *Coordinator) generate(vp Viewport, epoch uint64) {
	start := time.Now()

	iters := NewIterationBuffer(c.width, c.height)
	if err := c.gen.Generate(vp, iters, c.width, c.height); err != nil {
		c.mu.Lock()
		c.inFlight = false
		c.pending = nil
		c.mu.Unlock()
		c.onError(fmt.Errorf("mandel: generate epoch %d: %w", epoch, err))
		return
	}

	fb := NewFrameBuffer(c.width, c.height)
	colorize(c.palette, iters, fb)

	c.mu.Lock()
	latest := c.epoch
	if epoch == latest {
		c.front.Store(fb)
	}
	next := c.pending
	c.pending = nil
	if next == nil {
		c.inFlight = false
	}
	nextEpoch := c.epoch
	c.mu.Unlock()

	if epoch == latest {
		Logger().Debug("generation complete",
			"generator", c.gen.Name(), "epoch", epoch, "elapsed", time.Since(start))
	} else {
		Logger().Debug("stale generation discarded",
			"generator", c.gen.Name(), "epoch", epoch, "latest", latest)
	}

	if next != nil {
		go c.generate(*next, nextEpoch)
	}
}

// colorize maps an iteration raster through the palette into a frame
// buffer. len(iters) must equal fb.Width()*fb.Height().
func colorize(p *Palette, iters IterationBuffer, fb *FrameBuffer) {
	data := fb.Data()
	for i, iter := range iters {
		c := p.Lookup(iter)
		j := i * 3
		data[j+0] = c.R
		data[j+1] = c.G
		data[j+2] = c.B
	}
}
