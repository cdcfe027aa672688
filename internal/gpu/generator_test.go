//go:build !nogpu

package gpu

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandel"
)

// The completion wait consumes hal.Queue and hal.Device through narrow
// interfaces; these pin the published method shapes at compile time.
var (
	_ completionPoller = (hal.Queue)(nil)
	_ idleWaiter       = (hal.Device)(nil)
)

func TestGenerator_Name(t *testing.T) {
	if got := New().Name(); got != "wgpu" {
		t.Errorf("Name() = %q, want %q", got, "wgpu")
	}
}

func TestGenerator_GenerateBeforeInit(t *testing.T) {
	g := New()
	out := mandel.NewIterationBuffer(4, 4)
	if err := g.Generate(mandel.DefaultViewport(), out, 4, 4); err == nil {
		t.Error("Generate before Init should fail")
	}
}

func TestGenerator_SetDeviceProvider_Invalid(t *testing.T) {
	g := New()
	if err := g.SetDeviceProvider(struct{}{}); err == nil {
		t.Error("provider without HAL accessors should be rejected")
	}
}

func TestGenerator_MatchesCPUKernel(t *testing.T) {
	g := New()
	if err := g.Init(); err != nil {
		t.Skipf("Skipping: no usable GPU: %v", err)
	}
	defer g.Close()

	const w, h = 64, 48
	vp := mandel.DefaultViewport()
	out := mandel.NewIterationBuffer(w, h)
	if err := g.Generate(vp, out, w, h); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// GPU float32 arithmetic matters here: both paths run the same
	// single-precision recurrence, so pixels that escape early must agree
	// exactly and the rest stay within the iteration cap.
	mismatches := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := out[y*w+x]
			if got > mandel.MaxIter {
				t.Fatalf("pixel (%d,%d) = %d exceeds the iteration cap", x, y, got)
			}
			if got != mandel.Iterate(x, y, w, h, vp) {
				mismatches++
			}
		}
	}
	// Fused-multiply-add differences on some drivers can shift boundary
	// pixels by an iteration or two; wholesale disagreement means the
	// kernel is wrong.
	if mismatches > w*h/100 {
		t.Errorf("%d of %d pixels disagree with the CPU kernel", mismatches, w*h)
	}
}

// stubPoller reports a fixed completed submission index after a given
// number of polls.
type stubPoller struct {
	completed uint64
	ready     int // polls before completed is visible
	polls     int
}

func (p *stubPoller) PollCompleted() uint64 {
	p.polls++
	if p.polls <= p.ready {
		return 0
	}
	return p.completed
}

type stubIdler struct {
	err   error
	waits int
}

func (d *stubIdler) WaitIdle() error {
	d.waits++
	return d.err
}

func TestAwaitSubmission_CompletesAfterIdle(t *testing.T) {
	queue := &stubPoller{completed: 7}
	device := &stubIdler{}
	if err := awaitSubmission(queue, device, 7, time.Second); err != nil {
		t.Fatalf("awaitSubmission: %v", err)
	}
	if device.waits == 0 {
		t.Error("completion was reported without waiting for the device")
	}
}

func TestAwaitSubmission_PollsUntilRetired(t *testing.T) {
	// The index becomes visible only on the third poll; the wait must keep
	// polling instead of trusting a single WaitIdle round.
	queue := &stubPoller{completed: 3, ready: 2}
	device := &stubIdler{}
	if err := awaitSubmission(queue, device, 3, time.Second); err != nil {
		t.Fatalf("awaitSubmission: %v", err)
	}
	if queue.polls < 3 {
		t.Errorf("polled %d times, want at least 3", queue.polls)
	}
}

func TestAwaitSubmission_Timeout(t *testing.T) {
	// A submission the queue never retires must error out, not hang.
	queue := &stubPoller{completed: 0}
	device := &stubIdler{}
	if err := awaitSubmission(queue, device, 1, 10*time.Millisecond); err == nil {
		t.Error("wait on a never-retired submission should fail")
	}
}

func TestAwaitSubmission_WaitIdleError(t *testing.T) {
	wantErr := errors.New("device lost")
	queue := &stubPoller{completed: 1}
	device := &stubIdler{err: wantErr}
	if err := awaitSubmission(queue, device, 1, time.Second); !errors.Is(err, wantErr) {
		t.Errorf("awaitSubmission = %v, want wrapped %v", err, wantErr)
	}
}

func TestGenerator_SizeMismatch(t *testing.T) {
	g := New()
	if err := g.Init(); err != nil {
		t.Skipf("Skipping: no usable GPU: %v", err)
	}
	defer g.Close()

	out := mandel.NewIterationBuffer(4, 4)
	if err := g.Generate(mandel.DefaultViewport(), out, 8, 8); err == nil {
		t.Error("Generate with mismatched buffer size should fail")
	}
}
