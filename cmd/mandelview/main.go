// Command mandelview exercises the explorer pipeline without a windowing
// backend: a scripted presenter feeds pan/zoom events, and per-frame
// statistics are logged to stderr.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/mandel"
	_ "github.com/gogpu/mandel/gpu" // enable GPU generation when available
	"github.com/gogpu/mandel/hud"
)

func main() {
	var (
		cycles  = flag.Int("cycles", 60, "number of scripted input cycles")
		pace    = flag.Duration("pace", 30*time.Millisecond, "delay per cycle (lets generations land)")
		noHUD   = flag.Bool("nohud", false, "disable the viewport overlay")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	mandel.SetLogger(logger)

	pres := &scriptedPresenter{cycles: *cycles, pace: *pace}

	opts := []mandel.Option{mandel.WithPresenter(pres)}
	if !*noHUD {
		opts = append(opts, mandel.WithOverlay(hud.New()))
	}

	ex, err := mandel.New(opts...)
	if err != nil {
		logger.Error("explorer setup failed", "err", err)
		os.Exit(1)
	}

	start := time.Now()
	if err := ex.Run(); err != nil {
		logger.Error("explorer failed", "err", err)
		os.Exit(1)
	}

	logger.Info("run complete",
		"generator", mandel.ActiveGenerator().Name(),
		"cycles", *cycles,
		"presented", pres.presented,
		"fresh", pres.fresh,
		"blank", ex.Coordinator().Frame().Uniform(),
		"elapsed", time.Since(start))
}

// scriptedPresenter drives the loop with a canned input sequence: pan
// right across the seahorse valley, then zoom in for the remaining
// cycles. It counts presented frames and how many were fresh (differed
// from the previous one).
type scriptedPresenter struct {
	cycles int
	pace   time.Duration

	n         int
	presented int
	fresh     int
	lastFirst [3]uint8
	lastSet   bool
}

func (p *scriptedPresenter) Poll() []mandel.Event {
	p.n++
	if p.n > p.cycles {
		return []mandel.Event{mandel.EventQuit}
	}
	// Pacing keeps the unthrottled loop from spinning thousands of
	// cycles between completed generations in this headless harness.
	time.Sleep(p.pace)
	if p.n%4 == 0 {
		return []mandel.Event{mandel.EventPanRight}
	}
	return []mandel.Event{mandel.EventZoomIn}
}

func (p *scriptedPresenter) Present(fb *mandel.FrameBuffer) error {
	p.presented++
	data := fb.Data()
	var first [3]uint8
	copy(first[:], data[:3])
	if !p.lastSet || first != p.lastFirst {
		p.fresh++
		p.lastFirst = first
		p.lastSet = true
	}
	return nil
}
