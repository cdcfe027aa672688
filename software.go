package mandel

import (
	"fmt"

	"github.com/gogpu/mandel/internal/parallel"
)

// softwareBandRows is the number of raster rows per work item handed to
// the worker pool. Bands keep scheduling overhead low while still letting
// the pool balance the uneven cost of interior-heavy rows.
const softwareBandRows = 16

// SoftwareGenerator evaluates the iteration kernel on the CPU, fanning the
// raster out over a worker pool in horizontal bands. It is the default
// generator when no GPU backend is registered.
type SoftwareGenerator struct {
	pool *parallel.WorkerPool
}

var _ Generator = (*SoftwareGenerator)(nil)

// NewSoftwareGenerator creates a CPU generator with one worker per
// available CPU.
func NewSoftwareGenerator() *SoftwareGenerator {
	return &SoftwareGenerator{pool: parallel.NewWorkerPool(0)}
}

// Name returns "software".
func (g *SoftwareGenerator) Name() string { return "software" }

// Init is a no-op; the worker pool starts on construction.
func (g *SoftwareGenerator) Init() error { return nil }

// Generate evaluates the kernel over every pixel, in parallel bands of
// softwareBandRows rows.
func (g *SoftwareGenerator) Generate(vp Viewport, out IterationBuffer, width, height int) error {
	if len(out) != width*height {
		return fmt.Errorf("mandel: iteration buffer is %d entries, want %d", len(out), width*height)
	}

	bands := (height + softwareBandRows - 1) / softwareBandRows
	work := make([]func(), 0, bands)
	for y0 := 0; y0 < height; y0 += softwareBandRows {
		y0 := y0
		y1 := y0 + softwareBandRows
		if y1 > height {
			y1 = height
		}
		work = append(work, func() {
			for y := y0; y < y1; y++ {
				row := out[y*width : (y+1)*width]
				for x := 0; x < width; x++ {
					row[x] = Iterate(x, y, width, height, vp)
				}
			}
		})
	}
	g.pool.ExecuteAll(work)
	return nil
}

// Close shuts down the worker pool.
func (g *SoftwareGenerator) Close() {
	g.pool.Close()
}
