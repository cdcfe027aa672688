package mandel

import (
	"errors"
	"sync"
)

// Generator produces one full-frame iteration raster for a viewport
// snapshot.
//
// Implementations evaluate the escape-time kernel once per pixel of a
// width×height raster and write the counts into out in row-major order.
// Generate must be deterministic for a given viewport: the same inputs
// produce the same counts (float32 semantics held constant).
//
// Generators are invoked from the coordinator's generation goroutine, at
// most one call at a time.
type Generator interface {
	// Name returns the generator name (e.g. "software", "wgpu").
	Name() string

	// Init initializes generator resources. Called once during
	// registration.
	Init() error

	// Generate evaluates the kernel over every pixel of the raster.
	// len(out) must be width*height.
	Generate(vp Viewport, out IterationBuffer, width, height int) error

	// Close releases generator resources.
	Close()
}

// DeviceProviderAware is an optional interface for generators that can
// share GPU resources with a host application (e.g. a gogpu window).
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	genMu sync.RWMutex
	gen   Generator

	fallbackOnce sync.Once
	fallback     *SoftwareGenerator
)

// RegisterGenerator registers a generator for frame production.
//
// Only one generator can be registered; subsequent calls replace the
// previous one. The generator's Init method is called during registration.
// If Init fails, the generator is not registered and the error is
// returned, leaving the previous generator (or the CPU fallback) active.
//
// Typical usage via blank import of a backend package:
//
//	import _ "github.com/gogpu/mandel/gpu" // registers the wgpu generator
func RegisterGenerator(g Generator) error {
	if g == nil {
		return errors.New("mandel: generator must not be nil")
	}
	if err := g.Init(); err != nil {
		return err
	}
	propagateLogger(g, Logger())

	genMu.Lock()
	old := gen
	gen = g
	genMu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// ActiveGenerator returns the generator frames are produced with. When no
// generator has been registered it returns the shared CPU
// SoftwareGenerator, so the result is never nil.
func ActiveGenerator() Generator {
	genMu.RLock()
	g := gen
	genMu.RUnlock()
	if g != nil {
		return g
	}
	fallbackOnce.Do(func() {
		fallback = NewSoftwareGenerator()
	})
	return fallback
}

// SetGeneratorDeviceProvider passes a device provider to the registered
// generator, enabling GPU device sharing with a host application. If no
// generator is registered or it does not support device sharing, this is
// a no-op.
func SetGeneratorDeviceProvider(provider any) error {
	genMu.RLock()
	g := gen
	genMu.RUnlock()
	if g == nil {
		return nil
	}
	if dpa, ok := g.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
