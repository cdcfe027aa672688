//go:build !nogpu

// Package gpu registers the wgpu compute generator for GPU-accelerated
// frame generation.
//
// Import this package to evaluate the iteration kernel on the GPU, one
// work-item per pixel. If GPU initialization fails (no Vulkan available,
// no adapters, kernel compile failure), the registration is silently
// skipped and generation falls back to the CPU worker pool.
//
// Usage:
//
//	import _ "github.com/gogpu/mandel/gpu" // enable GPU generation
package gpu

import (
	"github.com/gogpu/mandel"
	gpuimpl "github.com/gogpu/mandel/internal/gpu"
)

func init() {
	if err := mandel.RegisterGenerator(gpuimpl.New()); err != nil {
		mandel.Logger().Warn("GPU generator not available, using CPU fallback", "err", err)
	}
}

// SetDeviceProvider configures the GPU generator to use a shared GPU
// device from an external provider (e.g. a gogpu window). This avoids
// creating a separate GPU instance and enables device sharing with the
// presentation layer.
//
// The provider should be a mandel.DeviceHandle (gpucontext.DeviceProvider)
// that also exposes HAL access via HalDevice/HalQueue.
func SetDeviceProvider(provider any) error {
	return mandel.SetGeneratorDeviceProvider(provider)
}
