package mandel

import "github.com/gogpu/gpucontext"

// DeviceHandle provides GPU device access from a host application.
//
// This is the integration point between mandel and GPU frameworks like
// gogpu. The host application implements DeviceHandle and passes it to
// SetGeneratorDeviceProvider, allowing the GPU generator to reuse the
// shared device instead of creating its own.
//
// Key principle: mandel RECEIVES the device from the host, it does not
// create a second one. DeviceHandle is an alias for
// gpucontext.DeviceProvider, giving the interface a mandel-specific name
// while staying fully compatible with the gpucontext ecosystem. Providers
// that also implement gpucontext's HAL accessors (HalDevice/HalQueue)
// enable direct compute dispatch on the shared device.
type DeviceHandle = gpucontext.DeviceProvider
