//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/mandel"
)

// kernelTimeout bounds the wait for a dispatched generation. A kernel that
// has not finished within it is treated as a fatal runtime fault.
const kernelTimeout = 5 * time.Second

// pollInterval is the backoff between completion polls while a submission
// is still running.
const pollInterval = time.Millisecond

// paramsSize is the byte size of the Params uniform in mandelbrot.wgsl:
// four u32 followed by four f32, 16-byte aligned.
const paramsSize = 32

// Generator evaluates the iteration kernel on the GPU using wgpu/hal
// compute shaders. It implements the mandel.Generator interface.
//
// Each Generate call dispatches one workgroup grid covering the raster,
// waits for the queue to retire the submission, and maps the staging
// buffer to read the iteration counts back into the host buffer. Buffers
// are created per dispatch and destroyed on completion; the compiled
// pipeline is reused across dispatches.
type Generator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	ready          bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

var _ mandel.Generator = (*Generator)(nil)
var _ mandel.DeviceProviderAware = (*Generator)(nil)

// New creates an uninitialized GPU generator. Init brings up the device.
func New() *Generator {
	return &Generator{}
}

// Name returns "wgpu".
func (g *Generator) Name() string { return "wgpu" }

// SetLogger routes package logging to the given logger. Called when
// mandel.SetLogger propagates.
func (g *Generator) SetLogger(l *slog.Logger) { setLogger(l) }

// Init creates the GPU instance, selects an adapter, opens a device, and
// compiles the kernel pipeline. It returns an error if no usable platform
// or device exists or if the kernel fails to compile; the caller decides
// whether that is fatal or grounds for CPU fallback.
func (g *Generator) Init() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready {
		return nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	g.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		g.instance = nil
		return fmt.Errorf("gpu: no adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		g.instance = nil
		return fmt.Errorf("gpu: open device: %w", err)
	}
	g.device = openDev.Device
	g.queue = openDev.Queue

	if err := g.createPipeline(); err != nil {
		g.device.Destroy()
		g.instance.Destroy()
		g.device = nil
		g.queue = nil
		g.instance = nil
		return fmt.Errorf("gpu: create pipeline: %w", err)
	}

	g.ready = true
	slogger().Info("GPU generator initialized", "adapter", selected.Info.Name)
	return nil
}

// Close releases all GPU resources. Shared devices provided via
// SetDeviceProvider are not destroyed.
func (g *Generator) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.destroyPipeline()
	if !g.externalDevice {
		if g.device != nil {
			g.device.Destroy()
		}
		if g.instance != nil {
			g.instance.Destroy()
		}
	}
	g.device = nil
	g.queue = nil
	g.instance = nil
	g.ready = false
	g.externalDevice = false
}

// SetDeviceProvider switches the generator to a shared GPU device from a
// host application. The provider must expose HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue (see
// mandel.DeviceHandle).
func (g *Generator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Destroy our own resources if we created them.
	g.destroyPipeline()
	if !g.externalDevice && g.device != nil {
		g.device.Destroy()
	}
	if g.instance != nil {
		g.instance.Destroy()
		g.instance = nil
	}

	g.device = device
	g.queue = queue
	g.externalDevice = true

	if err := g.createPipeline(); err != nil {
		g.ready = false
		return fmt.Errorf("gpu: create pipeline with shared device: %w", err)
	}
	g.ready = true
	slogger().Info("GPU generator switched to shared device")
	return nil
}

// Generate dispatches the kernel over the raster and reads the iteration
// counts back into out.
func (g *Generator) Generate(vp mandel.Viewport, out mandel.IterationBuffer, width, height int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.ready {
		return fmt.Errorf("gpu: generator not initialized")
	}
	if len(out) != width*height {
		return fmt.Errorf("gpu: iteration buffer is %d entries, want %d", len(out), width*height)
	}

	bufSize := uint64(width*height) * 4

	uniformBuf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create uniform buffer: %w", err)
	}
	defer g.device.DestroyBuffer(uniformBuf)

	storageBuf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_iterations", Size: bufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create storage buffer: %w", err)
	}
	defer g.device.DestroyBuffer(storageBuf)

	stagingBuf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_staging", Size: bufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer g.device.DestroyBuffer(stagingBuf)

	g.queue.WriteBuffer(uniformBuf, 0, packParams(vp, width, height))

	bindGroup, err := g.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "mandel_bind",
		Layout: g.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: bufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer g.device.DestroyBindGroup(bindGroup)

	if err := g.dispatch(bindGroup, storageBuf, stagingBuf, width, height, bufSize); err != nil {
		return err
	}

	mapping, err := g.device.MapBuffer(stagingBuf, 0, bufSize)
	if err != nil {
		return fmt.Errorf("gpu: map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), bufSize)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(readback[i*4:])
	}
	if err := g.device.UnmapBuffer(stagingBuf); err != nil {
		return fmt.Errorf("gpu: unmap staging buffer: %w", err)
	}
	return nil
}

// dispatch records and submits one compute pass covering the raster with
// 8×8 workgroups, then waits for the submission to retire.
func (g *Generator) dispatch(bindGroup hal.BindGroup, storageBuf, stagingBuf hal.Buffer, width, height int, bufSize uint64) error {
	encoder, err := g.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mandel_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mandel_generate"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mandel_pass"})
	pass.SetPipeline(g.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(uint32((width+7)/8), uint32((height+7)/8), 1)
	pass.End()

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: bufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer g.device.FreeCommandBuffer(cmdBuf)

	submission, err := g.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	return awaitSubmission(g.queue, g.device, submission, kernelTimeout)
}

// completionPoller is the slice of hal.Queue the completion wait needs.
type completionPoller interface {
	PollCompleted() uint64
}

// idleWaiter is the slice of hal.Device the completion wait needs.
type idleWaiter interface {
	WaitIdle() error
}

// awaitSubmission blocks until the queue reports the submission retired.
// WaitIdle does the blocking wait; PollCompleted confirms the index, so a
// submission the GPU never finishes surfaces as an error within timeout
// instead of wedging the generation goroutine.
func awaitSubmission(queue completionPoller, device idleWaiter, submission uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := device.WaitIdle(); err != nil {
			return fmt.Errorf("gpu: wait idle: %w", err)
		}
		if queue.PollCompleted() >= submission {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("gpu: kernel did not complete within %v", timeout)
		}
		time.Sleep(pollInterval)
	}
}

// createPipeline compiles the kernel and builds the compute pipeline.
// The caller must hold g.mu.
func (g *Generator) createPipeline() error {
	shader, err := createShaderModule(g.device)
	if err != nil {
		return err
	}
	g.shader = shader

	bindLayout, err := g.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mandel_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	g.bindLayout = bindLayout

	pipeLayout, err := g.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "mandel_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{g.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	g.pipeLayout = pipeLayout

	pipeline, err := g.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "mandel_pipeline",
		Layout:  g.pipeLayout,
		Compute: hal.ComputeState{Module: g.shader, EntryPoint: kernelEntryPoint},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	g.pipeline = pipeline
	return nil
}

// destroyPipeline releases the pipeline objects. The caller must hold g.mu.
func (g *Generator) destroyPipeline() {
	if g.device == nil {
		return
	}
	if g.pipeline != nil {
		g.device.DestroyComputePipeline(g.pipeline)
		g.pipeline = nil
	}
	if g.pipeLayout != nil {
		g.device.DestroyPipelineLayout(g.pipeLayout)
		g.pipeLayout = nil
	}
	if g.bindLayout != nil {
		g.device.DestroyBindGroupLayout(g.bindLayout)
		g.bindLayout = nil
	}
	if g.shader != nil {
		g.device.DestroyShaderModule(g.shader)
		g.shader = nil
	}
}

// packParams serializes the Params uniform: width, height, max_iter, pad
// as u32 followed by offset_x, offset_y, zoom, pad as f32, little-endian.
func packParams(vp mandel.Viewport, width, height int) []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(height))
	binary.LittleEndian.PutUint32(buf[8:], mandel.MaxIter)
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(vp.OffsetX))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(vp.OffsetY))
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(vp.Zoom))
	return buf
}
