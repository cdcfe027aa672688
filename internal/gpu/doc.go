// Package gpu implements the wgpu compute generator: the escape-time
// kernel as a WGSL compute shader dispatched once per pixel, with the
// iteration counts read back into the host iteration buffer.
package gpu
