// Package mandel implements an interactive explorer of the Mandelbrot set.
//
// The package computes, for every pixel of a fixed-size raster, an
// escape-time iteration count under complex-plane iteration, maps that
// count to a color through a precomputed palette, and publishes completed
// frames to a presentation collaborator while an interaction loop applies
// pan/zoom input.
//
// The pipeline has three moving parts:
//
//   - A Generator evaluates the iteration kernel over the whole raster.
//     The default SoftwareGenerator fans the kernel out over a CPU worker
//     pool; importing the gpu subpackage registers a wgpu compute
//     generator instead:
//
//     import _ "github.com/gogpu/mandel/gpu" // enable GPU generation
//
//   - A Coordinator dispatches at most one generation at a time, tags
//     each request with a monotonically increasing epoch, discards results
//     superseded by a newer request, and publishes finished frames with an
//     atomic pointer swap so presentation never observes a half-written
//     buffer.
//
//   - An Explorer runs the interaction loop: it drains input events from
//     the Presenter, mutates the viewport, requests regeneration, and
//     hands the current frame to the Presenter every cycle whether or not
//     a fresh one has landed.
//
// Window creation and display are deliberately outside this package. The
// Presenter interface is the seam: anything that can deliver discrete
// input events and accept a packed RGB raster can drive the explorer.
//
// By default mandel produces no log output. Call SetLogger to enable it.
package mandel
