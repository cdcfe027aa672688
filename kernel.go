package mandel

// IterationBuffer is a raster of per-pixel iteration counts, one per pixel
// in row-major order. A fresh buffer is produced for every dispatch and
// owned exclusively by the in-flight generation until it has been mapped
// to colors.
type IterationBuffer []uint32

// NewIterationBuffer allocates an iteration buffer for a width×height
// raster.
func NewIterationBuffer(width, height int) IterationBuffer {
	return make(IterationBuffer, width*height)
}

// Iterate returns the escape-time iteration count in [0, MaxIter] for
// pixel (x, y) of a width×height raster under the given viewport.
//
// The pixel is mapped to a complex coordinate c, then z ← z² + c is
// iterated from z = 0 until the squared modulus exceeds 4 or the count
// reaches MaxIter. Every pixel is independent, so the whole raster is
// trivially parallelizable with no ordering requirement.
//
// Numeric semantics are single-precision float32, matching the GPU kernel
// bit for bit on the mapping arithmetic. Iterate is the reference
// implementation the compute backends are tested against.
func Iterate(x, y, width, height int, vp Viewport) uint32 {
	scaleX := float32(AspectX) / float32(width) / vp.Zoom
	scaleY := float32(AspectY) / float32(height) / vp.Zoom
	cx := float32(x-width/2)*scaleX + vp.OffsetX
	cy := float32(y-height/2)*scaleY + vp.OffsetY
	return escapeTime(cx, cy)
}

// escapeTime runs the iteration loop for the complex point (cx, cy).
func escapeTime(cx, cy float32) uint32 {
	var zx, zy float32
	var iter uint32
	for iter < MaxIter {
		zx2 := zx * zx
		zy2 := zy * zy
		if zx2+zy2 > escapeRadiusSq {
			break
		}
		zx, zy = zx2-zy2+cx, 2*zx*zy+cy
		iter++
	}
	return iter
}
