package mandel

// FrameBuffer is a tightly packed width×height×3-byte RGB raster, laid out
// row by row.
//
// Completed frames are published by the Coordinator through an atomic
// pointer swap and are not written again afterward, so a FrameBuffer
// obtained from Coordinator.Frame may be read without synchronization.
type FrameBuffer struct {
	width  int
	height int
	data   []uint8
}

// NewFrameBuffer creates a zeroed (all-black) frame buffer.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*3),
	}
}

// Width returns the raster width in pixels.
func (f *FrameBuffer) Width() int { return f.width }

// Height returns the raster height in pixels.
func (f *FrameBuffer) Height() int { return f.height }

// Stride returns the number of bytes per row.
func (f *FrameBuffer) Stride() int { return f.width * 3 }

// Data returns the raw pixel data (RGB, 3 bytes per pixel). The slice
// aliases the buffer's backing store.
func (f *FrameBuffer) Data() []uint8 { return f.data }

// SetRGB sets the color of a single pixel. Out-of-bounds coordinates are
// ignored.
func (f *FrameBuffer) SetRGB(x, y int, c RGB) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	i := (y*f.width + x) * 3
	f.data[i+0] = c.R
	f.data[i+1] = c.G
	f.data[i+2] = c.B
}

// At returns the color of a single pixel. Out-of-bounds coordinates
// return black.
func (f *FrameBuffer) At(x, y int) RGB {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return RGB{}
	}
	i := (y*f.width + x) * 3
	return RGB{R: f.data[i+0], G: f.data[i+1], B: f.data[i+2]}
}

// Uniform reports whether every pixel has the same color. A freshly
// generated frame of the default viewport is never uniform; the explorer
// uses this to distinguish "image produced" from "image still blank".
func (f *FrameBuffer) Uniform() bool {
	if len(f.data) < 3 {
		return true
	}
	r, g, b := f.data[0], f.data[1], f.data[2]
	for i := 3; i < len(f.data); i += 3 {
		if f.data[i] != r || f.data[i+1] != g || f.data[i+2] != b {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the frame buffer.
func (f *FrameBuffer) Clone() *FrameBuffer {
	c := &FrameBuffer{
		width:  f.width,
		height: f.height,
		data:   make([]uint8, len(f.data)),
	}
	copy(c.data, f.data)
	return c
}
