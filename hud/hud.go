// Package hud draws a small text overlay with the current viewport
// parameters onto completed frames.
package hud

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/mandel"
)

// margin is the overlay position from the top-left corner, in pixels.
const margin = 4

// Overlay renders "re … im … zoom …" into the top-left corner of a frame.
// It implements mandel.Overlay.
//
// Text is drawn with the fixed 7×13 basicfont into a scratch image and
// blitted onto the frame, so no glyph rasterization state leaks between
// frames. Overlay is not safe for concurrent use; the explorer calls it
// from the loop goroutine only.
type Overlay struct {
	face    font.Face
	scratch *image.Alpha
}

var _ mandel.Overlay = (*Overlay)(nil)

// New creates an overlay using the builtin 7×13 face.
func New() *Overlay {
	return &Overlay{face: basicfont.Face7x13}
}

// label formats the viewport parameters. The offsets are float32, which
// carries about seven significant decimal digits; printing more would
// show noise beyond the stored value.
func label(vp mandel.Viewport) string {
	return fmt.Sprintf("re %.7f  im %.7f  zoom %.4f", vp.OffsetX, vp.OffsetY, vp.Zoom)
}

// Draw stamps the viewport parameters onto the frame. Frames smaller than
// the label are left untouched beyond their bounds.
func (o *Overlay) Draw(fb *mandel.FrameBuffer, vp mandel.Viewport) {
	text := label(vp)

	metrics := o.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := metrics.Height.Ceil()
	width := font.MeasureString(o.face, text).Ceil()

	if o.scratch == nil || o.scratch.Rect.Dx() < width || o.scratch.Rect.Dy() < lineHeight {
		o.scratch = image.NewAlpha(image.Rect(0, 0, width, lineHeight))
	}
	clear(o.scratch.Pix)

	d := &font.Drawer{
		Dst:  o.scratch,
		Src:  image.NewUniform(color.Alpha{A: 0xff}),
		Face: o.face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	// Blit covered glyph pixels as white; skip the transparent background
	// so the fractal stays visible around the text.
	for gy := 0; gy < lineHeight; gy++ {
		for gx := 0; gx < width; gx++ {
			if o.scratch.AlphaAt(gx, gy).A >= 0x80 {
				fb.SetRGB(margin+gx, margin+gy, mandel.RGB{R: 0xff, G: 0xff, B: 0xff})
			}
		}
	}
}
