package mandel

// RGB is a packed 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Palette is a precomputed lookup table mapping an iteration count in
// [0, MaxIter] to a display color. It is built once at startup and never
// mutated afterward, so it may be shared read-only by any number of
// goroutines.
type Palette struct {
	table [MaxIter + 1]RGB
}

// BuildPalette computes the palette from the smoothing polynomial
//
//	r = 9·(1-t)·t³·255
//	g = 15·(1-t)²·t²·255
//	b = 8.5·(1-t)³·t·255
//
// with t = iter/MaxIter. Each channel is truncated to a byte; the
// polynomials peak below 1 on [0,1], so no clamping is needed.
// BuildPalette is deterministic: rebuilding yields a byte-identical table.
func BuildPalette() *Palette {
	p := &Palette{}
	for iter := 0; iter <= MaxIter; iter++ {
		t := float64(iter) / MaxIter
		p.table[iter] = RGB{
			R: uint8(9 * (1 - t) * t * t * t * 255),
			G: uint8(15 * (1 - t) * (1 - t) * t * t * 255),
			B: uint8(8.5 * (1 - t) * (1 - t) * (1 - t) * t * 255),
		}
	}
	return p
}

// Lookup returns the color for an iteration count. Counts above MaxIter
// are clamped to the last entry.
func (p *Palette) Lookup(iter uint32) RGB {
	if iter > MaxIter {
		iter = MaxIter
	}
	return p.table[iter]
}

// Len returns the number of palette entries (MaxIter + 1).
func (p *Palette) Len() int { return len(p.table) }
