package mandel

import "testing"

func TestSoftwareGenerator_MatchesReferenceKernel(t *testing.T) {
	gen := NewSoftwareGenerator()
	defer gen.Close()

	const w, h = 64, 48
	vp := DefaultViewport()
	out := NewIterationBuffer(w, h)
	if err := gen.Generate(vp, out, w, h); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// The parallel fan-out must agree with the serial reference on every
	// pixel, including band boundaries.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if got, want := out[y*w+x], Iterate(x, y, w, h, vp); got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestSoftwareGenerator_PartialBand(t *testing.T) {
	// A height that is not a multiple of the band size must still cover
	// every row.
	gen := NewSoftwareGenerator()
	defer gen.Close()

	const w, h = 16, softwareBandRows + 3
	vp := Viewport{OffsetX: 10, OffsetY: 10, Zoom: 1} // far outside: everything escapes fast
	out := NewIterationBuffer(w, h)
	for i := range out {
		out[i] = MaxIter + 1 // sentinel no kernel result can produce
	}
	if err := gen.Generate(vp, out, w, h); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, v := range out {
		if v > MaxIter {
			t.Fatalf("pixel %d untouched by generation", i)
		}
	}
}

func TestSoftwareGenerator_SizeMismatch(t *testing.T) {
	gen := NewSoftwareGenerator()
	defer gen.Close()

	out := NewIterationBuffer(4, 4)
	if err := gen.Generate(DefaultViewport(), out, 8, 8); err == nil {
		t.Error("Generate with mismatched buffer size should fail")
	}
}

func TestSoftwareGenerator_Lifecycle(t *testing.T) {
	gen := NewSoftwareGenerator()
	if gen.Name() != "software" {
		t.Errorf("Name() = %q, want %q", gen.Name(), "software")
	}
	if err := gen.Init(); err != nil {
		t.Errorf("Init() = %v, want nil", err)
	}
	gen.Close()
}
