package graphics

import "testing"

func TestScaleNearestNeighborPreservesSolidColor(t *testing.T) {
	src := make([]uint32, 4*4)
	for i := range src {
		src[i] = 0xFF0000
	}

	vp := NewVideoProcessor(1, 1, 1)
	out := vp.Scale(src, 4, 4, 8, 8, "nearest")

	if len(out) != 64 {
		t.Fatalf("len(out) = %d, want 64", len(out))
	}
	for i, pixel := range out {
		if pixel != 0xFF0000 {
			t.Fatalf("out[%d] = %#06X, want FF0000", i, pixel)
		}
	}
}

func TestScaleDownsamplesHalfAndHalf(t *testing.T) {
	// Left half white, right half black: downscaling to 1x1 with an
	// averaging kernel should land on a mid-gray, not pure black or white.
	src := make([]uint32, 4*4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				src[y*4+x] = 0xFFFFFF
			} else {
				src[y*4+x] = 0x000000
			}
		}
	}

	vp := NewVideoProcessor(1, 1, 1)
	out := vp.Scale(src, 4, 4, 1, 1, "linear")

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	r := (out[0] >> 16) & 0xFF
	if r == 0 || r == 0xFF {
		t.Errorf("downsampled red channel = %#02X, want a blended mid value", r)
	}
}

func TestScaleUnknownFilterFallsBackToNearestNeighbor(t *testing.T) {
	src := []uint32{0x112233}
	vp := NewVideoProcessor(1, 1, 1)
	out := vp.Scale(src, 1, 1, 2, 2, "bogus")

	for i, pixel := range out {
		if pixel != 0x112233 {
			t.Fatalf("out[%d] = %#06X, want 112233", i, pixel)
		}
	}
}
