package bc1

import (
	"math/rand"
	"testing"
)

func TestRounding_KnownValues(t *testing.T) {
	cases := []struct {
		mode     ApproxMode
		v0, v1   uint8
		bits     uint
		interp   uint8
		midpoint uint8
	}{
		// Expanded 5-bit values 255 and 0.
		{ApproxIdeal, 31, 0, 5, 170, 127},
		{ApproxIdealRound4, 31, 0, 5, 170, 127},
		{ApproxAMD, 31, 0, 5, 171, 128},
		{ApproxNVidia, 31, 0, 5, 170, 127},
		// Expanded 6-bit values 255 and 0.
		{ApproxIdeal, 63, 0, 6, 170, 127},
		{ApproxNVidia, 63, 0, 6, 175, 127},
		// Expanded 5-bit values 8 and 33.
		{ApproxIdeal, 1, 4, 5, 16, 20},
		{ApproxIdealRound4, 1, 4, 5, 16, 20},
	}

	for _, c := range cases {
		p := PolicyFor(c.mode)
		if got := p.Interpolate(c.v0, c.v1, c.bits); got != c.interp {
			t.Fatalf("%v Interpolate(%d,%d,%d): got %d want %d", c.mode, c.v0, c.v1, c.bits, got, c.interp)
		}
		if got := p.Midpoint(c.v0, c.v1, c.bits); got != c.midpoint {
			t.Fatalf("%v Midpoint(%d,%d,%d): got %d want %d", c.mode, c.v0, c.v1, c.bits, got, c.midpoint)
		}
	}
}

func TestRounding_EqualEndpointsReproduceExpansion(t *testing.T) {
	for _, mode := range []ApproxMode{ApproxIdeal, ApproxNVidia, ApproxAMD, ApproxIdealRound4} {
		p := PolicyFor(mode)
		for v := 0; v < 32; v++ {
			if got := p.Interpolate(uint8(v), uint8(v), 5); got != Expand5(uint8(v)) {
				t.Fatalf("%v Interpolate5(%d,%d): got %d want %d", mode, v, v, got, Expand5(uint8(v)))
			}
		}
		for v := 0; v < 64; v++ {
			if got := p.Interpolate(uint8(v), uint8(v), 6); got != Expand6(uint8(v)) {
				t.Fatalf("%v Interpolate6(%d,%d): got %d want %d", mode, v, v, got, Expand6(uint8(v)))
			}
		}
	}
}

func TestPolicyFor_UnknownFallsBackToIdeal(t *testing.T) {
	if got := PolicyFor(ApproxMode(200)).Mode(); got != ApproxIdeal {
		t.Fatalf("PolicyFor(200).Mode(): got %v want %v", got, ApproxIdeal)
	}
}

// The encoder's tabulated palette must agree with what the decoder derives.
func TestTablesPalette_MatchesDecoderPalette(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, mode := range []ApproxMode{ApproxIdeal, ApproxNVidia, ApproxAMD, ApproxIdealRound4} {
		tbl := MustInitialize(mode)
		for i := 0; i < 2000; i++ {
			c0 := uint16(rnd.Intn(1 << 16))
			c1 := uint16(rnd.Intn(1 << 16))
			if i%7 == 0 {
				c1 = c0
			}

			var got [4][3]int32
			n := tbl.palette(c0, c1, &got)
			want, wantN := Palette(tbl.Policy(), c0, c1)
			if n != wantN {
				t.Fatalf("%v palette(%#04x,%#04x): got count %d want %d", mode, c0, c1, n, wantN)
			}
			for j := 0; j < n; j++ {
				w := [3]int32{int32(want[j].R), int32(want[j].G), int32(want[j].B)}
				if got[j] != w {
					t.Fatalf("%v palette(%#04x,%#04x)[%d]: got %v want %v", mode, c0, c1, j, got[j], w)
				}
			}
		}
	}
}
