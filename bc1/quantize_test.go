package bc1

import "testing"

func TestExpand_BitReplication(t *testing.T) {
	for v := 0; v < 32; v++ {
		want := uint8((v << 3) | (v >> 2))
		if got := Expand5(uint8(v)); got != want {
			t.Fatalf("Expand5(%d): got %d want %d", v, got, want)
		}
		if Quantize5(want) != uint8(v) {
			t.Fatalf("Quantize5(Expand5(%d)): got %d", v, Quantize5(want))
		}
	}
	for v := 0; v < 64; v++ {
		want := uint8((v << 2) | (v >> 4))
		if got := Expand6(uint8(v)); got != want {
			t.Fatalf("Expand6(%d): got %d want %d", v, got, want)
		}
		if Quantize6(want) != uint8(v) {
			t.Fatalf("Quantize6(Expand6(%d)): got %d", v, Quantize6(want))
		}
	}
	if Expand5(0) != 0 || Expand5(31) != 255 || Expand6(0) != 0 || Expand6(63) != 255 {
		t.Fatalf("expansion endpoints: got %d %d %d %d", Expand5(0), Expand5(31), Expand6(0), Expand6(63))
	}
}

func TestQuantize_Nearest(t *testing.T) {
	for u := 0; u < 256; u++ {
		q5 := Quantize5(uint8(u))
		d5 := absInt(int(Expand5(q5)) - u)
		for v := 0; v < 32; v++ {
			if d := absInt(int(Expand5(uint8(v))) - u); d < d5 {
				t.Fatalf("Quantize5(%d)=%d (diff %d) but %d is closer (diff %d)", u, q5, d5, v, d)
			}
		}
		q6 := Quantize6(uint8(u))
		d6 := absInt(int(Expand6(q6)) - u)
		for v := 0; v < 64; v++ {
			if d := absInt(int(Expand6(uint8(v))) - u); d < d6 {
				t.Fatalf("Quantize6(%d)=%d (diff %d) but %d is closer (diff %d)", u, q6, d6, v, d)
			}
		}
	}
}

func TestPack565_RoundTrip(t *testing.T) {
	for _, c := range []uint16{0x0000, 0xF800, 0x07E0, 0x001F, 0xFFFF, 0x1234} {
		r, g, b := Unpack565(c)
		if got := Pack565(r, g, b); got != c {
			t.Fatalf("Pack565(Unpack565(%#04x)): got %#04x", c, got)
		}
	}
	if got := Pack565(31, 0, 0); got != 0xF800 {
		t.Fatalf("Pack565(red): got %#04x want 0xf800", got)
	}
}

func TestPalette_CountFollowsEndpointOrder(t *testing.T) {
	p := PolicyFor(ApproxIdeal)
	if _, n := Palette(p, 0xF800, 0xF000); n != 4 {
		t.Fatalf("Palette(c0 > c1): got count %d want 4", n)
	}
	if _, n := Palette(p, 0xF000, 0xF800); n != 3 {
		t.Fatalf("Palette(c0 < c1): got count %d want 3", n)
	}
	pal, n := Palette(p, 0xF800, 0xF800)
	if n != 3 {
		t.Fatalf("Palette(c0 == c1): got count %d want 3", n)
	}
	if pal[3].A != 0 {
		t.Fatalf("Palette(c0 == c1)[3]: got alpha %d want 0", pal[3].A)
	}
}
