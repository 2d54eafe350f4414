package bc1

import "image/color"

var (
	expand5Table [32]uint8
	expand6Table [64]uint8

	quantize5Table [256]uint8
	quantize6Table [256]uint8
)

func init() {
	for v := 0; v < 32; v++ {
		expand5Table[v] = uint8((v << 3) | (v >> 2))
	}
	for v := 0; v < 64; v++ {
		expand6Table[v] = uint8((v << 2) | (v >> 4))
	}

	for u := 0; u < 256; u++ {
		quantize5Table[u] = nearestLevel(expand5Table[:], u)
		quantize6Table[u] = nearestLevel(expand6Table[:], u)
	}
}

// nearestLevel returns the index of the level whose value is closest to u.
// Ties resolve to the lower index.
func nearestLevel(levels []uint8, u int) uint8 {
	best := 0
	bestDiff := 0x7FFFFFFF
	for i := 0; i < len(levels); i++ {
		d := absInt(int(levels[i]) - u)
		if d < bestDiff {
			bestDiff = d
			best = i
			if d == 0 {
				break
			}
		}
	}
	return uint8(best)
}

// Expand5 widens a 5-bit channel to 8 bits by bit replication.
func Expand5(v uint8) uint8 { return expand5Table[v&31] }

// Expand6 widens a 6-bit channel to 8 bits by bit replication.
func Expand6(v uint8) uint8 { return expand6Table[v&63] }

// Quantize5 returns the 5-bit value whose expansion is nearest to v.
func Quantize5(v uint8) uint8 { return quantize5Table[v] }

// Quantize6 returns the 6-bit value whose expansion is nearest to v.
func Quantize6(v uint8) uint8 { return quantize6Table[v] }

// Pack565 packs 5:6:5 channel fields into a 16-bit endpoint word.
func Pack565(r5, g6, b5 uint8) uint16 {
	return uint16(r5&31)<<11 | uint16(g6&63)<<5 | uint16(b5&31)
}

// Unpack565 splits a 16-bit endpoint word into its 5:6:5 channel fields.
func Unpack565(c uint16) (r5, g6, b5 uint8) {
	return uint8(c>>11) & 31, uint8(c>>5) & 63, uint8(c) & 31
}

// Expand565 returns the opaque 8-bit color encoded by the endpoint word c.
func Expand565(c uint16) color.RGBA {
	r, g, b := Unpack565(c)
	return color.RGBA{R: Expand5(r), G: Expand6(g), B: Expand5(b), A: 0xFF}
}

// Quantize565 rounds an 8-bit color to the nearest endpoint word under policy p.
func Quantize565(p RoundingPolicy, r, g, b uint8) uint16 {
	return Pack565(p.Quantize(r, 5), p.Quantize(g, 6), p.Quantize(b, 5))
}

// Interpolate derives a palette of count colors (2, 3 or 4) from the endpoint words c0 and c1.
//
// For count 4 the palette is {c0, c1, 2/3*c0+1/3*c1, 1/3*c0+2/3*c1}; for count 3 it is
// {c0, c1, 1/2*c0+1/2*c1} followed by the implicit transparent black entry. Entries beyond
// count are left zero. Rounding of the interpolated entries follows p.
func Interpolate(p RoundingPolicy, c0, c1 uint16, count int) (pal [4]color.RGBA) {
	r0, g0, b0 := Unpack565(c0)
	r1, g1, b1 := Unpack565(c1)

	pal[0] = Expand565(c0)
	pal[1] = Expand565(c1)

	switch count {
	case 4:
		pal[2] = color.RGBA{
			R: p.Interpolate(r0, r1, 5),
			G: p.Interpolate(g0, g1, 6),
			B: p.Interpolate(b0, b1, 5),
			A: 0xFF,
		}
		pal[3] = color.RGBA{
			R: p.Interpolate(r1, r0, 5),
			G: p.Interpolate(g1, g0, 6),
			B: p.Interpolate(b1, b0, 5),
			A: 0xFF,
		}
	case 3:
		pal[2] = color.RGBA{
			R: p.Midpoint(r0, r1, 5),
			G: p.Midpoint(g0, g1, 6),
			B: p.Midpoint(b0, b1, 5),
			A: 0xFF,
		}
	}
	return pal
}

// IsFourColor reports whether a block with endpoint words c0 and c1 uses the opaque 4-color
// palette. Blocks with c0 <= c1 use the 3-color palette with an implicit transparent entry.
func IsFourColor(c0, c1 uint16) bool {
	return c0 > c1
}

// Palette derives the palette a decoder uses for the endpoint words c0 and c1, returning the
// number of interpolated colors (4, or 3 plus the implicit transparent entry).
func Palette(p RoundingPolicy, c0, c1 uint16) (pal [4]color.RGBA, count int) {
	count = 3
	if IsFourColor(c0, c1) {
		count = 4
	}
	return Interpolate(p, c0, c1, count), count
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
