package bc1

import "sync"

// singleColorMatch is the pair of endpoint fields whose interpolated entry best reproduces one
// 8-bit channel value.
type singleColorMatch struct {
	e0 uint8
	e1 uint8
}

// Tables holds the read-only lookup tables the encoder needs for one approximation mode.
//
// A *Tables is immutable once returned by Initialize and may be shared freely between
// goroutines.
type Tables struct {
	mode   ApproxMode
	policy RoundingPolicy

	// Interpolated palette entries indexed by [c0 field][c1 field].
	interp5 [32][32]uint8
	interp6 [64][64]uint8
	mid5    [32][32]uint8
	mid6    [64][64]uint8

	// Optimal single-color encodings: 4-color blocks use the 2/3*e0+1/3*e1 entry,
	// 3-color blocks the midpoint entry.
	match5     [256]singleColorMatch
	match6     [256]singleColorMatch
	matchHalf5 [256]singleColorMatch
	matchHalf6 [256]singleColorMatch
}

var codecTables struct {
	mu sync.RWMutex
	m  map[ApproxMode]*Tables
}

// Initialize returns the encoder tables for mode, building them on first use.
//
// It is idempotent and safe to call concurrently; every call for the same mode returns the
// same *Tables.
func Initialize(mode ApproxMode) (*Tables, error) {
	if !mode.valid() {
		return nil, newError(ErrBadMode, "bc1: invalid approximation mode")
	}

	codecTables.mu.RLock()
	if codecTables.m != nil {
		if t := codecTables.m[mode]; t != nil {
			codecTables.mu.RUnlock()
			return t, nil
		}
	}
	codecTables.mu.RUnlock()

	codecTables.mu.Lock()
	defer codecTables.mu.Unlock()

	if codecTables.m == nil {
		codecTables.m = make(map[ApproxMode]*Tables)
	} else if t := codecTables.m[mode]; t != nil {
		return t, nil
	}

	t := newTables(PolicyFor(mode))
	codecTables.m[mode] = t
	return t, nil
}

// MustInitialize is like Initialize but panics on an invalid mode.
func MustInitialize(mode ApproxMode) *Tables {
	t, err := Initialize(mode)
	if err != nil {
		panic(err)
	}
	return t
}

// Mode returns the approximation mode the tables were built for.
func (t *Tables) Mode() ApproxMode { return t.mode }

// Policy returns the rounding policy the tables were built from.
func (t *Tables) Policy() RoundingPolicy { return t.policy }

func newTables(p RoundingPolicy) *Tables {
	t := &Tables{mode: p.Mode(), policy: p}

	for a := 0; a < 32; a++ {
		for b := 0; b < 32; b++ {
			t.interp5[a][b] = p.Interpolate(uint8(a), uint8(b), 5)
			t.mid5[a][b] = p.Midpoint(uint8(a), uint8(b), 5)
		}
	}
	for a := 0; a < 64; a++ {
		for b := 0; b < 64; b++ {
			t.interp6[a][b] = p.Interpolate(uint8(a), uint8(b), 6)
			t.mid6[a][b] = p.Midpoint(uint8(a), uint8(b), 6)
		}
	}

	buildSingleColorTable(&t.match5, 32, expand5Table[:], func(a, b int) int { return int(t.interp5[a][b]) })
	buildSingleColorTable(&t.match6, 64, expand6Table[:], func(a, b int) int { return int(t.interp6[a][b]) })
	buildSingleColorTable(&t.matchHalf5, 32, expand5Table[:], func(a, b int) int { return int(t.mid5[a][b]) })
	buildSingleColorTable(&t.matchHalf6, 64, expand6Table[:], func(a, b int) int { return int(t.mid6[a][b]) })

	return t
}

// buildSingleColorTable finds, for every 8-bit value, the endpoint pair whose entry is
// closest. Among equally close pairs the one with the narrowest expanded spread wins.
func buildSingleColorTable(out *[256]singleColorMatch, levels int, expand []uint8, entry func(a, b int) int) {
	for v := 0; v < 256; v++ {
		bestErr := 1 << 30
		bestSpread := 1 << 30
		var best singleColorMatch
		for a := 0; a < levels; a++ {
			for b := 0; b < levels; b++ {
				e := absInt(entry(a, b) - v)
				if e > bestErr {
					continue
				}
				spread := absInt(int(expand[a]) - int(expand[b]))
				if e < bestErr || spread < bestSpread {
					bestErr = e
					bestSpread = spread
					best = singleColorMatch{e0: uint8(a), e1: uint8(b)}
				}
			}
		}
		out[v] = best
	}
}

// palette fills pal with the RGB palette a decoder derives from c0 and c1 and returns the
// number of selectable entries (4, or 3 for the 3-color layout).
func (t *Tables) palette(c0, c1 uint16, pal *[4][3]int32) int {
	r0, g0, b0 := Unpack565(c0)
	r1, g1, b1 := Unpack565(c1)

	pal[0] = [3]int32{int32(expand5Table[r0]), int32(expand6Table[g0]), int32(expand5Table[b0])}
	pal[1] = [3]int32{int32(expand5Table[r1]), int32(expand6Table[g1]), int32(expand5Table[b1])}

	if c0 > c1 {
		pal[2] = [3]int32{int32(t.interp5[r0][r1]), int32(t.interp6[g0][g1]), int32(t.interp5[b0][b1])}
		pal[3] = [3]int32{int32(t.interp5[r1][r0]), int32(t.interp6[g1][g0]), int32(t.interp5[b1][b0])}
		return 4
	}
	pal[2] = [3]int32{int32(t.mid5[r0][r1]), int32(t.mid6[g0][g1]), int32(t.mid5[b0][b1])}
	pal[3] = [3]int32{}
	return 3
}
