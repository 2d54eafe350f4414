package bc1

// candidate is one endpoint pair in stored (wire) order with its selectors and error.
type candidate struct {
	c0  uint16
	c1  uint16
	sel Selectors
	err uint32
}

type encodeParams struct {
	tune             searchTuning
	allow3Color      bool
	forceTransparent bool
	forced           *Selectors
}

// blockEncoder carries the per-call search state. It lives on the caller's stack; nothing in
// the search allocates.
type blockEncoder struct {
	t      *Tables
	tune   searchTuning
	texels blockTexels
	forced *Selectors

	mean [3]float64
	axis [3]float64
}

func (t *Tables) encodeBlock(src *Pixels, p *encodeParams) [BlockBytes]byte {
	e := blockEncoder{t: t, tune: p.tune, forced: p.forced}
	loadBlockTexels(src, p.forceTransparent && p.forced == nil, &e.texels)

	if e.texels.fitCount == 0 {
		// Every texel is forced transparent: c0 == c1 selects the 3-color layout.
		var sel Selectors
		for i := range sel {
			sel[i] = 3
		}
		return PackBlock(0, 0, &sel)
	}

	best := e.search(p.allow3Color)
	return PackBlock(best.c0, best.c1, &best.sel)
}

func (e *blockEncoder) search(allow3Color bool) candidate {
	e.mean, e.axis = principalAxis(&e.texels)

	if e.forced != nil {
		return e.searchForced()
	}

	// Transparent texels need selector 3 of the 3-color layout.
	if e.texels.fitCount < BlockTexels {
		return e.searchLayout(true)
	}

	best := e.searchLayout(false)
	if allow3Color && best.err > 0 {
		// Ties keep the 4-color result.
		if c3 := e.searchLayout(true); c3.err < best.err {
			best = c3
		}
	}
	return best
}

// searchLayout finds the best endpoints for the 4-color (three == false) or 3-color layout.
func (e *blockEncoder) searchLayout(three bool) candidate {
	if rgb, ok := e.solidColor(); ok {
		return e.solidCandidate(rgb, three)
	}

	lo, hi := axisExtents(&e.texels, e.mean, e.axis)
	best := e.evaluate(e.quantize(lo), e.quantize(hi), three)
	return e.refine(best, three)
}

func (e *blockEncoder) searchForced() candidate {
	lo, hi := axisExtents(&e.texels, e.mean, e.axis)
	best := e.evaluate(e.quantize(lo), e.quantize(hi), false)

	if e0, e1, ok := leastSquaresEndpoints(&e.texels, e.forced, &selectorFrac4, selectorDen4); ok {
		if cand := e.evaluate(e.quantize(e0), e.quantize(e1), false); cand.err < best.err {
			best = cand
		}
	} else {
		// A single distinct selector leaves one endpoint free; the mean color is the best
		// single value.
		var m [3]int32
		for c := 0; c < 3; c++ {
			m[c] = int32(clampInt(int(e.mean[c]+0.5), 0, 255))
		}
		q := e.quantize(m)
		if cand := e.evaluate(q, q, false); cand.err < best.err {
			best = cand
		}
	}
	return e.refine(best, false)
}

func (e *blockEncoder) refine(best candidate, three bool) candidate {
	for _, st := range e.tune.stages {
		if best.err == 0 {
			break
		}
		switch st.kind {
		case stageLeastSquares:
			best = e.refineLeastSquares(best, three)
		case stagePerturb:
			best = e.perturb(best, three, st.radius)
		case stagePerturbPair:
			best = e.perturbPair(best, three, st.radius)
		case stageAltStarts:
			best = e.altStarts(best, three)
		}
	}
	return best
}

func (e *blockEncoder) quantize(c [3]int32) uint16 {
	return Quantize565(e.t.policy, uint8(c[0]), uint8(c[1]), uint8(c[2]))
}

// evaluate orders c0/c1 for the requested layout, picks selectors and scores the result
// exactly as a decoder in the table's mode would reconstruct it.
func (e *blockEncoder) evaluate(c0, c1 uint16, three bool) candidate {
	if e.forced != nil {
		return e.evaluateForced(c0, c1)
	}

	if three {
		if c0 > c1 {
			c0, c1 = c1, c0
		}
	} else if c0 < c1 {
		c0, c1 = c1, c0
	}

	cand := candidate{c0: c0, c1: c1}
	var pal [4][3]int32
	count := e.t.palette(c0, c1, &pal)
	cand.err = assignSelectors(&e.texels, &pal, count, e.tune.weights, &cand.sel)
	return cand
}

// evaluateForced scores the caller's selectors against c0/c1. Swapping the endpoints into
// 4-color order mirrors the selectors (0<->1, 2<->3) so every texel keeps its color. Equal
// endpoints leave a single color, written with selector 0.
func (e *blockEncoder) evaluateForced(c0, c1 uint16) candidate {
	cand := candidate{c0: c0, c1: c1, sel: *e.forced}
	if c0 < c1 {
		cand.c0, cand.c1 = c1, c0
		for i := range cand.sel {
			cand.sel[i] = (cand.sel[i] & 3) ^ 1
		}
	} else if c0 == c1 {
		cand.sel = Selectors{}
	}

	var pal [4][3]int32
	e.t.palette(cand.c0, cand.c1, &pal)
	cand.err = scoreSelectors(&e.texels, &pal, e.tune.weights, &cand.sel)
	return cand
}

func (e *blockEncoder) solidColor() ([3]int32, bool) {
	first := -1
	for i := 0; i < BlockTexels; i++ {
		if !e.texels.fit[i] {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		if e.texels.rgb[i] != e.texels.rgb[first] {
			return [3]int32{}, false
		}
	}
	if first < 0 {
		return [3]int32{}, false
	}
	return e.texels.rgb[first], true
}

// solidCandidate encodes a single color using the per-mode optimal endpoint tables, falling
// back to the plainly quantized color when that is closer.
func (e *blockEncoder) solidCandidate(rgb [3]int32, three bool) candidate {
	m5, m6 := &e.t.match5, &e.t.match6
	if three {
		m5, m6 = &e.t.matchHalf5, &e.t.matchHalf6
	}
	mr, mg, mb := m5[rgb[0]], m6[rgb[1]], m5[rgb[2]]

	best := e.evaluate(Pack565(mr.e0, mg.e0, mb.e0), Pack565(mr.e1, mg.e1, mb.e1), three)
	if best.err == 0 {
		return best
	}
	q := e.quantize(rgb)
	if cand := e.evaluate(q, q, three); cand.err < best.err {
		best = cand
	}
	return best
}

func (e *blockEncoder) refineLeastSquares(best candidate, three bool) candidate {
	sel := &best.sel
	frac, den := &selectorFrac4, int64(selectorDen4)
	if e.forced != nil {
		sel = e.forced
	} else if best.c0 <= best.c1 {
		frac, den = &selectorFrac3, int64(selectorDen3)
	}

	e0, e1, ok := leastSquaresEndpoints(&e.texels, sel, frac, den)
	if !ok {
		return best
	}
	if cand := e.evaluate(e.quantize(e0), e.quantize(e1), three); cand.err < best.err {
		return cand
	}
	return best
}

func (e *blockEncoder) perturb(best candidate, three bool, radius int) candidate {
	for ep := 0; ep < 2; ep++ {
		for ch := 0; ch < 3; ch++ {
			for d := -radius; d <= radius; d++ {
				if d == 0 {
					continue
				}
				c0, c1 := best.c0, best.c1
				var ok bool
				if ep == 0 {
					c0, ok = nudge565(c0, ch, d)
				} else {
					c1, ok = nudge565(c1, ch, d)
				}
				if !ok {
					continue
				}
				if cand := e.evaluate(c0, c1, three); cand.err < best.err {
					best = cand
				}
			}
		}
	}
	return best
}

func (e *blockEncoder) perturbPair(best candidate, three bool, radius int) candidate {
	for ch := 0; ch < 3; ch++ {
		for d := -radius; d <= radius; d++ {
			if d == 0 {
				continue
			}
			// Shift both endpoints, then move them apart or together.
			for _, d1 := range [2]int{d, -d} {
				c0, ok0 := nudge565(best.c0, ch, d)
				c1, ok1 := nudge565(best.c1, ch, d1)
				if !ok0 || !ok1 {
					continue
				}
				if cand := e.evaluate(c0, c1, three); cand.err < best.err {
					best = cand
				}
			}
		}
	}
	return best
}

func (e *blockEncoder) altStarts(best candidate, three bool) candidate {
	var starts [3][2][3]int32
	starts[0][0], starts[0][1] = boundingBoxEndpoints(&e.texels, e.axis)
	starts[1][0], starts[1][1] = lumaExtents(&e.texels)
	lo, hi := axisExtents(&e.texels, e.mean, e.axis)
	starts[2][0], starts[2][1] = insetEndpoints(lo, hi)

	for _, s := range starts {
		cand := e.evaluate(e.quantize(s[0]), e.quantize(s[1]), three)
		cand = e.refineLeastSquares(cand, three)
		if cand.err < best.err {
			best = cand
		}
	}
	return best
}

var fieldMax = [3]int{31, 63, 31}

// nudge565 adds d to channel ch of an endpoint word, reporting false if it leaves the field's
// range.
func nudge565(c uint16, ch, d int) (uint16, bool) {
	r, g, b := Unpack565(c)
	f := [3]int{int(r), int(g), int(b)}
	v := f[ch] + d
	if v < 0 || v > fieldMax[ch] {
		return c, false
	}
	f[ch] = v
	return Pack565(uint8(f[0]), uint8(f[1]), uint8(f[2])), true
}
