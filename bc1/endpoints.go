package bc1

import "math"

// Fraction of c1 carried by each selector, scaled by the denominator of its layout.
var (
	selectorFrac4 = [4]int64{0, 3, 1, 2}
	selectorFrac3 = [4]int64{0, 2, 1, 0}
)

const (
	selectorDen4 = 3
	selectorDen3 = 2

	powerIterations = 8
)

// defaultAxis is used when the block has no color variance along any axis.
var defaultAxis = [3]float64{0.299, 0.587, 0.114}

// principalAxis returns the mean color of the fitting texels and the dominant direction of
// their covariance, found by power iteration.
func principalAxis(src *blockTexels) (mean, axis [3]float64) {
	var sum [3]int64
	for i := 0; i < BlockTexels; i++ {
		if !src.fit[i] {
			continue
		}
		for c := 0; c < 3; c++ {
			sum[c] += int64(src.rgb[i][c])
		}
	}
	n := float64(src.fitCount)
	for c := 0; c < 3; c++ {
		mean[c] = float64(sum[c]) / n
	}

	var cov [3][3]float64
	for i := 0; i < BlockTexels; i++ {
		if !src.fit[i] {
			continue
		}
		var d [3]float64
		for c := 0; c < 3; c++ {
			d[c] = float64(src.rgb[i][c]) - mean[c]
		}
		for r := 0; r < 3; r++ {
			for c := r; c < 3; c++ {
				cov[r][c] += d[r] * d[c]
			}
		}
	}
	cov[1][0] = cov[0][1]
	cov[2][0] = cov[0][2]
	cov[2][1] = cov[1][2]

	// Start from the column of the largest variance; (1,1,1) can be orthogonal to the
	// principal axis (e.g. a red/green checkerboard).
	start := 0
	for c := 1; c < 3; c++ {
		if cov[c][c] > cov[start][start] {
			start = c
		}
	}
	if cov[start][start] <= 0 {
		return mean, defaultAxis
	}
	v := [3]float64{cov[0][start], cov[1][start], cov[2][start]}

	for iter := 0; iter < powerIterations; iter++ {
		var next [3]float64
		for r := 0; r < 3; r++ {
			next[r] = cov[r][0]*v[0] + cov[r][1]*v[1] + cov[r][2]*v[2]
		}
		m := math.Max(math.Abs(next[0]), math.Max(math.Abs(next[1]), math.Abs(next[2])))
		if m == 0 {
			break
		}
		for c := 0; c < 3; c++ {
			v[c] = next[c] / m
		}
	}

	l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return mean, defaultAxis
	}
	for c := 0; c < 3; c++ {
		axis[c] = v[c] / l
	}
	return mean, axis
}

// axisExtents returns the fitting texels with the smallest and largest projection onto axis.
// The first texel wins on ties.
func axisExtents(src *blockTexels, mean, axis [3]float64) (lo, hi [3]int32) {
	minD := math.Inf(1)
	maxD := math.Inf(-1)
	minIdx, maxIdx := -1, -1
	for i := 0; i < BlockTexels; i++ {
		if !src.fit[i] {
			continue
		}
		d := 0.0
		for c := 0; c < 3; c++ {
			d += (float64(src.rgb[i][c]) - mean[c]) * axis[c]
		}
		if d < minD {
			minD = d
			minIdx = i
		}
		if d > maxD {
			maxD = d
			maxIdx = i
		}
	}
	if minIdx < 0 {
		return lo, hi
	}
	return src.rgb[minIdx], src.rgb[maxIdx]
}

// boundingBoxEndpoints returns the corners of the fitting texels' RGB bounding box along the
// diagonal that best matches the sign pattern of axis.
func boundingBoxEndpoints(src *blockTexels, axis [3]float64) (lo, hi [3]int32) {
	lo = [3]int32{255, 255, 255}
	hi = [3]int32{0, 0, 0}
	for i := 0; i < BlockTexels; i++ {
		if !src.fit[i] {
			continue
		}
		for c := 0; c < 3; c++ {
			if src.rgb[i][c] < lo[c] {
				lo[c] = src.rgb[i][c]
			}
			if src.rgb[i][c] > hi[c] {
				hi[c] = src.rgb[i][c]
			}
		}
	}
	for c := 0; c < 3; c++ {
		if axis[c] < 0 {
			lo[c], hi[c] = hi[c], lo[c]
		}
	}
	return lo, hi
}

// lumaExtents returns the darkest and brightest fitting texels by r+g+b.
func lumaExtents(src *blockTexels) (lo, hi [3]int32) {
	minL, maxL := math.MaxInt32, -1
	minIdx, maxIdx := -1, -1
	for i := 0; i < BlockTexels; i++ {
		if !src.fit[i] {
			continue
		}
		l := int(src.rgb[i][0] + src.rgb[i][1] + src.rgb[i][2])
		if l < minL {
			minL = l
			minIdx = i
		}
		if l > maxL {
			maxL = l
			maxIdx = i
		}
	}
	if minIdx < 0 {
		return lo, hi
	}
	return src.rgb[minIdx], src.rgb[maxIdx]
}

// insetEndpoints pulls both endpoints 1/16 of their distance toward each other.
func insetEndpoints(lo, hi [3]int32) (a, b [3]int32) {
	for c := 0; c < 3; c++ {
		d := (hi[c] - lo[c]) / 16
		a[c] = lo[c] + d
		b[c] = hi[c] - d
	}
	return a, b
}

// leastSquaresEndpoints solves for the 8-bit endpoints that minimize squared error for a
// fixed selector assignment. frac and den give the fraction of e1 per selector. It reports
// false when the assignment does not determine both endpoints.
func leastSquaresEndpoints(src *blockTexels, sel *Selectors, frac *[4]int64, den int64) (e0, e1 [3]int32, ok bool) {
	var a, b, c int64
	var x0, x1 [3]int64
	for i := 0; i < BlockTexels; i++ {
		if !src.fit[i] {
			continue
		}
		v := frac[sel[i]&3]
		u := den - v
		a += u * u
		b += u * v
		c += v * v
		for ch := 0; ch < 3; ch++ {
			x := int64(src.rgb[i][ch])
			x0[ch] += u * x
			x1[ch] += v * x
		}
	}

	det := a*c - b*b
	if det <= 0 {
		return e0, e1, false
	}
	for ch := 0; ch < 3; ch++ {
		e0[ch] = int32(clampInt(int(divRound(den*(c*x0[ch]-b*x1[ch]), det)), 0, 255))
		e1[ch] = int32(clampInt(int(divRound(den*(a*x1[ch]-b*x0[ch]), det)), 0, 255))
	}
	return e0, e1, true
}

// divRound divides n by d (d > 0), rounding half away from zero.
func divRound(n, d int64) int64 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return -((-n + d/2) / d)
}
