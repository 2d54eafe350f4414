package bc1

import (
	"image/color"
	"math"
)

// transparentAlphaThreshold is the alpha below which a texel counts as transparent when
// transparency forcing is enabled.
const transparentAlphaThreshold = 128

// channelWeights scales the squared difference of each RGB channel.
type channelWeights [3]uint32

var (
	uniformWeights    = channelWeights{1, 1, 1}
	perceptualWeights = channelWeights{3, 6, 1}
)

// blockTexels is the encoder's view of a source block: RGB values plus a fitting mask.
// Texels outside the mask are forced to selector 3 and do not contribute error.
type blockTexels struct {
	rgb      [BlockTexels][3]int32
	fit      [BlockTexels]bool
	fitCount int
}

func loadBlockTexels(src *Pixels, forceTransparent bool, dst *blockTexels) {
	dst.fitCount = 0
	for i := 0; i < BlockTexels; i++ {
		off := i * 4
		dst.rgb[i] = [3]int32{int32(src[off+0]), int32(src[off+1]), int32(src[off+2])}
		fit := !forceTransparent || src[off+3] >= transparentAlphaThreshold
		dst.fit[i] = fit
		if fit {
			dst.fitCount++
		}
	}
}

func texelError(a, b *[3]int32, w channelWeights) uint32 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return w[0]*uint32(dr*dr) + w[1]*uint32(dg*dg) + w[2]*uint32(db*db)
}

// assignSelectors picks, for every fitting texel, the nearest of the first count palette
// entries (lowest index on ties) and returns the summed error.
func assignSelectors(src *blockTexels, pal *[4][3]int32, count int, w channelWeights, sel *Selectors) uint32 {
	var total uint32
	for i := 0; i < BlockTexels; i++ {
		if !src.fit[i] {
			sel[i] = 3
			continue
		}
		best := uint32(math.MaxUint32)
		bestIdx := 0
		for j := 0; j < count; j++ {
			if e := texelError(&src.rgb[i], &pal[j], w); e < best {
				best = e
				bestIdx = j
			}
		}
		sel[i] = uint8(bestIdx)
		total += best
	}
	return total
}

// scoreSelectors returns the error of a fixed selector assignment.
func scoreSelectors(src *blockTexels, pal *[4][3]int32, w channelWeights, sel *Selectors) uint32 {
	var total uint32
	for i := 0; i < BlockTexels; i++ {
		if !src.fit[i] {
			continue
		}
		total += texelError(&src.rgb[i], &pal[sel[i]&3], w)
	}
	return total
}

// AssignSelectors maps every texel of src to the nearest entry of palette (2 to 4 colors) by
// squared RGB distance and returns the selectors with the total squared error. Ties go to
// the lowest palette index. Alpha is ignored.
func AssignSelectors(src *Pixels, palette []color.RGBA) (Selectors, uint32) {
	var (
		texels blockTexels
		pal    [4][3]int32
		sel    Selectors
	)
	loadBlockTexels(src, false, &texels)

	count := len(palette)
	if count > 4 {
		count = 4
	}
	for i := 0; i < count; i++ {
		pal[i] = [3]int32{int32(palette[i].R), int32(palette[i].G), int32(palette[i].B)}
	}
	if count == 0 {
		return sel, 0
	}

	total := assignSelectors(&texels, &pal, count, uniformWeights, &sel)
	return sel, total
}
