package bc1

import (
	"encoding/binary"
	"image/color"
)

const (
	// BlockBytes is the size in bytes of a single BC1 block.
	BlockBytes = 8

	// BlockTexels is the number of texels in a 4x4 block.
	BlockTexels = 16

	// BlockDim is the width and height of a block in texels.
	BlockDim = 4
)

// Pixels is a 4x4 block of RGBA8 texels in row-major order, four bytes per texel.
// Texel 0 is the top-left corner and texel 15 the bottom-right.
type Pixels [BlockTexels * 4]byte

// At returns texel i (0..15).
func (p *Pixels) At(i int) color.RGBA {
	off := i * 4
	return color.RGBA{R: p[off+0], G: p[off+1], B: p[off+2], A: p[off+3]}
}

// Set stores c as texel i (0..15).
func (p *Pixels) Set(i int, c color.RGBA) {
	off := i * 4
	p[off+0] = c.R
	p[off+1] = c.G
	p[off+2] = c.B
	p[off+3] = c.A
}

// Selectors holds one 2-bit palette index per texel in row-major order.
type Selectors [BlockTexels]uint8

// PackBlock assembles the 8-byte wire form from two endpoint words and 16 selectors.
//
// The endpoint order is written as given; it is the caller's job to respect the c0 > c1
// 4-color rule.
func PackBlock(c0, c1 uint16, sel *Selectors) (out [BlockBytes]byte) {
	binary.LittleEndian.PutUint16(out[0:2], c0)
	binary.LittleEndian.PutUint16(out[2:4], c1)
	var bits uint32
	for i := BlockTexels - 1; i >= 0; i-- {
		bits = bits<<2 | uint32(sel[i]&3)
	}
	binary.LittleEndian.PutUint32(out[4:8], bits)
	return out
}

// UnpackBlock splits the 8-byte wire form into its endpoint words and selectors.
func UnpackBlock(block *[BlockBytes]byte) (c0, c1 uint16, sel Selectors) {
	c0 = binary.LittleEndian.Uint16(block[0:2])
	c1 = binary.LittleEndian.Uint16(block[2:4])
	bits := binary.LittleEndian.Uint32(block[4:8])
	for i := 0; i < BlockTexels; i++ {
		sel[i] = uint8(bits>>(2*uint(i))) & 3
	}
	return c0, c1, sel
}

// DecodeBlock reconstructs the 16 texels of a BC1 block.
//
// In 3-color blocks (c0 <= c1) selector 3 decodes to transparent black when setAlpha is set;
// otherwise it decodes to the opaque midpoint color. Every other texel is opaque. Decoding
// needs no prior Initialize call.
func DecodeBlock(block *[BlockBytes]byte, setAlpha bool, mode ApproxMode) (out Pixels) {
	decodeBlockRGBA8(PolicyFor(mode), block[:], setAlpha, out[:])
	return out
}

// decodeBlockRGBA8 writes 16 RGBA8 texels into out, which must hold at least 64 bytes.
func decodeBlockRGBA8(p RoundingPolicy, block []byte, setAlpha bool, out []byte) {
	c0 := binary.LittleEndian.Uint16(block[0:2])
	c1 := binary.LittleEndian.Uint16(block[2:4])
	bits := binary.LittleEndian.Uint32(block[4:8])

	pal, count := Palette(p, c0, c1)
	if count == 3 && !setAlpha {
		pal[3] = pal[2]
	}

	_ = out[BlockTexels*4-1]
	for i := 0; i < BlockTexels; i++ {
		c := pal[(bits>>(2*uint(i)))&3]
		off := i * 4
		out[off+0] = c.R
		out[off+1] = c.G
		out[off+2] = c.B
		out[off+3] = c.A
	}
}
