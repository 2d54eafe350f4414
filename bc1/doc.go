// Package bc1 encodes and decodes BC1 (DXT1) texture blocks: 4x4 RGBA8 texels stored as two
// RGB565 endpoints and sixteen 2-bit selectors.
//
// Decoding reproduces the interpolation rounding of several hardware families (see
// ApproxMode). Encoding needs the per-mode tables returned by Initialize; a *Tables is
// immutable and may be used from any number of goroutines.
package bc1
