package bc1

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// EncodeBlockInto compresses the 64-byte RGBA8 block in src into the 8-byte dst.
func EncodeBlockInto(t *Tables, dst, src []byte, opts Options) error {
	if t == nil {
		return newError(ErrBadParam, "bc1: nil tables")
	}
	if len(src) != BlockTexels*4 || len(dst) != BlockBytes {
		return newError(ErrBadBlockSize, "bc1: invalid block buffer length")
	}
	var px Pixels
	copy(px[:], src)
	block := t.EncodeBlock(&px, opts)
	copy(dst, block[:])
	return nil
}

// DecodeBlockInto decodes the 8-byte block in src into the 64-byte RGBA8 dst.
func DecodeBlockInto(dst, src []byte, setAlpha bool, mode ApproxMode) error {
	if len(src) != BlockBytes || len(dst) != BlockTexels*4 {
		return newError(ErrBadBlockSize, "bc1: invalid block buffer length")
	}
	decodeBlockRGBA8(PolicyFor(mode), src, setAlpha, dst)
	return nil
}

// BlockCount returns the number of blocks covering a width x height image.
func BlockCount(width, height int) (blocksX, blocksY, total int) {
	if width <= 0 || height <= 0 {
		return 0, 0, 0
	}
	blocksX = (width + BlockDim - 1) / BlockDim
	blocksY = (height + BlockDim - 1) / BlockDim
	return blocksX, blocksY, blocksX * blocksY
}

// EncodeRGBA8 encodes a row-major RGBA8 image into a raw stream of BC1 blocks in row-major
// block order. Partial edge blocks repeat the last row and column.
func EncodeRGBA8(t *Tables, pix []byte, width, height int, opts Options) ([]byte, error) {
	if t == nil {
		return nil, newError(ErrBadParam, "bc1: nil tables")
	}
	if width <= 0 || height <= 0 {
		return nil, newError(ErrBadDimensions, "bc1: invalid image dimensions")
	}
	if len(pix) != width*height*4 {
		return nil, newError(ErrBadBlockSize, "bc1: invalid RGBA8 buffer length")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	params := opts.params()
	blocksX, _, totalBlocks := BlockCount(width, height)
	out := make([]byte, totalBlocks*BlockBytes)

	encodeAt := func(idx int, px *Pixels) {
		bx := idx % blocksX
		by := idx / blocksX
		extractBlockRGBA8(pix, width, height, bx*BlockDim, by*BlockDim, px)
		block := t.encodeBlock(px, &params)
		copy(out[idx*BlockBytes:(idx+1)*BlockBytes], block[:])
	}

	procs := workerCount(totalBlocks)

	// Small images are faster to encode sequentially.
	if procs == 1 || totalBlocks < 32 {
		var px Pixels
		for idx := 0; idx < totalBlocks; idx++ {
			encodeAt(idx, &px)
		}
		return out, nil
	}

	var next uint32
	var wg sync.WaitGroup
	wg.Add(procs)
	for w := 0; w < procs; w++ {
		go func() {
			defer wg.Done()
			var px Pixels
			for {
				idx := int(atomic.AddUint32(&next, 1) - 1)
				if idx >= totalBlocks {
					return
				}
				encodeAt(idx, &px)
			}
		}()
	}
	wg.Wait()
	return out, nil
}

// DecodeRGBA8 decodes a raw BC1 block stream into a width x height RGBA8 image.
func DecodeRGBA8(blocks []byte, width, height int, setAlpha bool, mode ApproxMode) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, newError(ErrBadDimensions, "bc1: invalid image dimensions")
	}
	blocksX, _, totalBlocks := BlockCount(width, height)
	if len(blocks) != totalBlocks*BlockBytes {
		return nil, newError(ErrBadBlockSize, "bc1: invalid block stream length")
	}

	p := PolicyFor(mode)
	out := make([]byte, width*height*4)

	decodeAt := func(idx int, px *Pixels) {
		bx := idx % blocksX
		by := idx / blocksX
		decodeBlockRGBA8(p, blocks[idx*BlockBytes:(idx+1)*BlockBytes], setAlpha, px[:])
		storeBlockRGBA8(out, width, height, bx*BlockDim, by*BlockDim, px)
	}

	procs := workerCount(totalBlocks)
	if procs == 1 || totalBlocks < 256 {
		var px Pixels
		for idx := 0; idx < totalBlocks; idx++ {
			decodeAt(idx, &px)
		}
		return out, nil
	}

	var next uint32
	var wg sync.WaitGroup
	wg.Add(procs)
	for w := 0; w < procs; w++ {
		go func() {
			defer wg.Done()
			var px Pixels
			for {
				idx := int(atomic.AddUint32(&next, 1) - 1)
				if idx >= totalBlocks {
					return
				}
				decodeAt(idx, &px)
			}
		}()
	}
	wg.Wait()
	return out, nil
}

func workerCount(totalBlocks int) int {
	procs := runtime.GOMAXPROCS(0)
	if procs < 1 {
		procs = 1
	}
	if procs > totalBlocks {
		procs = totalBlocks
	}
	return procs
}

func extractBlockRGBA8(pix []byte, width, height, x0, y0 int, dst *Pixels) {
	for by := 0; by < BlockDim; by++ {
		y := y0 + by
		if y >= height {
			y = height - 1
		}
		row := y * width * 4
		for bx := 0; bx < BlockDim; bx++ {
			x := x0 + bx
			if x >= width {
				x = width - 1
			}
			src := row + x*4
			copy(dst[(by*BlockDim+bx)*4:], pix[src:src+4])
		}
	}
}

// storeBlockRGBA8 writes the part of a decoded block that lies inside the image.
func storeBlockRGBA8(dst []byte, width, height, x0, y0 int, px *Pixels) {
	for by := 0; by < BlockDim; by++ {
		y := y0 + by
		if y >= height {
			return
		}
		n := BlockDim
		if x0+n > width {
			n = width - x0
		}
		off := (y*width + x0) * 4
		copy(dst[off:off+n*4], px[by*BlockDim*4:(by*BlockDim+n)*4])
	}
}
