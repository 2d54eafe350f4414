package bc1_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/am-sokolov/go-bc1/bc1"
)

func testImage(w, h int, seed int64) []byte {
	rnd := rand.New(rand.NewSource(seed))
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 4
			pix[off+0] = uint8(x*4 + rnd.Intn(8))
			pix[off+1] = uint8(y*4 + rnd.Intn(8))
			pix[off+2] = uint8((x+y)*2 + rnd.Intn(8))
			pix[off+3] = 255
		}
	}
	return pix
}

func TestBlockCount(t *testing.T) {
	cases := []struct {
		w, h      int
		bx, by    int
		wantTotal int
	}{
		{4, 4, 1, 1, 1},
		{5, 4, 2, 1, 2},
		{1, 1, 1, 1, 1},
		{17, 9, 5, 3, 15},
		{0, 4, 0, 0, 0},
	}
	for _, c := range cases {
		bx, by, total := bc1.BlockCount(c.w, c.h)
		if bx != c.bx || by != c.by || total != c.wantTotal {
			t.Fatalf("BlockCount(%d,%d): got (%d,%d,%d) want (%d,%d,%d)", c.w, c.h, bx, by, total, c.bx, c.by, c.wantTotal)
		}
	}
}

func TestEncodeRGBA8_ParallelMatchesSequential(t *testing.T) {
	const (
		w = 64
		h = 48
	)
	pix := testImage(w, h, 1)
	tbl := bc1.MustInitialize(bc1.ApproxIdeal)
	opts := bc1.DefaultOptions()

	got, err := bc1.EncodeRGBA8(tbl, pix, w, h, opts)
	if err != nil {
		t.Fatalf("EncodeRGBA8: %v", err)
	}

	bx, _, total := bc1.BlockCount(w, h)
	if len(got) != total*bc1.BlockBytes {
		t.Fatalf("EncodeRGBA8 length: got %d want %d", len(got), total*bc1.BlockBytes)
	}
	for idx := 0; idx < total; idx++ {
		x0 := (idx % bx) * bc1.BlockDim
		y0 := (idx / bx) * bc1.BlockDim
		var px bc1.Pixels
		for y := 0; y < bc1.BlockDim; y++ {
			off := ((y0+y)*w + x0) * 4
			copy(px[y*16:(y+1)*16], pix[off:off+16])
		}
		want := tbl.EncodeBlock(&px, opts)
		if !bytes.Equal(got[idx*bc1.BlockBytes:(idx+1)*bc1.BlockBytes], want[:]) {
			t.Fatalf("block %d: got %x want %x", idx, got[idx*bc1.BlockBytes:(idx+1)*bc1.BlockBytes], want)
		}
	}
}

func TestEncodeDecodeRGBA8_PartialBlocks(t *testing.T) {
	const (
		w = 7
		h = 5
	)
	pix := testImage(w, h, 2)
	tbl := bc1.MustInitialize(bc1.ApproxAMD)

	blocks, err := bc1.EncodeRGBA8(tbl, pix, w, h, bc1.DefaultOptions())
	if err != nil {
		t.Fatalf("EncodeRGBA8: %v", err)
	}
	if len(blocks) != 4*bc1.BlockBytes {
		t.Fatalf("EncodeRGBA8 length: got %d want %d", len(blocks), 4*bc1.BlockBytes)
	}

	dec, err := bc1.DecodeRGBA8(blocks, w, h, true, bc1.ApproxAMD)
	if err != nil {
		t.Fatalf("DecodeRGBA8: %v", err)
	}
	if len(dec) != len(pix) {
		t.Fatalf("DecodeRGBA8 length: got %d want %d", len(dec), len(pix))
	}

	var sse uint64
	for i := 0; i < len(pix); i += 4 {
		for c := 0; c < 3; c++ {
			d := int64(pix[i+c]) - int64(dec[i+c])
			sse += uint64(d * d)
		}
		if dec[i+3] != 255 {
			t.Fatalf("pixel %d: alpha %d want 255", i/4, dec[i+3])
		}
	}
	// Smooth content with a little noise: well under 8 levels RMS per channel.
	if limit := uint64(w * h * 3 * 64); sse > limit {
		t.Fatalf("SSE %d exceeds %d", sse, limit)
	}
}

func TestDecodeRGBA8_MatchesDecodeBlock(t *testing.T) {
	const (
		w = 128
		h = 64
	)
	rnd := rand.New(rand.NewSource(3))
	_, _, total := bc1.BlockCount(w, h)
	blocks := make([]byte, total*bc1.BlockBytes)
	rnd.Read(blocks)

	dec, err := bc1.DecodeRGBA8(blocks, w, h, true, bc1.ApproxNVidia)
	if err != nil {
		t.Fatalf("DecodeRGBA8: %v", err)
	}

	bx := w / bc1.BlockDim
	for idx := 0; idx < total; idx++ {
		var block [8]byte
		copy(block[:], blocks[idx*bc1.BlockBytes:])
		want := bc1.DecodeBlock(&block, true, bc1.ApproxNVidia)
		x0 := (idx % bx) * bc1.BlockDim
		y0 := (idx / bx) * bc1.BlockDim
		for y := 0; y < bc1.BlockDim; y++ {
			off := ((y0+y)*w + x0) * 4
			if !bytes.Equal(dec[off:off+16], want[y*16:(y+1)*16]) {
				t.Fatalf("block %d row %d: got %x want %x", idx, y, dec[off:off+16], want[y*16:(y+1)*16])
			}
		}
	}
}

func TestSurface_Errors(t *testing.T) {
	tbl := bc1.MustInitialize(bc1.ApproxIdeal)

	cases := []struct {
		name string
		err  error
		want bc1.ErrorCode
	}{
		{"encode nil tables", func() error { _, err := bc1.EncodeRGBA8(nil, make([]byte, 64), 4, 4, bc1.DefaultOptions()); return err }(), bc1.ErrBadParam},
		{"encode zero width", func() error { _, err := bc1.EncodeRGBA8(tbl, nil, 0, 4, bc1.DefaultOptions()); return err }(), bc1.ErrBadDimensions},
		{"encode short buffer", func() error { _, err := bc1.EncodeRGBA8(tbl, make([]byte, 60), 4, 4, bc1.DefaultOptions()); return err }(), bc1.ErrBadBlockSize},
		{"encode bad level", func() error {
			_, err := bc1.EncodeRGBA8(tbl, make([]byte, 64), 4, 4, bc1.Options{Level: -1})
			return err
		}(), bc1.ErrBadLevel},
		{"decode negative height", func() error { _, err := bc1.DecodeRGBA8(nil, 4, -1, true, bc1.ApproxIdeal); return err }(), bc1.ErrBadDimensions},
		{"decode short stream", func() error { _, err := bc1.DecodeRGBA8(make([]byte, 8), 8, 4, true, bc1.ApproxIdeal); return err }(), bc1.ErrBadBlockSize},
		{"encode block short src", bc1.EncodeBlockInto(tbl, make([]byte, 8), make([]byte, 63), bc1.DefaultOptions()), bc1.ErrBadBlockSize},
		{"encode block nil tables", bc1.EncodeBlockInto(nil, make([]byte, 8), make([]byte, 64), bc1.DefaultOptions()), bc1.ErrBadParam},
		{"decode block long dst", bc1.DecodeBlockInto(make([]byte, 65), make([]byte, 8), true, bc1.ApproxIdeal), bc1.ErrBadBlockSize},
		{"decode block ok", bc1.DecodeBlockInto(make([]byte, 64), make([]byte, 8), true, bc1.ApproxIdeal), bc1.Success},
	}
	for _, c := range cases {
		if got := bc1.ErrorCodeOf(c.err); got != c.want {
			t.Fatalf("%s: got %v (%v) want %v", c.name, got, c.err, c.want)
		}
	}
}

func TestEncodeBlockInto_MatchesEncodeBlock(t *testing.T) {
	tbl := bc1.MustInitialize(bc1.ApproxIdealRound4)
	src := testImage(4, 4, 4)

	dst := make([]byte, bc1.BlockBytes)
	if err := bc1.EncodeBlockInto(tbl, dst, src, bc1.DefaultOptions()); err != nil {
		t.Fatalf("EncodeBlockInto: %v", err)
	}
	var px bc1.Pixels
	copy(px[:], src)
	want := tbl.EncodeBlock(&px, bc1.DefaultOptions())
	if !bytes.Equal(dst, want[:]) {
		t.Fatalf("EncodeBlockInto: got %x want %x", dst, want)
	}

	out := make([]byte, bc1.BlockTexels*4)
	if err := bc1.DecodeBlockInto(out, dst, true, bc1.ApproxIdealRound4); err != nil {
		t.Fatalf("DecodeBlockInto: %v", err)
	}
	dec := bc1.DecodeBlock(&want, true, bc1.ApproxIdealRound4)
	if !bytes.Equal(out, dec[:]) {
		t.Fatalf("DecodeBlockInto: got %x want %x", out, dec)
	}
}

func BenchmarkEncodeRGBA8(b *testing.B) {
	const (
		w = 256
		h = 256
	)
	pix := testImage(w, h, 1)
	tbl := bc1.MustInitialize(bc1.ApproxIdeal)
	opts := bc1.DefaultOptions()

	b.SetBytes(int64(len(pix)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := bc1.EncodeRGBA8(tbl, pix, w, h, opts); err != nil {
			b.Fatalf("EncodeRGBA8: %v", err)
		}
	}
}

func BenchmarkDecodeRGBA8(b *testing.B) {
	const (
		w = 256
		h = 256
	)
	pix := testImage(w, h, 1)
	tbl := bc1.MustInitialize(bc1.ApproxIdeal)
	blocks, err := bc1.EncodeRGBA8(tbl, pix, w, h, bc1.DefaultOptions())
	if err != nil {
		b.Fatalf("EncodeRGBA8: %v", err)
	}

	b.SetBytes(int64(len(pix)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := bc1.DecodeRGBA8(blocks, w, h, true, bc1.ApproxIdeal); err != nil {
			b.Fatalf("DecodeRGBA8: %v", err)
		}
	}
}
