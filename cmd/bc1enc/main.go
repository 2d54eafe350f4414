package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"github.com/am-sokolov/go-bc1/bc1"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func main() {
	var (
		inPath           string
		outPath          string
		mode             string
		level            int
		width            int
		height           int
		maxDim           int
		allow3Color      bool
		transparentBlack bool
		perceptual       bool
		setAlpha         bool
		encode           bool
		decode           bool
		dumpBlock        bool
	)

	flag.StringVar(&inPath, "in", "", "input file")
	flag.StringVar(&outPath, "out", "", "output file")
	flag.StringVar(&mode, "mode", "ideal", "approximation mode: ideal|nvidia|amd|ideal-round4")
	flag.IntVar(&level, "level", bc1.DefaultLevel, "encode quality level 0..18")
	flag.IntVar(&width, "w", 0, "image width of a raw .bc1 input")
	flag.IntVar(&height, "h", 0, "image height of a raw .bc1 input")
	flag.IntVar(&maxDim, "max", 0, "downscale the input so neither side exceeds this many pixels (0 = keep)")
	flag.BoolVar(&allow3Color, "3color", true, "allow 3-color blocks for opaque texels")
	flag.BoolVar(&transparentBlack, "transparent-black", false, "encode texels with alpha < 128 as transparent black")
	flag.BoolVar(&perceptual, "perceptual", false, "weight channel error 3:6:1")
	flag.BoolVar(&setAlpha, "alpha", true, "decode 3-color selector 3 as transparent black")
	flag.BoolVar(&encode, "encode", false, "encode input image -> raw .bc1")
	flag.BoolVar(&decode, "decode", false, "decode raw .bc1 (-w, -h) -> .png")
	flag.BoolVar(&dumpBlock, "dump-first-block", false, "dump the first block of a raw .bc1 input and exit")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: bc1enc -in <input> [-out <output>] [-encode|-decode] [-mode ideal] [-level 10] [-w W -h H]")
		os.Exit(2)
	}

	modeVal, err := parseMode(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if dumpBlock {
		if err := dumpFirstBlock(inPath, modeVal, setAlpha); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if encode == decode {
		fmt.Fprintln(os.Stderr, "specify exactly one of -encode or -decode")
		os.Exit(2)
	}
	if outPath == "" {
		fmt.Fprintln(os.Stderr, "missing -out")
		os.Exit(2)
	}

	if encode {
		opts := bc1.Options{
			Level:                    level,
			Allow3Color:              allow3Color,
			ForceBlackForTransparent: transparentBlack,
			Perceptual:               perceptual,
		}
		w, h, err := encodeFile(inPath, outPath, modeVal, opts, maxDim)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		_, _, blocks := bc1.BlockCount(w, h)
		fmt.Fprintf(os.Stderr, "encoded %dx%d (%d blocks) mode=%s level=%d\n", w, h, blocks, modeVal, level)
		return
	}

	if err := decodeFile(inPath, outPath, width, height, setAlpha, modeVal); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func encodeFile(inPath, outPath string, mode bc1.ApproxMode, opts bc1.Options, maxDim int) (w, h int, err error) {
	if err := opts.Validate(); err != nil {
		return 0, 0, err
	}
	tbl, err := bc1.Initialize(mode)
	if err != nil {
		return 0, 0, err
	}

	rgba, err := loadRGBA(inPath, maxDim)
	if err != nil {
		return 0, 0, err
	}
	w, h = rgba.Rect.Dx(), rgba.Rect.Dy()

	blocks, err := bc1.EncodeRGBA8(tbl, rgba.Pix, w, h, opts)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "encode %s", inPath)
	}
	if err := os.WriteFile(outPath, blocks, 0o644); err != nil {
		return 0, 0, errors.Wrap(err, "write output")
	}
	return w, h, nil
}

// loadRGBA decodes any registered image format into a tightly packed RGBA buffer.
func loadRGBA(path string, maxDim int) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	b := img.Bounds()
	dw, dh := b.Dx(), b.Dy()
	if maxDim > 0 && (dw > maxDim || dh > maxDim) {
		if dw >= dh {
			dh = max(1, dh*maxDim/dw)
			dw = maxDim
		} else {
			dw = max(1, dw*maxDim/dh)
			dh = maxDim
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, dw, dh))
	if dw == b.Dx() && dh == b.Dy() {
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, xdraw.Src, nil)
		fmt.Fprintf(os.Stderr, "scaled %s input %dx%d -> %dx%d\n", format, b.Dx(), b.Dy(), dw, dh)
	}
	return rgba, nil
}

func decodeFile(inPath, outPath string, w, h int, setAlpha bool, mode bc1.ApproxMode) error {
	if w <= 0 || h <= 0 {
		return errors.New("decode requires -w and -h")
	}
	data, err := os.ReadFile(inPath)
	if err != nil {
		return errors.Wrap(err, "read input")
	}
	pix, err := bc1.DecodeRGBA8(data, w, h, setAlpha, mode)
	if err != nil {
		return errors.Wrapf(err, "decode %s as %dx%d", inPath, w, h)
	}
	img := &image.RGBA{
		Pix:    pix,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return errors.Wrap(err, "write png")
	}
	return nil
}

func dumpFirstBlock(inPath string, mode bc1.ApproxMode, setAlpha bool) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return errors.Wrap(err, "read input")
	}
	if len(data) < bc1.BlockBytes {
		return errors.Errorf("bc1: %s holds no complete block", inPath)
	}
	var block [bc1.BlockBytes]byte
	copy(block[:], data)

	c0, c1, sel := bc1.UnpackBlock(&block)
	layout := "3-color"
	if bc1.IsFourColor(c0, c1) {
		layout = "4-color"
	}
	fmt.Println(hex.EncodeToString(block[:]))
	fmt.Printf("c0=%#04x c1=%#04x layout=%s selectors=%v\n", c0, c1, layout, sel)

	px := bc1.DecodeBlock(&block, setAlpha, mode)
	for y := 0; y < bc1.BlockDim; y++ {
		row := make([]string, 0, bc1.BlockDim)
		for x := 0; x < bc1.BlockDim; x++ {
			c := px.At(y*bc1.BlockDim + x)
			row = append(row, fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A))
		}
		fmt.Println(strings.Join(row, " "))
	}
	return nil
}

func parseMode(s string) (bc1.ApproxMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ideal", "0":
		return bc1.ApproxIdeal, nil
	case "nvidia", "nv", "1":
		return bc1.ApproxNVidia, nil
	case "amd", "2":
		return bc1.ApproxAMD, nil
	case "ideal-round4", "round4", "3":
		return bc1.ApproxIdealRound4, nil
	default:
		return 0, fmt.Errorf("invalid -mode %q (want ideal|nvidia|amd|ideal-round4)", s)
	}
}
