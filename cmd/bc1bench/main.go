package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/am-sokolov/go-bc1/bc1"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "decode":
		decodeCmd(os.Args[2:])
	case "encode":
		encodeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  bc1bench decode [-in <file.bc1>] -w W -h H [-mode ideal|nvidia|amd|ideal-round4] [-alpha=true|false] [-iters N] [-checksum fnv|none]")
	fmt.Fprintln(os.Stderr, "  bc1bench encode -w W -h H [-mode ideal|nvidia|amd|ideal-round4] [-level 0..18] [-3color] [-transparent-black] [-perceptual] [-iters N] [-out file.bc1] [-checksum fnv|none]")
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var (
		inPath      string
		width       int
		height      int
		mode        string
		setAlpha    bool
		iters       int
		checksumOpt string
		cpuprofile  string
		memprofile  string
		memprofRate int
	)
	fs.StringVar(&inPath, "in", "", "input raw .bc1 block stream (default: encode a synthetic pattern)")
	fs.IntVar(&width, "w", 1024, "image width")
	fs.IntVar(&height, "h", 1024, "image height")
	fs.StringVar(&mode, "mode", "ideal", "approximation mode: ideal|nvidia|amd|ideal-round4")
	fs.BoolVar(&setAlpha, "alpha", true, "decode 3-color selector 3 as transparent black")
	fs.IntVar(&iters, "iters", 200, "iterations")
	fs.StringVar(&checksumOpt, "checksum", "fnv", "checksum: fnv|none (for benchmarking)")
	fs.StringVar(&cpuprofile, "cpuprofile", "", "optional CPU profile output path")
	fs.StringVar(&memprofile, "memprofile", "", "optional memory profile output path")
	fs.IntVar(&memprofRate, "memprofilerate", 0, "optional runtime.MemProfileRate override (0 = default)")
	_ = fs.Parse(args)

	modeVal, err := parseMode(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if width <= 0 || height <= 0 {
		fmt.Fprintln(os.Stderr, "w and h must be > 0")
		os.Exit(2)
	}
	if iters <= 0 {
		fmt.Fprintln(os.Stderr, "iters must be > 0")
		os.Exit(2)
	}

	var blocks []byte
	if inPath != "" {
		blocks, err = os.ReadFile(inPath)
	} else {
		pix := make([]byte, width*height*4)
		fillPatternRGBA8(pix, width, height)
		blocks, err = bc1.EncodeRGBA8(bc1.MustInitialize(modeVal), pix, width, height, bc1.DefaultOptions())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if memprofRate > 0 {
		runtime.MemProfileRate = memprofRate
	}
	stopProfile := startCPUProfile(cpuprofile)
	defer stopProfile()

	start := time.Now()
	var checksum uint64
	doChecksum := strings.ToLower(strings.TrimSpace(checksumOpt)) != "none"
	for i := 0; i < iters; i++ {
		dst, err := bc1.DecodeRGBA8(blocks, width, height, setAlpha, modeVal)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if doChecksum {
			checksum = fnv1a64(checksum, dst)
		}
	}
	dur := time.Since(start)

	writeMemProfile(memprofile)

	texels := float64(width*height) * float64(iters)
	mpixPerS := texels / dur.Seconds() / 1e6

	checksumStr := fmtChecksum(checksum)
	if !doChecksum {
		checksumStr = "none"
	}
	fmt.Printf("RESULT mode=decode approx=%s size=%dx%d iters=%d seconds=%.6f mpix/s=%.3f checksum=%s\n",
		modeVal,
		width, height,
		iters,
		dur.Seconds(),
		mpixPerS,
		checksumStr,
	)
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var (
		width            int
		height           int
		mode             string
		level            int
		allow3Color      bool
		transparentBlack bool
		perceptual       bool
		iters            int
		outPath          string
		checksumOpt      string
		cpuprofile       string
		memprofile       string
	)
	fs.IntVar(&width, "w", 256, "image width")
	fs.IntVar(&height, "h", 256, "image height")
	fs.StringVar(&mode, "mode", "ideal", "approximation mode: ideal|nvidia|amd|ideal-round4")
	fs.IntVar(&level, "level", bc1.DefaultLevel, "quality level 0..18")
	fs.BoolVar(&allow3Color, "3color", true, "allow 3-color blocks for opaque texels")
	fs.BoolVar(&transparentBlack, "transparent-black", false, "encode texels with alpha < 128 as transparent black")
	fs.BoolVar(&perceptual, "perceptual", false, "weight channel error 3:6:1")
	fs.IntVar(&iters, "iters", 5, "iterations")
	fs.StringVar(&outPath, "out", "", "optional output raw .bc1 path (last iteration)")
	fs.StringVar(&checksumOpt, "checksum", "fnv", "checksum: fnv|none (for benchmarking)")
	fs.StringVar(&cpuprofile, "cpuprofile", "", "optional CPU profile output path")
	fs.StringVar(&memprofile, "memprofile", "", "optional memory profile output path")
	_ = fs.Parse(args)

	modeVal, err := parseMode(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	opts := bc1.Options{
		Level:                    level,
		Allow3Color:              allow3Color,
		ForceBlackForTransparent: transparentBlack,
		Perceptual:               perceptual,
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if width <= 0 || height <= 0 {
		fmt.Fprintln(os.Stderr, "w and h must be > 0")
		os.Exit(2)
	}
	if iters <= 0 {
		fmt.Fprintln(os.Stderr, "iters must be > 0")
		os.Exit(2)
	}

	tbl, err := bc1.Initialize(modeVal)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	pix := make([]byte, width*height*4)
	fillPatternRGBA8(pix, width, height)

	stopProfile := startCPUProfile(cpuprofile)
	defer stopProfile()

	start := time.Now()
	var checksum uint64
	doChecksum := strings.ToLower(strings.TrimSpace(checksumOpt)) != "none"
	var last []byte
	for i := 0; i < iters; i++ {
		out, err := bc1.EncodeRGBA8(tbl, pix, width, height, opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if doChecksum {
			checksum = fnv1a64(checksum, out)
		}
		last = out
	}
	dur := time.Since(start)

	writeMemProfile(memprofile)

	if outPath != "" {
		if err := os.WriteFile(outPath, last, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	dec, err := bc1.DecodeRGBA8(last, width, height, transparentBlack, modeVal)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	texels := float64(width*height) * float64(iters)
	mpixPerS := texels / dur.Seconds() / 1e6

	checksumStr := fmtChecksum(checksum)
	if !doChecksum {
		checksumStr = "none"
	}
	fmt.Printf("RESULT mode=encode approx=%s level=%d size=%dx%d iters=%d seconds=%.6f mpix/s=%.3f rgb_mse=%.4f checksum=%s\n",
		modeVal,
		level,
		width, height,
		iters,
		dur.Seconds(),
		mpixPerS,
		rgbMSE(pix, dec),
		checksumStr,
	)
}

func startCPUProfile(path string) func() {
	if path == "" {
		return func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}
}

func writeMemProfile(path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
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

func fillPatternRGBA8(pix []byte, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			off := (y*width + x) * 4
			pix[off+0] = uint8(x*3 + y*5)
			pix[off+1] = uint8(x*11 + y*13)
			pix[off+2] = uint8(x ^ y)
			pix[off+3] = uint8(255 - (x*5+y*7)&0xFF)
		}
	}
}

func rgbMSE(a, b []byte) float64 {
	var sum uint64
	for i := 0; i+3 < len(a); i += 4 {
		for c := 0; c < 3; c++ {
			d := int64(a[i+c]) - int64(b[i+c])
			sum += uint64(d * d)
		}
	}
	return float64(sum) / float64(len(a)/4*3)
}

func fnv1a64(seed uint64, data []byte) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := seed
	if h == 0 {
		h = offset64
	}
	for _, b := range data {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}

func fmtChecksum(v uint64) string {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[7-i] = byte(v >> uint(i*8))
	}
	return hex.EncodeToString(b[:])
}
