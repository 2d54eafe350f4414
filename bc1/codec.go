package bc1

// SelectorOverride optionally fixes the selector of every texel. The zero value means the
// encoder chooses selectors itself.
type SelectorOverride struct {
	sel Selectors
	set bool
}

// ForceSelectors returns an override that pins the encoder to sel. Values are taken modulo 4
// and use the 4-color palette order (0=c0, 1=c1, 2=2/3 c0+1/3 c1, 3=1/3 c0+2/3 c1).
func ForceSelectors(sel Selectors) SelectorOverride {
	for i := range sel {
		sel[i] &= 3
	}
	return SelectorOverride{sel: sel, set: true}
}

// Get returns the forced selectors and whether the override is active.
func (o SelectorOverride) Get() (Selectors, bool) { return o.sel, o.set }

// Options controls block encoding.
type Options struct {
	// Level selects how much of the refinement schedule runs, 0 (fastest) to MaxLevel.
	// Out-of-range values are clamped by the encoder and rejected by Validate.
	Level int

	// Allow3Color lets opaque blocks use the 3-color layout when it is strictly better.
	Allow3Color bool

	// ForceBlackForTransparent writes texels with alpha < 128 as selector 3 of a 3-color
	// block, which decodes as transparent black.
	ForceBlackForTransparent bool

	// Perceptual weights the channel error 3:6:1 (R:G:B) instead of uniformly.
	Perceptual bool

	// ForcedSelectors, when set, fixes every texel's selector; only endpoints are searched.
	ForcedSelectors SelectorOverride
}

// DefaultOptions returns the options used by the command line tools.
func DefaultOptions() Options {
	return Options{
		Level:       DefaultLevel,
		Allow3Color: true,
	}
}

// Validate reports options the encoder would otherwise silently adjust.
func (o Options) Validate() error {
	if o.Level < 0 || o.Level > MaxLevel {
		return newError(ErrBadLevel, "bc1: level out of range")
	}
	return nil
}

func (o Options) params() encodeParams {
	p := encodeParams{
		tune:             searchTuningFor(o.Level, o.Perceptual),
		allow3Color:      o.Allow3Color,
		forceTransparent: o.ForceBlackForTransparent,
	}
	if o.ForcedSelectors.set {
		sel := o.ForcedSelectors.sel
		p.forced = &sel
	}
	return p
}

// EncodeBlock compresses one 4x4 RGBA8 block. It never fails; the level is clamped to
// [0, MaxLevel].
func (t *Tables) EncodeBlock(src *Pixels, opts Options) [BlockBytes]byte {
	p := opts.params()
	return t.encodeBlock(src, &p)
}

// Encode is EncodeBlock with the options spelled out.
func (t *Tables) Encode(level int, src *Pixels, allow3Color, forceBlackForTransparent bool, forced SelectorOverride) [BlockBytes]byte {
	return t.EncodeBlock(src, Options{
		Level:                    level,
		Allow3Color:              allow3Color,
		ForceBlackForTransparent: forceBlackForTransparent,
		ForcedSelectors:          forced,
	})
}
