package bc1

// ApproxMode selects which hardware's interpolation rounding the codec reproduces.
//
// The numeric values are stable and stored by callers; they must not be
// reordered.
type ApproxMode uint8

const (
	// ApproxIdeal uses exact truncating thirds and halves of the expanded endpoints.
	ApproxIdeal ApproxMode = 0
	// ApproxNVidia emulates NVIDIA hardware, which interpolates 5-bit channels before
	// expansion and uses a fixed-point approximation for 6-bit green.
	ApproxNVidia ApproxMode = 1
	// ApproxAMD emulates AMD hardware (fixed-point 43/64 and 21/64 weights).
	ApproxAMD ApproxMode = 2
	// ApproxIdealRound4 rounds the ideal thirds to nearest instead of truncating.
	ApproxIdealRound4 ApproxMode = 3
)

func (m ApproxMode) String() string {
	switch m {
	case ApproxIdeal:
		return "ideal"
	case ApproxNVidia:
		return "nvidia"
	case ApproxAMD:
		return "amd"
	case ApproxIdealRound4:
		return "ideal-round4"
	default:
		return "unknown"
	}
}

func (m ApproxMode) valid() bool {
	return m <= ApproxIdealRound4
}

// RoundingPolicy is the per-hardware interpolation rule. Channel values passed in are the raw
// quantized endpoint fields (bits is 5 for red/blue and 6 for green); results are 8-bit.
//
// Implementations must be pure: the encoder tabulates them once per mode and the decoder calls
// them directly, and the two must agree bit for bit.
type RoundingPolicy interface {
	Mode() ApproxMode

	// Quantize rounds an 8-bit channel value to a bits-wide endpoint field.
	Quantize(v uint8, bits uint) uint8

	// Interpolate returns the palette value two thirds of the way from v1 to v0
	// (that is, 2/3*v0 + 1/3*v1).
	Interpolate(v0, v1 uint8, bits uint) uint8

	// Midpoint returns the 3-color palette value halfway between v0 and v1.
	Midpoint(v0, v1 uint8, bits uint) uint8
}

// PolicyFor returns the rounding policy for mode. Unknown modes fall back to ApproxIdeal.
func PolicyFor(mode ApproxMode) RoundingPolicy {
	switch mode {
	case ApproxNVidia:
		return nvidiaRounding{}
	case ApproxAMD:
		return amdRounding{}
	case ApproxIdealRound4:
		return idealRounding{round: true}
	default:
		return idealRounding{}
	}
}

func expandField(v uint8, bits uint) int {
	if bits == 6 {
		return int(Expand6(v))
	}
	return int(Expand5(v))
}

// nearestQuantizer is shared by every policy: endpoint expansion is bit replication on all
// supported hardware, so the nearest field is the same regardless of interpolation rule.
type nearestQuantizer struct{}

func (nearestQuantizer) Quantize(v uint8, bits uint) uint8 {
	if bits == 6 {
		return Quantize6(v)
	}
	return Quantize5(v)
}

type idealRounding struct {
	nearestQuantizer
	round bool
}

func (p idealRounding) Mode() ApproxMode {
	if p.round {
		return ApproxIdealRound4
	}
	return ApproxIdeal
}

func (p idealRounding) Interpolate(v0, v1 uint8, bits uint) uint8 {
	a := expandField(v0, bits)
	b := expandField(v1, bits)
	if p.round {
		return uint8((2*a + b + 1) / 3)
	}
	return uint8((2*a + b) / 3)
}

// Midpoint truncates in both ideal variants; only the thirds are rounded.
func (idealRounding) Midpoint(v0, v1 uint8, bits uint) uint8 {
	a := expandField(v0, bits)
	b := expandField(v1, bits)
	return uint8((a + b) / 2)
}

type nvidiaRounding struct {
	nearestQuantizer
}

func (nvidiaRounding) Mode() ApproxMode { return ApproxNVidia }

func (nvidiaRounding) Interpolate(v0, v1 uint8, bits uint) uint8 {
	if bits == 6 {
		a := int(Expand6(v0))
		d := int(Expand6(v1)) - a
		// Go's / truncates toward zero and >> on int is arithmetic, matching the hardware model.
		return uint8((256*a + d/4 + 128 + d*80) >> 8)
	}
	return uint8(((2*int(v0&31) + int(v1&31)) * 22) / 8)
}

func (nvidiaRounding) Midpoint(v0, v1 uint8, bits uint) uint8 {
	if bits == 6 {
		a := int(Expand6(v0))
		d := int(Expand6(v1)) - a
		return uint8((256*a + d/4 + 128 + d*128) >> 8)
	}
	return uint8(((int(v0&31) + int(v1&31)) * 33) / 8)
}

type amdRounding struct {
	nearestQuantizer
}

func (amdRounding) Mode() ApproxMode { return ApproxAMD }

func (amdRounding) Interpolate(v0, v1 uint8, bits uint) uint8 {
	a := expandField(v0, bits)
	b := expandField(v1, bits)
	return uint8((a*43 + b*21 + 32) >> 6)
}

func (amdRounding) Midpoint(v0, v1 uint8, bits uint) uint8 {
	a := expandField(v0, bits)
	b := expandField(v1, bits)
	return uint8((a + b + 1) >> 1)
}
