// Package fixed provides the bit-exact fixed-point arithmetic used by the
// voxel traversal unit.
//
// A Format describes a signed Q-format number with B total bits and D
// fractional bits. Values are always kept in canonical form, that is, the
// signed interpretation of the low B bits. All arithmetic wraps around modulo
// 2^B and never saturates.
package fixed

import (
	"fmt"
	"math"
)

// Fixed is a fixed-point scalar. Its meaning depends on the Format that
// produced it.
type Fixed int64

// A Format defines the bit width and the number of fractional bits of a
// fixed-point representation.
type Format struct {
	bits uint
	frac uint
	mask uint64

	one         Fixed
	threeHalves Fixed

	invSqrtSeeds []Fixed
	recipDouble  [recipTableSize]Fixed
	recipSquare  [recipTableSize]Fixed
}

// Q15 is the 32-bit format with 15 fractional bits.
var Q15 = MustFormat(32, 15)

// Q8 is the 20-bit format with 8 fractional bits. The traversal unit uses it
// by default.
var Q8 = MustFormat(20, 8)

// NewFormat creates a format with b total bits and d fractional bits. The
// lookup tables used by InvSqrt and RecipUnit are generated once here.
func NewFormat(b, d uint) (*Format, error) {
	if b < 2 || b > 32 {
		return nil, fmt.Errorf("fixed: total width %d out of range [2, 32]", b)
	}

	if d > b {
		return nil, fmt.Errorf("fixed: %d fractional bits exceed width %d", d, b)
	}

	if d < recipIndexBits {
		return nil, fmt.Errorf(
			"fixed: at least %d fractional bits are required, got %d",
			recipIndexBits, d)
	}

	f := &Format{
		bits: b,
		frac: d,
		mask: (uint64(1) << b) - 1,
	}

	f.one = f.Wrap(1 << d)
	f.threeHalves = f.FromFloat(1.5)
	f.buildInvSqrtSeeds()
	f.buildRecipTables()

	return f, nil
}

// MustFormat is NewFormat that panics on invalid parameters.
func MustFormat(b, d uint) *Format {
	f, err := NewFormat(b, d)
	if err != nil {
		panic(err)
	}

	return f
}

// Bits returns the total width B.
func (f *Format) Bits() uint {
	return f.bits
}

// FracBits returns the number of fractional bits D.
func (f *Format) FracBits() uint {
	return f.frac
}

// IntBits returns B-D, the width of a grid coordinate produced by Floor.
func (f *Format) IntBits() uint {
	return f.bits - f.frac
}

// String returns the format in Q notation.
func (f *Format) String() string {
	return fmt.Sprintf("Q%d.%d", f.bits-f.frac, f.frac)
}

// One returns the value 1.0.
func (f *Format) One() Fixed {
	return f.one
}

// Max returns the largest representable value.
func (f *Format) Max() Fixed {
	return Fixed(int64(1)<<(f.bits-1) - 1)
}

// Min returns the smallest representable value.
func (f *Format) Min() Fixed {
	return Fixed(-(int64(1) << (f.bits - 1)))
}

// Wrap reduces v modulo 2^B and returns its signed interpretation.
func (f *Format) Wrap(v int64) Fixed {
	return Fixed(signExtend(uint64(v)&f.mask, f.bits))
}

// FromFloat converts a real number, truncating toward zero.
func (f *Format) FromFloat(v float64) Fixed {
	scaled := math.Trunc(v * math.Ldexp(1, int(f.frac)))

	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return 0
	}

	if math.Abs(scaled) >= math.Ldexp(1, 62) {
		scaled = math.Mod(scaled, math.Ldexp(1, int(f.bits)))
	}

	return f.Wrap(int64(scaled))
}

// FromInt converts an integer to fixed point.
func (f *Format) FromInt(v int64) Fixed {
	return f.Wrap(v << f.frac)
}

// Float converts x back to a real number.
func (f *Format) Float(x Fixed) float64 {
	return math.Ldexp(float64(x), -int(f.frac))
}

func signExtend(u uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(u<<shift) >> shift
}
