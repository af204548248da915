package fixed

import "math"

const (
	recipIndexBits = 6
	recipTableSize = 1 << recipIndexBits
)

// buildInvSqrtSeeds fills the seed table indexed by LeadingZeros. For a count
// of lz, the seed approximates 1/sqrt(3·2^(B-2-lz)) in raw units.
func (f *Format) buildInvSqrtSeeds() {
	f.invSqrtSeeds = make([]Fixed, f.bits)

	for lz := uint(0); lz+2 <= f.bits; lz++ {
		raw := float64(uint64(3) << (f.bits - 2 - lz))
		f.invSqrtSeeds[lz] = f.FromFloat(1 / math.Sqrt(f.Float(Fixed(raw))))
	}

	f.invSqrtSeeds[f.bits-1] = f.FromFloat(1 / math.Sqrt(f.Float(1)))
}

// buildRecipTables fills the two reciprocal seed tables. Entry i covers the
// inputs whose six most significant fractional bits equal i.
func (f *Format) buildRecipTables() {
	for i := 0; i < recipTableSize; i++ {
		if i == 0 {
			f.recipDouble[i] = f.one
			f.recipSquare[i] = f.one

			continue
		}

		x := f.Float(Fixed(int64(i) << (f.frac - recipIndexBits)))
		f.recipDouble[i] = f.saturatingFromFloat(2 / x)
		f.recipSquare[i] = f.saturatingFromFloat((1 / x) * (1 / x))
	}
}

// saturatingFromFloat converts like FromFloat but clamps values above Max.
// Only 1/x² at index 1 overflows, and only in the narrow formats.
func (f *Format) saturatingFromFloat(v float64) Fixed {
	if v >= f.Float(f.Max()) {
		return f.Max()
	}

	return f.FromFloat(v)
}

// InvSqrt approximates 1/sqrt(x) for x > 0. The seed is picked by the
// magnitude of x and refined by exactly one Newton-Raphson step. Non-positive
// inputs produce an unspecified value.
func (f *Format) InvSqrt(x Fixed) Fixed {
	y0 := f.invSqrtSeeds[f.LeadingZeros(x)]
	halfX := f.Shr(x, 1)

	return f.Mul(y0, f.Sub(f.threeHalves, f.Mul(halfX, f.Mul(y0, y0))))
}

// RecipUnit approximates 1/x for x in (-1, 1). The error grows without bound
// as x approaches zero.
func (f *Format) RecipUnit(x Fixed) Fixed {
	idx := (int64(f.Abs(x)) >> (f.frac - recipIndexBits)) & (recipTableSize - 1)

	y0Double := f.recipDouble[idx]
	if x <= 0 {
		y0Double = f.Neg(y0Double)
	}

	return f.Sub(y0Double, f.Mul(x, f.recipSquare[idx]))
}
