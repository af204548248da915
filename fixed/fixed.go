package fixed

import (
	"fmt"
	"math/bits"
)

// Add returns a+b, wrapped.
func (f *Format) Add(a, b Fixed) Fixed {
	return f.Wrap(int64(a) + int64(b))
}

// Sub returns a-b, wrapped.
func (f *Format) Sub(a, b Fixed) Fixed {
	return f.Wrap(int64(a) - int64(b))
}

// Mul returns the full signed product shifted right by D bits, wrapped. The
// fractional bits below D are truncated toward negative infinity.
func (f *Format) Mul(a, b Fixed) Fixed {
	return f.Wrap((int64(a) * int64(b)) >> f.frac)
}

// Neg returns -a. The minimum value negates to itself.
func (f *Format) Neg(a Fixed) Fixed {
	return f.Wrap(-int64(a))
}

// Abs returns |a|. The minimum value wraps to itself.
func (f *Format) Abs(a Fixed) Fixed {
	if a < 0 {
		return f.Neg(a)
	}

	return a
}

// Shr performs an arithmetic right shift.
func (f *Format) Shr(a Fixed, n uint) Fixed {
	return f.Wrap(int64(a) >> n)
}

// LeadingZeros counts the zero bits of n from bit B-2 downward. The sign bit
// is not counted. The result is B-1 when all the non-sign bits are zero.
func (f *Format) LeadingZeros(n Fixed) uint {
	payload := f.Encode(n) & (f.mask >> 1)
	if payload == 0 {
		return f.bits - 1
	}

	return f.bits - 1 - uint(bits.Len64(payload))
}

// Floor returns the integer part of x, rounded toward negative infinity and
// wrapped to B-D bits.
func (f *Format) Floor(x Fixed) int64 {
	return signExtend(uint64(int64(x)>>f.frac), f.IntBits())
}

// Encode returns the B-bit two's-complement pattern of x.
func (f *Format) Encode(x Fixed) uint64 {
	return uint64(x) & f.mask
}

// Decode interprets the low B bits of u as a signed value.
func (f *Format) Decode(u uint64) Fixed {
	return Fixed(signExtend(u&f.mask, f.bits))
}

// EncodeString renders the bit pattern of x, most significant bit first.
func (f *Format) EncodeString(x Fixed) string {
	return fmt.Sprintf("%0*b", f.bits, f.Encode(x))
}
