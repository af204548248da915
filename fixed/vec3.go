package fixed

import (
	"fmt"
	"strings"
)

// Axis names a vector component.
type Axis int

// The three axes, in encoding order.
const (
	X Axis = iota
	Y
	Z
)

// Axes lists X, Y and Z in order.
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// Vec3 is a triple of fixed-point values of the same format.
type Vec3 [3]Fixed

// Vec3i is a grid coordinate produced by FloorVec. Its components are B-D
// bits wide.
type Vec3i [3]int64

// Vec returns a vector from three real numbers.
func (f *Format) Vec(x, y, z float64) Vec3 {
	return Vec3{f.FromFloat(x), f.FromFloat(y), f.FromFloat(z)}
}

// VecFloats converts v back to real numbers.
func (f *Format) VecFloats(v Vec3) [3]float64 {
	return [3]float64{f.Float(v[X]), f.Float(v[Y]), f.Float(v[Z])}
}

// VAdd adds two vectors component-wise.
func (f *Format) VAdd(a, b Vec3) Vec3 {
	return Vec3{f.Add(a[X], b[X]), f.Add(a[Y], b[Y]), f.Add(a[Z], b[Z])}
}

// VSub subtracts b from a component-wise.
func (f *Format) VSub(a, b Vec3) Vec3 {
	return Vec3{f.Sub(a[X], b[X]), f.Sub(a[Y], b[Y]), f.Sub(a[Z], b[Z])}
}

// VScale multiplies every component by s.
func (f *Format) VScale(v Vec3, s Fixed) Vec3 {
	return Vec3{f.Mul(v[X], s), f.Mul(v[Y], s), f.Mul(v[Z], s)}
}

// VNeg negates every component.
func (f *Format) VNeg(v Vec3) Vec3 {
	return Vec3{f.Neg(v[X]), f.Neg(v[Y]), f.Neg(v[Z])}
}

// VAbs takes the absolute value of every component.
func (f *Format) VAbs(v Vec3) Vec3 {
	return Vec3{f.Abs(v[X]), f.Abs(v[Y]), f.Abs(v[Z])}
}

// Dot computes x + (y + z) over the component products. The grouping matches
// the adder tree of the hardware.
func (f *Format) Dot(a, b Vec3) Fixed {
	x := f.Mul(a[X], b[X])
	y := f.Mul(a[Y], b[Y])
	z := f.Mul(a[Z], b[Z])

	return f.Add(x, f.Add(y, z))
}

// MagnitudeSquared returns v·v.
func (f *Format) MagnitudeSquared(v Vec3) Fixed {
	return f.Dot(v, v)
}

// Cross returns a×b.
func (f *Format) Cross(a, b Vec3) Vec3 {
	return Vec3{
		f.Sub(f.Mul(a[Y], b[Z]), f.Mul(a[Z], b[Y])),
		f.Sub(f.Mul(a[Z], b[X]), f.Mul(a[X], b[Z])),
		f.Sub(f.Mul(a[X], b[Y]), f.Mul(a[Y], b[X])),
	}
}

// Normalize scales v by the approximate inverse of its length.
func (f *Format) Normalize(v Vec3) Vec3 {
	return f.VScale(v, f.InvSqrt(f.Dot(v, v)))
}

// FloorVec returns the grid cell that contains the point v.
func (f *Format) FloorVec(v Vec3) Vec3i {
	return Vec3i{f.Floor(v[X]), f.Floor(v[Y]), f.Floor(v[Z])}
}

// GridToFixed places a grid coordinate back on the fixed-point scale, i.e.
// shifts it left by D bits.
func (f *Format) GridToFixed(c int64) Fixed {
	return f.FromInt(c)
}

// EncodeVec concatenates the bit patterns of x, y and z, with x in the most
// significant position. Formats wider than 21 bits do not fit and must use
// EncodeVecString.
func (f *Format) EncodeVec(v Vec3) uint64 {
	if 3*f.bits > 64 {
		panic("fixed: vector encoding of " + f.String() + " exceeds 64 bits")
	}

	return f.Encode(v[X])<<(2*f.bits) | f.Encode(v[Y])<<f.bits | f.Encode(v[Z])
}

// EncodeVecString renders the concatenated bit pattern of v.
func (f *Format) EncodeVecString(v Vec3) string {
	var sb strings.Builder
	for _, a := range Axes {
		sb.WriteString(f.EncodeString(v[a]))
	}

	return sb.String()
}

// GridAdd adds two grid coordinates, wrapping each component to B-D bits.
func (f *Format) GridAdd(a, b Vec3i) Vec3i {
	w := f.IntBits()
	return Vec3i{
		wrapInt(a[X]+b[X], w),
		wrapInt(a[Y]+b[Y], w),
		wrapInt(a[Z]+b[Z], w),
	}
}

// GridSub subtracts b from a, wrapping each component to B-D bits.
func (f *Format) GridSub(a, b Vec3i) Vec3i {
	w := f.IntBits()
	return Vec3i{
		wrapInt(a[X]-b[X], w),
		wrapInt(a[Y]-b[Y], w),
		wrapInt(a[Z]-b[Z], w),
	}
}

// EncodeGridString renders the concatenated B-D bit patterns of c.
func (f *Format) EncodeGridString(c Vec3i) string {
	w := f.IntBits()
	mask := uint64(1)<<w - 1

	var sb strings.Builder
	for _, a := range Axes {
		fmt.Fprintf(&sb, "%0*b", w, uint64(c[a])&mask)
	}

	return sb.String()
}

func wrapInt(v int64, bits uint) int64 {
	return signExtend(uint64(v)&(uint64(1)<<bits-1), bits)
}
