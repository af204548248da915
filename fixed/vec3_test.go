package fixed_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/vtusim/fixed"
)

var _ = Describe("Vec3", func() {
	f := fixed.Q8

	It("should add, subtract and scale component-wise", func() {
		a := f.Vec(1, 2, 3)
		b := f.Vec(0.5, -2, 4)

		Expect(f.VAdd(a, b)).To(Equal(f.Vec(1.5, 0, 7)))
		Expect(f.VSub(a, b)).To(Equal(f.Vec(0.5, 4, -1)))
		Expect(f.VScale(a, f.FromFloat(-0.5))).To(Equal(f.Vec(-0.5, -1, -1.5)))
		Expect(f.VNeg(a)).To(Equal(f.Vec(-1, -2, -3)))
		Expect(f.VAbs(b)).To(Equal(f.Vec(0.5, 2, 4)))
	})

	It("should compute dot and cross products", func() {
		a := f.Vec(1, 2, 3)
		b := f.Vec(4, 5, 6)

		Expect(f.Dot(a, b)).To(Equal(f.FromFloat(32)))
		Expect(f.MagnitudeSquared(a)).To(Equal(f.FromFloat(14)))
		Expect(f.Cross(a, b)).To(Equal(f.Vec(-3, 6, -3)))
		Expect(f.Cross(f.Vec(1, 0, 0), f.Vec(0, 1, 0))).To(Equal(f.Vec(0, 0, 1)))

		c := f.Cross(a, b)
		Expect(f.Dot(c, a)).To(Equal(fixed.Fixed(0)))
		Expect(f.Dot(c, b)).To(Equal(fixed.Fixed(0)))
	})

	It("should normalize like the hardware", func() {
		Expect(f.Normalize(f.Vec(10, 0, 0))).To(Equal(fixed.Vec3{230, 0, 0}))
		Expect(f.Normalize(f.Vec(1, 2, 2))).To(Equal(fixed.Vec3{68, 136, 136}))
		Expect(f.Normalize(f.Vec(-3, 4, 0))).To(Equal(fixed.Vec3{-135, 180, 0}))
	})

	It("should normalize to roughly unit length", func() {
		q := fixed.Q15
		r := rand.New(rand.NewSource(3))

		for i := 0; i < 2000; i++ {
			v := q.Vec(
				(r.Float64()-0.5)*16,
				(r.Float64()-0.5)*16,
				(r.Float64()-0.5)*16,
			)
			if q.MagnitudeSquared(v) < q.FromFloat(0.01) {
				continue
			}

			n := q.VecFloats(q.Normalize(v))
			length := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
			Expect(length).To(BeNumerically("~", 1, 0.25))
		}
	})

	It("should floor into grid cells", func() {
		Expect(f.FloorVec(f.Vec(20, 10, -3))).To(Equal(fixed.Vec3i{20, 10, -3}))
		Expect(f.FloorVec(f.Vec(0.5, -0.1, 2.999))).To(Equal(fixed.Vec3i{0, -1, 2}))
	})

	It("should wrap grid arithmetic to the integer width", func() {
		Expect(f.GridAdd(fixed.Vec3i{2047, 0, 1}, fixed.Vec3i{1, 0, -2})).
			To(Equal(fixed.Vec3i{-2048, 0, -1}))
		Expect(f.GridSub(fixed.Vec3i{-2048, 5, 0}, fixed.Vec3i{1, 5, 0})).
			To(Equal(fixed.Vec3i{2047, 0, 0}))
	})

	It("should encode with x in the most significant position", func() {
		v := fixed.Vec3{1, 0, -1}

		s := f.EncodeVecString(v)
		Expect(s).To(HaveLen(60))
		Expect(s[:20]).To(Equal("00000000000000000001"))
		Expect(s[40:]).To(Equal("11111111111111111111"))
		Expect(f.EncodeVec(v)).To(Equal(uint64(1)<<40 | (uint64(1)<<20 - 1)))

		Expect(f.EncodeGridString(fixed.Vec3i{-1, 0, 1})).
			To(Equal("111111111111" + "000000000000" + "000000000001"))

		Expect(func() { fixed.Q15.EncodeVec(v) }).To(Panic())
	})
})
