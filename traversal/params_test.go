package traversal

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vtusim/fixed"
)

var _ = Describe("ComputeParams", func() {
	f := fixed.Q8

	It("should match the hardware INIT for an axis-aligned ray", func() {
		p := ComputeParams(f, f.Vec(20, 10, -3), f.Vec(10, 0, 0))

		Expect(p.Origin).To(Equal(f.Vec(20, 10, -3)))
		Expect(p.Direction).To(Equal(fixed.Vec3{230, 0, 0}))
		Expect(p.Position).To(Equal(fixed.Vec3i{20, 10, -3}))
		Expect(p.Step).To(Equal(fixed.Vec3i{1, -1, -1}))
		Expect(p.TDelta[fixed.X]).To(Equal(fixed.Fixed(285)))
		Expect(p.Dist).To(Equal(fixed.Vec3{-9984, 0, 0}))
		Expect(p.TMax[fixed.X]).To(Equal(fixed.Fixed(-11115)))
		Expect(p.TMax[fixed.Y]).To(Equal(f.Max()))
		Expect(p.TMax[fixed.Z]).To(Equal(f.Max()))
	})

	It("should take the step sign from the raw direction", func() {
		p := ComputeParams(f, f.Vec(0.5, 0.5, 0.5), f.Vec(-20, 0.01, 0))

		Expect(p.Direction[fixed.Y]).To(BeZero())
		Expect(p.Step).To(Equal(fixed.Vec3i{-1, 1, -1}))
	})

	It("should floor negative origins", func() {
		p := ComputeParams(f, f.Vec(-0.5, -1, 2.75), f.Vec(1, 1, 1))
		Expect(p.Position).To(Equal(fixed.Vec3i{-1, -1, 2}))
	})

	It("should not panic on a zero direction", func() {
		Expect(func() {
			ComputeParams(f, f.Vec(1, 2, 3), fixed.Vec3{})
		}).NotTo(Panic())
	})
})

var _ = Describe("nextAxis", func() {
	DescribeTable("axis selection",
		func(x, y, z fixed.Fixed, want fixed.Axis) {
			Expect(nextAxis(fixed.Vec3{x, y, z})).To(Equal(want))
		},
		Entry("x smallest", fixed.Fixed(1), fixed.Fixed(2), fixed.Fixed(3), fixed.X),
		Entry("y smallest", fixed.Fixed(2), fixed.Fixed(1), fixed.Fixed(3), fixed.Y),
		Entry("z smallest", fixed.Fixed(3), fixed.Fixed(2), fixed.Fixed(1), fixed.Z),
		Entry("x ties y", fixed.Fixed(1), fixed.Fixed(1), fixed.Fixed(3), fixed.Y),
		Entry("x ties z", fixed.Fixed(1), fixed.Fixed(2), fixed.Fixed(1), fixed.Z),
		Entry("y ties z", fixed.Fixed(2), fixed.Fixed(1), fixed.Fixed(1), fixed.Z),
	)
})
