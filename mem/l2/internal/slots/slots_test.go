package slots_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vtusim/mem/l2/internal/slots"
	"github.com/sarchlab/vtusim/voxel"
)

var _ = Describe("Array", func() {
	var a *slots.Array

	BeforeEach(func() {
		a = slots.New(16)
	})

	It("should miss when empty", func() {
		_, ok := a.Lookup(voxel.Coord{})
		Expect(ok).To(BeFalse())
		Expect(a.Occupied()).To(BeZero())
	})

	It("should hit after a fill", func() {
		addr := voxel.Coord{X: 3, Y: 4, Z: 5}
		_, evicted := a.Fill(addr, voxel.Dirt)
		Expect(evicted).To(BeFalse())

		b, ok := a.Lookup(addr)
		Expect(ok).To(BeTrue())
		Expect(b).To(Equal(voxel.Dirt))
		Expect(a.Occupied()).To(Equal(uint64(1)))
	})

	It("should let the last writer win on a collision", func() {
		first := voxel.Coord{X: 1}
		var second voxel.Coord

		for x := 2; ; x++ {
			second = voxel.Coord{X: x}
			if a.Index(second) == a.Index(first) {
				break
			}
		}

		a.Fill(first, voxel.Stone)
		victim, evicted := a.Fill(second, voxel.Sand)

		Expect(evicted).To(BeTrue())
		Expect(victim).To(Equal(first))
		_, ok := a.Lookup(first)
		Expect(ok).To(BeFalse())
		b, ok := a.Lookup(second)
		Expect(ok).To(BeTrue())
		Expect(b).To(Equal(voxel.Sand))
	})

	It("should keep indices in range for negative coordinates", func() {
		for _, c := range []voxel.Coord{
			{X: -1, Y: -1, Z: -1},
			voxel.MinCoord,
			{X: 63, Y: -64, Z: 7},
		} {
			Expect(a.Index(c)).To(BeNumerically(">=", 0))
			Expect(a.Index(c)).To(BeNumerically("<", 16))
		}
	})

	It("should forget everything on reset", func() {
		a.Fill(voxel.Coord{X: 1}, voxel.Stone)
		a.Reset()

		_, ok := a.Lookup(voxel.Coord{X: 1})
		Expect(ok).To(BeFalse())
		Expect(a.Occupied()).To(BeZero())
	})
})
