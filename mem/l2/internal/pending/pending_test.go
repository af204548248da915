package pending_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vtusim/mem/l2/internal/pending"
	"github.com/sarchlab/vtusim/mem/mem"
	"github.com/sarchlab/vtusim/voxel"
)

var _ = Describe("Registry", func() {
	var r pending.Registry

	readOf := func(addr voxel.Coord) *mem.ReadReq {
		return mem.ReadReqBuilder{}.WithAddress(addr).Build()
	}

	BeforeEach(func() {
		r = pending.NewRegistry(2)
	})

	It("should add and remove an entry", func() {
		addr := voxel.Coord{X: 1, Y: 2, Z: 3}
		req := readOf(addr)
		Expect(r.AddEntry(req, 0)).To(Succeed())

		e, found := r.Lookup(addr)
		Expect(found).To(BeTrue())
		Expect(e.Ports).To(Equal([]int{0}))

		e, found = r.LookupByReqID(req.ID)
		Expect(found).To(BeTrue())
		Expect(e.Address).To(Equal(addr))

		Expect(r.RemoveEntry(addr)).To(Succeed())
		_, found = r.Lookup(addr)
		Expect(found).To(BeFalse())
		_, found = r.LookupByReqID(req.ID)
		Expect(found).To(BeFalse())
	})

	It("should refuse a duplicated address", func() {
		addr := voxel.Coord{X: 1}
		Expect(r.AddEntry(readOf(addr), 0)).To(Succeed())
		Expect(r.AddEntry(readOf(addr), 1)).
			To(MatchError("address (1,0,0) is already pending"))
	})

	It("should refuse to grow beyond its capacity", func() {
		Expect(r.AddEntry(readOf(voxel.Coord{X: 1}), 0)).To(Succeed())
		Expect(r.IsFull()).To(BeFalse())
		Expect(r.AddEntry(readOf(voxel.Coord{X: 2}), 1)).To(Succeed())
		Expect(r.IsFull()).To(BeTrue())
		Expect(r.AddEntry(readOf(voxel.Coord{X: 3}), 2)).
			To(MatchError("trying to add to a full registry"))
	})

	It("should collect waiters", func() {
		addr := voxel.Coord{X: 2, Y: 2, Z: 2}
		Expect(r.AddEntry(readOf(addr), 0)).To(Succeed())
		Expect(r.AddWaiter(addr, 3)).To(Succeed())
		Expect(r.AddWaiter(addr, 1)).To(Succeed())
		Expect(r.AddWaiter(addr, 1)).To(HaveOccurred())
		Expect(r.AddWaiter(voxel.Coord{}, 1)).To(HaveOccurred())

		e, _ := r.Lookup(addr)
		Expect(e.Ports).To(Equal([]int{0, 3, 1}))
	})

	It("should forget everything on reset", func() {
		req := readOf(voxel.Coord{X: 5})
		Expect(r.AddEntry(req, 0)).To(Succeed())

		r.Reset()

		Expect(r.Len()).To(Equal(0))
		_, found := r.LookupByReqID(req.ID)
		Expect(found).To(BeFalse())
		Expect(r.RemoveEntry(voxel.Coord{X: 5})).To(HaveOccurred())
	})
})
