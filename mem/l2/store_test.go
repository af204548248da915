package l2

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vtusim/mem/l3"
	"github.com/sarchlab/vtusim/mem/mem"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/voxel"
)

type rspRecorder struct {
	engine *sim.SerialEngine
	got    []sentRsp
}

func (r *rspRecorder) Name() string {
	return "Requester"
}

func (r *rspRecorder) Recv(msg sim.Msg) {
	r.got = append(r.got, sentRsp{
		time: r.engine.CurrentTime(),
		rsp:  msg.(*mem.DataReadyRsp),
	})
}

var _ = Describe("Comp over a store", func() {
	var (
		engine    *sim.SerialEngine
		requester *rspRecorder
		store     *l3.Comp
		cache     *Comp
	)

	build := func(seed int64) {
		engine = sim.NewSerialEngine()
		requester = &rspRecorder{engine: engine}

		fromL2 := sim.NewConnection("FromL2", engine, 1)
		toL3 := sim.NewConnection("ToL3", engine, 1)
		fromL3 := sim.NewConnection("FromL3", engine, 1)

		store = l3.MakeBuilder().
			WithEngine(engine).
			WithRadius(8).
			WithLatency(l3.UniformLatency(3, 100, seed)).
			WithRspConn(fromL3).
			Build("L3")
		store.Poke(voxel.Coord{X: 2, Y: 2, Z: 2}, voxel.Sand)

		cache = MakeBuilder().
			WithEngine(engine).
			WithNumPorts(4).
			WithTopConn(fromL2).
			WithBottomConn(toL3).
			WithL3(store).
			Build("L2")
	}

	readAt := func(t sim.VTimeInCycle, port int) *mem.ReadReq {
		req := mem.ReadReqBuilder{}.
			WithSrc(requester).
			WithDst(cache).
			WithPort(port).
			WithAddress(voxel.Coord{X: 2, Y: 2, Z: 2}).
			Build()
		engine.Schedule(sim.NewCallbackEvent(t, func() { cache.Recv(req) }))

		return req
	}

	DescribeTable("should answer staggered ports together with one store read",
		func(seed int64) {
			build(seed)

			readAt(0, 0)
			readAt(0, 1)
			readAt(1, 2)
			readAt(1, 3)

			Expect(engine.Run()).To(Succeed())

			Expect(requester.got).To(HaveLen(4))
			ports := []int{}

			for _, r := range requester.got {
				Expect(r.time).To(Equal(requester.got[0].time))
				Expect(r.rsp.Block).To(Equal(voxel.Sand))
				Expect(r.rsp.Instant).To(BeFalse())
				ports = append(ports, r.rsp.Port)
			}

			Expect(ports).To(ConsistOf(0, 1, 2, 3))
			Expect(requester.got[0].time).To(BeNumerically(">", 3))
			Expect(store.Stats().Reads).To(Equal(uint64(1)))
			Expect(cache.Stats().CoalescedMisses).To(Equal(uint64(3)))

			requester.got = nil
			again := readAt(engine.CurrentTime()+5, 3)

			Expect(engine.Run()).To(Succeed())

			Expect(requester.got).To(HaveLen(1))
			Expect(requester.got[0].rsp.RespondTo).To(Equal(again.ID))
			Expect(requester.got[0].rsp.Instant).To(BeTrue())
			Expect(requester.got[0].rsp.Block).To(Equal(voxel.Sand))
			Expect(store.Stats().Reads).To(Equal(uint64(1)))
		},
		Entry("seed 1", int64(1)),
		Entry("seed 7", int64(7)),
		Entry("seed 42", int64(42)),
		Entry("seed 2024", int64(2024)),
	)
})
