package pipelining

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/vtusim/sim"
)

type pipelineItem struct {
	taskID string
}

func (p pipelineItem) TaskID() string {
	return p.taskID
}

var _ = Describe("Pipeline", func() {
	var (
		postBuf  sim.Buffer
		pipeline Pipeline
	)

	BeforeEach(func() {
		postBuf = sim.NewBuffer("PostBuf", 1)
		pipeline = MakeBuilder().
			WithPipelineWidth(1).
			WithNumStage(13).
			WithCyclePerStage(1).
			WithPostPipelineBuffer(postBuf).
			Build("Pipeline")
	})

	It("should hold an item for one tick per stage", func() {
		item := pipelineItem{taskID: "1"}

		Expect(pipeline.CanAccept()).To(BeTrue())
		pipeline.Accept(item)
		Expect(pipeline.CanAccept()).To(BeFalse())
		Expect(pipeline.Len()).To(Equal(1))

		for i := 1; i < 13; i++ {
			Expect(pipeline.Tick()).To(BeTrue())
			Expect(postBuf.Size()).To(Equal(0), "tick %d", i)
		}

		Expect(pipeline.Tick()).To(BeTrue())
		Expect(postBuf.Pop()).To(Equal(item))
		Expect(pipeline.Len()).To(Equal(0))
		Expect(pipeline.Tick()).To(BeFalse())
	})

	It("should stall when the post buffer is full", func() {
		postBuf.Push(pipelineItem{taskID: "blocker"})
		pipeline.Accept(pipelineItem{taskID: "1"})

		for i := 0; i < 12; i++ {
			pipeline.Tick()
		}

		Expect(pipeline.Tick()).To(BeFalse())
		Expect(pipeline.Len()).To(Equal(1))
	})

	It("should panic when the first stage is busy", func() {
		pipeline.Accept(pipelineItem{taskID: "1"})

		Expect(func() { pipeline.Accept(pipelineItem{taskID: "2"}) }).
			To(Panic())
	})

	It("should discard items on clear", func() {
		pipeline.Accept(pipelineItem{taskID: "1"})
		pipeline.Clear()

		Expect(pipeline.Len()).To(Equal(0))
		Expect(pipeline.CanAccept()).To(BeTrue())
	})

	It("should invoke hooks on enter and exit", func() {
		var positions []*sim.HookPos
		pipeline.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			positions = append(positions, ctx.Pos)
		}))

		pipeline.Accept(pipelineItem{taskID: "1"})
		for i := 0; i < 13; i++ {
			pipeline.Tick()
		}

		Expect(positions).To(Equal([]*sim.HookPos{
			HookPosPipelineEnter, HookPosPipelineExit,
		}))
	})
})

var _ = Describe("Zero-Stage Pipeline", func() {
	It("should forward to the post buffer directly", func() {
		postBuf := sim.NewBuffer("PostBuf", 1)
		pipeline := MakeBuilder().
			WithNumStage(0).
			WithPostPipelineBuffer(postBuf).
			Build("Pipeline")

		item := pipelineItem{taskID: "1"}
		Expect(pipeline.CanAccept()).To(BeTrue())
		pipeline.Accept(item)

		Expect(postBuf.Peek()).To(Equal(item))
		Expect(pipeline.CanAccept()).To(BeFalse())
	})
})
