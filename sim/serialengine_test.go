package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type recordingHandler struct {
	log *[]string
	tag string
}

func (h recordingHandler) Handle(_ Event) error {
	*h.log = append(*h.log, h.tag)
	return nil
}

func secondaryEvent(t VTimeInCycle, h Handler) *EventBase {
	e := NewEventBase(t, h)
	e.secondary = true

	return e
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should run events in time order", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := NewEventBase(5, handler)
		evt2 := NewEventBase(2, handler)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		gomock.InOrder(
			handler.EXPECT().Handle(evt2).Do(func(Event) {
				Expect(engine.CurrentTime()).To(Equal(VTimeInCycle(2)))
			}),
			handler.EXPECT().Handle(evt1),
		)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInCycle(5)))
	})

	It("should run primary events before same-cycle secondary events", func() {
		var order []string

		engine.Schedule(secondaryEvent(3, recordingHandler{log: &order, tag: "s1"}))
		engine.Schedule(NewEventBase(3, recordingHandler{log: &order, tag: "p1"}))
		engine.Schedule(secondaryEvent(3, recordingHandler{log: &order, tag: "s2"}))
		engine.Schedule(NewEventBase(3, recordingHandler{log: &order, tag: "p2"}))
		engine.Schedule(NewEventBase(2, recordingHandler{log: &order, tag: "p0"}))

		Expect(engine.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"p0", "p1", "p2", "s1", "s2"}))
	})

	It("should stop at the given cycle", func() {
		handler := NewMockHandler(mockCtrl)
		early := NewEventBase(4, handler)
		late := NewEventBase(9, handler)
		engine.Schedule(early)
		engine.Schedule(late)

		handler.EXPECT().Handle(early)
		Expect(engine.RunUntil(5)).To(Succeed())

		handler.EXPECT().Handle(late)
		Expect(engine.Run()).To(Succeed())
	})

	It("should return handler errors", func() {
		handler := NewMockHandler(mockCtrl)
		engine.Schedule(NewEventBase(1, handler))

		handler.EXPECT().Handle(gomock.Any()).Return(errors.New("boom"))

		Expect(engine.Run()).To(MatchError("boom"))
	})

	It("should panic when scheduling into the past", func() {
		handler := NewMockHandler(mockCtrl)
		engine.Schedule(NewEventBase(10, handler))
		handler.EXPECT().Handle(gomock.Any())
		Expect(engine.Run()).To(Succeed())

		Expect(func() { engine.Schedule(NewEventBase(3, handler)) }).To(Panic())
	})

	It("should invoke hooks around each event", func() {
		var positions []*HookPos
		engine.AcceptHook(HookFunc(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos)
		}))

		called := false
		engine.Schedule(NewCallbackEvent(1, func() { called = true }))

		Expect(engine.Run()).To(Succeed())
		Expect(called).To(BeTrue())
		Expect(positions).To(Equal([]*HookPos{
			HookPosBeforeEvent, HookPosAfterEvent,
		}))
	})
})
