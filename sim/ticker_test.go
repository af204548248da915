package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("TickingComponent", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
		ticker   *MockTicker
		comp     *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
		ticker = NewMockTicker(mockCtrl)
		comp = NewSecondaryTickingComponent("Comp", engine, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should keep ticking while making progress", func() {
		var ticks []VTimeInCycle
		record := func() { ticks = append(ticks, engine.CurrentTime()) }

		gomock.InOrder(
			ticker.EXPECT().Tick().Do(record).Return(true),
			ticker.EXPECT().Tick().Do(record).Return(true),
			ticker.EXPECT().Tick().Do(record).Return(false),
		)

		comp.TickLater()
		Expect(engine.Run()).To(Succeed())

		Expect(ticks).To(Equal([]VTimeInCycle{1, 2, 3}))
	})

	It("should not schedule the same tick twice", func() {
		ticker.EXPECT().Tick().Return(false).Times(1)

		comp.TickLater()
		comp.TickLater()
		comp.TickNow()

		Expect(engine.Run()).To(Succeed())
	})

	It("should tick after the primary events of the same cycle", func() {
		delivered := false

		engine.Schedule(NewCallbackEvent(4, func() {
			comp.NotifyRecv()
		}))
		engine.Schedule(NewCallbackEvent(4, func() { delivered = true }))

		ticker.EXPECT().Tick().DoAndReturn(func() bool {
			Expect(delivered).To(BeTrue())
			Expect(engine.CurrentTime()).To(Equal(VTimeInCycle(4)))
			return false
		})

		Expect(engine.Run()).To(Succeed())
	})
})
