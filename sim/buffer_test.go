package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Buffer", func() {
	It("should be a bounded fifo", func() {
		buf := NewBuffer("Buf", 2)

		Expect(buf.Pop()).To(BeNil())
		buf.Push(1)
		buf.Push(2)
		Expect(buf.CanPush()).To(BeFalse())
		Expect(func() { buf.Push(3) }).To(Panic())

		Expect(buf.Peek()).To(Equal(1))
		Expect(buf.Pop()).To(Equal(1))
		Expect(buf.Size()).To(Equal(1))

		buf.Clear()
		Expect(buf.Size()).To(Equal(0))
		Expect(buf.Capacity()).To(Equal(2))
	})

	It("should keep fifo order when wrapping around", func() {
		buf := NewBuffer("Buf", 3)
		popped := []any{}

		for i := 0; i < 10; i++ {
			buf.Push(i)
			if buf.Size() == 3 {
				popped = append(popped, buf.Pop(), buf.Pop())
			}
		}

		for buf.Size() > 0 {
			popped = append(popped, buf.Pop())
		}

		Expect(popped).To(Equal([]any{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	})

	It("should start over from an empty ring after clear", func() {
		buf := NewBuffer("Buf", 2)
		buf.Push("a")
		buf.Push("b")
		buf.Pop()

		buf.Clear()
		Expect(buf.Peek()).To(BeNil())
		Expect(buf.CanPush()).To(BeTrue())

		buf.Push("c")
		buf.Push("d")
		Expect(buf.CanPush()).To(BeFalse())
		Expect(buf.Pop()).To(Equal("c"))
		Expect(buf.Pop()).To(Equal("d"))
	})

	It("should never accept elements with zero capacity", func() {
		buf := NewBuffer("Buf", 0)

		Expect(buf.CanPush()).To(BeFalse())
		Expect(buf.Pop()).To(BeNil())
		Expect(func() { buf.Push(1) }).To(Panic())
	})

	It("should invoke hooks on push and pop", func() {
		buf := NewBuffer("Buf", 2)

		var positions []*HookPos
		buf.AcceptHook(HookFunc(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos)
		}))

		buf.Push("a")
		buf.Pop()

		Expect(positions).To(Equal([]*HookPos{HookPosBufPush, HookPosBufPop}))
	})
})

var _ = Describe("Naming", func() {
	It("should accept hierarchical names", func() {
		Expect(IsValidName("VTU")).To(BeTrue())
		Expect(IsValidName("Frame.VTU[3].L1")).To(BeTrue())
		Expect(IsValidName("L2.Port[0].Buf")).To(BeTrue())
	})

	It("should reject malformed names", func() {
		Expect(IsValidName("")).To(BeFalse())
		Expect(IsValidName("3VTU")).To(BeFalse())
		Expect(IsValidName("VTU..L1")).To(BeFalse())
		Expect(func() { NameMustBeValid("bad name") }).To(Panic())
	})
})
