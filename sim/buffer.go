package sim

import "log"

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &HookPos{Name: "Buf Push"}

// HookPosBufPop marks when an element is popped from the buffer.
var HookPosBufPop = &HookPos{Name: "Buf Pop"}

// A Buffer is a bounded fifo queue. Components own their buffers and drain
// them in Tick, so a Buffer is not safe for concurrent use.
type Buffer interface {
	Named
	Hookable

	CanPush() bool

	// Push panics when the buffer is full. Check CanPush first.
	Push(e any)

	// Pop and Peek return nil when the buffer is empty.
	Pop() any
	Peek() any

	Capacity() int
	Size() int

	// Clear drops every element without invoking hooks.
	Clear()
}

// NewBuffer creates a buffer that holds up to capacity elements. The storage
// is allocated once and reused as a ring.
func NewBuffer(name string, capacity int) Buffer {
	NameMustBeValid(name)

	if capacity < 0 {
		log.Panicf("buffer %s: negative capacity %d", name, capacity)
	}

	return &ringBuffer{
		name:  name,
		slots: make([]any, capacity),
	}
}

type ringBuffer struct {
	HookableBase

	name  string
	slots []any
	head  int
	count int
}

func (b *ringBuffer) Name() string {
	return b.name
}

func (b *ringBuffer) CanPush() bool {
	return b.count < len(b.slots)
}

func (b *ringBuffer) Push(e any) {
	if !b.CanPush() {
		log.Panicf("buffer %s overflow", b.name)
	}

	b.slots[(b.head+b.count)%len(b.slots)] = e
	b.count++

	b.notify(HookPosBufPush, e)
}

func (b *ringBuffer) Pop() any {
	if b.count == 0 {
		return nil
	}

	e := b.slots[b.head]
	b.slots[b.head] = nil
	b.head = (b.head + 1) % len(b.slots)
	b.count--

	b.notify(HookPosBufPop, e)

	return e
}

func (b *ringBuffer) Peek() any {
	if b.count == 0 {
		return nil
	}

	return b.slots[b.head]
}

func (b *ringBuffer) Capacity() int {
	return len(b.slots)
}

func (b *ringBuffer) Size() int {
	return b.count
}

func (b *ringBuffer) Clear() {
	clear(b.slots)
	b.head = 0
	b.count = 0
}

func (b *ringBuffer) notify(pos *HookPos, e any) {
	if b.NumHooks() == 0 {
		return
	}

	b.InvokeHook(HookCtx{
		Domain: b,
		Pos:    pos,
		Item:   e,
	})
}
