// Package sim provides the cycle-based discrete event simulation core that the
// traversal unit model runs on.
package sim

// VTimeInCycle is the simulated time, counted in clock cycles.
type VTimeInCycle uint64

// An Event is something going to happen in the future.
type Event interface {
	// Time returns the cycle that the event should happen.
	Time() VTimeInCycle

	// Handler returns the handler that should handle the event.
	Handler() Handler

	// IsSecondary tells if the event is a secondary event. Secondary events
	// are handled after all same-time primary events are handled.
	IsSecondary() bool
}

// EventBase provides the basic fields and getters for other events.
type EventBase struct {
	ID        string
	time      VTimeInCycle
	handler   Handler
	secondary bool
}

// NewEventBase creates a new primary EventBase.
func NewEventBase(t VTimeInCycle, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.handler = handler

	return e
}

// Time returns the cycle that the event is going to happen.
func (e EventBase) Time() VTimeInCycle {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler defines a domain for the events.
//
// One event is always constrained to one Handler, which means the event can
// only be scheduled by one handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(e Event) error

// Handle calls f(e).
func (f HandlerFunc) Handle(e Event) error {
	return f(e)
}

// CallbackEvent runs a function when it is handled. Test benches use it to
// drive component inputs at given cycles.
type CallbackEvent struct {
	*EventBase
	fn func()
}

// NewCallbackEvent creates a primary event that calls fn at time t.
func NewCallbackEvent(t VTimeInCycle, fn func()) *CallbackEvent {
	e := &CallbackEvent{fn: fn}
	e.EventBase = NewEventBase(t, HandlerFunc(func(Event) error {
		e.fn()
		return nil
	}))

	return e
}
