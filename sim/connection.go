package sim

import "log"

// HookPosConnStartTrans marks a message entering a connection.
var HookPosConnStartTrans = &HookPos{Name: "Conn Start Trans"}

// HookPosConnDeliver marks a message leaving a connection.
var HookPosConnDeliver = &HookPos{Name: "Conn Deliver"}

// DeliverEvent carries a message to its destination.
type DeliverEvent struct {
	*EventBase
	Msg Msg
}

// NewDeliverEvent creates a new DeliverEvent.
func NewDeliverEvent(
	time VTimeInCycle,
	handler Handler,
	msg Msg,
) *DeliverEvent {
	return &DeliverEvent{
		EventBase: NewEventBase(time, handler),
		Msg:       msg,
	}
}

// A Connection delivers every message a fixed number of cycles after it is
// sent. Deliveries are primary events, so a message sent in cycle t is visible
// to every secondary tick from cycle t+latency on, regardless of the order in
// which components tick.
type Connection struct {
	HookableBase

	name    string
	engine  EventScheduler
	latency VTimeInCycle
}

// NewConnection creates a connection. A latency below one cycle is raised to
// one.
func NewConnection(
	name string,
	engine EventScheduler,
	latency VTimeInCycle,
) *Connection {
	NameMustBeValid(name)

	if latency < 1 {
		latency = 1
	}

	return &Connection{
		name:    name,
		engine:  engine,
		latency: latency,
	}
}

// Name returns the name of the connection.
func (c *Connection) Name() string {
	return c.name
}

// Latency returns the delivery latency in cycles.
func (c *Connection) Latency() VTimeInCycle {
	return c.latency
}

// Send schedules the delivery of the message.
func (c *Connection) Send(msg Msg) {
	meta := msg.Meta()
	if meta.Dst == nil {
		log.Panicf("connection %s: message %s has no destination",
			c.name, meta.ID)
	}

	now := c.engine.CurrentTime()
	meta.SendTime = now

	c.InvokeHook(HookCtx{
		Domain: c,
		Pos:    HookPosConnStartTrans,
		Item:   msg,
	})

	c.engine.Schedule(NewDeliverEvent(now+c.latency, c, msg))
}

// Handle delivers a message to its destination.
func (c *Connection) Handle(e Event) error {
	evt := e.(*DeliverEvent)
	msg := evt.Msg
	msg.Meta().RecvTime = evt.Time()

	c.InvokeHook(HookCtx{
		Domain: c,
		Pos:    HookPosConnDeliver,
		Item:   msg,
	})

	msg.Meta().Dst.Recv(msg)

	return nil
}
