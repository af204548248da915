// Package l3 provides the backing store of the voxel cache hierarchy.
package l3

import (
	"log"
	"reflect"

	"github.com/sarchlab/vtusim/mem/mem"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/voxel"
)

// HookPosAccept marks a request being taken from the input buffer. The item is
// the request and the detail is the latency it will see.
var HookPosAccept = &sim.HookPos{Name: "L3 Accept"}

// HookPosServe marks a request being answered. The item is the request and
// the detail is the number of cycles it took.
var HookPosServe = &sim.HookPos{Name: "L3 Serve"}

type respondEvent struct {
	*sim.EventBase
	req     mem.AccessReq
	latency sim.VTimeInCycle
}

func newRespondEvent(
	time sim.VTimeInCycle,
	handler sim.Handler,
	req mem.AccessReq,
	latency sim.VTimeInCycle,
) *respondEvent {
	return &respondEvent{sim.NewEventBase(time, handler), req, latency}
}

// Stats counts the requests served by the store.
type Stats struct {
	Reads  uint64
	Writes uint64
}

// Comp is the L3 store. It holds a dense volume and answers every request
// after a latency chosen by its LatencyFunc. There is no limit on the number
// of requests in flight.
type Comp struct {
	*sim.TickingComponent

	RspConn sim.Sender

	volume   *voxel.Volume
	latency  LatencyFunc
	topBuf   sim.Buffer
	inFlight int
	stats    Stats
}

// Recv buffers an incoming request.
func (c *Comp) Recv(msg sim.Msg) {
	c.topBuf.Push(msg)
	c.NotifyRecv()
}

// Handle defines how the Comp handles events.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *respondEvent:
		c.respond(e)
	case sim.TickEvent:
		return c.TickingComponent.Handle(e)
	default:
		log.Panicf("cannot handle event of %s", reflect.TypeOf(e))
	}

	return nil
}

// Tick accepts every buffered request.
func (c *Comp) Tick() bool {
	madeProgress := false

	for c.topBuf.Size() > 0 {
		msg := c.topBuf.Pop()

		req, ok := msg.(mem.AccessReq)
		if !ok {
			log.Panicf("cannot handle request of type %s", reflect.TypeOf(msg))
		}

		c.schedule(req)

		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) schedule(req mem.AccessReq) {
	now := c.CurrentTime()
	lat := clampLatency(c.latency(req.GetAddress(), now))

	c.inFlight++
	c.Engine.Schedule(newRespondEvent(now+lat, c, req, lat))

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosAccept,
		Item:   req,
		Detail: lat,
	})
}

func (c *Comp) respond(e *respondEvent) {
	c.inFlight--

	var rsp sim.Msg

	switch req := e.req.(type) {
	case *mem.ReadReq:
		c.stats.Reads++
		rsp = mem.DataReadyRspBuilder{}.
			WithSrc(c).
			WithDst(req.Src).
			WithRspTo(req.ID).
			WithPort(req.Port).
			WithAddress(req.Address).
			WithBlock(c.volume.Get(req.Address)).
			Build()
	case *mem.WriteReq:
		c.stats.Writes++
		c.volume.Set(req.Address, req.Block)
		rsp = mem.WriteDoneRspBuilder{}.
			WithSrc(c).
			WithDst(req.Src).
			WithRspTo(req.ID).
			WithAddress(req.Address).
			Build()
	default:
		log.Panicf("cannot handle request of type %s", reflect.TypeOf(req))
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosServe,
		Item:   e.req,
		Detail: e.latency,
	})

	c.RspConn.Send(rsp)
}

// Peek reads a block without going through the timing model.
func (c *Comp) Peek(addr voxel.Coord) voxel.Block {
	return c.volume.Get(addr)
}

// Poke writes a block without going through the timing model. Writes outside
// the volume are ignored.
func (c *Comp) Poke(addr voxel.Coord, b voxel.Block) {
	c.volume.Set(addr, b)
}

// Volume returns the backing volume.
func (c *Comp) Volume() *voxel.Volume {
	return c.volume
}

// InFlight returns the number of requests that have not been answered yet.
func (c *Comp) InFlight() int {
	return c.inFlight + c.topBuf.Size()
}

// Stats returns the served request counters.
func (c *Comp) Stats() Stats {
	return c.stats
}
