// Package l2 provides the shared, multi-port L2 voxel cache. Misses on the
// same address from several ports are coalesced into one request to the L3
// store.
package l2

import (
	"log"
	"reflect"

	"github.com/sarchlab/vtusim/mem/l2/internal/pending"
	"github.com/sarchlab/vtusim/mem/l2/internal/slots"
	"github.com/sarchlab/vtusim/mem/mem"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/voxel"
)

// HookPosAccess marks a top-port request being looked up. The item is the
// request and the detail is an AccessDetail.
var HookPosAccess = &sim.HookPos{Name: "L2 Access"}

// HookPosFill marks data arriving from the L3 store. The item is the response
// and the detail is a FillDetail.
var HookPosFill = &sim.HookPos{Name: "L2 Fill"}

// HookPosRespond marks a response leaving a top port. The item is the
// response.
var HookPosRespond = &sim.HookPos{Name: "L2 Respond"}

// PortState is the state of one top port.
type PortState int

// The port states. A port waits while its miss is outstanding and fills for
// exactly one tick after the data arrives.
const (
	PortIdle PortState = iota
	PortWaiting
	PortFilling
)

func (s PortState) String() string {
	switch s {
	case PortIdle:
		return "idle"
	case PortWaiting:
		return "waiting"
	case PortFilling:
		return "filling"
	}

	return "unknown"
}

// AccessDetail describes the outcome of a lookup.
type AccessDetail struct {
	Port      int
	Hit       bool
	Coalesced bool
}

// FillDetail describes a fill. Dropped fills belong to a request abandoned by
// a reset.
type FillDetail struct {
	Ports   []int
	Dropped bool
}

type portCtx struct {
	state PortState
	req   *mem.ReadReq
	block voxel.Block
}

// Comp is the L2 cache.
type Comp struct {
	*sim.TickingComponent

	TopConn    sim.Sender
	BottomConn sim.Sender
	L3         sim.Receiver

	topBufs   []sim.Buffer
	bottomBuf sim.Buffer
	ports     []portCtx
	slots     *slots.Array
	pending   pending.Registry
	stats     Stats
}

// Recv buffers requests from the top and fills from the bottom.
func (c *Comp) Recv(msg sim.Msg) {
	switch msg := msg.(type) {
	case *mem.ReadReq:
		c.portMustExist(msg.Port)
		c.topBufs[msg.Port].Push(msg)
	case *mem.DataReadyRsp:
		c.bottomBuf.Push(msg)
	default:
		log.Panicf("cannot handle message of type %s", reflect.TypeOf(msg))
	}

	c.NotifyRecv()
}

func (c *Comp) portMustExist(port int) {
	if port < 0 || port >= len(c.ports) {
		log.Panicf("%s: port %d out of range [0, %d)",
			c.Name(), port, len(c.ports))
	}
}

// Tick updates the port state machines. Ports that were filling answer first,
// then the fills that arrived in this cycle are written, and finally idle
// ports look up their next request.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.respondFilling() || madeProgress
	madeProgress = c.processFills() || madeProgress
	madeProgress = c.processTop() || madeProgress

	return madeProgress
}

func (c *Comp) respondFilling() bool {
	madeProgress := false

	for i := range c.ports {
		p := &c.ports[i]
		if p.state != PortFilling {
			continue
		}

		c.respond(i, p.req, p.block, false)
		*p = portCtx{}
		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) processFills() bool {
	madeProgress := false

	for c.bottomBuf.Size() > 0 {
		rsp := c.bottomBuf.Pop().(*mem.DataReadyRsp)
		c.fill(rsp)

		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) fill(rsp *mem.DataReadyRsp) {
	entry, found := c.pending.LookupByReqID(rsp.RespondTo)
	if !found {
		c.stats.DroppedFills++
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosFill,
			Item:   rsp,
			Detail: FillDetail{Dropped: true},
		})

		return
	}

	c.slots.Fill(entry.Address, rsp.Block)

	for _, port := range entry.Ports {
		p := &c.ports[port]
		p.state = PortFilling
		p.block = rsp.Block
	}

	if err := c.pending.RemoveEntry(entry.Address); err != nil {
		log.Panic(err)
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosFill,
		Item:   rsp,
		Detail: FillDetail{Ports: entry.Ports},
	})
}

func (c *Comp) processTop() bool {
	madeProgress := false

	for i := range c.ports {
		if c.ports[i].state != PortIdle || c.topBufs[i].Size() == 0 {
			continue
		}

		req := c.topBufs[i].Pop().(*mem.ReadReq)
		c.lookup(i, req)

		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) lookup(port int, req *mem.ReadReq) {
	c.stats.Accesses++

	if block, hit := c.slots.Lookup(req.Address); hit {
		c.stats.Hits++
		c.invokeAccessHook(req, AccessDetail{Port: port, Hit: true})
		c.respond(port, req, block, true)

		return
	}

	c.stats.Misses++
	c.ports[port] = portCtx{state: PortWaiting, req: req}

	if _, found := c.pending.Lookup(req.Address); found {
		c.stats.CoalescedMisses++
		c.invokeAccessHook(req, AccessDetail{Port: port, Coalesced: true})

		if err := c.pending.AddWaiter(req.Address, port); err != nil {
			log.Panic(err)
		}

		return
	}

	c.invokeAccessHook(req, AccessDetail{Port: port})

	readToBottom := mem.ReadReqBuilder{}.
		WithSrc(c).
		WithDst(c.L3).
		WithAddress(req.Address).
		Build()

	if err := c.pending.AddEntry(readToBottom, port); err != nil {
		log.Panic(err)
	}

	c.BottomConn.Send(readToBottom)
}

func (c *Comp) invokeAccessHook(req *mem.ReadReq, detail AccessDetail) {
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosAccess,
		Item:   req,
		Detail: detail,
	})
}

func (c *Comp) respond(
	port int,
	req *mem.ReadReq,
	block voxel.Block,
	instant bool,
) {
	rsp := mem.DataReadyRspBuilder{}.
		WithSrc(c).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithPort(port).
		WithAddress(req.Address).
		WithBlock(block).
		WithInstant(instant).
		Build()

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosRespond,
		Item:   rsp,
	})

	c.TopConn.Send(rsp)
}

// Reset invalidates every slot, forgets all pending misses and returns every
// port to idle. A fill for a forgotten miss no longer matches a pending
// request ID, so it is counted in DroppedFills and discarded.
func (c *Comp) Reset() {
	c.slots.Reset()
	c.pending.Reset()

	for i := range c.ports {
		c.ports[i] = portCtx{}
		c.topBufs[i].Clear()
	}

	c.stats.Resets++
}

// NumPorts returns the number of top ports.
func (c *Comp) NumPorts() int {
	return len(c.ports)
}

// PortState returns the state of a top port.
func (c *Comp) PortState(port int) PortState {
	c.portMustExist(port)
	return c.ports[port].state
}

// Pending returns the number of addresses waiting for the L3 store.
func (c *Comp) Pending() int {
	return c.pending.Len()
}

// Buffers returns the internal buffers, for inspection.
func (c *Comp) Buffers() []sim.Buffer {
	return append(append([]sim.Buffer{}, c.topBufs...), c.bottomBuf)
}

// Stats returns the access counters.
func (c *Comp) Stats() Stats {
	s := c.stats
	s.Occupied = c.slots.Occupied()

	return s
}
