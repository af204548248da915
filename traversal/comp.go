// Package traversal implements the voxel traversal engine, a DDA ray marcher
// that walks a ray cell by cell through the cache hierarchy until it finds a
// solid block.
package traversal

import (
	"log"
	"reflect"

	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/mem/l1"
	"github.com/sarchlab/vtusim/mem/mem"
	"github.com/sarchlab/vtusim/pipelining"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/voxel"
)

// HookPosRayStart marks a ray entering INIT. The item is a RayStart.
var HookPosRayStart = &sim.HookPos{Name: "Ray Start"}

// HookPosRayDone marks a ray resolving. The item is the Result and the detail
// is the ray ID.
var HookPosRayDone = &sim.HookPos{Name: "Ray Done"}

// RayStart describes a ray that has left reset.
type RayStart struct {
	ID        string
	Origin    fixed.Vec3
	Direction fixed.Vec3
}

// State is the engine state.
type State int

// The engine states.
const (
	StateReset State = iota
	StateInit
	StateTraversing
	StateHit
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateInit:
		return "init"
	case StateTraversing:
		return "traversing"
	case StateHit:
		return "hit"
	case StateExhausted:
		return "exhausted"
	}

	return "unknown"
}

type rayItem struct {
	id string
}

func (r rayItem) TaskID() string {
	return r.id
}

// Comp is a traversal engine. It owns one query port of a shared L1 cache
// and one top port of the L2 cache.
type Comp struct {
	*sim.TickingComponent

	L2Conn sim.Sender
	L2     sim.Receiver

	format   *fixed.Format
	l1       *l1.Cache
	l1Port   int
	l2Port   int
	maxSteps int

	state         State
	resetAsserted bool
	hasRay        bool
	origin        fixed.Vec3
	rawDir        fixed.Vec3

	pipeline  pipelining.Pipeline
	postInit  sim.Buffer
	initTimer int

	params     Params
	rayID      string
	steps      int
	lastAxis   fixed.Axis
	waitingFor string
	stallStart sim.VTimeInCycle
	startTime  sim.VTimeInCycle
	rspBuf     sim.Buffer
	result     Result
}

// Launch latches a new ray and pulses reset. The engine leaves reset in the
// next cycle.
func (c *Comp) Launch(origin, rawDir fixed.Vec3) {
	c.origin = origin
	c.rawDir = rawDir
	c.hasRay = true

	c.AssertReset()
	c.ReleaseReset()
}

// AssertReset forces the engine into the reset state and abandons the ray in
// flight. Responses to abandoned requests are dropped.
func (c *Comp) AssertReset() {
	c.state = StateReset
	c.resetAsserted = true
	c.pipeline.Clear()
	c.postInit.Clear()
	c.rspBuf.Clear()
	c.waitingFor = ""
	c.initTimer = 0
	c.steps = 0
	c.params = Params{}
	c.result = Result{}
}

// ReleaseReset lets the engine leave reset in the next cycle.
func (c *Comp) ReleaseReset() {
	c.resetAsserted = false
	c.TickLater()
}

// Recv accepts the response to the outstanding L2 request.
func (c *Comp) Recv(msg sim.Msg) {
	rsp, ok := msg.(*mem.DataReadyRsp)
	if !ok {
		log.Panicf("cannot handle message of type %s", reflect.TypeOf(msg))
	}

	if c.waitingFor == "" || rsp.RespondTo != c.waitingFor {
		return
	}

	c.rspBuf.Push(rsp)
	c.NotifyRecv()
}

// Tick advances the engine by one cycle.
func (c *Comp) Tick() bool {
	switch c.state {
	case StateReset:
		return c.leaveReset()
	case StateInit:
		return c.initialize()
	case StateTraversing:
		return c.traverse()
	}

	return false
}

func (c *Comp) leaveReset() bool {
	if c.resetAsserted || !c.hasRay {
		return false
	}

	c.hasRay = false
	c.startTime = c.CurrentTime()
	c.params = ComputeParams(c.format, c.origin, c.rawDir)
	c.rayID = sim.GetIDGenerator().Generate()
	c.pipeline.Accept(rayItem{id: c.rayID})
	c.initTimer = 0
	c.state = StateInit

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosRayStart,
		Item:   RayStart{ID: c.rayID, Origin: c.origin, Direction: c.rawDir},
	})

	return true
}

func (c *Comp) initialize() bool {
	c.initTimer++
	c.pipeline.Tick()

	if c.postInit.Pop() != nil {
		c.state = StateTraversing
	}

	return true
}

func (c *Comp) traverse() bool {
	if c.waitingFor != "" {
		return c.receive()
	}

	c.lastAxis = advance(c.format, &c.params)
	c.steps++

	if c.steps > c.maxSteps {
		c.exhaust(MaxStepsExceeded)
		return true
	}

	coord := voxel.CoordFromGrid(c.params.Position)
	if !coord.InTagRange() {
		c.exhaust(OutOfBounds)
		return true
	}

	if block, hit := c.l1.Query(c.l1Port, coord); hit {
		c.visit(coord, block)
		return true
	}

	req := mem.ReadReqBuilder{}.
		WithSrc(c).
		WithDst(c.L2).
		WithPort(c.l2Port).
		WithAddress(coord).
		Build()
	c.L2Conn.Send(req)
	c.waitingFor = req.ID
	c.stallStart = c.CurrentTime()

	return true
}

func (c *Comp) receive() bool {
	item := c.rspBuf.Pop()
	if item == nil {
		return false
	}

	rsp := item.(*mem.DataReadyRsp)
	c.waitingFor = ""
	c.result.StallCycles += uint64(c.CurrentTime() - c.stallStart)
	c.l1.Store(rsp.Address, rsp.Block)
	c.visit(rsp.Address, rsp.Block)

	return true
}

func (c *Comp) visit(coord voxel.Coord, block voxel.Block) {
	if block.IsEmpty() {
		return
	}

	c.result.Hit = true
	c.result.Block = block
	c.result.Normal[c.lastAxis] = -c.params.Step[c.lastAxis]
	c.finish(StateHit, coord)
}

func (c *Comp) exhaust(reason ExhaustReason) {
	c.result.Block = voxel.Air
	c.result.Reason = reason
	c.finish(StateExhausted, voxel.CoordFromGrid(c.params.Position))
}

func (c *Comp) finish(state State, coord voxel.Coord) {
	c.state = state
	c.result.Steps = c.steps
	c.result.Position = coord
	c.result.Cycles = uint64(c.CurrentTime() - c.startTime)

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosRayDone,
		Item:   c.result,
		Detail: c.rayID,
	})
}

// State returns the current state.
func (c *Comp) State() State {
	return c.state
}

// Done reports whether the last ray has resolved.
func (c *Comp) Done() bool {
	return c.state == StateHit || c.state == StateExhausted
}

// InitTimer returns the number of INIT cycles spent on the current ray.
func (c *Comp) InitTimer() int {
	return c.initTimer
}

// Params returns the ray parameters. They are valid once INIT has finished.
func (c *Comp) Params() Params {
	return c.params
}

// Result returns the outcome of the last ray. It is valid once Done returns
// true.
func (c *Comp) Result() Result {
	return c.result
}

// RayID returns the ID of the ray in flight or of the last resolved ray.
func (c *Comp) RayID() string {
	return c.rayID
}

// Format returns the number format of the engine.
func (c *Comp) Format() *fixed.Format {
	return c.format
}
