package orchestrator

import (
	"fmt"
	"image"

	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/mem/l1"
	"github.com/sarchlab/vtusim/mem/l2"
	"github.com/sarchlab/vtusim/mem/l3"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/traversal"
)

// FrameStats summarizes the work done for one frame.
type FrameStats struct {
	Rays        int
	Hits        int
	Cycles      uint64
	Steps       uint64
	StallCycles uint64
	L1Hits      uint64
	L1Misses    uint64
	L2Accesses  uint64
	L2Hits      uint64
	L2Coalesced uint64
	L3Reads     uint64
}

// HitRate returns the fraction of rays that hit a block.
func (s FrameStats) HitRate() float64 {
	if s.Rays == 0 {
		return 0
	}

	return float64(s.Hits) / float64(s.Rays)
}

// L2HitRatio returns the fraction of L2 accesses served from resident data.
func (s FrameStats) L2HitRatio() float64 {
	if s.L2Accesses == 0 {
		return 0
	}

	return float64(s.L2Hits) / float64(s.L2Accesses)
}

// Frame holds one triple per ray and the shaded pixels.
type Frame struct {
	Width   int
	Height  int
	Results []traversal.Result
	Pixels  []RGB565
	Stats   FrameStats
}

// Image converts the frame buffer into an image.
func (fr *Frame) Image() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, fr.Width, fr.Height))

	for i, p := range fr.Pixels {
		img.Set(i%fr.Width, i/fr.Width, p)
	}

	return img
}

// Orchestrator owns a complete traversal platform: the engines, the shared
// caches and the store, all driven by one serial engine.
type Orchestrator struct {
	format *fixed.Format
	engine *sim.SerialEngine
	l1     *l1.Cache
	l2     *l2.Comp
	l3     *l3.Comp
	vtus   []*traversal.Comp
	conns  []*sim.Connection
	shader *Shader

	dispatch *dispatcher
}

// dispatcher hands out pixels to engines as they become free.
type dispatcher struct {
	o        *Orchestrator
	index    map[*traversal.Comp]int
	origin   fixed.Vec3
	dirs     []fixed.Vec3
	assigned []int
	results  []traversal.Result
	next     int
	done     int
}

func (d *dispatcher) Func(ctx sim.HookCtx) {
	if ctx.Pos != traversal.HookPosRayDone {
		return
	}

	i := d.index[ctx.Domain.(*traversal.Comp)]
	d.results[d.assigned[i]] = ctx.Item.(traversal.Result)
	d.done++
	d.launchNext(i)
}

func (d *dispatcher) start(origin fixed.Vec3, dirs []fixed.Vec3) {
	d.origin = origin
	d.dirs = dirs
	d.results = make([]traversal.Result, len(dirs))
	d.next = 0
	d.done = 0

	for i := range d.o.vtus {
		d.launchNext(i)
	}
}

func (d *dispatcher) launchNext(i int) {
	if d.next >= len(d.dirs) {
		return
	}

	d.assigned[i] = d.next
	d.o.vtus[i].Launch(d.origin, d.dirs[d.next])
	d.next++
}

// RenderFrame casts one ray per pixel and runs the simulation until every ray
// has resolved.
func (o *Orchestrator) RenderFrame(cam Camera) (*Frame, error) {
	if err := cam.Validate(); err != nil {
		return nil, err
	}

	dirs := cam.RayDirections(o.format)
	before := o.snapshot()
	start := o.engine.CurrentTime()

	o.dispatch.start(cam.Position, dirs)

	if err := o.engine.Run(); err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	if o.dispatch.done != len(dirs) {
		return nil, fmt.Errorf("frame stalled: %d of %d rays resolved",
			o.dispatch.done, len(dirs))
	}

	fr := &Frame{
		Width:   cam.Width,
		Height:  cam.Height,
		Results: o.dispatch.results,
		Pixels:  make([]RGB565, len(dirs)),
	}

	fr.Stats = o.snapshot().since(before)
	fr.Stats.Rays = len(dirs)
	fr.Stats.Cycles = uint64(o.engine.CurrentTime() - start)

	for i, r := range fr.Results {
		if r.Hit {
			fr.Stats.Hits++
		}

		fr.Stats.Steps += uint64(r.Steps)
		fr.Stats.StallCycles += r.StallCycles
		fr.Pixels[i] = o.shader.Shade(r)
	}

	return fr, nil
}

func (o *Orchestrator) snapshot() FrameStats {
	l1s := o.l1.Stats()
	l2s := o.l2.Stats()

	return FrameStats{
		L1Hits:      l1s.Hits,
		L1Misses:    l1s.Misses,
		L2Accesses:  l2s.Accesses,
		L2Hits:      l2s.Hits,
		L2Coalesced: l2s.CoalescedMisses,
		L3Reads:     o.l3.Stats().Reads,
	}
}

func (s FrameStats) since(before FrameStats) FrameStats {
	return FrameStats{
		L1Hits:      s.L1Hits - before.L1Hits,
		L1Misses:    s.L1Misses - before.L1Misses,
		L2Accesses:  s.L2Accesses - before.L2Accesses,
		L2Hits:      s.L2Hits - before.L2Hits,
		L2Coalesced: s.L2Coalesced - before.L2Coalesced,
		L3Reads:     s.L3Reads - before.L3Reads,
	}
}

// Engine returns the simulation engine.
func (o *Orchestrator) Engine() *sim.SerialEngine {
	return o.engine
}

// Format returns the number format of the platform.
func (o *Orchestrator) Format() *fixed.Format {
	return o.format
}

// L1 returns the shared L1 cache.
func (o *Orchestrator) L1() *l1.Cache {
	return o.l1
}

// L2 returns the shared L2 cache.
func (o *Orchestrator) L2() *l2.Comp {
	return o.l2
}

// L3 returns the backing store.
func (o *Orchestrator) L3() *l3.Comp {
	return o.l3
}

// VTUs returns the traversal engines.
func (o *Orchestrator) VTUs() []*traversal.Comp {
	return o.vtus
}

// Connections returns the message connections of the platform.
func (o *Orchestrator) Connections() []*sim.Connection {
	return o.conns
}

// Components returns every ticking component.
func (o *Orchestrator) Components() []sim.Component {
	comps := []sim.Component{o.l2, o.l3}
	for _, v := range o.vtus {
		comps = append(comps, v)
	}

	return comps
}
