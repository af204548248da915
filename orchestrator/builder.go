package orchestrator

import (
	"fmt"
	"log"

	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/mem/l1"
	"github.com/sarchlab/vtusim/mem/l2"
	"github.com/sarchlab/vtusim/mem/l3"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/traversal"
	"github.com/sarchlab/vtusim/voxel"
)

// Builder can build orchestrators. A Builder can be reused; every Build
// creates an independent platform.
type Builder struct {
	format      *fixed.Format
	numVTUs     int
	l1Size      int
	l2Slots     int
	radius      int
	volume      *voxel.Volume
	latency     func() l3.LatencyFunc
	maxSteps    int
	connLatency sim.VTimeInCycle
	sun         [3]float64
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		format:      fixed.Q8,
		numVTUs:     4,
		l1Size:      8,
		l2Slots:     16,
		radius:      voxel.DefaultRadius,
		latency:     func() l3.LatencyFunc { return l3.FixedLatency(10) },
		maxSteps:    traversal.DefaultMaxSteps,
		connLatency: 1,
		sun:         DefaultSun,
	}
}

// WithFormat sets the number format.
func (b Builder) WithFormat(f *fixed.Format) Builder {
	b.format = f
	return b
}

// WithNumVTUs sets the number of traversal engines. Every engine owns one L1
// port and one L2 port.
func (b Builder) WithNumVTUs(n int) Builder {
	b.numVTUs = n
	return b
}

// WithL1Size sets the number of L1 entries.
func (b Builder) WithL1Size(n int) Builder {
	b.l1Size = n
	return b
}

// WithL2Slots sets the number of L2 slots.
func (b Builder) WithL2Slots(n int) Builder {
	b.l2Slots = n
	return b
}

// WithRadius sets the radius of the volume to allocate when no volume is
// given.
func (b Builder) WithRadius(r int) Builder {
	b.radius = r
	return b
}

// WithVolume sets the volume the store serves. The volume is shared by every
// platform built, so it must not be modified while frames are rendered.
func (b Builder) WithVolume(v *voxel.Volume) Builder {
	b.volume = v
	return b
}

// WithLatency sets a factory of store latency functions. Each platform gets
// its own function.
func (b Builder) WithLatency(factory func() l3.LatencyFunc) Builder {
	b.latency = factory
	return b
}

// WithMaxSteps sets the render distance of the engines.
func (b Builder) WithMaxSteps(n int) Builder {
	b.maxSteps = n
	return b
}

// WithConnLatency sets the latency of every connection.
func (b Builder) WithConnLatency(n sim.VTimeInCycle) Builder {
	b.connLatency = n
	return b
}

// WithSun sets the light direction used for shading.
func (b Builder) WithSun(sun [3]float64) Builder {
	b.sun = sun
	return b
}

// Build creates a platform.
func (b Builder) Build(name string) *Orchestrator {
	if b.numVTUs <= 0 {
		log.Panicf("%s: at least one traversal engine is required", name)
	}

	engine := sim.NewSerialEngine()
	o := &Orchestrator{
		format: b.format,
		engine: engine,
		shader: NewShader(b.format, b.sun),
	}

	toL2 := sim.NewConnection(name+".ToL2", engine, b.connLatency)
	fromL2 := sim.NewConnection(name+".FromL2", engine, b.connLatency)
	toL3 := sim.NewConnection(name+".ToL3", engine, b.connLatency)
	fromL3 := sim.NewConnection(name+".FromL3", engine, b.connLatency)
	o.conns = []*sim.Connection{toL2, fromL2, toL3, fromL3}

	o.l3 = l3.MakeBuilder().
		WithEngine(engine).
		WithRadius(b.radius).
		WithVolume(b.volume).
		WithLatency(b.latency()).
		WithRspConn(fromL3).
		Build(name + ".L3")

	o.l2 = l2.MakeBuilder().
		WithEngine(engine).
		WithNumPorts(b.numVTUs).
		WithNumSlots(b.l2Slots).
		WithTopConn(fromL2).
		WithBottomConn(toL3).
		WithL3(o.l3).
		Build(name + ".L2")

	o.l1 = l1.New(name+".L1", b.l1Size, b.numVTUs)

	o.dispatch = &dispatcher{
		o:        o,
		index:    make(map[*traversal.Comp]int),
		assigned: make([]int, b.numVTUs),
	}

	for i := 0; i < b.numVTUs; i++ {
		vtu := traversal.MakeBuilder().
			WithEngine(engine).
			WithFormat(b.format).
			WithL1(o.l1, i).
			WithL2(toL2, o.l2, i).
			WithMaxSteps(b.maxSteps).
			Build(fmt.Sprintf("%s.VTU[%d]", name, i))
		vtu.AcceptHook(o.dispatch)

		o.vtus = append(o.vtus, vtu)
		o.dispatch.index[vtu] = i
	}

	return o
}
