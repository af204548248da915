package traversal

import (
	"log"

	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/mem/l1"
	"github.com/sarchlab/vtusim/pipelining"
	"github.com/sarchlab/vtusim/sim"
)

// InitCycles is the default length of the INIT state.
const InitCycles = 13

// DefaultMaxSteps is the default render distance, in cells.
const DefaultMaxSteps = 220

// Builder can build traversal engines.
type Builder struct {
	engine     sim.Engine
	format     *fixed.Format
	l1         *l1.Cache
	l1Port     int
	l2Conn     sim.Sender
	l2         sim.Receiver
	l2Port     int
	maxSteps   int
	initCycles int
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		format:     fixed.Q8,
		maxSteps:   DefaultMaxSteps,
		initCycles: InitCycles,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFormat sets the number format.
func (b Builder) WithFormat(f *fixed.Format) Builder {
	b.format = f
	return b
}

// WithL1 sets the L1 cache and the query port the engine owns.
func (b Builder) WithL1(cache *l1.Cache, port int) Builder {
	b.l1 = cache
	b.l1Port = port

	return b
}

// WithL2 sets the connection to the L2 cache, the cache itself and the top
// port the engine owns.
func (b Builder) WithL2(conn sim.Sender, l2 sim.Receiver, port int) Builder {
	b.l2Conn = conn
	b.l2 = l2
	b.l2Port = port

	return b
}

// WithMaxSteps sets the number of cells a ray may cross before it is
// exhausted.
func (b Builder) WithMaxSteps(n int) Builder {
	b.maxSteps = n
	return b
}

// WithInitCycles sets the length of the INIT state.
func (b Builder) WithInitCycles(n int) Builder {
	b.initCycles = n
	return b
}

// Build creates a new traversal engine.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil || b.l1 == nil {
		log.Panicf("traversal %s: engine and L1 are required", name)
	}

	if b.initCycles < 1 {
		log.Panicf("traversal %s: INIT must last at least one cycle", name)
	}

	c := &Comp{
		L2Conn:   b.l2Conn,
		L2:       b.l2,
		format:   b.format,
		l1:       b.l1,
		l1Port:   b.l1Port,
		l2Port:   b.l2Port,
		maxSteps: b.maxSteps,
	}

	c.TickingComponent = sim.NewSecondaryTickingComponent(name, b.engine, c)
	c.postInit = sim.NewBuffer(name+".PostInitBuf", 1)
	c.pipeline = pipelining.MakeBuilder().
		WithNumStage(b.initCycles).
		WithPostPipelineBuffer(c.postInit).
		Build(name + ".InitPipeline")
	c.rspBuf = sim.NewBuffer(name+".RspBuf", 1)

	return c
}
