package l2

import (
	"fmt"
	"log"

	"github.com/sarchlab/vtusim/mem/l2/internal/pending"
	"github.com/sarchlab/vtusim/mem/l2/internal/slots"
	"github.com/sarchlab/vtusim/sim"
)

// Builder can build L2 caches.
type Builder struct {
	engine        sim.Engine
	numPorts      int
	numSlots      int
	topBufSize    int
	bottomBufSize int
	topConn       sim.Sender
	bottomConn    sim.Sender
	l3            sim.Receiver
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numPorts:      4,
		numSlots:      16,
		topBufSize:    4,
		bottomBufSize: 64,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithNumPorts sets the number of top ports.
func (b Builder) WithNumPorts(n int) Builder {
	b.numPorts = n
	return b
}

// WithNumSlots sets the number of data slots.
func (b Builder) WithNumSlots(n int) Builder {
	b.numSlots = n
	return b
}

// WithTopBufSize sets the capacity of each top port buffer.
func (b Builder) WithTopBufSize(n int) Builder {
	b.topBufSize = n
	return b
}

// WithBottomBufSize sets how many fills can arrive in one cycle.
func (b Builder) WithBottomBufSize(n int) Builder {
	b.bottomBufSize = n
	return b
}

// WithTopConn sets the connection that carries responses to the top.
func (b Builder) WithTopConn(conn sim.Sender) Builder {
	b.topConn = conn
	return b
}

// WithBottomConn sets the connection that carries requests to the L3 store.
func (b Builder) WithBottomConn(conn sim.Sender) Builder {
	b.bottomConn = conn
	return b
}

// WithL3 sets the receiver of the requests sent to the bottom.
func (b Builder) WithL3(l3 sim.Receiver) Builder {
	b.l3 = l3
	return b
}

// Build creates a new L2 cache.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		log.Panic("l2: engine is required")
	}

	if b.numPorts <= 0 || b.numSlots <= 0 {
		log.Panicf("l2: invalid geometry %d ports, %d slots",
			b.numPorts, b.numSlots)
	}

	c := &Comp{
		TopConn:    b.topConn,
		BottomConn: b.bottomConn,
		L3:         b.l3,
		ports:      make([]portCtx, b.numPorts),
		slots:      slots.New(b.numSlots),
		pending:    pending.NewRegistry(b.numPorts),
	}

	c.TickingComponent = sim.NewSecondaryTickingComponent(name, b.engine, c)

	for i := 0; i < b.numPorts; i++ {
		c.topBufs = append(c.topBufs,
			sim.NewBuffer(fmt.Sprintf("%s.TopBuf[%d]", name, i), b.topBufSize))
	}

	c.bottomBuf = sim.NewBuffer(name+".BottomBuf", b.bottomBufSize)

	return c
}
