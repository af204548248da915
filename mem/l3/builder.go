package l3

import (
	"log"

	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/voxel"
)

// Builder can build L3 stores.
type Builder struct {
	engine     sim.Engine
	radius     int
	volume     *voxel.Volume
	latency    LatencyFunc
	topBufSize int
	rspConn    sim.Sender
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		radius:     voxel.DefaultRadius,
		latency:    FixedLatency(10),
		topBufSize: 64,
	}
}

// WithEngine sets the engine of the store.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithRadius sets the radius of the volume to allocate.
func (b Builder) WithRadius(r int) Builder {
	b.radius = r
	return b
}

// WithVolume makes the store serve an existing volume. The radius setting is
// ignored.
func (b Builder) WithVolume(v *voxel.Volume) Builder {
	b.volume = v
	return b
}

// WithLatency sets the function that decides response latencies.
func (b Builder) WithLatency(f LatencyFunc) Builder {
	b.latency = f
	return b
}

// WithTopBufSize sets the number of requests that can arrive in one cycle.
func (b Builder) WithTopBufSize(n int) Builder {
	b.topBufSize = n
	return b
}

// WithRspConn sets the connection that carries responses.
func (b Builder) WithRspConn(conn sim.Sender) Builder {
	b.rspConn = conn
	return b
}

// Build creates a new store.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		log.Panic("l3: engine is required")
	}

	c := &Comp{
		RspConn: b.rspConn,
		latency: b.latency,
	}

	c.TickingComponent = sim.NewSecondaryTickingComponent(name, b.engine, c)
	c.topBuf = sim.NewBuffer(name+".TopBuf", b.topBufSize)

	c.volume = b.volume
	if c.volume == nil {
		c.volume = voxel.MustVolume(b.radius)
	}

	return c
}
