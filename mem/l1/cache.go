// Package l1 provides the small fully associative cache that sits next to the
// traversal engines. Lookups are combinational: a query is answered in the
// cycle it is made.
package l1

import (
	"log"

	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/voxel"
)

// HookPosQuery marks a lookup. The item is the queried coordinate and the
// detail is a QueryDetail.
var HookPosQuery = &sim.HookPos{Name: "L1 Query"}

// QueryDetail describes the outcome of a lookup.
type QueryDetail struct {
	Port  int
	Hit   bool
	Block voxel.Block
}

// Stats counts lookups.
type Stats struct {
	Hits   uint64
	Misses uint64
	Stores uint64
}

type entry struct {
	tag   uint32
	valid bool
	block voxel.Block
}

// Cache is the L1 cache. Tags are packed coordinates. A reset fills every tag
// with the packed minimum coordinate, and because matching does not look at
// the valid bit, a query for that coordinate hits with Air until the entry is
// replaced.
type Cache struct {
	sim.HookableBase

	name     string
	entries  []entry
	numPorts int
	next     int
	stats    Stats
}

// New creates a reset cache with size entries and numPorts query ports.
func New(name string, size, numPorts int) *Cache {
	sim.NameMustBeValid(name)

	if size <= 0 || numPorts <= 0 {
		log.Panicf("l1: invalid geometry %d entries, %d ports", size, numPorts)
	}

	c := &Cache{
		name:     name,
		entries:  make([]entry, size),
		numPorts: numPorts,
	}
	c.Reset()

	return c
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// Size returns the number of entries.
func (c *Cache) Size() int {
	return len(c.entries)
}

// NumPorts returns the number of query ports.
func (c *Cache) NumPorts() int {
	return c.numPorts
}

// Query looks coord up on behalf of port.
func (c *Cache) Query(port int, coord voxel.Coord) (voxel.Block, bool) {
	if port < 0 || port >= c.numPorts {
		log.Panicf("%s: port %d out of range [0, %d)", c.name, port, c.numPorts)
	}

	tag := coord.Pack()
	block, hit := voxel.Air, false

	for _, e := range c.entries {
		if e.tag == tag {
			block, hit = e.block, true
			break
		}
	}

	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosQuery,
			Item:   coord,
			Detail: QueryDetail{Port: port, Hit: hit, Block: block},
		})
	}

	return block, hit
}

// Store writes a block into the next entry in round-robin order.
func (c *Cache) Store(coord voxel.Coord, b voxel.Block) {
	c.entries[c.next] = entry{tag: coord.Pack(), valid: true, block: b}
	c.next = (c.next + 1) % len(c.entries)
	c.stats.Stores++
}

// Reset returns every entry to the minimum-coordinate tag holding Air and
// restarts the replacement pointer.
func (c *Cache) Reset() {
	tag := voxel.MinCoord.Pack()

	for i := range c.entries {
		c.entries[i] = entry{tag: tag, block: voxel.Air}
	}

	c.next = 0
}

// Valid returns the number of entries written since the last reset.
func (c *Cache) Valid() int {
	n := 0

	for _, e := range c.entries {
		if e.valid {
			n++
		}
	}

	return n
}

// Stats returns the lookup counters.
func (c *Cache) Stats() Stats {
	return c.stats
}
