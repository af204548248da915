// Package slots implements the direct-mapped data array of the L2 cache.
package slots

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/sarchlab/vtusim/voxel"
)

// Array maps every address to exactly one slot. A fill overwrites whatever
// the slot held before.
type Array struct {
	tags     []voxel.Coord
	blocks   []voxel.Block
	occupied *roaring.Bitmap
}

// New creates an empty array with size slots.
func New(size int) *Array {
	if size <= 0 {
		panic("slots: size must be positive")
	}

	return &Array{
		tags:     make([]voxel.Coord, size),
		blocks:   make([]voxel.Block, size),
		occupied: roaring.New(),
	}
}

// Size returns the number of slots.
func (a *Array) Size() int {
	return len(a.tags)
}

// Index returns the slot addr maps to.
func (a *Array) Index(addr voxel.Coord) int {
	return int(addr.Hash() % uint32(len(a.tags)))
}

// Lookup returns the block stored for addr, if the slot holds addr.
func (a *Array) Lookup(addr voxel.Coord) (voxel.Block, bool) {
	i := a.Index(addr)
	if !a.occupied.Contains(uint32(i)) || a.tags[i] != addr {
		return voxel.Air, false
	}

	return a.blocks[i], true
}

// Fill stores b for addr. It returns the address that was evicted, if any.
func (a *Array) Fill(addr voxel.Coord, b voxel.Block) (voxel.Coord, bool) {
	i := a.Index(addr)
	victim, hadVictim := a.tags[i], a.occupied.Contains(uint32(i))

	a.tags[i] = addr
	a.blocks[i] = b
	a.occupied.Add(uint32(i))

	if hadVictim && victim != addr {
		return victim, true
	}

	return voxel.Coord{}, false
}

// Occupied returns the number of slots holding data.
func (a *Array) Occupied() uint64 {
	return a.occupied.GetCardinality()
}

// Reset invalidates every slot.
func (a *Array) Reset() {
	a.occupied.Clear()

	for i := range a.tags {
		a.tags[i] = voxel.Coord{}
		a.blocks[i] = voxel.Air
	}
}
