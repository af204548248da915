// Package voxel describes the voxel world the traversal unit walks through:
// block ids, grid coordinates and the dense volume that backs the L3 store.
package voxel

import (
	"fmt"
	"strings"
)

// BlockBits is the width of a block id on the wire.
const BlockBits = 5

// Block is a voxel block id.
type Block uint8

// The block catalogue. Air is the empty block.
const (
	Air Block = iota
	Stone
	Grass
	Dirt
	Cobblestone
	OakPlanks
	SprucePlanks
	BirchPlanks
	Water
	Sand
	Gravel
	OakLog
	SpruceLog
	BirchLog
	OakLeaves
	SpruceLeaves
	BirchLeaves
	Glass
	numBlocks
)

var blockNames = [numBlocks]string{
	"air", "stone", "grass", "dirt", "cobblestone",
	"oak_planks", "spruce_planks", "birch_planks",
	"water", "sand", "gravel",
	"oak_log", "spruce_log", "birch_log",
	"oak_leaves", "spruce_leaves", "birch_leaves",
	"glass",
}

// IsEmpty reports whether rays pass through the block.
func (b Block) IsEmpty() bool {
	return b == Air
}

// Valid reports whether b is part of the catalogue.
func (b Block) Valid() bool {
	return b < numBlocks
}

func (b Block) String() string {
	if !b.Valid() {
		return fmt.Sprintf("block(%d)", uint8(b))
	}

	return blockNames[b]
}

// ParseBlock finds a block by its name.
func ParseBlock(name string) (Block, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range blockNames {
		if n == name {
			return Block(i), nil
		}
	}

	return Air, fmt.Errorf("voxel: unknown block %q", name)
}

// Blocks returns the whole catalogue in id order.
func Blocks() []Block {
	all := make([]Block, numBlocks)
	for i := range all {
		all[i] = Block(i)
	}

	return all
}
