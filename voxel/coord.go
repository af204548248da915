package voxel

import (
	"fmt"

	"github.com/sarchlab/vtusim/fixed"
)

// TagBits is the width of each coordinate of a cache tag.
const TagBits = 7

// The range of coordinates a cache tag can hold.
const (
	TagMin = -(1 << (TagBits - 1))
	TagMax = 1<<(TagBits-1) - 1
)

const tagMask = 1<<TagBits - 1

// Coord is an integer grid cell.
type Coord struct {
	X, Y, Z int
}

// MinCoord is the smallest coordinate a tag can hold. Its packed form is the
// pattern a cache resets its tags to.
var MinCoord = Coord{TagMin, TagMin, TagMin}

// CoordFromGrid converts a floored fixed-point position.
func CoordFromGrid(v fixed.Vec3i) Coord {
	return Coord{int(v[fixed.X]), int(v[fixed.Y]), int(v[fixed.Z])}
}

// Grid converts c back to a fixed-point grid vector.
func (c Coord) Grid() fixed.Vec3i {
	return fixed.Vec3i{int64(c.X), int64(c.Y), int64(c.Z)}
}

// Add returns c+d.
func (c Coord) Add(d Coord) Coord {
	return Coord{c.X + d.X, c.Y + d.Y, c.Z + d.Z}
}

// InTagRange reports whether every component fits in TagBits.
func (c Coord) InTagRange() bool {
	return inTag(c.X) && inTag(c.Y) && inTag(c.Z)
}

func inTag(v int) bool {
	return v >= TagMin && v <= TagMax
}

// Pack concatenates the TagBits-wide two's-complement patterns of x, y and z,
// with x in the most significant position. Components outside the tag range
// are truncated.
func (c Coord) Pack() uint32 {
	return uint32(c.X&tagMask)<<(2*TagBits) |
		uint32(c.Y&tagMask)<<TagBits |
		uint32(c.Z&tagMask)
}

// Unpack reverses Pack.
func Unpack(tag uint32) Coord {
	return Coord{
		X: signExtend(tag >> (2 * TagBits)),
		Y: signExtend(tag >> TagBits),
		Z: signExtend(tag),
	}
}

func signExtend(v uint32) int {
	v &= tagMask
	if v&(1<<(TagBits-1)) != 0 {
		return int(v) - (1 << TagBits)
	}

	return int(v)
}

// Hash spreads neighbouring coordinates over cache slots.
func (c Coord) Hash() uint32 {
	return uint32(c.X)*73856093 ^ uint32(c.Y)*19349663 ^ uint32(c.Z)*83492791
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}
