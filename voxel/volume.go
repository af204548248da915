package voxel

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// DefaultRadius is the half-width of the default volume, giving a 128³ cube.
const DefaultRadius = 64

// A Volume is a dense cube of blocks covering [-R, R) on every axis.
// Addresses outside the cube read as Air.
type Volume struct {
	radius int
	side   int
	blocks []Block
	solid  *roaring.Bitmap
}

// NewVolume creates an all-Air volume with the given radius.
func NewVolume(radius int) (*Volume, error) {
	if radius <= 0 || radius > 1<<10 {
		return nil, fmt.Errorf("voxel: volume radius %d out of range", radius)
	}

	side := 2 * radius

	return &Volume{
		radius: radius,
		side:   side,
		blocks: make([]Block, side*side*side),
		solid:  roaring.New(),
	}, nil
}

// MustVolume is NewVolume that panics on an invalid radius.
func MustVolume(radius int) *Volume {
	v, err := NewVolume(radius)
	if err != nil {
		panic(err)
	}

	return v
}

// Radius returns R.
func (v *Volume) Radius() int {
	return v.radius
}

// Side returns the edge length 2R.
func (v *Volume) Side() int {
	return v.side
}

// Contains reports whether c lies inside the cube.
func (v *Volume) Contains(c Coord) bool {
	return v.axisInside(c.X) && v.axisInside(c.Y) && v.axisInside(c.Z)
}

func (v *Volume) axisInside(a int) bool {
	return a >= -v.radius && a < v.radius
}

// Index returns the linear index of c, x varying fastest.
func (v *Volume) Index(c Coord) (int, bool) {
	if !v.Contains(c) {
		return 0, false
	}

	r, s := v.radius, v.side

	return s*(s*(c.Z+r)+(c.Y+r)) + (c.X + r), true
}

// CoordOf reverses Index.
func (v *Volume) CoordOf(index int) Coord {
	s, r := v.side, v.radius

	return Coord{
		X: index%s - r,
		Y: (index/s)%s - r,
		Z: index/(s*s) - r,
	}
}

// Get returns the block at c, or Air outside the cube.
func (v *Volume) Get(c Coord) Block {
	i, ok := v.Index(c)
	if !ok {
		return Air
	}

	return v.blocks[i]
}

// Set stores b at c. Writes outside the cube are ignored and reported as
// false.
func (v *Volume) Set(c Coord, b Block) bool {
	i, ok := v.Index(c)
	if !ok {
		return false
	}

	v.blocks[i] = b
	if b.IsEmpty() {
		v.solid.Remove(uint32(i))
	} else {
		v.solid.Add(uint32(i))
	}

	return true
}

// Fill sets every cell of the box [lo, hi] (inclusive) to b.
func (v *Volume) Fill(lo, hi Coord, b Block) {
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				v.Set(Coord{x, y, z}, b)
			}
		}
	}
}

// SolidCount returns the number of non-Air cells.
func (v *Volume) SolidCount() uint64 {
	return v.solid.GetCardinality()
}

// SolidCells calls fn for every non-Air cell in index order.
func (v *Volume) SolidCells(fn func(c Coord, b Block)) {
	it := v.solid.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		fn(v.CoordOf(i), v.blocks[i])
	}
}

// Raw exposes the dense block array in index order.
func (v *Volume) Raw() []Block {
	return v.blocks
}

func (v *Volume) rebuildSolidIndex() {
	v.solid.Clear()

	for i, b := range v.blocks {
		if !b.IsEmpty() {
			v.solid.Add(uint32(i))
		}
	}
}
