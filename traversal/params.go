package traversal

import (
	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/voxel"
)

// Params are the ray parameters computed during INIT. Every field is
// bit-reproducible from the origin and the raw direction.
type Params struct {
	Origin    fixed.Vec3
	Direction fixed.Vec3
	Position  fixed.Vec3i
	Step      fixed.Vec3i
	TDelta    fixed.Vec3
	Dist      fixed.Vec3
	TMax      fixed.Vec3
}

// ComputeParams derives the DDA parameters of a ray. The step sign comes from
// the raw direction so that tiny components do not lose their sign to
// normalization. Axes the normalized direction does not move along get a
// tMax of Max and are never crossed.
func ComputeParams(f *fixed.Format, origin, rawDir fixed.Vec3) Params {
	dir := f.Normalize(rawDir)
	pos := f.FloorVec(origin)

	p := Params{
		Origin:    origin,
		Direction: dir,
		Position:  pos,
	}

	for _, a := range fixed.Axes {
		if rawDir[a] > 0 {
			p.Step[a] = 1
		} else {
			p.Step[a] = -1
		}

		p.TDelta[a] = f.Abs(f.RecipUnit(dir[a]))

		cell := f.GridToFixed(pos[a])
		if p.Step[a] > 0 {
			p.Dist[a] = f.Sub(f.One(), f.Add(origin[a], cell))
		} else {
			p.Dist[a] = f.Sub(origin[a], cell)
		}

		if dir[a] != 0 {
			p.TMax[a] = f.Mul(p.TDelta[a], p.Dist[a])
		} else {
			p.TMax[a] = f.Max()
		}
	}

	return p
}

// nextAxis picks the axis with the smallest tMax. Ties go to y over x and to
// z over both.
func nextAxis(tMax fixed.Vec3) fixed.Axis {
	if tMax[fixed.X] < tMax[fixed.Y] {
		if tMax[fixed.X] < tMax[fixed.Z] {
			return fixed.X
		}

		return fixed.Z
	}

	if tMax[fixed.Y] < tMax[fixed.Z] {
		return fixed.Y
	}

	return fixed.Z
}

// advance moves p one cell along the chosen axis.
func advance(f *fixed.Format, p *Params) fixed.Axis {
	a := nextAxis(p.TMax)

	var delta fixed.Vec3i
	delta[a] = p.Step[a]

	p.Position = f.GridAdd(p.Position, delta)
	p.TMax[a] = f.Add(p.TMax[a], p.TDelta[a])

	return a
}

// ExhaustReason tells why a ray ended without a hit.
type ExhaustReason int

// The reasons a ray can be exhausted.
const (
	NotExhausted ExhaustReason = iota
	MaxStepsExceeded
	OutOfBounds
)

func (r ExhaustReason) String() string {
	switch r {
	case NotExhausted:
		return "none"
	case MaxStepsExceeded:
		return "max_steps"
	case OutOfBounds:
		return "out_of_bounds"
	}

	return "unknown"
}

// Result is what the engine reports once a ray resolves. A ray that hits
// nothing reports Air.
type Result struct {
	Hit         bool
	Block       voxel.Block
	Steps       int
	Normal      fixed.Vec3i
	Position    voxel.Coord
	Reason      ExhaustReason
	StallCycles uint64
	Cycles      uint64
}
