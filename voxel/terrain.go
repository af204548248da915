package voxel

import (
	"math"
	"math/rand"
)

// TerrainOptions controls Terrain.
type TerrainOptions struct {
	Seed       int64
	BaseHeight int
	Amplitude  float64
	Scale      float64
	WaterLevel int
	TreeChance float64
}

// DefaultTerrainOptions returns options that produce rolling hills with a
// few lakes and trees inside the default volume.
func DefaultTerrainOptions(seed int64) TerrainOptions {
	return TerrainOptions{
		Seed:       seed,
		BaseHeight: -2,
		Amplitude:  6,
		Scale:      1.0 / 16,
		WaterLevel: -3,
		TreeChance: 0.01,
	}
}

// Terrain fills v with a height-map landscape: stone under dirt under grass,
// water in the valleys below the water level and oak trees on the grass. The
// result only depends on the options.
func Terrain(v *Volume, opts TerrainOptions) {
	r := v.Radius()
	rng := rand.New(rand.NewSource(opts.Seed))

	for z := -r; z < r; z++ {
		for x := -r; x < r; x++ {
			h := opts.BaseHeight + int(math.Round(
				opts.Amplitude*(2*valueNoise2D(x, z, opts.Scale, opts.Seed)-1)))

			fillColumn(v, x, z, h, opts.WaterLevel)

			if h > opts.WaterLevel && rng.Float64() < opts.TreeChance {
				plantTree(v, Coord{x, h + 1, z}, 4+rng.Intn(2))
			}
		}
	}
}

func fillColumn(v *Volume, x, z, height, waterLevel int) {
	r := v.Radius()

	for y := -r; y <= height && y < r; y++ {
		b := Stone

		switch {
		case y == height && height < waterLevel:
			b = Sand
		case y == height:
			b = Grass
		case y >= height-2:
			b = Dirt
		}

		v.Set(Coord{x, y, z}, b)
	}

	for y := height + 1; y <= waterLevel && y < r; y++ {
		v.Set(Coord{x, y, z}, Water)
	}
}

func plantTree(v *Volume, base Coord, trunk int) {
	top := base.Y + trunk - 1

	for dy := -2; dy <= 1; dy++ {
		reach := 2
		if dy == 1 {
			reach = 1
		}

		for dz := -reach; dz <= reach; dz++ {
			for dx := -reach; dx <= reach; dx++ {
				c := Coord{base.X + dx, top + dy, base.Z + dz}
				if v.Get(c).IsEmpty() {
					v.Set(c, OakLeaves)
				}
			}
		}
	}

	for y := base.Y; y <= top; y++ {
		v.Set(Coord{base.X, y, base.Z}, OakLog)
	}
}

// valueNoise2D is bilinearly interpolated lattice noise in [0, 1].
func valueNoise2D(x, z int, scale float64, seed int64) float64 {
	fx := float64(x) * scale
	fz := float64(z) * scale
	x0, z0 := math.Floor(fx), math.Floor(fz)
	tx, tz := smooth(fx-x0), smooth(fz-z0)

	ix, iz := int64(x0), int64(z0)
	v00 := latticeValue(ix, iz, seed)
	v10 := latticeValue(ix+1, iz, seed)
	v01 := latticeValue(ix, iz+1, seed)
	v11 := latticeValue(ix+1, iz+1, seed)

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx

	return top + (bottom-top)*tz
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func latticeValue(x, z, seed int64) float64 {
	h := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(z)*0xC2B2AE3D27D4EB4F ^ uint64(seed)
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33

	return float64(h>>11) / float64(1<<53)
}

// Sphere fills the ball of the given radius around centre with b.
func Sphere(v *Volume, centre Coord, radius int, b Block) {
	r2 := radius * radius

	for dz := -radius; dz <= radius; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy+dz*dz <= r2 {
					v.Set(centre.Add(Coord{dx, dy, dz}), b)
				}
			}
		}
	}
}

// Floor fills the horizontal layer y with b.
func Floor(v *Volume, y int, b Block) {
	r := v.Radius()
	v.Fill(Coord{-r, y, -r}, Coord{r - 1, y, r - 1}, b)
}
