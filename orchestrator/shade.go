package orchestrator

import (
	"image/color"

	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/traversal"
	"github.com/sarchlab/vtusim/voxel"
)

// RGB565 is a 16-bit frame buffer pixel.
type RGB565 uint16

// NewRGB565 packs 8-bit channels.
func NewRGB565(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGBA implements color.Color. Channels are scaled back without filling the
// low bits.
func (p RGB565) RGBA() (r, g, b, a uint32) {
	return color.RGBA{
		R: uint8(p>>11) << 3,
		G: uint8(p>>5&0x3f) << 2,
		B: uint8(p&0x1f) << 3,
		A: 0xff,
	}.RGBA()
}

var (
	skyColor     = [3]int64{174, 200, 235}
	defaultColor = [3]int64{82, 70, 84}
	palette      = map[voxel.Block][3]int64{
		voxel.Water:     {52, 67, 138},
		voxel.Grass:     {90, 133, 77},
		voxel.Dirt:      {133, 96, 77},
		voxel.OakLog:    {91, 58, 42},
		voxel.OakLeaves: {129, 165, 118},
	}
)

// DefaultSun is the direction the light travels in, before normalization.
var DefaultSun = [3]float64{1, -5, 2}

// Shader colors ray results with a flat palette and a single directional
// light.
type Shader struct {
	format *fixed.Format
	sun    fixed.Vec3
	base   fixed.Fixed
	slope  fixed.Fixed
}

// NewShader creates a shader for the given light direction.
func NewShader(f *fixed.Format, sun [3]float64) *Shader {
	return &Shader{
		format: f,
		sun:    f.Normalize(f.Vec(sun[0], sun[1], sun[2])),
		base:   f.FromFloat(0.4),
		slope:  f.FromFloat(0.2),
	}
}

// Shade returns the pixel for one ray result. Rays that hit nothing show the
// sky.
func (s *Shader) Shade(r traversal.Result) RGB565 {
	if !r.Hit {
		return NewRGB565(uint8(skyColor[0]), uint8(skyColor[1]), uint8(skyColor[2]))
	}

	f := s.format
	normal := fixed.Vec3{
		f.FromInt(r.Normal[fixed.X]),
		f.FromInt(r.Normal[fixed.Y]),
		f.FromInt(r.Normal[fixed.Z]),
	}
	light := f.Add(s.base, f.Mul(s.slope, f.Dot(normal, s.sun)))

	c, ok := palette[r.Block]
	if !ok {
		c = defaultColor
	}

	var out [3]uint8
	for i := range c {
		out[i] = clampChannel(f.Floor(f.Mul(f.FromInt(c[i]), light)))
	}

	return NewRGB565(out[0], out[1], out[2])
}

func clampChannel(v int64) uint8 {
	if v < 0 {
		return 0
	}

	if v > 255 {
		return 255
	}

	return uint8(v)
}
