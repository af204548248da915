// Package orchestrator turns a camera into rays, spreads the rays over a set
// of traversal engines that share one cache hierarchy, and collects the
// results into a frame.
package orchestrator

import (
	"fmt"

	"github.com/sarchlab/vtusim/fixed"
)

// ViewportHeight is the height of the viewport in world units. The width
// follows the aspect ratio of the frame.
const ViewportHeight = 2.0

// Camera describes where rays start and where they go. The viewport sits one
// unit in front of the camera.
type Camera struct {
	Position fixed.Vec3
	Heading  fixed.Vec3
	Width    int
	Height   int
}

// Validate checks the frame size.
func (c Camera) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}

	return nil
}

// Basis returns the orthonormal camera frame: w looks forward, u points right
// and v points up.
func (c Camera) Basis(f *fixed.Format) (u, v, w fixed.Vec3) {
	w = f.Normalize(c.Heading)
	u = f.Normalize(fixed.Vec3{w[fixed.Z], 0, f.Neg(w[fixed.X])})
	v = f.Cross(w, u)

	return u, v, w
}

// RayDirections returns the raw direction of the ray through the centre of
// every pixel, in row-major order starting at the top-left pixel.
func (c Camera) RayDirections(f *fixed.Format) []fixed.Vec3 {
	u, v, w := c.Basis(f)

	viewportW := 2.0 * float64(c.Width) / float64(c.Height)
	vpW := f.FromFloat(viewportW)
	vpH := f.FromFloat(ViewportHeight)

	viewportU := f.VScale(u, vpW)
	viewportV := f.VScale(f.VNeg(v), vpH)

	deltaU := f.VScale(u, f.FromFloat(f.Float(vpW)/float64(c.Width)))
	deltaV := f.VScale(f.VNeg(v), f.FromFloat(f.Float(vpH)/float64(c.Height)))

	half := f.FromFloat(0.5)
	corner := f.VSub(
		f.VSub(c.Position, w),
		f.VScale(f.VAdd(viewportU, viewportV), half),
	)
	pixel0 := f.VAdd(corner, f.VScale(f.VAdd(deltaU, deltaV), half))

	dirs := make([]fixed.Vec3, 0, c.Width*c.Height)

	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			pixel := f.VAdd(pixel0, f.VAdd(
				f.VScale(deltaU, f.FromInt(int64(x))),
				f.VScale(deltaV, f.FromInt(int64(y))),
			))
			dirs = append(dirs, f.VSub(pixel, c.Position))
		}
	}

	return dirs
}
