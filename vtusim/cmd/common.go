package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/orchestrator"
	"github.com/sarchlab/vtusim/voxel"
	"github.com/spf13/cobra"
)

const (
	defaultPosition = "0.5,12.5,-40.5"
	defaultHeading  = "0,-0.3,1"
)

type cameraFlags struct {
	position string
	heading  string
	volume   string
}

func (c *cameraFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.position, "pos", defaultPosition,
		"camera position as x,y,z")
	cmd.Flags().StringVar(&c.heading, "heading", defaultHeading,
		"camera heading as x,y,z")
	cmd.Flags().StringVar(&c.volume, "volume", "",
		"volume file; a terrain generated from the seed when empty")
}

// camera returns the camera of frame i out of n. The heading turns around
// the vertical axis so that n frames make one full turn.
func (c *cameraFlags) camera(f *fixed.Format, i, n int) (orchestrator.Camera, error) {
	pos, err := parseVec(c.position)
	if err != nil {
		return orchestrator.Camera{}, fmt.Errorf("--pos: %w", err)
	}

	heading, err := parseVec(c.heading)
	if err != nil {
		return orchestrator.Camera{}, fmt.Errorf("--heading: %w", err)
	}

	if n > 1 {
		heading = turn(heading, 2*math.Pi*float64(i)/float64(n))
	}

	return orchestrator.Camera{
		Position: toFixed(f, pos),
		Heading:  toFixed(f, heading),
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

func parseVec(s string) ([3]float64, error) {
	var v [3]float64

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("want x,y,z, got %q", s)
	}

	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("component %d of %q: %w", i, s, err)
		}

		v[i] = x
	}

	return v, nil
}

func turn(v [3]float64, angle float64) [3]float64 {
	sin, cos := math.Sincos(angle)

	return [3]float64{
		v[0]*cos + v[2]*sin,
		v[1],
		-v[0]*sin + v[2]*cos,
	}
}

func toFixed(f *fixed.Format, v [3]float64) fixed.Vec3 {
	return fixed.Vec3{f.FromFloat(v[0]), f.FromFloat(v[1]), f.FromFloat(v[2])}
}

// loadVolume reads the volume file at path, or generates the terrain of the
// configured seed.
func loadVolume(path string) (*voxel.Volume, error) {
	if path != "" {
		return voxel.LoadVolumeFile(path)
	}

	v, err := voxel.NewVolume(cfg.Radius)
	if err != nil {
		return nil, err
	}

	voxel.Terrain(v, voxel.DefaultTerrainOptions(cfg.Seed))

	return v, nil
}

// platform returns a builder configured from the flags and holding the
// volume.
func platform(camFlags *cameraFlags) (orchestrator.Builder, error) {
	v, err := loadVolume(camFlags.volume)
	if err != nil {
		return orchestrator.Builder{}, err
	}

	b, err := cfg.Builder()
	if err != nil {
		return orchestrator.Builder{}, err
	}

	return b.WithRadius(v.Radius()).WithVolume(v), nil
}

func numberedPath(path string, i, n int) string {
	if n <= 1 {
		return path
	}

	ext := filepath.Ext(path)

	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(path, ext), i, ext)
}

func printStats(i int, s orchestrator.FrameStats) {
	fmt.Printf("frame %d: %d rays, %d hits (%.1f%%), %d cycles\n",
		i, s.Rays, s.Hits, 100*s.HitRate(), s.Cycles)
	fmt.Printf("  steps %d, stall cycles %d\n", s.Steps, s.StallCycles)
	fmt.Printf("  L1 hits %d, misses %d\n", s.L1Hits, s.L1Misses)
	fmt.Printf("  L2 accesses %d, hits %d (%.1f%%), coalesced %d\n",
		s.L2Accesses, s.L2Hits, 100*s.L2HitRatio(), s.L2Coalesced)
	fmt.Printf("  L3 reads %d\n", s.L3Reads)
}
