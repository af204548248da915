package cmd

import (
	"fmt"
	"image/png"
	"os"

	"github.com/sarchlab/vtusim/datarecording"
	"github.com/sarchlab/vtusim/orchestrator"
	"github.com/spf13/cobra"
)

var renderFlags struct {
	camera   cameraFlags
	out      string
	frames   int
	parallel int
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render frames and write them as PNG images.",
	Long: "`render` renders one frame, or with --frames a turn of frames " +
		"on independent platforms. With --db every ray is recorded.",
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderFlags.camera.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderFlags.out, "out", "o", "frame.png",
		"output image; frames are numbered when there are several")
	renderCmd.Flags().IntVar(&renderFlags.frames, "frames", 1,
		"number of frames in one turn of the camera")
	renderCmd.Flags().IntVar(&renderFlags.parallel, "parallel", 0,
		"frames rendered at the same time, 0 for no limit")
}

func runRender(cmd *cobra.Command, _ []string) error {
	if renderFlags.frames < 1 {
		return fmt.Errorf("--frames must be positive, got %d",
			renderFlags.frames)
	}

	b, err := platform(&renderFlags.camera)
	if err != nil {
		return err
	}

	f, err := cfg.Format()
	if err != nil {
		return err
	}

	cams := make([]orchestrator.Camera, renderFlags.frames)

	for i := range cams {
		cams[i], err = renderFlags.camera.camera(f, i, renderFlags.frames)
		if err != nil {
			return err
		}
	}

	frames, err := orchestrator.RenderBatch(
		cmd.Context(), b, cams, renderFlags.parallel)
	if err != nil {
		return err
	}

	for i, fr := range frames {
		path := numberedPath(renderFlags.out, i, len(frames))
		if err := writePNG(path, fr); err != nil {
			return err
		}

		printStats(i, fr.Stats)
	}

	if cfg.DBPath != "" {
		return recordFrames(cfg.DBPath, frames)
	}

	return nil
}

func writePNG(path string, fr *orchestrator.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(file, fr.Image()); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return file.Close()
}

func recordFrames(path string, frames []*orchestrator.Frame) error {
	rec, err := datarecording.New(path)
	if err != nil {
		return err
	}

	w := datarecording.NewRayWriter(rec)
	for i, fr := range frames {
		w.WriteFrame(i, fr.Width, fr.Results)
	}

	return rec.Close()
}
