package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sarchlab/vtusim/metrics"
	"github.com/sarchlab/vtusim/monitoring"
	"github.com/sarchlab/vtusim/orchestrator"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	camera cameraFlags
	frames int
	open   bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Render frames behind the monitoring server.",
	Long: "`serve` starts the monitor on --monitor-port, renders a turn " +
		"of frames on one platform and keeps serving until interrupted. " +
		"With --frames 0 it renders until interrupted.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveFlags.camera.register(serveCmd)
	serveCmd.Flags().IntVar(&serveFlags.frames, "frames", 8,
		"frames in one turn of the camera, 0 to turn forever")
	serveCmd.Flags().BoolVar(&serveFlags.open, "open", false,
		"open the monitor in the browser")
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

func newMonitor(
	o *orchestrator.Orchestrator,
	reg *prometheus.Registry,
) (*monitoring.Monitor, *monitoring.RayProgress) {
	m := monitoring.NewMonitor().WithPortNumber(cfg.MonitorPort)
	m.RegisterEngine(o.Engine())
	m.RegisterGatherer(reg)

	for _, c := range o.Components() {
		m.RegisterComponent(c)
	}

	progress := &monitoring.RayProgress{}
	for _, vtu := range o.VTUs() {
		vtu.AcceptHook(progress)
	}

	return m, progress
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveFlags.frames < 0 {
		return fmt.Errorf("--frames must not be negative, got %d",
			serveFlags.frames)
	}

	b, err := platform(&serveFlags.camera)
	if err != nil {
		return err
	}

	o := b.Build("VTUSim")
	reg := newRegistry()
	col := metrics.New(reg)
	col.Attach(o)

	m, progress := newMonitor(o, reg)

	url, err := m.StartServer()
	if err != nil {
		return err
	}

	if serveFlags.open {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	ctx := cmd.Context()
	turn := serveFlags.frames
	if turn == 0 {
		turn = 8
	}

	for i := 0; serveFlags.frames == 0 || i < serveFlags.frames; i++ {
		if ctx.Err() != nil {
			return nil
		}

		cam, err := serveFlags.camera.camera(o.Format(), i%turn, turn)
		if err != nil {
			return err
		}

		bar := m.CreateProgressBar(fmt.Sprintf("Frame %d", i),
			uint64(cam.Width*cam.Height))
		progress.SetBar(bar)

		fr, err := o.RenderFrame(cam)

		progress.SetBar(nil)
		m.CompleteProgressBar(bar)

		if err != nil {
			return err
		}

		col.ObserveFrame(fr)
		printStats(i, fr.Stats)
	}

	fmt.Fprintf(os.Stderr, "Frames done, serving %s until interrupted\n", url)
	<-ctx.Done()

	return nil
}
