package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/vtusim/datarecording"
	"github.com/sarchlab/vtusim/orchestrator"
	"github.com/sarchlab/vtusim/tracing"
	"github.com/spf13/cobra"
)

var traceFlags struct {
	camera cameraFlags
	json   string
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Render one frame and report the cache and ray tasks.",
	Long: "`trace` renders one frame with tracers on the L2, the L3 and " +
		"every traversal engine. With --json the tasks are written as JSON " +
		"lines and with --db they are stored in the trace table.",
	Args: cobra.NoArgs,
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceFlags.camera.register(traceCmd)
	traceCmd.Flags().StringVar(&traceFlags.json, "json", "",
		"file that receives the tasks as JSON lines")
}

type traceReport struct {
	l2Steps *tracing.StepCountTracer
	l2Time  *tracing.AverageTimeTracer
	l3Time  *tracing.AverageTimeTracer
	l3Busy  *tracing.BusyTimeTracer
	rays    *tracing.StepCountTracer
	rayTime *tracing.AverageTimeTracer
}

func newTraceReport(o *orchestrator.Orchestrator) *traceReport {
	e := o.Engine()
	r := &traceReport{
		l2Steps: tracing.NewStepCountTracer(nil),
		l2Time:  tracing.NewAverageTimeTracer(e, nil),
		l3Time:  tracing.NewAverageTimeTracer(e, nil),
		l3Busy:  tracing.NewBusyTimeTracer(e, nil),
		rays:    tracing.NewStepCountTracer(nil),
		rayTime: tracing.NewAverageTimeTracer(e, nil),
	}

	tracing.CollectTrace(o.L2(), r.l2Steps)
	tracing.CollectTrace(o.L2(), r.l2Time)
	tracing.CollectTrace(o.L3(), r.l3Time)
	tracing.CollectTrace(o.L3(), r.l3Busy)

	for _, vtu := range o.VTUs() {
		tracing.CollectTrace(vtu, r.rays)
		tracing.CollectTrace(vtu, r.rayTime)
	}

	return r
}

func (r *traceReport) print(cycles uint64) {
	fmt.Printf("L2 accesses %d, average %.2f cycles, max %d\n",
		r.l2Time.TotalCount(), r.l2Time.AverageTime(), r.l2Time.MaxTime())

	for _, name := range r.l2Steps.GetStepNames() {
		fmt.Printf("  %-10s %d\n", name, r.l2Steps.GetStepCount(name))
	}

	fmt.Printf("L3 accesses %d, average %.2f cycles, busy %d of %d cycles\n",
		r.l3Time.TotalCount(), r.l3Time.AverageTime(),
		r.l3Busy.BusyTime(), cycles)

	fmt.Printf("rays %d, average %.2f cycles, max %d\n",
		r.rayTime.TotalCount(), r.rayTime.AverageTime(), r.rayTime.MaxTime())

	for _, name := range r.rays.GetStepNames() {
		fmt.Printf("  %-12s %d\n", name, r.rays.GetStepCount(name))
	}
}

// collectAll attaches one tracer to every traced component.
func collectAll(o *orchestrator.Orchestrator, t tracing.Tracer) {
	tracing.CollectTrace(o.L2(), t)
	tracing.CollectTrace(o.L3(), t)

	for _, vtu := range o.VTUs() {
		tracing.CollectTrace(vtu, t)
	}
}

func runTrace(_ *cobra.Command, _ []string) error {
	b, err := platform(&traceFlags.camera)
	if err != nil {
		return err
	}

	o := b.Build("VTUSim")
	report := newTraceReport(o)

	var jsonTracer *tracing.JSONTracer

	if traceFlags.json != "" {
		file, err := os.Create(traceFlags.json)
		if err != nil {
			return err
		}
		defer file.Close()

		jsonTracer = tracing.NewJSONTracer(o.Engine(), file)
		collectAll(o, jsonTracer)
	}

	var (
		rec      datarecording.DataRecorder
		dbTracer *tracing.DBTracer
	)

	if cfg.DBPath != "" {
		rec, err = datarecording.New(cfg.DBPath)
		if err != nil {
			return err
		}

		dbTracer = tracing.NewDBTracer(o.Engine(), rec)
		collectAll(o, dbTracer)
	}

	cam, err := traceFlags.camera.camera(o.Format(), 0, 1)
	if err != nil {
		return err
	}

	fr, err := o.RenderFrame(cam)
	if err != nil {
		return err
	}

	printStats(0, fr.Stats)
	report.print(fr.Stats.Cycles)

	if jsonTracer != nil && jsonTracer.Err() != nil {
		return fmt.Errorf("writing %s: %w", traceFlags.json, jsonTracer.Err())
	}

	if dbTracer != nil {
		dbTracer.Terminate()
		datarecording.NewRayWriter(rec).WriteFrame(0, fr.Width, fr.Results)

		return rec.Close()
	}

	return nil
}
