package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/vtusim/sim"
)

// RenderBatch renders every camera on its own platform. Up to parallelism
// frames run at the same time; zero or less means no limit. Each frame is as
// deterministic as a frame rendered alone. When frames overlap, the batch
// switches the process to the parallel ID generator.
func RenderBatch(
	ctx context.Context,
	b Builder,
	cams []Camera,
	parallelism int,
) ([]*Frame, error) {
	frames := make([]*Frame, len(cams))

	if len(cams) > 1 && parallelism != 1 {
		sim.UseParallelIDGenerator()
	}

	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	for i, cam := range cams {
		i, cam := i, cam
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			o := b.Build(fmt.Sprintf("Frame[%d]", i))

			fr, err := o.RenderFrame(cam)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}

			frames[i] = fr

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return frames, nil
}
