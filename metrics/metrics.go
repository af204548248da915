// Package metrics exports the activity of a model as Prometheus metrics. The
// collectors are fed by the hooks of the caches and the traversal engines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarchlab/vtusim/mem/l1"
	"github.com/sarchlab/vtusim/mem/l2"
	"github.com/sarchlab/vtusim/mem/l3"
	"github.com/sarchlab/vtusim/orchestrator"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/tracing"
	"github.com/sarchlab/vtusim/traversal"
)

const (
	componentLabel = "component"
	outcomeLabel   = "outcome"
	namespace      = "vtusim"
)

// Collectors holds the metrics of one or more models.
type Collectors struct {
	l1Queries   *prometheus.CounterVec
	l2Accesses  *prometheus.CounterVec
	l2Fills     *prometheus.CounterVec
	l3Latency   *prometheus.HistogramVec
	rays        *prometheus.CounterVec
	raySteps    prometheus.Histogram
	rayCycles   prometheus.Histogram
	frames      prometheus.Counter
	frameCycles prometheus.Gauge
	hitRate     prometheus.Gauge
	l2HitRatio  prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)

	return &Collectors{
		l1Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "l1_queries_total",
			Help:      "The number of L1 lookups by outcome.",
		}, []string{componentLabel, outcomeLabel}),

		l2Accesses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "l2_accesses_total",
			Help:      "The number of L2 lookups by outcome.",
		}, []string{componentLabel, outcomeLabel}),

		l2Fills: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "l2_fills_total",
			Help:      "The number of L3 responses reaching the L2.",
		}, []string{componentLabel, outcomeLabel}),

		l3Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "l3_latency_cycles",
			Help:      "The latency of the L3 store.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}, []string{componentLabel}),

		rays: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rays_total",
			Help:      "The number of resolved rays by outcome.",
		}, []string{outcomeLabel}),

		raySteps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ray_steps",
			Help:      "The number of DDA steps per ray.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
		}),

		rayCycles: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ray_cycles",
			Help:      "The number of cycles from INIT to resolution.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		}),

		frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "The number of rendered frames.",
		}),

		frameCycles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_cycles",
			Help:      "The cycles taken by the last frame.",
		}),

		hitRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_hit_rate",
			Help:      "The fraction of rays of the last frame that hit.",
		}),

		l2HitRatio: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_l2_hit_ratio",
			Help:      "The L2 hit ratio of the last frame.",
		}),
	}
}

// Attach hooks the collectors to every component of a model.
func (c *Collectors) Attach(o *orchestrator.Orchestrator) {
	h := sim.HookFunc(c.Func)

	o.L1().AcceptHook(h)
	o.L2().AcceptHook(h)
	o.L3().AcceptHook(h)

	for _, vtu := range o.VTUs() {
		vtu.AcceptHook(h)
	}
}

// Func updates the collectors from a hook.
func (c *Collectors) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case l1.HookPosQuery:
		outcome := "miss"
		if ctx.Detail.(l1.QueryDetail).Hit {
			outcome = "hit"
		}

		c.l1Queries.WithLabelValues(domainName(ctx), outcome).Inc()
	case l2.HookPosAccess:
		c.l2Accesses.
			WithLabelValues(
				domainName(ctx),
				tracing.Classify(ctx.Detail.(l2.AccessDetail))).
			Inc()
	case l2.HookPosFill:
		outcome := "filled"
		if ctx.Detail.(l2.FillDetail).Dropped {
			outcome = "dropped"
		}

		c.l2Fills.WithLabelValues(domainName(ctx), outcome).Inc()
	case l3.HookPosServe:
		lat := ctx.Detail.(sim.VTimeInCycle)
		c.l3Latency.WithLabelValues(domainName(ctx)).Observe(float64(lat))
	case traversal.HookPosRayDone:
		c.observeRay(ctx.Item.(traversal.Result))
	}
}

func domainName(ctx sim.HookCtx) string {
	if n, ok := ctx.Domain.(sim.Named); ok {
		return n.Name()
	}

	return ""
}

func (c *Collectors) observeRay(r traversal.Result) {
	outcome := "hit"
	if !r.Hit {
		outcome = r.Reason.String()
	}

	c.rays.WithLabelValues(outcome).Inc()
	c.raySteps.Observe(float64(r.Steps))
	c.rayCycles.Observe(float64(r.Cycles))
}

// ObserveFrame records the statistics of a finished frame.
func (c *Collectors) ObserveFrame(fr *orchestrator.Frame) {
	c.frames.Inc()
	c.frameCycles.Set(float64(fr.Stats.Cycles))
	c.hitRate.Set(fr.Stats.HitRate())
	c.l2HitRatio.Set(fr.Stats.L2HitRatio())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
