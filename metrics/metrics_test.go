package metrics

import (
	"io"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sarchlab/vtusim/fixed"
	"github.com/sarchlab/vtusim/mem/l3"
	"github.com/sarchlab/vtusim/orchestrator"
	"github.com/sarchlab/vtusim/tracing"
	"github.com/sarchlab/vtusim/voxel"
)

var _ = Describe("Collectors", func() {
	var (
		f   = fixed.Q8
		reg *prometheus.Registry
		c   *Collectors
		o   *orchestrator.Orchestrator
		fr  *orchestrator.Frame
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		c = New(reg)

		volume := voxel.MustVolume(16)
		voxel.Floor(volume, 0, voxel.Stone)

		o = orchestrator.MakeBuilder().
			WithVolume(volume).
			WithLatency(func() l3.LatencyFunc { return l3.FixedLatency(4) }).
			Build("Metered")
		c.Attach(o)

		var err error
		fr, err = o.RenderFrame(orchestrator.Camera{
			Position: f.Vec(0.5, 3.5, 0.5),
			Heading:  f.Vec(0, 0, 1),
			Width:    8,
			Height:   4,
		})
		Expect(err).NotTo(HaveOccurred())
		c.ObserveFrame(fr)
	})

	l2Count := func(outcome string) uint64 {
		return uint64(testutil.ToFloat64(
			c.l2Accesses.WithLabelValues(o.L2().Name(), outcome)))
	}

	It("should count ray outcomes", func() {
		Expect(testutil.ToFloat64(c.rays.WithLabelValues("hit"))).
			To(Equal(13.0))
		Expect(testutil.CollectAndCount(c.raySteps)).To(Equal(1))
		Expect(testutil.ToFloat64(c.frames)).To(Equal(1.0))
		Expect(testutil.ToFloat64(c.hitRate)).
			To(BeNumerically("~", 13.0/32.0))
	})

	It("should classify L2 accesses", func() {
		s := fr.Stats

		Expect(l2Count(tracing.WhatInstant)).To(Equal(s.L2Hits))
		Expect(l2Count(tracing.WhatCoalesced)).To(Equal(s.L2Coalesced))
		Expect(l2Count(tracing.WhatMiss)).To(Equal(s.L3Reads))
		Expect(testutil.ToFloat64(
			c.l2Fills.WithLabelValues(o.L2().Name(), "filled"))).
			To(Equal(float64(s.L3Reads)))
	})

	It("should count L1 lookups", func() {
		hits := testutil.ToFloat64(
			c.l1Queries.WithLabelValues(o.L1().Name(), "hit"))
		misses := testutil.ToFloat64(
			c.l1Queries.WithLabelValues(o.L1().Name(), "miss"))

		Expect(uint64(hits)).To(Equal(fr.Stats.L1Hits))
		Expect(uint64(misses)).To(Equal(fr.Stats.L1Misses))
	})

	It("should serve the metrics", func() {
		srv := httptest.NewServer(Handler(reg))
		defer srv.Close()

		rsp, err := srv.Client().Get(srv.URL)
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("vtusim_rays_total"))
		Expect(string(body)).To(ContainSubstring("vtusim_l3_latency_cycles"))
	})
})
