package heat_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatsim/internal/heat"
)

var _ = Describe("ComputeSteps", func() {
	DescribeTable("derives dx and dt exactly",
		func(length, duration float64, nx, nt int) {
			g, err := heat.ComputeSteps(length, duration, nx, nt)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Dx).To(Equal(length / float64(nx-1)))
			Expect(g.Dt).To(Equal(duration / float64(nt)))
		},
		Entry("form defaults", 10.0, 100.0, 100, 2000),
		Entry("small scenario", 10.0, 100.0, 5, 3),
		Entry("minimum grid", 1.0, 1.0, 3, 1),
		Entry("two points", 2.0, 0.5, 2, 7),
	)

	It("rejects fewer than two points", func() {
		_, err := heat.ComputeSteps(1, 1, 1, 10)
		Expect(errors.Is(err, heat.ErrInvalidConfiguration)).To(BeTrue())

		var cfgErr *heat.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(cfgErr.Field).To(Equal("points"))
	})

	It("rejects zero time steps", func() {
		_, err := heat.ComputeSteps(1, 1, 5, 0)
		Expect(err).To(MatchError(heat.ErrInvalidConfiguration))
	})

	It("spaces positions evenly from 0 to L", func() {
		g, err := heat.ComputeSteps(10, 1, 5, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Positions()).To(Equal([]float64{0, 2.5, 5, 7.5, 10}))
		Expect(g.TimeAt(0)).To(Equal(0.0))
	})
})

var _ = Describe("CheckStability", func() {
	It("computes r = alpha*dt/dx^2", func() {
		report := heat.CheckStability(0.01, 2.5, 100.0/3)
		Expect(report.R).To(BeNumerically("~", 0.01*(100.0/3)/6.25, 1e-15))
		Expect(report.Stable).To(BeTrue())
	})

	DescribeTable("reports unstable iff r > 0.5",
		func(alpha, dx, dt float64, stable bool) {
			Expect(heat.CheckStability(alpha, dx, dt).Stable).To(Equal(stable))
		},
		Entry("well below", 0.01, 1.0, 1.0, true),
		Entry("exactly at the limit", 0.5, 1.0, 1.0, true),
		Entry("just above", 0.5000001, 1.0, 1.0, false),
		Entry("far above", 1.0, 0.1, 1.0, false),
	)

	It("describes itself", func() {
		Expect(heat.CheckStability(1, 1, 1).String()).To(ContainSubstring("unstable"))
		Expect(heat.CheckStability(0.1, 1, 1).String()).To(HavePrefix("stable"))
	})
})

var _ = Describe("Config.Validate", func() {
	valid := heat.Config{Length: 10, Duration: 100, Points: 5, Steps: 3, Alpha: 0.01}

	It("accepts a valid config", func() {
		Expect(valid.Validate()).To(Succeed())
	})

	DescribeTable("rejects structural violations",
		func(mutate func(*heat.Config), field string) {
			cfg := valid
			mutate(&cfg)
			err := cfg.Validate()
			var cfgErr *heat.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal(field))
			Expect(err).To(MatchError(heat.ErrInvalidConfiguration))
		},
		Entry("two points", func(c *heat.Config) { c.Points = 2 }, "points"),
		Entry("no steps", func(c *heat.Config) { c.Steps = 0 }, "steps"),
		Entry("zero length", func(c *heat.Config) { c.Length = 0 }, "length"),
		Entry("negative duration", func(c *heat.Config) { c.Duration = -1 }, "duration"),
		Entry("zero alpha", func(c *heat.Config) { c.Alpha = 0 }, "alpha"),
	)
})
