package heat_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/profile"
)

type recorder struct {
	snaps []heat.Snapshot
}

func (r *recorder) OnSnapshot(s heat.Snapshot) { r.snaps = append(r.snaps, s) }

func (r *recorder) steps() []int {
	out := make([]int, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.Step
	}
	return out
}

var _ = Describe("Engine", func() {
	small := heat.Config{Length: 10, Duration: 100, Points: 5, Steps: 3, Alpha: 0.01}

	Describe("construction", func() {
		It("starts in the Created state with the derived grid", func() {
			e, err := heat.New(small, heat.Field{0, 100, 100, 100, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.State()).To(Equal(heat.Created))
			Expect(e.StepIndex()).To(Equal(0))
			Expect(e.Grid().Dx).To(Equal(2.5))
			Expect(e.Grid().Dt).To(Equal(100.0 / 3))
			Expect(e.Stability().Stable).To(BeTrue())
			Expect(e.DiffusionNumber()).To(BeNumerically("~", 0.0533, 1e-4))
			Expect(e.SnapshotInterval()).To(Equal(heat.DefaultSnapshotInterval))
		})

		It("rejects an initial field of the wrong length", func() {
			_, err := heat.New(small, heat.Field{0, 100, 0})
			Expect(errors.Is(err, heat.ErrInvalidConfiguration)).To(BeTrue())
		})

		It("rejects an invalid config before anything runs", func() {
			cfg := small
			cfg.Points = 2
			_, err := heat.New(cfg, heat.Field{0, 0})
			Expect(err).To(MatchError(heat.ErrInvalidConfiguration))
		})

		It("copies the initial field", func() {
			initial := heat.Field{0, 100, 100, 100, 0}
			e, err := heat.New(small, initial)
			Expect(err).NotTo(HaveOccurred())
			initial[2] = -1
			Expect(e.Field()[2]).To(Equal(100.0))
		})
	})

	Describe("stepping", func() {
		It("matches the hand-computed first step", func() {
			e, err := heat.New(small, heat.Field{0, 100, 100, 100, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Step()).To(Succeed())

			r := 0.01 * (100.0 / 3) / (2.5 * 2.5)
			f := e.Field()
			Expect(e.StepIndex()).To(Equal(1))
			Expect(f[0]).To(Equal(0.0))
			Expect(f[1]).To(BeNumerically("~", 100+r*(0-200+100), 1e-12))
			Expect(f[2]).To(BeNumerically("~", 100.0, 1e-12))
			Expect(f[3]).To(BeNumerically("~", 100+r*(100-200+0), 1e-12))
			Expect(f[4]).To(Equal(0.0))
		})

		It("reads only the previous step's values", func() {
			cfg := heat.Config{Length: 1, Duration: 1, Points: 6, Steps: 4, Alpha: 0.02}
			initial := heat.Field{3, 7, -2, 11, 5, 1}
			e, err := heat.New(cfg, initial, heat.WithSnapshotInterval(1))
			Expect(err).NotTo(HaveOccurred())
			r := e.DiffusionNumber()

			want := initial.Clone()
			for t := 1; t < cfg.Steps; t++ {
				next := make(heat.Field, len(want))
				for i := 1; i < len(want)-1; i++ {
					next[i] = want[i] + r*(want[i-1]-2*want[i]+want[i+1])
				}
				next[0], next[len(want)-1] = cfg.Left, cfg.Right
				want = next

				Expect(e.Step()).To(Succeed())
				Expect(e.Field()).To(Equal(want))
			}
			Expect(e.Done()).To(BeTrue())
		})

		It("updates only the single interior point on the minimum grid", func() {
			cfg := heat.Config{Length: 2, Duration: 1, Points: 3, Steps: 3, Alpha: 0.1, Left: 10, Right: 10}
			e, err := heat.New(cfg, heat.Field{0, 50, 0})
			Expect(err).NotTo(HaveOccurred())
			r := e.DiffusionNumber()

			Expect(e.Step()).To(Succeed())
			Expect(e.Field()).To(Equal(heat.Field{10, 50 + r*(0-100+0), 10}))

			mid := 50 + r*(0-100+0)
			Expect(e.Step()).To(Succeed())
			Expect(e.Field()).To(Equal(heat.Field{10, mid + r*(10-2*mid+10), 10}))
			Expect(e.Done()).To(BeTrue())
		})

		It("refuses to step after finishing", func() {
			e, err := heat.New(small, heat.Field{0, 100, 100, 100, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Run()).To(Succeed())
			Expect(e.State()).To(Equal(heat.Finished))
			Expect(e.StepIndex()).To(Equal(small.Steps - 1))
			Expect(e.Step()).To(MatchError(heat.ErrFinished))
			Expect(e.Run()).To(Succeed())
		})

		It("finishes immediately with a single time step", func() {
			cfg := small
			cfg.Steps = 1
			rec := &recorder{}
			e, err := heat.New(cfg, heat.Field{0, 100, 100, 100, 0}, heat.WithObserver(rec))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Step()).To(Succeed())
			Expect(e.Done()).To(BeTrue())
			Expect(rec.steps()).To(Equal([]int{0}))
			Expect(rec.snaps[0].Field).To(Equal(heat.Field{0, 100, 100, 100, 0}))
		})

		It("stops between steps when the context is canceled", func() {
			e, err := heat.New(small, heat.Field{0, 100, 100, 100, 0})
			Expect(err).NotTo(HaveOccurred())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(e.RunContext(ctx)).To(MatchError(context.Canceled))
			Expect(e.State()).To(Equal(heat.Created))
		})

		It("does not guard against blow-up when unstable", func() {
			cfg := heat.Config{Length: 1, Duration: 10, Points: 11, Steps: 200, Alpha: 1}
			e, err := heat.New(cfg, profile.HotMiddle(cfg.Points, 100))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Stability().Stable).To(BeFalse())
			Expect(e.Run()).To(Succeed())
			Expect(e.Done()).To(BeTrue())
		})
	})

	Describe("snapshots", func() {
		DescribeTable("are emitted at step 0, every interval and at the final step",
			func(steps, interval int, want []int) {
				cfg := heat.Config{Length: 10, Duration: 100, Points: 12, Steps: steps, Alpha: 0.01}
				rec := &recorder{}
				opts := []heat.Option{heat.WithObserver(rec)}
				if interval > 0 {
					opts = append(opts, heat.WithSnapshotInterval(interval))
				}
				e, err := heat.New(cfg, profile.HotMiddle(cfg.Points, 100), opts...)
				Expect(err).NotTo(HaveOccurred())
				Expect(e.Run()).To(Succeed())
				Expect(rec.steps()).To(Equal(want))
			},
			Entry("default cadence with a trailing final step", 250, 0, []int{0, 100, 200, 249}),
			Entry("final step on the cadence is emitted once", 201, 0, []int{0, 100, 200}),
			Entry("fewer steps than the cadence", 50, 0, []int{0, 49}),
			Entry("custom cadence", 7, 3, []int{0, 3, 6}),
			Entry("two steps", 2, 0, []int{0, 1}),
		)

		It("stamps each snapshot with step*dt", func() {
			cfg := heat.Config{Length: 10, Duration: 100, Points: 12, Steps: 2000, Alpha: 0.01}
			rec := &recorder{}
			e, err := heat.New(cfg, profile.HotMiddle(cfg.Points, 100), heat.WithObserver(rec))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Run()).To(Succeed())
			for _, s := range rec.snaps {
				Expect(s.Time).To(Equal(float64(s.Step) * e.Grid().Dt))
			}
		})

		It("holds the boundary temperatures after step 0", func() {
			cfg := heat.Config{Length: 10, Duration: 100, Points: 20, Steps: 600, Alpha: 0.01, Left: 5, Right: -3}
			rec := &recorder{}
			e, err := heat.New(cfg, profile.HotMiddle(cfg.Points, 100), heat.WithObserver(rec), heat.WithSnapshotInterval(10))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Run()).To(Succeed())

			Expect(rec.snaps[0].Field[0]).To(Equal(0.0))
			for _, s := range rec.snaps[1:] {
				Expect(s.Field[0]).To(Equal(cfg.Left))
				Expect(s.Field[cfg.Points-1]).To(Equal(cfg.Right))
			}
		})

		It("never lets an observer mutate the live field", func() {
			cfg := heat.Config{Length: 10, Duration: 100, Points: 8, Steps: 3, Alpha: 0.01}
			vandal := heat.ObserverFunc(func(s heat.Snapshot) {
				for i := range s.Field {
					s.Field[i] = 1e9
				}
			})
			rec := &recorder{}
			e, err := heat.New(cfg, profile.HotMiddle(cfg.Points, 100), heat.WithObserver(vandal), heat.WithObserver(rec))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Run()).To(Succeed())
			Expect(rec.snaps[0].Field).To(Equal(profile.HotMiddle(cfg.Points, 100)))
			Expect(e.Field().Max()).To(BeNumerically("<=", 100))
		})

		It("does not increase total energy while stable with cold boundaries", func() {
			cfg := heat.Config{Length: 10, Duration: 100, Points: 40, Steps: 3000, Alpha: 0.01}
			rec := &recorder{}
			e, err := heat.New(cfg, profile.HotMiddle(cfg.Points, 100), heat.WithObserver(rec), heat.WithSnapshotInterval(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Stability().Stable).To(BeTrue())
			Expect(e.Run()).To(Succeed())

			Expect(rec.snaps).To(HaveLen(cfg.Steps))
			for i := 1; i < len(rec.snaps); i++ {
				Expect(rec.snaps[i].Field.Sum()).To(BeNumerically("<=", rec.snaps[i-1].Field.Sum()+1e-9))
			}
			Expect(rec.snaps[len(rec.snaps)-1].Field.Sum()).To(BeNumerically("<", rec.snaps[0].Field.Sum()))
		})

		It("is deterministic across runs", func() {
			cfg := heat.Config{Length: 10, Duration: 100, Points: 30, Steps: 500, Alpha: 0.01, Left: 1, Right: 2}
			run := func() []heat.Snapshot {
				rec := &recorder{}
				e, err := heat.New(cfg, profile.HotMiddle(cfg.Points, 100), heat.WithObserver(rec), heat.WithSnapshotInterval(7))
				Expect(err).NotTo(HaveOccurred())
				Expect(e.Run()).To(Succeed())
				return rec.snaps
			}
			Expect(run()).To(Equal(run()))
		})
	})

	Describe("stability warning", func() {
		It("is logged once with r before the first snapshot", func() {
			logger, hook := logtest.NewNullLogger()
			cfg := heat.Config{Length: 1, Duration: 1, Points: 11, Steps: 5, Alpha: 1}

			var entriesAtFirstSnapshot int
			first := true
			obs := heat.ObserverFunc(func(heat.Snapshot) {
				if first {
					entriesAtFirstSnapshot = len(hook.AllEntries())
					first = false
				}
			})
			e, err := heat.New(cfg, make(heat.Field, cfg.Points), heat.WithLogger(logger), heat.WithObserver(obs))
			Expect(err).NotTo(HaveOccurred())
			Expect(hook.AllEntries()).To(BeEmpty())

			Expect(e.Run()).To(Succeed())
			Expect(entriesAtFirstSnapshot).To(Equal(1))
			Expect(hook.AllEntries()).To(HaveLen(1))
			entry := hook.LastEntry()
			Expect(entry.Level).To(Equal(logrus.WarnLevel))
			Expect(entry.Data["r"]).To(Equal(e.DiffusionNumber()))
		})

		It("stays silent when stable", func() {
			logger, hook := logtest.NewNullLogger()
			e, err := heat.New(small, heat.Field{0, 100, 100, 100, 0}, heat.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Run()).To(Succeed())
			Expect(hook.AllEntries()).To(BeEmpty())
		})
	})
})
