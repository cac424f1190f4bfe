package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/analysis"
	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/export"
	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/logging"
	"github.com/san-kum/heatsim/internal/metrics"
	"github.com/san-kum/heatsim/internal/profile"
	"github.com/san-kum/heatsim/internal/sweep"
	"github.com/san-kum/heatsim/internal/viz"
)

var (
	logLevel string
	// Rod and grid
	length   float64
	duration float64
	points   int
	steps    int
	alpha    float64
	tLeft    float64
	tRight   float64
	// Initial condition
	profileName string
	peak        float64
	// Snapshot cadence
	every int
	// Config file and preset
	configFile string
	preset     string
	// Output
	format    string
	noPlot    bool
	plotWidth int
	plotRows  int
	svgWidth  int
	svgHeight int
	frameRate int
	perFrame  int
	alphas    []float64
	workers   int
)

var (
	okColor   = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnColor = color.New(color.FgRed, color.Bold).SprintFunc()
	dimColor  = color.New(color.Faint).SprintFunc()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers the heatsim commands. Registering a flag resets its
// variable to the flag default.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "heatsim",
		Short:        "1D heat diffusion solver (explicit finite differences)",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and plot snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip snapshot plots, print summary only")
	runCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	runCmd.Flags().IntVar(&plotRows, "height", 12, "plot height")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "show step sizes and the stability report",
		Args:  cobra.NoArgs,
		RunE:  checkStability,
	}
	addSimFlags(checkCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "stream snapshots to stdout as json lines or csv",
		Args:  cobra.NoArgs,
		RunE:  exportSnapshots,
	}
	addSimFlags(exportCmd)
	exportCmd.Flags().StringVar(&format, "format", "json", "output format (json, csv, svg)")
	exportCmd.Flags().IntVar(&svgWidth, "width", 800, "svg width in pixels")
	exportCmd.Flags().IntVar(&svgHeight, "height", 400, "svg height in pixels")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&perFrame, "steps-per-frame", 5, "time steps per frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per diffusivity concurrently",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&alphas, "alphas", []float64{0.005, 0.01, 0.02, 0.04}, "diffusivities to compare")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "maximum concurrent runs (0 = unlimited)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the stepping loop",
		Args:  cobra.NoArgs,
		RunE:  benchEngine,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tL\tT_MAX\tNX\tNT\tALPHA\tR")
			for _, name := range config.ListPresets() {
				sim := config.GetPreset(name).Simulation()
				g, err := heat.ComputeSteps(sim.Length, sim.Duration, sim.Points, sim.Steps)
				if err != nil {
					return err
				}
				r := heat.CheckStability(sim.Alpha, g.Dx, g.Dt)
				fmt.Fprintf(w, "%s\t%g\t%g\t%d\t%d\t%g\t%s\n", name, sim.Length, sim.Duration, sim.Points, sim.Steps, sim.Alpha, badge(r))
			}
			return w.Flush()
		},
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list initial temperature profiles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range profile.NewRegistry().List() {
				if name == profile.DefaultName {
					fmt.Printf("  %s %s\n", name, dimColor("(default)"))
					continue
				}
				fmt.Printf("  %s\n", name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, checkCmd, exportCmd, liveCmd, sweepCmd, benchCmd, presetsCmd, profilesCmd)
	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "rod length L (m)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "total simulated time T_max (s)")
	cmd.Flags().IntVar(&points, "nx", config.DefaultPoints, "number of spatial points")
	cmd.Flags().IntVar(&steps, "nt", config.DefaultSteps, "number of time steps")
	cmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "thermal diffusivity (m^2/s)")
	cmd.Flags().Float64Var(&tLeft, "left", config.DefaultLeft, "left boundary temperature")
	cmd.Flags().Float64Var(&tRight, "right", config.DefaultRight, "right boundary temperature")
	cmd.Flags().StringVar(&profileName, "profile", profile.DefaultName, "initial temperature profile")
	cmd.Flags().Float64Var(&peak, "peak", profile.DefaultPeak, "peak temperature of the initial profile")
	cmd.Flags().IntVar(&every, "every", heat.DefaultSnapshotInterval, "emit a snapshot every n steps")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, config file and explicitly set flags, in
// increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("length") {
		cfg.Length = length
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("nx") {
		cfg.Points = points
	}
	if flags.Changed("nt") {
		cfg.Steps = steps
	}
	if flags.Changed("alpha") {
		cfg.Alpha = alpha
	}
	if flags.Changed("left") {
		cfg.Left = tLeft
	}
	if flags.Changed("right") {
		cfg.Right = tRight
	}
	if flags.Changed("profile") {
		cfg.Initial.Profile = profileName
		cfg.Initial.Values = nil
	}
	if flags.Changed("peak") {
		cfg.Initial.Peak = peak
	}
	if flags.Changed("every") {
		cfg.SnapshotEvery = every
	}
	return cfg, nil
}

// newEngine builds the engine described by the command's configuration.
func newEngine(cmd *cobra.Command, opts ...heat.Option) (*heat.Engine, *logrus.Logger, error) {
	logger, err := logging.New(os.Stderr, logLevel)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	initial, err := cfg.InitialField(profile.NewRegistry())
	if err != nil {
		return nil, nil, err
	}

	opts = append([]heat.Option{heat.WithLogger(logger), heat.WithSnapshotInterval(cfg.SnapshotEvery)}, opts...)
	e, err := heat.New(cfg.Simulation(), initial, opts...)
	if err != nil {
		return nil, nil, err
	}

	logger.WithFields(logrus.Fields{
		"nx":      cfg.Points,
		"nt":      cfg.Steps,
		"dx":      e.Grid().Dx,
		"dt":      e.Grid().Dt,
		"r":       e.DiffusionNumber(),
		"profile": cfg.Initial.Profile,
	}).Info("engine configured")
	return e, logger, nil
}

func badge(r heat.StabilityReport) string {
	if r.Stable {
		return okColor(fmt.Sprintf("%.4f stable", r.R))
	}
	return warnColor(fmt.Sprintf("%.4f UNSTABLE", r.R))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	set := metrics.Default()
	e, _, err := newEngine(cmd, heat.WithObserver(set))
	if err != nil {
		return err
	}

	var plotter *viz.Plotter
	if !noPlot {
		lo, hi := plotBounds(e)
		plotter = viz.NewPlotter(os.Stdout, e.Grid(), viz.PlotSize(plotWidth, plotRows), viz.PlotBounds(lo, hi))
		e.AddObserver(plotter)
	}

	fmt.Printf("stability: %s\n\n", badge(e.Stability()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := e.RunContext(ctx); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if plotter != nil && plotter.Err() != nil {
		return plotter.Err()
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", e.StepIndex()+1)
	fmt.Println("\nmetrics:")
	values := set.Values()
	for _, name := range set.Names() {
		fmt.Printf("  %s: %.6f\n", name, values[name])
	}
	return nil
}

func plotBounds(e *heat.Engine) (float64, float64) {
	f, cfg := e.Field(), e.Config()
	lo := min(f.Min(), cfg.Left, cfg.Right)
	hi := max(f.Max(), cfg.Left, cfg.Right)
	return lo, hi
}

func checkStability(cmd *cobra.Command, args []string) error {
	e, _, err := newEngine(cmd)
	if err != nil {
		return err
	}
	cfg, g := e.Config(), e.Grid()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "L\t%g\n", cfg.Length)
	fmt.Fprintf(w, "T_max\t%g\n", cfg.Duration)
	fmt.Fprintf(w, "Nx\t%d\n", cfg.Points)
	fmt.Fprintf(w, "Nt\t%d\n", cfg.Steps)
	fmt.Fprintf(w, "alpha\t%g\n", cfg.Alpha)
	fmt.Fprintf(w, "dx\t%.6g\n", g.Dx)
	fmt.Fprintf(w, "dt\t%.6g\n", g.Dt)
	fmt.Fprintf(w, "r\t%s\n", badge(e.Stability()))

	modes := analysis.Modes(e.DiffusionNumber(), cfg.Points)
	fmt.Fprintf(w, "g_1\t%.6f (half-life %.1f steps)\n", modes.Slowest, analysis.HalfLife(e.DiffusionNumber(), 1, cfg.Points))
	fmt.Fprintf(w, "g_%d\t%.6f\n", cfg.Points-2, modes.Fastest)
	fmt.Fprintf(w, "max |g_k|\t%.6f (%d growing modes)\n", modes.MaxGrowth, modes.Unstable)
	if err := w.Flush(); err != nil {
		return err
	}

	if !e.Stability().Stable {
		maxDt := heat.StabilityLimit * g.Dx * g.Dx / cfg.Alpha
		fmt.Printf("\nreduce dt below %.6g (nt >= %d) or increase dx\n", maxDt, int(cfg.Duration/maxDt)+1)
	}
	return nil
}

func exportSnapshots(cmd *cobra.Command, args []string) error {
	e, _, err := newEngine(cmd)
	if err != nil {
		return err
	}

	header := export.NewHeader(e.Config(), e.Grid(), e.Stability())
	if format == "svg" {
		svg := export.NewSVG(os.Stdout, header, svgWidth, svgHeight)
		e.AddObserver(svg)
		if err := e.Run(); err != nil {
			return err
		}
		return svg.Close()
	}

	stream, err := export.NewStream(os.Stdout, format, header)
	if err != nil {
		return err
	}
	e.AddObserver(stream)

	if err := e.Run(); err != nil {
		return err
	}
	return stream.Close()
}

func runLive(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(os.Stderr, logLevel)
	if err != nil {
		return err
	}
	// The terminal belongs to the viewer; the stability report is shown in its panel.
	logger.SetLevel(logrus.ErrorLevel)

	e, _, err := newEngine(cmd, heat.WithLogger(logger))
	if err != nil {
		return err
	}

	title := "1d heat diffusion"
	if preset != "" {
		title += " · " + preset
	}
	m := viz.NewLiveModel(e, title, frameRate, perFrame)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(os.Stderr, logLevel)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	initial, err := cfg.InitialField(profile.NewRegistry())
	if err != nil {
		return err
	}

	runner := sweep.NewRunner(cfg.Simulation(), initial, workers, heat.WithLogger(logger), heat.WithSnapshotInterval(cfg.SnapshotEvery))

	start := time.Now()
	results, err := runner.Alphas(cmd.Context(), alphas)
	if err != nil {
		return err
	}
	fmt.Printf("swept %d diffusivities in %v\n\n", len(results), time.Since(start))

	sort.Slice(results, func(i, j int) bool { return results[i].Alpha < results[j].Alpha })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALPHA\tR\tFINAL_ENERGY\tDRIFT\tPEAK\tMONOTONIC")
	for _, res := range results {
		fmt.Fprintf(w, "%g\t%s\t%.4f\t%.4f\t%.4f\t%.2f\n",
			res.Alpha,
			badge(res.Stability),
			res.Final.Sum(),
			res.Metrics["energy_drift"],
			res.Final.Max(),
			res.Metrics["energy_monotonic"],
		)
	}
	return w.Flush()
}

func benchEngine(cmd *cobra.Command, args []string) error {
	sizes := []int{100, 1000, 10000}
	stepCounts := []int{1000, 10000}

	fmt.Println("benchmarking explicit stepping")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NX\tNT\tR\tTIME\tCELL-UPDATES/SEC")

	for _, nx := range sizes {
		for _, nt := range stepCounts {
			cfg := heat.Config{Length: 10, Duration: 1, Points: nx, Steps: nt, Alpha: 1e-4}
			e, err := heat.New(cfg, profile.HotMiddle(nx, profile.DefaultPeak))
			if err != nil {
				return err
			}

			start := time.Now()
			if err := e.Run(); err != nil {
				return err
			}
			elapsed := time.Since(start)

			updates := float64(nx-2) * float64(nt-1)
			fmt.Fprintf(w, "%d\t%d\t%.4f\t%v\t%.0f\n", nx, nt, e.DiffusionNumber(), elapsed, updates/elapsed.Seconds())
		}
	}
	return w.Flush()
}
