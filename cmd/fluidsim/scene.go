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
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/analysis"
	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/experiment"
	"github.com/san-kum/fluidsim/internal/export"
	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/server"
	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
	"github.com/san-kum/fluidsim/internal/tui"
	"github.com/san-kum/fluidsim/internal/viz"
)

const defaultScene = "puff"

// loadScene resolves the scene for cmd: preset, then config file, then
// any scene flags the user set explicitly.
func loadScene(cmd *cobra.Command) (*config.Config, string, error) {
	name := defaultScene
	cfg := config.GetPreset(defaultScene)

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = "custom"
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.N = gridN
	}
	if flags.Changed("diffusion") {
		cfg.Diffusion = diffusion
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Lookup("palette") != nil && flags.Changed("palette") {
		cfg.Render.Palette = palette
	}
	if flags.Lookup("scale") != nil && flags.Changed("scale") {
		cfg.Render.Scale = scale
	}
	if flags.Lookup("every") != nil && flags.Changed("every") {
		cfg.Render.Every = every
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func newRecorder(cfg *config.Config) (*export.GIFRecorder, error) {
	return export.NewGIFRecorder(cfg.N, export.GIFOptions{
		Palette: cfg.Render.Palette,
		Scale:   cfg.Render.Scale,
		Every:   cfg.Render.Every,
	})
}

func writeGIF(path string, rec *export.GIFRecorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rec.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	if watch {
		printer := tui.NewPrinter(os.Stdout, name, frameRate)
		printer.Start()
		defer printer.Stop()
		exp.GetSimulator().AddObserver(printer)
	}

	var rec *export.GIFRecorder
	if gifPath != "" {
		rec, err = newRecorder(cfg)
		if err != nil {
			return err
		}
		exp.GetSimulator().AddObserver(rec)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running scene", "scene", name, "n", cfg.N, "diffusion", cfg.Diffusion, "frames", cfg.Frames)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early", "frames", result.StepsTaken, "err", runErr)
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Scene:     name,
		Seed:      cfg.Seed,
		N:         cfg.N,
		Diffusion: cfg.Diffusion,
		Dt:        cfg.Dt,
		Frames:    result.StepsTaken,
		Sources:   len(cfg.Sources),
		Metrics:   result.Metrics,
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	if rec != nil {
		if err := writeGIF(gifPath, rec); err != nil {
			return err
		}
		logger.Info("wrote gif", "path", gifPath, "frames", rec.Len())
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}

	return runErr
}

func renderScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	rec, err := newRecorder(cfg)
	if err != nil {
		return err
	}
	exp.GetSimulator().AddObserver(rec)

	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}
	if err := writeGIF(renderOut, rec); err != nil {
		return err
	}
	logger.Info("rendered", "scene", name, "path", renderOut, "frames", rec.Len())
	return nil
}

func sceneInfo() map[string]string {
	info := make(map[string]string)
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		info[name] = fmt.Sprintf("n=%d diffusion=%g sources=%d", p.N, p.Diffusion, len(p.Sources))
	}
	return info
}

func buildScene(name string) (*sim.Simulator, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, err
	}
	return exp.GetSimulator(), nil
}

func runLive(cmd *cobra.Command, args []string) error {
	fps := frameRate
	if fps < 1 {
		fps = config.DefaultFPS
	}

	if theme != "" {
		viz.SetTheme(theme)
	}

	var m tea.Model
	if preset != "" || configFile != "" {
		cfg, name, err := loadScene(cmd)
		if err != nil {
			return err
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return err
		}
		m = viz.NewModel(exp.GetSimulator(), name, fps)
	} else {
		m = viz.NewApp(config.ListPresets(), sceneInfo(), buildScene, fps)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func serveScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}
	if cmd.Flags().Changed("fps") {
		cfg.Server.FPS = serveFPS
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("serving scene", "scene", name, "n", cfg.N)
	srv := server.New(exp.GetSimulator(), cfg.Server.FPS, logger)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func benchSolver(cmd *cobra.Command, args []string) error {
	if cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	} else if memProfile {
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	sizes := []int{16, 32, 64, 128}
	diffusions := []float64{0, 0.5}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tDIFFUSION\tFRAMES\tTIME\tFRAMES/SEC\tCELLS/SEC")

	for _, n := range sizes {
		for _, d := range diffusions {
			f := fluid.New(fluid.NewConfig(n, d))
			s := sim.New(f)
			c := (n + 1) / 2
			em, err := sim.NewEmitter(f.Grid(), c, c, 100, 10, 5)
			if err != nil {
				return err
			}
			s.AddSource(em)

			start := time.Now()
			result, err := s.Run(context.Background(), sim.Config{Frames: benchFrames, Dt: fluid.DefaultDt, Probe: -1})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fps := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%g\t%d\t%v\t%.0f\t%.3g\n",
				n, d, result.StepsTaken, elapsed.Round(time.Microsecond), fps, fps*float64(n*n))
		}
	}

	return w.Flush()
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd)
	if err != nil {
		return err
	}

	logger.Info("sweeping", "scene", name, "rates", rates)
	start := time.Now()
	results, err := experiment.Sweep(context.Background(), cfg, rates)
	if err != nil {
		return err
	}
	logger.Debug("sweep finished", "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIFFUSION\tFINAL MASS\tPEAK\tPROBE MEAN\tPROBE STD")
	for _, p := range analysis.Response(rates, results) {
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\t%.4f\t%.4f\n", p.Rate, p.FinalMass, p.Peak, p.MeanProbe, p.StdProbe)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	info := sceneInfo()
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		fmt.Printf("  %-8s %s\n", name, info[name])
	}
	return nil
}
