package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/export"
	"github.com/san-kum/fluidsim/internal/logging"
	"github.com/san-kum/fluidsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	// Scene selection and overrides
	preset     string
	configFile string
	gridN      int
	diffusion  float64
	dt         float64
	frames     int
	seed       int64

	// Output
	watch     bool
	gifPath   string
	palette   string
	scale     int
	every     int
	frameRate int
	renderOut string
	svgOut    string
	svgPal    string
	svgScale  int

	// Analysis
	series string
	xAxis  string
	yAxis  string
	rates  []float64

	// Tuning
	metricName string
	tuneParams []string

	// Live view
	theme string

	// Serving
	addr     string
	serveFPS int

	// Benchmarking
	benchFrames int
	cpuProfile  bool
	memProfile  bool
)

// main registers the commands and flags and runs the root command. With no
// subcommand it opens the scene picker.
func main() {
	rootCmd := &cobra.Command{
		Use:           "fluidsim",
		Short:         "2D stable-fluids lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = logging.New(os.Stderr, logLevel)
			return err
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene and save the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "print the density field while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "refresh rate for --watch")
	runCmd.Flags().StringVar(&gifPath, "gif", "", "also write an animated gif")
	addRenderFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the per-frame statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&series, "series", "probe", "series to analyse (mass, peak, probe, speed)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one frame statistic against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xAxis, "x-axis", "mass", "statistic for the x axis")
	phaseCmd.Flags().StringVar(&yAxis, "y-axis", "peak", "statistic for the y axis")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final density of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgPal, "palette", "viridis", "colour palette")
	exportSVGCmd.Flags().IntVar(&svgScale, "scale", 8, "pixels per cell")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "run a scene into an animated gif without saving it",
		Args:  cobra.NoArgs,
		RunE:  renderScene,
	}
	addSceneFlags(renderCmd)
	addRenderFlags(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "fluid.gif", "output file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view of a scene",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream a scene over websocket",
		Args:  cobra.NoArgs,
		RunE:  serveScene,
	}
	addSceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().IntVar(&serveFPS, "fps", 0, "frames per second (default from config)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solver across grid sizes",
		Args:  cobra.NoArgs,
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 100, "frames per grid size")
	benchCmd.Flags().BoolVar(&cpuProfile, "cpuprofile", false, "write a CPU profile to the working directory")
	benchCmd.Flags().BoolVar(&memProfile, "memprofile", false, "write an allocation profile to the working directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a scene at several diffusion rates in parallel",
		Args:  cobra.NoArgs,
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&rates, "rates", []float64{0, 0.05, 0.2, 0.5, 1}, "diffusion rates")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search scene parameters for the lowest metric value",
		Long: "tune runs the scene once per point of a parameter grid. Each --param is\n" +
			"name=v1,v2,... where name is one of diffusion, dt, n or frames.",
		Args: cobra.NoArgs,
		RunE: tuneScene,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&metricName, "metric", "peak_density", "metric to minimise")
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", []string{"diffusion=0,0.1,0.5,1"}, "parameter grid axis")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted sequence of scenes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, exportJSONCmd, exportCSVCmd,
		exportSVGCmd, renderCmd, liveCmd, serveCmd, benchCmd, sweepCmd, tuneCmd, scriptCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scene")
	cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	cmd.Flags().IntVar(&gridN, "n", 0, "interior cells per side")
	cmd.Flags().Float64Var(&diffusion, "diffusion", 0, "diffusion rate")
	cmd.Flags().Float64Var(&dt, "dt", 0, "time step")
	cmd.Flags().IntVar(&frames, "frames", 0, "number of frames")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for emitter jitter")
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&palette, "palette", "", "gif colour palette ("+strings.Join(export.ListPalettes(), ", ")+")")
	cmd.Flags().IntVar(&scale, "scale", 0, "gif pixels per cell")
	cmd.Flags().IntVar(&every, "every", 0, "record one gif frame in this many")
}
