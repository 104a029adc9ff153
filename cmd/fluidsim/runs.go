package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/analysis"
	"github.com/san-kum/fluidsim/internal/export"
	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
)

var statSeries = map[string]func(sim.FrameStat) float64{
	"mass":  func(s sim.FrameStat) float64 { return s.Mass },
	"peak":  func(s sim.FrameStat) float64 { return s.Peak },
	"probe": func(s sim.FrameStat) float64 { return s.Probe },
	"speed": func(s sim.FrameStat) float64 { return s.MaxSpeed },
}

func pickSeries(frames []sim.FrameStat, name string) ([]float64, error) {
	pick, ok := statSeries[name]
	if !ok {
		return nil, fmt.Errorf("unknown series: %s (mass, peak, probe, speed)", name)
	}
	r := &sim.Result{Frames: frames}
	return r.Series(pick), nil
}

func loadRun(runID string) (*storage.RunMetadata, []sim.FrameStat, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tN\tDIFFUSION\tDT\tFRAMES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%.3f\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.N,
			run.Diffusion,
			run.Dt,
			run.Frames,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("frames: %d\n\n", len(frames))

	for _, p := range []struct{ series, caption string }{
		{"mass", "total mass"},
		{"peak", "peak density"},
		{"probe", "probe density"},
		{"speed", "max speed"},
	} {
		data, _ := pickSeries(frames, p.series)
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	data, err := pickSeries(frames, series)
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return fmt.Errorf("need at least 2 frames, have %d", len(data))
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("series: %s\n\n", series)

	spectrum := analysis.NewSpectrum(data, meta.Dt)
	plotData := spectrum.Power[:max(len(spectrum.Power)/2, 1)]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+series+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := spectrum.Dominant()
	fmt.Printf("dominant frequency: %.4f per unit time (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f time units (%.1f frames)\n", 1/freq, 1/(freq*meta.Dt))
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	xs, err := pickSeries(frames, xAxis)
	if err != nil {
		return err
	}
	ys, err := pickSeries(frames, yAxis)
	if err != nil {
		return err
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", xAxis, yAxis)
	fmt.Println(analysis.PhaseToASCII(analysis.PhaseCurve(xs, ys), 70, 20))
	fmt.Printf("\nLegend: • = frame, @ = last frame\n")
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, *meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}
	return export.WriteCSV(os.Stdout, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	grid, err := st.LoadDensity(args[0])
	if err != nil {
		return err
	}

	svg, err := export.DensityToSVG(grid, svgPal, float64(svgScale))
	if err != nil {
		return err
	}

	if svgOut == "" {
		_, err = fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote svg", "path", svgOut)
	return nil
}
