package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"outbreaklab/internal/analysis"
	"outbreaklab/internal/experiment"
	"outbreaklab/internal/export"
	"outbreaklab/internal/ode"
	"outbreaklab/internal/scenario"
	"outbreaklab/internal/store"
	"outbreaklab/internal/viz"
)

var (
	dataDir    string
	integrator string
	horizon    float64
	samples    int
	configFile string
	preset     string
	adaptive   bool
	tolerance  float64

	// epidemic overrides
	socialDist  float64
	vaccineDay  float64
	capacity    float64
	testGrowth  float64
	betaAUK     float64
	initNH      float64
	initUnknown float64

	// kinetics overrides
	kAB     float64
	kBC     float64
	orderAB float64
	orderBC float64

	// export-json
	exportOut string

	// snapshot
	snapDay   float64
	snapOut   string
	snapScale float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "outbreaklab",
		Short: "epidemic and reaction-kinetics simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".outbreaklab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation and persist the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "interactive dashboard with playback and tunable parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run as terminal charts",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [run_id]",
		Short: "outbreak summary of a stored epidemic run",
		Args:  cobra.ExactArgs(1),
		RunE:  summarizeRun,
	}
	summaryCmd.Flags().Float64Var(&capacity, "capacity", 150, "health capacity used for over-capacity accounting")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&exportOut, "out", "", "write to file instead of stdout")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := scenario.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render one day of a stored run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().Float64Var(&snapDay, "day", 0, "simulation time to render")
	snapshotCmd.Flags().StringVar(&snapOut, "out", "snapshot.svg", "output file")
	snapshotCmd.Flags().Float64Var(&snapScale, "scale", 6, "SVG pixels per canvas dot")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, summaryCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, compareCmd, presetsCmd, snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (euler, rk4, rk45)")
	cmd.Flags().Float64Var(&horizon, "horizon", scenario.DefaultHorizon, "simulation horizon")
	cmd.Flags().IntVar(&samples, "samples", scenario.DefaultSamples, "number of output samples")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step-size control (records every accepted step)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-6, "local error tolerance for adaptive stepping")

	cmd.Flags().Float64Var(&socialDist, "sd", 1.0, "social distancing factor (epidemic)")
	cmd.Flags().Float64Var(&vaccineDay, "vaccine-day", 200, "vaccine introduction day (epidemic)")
	cmd.Flags().Float64Var(&capacity, "capacity", 150, "health system capacity (epidemic)")
	cmd.Flags().Float64Var(&testGrowth, "test-growth", 1.0, "testing growth factor (epidemic)")
	cmd.Flags().Float64Var(&betaAUK, "beta-auk", 0.35, "contact rate of unknown asymptomatics (epidemic)")
	cmd.Flags().Float64Var(&initNH, "init-symptomatic", 1, "initial symptomatic cases (epidemic)")
	cmd.Flags().Float64Var(&initUnknown, "init-asymptomatic", 1, "initial unknown asymptomatic cases (epidemic)")

	cmd.Flags().Float64Var(&kAB, "kab", 3.0, "rate constant A->B (kinetics)")
	cmd.Flags().Float64Var(&kBC, "kbc", 1.0, "rate constant B->C (kinetics)")
	cmd.Flags().Float64Var(&orderAB, "order-ab", 1, "reaction order A->B (kinetics)")
	cmd.Flags().Float64Var(&orderBC, "order-bc", 1, "reaction order B->C (kinetics)")
}

// buildConfig layers preset, config file, then explicit flags, mirroring the
// precedence flags > file > preset > defaults.
func buildConfig(cmd *cobra.Command, model string) (*scenario.Config, error) {
	cfg := scenario.Default()
	cfg.Model = model

	if preset != "" {
		p := scenario.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, scenario.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := scenario.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Model = model
		cfg = loaded
	}

	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
		cfg.Kinetics.Horizon = horizon
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
		cfg.Kinetics.Samples = samples
	}
	if cmd.Flags().Changed("sd") {
		cfg.Epidemic.SocialDistancing = socialDist
	}
	if cmd.Flags().Changed("vaccine-day") {
		cfg.Epidemic.VaccineDay = vaccineDay
	}
	if cmd.Flags().Changed("capacity") {
		cfg.Epidemic.HealthCapacity = capacity
	}
	if cmd.Flags().Changed("test-growth") {
		cfg.Epidemic.TestGrowth = testGrowth
	}
	if cmd.Flags().Changed("beta-auk") {
		cfg.Epidemic.BetaAUK = betaAUK
	}
	if cmd.Flags().Changed("init-symptomatic") {
		cfg.Epidemic.InitSymptomatic = initNH
	}
	if cmd.Flags().Changed("init-asymptomatic") {
		cfg.Epidemic.InitAsympUnknown = initUnknown
	}
	if cmd.Flags().Changed("kab") {
		cfg.Kinetics.KAB = kAB
	}
	if cmd.Flags().Changed("kbc") {
		cfg.Kinetics.KBC = kBC
	}
	if cmd.Flags().Changed("order-ab") {
		cfg.Kinetics.OrderAB = orderAB
	}
	if cmd.Flags().Changed("order-bc") {
		cfg.Kinetics.OrderBC = orderBC
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, "")
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", exp.Model)
	start := time.Now()

	var result *ode.Result
	if adaptive {
		result, err = exp.RunAdaptive(context.Background(), tolerance)
	} else {
		result, err = exp.Run(context.Background())
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(exp.Model, exp.IntegratorName, exp.Horizon, len(result.States), exp.Columns(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.States))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.4f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, "")
	if err != nil {
		return err
	}

	integ, err := experiment.NewRegistry().GetIntegrator(exp.IntegratorName)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(exp, integ)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tHORIZON\tSAMPLES\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Horizon,
			run.Samples,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(states))

	for varIdx := 0; varIdx < len(states[0]); varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		caption := fmt.Sprintf("x%d", varIdx)
		if varIdx < len(meta.Columns) {
			caption = meta.Columns[varIdx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func summarizeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if meta.Model != "epidemic" {
		return fmt.Errorf("summary only applies to epidemic runs, %s is %q", runID, meta.Model)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	sum := analysis.Summarize(states, times, capacity)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "peak infected\t%.1f (day %.0f)\n", sum.PeakInfected, sum.PeakInfectedDay)
	fmt.Fprintf(w, "peak hospitalized\t%.1f (day %.0f)\n", sum.PeakHospitalized, sum.PeakHospitalizedDay)
	fmt.Fprintf(w, "days over capacity\t%.1f\n", sum.DaysOverCapacity)
	fmt.Fprintf(w, "total deaths\t%.1f\n", sum.TotalDeaths)
	fmt.Fprintf(w, "final susceptible\t%.1f\n", sum.FinalSusceptible)
	fmt.Fprintf(w, "attack rate\t%.1f%%\n", sum.AttackRate*100)
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, meta.Columns...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if exportOut != "" {
		if err := store.ExportJSONFile(exportOut, meta, states, times); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", exportOut)
		return nil
	}
	return store.ExportJSON(os.Stdout, meta, states, times)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	model := args[0]
	names := args[1:]

	cfg, err := buildConfig(cmd, model)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (horizon=%.1f, samples=%d)\n\n", model, cfg.Horizon, cfg.Samples)
	fmt.Printf("%-12s  %-14s  %-14s  %-10s\n", "integrator", "final_x0", "final_last", "time_ms")

	for _, name := range names {
		exp, err := experiment.New(cfg, name)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		var result *ode.Result
		if adaptive {
			result, err = exp.RunAdaptive(context.Background(), tolerance)
		} else {
			result, err = exp.Run(context.Background())
		}
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		final := result.States[len(result.States)-1]
		fmt.Printf("%-12s  %14.6f  %14.6f  %10.2f\n",
			name, final[0], final[len(final)-1], float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to render")
	}

	// Nearest stored sample to the requested day.
	idx := 0
	for i, t := range times {
		if t <= snapDay {
			idx = i
		}
	}

	canvas := viz.NewCanvas(56, 22)
	switch meta.Model {
	case "epidemic":
		population := 0.0
		for _, v := range states[0] {
			population += v
		}
		viz.RenderEpidemicFrame(canvas, states[idx], population)
	case "kinetics":
		viz.RenderKineticsFrame(canvas, states[idx])
	default:
		return fmt.Errorf("no renderer for model %q", meta.Model)
	}

	svg := export.CanvasToSVG(canvas, snapScale)
	if err := os.WriteFile(snapOut, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (t=%.1f)\n", snapOut, times[idx])
	return nil
}
