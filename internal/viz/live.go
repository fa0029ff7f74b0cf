package viz

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"outbreaklab/internal/experiment"
	"outbreaklab/internal/models"
	"outbreaklab/internal/ode"
)

const (
	canvasWidth  = 56
	canvasHeight = 22
	ticksPerSec  = 20
)

type TickMsg time.Time

// Model is the live dashboard: a precomputed trajectory played back over a
// bubble (or bar) chart, with a time scrubber and tunable parameters. Every
// parameter change re-integrates the whole horizon, the way the original
// slider callbacks re-solved the system.
type Model struct {
	modelName  string
	sys        ode.System
	integ      ode.Integrator
	x0         ode.State
	horizon    float64
	samples    int
	capacity   float64
	population float64

	traj   *ode.Result
	cursor int

	canvas  *Canvas
	playing bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	chartView bool
	showHelp  bool
	runErr    error
}

// NewModel assembles the dashboard from an experiment and integrates the
// initial trajectory.
func NewModel(exp *experiment.Experiment, integ ode.Integrator) (Model, error) {
	m := Model{
		modelName: exp.Model,
		sys:       exp.Sys,
		integ:     integ,
		x0:        exp.X0.Clone(),
		horizon:   exp.Horizon,
		samples:   exp.Samples,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		playing:   true,
	}

	if seir, ok := exp.Sys.(*models.SEIR); ok {
		m.capacity = seir.Params().HealthCapacity
		m.population = seir.Params().N
	}

	m.params = make(map[string]float64)
	m.initialParams = make(map[string]float64)
	if tunable, ok := exp.Sys.(ode.Configurable); ok {
		for k, v := range tunable.GetParams() {
			m.params[k] = v
			m.initialParams[k] = v
		}
	}
	m.paramKeys = make([]string, 0, len(m.params))
	for k := range m.params {
		m.paramKeys = append(m.paramKeys, k)
	}
	sort.Strings(m.paramKeys)

	if err := m.integrate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// integrate recomputes the full trajectory with the current parameters.
// On failure the previous trajectory stays on screen and the error is shown.
func (m *Model) integrate() error {
	sim := ode.New(m.sys, m.integ)
	traj, err := sim.RunSampled(context.Background(), m.x0, m.horizon, m.samples)
	if err != nil {
		m.runErr = err
		if m.traj == nil {
			return err
		}
		return nil
	}
	m.runErr = nil
	m.traj = traj
	if m.cursor >= len(traj.States) {
		m.cursor = len(traj.States) - 1
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/ticksPerSec, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "0":
			m.cursor = 0
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "c":
			m.chartView = !m.chartView
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.playing && m.traj != nil {
			m.cursor++
			if m.cursor >= len(m.traj.States) {
				m.cursor = 0
			}
		}
		return m, tea.Tick(time.Second/ticksPerSec, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) scrub(dir int) {
	if m.traj == nil {
		return
	}
	m.playing = false
	m.cursor += dir
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.traj.States) {
		m.cursor = len(m.traj.States) - 1
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	newVal := m.params[key] * factor
	m.params[key] = newVal
	if tunable, ok := m.sys.(ode.Configurable); ok {
		tunable.SetParam(key, newVal)
	}
	_ = m.integrate()
}

func (m *Model) reset() {
	m.cursor = 0
	if tunable, ok := m.sys.(ode.Configurable); ok {
		for k, v := range m.initialParams {
			m.params[k] = v
			tunable.SetParam(k, v)
		}
	}
	_ = m.integrate()
}

// View renders the dashboard.
func (m Model) View() string {
	if m.traj == nil || len(m.traj.States) == 0 {
		return errStyle.Render(fmt.Sprintf("no trajectory: %v", m.runErr))
	}

	state := m.traj.States[m.cursor]
	t := m.traj.Times[m.cursor]

	m.canvas.Clear()
	switch m.modelName {
	case "epidemic":
		RenderEpidemicFrame(m.canvas, state, m.population)
	case "kinetics":
		RenderKineticsFrame(m.canvas, state)
	}

	var left string
	if m.chartView {
		left = canvasStyle.Render(m.renderCharts())
	} else {
		left = canvasStyle.Render(m.canvas.String())
	}

	right := statsStyle.Render(m.renderStats(state, t))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if m.showHelp {
		return m.renderHelp() + "\n" + mainView
	}
	return mainView
}

func (m Model) renderStats(state ode.State, t float64) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelName)) + "\n")

	status := "RUNNING"
	if !m.playing {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	switch m.modelName {
	case "epidemic":
		s.WriteString(labelStyle.Render("Day") + valueStyle.Render(fmt.Sprintf("%.0f", t)) + "\n\n")
		for i, name := range models.CompartmentNames {
			if i >= len(state) {
				break
			}
			line := compartmentColors[i].Render(fmt.Sprintf("%-6s", name)) +
				valueStyle.Render(fmt.Sprintf("%9.1f", state[i]))
			if i == models.CompIsH && state[i] > m.capacity {
				line += overStyle.Render("  over capacity")
			}
			s.WriteString(line + "\n")
		}
		s.WriteString("\n" + m.renderSparkline() + "\n")
	case "kinetics":
		s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", t)) + "\n\n")
		for i, name := range models.SpeciesNames {
			if i >= len(state) {
				break
			}
			s.WriteString(labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%.4f", state[i])) + "\n")
		}
		s.WriteString("\n" + m.renderSparkline() + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		val, initial := m.params[k], m.initialParams[k]
		bar := paramBar(val, initial)
		line := fmt.Sprintf("%-12s %s %.3f", k, bar, val)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	if m.runErr != nil {
		s.WriteString("\n" + errStyle.Render(fmt.Sprintf("integration failed: %v", m.runErr)) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit C:Charts\nTab:Param ↑↓:Tune [ ]:Scrub ?:Help"))
	return s.String()
}

func paramBar(val, initial float64) string {
	const barWidth = 10
	ref := initial
	if ref == 0 {
		ref = 1
	}
	ratio := val / (2 * ref)
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * barWidth)
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

// renderSparkline plots the headline series up to the playback cursor:
// total infected for the epidemic, intermediate B for kinetics.
func (m Model) renderSparkline() string {
	if m.cursor < 2 {
		return ""
	}
	data := make([]float64, 0, m.cursor+1)
	for i := 0; i <= m.cursor; i++ {
		state := m.traj.States[i]
		switch m.modelName {
		case "epidemic":
			v := 0.0
			for j := models.CompIaUK; j <= models.CompIsH; j++ {
				v += state[j]
			}
			data = append(data, v)
		case "kinetics":
			data = append(data, state[1])
		}
	}
	caption := "infected"
	if m.modelName == "kinetics" {
		caption = "[B]"
	}
	return graphStyle.Render(asciigraph.Plot(data,
		asciigraph.Height(4),
		asciigraph.Width(34),
		asciigraph.Caption(caption),
	))
}

// renderCharts is the alternate full-chart view over the whole horizon.
func (m Model) renderCharts() string {
	var names []string
	switch m.modelName {
	case "epidemic":
		names = models.CompartmentNames
	case "kinetics":
		names = models.SpeciesNames
	}

	var s strings.Builder
	dim := len(m.traj.States[0])
	for idx := 0; idx < dim && idx < len(names); idx++ {
		data := make([]float64, len(m.traj.States))
		for i, state := range m.traj.States {
			data[i] = state[idx]
		}
		s.WriteString(asciigraph.Plot(data,
			asciigraph.Height(4),
			asciigraph.Width(56),
			asciigraph.Caption(names[idx]),
		))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderHelp() string {
	return helpStyle.Render(strings.TrimSpace(`
Space  pause/resume playback     Tab    select parameter
[ ]    step one sample back/fwd  ↑/↓    adjust parameter ±5%
0      jump to day 0             C      toggle chart view
R      reset parameters          Q      quit`))
}

// RenderEpidemicFrame draws the compartment bubble chart: nodes on a
// circular layout sized by current population, flow edges between them.
func RenderEpidemicFrame(c *Canvas, state []float64, population float64) {
	if population <= 0 {
		population = 1
	}

	// Sub-pixel geometry.
	w, h := c.Width*2, c.Height*4
	cx, cy := w/2, h/2
	layoutR := minInt(w, h)/2 - 10

	n := len(models.CompartmentNames)
	xs := make([]int, n)
	ys := make([]int, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		xs[i] = cx + int(float64(layoutR)*math.Cos(angle))
		ys[i] = cy - int(float64(layoutR)*math.Sin(angle))
	}

	for _, edge := range models.FlowEdges {
		c.DrawLine(xs[edge[0]], ys[edge[0]], xs[edge[1]], ys[edge[1]])
	}

	const maxBubble = 9
	for i := 0; i < n && i < len(state); i++ {
		v := state[i]
		if v < 0 {
			v = 0
		}
		// Outline ring marks the whole-population scale; the filled disc
		// inside is the compartment's current share. Area-proportional
		// radius keeps small compartments visible without the susceptible
		// bubble swallowing the chart.
		c.DrawCircle(xs[i], ys[i], maxBubble)
		r := int(math.Sqrt(v/population) * maxBubble)
		c.FillCircle(xs[i], ys[i], r)
	}
}

// RenderKineticsFrame draws the concentrations as three vertical bars.
func RenderKineticsFrame(c *Canvas, state []float64) {
	w, h := c.Width*2, c.Height*4
	barWidth := w / 5
	gap := (w - 3*barWidth) / 4

	maxC := 0.0
	for _, v := range state {
		if v > maxC {
			maxC = v
		}
	}
	if maxC <= 0 {
		maxC = 1
	}

	for i := 0; i < 3 && i < len(state); i++ {
		v := state[i]
		if v < 0 {
			v = 0
		}
		barH := int(v / maxC * float64(h-8))
		x0 := gap + i*(barWidth+gap)
		c.FillRect(x0, h-4-barH, x0+barWidth, h-4)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
