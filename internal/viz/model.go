package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fluidsim/internal/fluid"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	historyCapacity = 300
	minDt           = 0.005
	maxDt           = 1.0
	dtFactor        = 1.25

	// DefaultAmount is the density injected per keypress.
	DefaultAmount = 100.0
	// DefaultForce is the velocity injected per shifted arrow.
	DefaultForce = 20.0
)

type TickMsg time.Time

// Model is an interactive heat map of one running simulation. The cursor
// always sits on an interior cell; every injection is validated against
// the grid before it reaches the fluid.
type Model struct {
	sim     *sim.Simulator
	fluid   *fluid.Fluid
	name    string
	fps     int
	scratch []float64

	cursorX, cursorY int
	running          bool
	showHelp         bool
	theme            Theme
	amount, force    float64

	stat        sim.FrameStat
	massHistory []float64
	peakHistory []float64
	status      string
}

// NewModel wraps s. Sources already added to s keep firing every frame.
func NewModel(s *sim.Simulator, name string, fps int) Model {
	f := s.Fluid()
	if fps < 1 {
		fps = 30
	}
	c := (f.InteriorSize() + 1) / 2
	return Model{
		sim:         s,
		fluid:       f,
		name:        name,
		fps:         fps,
		scratch:     make([]float64, f.BufferLength()),
		cursorX:     c,
		cursorY:     c,
		running:     true,
		theme:       CurrentTheme,
		amount:      DefaultAmount,
		force:       DefaultForce,
		massHistory: make([]float64, 0, historyCapacity),
		peakHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "n":
		m.step()
	case "r":
		m.reset()
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "shift+up", "K":
		m.push(0, -1)
	case "shift+down", "J":
		m.push(0, 1)
	case "shift+left", "H":
		m.push(-1, 0)
	case "shift+right", "L":
		m.push(1, 0)
	case "d", "enter":
		m.inject(m.cursorX, m.cursorY, m.amount, 0, 0)
	case "+", "=":
		m.scaleDt(dtFactor)
	case "-", "_":
		m.scaleDt(1 / dtFactor)
	case "t":
		m.theme = NextTheme(m.theme.Name)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) moveCursor(dx, dy int) {
	n := m.fluid.InteriorSize()
	m.cursorX = min(max(m.cursorX+dx, 1), n)
	m.cursorY = min(max(m.cursorY+dy, 1), n)
}

func (m *Model) push(dx, dy float64) {
	m.inject(m.cursorX, m.cursorY, 0, dx*m.force, dy*m.force)
}

// inject adds density and velocity at lattice cell (x, y). Cells off the
// lattice are rejected with a status message.
func (m *Model) inject(x, y int, density, vx, vy float64) bool {
	i, err := m.fluid.Grid().CheckedIndex(x, y)
	if err != nil {
		m.status = err.Error()
		return false
	}
	if density != 0 {
		m.fluid.AddDensity(i, density)
	}
	if vx != 0 || vy != 0 {
		m.fluid.AddVelocity(i, vx, vy)
	}
	m.status = ""
	return true
}

// cellAt converts a terminal position to lattice coordinates. Each cell is
// two columns wide and the canvas is padded by one row and two columns.
func cellAt(col, row int) (x, y int) {
	return (col-2)/2 + 1, row
}

func (m *Model) click(col, row int) {
	if col < 2 || row < 1 {
		m.status = "click outside the grid"
		return
	}
	x, y := cellAt(col, row)
	if !m.fluid.Grid().Interior(x, y) {
		m.status = fmt.Sprintf("cell (%d, %d) is not an interior cell", x, y)
		return
	}
	m.cursorX, m.cursorY = x, y
	m.inject(x, y, m.amount, 0, 0)
}

func (m *Model) scaleDt(factor float64) {
	dt := m.fluid.Dt() * factor
	m.fluid.SetDt(min(max(dt, minDt), maxDt))
}

// step advances one frame and records its statistics.
func (m *Model) step() {
	m.sim.Advance()
	probe := m.fluid.Index(m.cursorX, m.cursorY)
	m.stat = sim.Measure(m.fluid, probe, m.scratch)

	m.massHistory = appendCapped(m.massHistory, m.stat.Mass)
	m.peakHistory = appendCapped(m.peakHistory, m.stat.Peak)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset clears the fluid and the histories. dt and the cursor are kept.
func (m *Model) reset() {
	m.fluid.Reset()
	m.stat = sim.FrameStat{}
	m.massHistory = m.massHistory[:0]
	m.peakHistory = m.peakHistory[:0]
	m.status = ""
}

func (m Model) heatmap() string {
	g := m.fluid.Grid()
	styles := cellStyles(m.theme)
	cursor := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)

	m.fluid.CopyDensity(m.scratch)
	peak := 0.0
	for y := 1; y <= g.N; y++ {
		for x := 1; x <= g.N; x++ {
			peak = max(peak, m.scratch[g.Index(x, y)])
		}
	}

	var b strings.Builder
	for y := 1; y <= g.N; y++ {
		for x := 1; x <= g.N; x++ {
			lvl := rampLevel(m.scratch[g.Index(x, y)], peak, len(styles))
			cell := "  "
			if x == m.cursorX && y == m.cursorY {
				cell = cursor.Render("[]")
			}
			b.WriteString(styles[lvl].Render(cell))
		}
		if y < g.N {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// View renders the TUI interface.
func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle(m.theme).Render(strings.ToUpper(m.name)) + "\n")

	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.massHistory) > 1 {
		chart := asciigraph.Plot(m.massHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mass"))
		s.WriteString(chart + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.fluid.Frame()))
	row("dt", fmt.Sprintf("%.3f", m.fluid.Dt()))
	row("Mass", fmt.Sprintf("%.3f", m.stat.Mass))
	row("Peak", fmt.Sprintf("%.3f", m.stat.Peak))
	row("Speed", fmt.Sprintf("%.3f", m.stat.MaxSpeed))
	i := m.fluid.Index(m.cursorX, m.cursorY)
	row("Cursor", fmt.Sprintf("(%d, %d) %.3f", m.cursorX, m.cursorY, m.fluid.DensityAt(i)))
	row("Theme", m.theme.Name)
	s.WriteString(labelStyle.Render("Peak") + SparklineChart(m.peakHistory, 28) + "\n")

	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause N:Step R:Reset Q:Quit\nD:Inject ⇧+Arrows:Push T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.heatmap()), statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Arrows/hjkl  - Move cursor          ║
║  D / Enter    - Inject density       ║
║  Shift+Arrows - Push velocity        ║
║  Click        - Inject at cell       ║
║  Space        - Pause/Resume         ║
║  N            - Single step          ║
║  + / -        - Scale time step      ║
║  R            - Reset fields         ║
║  T            - Cycle themes         ║
║  ?            - Toggle this help     ║
║  Q            - Quit                 ║
╚══════════════════════════════════════╝`
