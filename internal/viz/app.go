package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fluidsim/internal/sim"
)

var (
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Builder assembles a ready-to-run simulator for a named scene.
type Builder func(name string) (*sim.Simulator, error)

const (
	stateMenu = iota
	stateSim
)

// App is a scene picker in front of a Model. Esc in the simulation returns
// to the menu.
type App struct {
	state  int
	cursor int
	scenes []string
	info   map[string]string
	build  Builder
	fps    int
	err    error
	live   Model
}

func NewApp(scenes []string, info map[string]string, build Builder, fps int) App {
	return App{scenes: scenes, info: info, build: build, fps: fps}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			a.state = stateMenu
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch k.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.scenes)-1 {
			a.cursor++
		}
	case "enter", " ":
		if len(a.scenes) == 0 {
			return a, nil
		}
		s, err := a.build(a.scenes[a.cursor])
		if err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.live = NewModel(s, a.scenes[a.cursor], a.fps)
		a.state = stateSim
		return a, a.live.Init()
	}
	return a, nil
}

func (a App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}

	var b strings.Builder
	b.WriteString("\n  " + cyan.Render("fluidsim") + dim.Render("  choose a scene") + "\n\n")
	for i, name := range a.scenes {
		line := fmt.Sprintf("%-8s %s", name, a.info[name])
		if i == a.cursor {
			b.WriteString("  " + white.Render("> "+line) + "\n")
		} else {
			b.WriteString("    " + dim.Render(line) + "\n")
		}
	}
	if a.err != nil {
		b.WriteString("\n  " + red.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n  " + dim.Render("↑↓ select  enter start  esc back  q quit") + "\n")
	return b.String()
}
