package tui

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/ipc"
)

const (
	DefaultPanelWidth  = 28
	DefaultPanelHeight = 8

	// statusRows is the header line the panel may never cover.
	statusRows = 1
)

// Options configures the simulator.
type Options struct {
	PanelWidth  int
	PanelHeight int
	InitialEdge drag.Edge
	// MinX is an optional left bound in cells. The top bound is always the
	// status line.
	MinX *float64
	// Daemon, when set, is queried once for the live panel's status.
	Daemon *ipc.Client
}

// cellGeometry is the terminal viewed as the engine's viewport.
type cellGeometry struct {
	mu      sync.Mutex
	snap    drag.Snapshot
	mounted bool
}

func (g *cellGeometry) Snapshot() drag.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap
}

func (g *cellGeometry) Mounted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mounted
}

func (g *cellGeometry) resize(w, h, pw, ph int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snap = drag.Snapshot{
		WindowWidth:  float64(w),
		WindowHeight: float64(h),
		PanelWidth:   float64(pw),
		PanelHeight:  float64(ph),
	}
	g.mounted = w > 0 && h > 0
}

type daemonStatusMsg struct {
	status *ipc.StatusData
	err    error
}

// Sim is the terminal playground: the terminal is the viewport and a
// bordered box is the panel. Drag it with the left button.
type Sim struct {
	engine *drag.Engine
	hub    *drag.Hub
	geom   *cellGeometry
	daemon *ipc.Client

	keys keyMap
	help help.Model

	width       int
	height      int
	panelWidth  int
	panelHeight int

	daemonLine string
}

// NewSim creates a simulator model.
func NewSim(opts Options) Sim {
	pw, ph := opts.PanelWidth, opts.PanelHeight
	if pw <= 0 {
		pw = DefaultPanelWidth
	}
	if ph <= 0 {
		ph = DefaultPanelHeight
	}

	geom := &cellGeometry{}
	hub := drag.NewHub()
	cons := drag.Constraints{MinX: opts.MinX, MinY: drag.Float(statusRows)}

	return Sim{
		engine: drag.NewEngine(geom, hub,
			drag.WithInitialPosition(drag.Point{X: 0, Y: statusRows}),
			drag.WithInitialEdge(opts.InitialEdge),
			drag.WithConstraints(cons),
		),
		hub:         hub,
		geom:        geom,
		daemon:      opts.Daemon,
		keys:        newKeyMap(),
		help:        help.New(),
		panelWidth:  pw,
		panelHeight: ph,
	}
}

// State exposes the engine state, mainly for tests.
func (m Sim) State() drag.State {
	return m.engine.State()
}

// Init implements tea.Model.
func (m Sim) Init() tea.Cmd {
	if m.daemon == nil {
		return nil
	}
	client := m.daemon
	return func() tea.Msg {
		status, err := client.GetStatus()
		return daemonStatusMsg{status: status, err: err}
	}
}

// Update implements tea.Model.
func (m Sim) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.engine.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.help):
			m.help.ShowAll = !m.help.ShowAll
			m.relayout()
		case key.Matches(msg, m.keys.left):
			m.snap(drag.EdgeLeft)
		case key.Matches(msg, m.keys.right):
			m.snap(drag.EdgeRight)
		case key.Matches(msg, m.keys.top):
			m.snap(drag.EdgeTop)
		case key.Matches(msg, m.keys.bottom):
			m.snap(drag.EdgeBottom)
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case daemonStatusMsg:
		m.daemonLine = formatDaemonStatus(msg.status, msg.err)
		return m, nil
	}

	return m, nil
}

func (m Sim) handleMouse(msg tea.MouseMsg) {
	p := drag.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && m.insidePanel(msg.X, msg.Y) {
			m.engine.Begin(p)
		}
	case tea.MouseActionMotion:
		m.hub.Move(p)
	case tea.MouseActionRelease:
		m.hub.Up(p)
	}
}

func (m Sim) insidePanel(x, y int) bool {
	left, top := m.panelOrigin()
	return x >= left && x < left+m.panelWidth && y >= top && y < top+m.panelHeight
}

func (m Sim) panelOrigin() (int, int) {
	pos := m.engine.State().Position
	return int(math.Round(pos.X)), int(math.Round(pos.Y))
}

func (m Sim) snap(edge drag.Edge) {
	// Keys are ignored mid-drag.
	_, _ = m.engine.SnapTo(edge)
}

// relayout feeds the new viewport to the engine and re-snaps the idle panel
// so it stays on screen.
func (m *Sim) relayout() {
	m.geom.resize(m.width, m.viewportHeight(), m.panelWidth, m.panelHeight)
	if !m.geom.Mounted() {
		return
	}
	st := m.engine.State()
	if !st.Dragging {
		_, _ = m.engine.SnapTo(st.Edge)
	}
}

// viewportHeight is the terminal height minus the help footer.
func (m Sim) viewportHeight() int {
	h := m.height - lipgloss.Height(m.help.View(m.keys))
	if h < 0 {
		return 0
	}
	return h
}

var (
	simStatusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	draggingPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("42"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Sim) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	st := m.engine.State()
	vh := m.viewportHeight()

	status := simStatusStyle.Width(m.width).MaxHeight(statusRows).Render(m.statusText(st))

	rows := make([]string, 0, vh)
	rows = append(rows, status)

	left, top := m.panelOrigin()
	box := strings.Split(m.renderPanel(st), "\n")
	indent := strings.Repeat(" ", max(left, 0))
	for y := statusRows; y < vh; y++ {
		i := y - top
		if i >= 0 && i < len(box) {
			rows = append(rows, indent+box[i])
		} else {
			rows = append(rows, "")
		}
	}

	return strings.Join(rows, "\n") + "\n" + m.help.View(m.keys)
}

func (m Sim) statusText(st drag.State) string {
	parts := []string{
		"panelsnap sim",
		fmt.Sprintf("x:%.0f y:%.0f", st.Position.X, st.Position.Y),
		"edge:" + st.Edge.String(),
	}
	if st.Dragging {
		parts = append(parts, "dragging")
	}
	if m.daemonLine != "" {
		parts = append(parts, m.daemonLine)
	}
	return strings.Join(parts, "  ")
}

func (m Sim) renderPanel(st drag.State) string {
	style := panelStyle
	if st.Dragging {
		style = draggingPanelStyle
	}
	// Border takes one cell on each side.
	inner := []string{
		"drag me",
		dimStyle.Render("edge: " + st.Edge.String()),
	}
	return style.
		Width(m.panelWidth - 2).
		Height(m.panelHeight - 2).
		MaxWidth(m.panelWidth).
		Render(strings.Join(inner, "\n"))
}

func formatDaemonStatus(status *ipc.StatusData, err error) string {
	if err != nil || status == nil {
		return "daemon: not running"
	}
	if !status.WindowFound {
		return "daemon: waiting for panel"
	}
	return fmt.Sprintf("daemon: panel %s", status.Edge)
}
