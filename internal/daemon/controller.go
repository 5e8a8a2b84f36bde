package daemon

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/panelsnap/internal/config"
	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/hotkeys"
	"github.com/1broseidon/panelsnap/internal/ipc"
	"github.com/1broseidon/panelsnap/internal/logging"
	"github.com/1broseidon/panelsnap/internal/overlay"
	"github.com/1broseidon/panelsnap/internal/platform"
	"github.com/1broseidon/panelsnap/internal/x11"
	"github.com/rs/zerolog"
)

// ErrNoPanel is returned when the panel window has not been found yet.
var ErrNoPanel = errors.New("panel window not found")

// Previewer draws the snap target while a drag is in progress.
type Previewer interface {
	Show(r platform.Rect, color uint32) error
	Hide()
}

// Binder attaches pointer drags on a window to the controller.
type Binder interface {
	Bind(win platform.WindowID) error
	Unbind(win platform.WindowID)
}

// Options configures a Controller.
type Options struct {
	Backend     platform.Backend
	Match       platform.Match
	Constraints drag.Constraints
	InitialEdge drag.Edge

	// Optional collaborators.
	Preview   Previewer
	Binder    Binder
	StatePath string
	Loader    func() (*config.Config, error)
	Logger    zerolog.Logger
}

// panel is one attached window together with the engine positioning it.
type panel struct {
	id     platform.WindowID
	geom   *windowGeometry
	engine *drag.Engine
}

// Controller keeps the X11 panel window under a drag engine. It turns
// root-space pointer drags into engine sessions and engine commits into
// window moves.
type Controller struct {
	backend   platform.Backend
	preview   Previewer
	binder    Binder
	statePath string
	loader    func() (*config.Config, error)
	logger    zerolog.Logger
	hub       *drag.Hub

	cmu         sync.Mutex
	constraints drag.Constraints
	match       platform.Match
	initialEdge drag.Edge

	mu    sync.Mutex
	panel *panel
}

var (
	_ ipc.Controller  = (*Controller)(nil)
	_ hotkeys.Snapper = (*Controller)(nil)
	_ x11.DragHandler = (*Controller)(nil)
)

// NewController creates a detached controller. Call Refresh (or run a
// Tracker) to find the panel window.
func NewController(opts Options) *Controller {
	return &Controller{
		backend:     opts.Backend,
		preview:     opts.Preview,
		binder:      opts.Binder,
		statePath:   opts.StatePath,
		loader:      opts.Loader,
		logger:      logging.Component(opts.Logger, "daemon"),
		hub:         drag.NewHub(),
		constraints: opts.Constraints,
		match:       opts.Match,
		initialEdge: opts.InitialEdge,
	}
}

// MatchFromConfig converts the configured panel match.
func MatchFromConfig(cfg *config.Config) platform.Match {
	return platform.Match{Title: cfg.Panel.Title, Class: cfg.Panel.Class}
}

func (c *Controller) current() *panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

func (c *Controller) currentMatch() platform.Match {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	return c.match
}

// Refresh checks that the attached window still exists and looks the panel
// up again when it does not. It returns platform.ErrWindowNotFound while no
// window matches.
func (c *Controller) Refresh() error {
	if p := c.current(); p != nil {
		if c.backend.WindowExists(p.id) {
			return nil
		}
		c.logger.Info().Uint32("window", uint32(p.id)).Msg("panel window gone")
		c.detach(p)
	}

	match := c.currentMatch()
	id, err := c.backend.FindWindow(match)
	if err != nil {
		return err
	}
	return c.attach(id)
}

func (c *Controller) attach(id platform.WindowID) error {
	geom := newWindowGeometry(c.backend, id)
	if _, err := geom.refresh(); err != nil {
		return fmt.Errorf("failed to resolve display for window %d: %w", id, err)
	}
	start, err := geom.position()
	if err != nil {
		return fmt.Errorf("failed to read window %d geometry: %w", id, err)
	}

	edge := c.restoreEdge()

	p := &panel{id: id, geom: geom}
	p.engine = drag.NewEngine(geom, c.hub,
		drag.WithInitialPosition(start),
		drag.WithInitialEdge(edge),
		drag.WithConstraintSource(c.Constraints),
		drag.WithSink(c.sinkFor(p)),
		drag.WithLogger(c.logger.With().Uint32("window", uint32(id)).Logger()),
	)

	c.mu.Lock()
	old := c.panel
	c.panel = p
	c.mu.Unlock()
	if old != nil {
		c.release(old)
	}

	if c.binder != nil {
		if err := c.binder.Bind(id); err != nil {
			c.logger.Warn().Err(err).Uint32("window", uint32(id)).Msg("failed to bind panel drag")
		}
	}

	c.logger.Info().
		Uint32("window", uint32(id)).
		Str("display", geom.currentDisplay().Name).
		Str("edge", edge.String()).
		Msg("panel window attached")

	if _, err := p.engine.SnapTo(edge); err != nil {
		c.logger.Warn().Err(err).Msg("initial snap failed")
	}
	return nil
}

// detach drops p if it is still the attached panel.
func (c *Controller) detach(p *panel) {
	c.mu.Lock()
	if c.panel == p {
		c.panel = nil
	}
	c.mu.Unlock()
	c.release(p)
}

func (c *Controller) release(p *panel) {
	p.engine.Close()
	if c.binder != nil {
		c.binder.Unbind(p.id)
	}
	if c.preview != nil {
		c.preview.Hide()
	}
}

// Close detaches the panel. The window stays where it is.
func (c *Controller) Close() {
	if p := c.current(); p != nil {
		c.detach(p)
	}
}

func (c *Controller) restoreEdge() drag.Edge {
	c.cmu.Lock()
	edge := c.initialEdge
	c.cmu.Unlock()

	if c.statePath == "" {
		return edge
	}
	st, err := ReadState(c.statePath)
	if err != nil {
		return edge
	}
	return st.Edge
}

func (c *Controller) sinkFor(p *panel) drag.SinkFunc {
	return func(st drag.State) {
		x, y := p.geom.toRoot(st.Position)
		if err := c.backend.Move(p.id, x, y); err != nil {
			c.logger.Debug().Err(err).Uint32("window", uint32(p.id)).Msg("move failed")
		}

		c.updatePreview(p, st)

		if !st.Dragging && c.statePath != "" {
			saved := SavedState{
				Edge:     st.Edge,
				Position: st.Position,
				WindowID: uint32(p.id),
				SavedAt:  time.Now(),
			}
			if err := WriteState(c.statePath, saved); err != nil {
				c.logger.Debug().Err(err).Msg("failed to save panel state")
			}
		}
	}
}

func (c *Controller) updatePreview(p *panel, st drag.State) {
	if c.preview == nil {
		return
	}
	if !st.Dragging {
		c.preview.Hide()
		return
	}

	cons := c.Constraints()
	snap := p.geom.Snapshot()
	snap.HeaderHeight = cons.HeaderHeight()
	target := drag.Resolve(st.Edge, snap, cons)
	x, y := p.geom.toRoot(target)

	r := platform.Rect{X: x, Y: y, Width: int(snap.PanelWidth), Height: int(snap.PanelHeight)}
	if err := c.preview.Show(r, overlay.ColorSnapTarget); err != nil {
		c.logger.Debug().Err(err).Msg("preview failed")
	}
}

// DragBegin starts a drag session at a root-space pointer position. It
// returns false when no panel is attached.
func (c *Controller) DragBegin(rootX, rootY int) bool {
	p := c.current()
	if p == nil {
		return false
	}
	c.resync(p)

	s := p.engine.Begin(p.geom.toViewport(rootX, rootY))
	if s == nil {
		return false
	}
	c.logger.Debug().Str("session", s.ID()).Int("root_x", rootX).Int("root_y", rootY).Msg("panel drag started")
	return true
}

// DragStep forwards a pointer motion to the active session.
func (c *Controller) DragStep(rootX, rootY int) {
	if p := c.current(); p != nil {
		c.hub.Move(p.geom.toViewport(rootX, rootY))
	}
}

// DragEnd releases the active session, snapping the panel.
func (c *Controller) DragEnd(rootX, rootY int) {
	if p := c.current(); p != nil {
		c.hub.Up(p.geom.toViewport(rootX, rootY))
	}
}

// Snap moves the panel to edge's resting position.
func (c *Controller) Snap(edge drag.Edge) (drag.Point, error) {
	p := c.current()
	if p == nil {
		return drag.Point{}, ErrNoPanel
	}
	c.resync(p)
	return p.engine.SnapTo(edge)
}

// resync follows the panel onto another display: when the window now sits
// on a different display, the engine position is re-read relative to it.
func (c *Controller) resync(p *panel) {
	changed, err := p.geom.refresh()
	if err != nil {
		c.logger.Debug().Err(err).Msg("display lookup failed; keeping previous display")
		return
	}
	if !changed {
		return
	}
	pos, err := p.geom.position()
	if err != nil {
		return
	}
	c.logger.Debug().Str("display", p.geom.currentDisplay().Name).Msg("panel changed display")
	p.engine.SetPosition(pos)
}

// Constraints returns the active constraint policy. The engine pulls it on
// every drag step and snap.
func (c *Controller) Constraints() drag.Constraints {
	c.cmu.Lock()
	defer c.cmu.Unlock()
	return c.constraints
}

// SetConstraints replaces the constraint policy for subsequent drags.
func (c *Controller) SetConstraints(cons drag.Constraints) {
	c.cmu.Lock()
	c.constraints = cons
	c.cmu.Unlock()
	c.logger.Info().Stringer("constraints", cons).Msg("constraints updated")
}

// Status reports the panel state for the IPC status command.
func (c *Controller) Status() ipc.StatusData {
	cons := c.Constraints()
	status := ipc.StatusData{
		Constraints:  cons,
		HeaderHeight: cons.HeaderHeight(),
	}

	p := c.current()
	if p == nil {
		c.cmu.Lock()
		status.Edge = c.initialEdge
		c.cmu.Unlock()
		return status
	}

	st := p.engine.State()
	status.WindowID = uint32(p.id)
	status.WindowFound = true
	status.Position = st.Position
	status.Edge = st.Edge
	status.Dragging = st.Dragging
	return status
}

// Monitors lists the displays and marks the one holding the panel.
func (c *Controller) Monitors() ([]ipc.MonitorInfo, error) {
	displays, err := c.backend.Displays()
	if err != nil {
		return nil, err
	}

	panelDisplay := -1
	if p := c.current(); p != nil {
		panelDisplay = p.geom.currentDisplay().ID
	}

	out := make([]ipc.MonitorInfo, 0, len(displays))
	for _, d := range displays {
		out = append(out, ipc.MonitorInfo{
			ID:           d.ID,
			Name:         d.Name,
			X:            d.Bounds.X,
			Y:            d.Bounds.Y,
			Width:        d.Bounds.Width,
			Height:       d.Bounds.Height,
			UsableX:      d.Usable.X,
			UsableY:      d.Usable.Y,
			UsableWidth:  d.Usable.Width,
			UsableHeight: d.Usable.Height,
			HasPanel:     d.ID == panelDisplay,
		})
	}
	return out, nil
}

// Reload re-reads the configuration through the loader and applies it.
func (c *Controller) Reload() error {
	if c.loader == nil {
		return fmt.Errorf("reload not supported")
	}
	cfg, err := c.loader()
	if err != nil {
		return err
	}
	c.ApplyConfig(cfg)
	return nil
}

// ApplyConfig takes the panel match, constraints and initial edge from cfg.
// A changed match drops the current window and looks the panel up again.
func (c *Controller) ApplyConfig(cfg *config.Config) {
	match := MatchFromConfig(cfg)

	c.cmu.Lock()
	changed := c.match != match
	c.match = match
	c.constraints = cfg.Constraints
	c.initialEdge = cfg.InitialEdge()
	c.cmu.Unlock()

	c.logger.Info().
		Stringer("constraints", cfg.Constraints).
		Bool("match_changed", changed).
		Msg("config applied")

	if !changed {
		return
	}
	if p := c.current(); p != nil {
		c.detach(p)
	}
	if err := c.Refresh(); err != nil && !errors.Is(err, platform.ErrWindowNotFound) {
		c.logger.Warn().Err(err).Msg("panel lookup after reload failed")
	}
}
