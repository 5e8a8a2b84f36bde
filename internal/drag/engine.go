package drag

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrDragInProgress is returned by SnapTo while a drag session is active.
var ErrDragInProgress = errors.New("drag in progress")

// ErrClosed is returned by operations on a closed engine.
var ErrClosed = errors.New("engine closed")

// State is the engine's externally visible positioning state.
type State struct {
	Position Point `json:"position"`
	Edge     Edge  `json:"edge"`
	Dragging bool  `json:"dragging"`
}

// SinkFunc receives every committed state change, in commit order.
type SinkFunc func(State)

// Engine positions one draggable panel: it tracks the live position and
// nearest edge during a drag and snaps to that edge on release.
type Engine struct {
	mu sync.Mutex

	geometry    Geometry
	input       Input
	constraints func() Constraints
	static      Constraints
	sink        SinkFunc
	logger      zerolog.Logger

	position Point
	edge     Edge
	session  *Session
	closed   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithInitialPosition sets the starting panel position.
func WithInitialPosition(p Point) Option {
	return func(e *Engine) {
		e.position = p
	}
}

// WithInitialEdge sets the edge reported before the first drag.
func WithInitialEdge(edge Edge) Option {
	return func(e *Engine) {
		e.edge = edge
	}
}

// WithConstraints sets a fixed constraint policy.
func WithConstraints(c Constraints) Option {
	return func(e *Engine) {
		e.static = c
		e.constraints = e.staticConstraints
	}
}

// WithConstraintSource makes the engine pull constraints from fn on every
// drag step and snap. fn is called with the engine lock held.
func WithConstraintSource(fn func() Constraints) Option {
	return func(e *Engine) {
		if fn != nil {
			e.constraints = fn
		}
	}
}

// WithSink registers the state-change callback.
func WithSink(fn SinkFunc) Option {
	return func(e *Engine) {
		e.sink = fn
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an idle engine reading geometry from geometry and
// registering drag sessions with input.
func NewEngine(geometry Geometry, input Input, opts ...Option) *Engine {
	e := &Engine{
		geometry: geometry,
		input:    input,
		logger:   zerolog.Nop(),
	}
	e.constraints = e.staticConstraints

	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) staticConstraints() Constraints {
	return e.static
}

// State returns the current position, edge and dragging flag.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Constraints returns the constraints the next drag step would use.
func (e *Engine) Constraints() Constraints {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.constraints()
}

// SetConstraints replaces the constraint policy. Takes effect on the next
// drag step or snap.
func (e *Engine) SetConstraints(c Constraints) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.static = c
	e.constraints = e.staticConstraints
}

// SetPosition places the panel without snapping, e.g. after the window was
// moved by something other than the engine.
func (e *Engine) SetPosition(p Point) {
	e.mu.Lock()
	e.position = p
	st := e.stateLocked()
	e.mu.Unlock()

	e.emit(st)
}

// Begin starts a drag session at the given pointer position. It returns nil
// when the panel target is not mounted or the engine is closed. A session
// still active from a previous Begin is ended and snapped first.
func (e *Engine) Begin(pointer Point) *Session {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return nil
	}
	if m, ok := e.geometry.(Mounter); ok && !m.Mounted() {
		e.mu.Unlock()
		e.logger.Debug().Msg("panel not mounted; drag ignored")
		return nil
	}

	var pending []State
	if prev := e.session; prev != nil && prev.active {
		e.logger.Warn().Str("session", prev.id).Msg("drag started before previous release; settling previous session")
		pending = append(pending, e.endLocked(prev))
	}

	s := &Session{
		id:     uuid.NewString(),
		engine: e,
		offset: pointer.Sub(e.position),
		edge:   e.edge,
		active: true,
	}
	e.session = s
	if e.input != nil {
		s.cancel = e.input.Subscribe(s)
	}

	e.logger.Debug().
		Str("session", s.id).
		Float64("offset_x", s.offset.X).
		Float64("offset_y", s.offset.Y).
		Msg("drag started")

	pending = append(pending, e.stateLocked())
	e.mu.Unlock()

	e.emit(pending...)
	return s
}

// SnapTo moves the panel to the resting position for edge.
func (e *Engine) SnapTo(edge Edge) (Point, error) {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()
		return Point{}, ErrClosed
	}
	if e.session != nil && e.session.active {
		pos := e.position
		e.mu.Unlock()
		return pos, ErrDragInProgress
	}

	c := e.constraints()
	e.edge = edge
	e.position = Resolve(edge, e.snapshotLocked(c), c)
	pos := e.position
	st := e.stateLocked()
	e.mu.Unlock()

	e.emit(st)
	return pos, nil
}

// Close tears the engine down. An in-flight session is detached from its
// input without snapping. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	if s := e.session; s != nil && s.active {
		s.active = false
		s.release()
		e.logger.Debug().Str("session", s.id).Msg("drag detached on close")
	}
	e.session = nil
}

func (e *Engine) snapshotLocked(c Constraints) Snapshot {
	snap := e.geometry.Snapshot()
	snap.HeaderHeight = c.HeaderHeight()
	return snap
}

func (e *Engine) updateLocked(s *Session, pointer Point) State {
	c := e.constraints()
	snap := e.snapshotLocked(c)

	target := pointer.Sub(s.offset)
	e.position = Point{
		X: clamp(target.X, c.minX(), snap.MaxX()),
		Y: clamp(target.Y, snap.HeaderHeight, snap.MaxY()),
	}
	e.edge = NearestEdge(pointer, snap)
	s.edge = e.edge

	return e.stateLocked()
}

func (e *Engine) endLocked(s *Session) State {
	s.active = false
	s.release()

	c := e.constraints()
	s.edge = e.edge
	e.position = Resolve(e.edge, e.snapshotLocked(c), c)
	if e.session == s {
		e.session = nil
	}

	e.logger.Debug().
		Str("session", s.id).
		Str("edge", s.edge.String()).
		Float64("x", e.position.X).
		Float64("y", e.position.Y).
		Msg("drag ended; snapped")

	return e.stateLocked()
}

func (e *Engine) stateLocked() State {
	return State{
		Position: e.position,
		Edge:     e.edge,
		Dragging: e.session != nil && e.session.active,
	}
}

func (e *Engine) emit(states ...State) {
	if e.sink == nil {
		return
	}
	for _, st := range states {
		e.sink(st)
	}
}
