package drag

// Session is one drag, from pointer-down to pointer-up. It is registered
// with the engine's Input for exactly as long as it is active.
type Session struct {
	id     string
	engine *Engine
	offset Point
	edge   Edge
	active bool
	cancel func()
}

var _ Listener = (*Session)(nil)

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Offset is the pointer position relative to the panel's top-left corner
// at drag start.
func (s *Session) Offset() Point {
	return s.offset
}

// Active reports whether the session still receives input.
func (s *Session) Active() bool {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	return s.active
}

// Update moves the panel under the pointer, clamped to the viewport, and
// recomputes the nearest edge from the raw pointer. No-op once ended.
func (s *Session) Update(pointer Point) {
	e := s.engine
	e.mu.Lock()
	if !s.active {
		e.mu.Unlock()
		return
	}
	st := e.updateLocked(s, pointer)
	e.mu.Unlock()

	e.emit(st)
}

// End detaches the session and snaps the panel to the last detected edge.
// Calling End again returns the same edge and changes nothing.
func (s *Session) End() Edge {
	e := s.engine
	e.mu.Lock()
	if !s.active {
		edge := s.edge
		e.mu.Unlock()
		return edge
	}
	st := e.endLocked(s)
	edge := s.edge
	e.mu.Unlock()

	e.emit(st)
	return edge
}

// PointerMove implements Listener.
func (s *Session) PointerMove(p Point) {
	s.Update(p)
}

// PointerUp implements Listener. The release coordinates are not used; the
// snap target is the edge from the last move.
func (s *Session) PointerUp(Point) {
	s.End()
}

func (s *Session) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
