package drag

import "sync"

// Listener receives pointer events for the lifetime of a drag session.
type Listener interface {
	PointerMove(p Point)
	PointerUp(p Point)
}

// Input is an input-event dispatcher. Subscribe registers a listener and
// returns the function that unregisters it.
type Input interface {
	Subscribe(l Listener) (cancel func())
}

// Hub is a single-slot Input: at most one listener receives events at a
// time. A new subscription replaces the previous one; a stale cancel
// function never removes a newer listener.
type Hub struct {
	mu       sync.Mutex
	listener Listener
	gen      uint64
}

var _ Input = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe installs l as the active listener.
func (h *Hub) Subscribe(l Listener) func() {
	h.mu.Lock()
	h.gen++
	gen := h.gen
	h.listener = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.gen == gen {
				h.listener = nil
			}
		})
	}
}

// Active reports whether a listener is attached.
func (h *Hub) Active() bool {
	return h.current() != nil
}

// Move delivers a pointer-move sample to the active listener.
func (h *Hub) Move(p Point) {
	if l := h.current(); l != nil {
		l.PointerMove(p)
	}
}

// Up delivers a pointer-up to the active listener.
func (h *Hub) Up(p Point) {
	if l := h.current(); l != nil {
		l.PointerUp(p)
	}
}

// current returns the listener without holding the lock during dispatch,
// so listeners may cancel themselves from inside a callback.
func (h *Hub) current() Listener {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listener
}
