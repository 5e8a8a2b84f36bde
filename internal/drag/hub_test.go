package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingListener struct {
	moves []Point
	ups   []Point
}

func (r *recordingListener) PointerMove(p Point) { r.moves = append(r.moves, p) }
func (r *recordingListener) PointerUp(p Point)   { r.ups = append(r.ups, p) }

func TestHub_DeliversToActiveListener(t *testing.T) {
	h := NewHub()
	assert.False(t, h.Active())

	// No listener: events are dropped.
	h.Move(Point{X: 1})

	l := &recordingListener{}
	cancel := h.Subscribe(l)
	assert.True(t, h.Active())

	h.Move(Point{X: 2})
	h.Up(Point{X: 3})
	assert.Equal(t, []Point{{X: 2}}, l.moves)
	assert.Equal(t, []Point{{X: 3}}, l.ups)

	cancel()
	assert.False(t, h.Active())
	h.Move(Point{X: 4})
	assert.Len(t, l.moves, 1)
}

func TestHub_StaleCancelKeepsNewerListener(t *testing.T) {
	h := NewHub()
	first := &recordingListener{}
	second := &recordingListener{}

	cancelFirst := h.Subscribe(first)
	cancelSecond := h.Subscribe(second)

	cancelFirst()
	cancelFirst()
	assert.True(t, h.Active())

	h.Move(Point{Y: 7})
	assert.Empty(t, first.moves)
	assert.Equal(t, []Point{{Y: 7}}, second.moves)

	cancelSecond()
	assert.False(t, h.Active())
}
