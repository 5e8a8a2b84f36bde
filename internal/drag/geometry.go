package drag

import "math"

// Point is a coordinate in viewport pixel space. As a panel position it is
// the panel's top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Snapshot is a single reading of viewport and panel dimensions.
// It is never cached between calls.
type Snapshot struct {
	WindowWidth  float64
	WindowHeight float64
	PanelWidth   float64
	PanelHeight  float64
	HeaderHeight float64
}

// MaxX is the right-most x that keeps the panel inside the viewport.
func (s Snapshot) MaxX() float64 {
	return s.WindowWidth - s.PanelWidth
}

// MaxY is the bottom-most y that keeps the panel inside the viewport.
func (s Snapshot) MaxY() float64 {
	return s.WindowHeight - s.PanelHeight
}

// Geometry reads the current viewport and panel size on demand.
// HeaderHeight is filled in by the engine from the active constraints.
type Geometry interface {
	Snapshot() Snapshot
}

// GeometryFunc adapts a function to the Geometry interface.
type GeometryFunc func() Snapshot

// Snapshot calls f.
func (f GeometryFunc) Snapshot() Snapshot {
	return f()
}

// Mounter is implemented by geometry providers whose panel target may not
// exist yet. Drags are ignored while Mounted reports false.
type Mounter interface {
	Mounted() bool
}

// clamp keeps v within [lo, hi]. When lo > hi the lower bound wins.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
