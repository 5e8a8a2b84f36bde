package drag

import (
	"fmt"
	"math"
	"strings"
)

// Edge is the viewport side a panel snaps to.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Edges lists every edge in tie-break priority order.
var Edges = []Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom}

// String returns the lowercase edge name.
func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// ParseEdge parses an edge name (case-insensitive).
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return EdgeLeft, nil
	case "right":
		return EdgeRight, nil
	case "top":
		return EdgeTop, nil
	case "bottom":
		return EdgeBottom, nil
	default:
		return EdgeLeft, fmt.Errorf("unknown edge %q (want left, right, top or bottom)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Edge) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Edge) UnmarshalText(text []byte) error {
	parsed, err := ParseEdge(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// NearestEdge returns the edge closest to the raw pointer position.
// Ties go to the first edge in left, right, top, bottom order.
func NearestEdge(pointer Point, snap Snapshot) Edge {
	distLeft := pointer.X
	distRight := snap.WindowWidth - pointer.X
	distTop := pointer.Y - snap.HeaderHeight
	distBottom := snap.WindowHeight - pointer.Y

	minDist := math.Min(math.Min(distLeft, distRight), math.Min(distTop, distBottom))

	switch minDist {
	case distLeft:
		return EdgeLeft
	case distRight:
		return EdgeRight
	case distTop:
		return EdgeTop
	default:
		return EdgeBottom
	}
}
