package daemon

import (
	"math"
	"sync"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/platform"
)

// windowGeometry feeds the engine from the X server: the viewport is the
// usable area of the display the panel sits on, the panel is the window's
// outer frame.
type windowGeometry struct {
	backend platform.Backend
	id      platform.WindowID

	mu      sync.Mutex
	display platform.Display
	panel   platform.Rect
}

var (
	_ drag.Geometry = (*windowGeometry)(nil)
	_ drag.Mounter  = (*windowGeometry)(nil)
)

func newWindowGeometry(backend platform.Backend, id platform.WindowID) *windowGeometry {
	return &windowGeometry{backend: backend, id: id}
}

// refresh re-selects the display from the window's current location and
// reports whether it differs from the previous one.
func (g *windowGeometry) refresh() (bool, error) {
	d, err := g.backend.DisplayFor(g.id)
	if err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	changed := d.ID != g.display.ID || d.Usable != g.display.Usable
	g.display = d
	return changed, nil
}

// position reads the window's current top-left corner in viewport space.
func (g *windowGeometry) position() (drag.Point, error) {
	r, err := g.backend.WindowBounds(g.id)
	if err != nil {
		return drag.Point{}, err
	}
	ox, oy := g.origin()
	return drag.Point{X: float64(r.X - ox), Y: float64(r.Y - oy)}, nil
}

func (g *windowGeometry) currentDisplay() platform.Display {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.display
}

// origin is the root-space position of the viewport's top-left corner.
func (g *windowGeometry) origin() (int, int) {
	d := g.currentDisplay()
	return d.Usable.X, d.Usable.Y
}

func (g *windowGeometry) toViewport(rootX, rootY int) drag.Point {
	ox, oy := g.origin()
	return drag.Point{X: float64(rootX - ox), Y: float64(rootY - oy)}
}

func (g *windowGeometry) toRoot(p drag.Point) (int, int) {
	ox, oy := g.origin()
	return ox + int(math.Round(p.X)), oy + int(math.Round(p.Y))
}

// Snapshot re-reads the selected display's usable area and the window's
// outer size. Failed reads keep the last known values.
func (g *windowGeometry) Snapshot() drag.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	if displays, err := g.backend.Displays(); err == nil {
		for _, d := range displays {
			if d.ID == g.display.ID {
				g.display = d
				break
			}
		}
	}
	if r, err := g.backend.WindowBounds(g.id); err == nil {
		g.panel = r
	}

	return drag.Snapshot{
		WindowWidth:  float64(g.display.Usable.Width),
		WindowHeight: float64(g.display.Usable.Height),
		PanelWidth:   float64(g.panel.Width),
		PanelHeight:  float64(g.panel.Height),
	}
}

// Mounted reports whether the panel window still exists.
func (g *windowGeometry) Mounted() bool {
	return g.backend.WindowExists(g.id)
}
