package stream

import (
	"fmt"

	"github.com/1broseidon/panelsnap/internal/drag"
)

// Client message types.
const (
	TypeGeometry    = "geometry"
	TypeDown        = "down"
	TypeMove        = "move"
	TypeUp          = "up"
	TypeConstraints = "constraints"
	TypeMount       = "mount"
)

// Server message types.
const (
	TypeState = "state"
	TypeError = "error"
)

// ClientMessage is one frame from the browser. Which fields are meaningful
// depends on Type.
type ClientMessage struct {
	Type string `json:"type"`

	// down, move, up
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// geometry
	WindowWidth  float64 `json:"window_width,omitempty"`
	WindowHeight float64 `json:"window_height,omitempty"`
	PanelWidth   float64 `json:"panel_width,omitempty"`
	PanelHeight  float64 `json:"panel_height,omitempty"`

	// constraints
	MinX *float64 `json:"min_x,omitempty"`
	MinY *float64 `json:"min_y,omitempty"`
}

// Point returns the pointer coordinates of a down, move or up message.
func (m ClientMessage) Point() drag.Point {
	return drag.Point{X: m.X, Y: m.Y}
}

// Snapshot returns the dimensions of a geometry message.
func (m ClientMessage) Snapshot() drag.Snapshot {
	return drag.Snapshot{
		WindowWidth:  m.WindowWidth,
		WindowHeight: m.WindowHeight,
		PanelWidth:   m.PanelWidth,
		PanelHeight:  m.PanelHeight,
	}
}

// Constraints returns the bounds of a constraints message.
func (m ClientMessage) Constraints() drag.Constraints {
	return drag.Constraints{MinX: m.MinX, MinY: m.MinY}
}

func (m ClientMessage) validateGeometry() error {
	if m.WindowWidth < 0 || m.WindowHeight < 0 || m.PanelWidth < 0 || m.PanelHeight < 0 {
		return fmt.Errorf("geometry dimensions must be >= 0")
	}
	return nil
}

// StateMessage is sent after every committed engine change.
type StateMessage struct {
	Type     string    `json:"type"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Edge     drag.Edge `json:"edge"`
	Dragging bool      `json:"dragging"`
}

func newStateMessage(st drag.State) StateMessage {
	return StateMessage{
		Type:     TypeState,
		X:        st.Position.X,
		Y:        st.Position.Y,
		Edge:     st.Edge,
		Dragging: st.Dragging,
	}
}

// ErrorMessage reports a rejected client message. The connection stays open.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
