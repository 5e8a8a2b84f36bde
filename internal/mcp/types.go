package mcp

// PanelStatusInput is the input for the panel_status tool.
type PanelStatusInput struct{}

// PanelStatusOutput is the output for the panel_status tool.
type PanelStatusOutput struct {
	WindowFound  bool     `json:"window_found"`
	WindowID     uint32   `json:"window_id,omitempty"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Edge         string   `json:"edge"`
	Dragging     bool     `json:"dragging"`
	MinX         *float64 `json:"min_x,omitempty"`
	MinY         *float64 `json:"min_y,omitempty"`
	HeaderHeight float64  `json:"header_height"`
	Uptime       int64    `json:"uptime_seconds"`
}

// SnapPanelInput is the input for the snap_panel tool.
type SnapPanelInput struct {
	Edge string `json:"edge" jsonschema:"required,Target edge: left, right, top or bottom"`
}

// SnapPanelOutput is the output for the snap_panel tool.
type SnapPanelOutput struct {
	Edge string  `json:"edge"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SetConstraintsInput is the input for the set_constraints tool.
type SetConstraintsInput struct {
	MinX  *float64 `json:"min_x,omitempty" jsonschema:"Smallest x the panel may be dragged to, in pixels"`
	MinY  *float64 `json:"min_y,omitempty" jsonschema:"Smallest y the panel may be dragged to, in pixels. Also the header height for snaps."`
	Clear bool     `json:"clear,omitempty" jsonschema:"Remove every bound not given in this call"`
}

// SetConstraintsOutput is the output for the set_constraints tool.
type SetConstraintsOutput struct {
	MinX         *float64 `json:"min_x,omitempty"`
	MinY         *float64 `json:"min_y,omitempty"`
	HeaderHeight float64  `json:"header_height"`
}
