package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/panelsnap/internal/drag"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandGetMonitors    CommandType = "GET_MONITORS"
	CommandSnap           CommandType = "SNAP"
	CommandSetConstraints CommandType = "SET_CONSTRAINTS"
)

// Response statuses.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // StatusOK or StatusError
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowID      uint32           `json:"window_id"`
	WindowFound   bool             `json:"window_found"`
	Position      drag.Point       `json:"position"`
	Edge          drag.Edge        `json:"edge"`
	Dragging      bool             `json:"dragging"`
	Constraints   drag.Constraints `json:"constraints"`
	HeaderHeight  float64          `json:"header_height"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	DaemonRunning bool             `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	UsableX      int    `json:"usable_x"`
	UsableY      int    `json:"usable_y"`
	UsableWidth  int    `json:"usable_width"`
	UsableHeight int    `json:"usable_height"`
	HasPanel     bool   `json:"has_panel"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// SnapPayload is the payload for SNAP.
type SnapPayload struct {
	Edge string `json:"edge"`
}

// SnapData is returned by SNAP.
type SnapData struct {
	Edge     drag.Edge  `json:"edge"`
	Position drag.Point `json:"position"`
}

// SetConstraintsPayload is the payload for SET_CONSTRAINTS. Unset fields
// keep their current value unless Clear is true, in which case every bound
// not given here is removed.
type SetConstraintsPayload struct {
	MinX  *float64 `json:"min_x,omitempty"`
	MinY  *float64 `json:"min_y,omitempty"`
	Clear bool     `json:"clear,omitempty"`
}

// Apply merges the payload into current.
func (p SetConstraintsPayload) Apply(current drag.Constraints) drag.Constraints {
	out := current
	if p.Clear {
		out = drag.Constraints{}
	}
	if p.MinX != nil {
		out.MinX = drag.Float(*p.MinX)
	}
	if p.MinY != nil {
		out.MinY = drag.Float(*p.MinY)
	}
	return out
}

// Validate rejects negative bounds.
func (p SetConstraintsPayload) Validate() error {
	if p.MinX != nil && *p.MinX < 0 {
		return fmt.Errorf("min_x must be >= 0")
	}
	if p.MinY != nil && *p.MinY < 0 {
		return fmt.Errorf("min_y must be >= 0")
	}
	return nil
}

// ConstraintsData is returned by SET_CONSTRAINTS.
type ConstraintsData struct {
	Constraints  drag.Constraints `json:"constraints"`
	HeaderHeight float64          `json:"header_height"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
