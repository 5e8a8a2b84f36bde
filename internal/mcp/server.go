package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/ipc"
	"github.com/1broseidon/panelsnap/internal/logging"
)

const (
	ServerName    = "panelsnap"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Snap(edge drag.Edge) (*ipc.SnapData, error)
	SetConstraints(p ipc.SetConstraintsPayload) (*ipc.ConstraintsData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes the running daemon's panel to MCP clients.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    zerolog.Logger
}

// NewServer creates an MCP server that forwards tool calls to the daemon.
func NewServer(daemon Daemon, logger zerolog.Logger) *Server {
	s := &Server{
		daemon: daemon,
		logger: logging.Component(logger, "mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "panel_status",
		Description: "Report the docked panel's window, position in viewport coordinates, current edge, whether a drag is in progress, and the active drag constraints.",
	}, s.handlePanelStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_panel",
		Description: "Snap the panel to a viewport edge (left, right, top or bottom). Fails while the user is dragging the panel.",
	}, s.handleSnapPanel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_constraints",
		Description: "Change the minimum x/y the panel may be dragged to. Omitted bounds keep their value unless clear is true. min_y also sets the header height used for top, left and right snaps; without it the header height is 115.",
	}, s.handleSetConstraints)
}
