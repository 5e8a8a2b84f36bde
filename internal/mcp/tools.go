package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/ipc"
)

func (s *Server) handlePanelStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ PanelStatusInput) (*mcpsdk.CallToolResult, PanelStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, PanelStatusOutput{}, err
	}

	return nil, PanelStatusOutput{
		WindowFound:  status.WindowFound,
		WindowID:     status.WindowID,
		X:            status.Position.X,
		Y:            status.Position.Y,
		Edge:         status.Edge.String(),
		Dragging:     status.Dragging,
		MinX:         status.Constraints.MinX,
		MinY:         status.Constraints.MinY,
		HeaderHeight: status.HeaderHeight,
		Uptime:       status.UptimeSeconds,
	}, nil
}

func (s *Server) handleSnapPanel(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapPanelInput) (*mcpsdk.CallToolResult, SnapPanelOutput, error) {
	edge, err := drag.ParseEdge(strings.TrimSpace(args.Edge))
	if err != nil {
		return nil, SnapPanelOutput{}, err
	}

	data, err := s.daemon.Snap(edge)
	if err != nil {
		return nil, SnapPanelOutput{}, fmt.Errorf("snap to %s failed: %w", edge, err)
	}

	s.logger.Info().Str("edge", data.Edge.String()).Msg("panel snapped via mcp")
	return nil, SnapPanelOutput{
		Edge: data.Edge.String(),
		X:    data.Position.X,
		Y:    data.Position.Y,
	}, nil
}

func (s *Server) handleSetConstraints(_ context.Context, _ *mcpsdk.CallToolRequest, args SetConstraintsInput) (*mcpsdk.CallToolResult, SetConstraintsOutput, error) {
	payload := ipc.SetConstraintsPayload{
		MinX:  args.MinX,
		MinY:  args.MinY,
		Clear: args.Clear,
	}
	if err := payload.Validate(); err != nil {
		return nil, SetConstraintsOutput{}, err
	}
	if payload.MinX == nil && payload.MinY == nil && !payload.Clear {
		return nil, SetConstraintsOutput{}, fmt.Errorf("nothing to change: set min_x or min_y, or clear")
	}

	data, err := s.daemon.SetConstraints(payload)
	if err != nil {
		return nil, SetConstraintsOutput{}, err
	}

	return nil, SetConstraintsOutput{
		MinX:         data.Constraints.MinX,
		MinY:         data.Constraints.MinY,
		HeaderHeight: data.HeaderHeight,
	}, nil
}
