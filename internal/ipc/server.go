package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/rs/zerolog"
)

// Controller is the daemon-side view of the panel the server exposes.
type Controller interface {
	Status() StatusData
	Snap(edge drag.Edge) (drag.Point, error)
	Constraints() drag.Constraints
	SetConstraints(c drag.Constraints)
	Monitors() ([]MonitorInfo, error)
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       zerolog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server on socketPath. A stale socket file is
// removed.
func NewServer(socketPath string, ctrl Controller, logger zerolog.Logger) *Server {
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done {
				return
			}
			s.logger.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn().Err(err).Msg("IPC read error")
		return
	}

	var resp *Response
	if req, err := ParseRequest(data); err != nil {
		resp = NewErrorResponse(fmt.Sprintf("invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal IPC response")
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn().Err(err).Msg("failed to send IPC response")
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug().Str("command", string(req.Command)).Msg("IPC request")

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandSnap:
		return s.handleSnap(req.Payload)
	case CommandSetConstraints:
		return s.handleSetConstraints(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	if err := s.ctrl.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to reload config: %v", err))
	}
	s.logger.Info().Msg("config reloaded via IPC")
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status := s.ctrl.Status()
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.DaemonRunning = true
	return okOrError(status)
}

func (s *Server) handleGetMonitors() *Response {
	monitors, err := s.ctrl.Monitors()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to list monitors: %v", err))
	}
	return okOrError(MonitorsData{Monitors: monitors})
}

func (s *Server) handleSnap(payload json.RawMessage) *Response {
	var p SnapPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid snap payload: %v", err))
	}

	edge, err := drag.ParseEdge(p.Edge)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	pos, err := s.ctrl.Snap(edge)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("snap %s: %v", edge, err))
	}
	return okOrError(SnapData{Edge: edge, Position: pos})
}

func (s *Server) handleSetConstraints(payload json.RawMessage) *Response {
	var p SetConstraintsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid constraints payload: %v", err))
		}
	}
	if err := p.Validate(); err != nil {
		return NewErrorResponse(err.Error())
	}

	c := p.Apply(s.ctrl.Constraints())
	s.ctrl.SetConstraints(c)
	s.logger.Info().Stringer("constraints", c).Msg("constraints updated via IPC")

	return okOrError(ConstraintsData{Constraints: c, HeaderHeight: c.HeaderHeight()})
}

func okOrError(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener, removes the socket and waits for the accept
// loop to exit.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
