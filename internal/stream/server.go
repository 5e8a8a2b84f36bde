package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Path is the WebSocket endpoint.
const Path = "/panel"

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 20 * time.Second
)

// Options configures a Server.
type Options struct {
	// Constraints supplies the starting constraints for each new
	// connection. Nil means no bounds.
	Constraints func() drag.Constraints
	InitialEdge drag.Edge
	Logger      zerolog.Logger
}

// Server serves browser-rendered panels. Every connection gets its own
// engine and input hub, fed by the messages the browser sends.
type Server struct {
	opts     Options
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*panelConn]struct{}
	wg    sync.WaitGroup
}

// NewServer creates a stream server.
func NewServer(opts Options) *Server {
	return &Server{
		opts:   opts,
		logger: logging.Component(opts.Logger, "stream"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			// The panel page may be served from anywhere, including file://.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*panelConn]struct{}),
	}
}

// Handler returns the HTTP handler exposing Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.handlePanel)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then closes every
// open connection.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.Close()
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Str("path", Path).Msg("panel stream listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Connections returns the number of open panel connections.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close force-closes every open connection and waits for their readers.
func (s *Server) Close() {
	s.mu.Lock()
	conns := make([]*panelConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.closeWith(websocket.CloseGoingAway, "server shutdown")
	}
	s.wg.Wait()
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := s.newConn(ws)

	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	s.wg.Add(1)

	c.logger.Info().Str("remote", r.RemoteAddr).Msg("panel connected")
	c.run()

	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.wg.Done()
	c.logger.Info().Msg("panel disconnected")
}

func (s *Server) newConn(ws *websocket.Conn) *panelConn {
	var cons drag.Constraints
	if s.opts.Constraints != nil {
		cons = s.opts.Constraints()
	}

	c := &panelConn{
		ws:          ws,
		logger:      s.logger.With().Str("conn", uuid.NewString()).Logger(),
		hub:         drag.NewHub(),
		constraints: cons,
	}
	c.engine = drag.NewEngine(c, c.hub,
		drag.WithInitialEdge(s.opts.InitialEdge),
		drag.WithConstraintSource(c.currentConstraints),
		drag.WithSink(c.sendState),
		drag.WithLogger(c.logger),
	)
	return c
}
