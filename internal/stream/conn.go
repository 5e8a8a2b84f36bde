package stream

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// panelConn is one browser panel. Its last reported geometry is the
// engine's geometry provider.
type panelConn struct {
	ws     *websocket.Conn
	logger zerolog.Logger
	hub    *drag.Hub
	engine *drag.Engine

	writeMu sync.Mutex

	mu          sync.Mutex
	snap        drag.Snapshot
	hasGeometry bool
	constraints drag.Constraints

	closeOnce sync.Once
}

var (
	_ drag.Geometry = (*panelConn)(nil)
	_ drag.Mounter  = (*panelConn)(nil)
)

// Snapshot returns the geometry from the most recent geometry message.
func (c *panelConn) Snapshot() drag.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Mounted reports whether the browser has sent its geometry yet.
func (c *panelConn) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasGeometry
}

func (c *panelConn) currentConstraints() drag.Constraints {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.constraints
}

func (c *panelConn) run() {
	defer c.engine.Close()

	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go c.keepalive(done)

	c.sendState(c.engine.State())

	for {
		var msg ClientMessage
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug().Err(err).Msg("panel read failed")
			}
			c.closeWith(websocket.CloseNormalClosure, "")
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))

		if err := c.handle(msg); err != nil {
			c.logger.Debug().Err(err).Str("type", msg.Type).Msg("panel message rejected")
			c.write(ErrorMessage{Type: TypeError, Error: err.Error()})
		}
	}
}

func (c *panelConn) handle(msg ClientMessage) error {
	switch msg.Type {
	case TypeGeometry:
		if err := msg.validateGeometry(); err != nil {
			return err
		}
		c.mu.Lock()
		c.snap = msg.Snapshot()
		c.hasGeometry = true
		c.mu.Unlock()

	case TypeDown:
		if s := c.engine.Begin(msg.Point()); s != nil {
			c.logger.Debug().Str("session", s.ID()).Msg("panel drag started")
		}

	case TypeMove:
		c.hub.Move(msg.Point())

	case TypeUp:
		c.hub.Up(msg.Point())

	case TypeConstraints:
		cons := msg.Constraints()
		if (cons.MinX != nil && *cons.MinX < 0) || (cons.MinY != nil && *cons.MinY < 0) {
			return fmt.Errorf("constraints must be >= 0")
		}
		c.mu.Lock()
		c.constraints = cons
		c.mu.Unlock()

	case TypeMount:
		if !c.Mounted() {
			return fmt.Errorf("mount before geometry")
		}
		_, err := c.engine.SnapTo(c.engine.State().Edge)
		if errors.Is(err, drag.ErrDragInProgress) {
			return nil
		}
		return err

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (c *panelConn) sendState(st drag.State) {
	c.write(newStateMessage(st))
}

func (c *panelConn) write(v any) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteJSON(v); err != nil {
		c.logger.Debug().Err(err).Msg("panel write failed")
	}
}

func (c *panelConn) keepalive(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// closeWith sends a close frame and closes the socket. The reader then
// fails and run returns, tearing the engine down.
func (c *panelConn) closeWith(code int, reason string) {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
		_ = c.ws.Close()
		c.writeMu.Unlock()
	})
}
