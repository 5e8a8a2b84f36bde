package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startStream(t *testing.T, opts Options) (*Server, string) {
	t.Helper()
	opts.Logger = zerolog.Nop()
	s := NewServer(opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, "ws" + strings.TrimPrefix(ts.URL, "http") + Path
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(msg))
}

func readState(t *testing.T, ws *websocket.Conn) StateMessage {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var st StateMessage
	require.NoError(t, ws.ReadJSON(&st))
	require.Equal(t, TypeState, st.Type)
	return st
}

func geometry(w, h, pw, ph float64) ClientMessage {
	return ClientMessage{Type: TypeGeometry, WindowWidth: w, WindowHeight: h, PanelWidth: pw, PanelHeight: ph}
}

func TestStream_DragAndSnap(t *testing.T) {
	_, url := startStream(t, Options{
		Constraints: func() drag.Constraints { return drag.Constraints{MinY: drag.Float(60)} },
	})
	ws := dial(t, url)

	initial := readState(t, ws)
	assert.Equal(t, drag.EdgeLeft, initial.Edge)
	assert.False(t, initial.Dragging)

	// Input before geometry is ignored: the next frame is the mount snap.
	send(t, ws, ClientMessage{Type: TypeDown, X: 10, Y: 10})
	send(t, ws, ClientMessage{Type: TypeMove, X: 400, Y: 400})
	send(t, ws, geometry(800, 600, 300, 200))
	send(t, ws, ClientMessage{Type: TypeMount})

	mounted := readState(t, ws)
	assert.False(t, mounted.Dragging)
	assert.Equal(t, 0.0, mounted.X)
	assert.Equal(t, 60.0, mounted.Y)

	send(t, ws, ClientMessage{Type: TypeDown, X: 10, Y: 70})
	began := readState(t, ws)
	assert.True(t, began.Dragging)

	send(t, ws, ClientMessage{Type: TypeMove, X: 790, Y: 300})
	moved := readState(t, ws)
	assert.Equal(t, 500.0, moved.X)
	assert.Equal(t, 290.0, moved.Y)
	assert.Equal(t, drag.EdgeRight, moved.Edge)

	send(t, ws, ClientMessage{Type: TypeUp, X: 0, Y: 0})
	snapped := readState(t, ws)
	assert.False(t, snapped.Dragging)
	assert.Equal(t, drag.EdgeRight, snapped.Edge)
	assert.Equal(t, 500.0, snapped.X)
	assert.Equal(t, 60.0, snapped.Y)
}

func TestStream_ConstraintsMessage(t *testing.T) {
	_, url := startStream(t, Options{})
	ws := dial(t, url)
	readState(t, ws)

	send(t, ws, geometry(800, 600, 300, 200))
	send(t, ws, ClientMessage{Type: TypeConstraints, MinX: drag.Float(20), MinY: drag.Float(0)})

	send(t, ws, ClientMessage{Type: TypeDown, X: 0, Y: 0})
	readState(t, ws)
	send(t, ws, ClientMessage{Type: TypeMove, X: -100, Y: -100})
	moved := readState(t, ws)
	assert.Equal(t, 20.0, moved.X)
	assert.Equal(t, 0.0, moved.Y)
}

func TestStream_RejectsBadMessages(t *testing.T) {
	_, url := startStream(t, Options{})
	ws := dial(t, url)
	readState(t, ws)

	send(t, ws, ClientMessage{Type: "teleport"})

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ErrorMessage
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, msg.Error, "teleport")

	send(t, ws, ClientMessage{Type: TypeMount})
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Contains(t, msg.Error, "geometry")
}

func TestStream_ConnectionsAreIndependent(t *testing.T) {
	_, url := startStream(t, Options{InitialEdge: drag.EdgeBottom})
	a := dial(t, url)
	b := dial(t, url)
	readState(t, a)
	readState(t, b)

	send(t, a, geometry(800, 600, 300, 200))
	send(t, b, geometry(1000, 1000, 100, 100))
	send(t, a, ClientMessage{Type: TypeMount})
	send(t, b, ClientMessage{Type: TypeMount})

	sa := readState(t, a)
	sb := readState(t, b)
	assert.Equal(t, 400.0, sa.Y)
	assert.Equal(t, 900.0, sb.Y)
	assert.Equal(t, drag.EdgeBottom, sa.Edge)
}

func TestStream_CloseMidDragReleasesConnection(t *testing.T) {
	s, url := startStream(t, Options{})
	ws := dial(t, url)
	readState(t, ws)

	send(t, ws, geometry(800, 600, 300, 200))
	send(t, ws, ClientMessage{Type: TypeDown, X: 10, Y: 200})
	began := readState(t, ws)
	require.True(t, began.Dragging)
	assert.Equal(t, 1, s.Connections())

	require.NoError(t, ws.Close())
	assert.Eventually(t, func() bool { return s.Connections() == 0 }, 5*time.Second, 10*time.Millisecond)
}
