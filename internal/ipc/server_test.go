package ipc

import (
	"net"
	"path/filepath"
	"sync"
	"testing"

	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu          sync.Mutex
	constraints drag.Constraints
	snapped     []drag.Edge
	snapErr     error
	reloads     int
}

func (f *fakeController) Status() StatusData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return StatusData{
		WindowID:     0x2a00003,
		WindowFound:  true,
		Position:     drag.Point{X: 0, Y: 115},
		Edge:         drag.EdgeLeft,
		Constraints:  f.constraints,
		HeaderHeight: f.constraints.HeaderHeight(),
	}
}

func (f *fakeController) Snap(edge drag.Edge) (drag.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapErr != nil {
		return drag.Point{}, f.snapErr
	}
	f.snapped = append(f.snapped, edge)
	return drag.Point{X: 500, Y: 60}, nil
}

func (f *fakeController) Constraints() drag.Constraints {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.constraints
}

func (f *fakeController) SetConstraints(c drag.Constraints) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constraints = c
}

func (f *fakeController) Monitors() ([]MonitorInfo, error) {
	return []MonitorInfo{{ID: 0, Name: "DP-1", Width: 1920, Height: 1080, HasPanel: true}}, nil
}

func (f *fakeController) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

func startServer(t *testing.T, ctrl Controller) *Client {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "ipc.sock")
	srv := NewServer(socket, ctrl, zerolog.Nop())
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return NewClientWithSocket(socket)
}

func TestServer_StatusAddsDaemonFields(t *testing.T) {
	ctrl := &fakeController{}
	client := startServer(t, ctrl)

	status, err := client.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.DaemonRunning)
	assert.True(t, status.WindowFound)
	assert.Equal(t, uint32(0x2a00003), status.WindowID)
	assert.Equal(t, drag.EdgeLeft, status.Edge)
	assert.Equal(t, float64(drag.DefaultHeaderHeight), status.HeaderHeight)
	assert.NoError(t, client.Ping())
}

func TestServer_Snap(t *testing.T) {
	ctrl := &fakeController{}
	client := startServer(t, ctrl)

	data, err := client.Snap(drag.EdgeRight)
	require.NoError(t, err)
	assert.Equal(t, drag.EdgeRight, data.Edge)
	assert.Equal(t, drag.Point{X: 500, Y: 60}, data.Position)
	ctrl.mu.Lock()
	assert.Equal(t, []drag.Edge{drag.EdgeRight}, ctrl.snapped)
	ctrl.mu.Unlock()

	ctrl.mu.Lock()
	ctrl.snapErr = drag.ErrDragInProgress
	ctrl.mu.Unlock()
	_, err = client.Snap(drag.EdgeLeft)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drag in progress")
}

func TestServer_SnapRejectsUnknownEdge(t *testing.T) {
	client := startServer(t, &fakeController{})

	err := client.call(CommandSnap, SnapPayload{Edge: "middle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown edge")
}

func TestServer_SetConstraints(t *testing.T) {
	ctrl := &fakeController{constraints: drag.Constraints{MinX: drag.Float(10)}}
	client := startServer(t, ctrl)

	data, err := client.SetConstraints(SetConstraintsPayload{MinY: drag.Float(48)})
	require.NoError(t, err)
	assert.Equal(t, drag.Float(10), data.Constraints.MinX, "unset fields are kept")
	assert.Equal(t, drag.Float(48), data.Constraints.MinY)
	assert.Equal(t, 48.0, data.HeaderHeight)

	data, err = client.SetConstraints(SetConstraintsPayload{Clear: true})
	require.NoError(t, err)
	assert.Nil(t, data.Constraints.MinX)
	assert.Nil(t, data.Constraints.MinY)
	assert.Equal(t, float64(drag.DefaultHeaderHeight), data.HeaderHeight)

	_, err = client.SetConstraints(SetConstraintsPayload{MinX: drag.Float(-3)})
	assert.Error(t, err)
	assert.Nil(t, ctrl.Constraints().MinX, "rejected update must not apply")
}

func TestServer_MonitorsAndReload(t *testing.T) {
	ctrl := &fakeController{}
	client := startServer(t, ctrl)

	monitors, err := client.GetMonitors()
	require.NoError(t, err)
	require.Len(t, monitors.Monitors, 1)
	assert.Equal(t, "DP-1", monitors.Monitors[0].Name)

	require.NoError(t, client.Reload())
	ctrl.mu.Lock()
	assert.Equal(t, 1, ctrl.reloads)
	ctrl.mu.Unlock()
}

func TestServer_UnknownCommandAndBadJSON(t *testing.T) {
	client := startServer(t, &fakeController{})

	err := client.call(CommandType("TILE"), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")

	conn, err := net.Dial("unix", client.socketPath)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("{not json\n"))
	require.NoError(t, err)

	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), `"status":"ERROR"`)
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	err := client.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}

func TestSetConstraintsPayload_Apply(t *testing.T) {
	current := drag.Constraints{MinX: drag.Float(5), MinY: drag.Float(20)}

	got := SetConstraintsPayload{Clear: true, MinY: drag.Float(0)}.Apply(current)
	assert.Nil(t, got.MinX)
	assert.Equal(t, drag.Float(0), got.MinY)

	got = SetConstraintsPayload{}.Apply(current)
	assert.Equal(t, current, got)
}
