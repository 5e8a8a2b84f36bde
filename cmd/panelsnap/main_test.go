package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/panelsnap/internal/config"
	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/ipc"
)

type fakeController struct {
	mu          sync.Mutex
	constraints drag.Constraints
	snapped     []drag.Edge
	snapErr     error
}

func (f *fakeController) Status() ipc.StatusData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ipc.StatusData{
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
	return drag.Point{X: 1520, Y: 115}, nil
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

func (f *fakeController) Monitors() ([]ipc.MonitorInfo, error) {
	return []ipc.MonitorInfo{{ID: 0, Name: "DP-1", Width: 1920, Height: 1080, HasPanel: true}}, nil
}

func (f *fakeController) Reload() error { return nil }

func startDaemon(t *testing.T, ctrl ipc.Controller) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "panelsnap.sock")
	srv := ipc.NewServer(socket, ctrl, zerolog.Nop())
	if err := srv.Start(); err != nil {
		t.Fatalf("start ipc server: %v", err)
	}
	t.Cleanup(srv.Stop)
	t.Setenv("PANELSNAP_SOCKET", socket)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunSnap(t *testing.T) {
	ctrl := &fakeController{}
	startDaemon(t, ctrl)

	if rc := runSnap([]string{"right"}); rc != 0 {
		t.Fatalf("runSnap rc=%d, want 0", rc)
	}
	if len(ctrl.snapped) != 1 || ctrl.snapped[0] != drag.EdgeRight {
		t.Fatalf("snapped = %v, want [right]", ctrl.snapped)
	}
}

func TestRunSnap_DaemonError(t *testing.T) {
	startDaemon(t, &fakeController{snapErr: errors.New("drag in progress")})
	if rc := runSnap([]string{"top"}); rc != 1 {
		t.Fatalf("runSnap rc=%d, want 1", rc)
	}
}

func TestRunSnap_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no edge", nil},
		{"unknown edge", []string{"middle"}},
		{"too many", []string{"left", "right"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rc := runSnap(tt.args); rc != 2 {
				t.Fatalf("runSnap(%v) rc=%d, want 2", tt.args, rc)
			}
		})
	}
}

func TestRunConstraints(t *testing.T) {
	ctrl := &fakeController{constraints: drag.Constraints{MinX: drag.Float(10)}}
	startDaemon(t, ctrl)

	if rc := runConstraints([]string{"--min-y", "60"}); rc != 0 {
		t.Fatalf("runConstraints rc=%d, want 0", rc)
	}
	got := ctrl.Constraints()
	if got.MinX == nil || *got.MinX != 10 {
		t.Fatalf("min_x = %v, want 10 kept", got.MinX)
	}
	if got.MinY == nil || *got.MinY != 60 {
		t.Fatalf("min_y = %v, want 60", got.MinY)
	}

	if rc := runConstraints([]string{"--clear"}); rc != 0 {
		t.Fatalf("runConstraints --clear rc=%d, want 0", rc)
	}
	got = ctrl.Constraints()
	if got.MinX != nil || got.MinY != nil {
		t.Fatalf("constraints after clear = %s, want none", got)
	}

	// No flags only reads.
	if rc := runConstraints(nil); rc != 0 {
		t.Fatalf("runConstraints (read) rc=%d, want 0", rc)
	}
}

func TestRunConstraints_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative", []string{"--min-x", "-5"}},
		{"not a number", []string{"--min-y", "abc"}},
		{"positional", []string{"10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rc := runConstraints(tt.args); rc != 2 {
				t.Fatalf("runConstraints(%v) rc=%d, want 2", tt.args, rc)
			}
		})
	}
}

func TestRunStatus_NoDaemon(t *testing.T) {
	t.Setenv("PANELSNAP_SOCKET", filepath.Join(t.TempDir(), "missing.sock"))
	if rc := runStatus(nil); rc != 1 {
		t.Fatalf("runStatus rc=%d, want 1", rc)
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		WindowID:      0x2a00003,
		WindowFound:   true,
		Position:      drag.Point{X: 1520, Y: 60.5},
		Edge:          drag.EdgeRight,
		Constraints:   drag.Constraints{MinY: drag.Float(60)},
		HeaderHeight:  60,
		DaemonRunning: true,
	})
	out := buf.String()
	for _, want := range []string{"panel:          0x2a00003", "position:       1520,60.5", "edge:           right", "header_height:  60"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printStatus(&buf, &ipc.StatusData{DaemonRunning: true})
	if !strings.Contains(buf.String(), "not found") {
		t.Errorf("expected not found, got:\n%s", buf.String())
	}
}

func TestPrintMonitors(t *testing.T) {
	var buf bytes.Buffer
	printMonitors(&buf, []ipc.MonitorInfo{
		{ID: 0, Name: "DP-1", Width: 1920, Height: 1080, UsableY: 30, UsableWidth: 1920, UsableHeight: 1050, HasPanel: true},
		{ID: 1, Name: "HDMI-1", X: 1920, Width: 1280, Height: 1024, UsableX: 1920, UsableWidth: 1280, UsableHeight: 1024},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "1920x1050+0+30") || !strings.HasSuffix(lines[1], "*") {
		t.Errorf("DP-1 line = %q", lines[1])
	}
	if strings.HasSuffix(lines[2], "*") {
		t.Errorf("HDMI-1 should not hold the panel: %q", lines[2])
	}
}

func TestRunConfigValidate(t *testing.T) {
	good := writeConfig(t, "panel:\n  title: Fluxa\n  initial_edge: right\nconstraints:\n  min_y: 60\n")
	if rc := runConfig([]string{"validate", "--path", good}); rc != 0 {
		t.Fatalf("validate good rc=%d, want 0", rc)
	}

	bad := writeConfig(t, "panel:\n  title: Fluxa\n  initial_edge: middle\n")
	if rc := runConfig([]string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc=%d, want 1", rc)
	}
}

func TestRunConfigExplain(t *testing.T) {
	path := writeConfig(t, "constraints:\n  min_x: 12\n")
	if rc := runConfig([]string{"explain", "--path", path, "constraints.min_x"}); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"explain", "--path", path}); rc != 2 {
		t.Fatalf("explain without path rc=%d, want 2", rc)
	}
	if rc := runConfig([]string{"explain", "--path", path, "nope.nope"}); rc != 1 {
		t.Fatalf("explain unknown rc=%d, want 1", rc)
	}
}

func TestRunConfigInit_RefusesExisting(t *testing.T) {
	path := writeConfig(t, "panel:\n  title: Fluxa\n")
	if rc := runConfig([]string{"init", "--path", path}); rc != 1 {
		t.Fatalf("init over existing rc=%d, want 1", rc)
	}
}

func TestRunConfigUnknown(t *testing.T) {
	if rc := runConfig([]string{"frobnicate"}); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
	if rc := runConfig(nil); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/etc/p.yaml"}, "file:/etc/p.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/etc/p.yaml", Line: 3, Column: 5}, "file:/etc/p.yaml:3:5"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestBoundFlag(t *testing.T) {
	var b boundFlag
	if b.String() != "" || b.v != nil {
		t.Fatal("zero boundFlag should be unset")
	}
	if err := b.Set("12.5"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if b.v == nil || *b.v != 12.5 || b.String() != "12.5" {
		t.Fatalf("boundFlag = %v", b.String())
	}
	if err := b.Set("x"); err == nil {
		t.Fatal("expected error for non-number")
	}
}

func TestRunSim_RejectsBadFlags(t *testing.T) {
	if rc := runSim([]string{"--edge", "middle"}); rc != 2 {
		t.Fatalf("bad edge rc=%d, want 2", rc)
	}
	if rc := runSim([]string{"--width", "2"}); rc != 2 {
		t.Fatalf("tiny panel rc=%d, want 2", rc)
	}
}
