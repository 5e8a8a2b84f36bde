package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/panelsnap/internal/drag"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Constraints.MinY != nil {
		t.Fatalf("expected min_y unset by default so the header fallback applies")
	}
	if cfg.InitialEdge() != drag.EdgeLeft {
		t.Fatalf("expected initial edge left, got %v", cfg.InitialEdge())
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DragButton != DefaultDragButton {
		t.Fatalf("expected drag_button %q, got %q", DefaultDragButton, res.Config.DragButton)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Panel.Title != DefaultPanelTitle {
		t.Fatalf("expected panel title %q, got %q", DefaultPanelTitle, res.Config.Panel.Title)
	}
}

func TestLoadFromPath_ConstraintsAndExplain(t *testing.T) {
	data := strings.Join([]string{
		"constraints:",
		"  min_x: 12",
		"  min_y: 0",
		"panel:",
		"  class: Fluxa-console",
		"  initial_edge: bottom",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := res.Config.Constraints
	if c.MinX == nil || *c.MinX != 12 {
		t.Fatalf("expected min_x 12, got %v", c.MinX)
	}
	if c.MinY == nil || *c.MinY != 0 {
		t.Fatalf("expected explicit min_y 0 to be kept, got %v", c.MinY)
	}
	if c.HeaderHeight() != 0 {
		t.Fatalf("expected header height 0, got %v", c.HeaderHeight())
	}
	if res.Config.Panel.Title != "" {
		t.Fatalf("expected class-only match to clear the default title, got %q", res.Config.Panel.Title)
	}
	if res.Config.InitialEdge() != drag.EdgeBottom {
		t.Fatalf("expected initial edge bottom, got %v", res.Config.InitialEdge())
	}

	val, src, err := Explain(res, "constraints.min_x")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 12.0 {
		t.Fatalf("expected explain min_x 12, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("expected file source at line 2, got %#v", src)
	}

	val, src, err = Explain(res, "drag_button")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != DefaultDragButton || src.Kind != SourceDefault {
		t.Fatalf("expected default drag_button, got %#v from %#v", val, src)
	}

	if _, _, err := Explain(res, "panel.colour"); err == nil {
		t.Fatalf("expected error for unsupported path")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "panel:\n  titel: Fluxa\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "titel") {
		t.Fatalf("expected error to mention unknown key, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	data := strings.Join([]string{
		"log_level: info",
		"constraints:",
		"  min_y: -4",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "constraints.min_y" {
		t.Fatalf("expected path constraints.min_y, got %q", verr.Path)
	}
	if verr.Source.Line != 3 {
		t.Fatalf("expected source line 3, got %#v", verr.Source)
	}
}

func TestLoadFromPath_LocalOverlayWins(t *testing.T) {
	dir := t.TempDir()
	main := writeConfig(t, dir, "config.yaml", "drag_button: Mod1-1\nconstraints:\n  min_x: 8\n  min_y: 40\n")
	writeConfig(t, dir, "config.local.yaml", "display: \":1\"\nconstraints:\n  min_y: 64\n")

	res, err := LoadFromPath(main)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Display != ":1" {
		t.Fatalf("expected display from overlay, got %q", res.Config.Display)
	}
	if res.Config.DragButton != "Mod1-1" {
		t.Fatalf("expected drag_button from main file, got %q", res.Config.DragButton)
	}
	c := res.Config.Constraints
	if c.MinX == nil || *c.MinX != 8 {
		t.Fatalf("expected min_x 8 kept from main file, got %v", c.MinX)
	}
	if c.MinY == nil || *c.MinY != 64 {
		t.Fatalf("expected overlay min_y 64, got %v", c.MinY)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 files loaded, got %v", res.Files)
	}

	_, src, err := Explain(res, "constraints.min_y")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if filepath.Base(src.File) != "config.local.yaml" || src.Line != 3 {
		t.Fatalf("expected overlay source line 3, got %#v", src)
	}
}

func TestLoadFromPath_OverlayWithoutMain(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.local.yaml", "preview: false\n")

	res, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Preview {
		t.Fatalf("expected preview disabled by overlay")
	}
	if len(res.Files) != 1 {
		t.Fatalf("expected only the overlay loaded, got %v", res.Files)
	}
}

func TestLocalOverlayPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/etc/panelsnap/config.yaml", "/etc/panelsnap/config.local.yaml"},
		{"panel.yml", "panel.local.yml"},
		{"noext", "noext.local"},
	}
	for _, tt := range tests {
		if got := LocalOverlayPath(tt.in); got != tt.want {
			t.Errorf("LocalOverlayPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"no panel match", func(c *Config) { c.Panel.Title = ""; c.Panel.Class = "" }, "panel"},
		{"bad initial edge", func(c *Config) { c.Panel.InitialEdge = "middle" }, "panel.initial_edge"},
		{"negative min_x", func(c *Config) { c.Constraints.MinX = drag.Float(-1) }, "constraints.min_x"},
		{"empty drag button", func(c *Config) { c.DragButton = " " }, "drag_button"},
		{"zero interval", func(c *Config) { c.TrackIntervalSeconds = 0 }, "track_interval_seconds"},
		{"bad listen", func(c *Config) { c.Stream.Listen = "8765" }, "stream.listen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestWarnings_DuplicateSnapHotkey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SnapHotkeys = SnapHotkeys{Left: "Mod4-Left", Top: "Mod4-Left", Bottom: "Mod4-Down"}

	warnings := cfg.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "left, top") {
		t.Fatalf("expected warning to list both edges, got %q", warnings[0])
	}
}

func TestSaveTo_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Constraints = drag.Constraints{MinY: drag.Float(48)}
	cfg.Stream.Listen = "127.0.0.1:8765"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Constraints.MinY == nil || *res.Config.Constraints.MinY != 48 {
		t.Fatalf("expected min_y 48 after round trip, got %v", res.Config.Constraints.MinY)
	}
	if res.Config.Constraints.MinX != nil {
		t.Fatalf("expected min_x to stay unset, got %v", *res.Config.Constraints.MinX)
	}
	if res.Config.Stream.Listen != "127.0.0.1:8765" {
		t.Fatalf("expected stream.listen to round trip, got %q", res.Config.Stream.Listen)
	}
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	t.Setenv("PANELSNAP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "/tmp/xdg/panelsnap/config.yaml" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestDefaultConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("PANELSNAP_CONFIG", "/srv/panel.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "/srv/panel.yaml" {
		t.Fatalf("unexpected path %q", path)
	}
}
