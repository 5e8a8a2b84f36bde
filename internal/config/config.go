package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/panelsnap/internal/drag"
	"gopkg.in/yaml.v3"
)

// PanelMatch identifies the panel window on the X server.
type PanelMatch struct {
	Title       string `yaml:"title,omitempty"` // substring of _NET_WM_NAME
	Class       string `yaml:"class,omitempty"` // WM_CLASS class, exact match
	InitialEdge string `yaml:"initial_edge"`
}

// SnapHotkeys are optional keyboard shortcuts that snap the panel without a drag.
type SnapHotkeys struct {
	Left   string `yaml:"left,omitempty"`
	Right  string `yaml:"right,omitempty"`
	Top    string `yaml:"top,omitempty"`
	Bottom string `yaml:"bottom,omitempty"`
}

// ForEdge returns the hotkey bound to edge, or "".
func (h SnapHotkeys) ForEdge(edge drag.Edge) string {
	switch edge {
	case drag.EdgeLeft:
		return h.Left
	case drag.EdgeRight:
		return h.Right
	case drag.EdgeTop:
		return h.Top
	case drag.EdgeBottom:
		return h.Bottom
	}
	return ""
}

// StreamConfig configures the WebSocket endpoint for browser panels.
type StreamConfig struct {
	Listen string `yaml:"listen,omitempty"` // empty disables the stream server
}

const (
	DefaultDragButton           = "Mod4-1"
	DefaultTrackIntervalSeconds = 5
	DefaultPanelTitle           = "Fluxa"
)

// Config is the effective panelsnap configuration.
type Config struct {
	Display              string           `yaml:"display,omitempty"`
	XAuthority           string           `yaml:"xauthority,omitempty"`
	LogLevel             string           `yaml:"log_level"`
	LogFormat            string           `yaml:"log_format"`
	Panel                PanelMatch       `yaml:"panel"`
	Constraints          drag.Constraints `yaml:"constraints"`
	DragButton           string           `yaml:"drag_button"`
	SnapHotkeys          SnapHotkeys      `yaml:"snap_hotkeys,omitempty"`
	Preview              bool             `yaml:"preview"`
	TrackIntervalSeconds int              `yaml:"track_interval_seconds"`
	Stream               StreamConfig     `yaml:"stream,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		Panel: PanelMatch{
			Title:       DefaultPanelTitle,
			InitialEdge: drag.EdgeLeft.String(),
		},
		DragButton:           DefaultDragButton,
		Preview:              true,
		TrackIntervalSeconds: DefaultTrackIntervalSeconds,
	}
}

// InitialEdge returns the parsed panel.initial_edge, defaulting to left.
func (c *Config) InitialEdge() drag.Edge {
	edge, err := drag.ParseEdge(c.Panel.InitialEdge)
	if err != nil {
		return drag.EdgeLeft
	}
	return edge
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments.
// Values that came from the local overlay are written into the main file.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: trace, debug, info, warn, error")}
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: console, json")}
	}

	if strings.TrimSpace(c.Panel.Title) == "" && strings.TrimSpace(c.Panel.Class) == "" {
		return &ValidationError{Path: "panel", Err: fmt.Errorf("panel.title or panel.class is required")}
	}
	if _, err := drag.ParseEdge(c.Panel.InitialEdge); err != nil {
		return &ValidationError{Path: "panel.initial_edge", Err: err}
	}

	if c.Constraints.MinX != nil && *c.Constraints.MinX < 0 {
		return &ValidationError{Path: "constraints.min_x", Err: fmt.Errorf("min_x must be >= 0")}
	}
	if c.Constraints.MinY != nil && *c.Constraints.MinY < 0 {
		return &ValidationError{Path: "constraints.min_y", Err: fmt.Errorf("min_y must be >= 0")}
	}

	if strings.TrimSpace(c.DragButton) == "" {
		return &ValidationError{Path: "drag_button", Err: fmt.Errorf("drag_button is required")}
	}
	if c.TrackIntervalSeconds <= 0 {
		return &ValidationError{Path: "track_interval_seconds", Err: fmt.Errorf("track_interval_seconds must be > 0")}
	}

	if c.Stream.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Stream.Listen); err != nil {
			return &ValidationError{Path: "stream.listen", Err: fmt.Errorf("invalid listen address: %w", err)}
		}
	}

	return nil
}

// Warnings reports settings that are valid but probably not what the user meant.
func (c *Config) Warnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string

	seen := make(map[string][]string)
	for _, edge := range drag.Edges {
		key := strings.TrimSpace(c.SnapHotkeys.ForEdge(edge))
		if key == "" {
			continue
		}
		seen[key] = append(seen[key], edge.String())
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if edges := seen[key]; len(edges) > 1 {
			warnings = append(warnings, fmt.Sprintf("snap hotkey %q is bound to %s; only the first takes effect", key, strings.Join(edges, ", ")))
		}
	}

	if c.Panel.Title != "" && c.Panel.Class != "" {
		warnings = append(warnings, "panel.title and panel.class are both set; a window must match both")
	}

	return warnings
}
