package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/panelsnap/internal/drag"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	display
//	xauthority
//	log_level
//	log_format
//	panel.title
//	panel.class
//	panel.initial_edge
//	constraints.min_x
//	constraints.min_y
//	drag_button
//	snap_hotkeys.<edge>
//	preview
//	track_interval_seconds
//	stream.listen
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(want int) error {
		if len(parts) != want {
			return fmt.Errorf("unsupported path %q", path)
		}
		return nil
	}

	switch parts[0] {
	case "display":
		return cfg.Display, leaf(1)
	case "xauthority":
		return cfg.XAuthority, leaf(1)
	case "log_level":
		return cfg.LogLevel, leaf(1)
	case "log_format":
		return cfg.LogFormat, leaf(1)
	case "drag_button":
		return cfg.DragButton, leaf(1)
	case "preview":
		return cfg.Preview, leaf(1)
	case "track_interval_seconds":
		return cfg.TrackIntervalSeconds, leaf(1)
	case "panel":
		if err := leaf(2); err != nil {
			return nil, err
		}
		switch parts[1] {
		case "title":
			return cfg.Panel.Title, nil
		case "class":
			return cfg.Panel.Class, nil
		case "initial_edge":
			return cfg.Panel.InitialEdge, nil
		}
	case "constraints":
		if err := leaf(2); err != nil {
			return nil, err
		}
		switch parts[1] {
		case "min_x":
			return boundValue(cfg.Constraints.MinX), nil
		case "min_y":
			return boundValue(cfg.Constraints.MinY), nil
		}
	case "snap_hotkeys":
		if err := leaf(2); err != nil {
			return nil, err
		}
		edge, err := drag.ParseEdge(parts[1])
		if err != nil {
			return nil, fmt.Errorf("unsupported path %q: %w", path, err)
		}
		return cfg.SnapHotkeys.ForEdge(edge), nil
	case "stream":
		if err := leaf(2); err != nil {
			return nil, err
		}
		if parts[1] == "listen" {
			return cfg.Stream.Listen, nil
		}
	}
	return nil, fmt.Errorf("unsupported path %q", path)
}

// boundValue reports an unset constraint as nil rather than a nil pointer.
func boundValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
