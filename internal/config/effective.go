package config

import (
	"fmt"

	"github.com/1broseidon/panelsnap/internal/drag"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw values over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFormat != nil {
		cfg.LogFormat = *raw.LogFormat
	}

	if p := raw.Panel; p != nil {
		if p.Title != nil {
			cfg.Panel.Title = *p.Title
		}
		if p.Class != nil {
			cfg.Panel.Class = *p.Class
			// An explicit class without a title matches by class alone.
			if p.Title == nil {
				cfg.Panel.Title = ""
			}
		}
		if p.InitialEdge != nil {
			cfg.Panel.InitialEdge = *p.InitialEdge
		}
	}

	if c := raw.Constraints; c != nil {
		cfg.Constraints = drag.Constraints{MinX: c.MinX, MinY: c.MinY}
	}

	if raw.DragButton != nil {
		cfg.DragButton = *raw.DragButton
	}
	if h := raw.SnapHotkeys; h != nil {
		if h.Left != nil {
			cfg.SnapHotkeys.Left = *h.Left
		}
		if h.Right != nil {
			cfg.SnapHotkeys.Right = *h.Right
		}
		if h.Top != nil {
			cfg.SnapHotkeys.Top = *h.Top
		}
		if h.Bottom != nil {
			cfg.SnapHotkeys.Bottom = *h.Bottom
		}
	}
	if raw.Preview != nil {
		cfg.Preview = *raw.Preview
	}
	if raw.TrackIntervalSeconds != nil {
		cfg.TrackIntervalSeconds = *raw.TrackIntervalSeconds
	}
	if raw.Stream != nil && raw.Stream.Listen != nil {
		cfg.Stream.Listen = *raw.Stream.Listen
	}

	return cfg
}
