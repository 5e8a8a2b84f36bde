package config

// Raw* types mirror the YAML file with pointer fields so an unset key can be
// told apart from a zero value when layering files.

type RawPanelMatch struct {
	Title       *string `yaml:"title"`
	Class       *string `yaml:"class"`
	InitialEdge *string `yaml:"initial_edge"`
}

type RawConstraints struct {
	MinX *float64 `yaml:"min_x"`
	MinY *float64 `yaml:"min_y"`
}

type RawSnapHotkeys struct {
	Left   *string `yaml:"left"`
	Right  *string `yaml:"right"`
	Top    *string `yaml:"top"`
	Bottom *string `yaml:"bottom"`
}

type RawStreamConfig struct {
	Listen *string `yaml:"listen"`
}

type RawConfig struct {
	Display              *string          `yaml:"display"`
	XAuthority           *string          `yaml:"xauthority"`
	LogLevel             *string          `yaml:"log_level"`
	LogFormat            *string          `yaml:"log_format"`
	Panel                *RawPanelMatch   `yaml:"panel"`
	Constraints          *RawConstraints  `yaml:"constraints"`
	DragButton           *string          `yaml:"drag_button"`
	SnapHotkeys          *RawSnapHotkeys  `yaml:"snap_hotkeys"`
	Preview              *bool            `yaml:"preview"`
	TrackIntervalSeconds *int             `yaml:"track_interval_seconds"`
	Stream               *RawStreamConfig `yaml:"stream"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != nil {
		out.LogFormat = overlay.LogFormat
	}
	if overlay.Panel != nil {
		out.Panel = mergeRawPanel(out.Panel, overlay.Panel)
	}
	if overlay.Constraints != nil {
		out.Constraints = mergeRawConstraints(out.Constraints, overlay.Constraints)
	}
	if overlay.DragButton != nil {
		out.DragButton = overlay.DragButton
	}
	if overlay.SnapHotkeys != nil {
		out.SnapHotkeys = mergeRawSnapHotkeys(out.SnapHotkeys, overlay.SnapHotkeys)
	}
	if overlay.Preview != nil {
		out.Preview = overlay.Preview
	}
	if overlay.TrackIntervalSeconds != nil {
		out.TrackIntervalSeconds = overlay.TrackIntervalSeconds
	}
	if overlay.Stream != nil {
		stream := RawStreamConfig{}
		if out.Stream != nil {
			stream = *out.Stream
		}
		if overlay.Stream.Listen != nil {
			stream.Listen = overlay.Stream.Listen
		}
		out.Stream = &stream
	}

	return out
}

func mergeRawPanel(base, overlay *RawPanelMatch) *RawPanelMatch {
	out := RawPanelMatch{}
	if base != nil {
		out = *base
	}
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	if overlay.Class != nil {
		out.Class = overlay.Class
	}
	if overlay.InitialEdge != nil {
		out.InitialEdge = overlay.InitialEdge
	}
	return &out
}

func mergeRawConstraints(base, overlay *RawConstraints) *RawConstraints {
	out := RawConstraints{}
	if base != nil {
		out = *base
	}
	if overlay.MinX != nil {
		out.MinX = overlay.MinX
	}
	if overlay.MinY != nil {
		out.MinY = overlay.MinY
	}
	return &out
}

func mergeRawSnapHotkeys(base, overlay *RawSnapHotkeys) *RawSnapHotkeys {
	out := RawSnapHotkeys{}
	if base != nil {
		out = *base
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Bottom != nil {
		out.Bottom = overlay.Bottom
	}
	return &out
}
