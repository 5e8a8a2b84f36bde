package tui

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/panelsnap/internal/config"
	"github.com/1broseidon/panelsnap/internal/drag"
)

// initValues are the form-bound strings, converted on submit.
type initValues struct {
	title       string
	class       string
	initialEdge string
	minX        string
	minY        string
	dragButton  string
	preview     bool
	listen      string
}

func newInitValues(cfg *config.Config) *initValues {
	return &initValues{
		title:       cfg.Panel.Title,
		class:       cfg.Panel.Class,
		initialEdge: cfg.InitialEdge().String(),
		minX:        formatBound(cfg.Constraints.MinX),
		minY:        formatBound(cfg.Constraints.MinY),
		dragButton:  cfg.DragButton,
		preview:     cfg.Preview,
		listen:      cfg.Stream.Listen,
	}
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number")
	}
	if v < 0 {
		return nil, fmt.Errorf("must be >= 0")
	}
	return drag.Float(v), nil
}

func validateBound(s string) error {
	_, err := parseBound(s)
	return err
}

func validateListen(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(s); err != nil {
		return fmt.Errorf("want host:port")
	}
	return nil
}

// apply writes the form values into cfg and validates the result.
func (v *initValues) apply(cfg *config.Config) error {
	minX, err := parseBound(v.minX)
	if err != nil {
		return fmt.Errorf("min_x: %w", err)
	}
	minY, err := parseBound(v.minY)
	if err != nil {
		return fmt.Errorf("min_y: %w", err)
	}

	cfg.Panel.Title = strings.TrimSpace(v.title)
	cfg.Panel.Class = strings.TrimSpace(v.class)
	cfg.Panel.InitialEdge = v.initialEdge
	cfg.Constraints = drag.Constraints{MinX: minX, MinY: minY}
	if s := strings.TrimSpace(v.dragButton); s != "" {
		cfg.DragButton = s
	}
	cfg.Preview = v.preview
	cfg.Stream.Listen = strings.TrimSpace(v.listen)

	return cfg.Validate()
}

func (v *initValues) form() *huh.Form {
	edgeOpts := make([]huh.Option[string], 0, len(drag.Edges))
	for _, e := range drag.Edges {
		edgeOpts = append(edgeOpts, huh.NewOption(e.String(), e.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Panel Title").
				Description("Substring of the panel window title").
				Value(&v.title),

			huh.NewInput().
				Key("class").
				Title("Panel Class").
				Description("WM_CLASS of the panel window (optional)").
				Value(&v.class),

			huh.NewSelect[string]().
				Key("initial_edge").
				Title("Initial Edge").
				Description("Edge the panel starts on").
				Options(edgeOpts...).
				Value(&v.initialEdge),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("min_x").
				Title("Min X").
				Description("Left bound in pixels (empty: 0)").
				Validate(validateBound).
				Value(&v.minX),

			huh.NewInput().
				Key("min_y").
				Title("Min Y").
				Description(fmt.Sprintf("Header height in pixels (empty: %d)", int(drag.DefaultHeaderHeight))).
				Validate(validateBound).
				Value(&v.minY),

			huh.NewInput().
				Key("drag_button").
				Title("Drag Button").
				Description("Modifier and button that start a drag, e.g. Mod4-1").
				Value(&v.dragButton),

			huh.NewConfirm().
				Key("preview").
				Title("Show snap preview while dragging?").
				Value(&v.preview),

			huh.NewInput().
				Key("listen").
				Title("Stream Listen Address").
				Description("host:port for browser panels (empty disables)").
				Validate(validateListen).
				Value(&v.listen),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// RunInitForm asks for the panel settings interactively, starting from cfg,
// and updates cfg on submit.
func RunInitForm(cfg *config.Config) error {
	v := newInitValues(cfg)
	if err := v.form().Run(); err != nil {
		return err
	}
	return v.apply(cfg)
}
