package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Rect is an axis-aligned rectangle in root window coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Monitor represents a physical display
type Monitor struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
}

// Monitors lists active RandR outputs.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	return monitors, nil
}

// MonitorAt returns the monitor containing (x, y), or the first monitor.
func MonitorAt(monitors []Monitor, x, y int) Monitor {
	for _, mon := range monitors {
		if mon.Bounds.Contains(x, y) {
			return mon
		}
	}
	return monitors[0]
}

// UsableArea returns mon's bounds minus the struts of dock windows that
// overlap it.
func (c *Connection) UsableArea(mon Monitor) Rect {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return mon.Bounds
	}
	rootW, rootH := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return mon.Bounds
	}

	var struts []Strut
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = append(struts, strutFromPartial(sp))
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			struts = append(struts, Strut{
				Left: int(s.Left), Right: int(s.Right), Top: int(s.Top), Bottom: int(s.Bottom),
				LeftEndY: rootH - 1, RightEndY: rootH - 1,
				TopEndX: rootW - 1, BottomEndX: rootW - 1,
			})
		}
	}

	return ApplyStruts(mon.Bounds, rootW, rootH, struts)
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// Strut is a reserved screen border with the span it covers.
type Strut struct {
	Left, Right, Top, Bottom int

	LeftStartY, LeftEndY     int
	RightStartY, RightEndY   int
	TopStartX, TopEndX       int
	BottomStartX, BottomEndX int
}

func strutFromPartial(sp *ewmh.WmStrutPartial) Strut {
	return Strut{
		Left: int(sp.Left), Right: int(sp.Right), Top: int(sp.Top), Bottom: int(sp.Bottom),
		LeftStartY: int(sp.LeftStartY), LeftEndY: int(sp.LeftEndY),
		RightStartY: int(sp.RightStartY), RightEndY: int(sp.RightEndY),
		TopStartX: int(sp.TopStartX), TopEndX: int(sp.TopEndX),
		BottomStartX: int(sp.BottomStartX), BottomEndX: int(sp.BottomEndX),
	}
}

// ApplyStruts shrinks bounds by the largest overlap of each strut side.
func ApplyStruts(bounds Rect, rootW, rootH int, struts []Strut) Rect {
	var left, right, top, bottom int

	for _, s := range struts {
		if s.Top > 0 {
			r := Rect{X: s.TopStartX, Y: 0, Width: s.TopEndX - s.TopStartX + 1, Height: s.Top}
			top = max(top, overlap(bounds, r).Height)
		}
		if s.Bottom > 0 {
			r := Rect{X: s.BottomStartX, Y: rootH - s.Bottom, Width: s.BottomEndX - s.BottomStartX + 1, Height: s.Bottom}
			bottom = max(bottom, overlap(bounds, r).Height)
		}
		if s.Left > 0 {
			r := Rect{X: 0, Y: s.LeftStartY, Width: s.Left, Height: s.LeftEndY - s.LeftStartY + 1}
			left = max(left, overlap(bounds, r).Width)
		}
		if s.Right > 0 {
			r := Rect{X: rootW - s.Right, Y: s.RightStartY, Width: s.Right, Height: s.RightEndY - s.RightStartY + 1}
			right = max(right, overlap(bounds, r).Width)
		}
	}

	out := Rect{
		X:      bounds.X + left,
		Y:      bounds.Y + top,
		Width:  max(1, bounds.Width-left-right),
		Height: max(1, bounds.Height-top-bottom),
	}
	return out
}

func overlap(a, b Rect) Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
