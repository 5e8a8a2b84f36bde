package overlay

import (
	"sync"

	"github.com/1broseidon/panelsnap/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Border colors
const (
	ColorSnapTarget = 0x3498db // Blue - where the panel lands on release
	ColorDragging   = 0x27ae60 // Green - panel under the pointer
)

// BorderThickness in pixels
const BorderThickness = 3

// segment is one bar of a rectangular border.
type segment struct {
	X, Y, Width, Height int
}

// borderSegments splits r into top, bottom, left and right bars of the given
// thickness. Side bars sit between the top and bottom bars.
func borderSegments(r platform.Rect, t int) [4]segment {
	return [4]segment{
		{X: r.X, Y: r.Y, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + r.Height - t, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + t, Width: t, Height: r.Height - 2*t},
		{X: r.X + r.Width - t, Y: r.Y + t, Width: t, Height: r.Height - 2*t},
	}
}

// Preview draws a border around the panel's snap target while a drag is in
// progress. The border is made of four override-redirect windows so the
// window manager never decorates or focuses it.
type Preview struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	mu      sync.Mutex
	windows [4]xproto.Window
	created bool
	mapped  bool
	last    platform.Rect
}

// NewPreview creates an unmapped preview on root.
func NewPreview(xu *xgbutil.XUtil, root xproto.Window) *Preview {
	return &Preview{xu: xu, root: root}
}

// Show moves the border to r and maps it. Showing the same rectangle again
// is a no-op.
func (p *Preview) Show(r platform.Rect, color uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mapped && p.last == r {
		return nil
	}
	if !p.created {
		if err := p.createWindows(); err != nil {
			return err
		}
	}

	for i, seg := range borderSegments(r, BorderThickness) {
		p.updateWindow(p.windows[i], seg, color)
	}
	for _, wid := range p.windows {
		xproto.MapWindow(p.xu.Conn(), wid)
	}

	p.mapped = true
	p.last = r
	return nil
}

// Hide unmaps the border without destroying it.
func (p *Preview) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mapped {
		return
	}
	for _, wid := range p.windows {
		xproto.UnmapWindow(p.xu.Conn(), wid)
	}
	p.mapped = false
}

// Destroy releases the border windows.
func (p *Preview) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, wid := range p.windows {
		if wid != 0 {
			xproto.DestroyWindow(p.xu.Conn(), wid)
		}
		p.windows[i] = 0
	}
	p.created = false
	p.mapped = false
}

func (p *Preview) createWindows() error {
	for i := range p.windows {
		wid, err := p.createOverrideRedirectWindow()
		if err != nil {
			return err
		}
		p.windows[i] = wid
	}
	p.created = true
	return nil
}

func (p *Preview) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := p.xu.Conn()
	screen := p.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		p.root,
		0, 0, 1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		// Values follow mask bit order: back_pixel before override_redirect.
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

func (p *Preview) updateWindow(wid xproto.Window, seg segment, color uint32) {
	conn := p.xu.Conn()

	w := max(seg.Width, 1)
	h := max(seg.Height, 1)

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(seg.X), uint32(seg.Y), uint32(w), uint32(h), xproto.StackModeAbove},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}
