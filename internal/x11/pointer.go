package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xcursor"
)

// DragHandler receives a pointer drag in root coordinates. Begin returning
// false cancels the drag before the pointer is grabbed.
type DragHandler interface {
	DragBegin(rootX, rootY int) bool
	DragStep(rootX, rootY int)
	DragEnd(rootX, rootY int)
}

// BindDrag installs a passive grab for buttonStr (e.g. "Mod4-1") on win
// and routes the resulting drag to h.
func (c *Connection) BindDrag(win xproto.Window, buttonStr string, h DragHandler) error {
	if _, _, err := mousebind.ParseString(c.XUtil, buttonStr); err != nil {
		return fmt.Errorf("invalid drag button %q: %w", buttonStr, err)
	}

	cursor, err := xcursor.CreateCursor(c.XUtil, xcursor.Fleur)
	if err != nil {
		cursor = 0
	}

	mousebind.Drag(c.XUtil, win, win, buttonStr, true,
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
			return h.DragBegin(rootX, rootY), cursor
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			h.DragStep(rootX, rootY)
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			h.DragEnd(rootX, rootY)
		},
	)
	return nil
}

// UnbindDrag removes every button binding on win.
func (c *Connection) UnbindDrag(win xproto.Window) {
	mousebind.Detach(c.XUtil, win)
}
