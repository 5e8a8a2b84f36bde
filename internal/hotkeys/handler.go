package hotkeys

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/panelsnap/internal/config"
	"github.com/1broseidon/panelsnap/internal/drag"
	"github.com/1broseidon/panelsnap/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/rs/zerolog"
)

// Snapper snaps the panel to an edge without a drag.
type Snapper interface {
	Snap(edge drag.Edge) (drag.Point, error)
}

// Handler manages the global snap shortcuts.
type Handler struct {
	conn    *x11.Connection
	snapper Snapper
	logger  zerolog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on conn's root window.
func NewHandler(conn *x11.Connection, snapper Snapper, logger zerolog.Logger) *Handler {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})

	return &Handler{
		conn:    conn,
		snapper: snapper,
		logger:  logger,
	}
}

// RegisterSnapHotkeys binds every configured snap hotkey. Empty entries are
// skipped. A key that fails to bind is reported but does not stop the rest.
func (h *Handler) RegisterSnapHotkeys(keys config.SnapHotkeys) error {
	var failed []string
	for _, edge := range drag.Edges {
		seq := keys.ForEdge(edge)
		if seq == "" {
			continue
		}
		if err := h.RegisterSnap(edge, seq); err != nil {
			h.logger.Warn().Err(err).Str("edge", edge.String()).Str("key", seq).Msg("failed to bind snap hotkey")
			failed = append(failed, seq)
			continue
		}
		h.logger.Debug().Str("edge", edge.String()).Str("key", seq).Msg("snap hotkey bound")
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to bind snap hotkeys: %v", failed)
	}
	return nil
}

// RegisterSnap binds keySequence to a snap towards edge.
func (h *Handler) RegisterSnap(edge drag.Edge, keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		if _, err := h.snapper.Snap(edge); err != nil {
			h.logger.Warn().Err(err).Str("edge", edge.String()).Msg("snap hotkey ignored")
		}
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.conn.XUtil, h.conn.Root, keySequence, true)
}

// UnregisterAll drops every key binding on the root window, e.g. before a
// config reload rebinds them.
func (h *Handler) UnregisterAll() {
	keybind.Detach(h.conn.XUtil, h.conn.Root)
}

// configureIgnoreMods makes bindings fire regardless of CapsLock, NumLock
// and ScrollLock state.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	locks := []uint16{uint16(xproto.ModMaskLock)}
	for _, keysym := range []string{"Num_Lock", "Scroll_Lock"} {
		if mask := modMaskForKeysym(xu, keysym); mask != 0 {
			locks = append(locks, mask)
		}
	}
	xevent.IgnoreMods = lockCombinations(locks)
}

// lockCombinations returns every OR-combination of the distinct masks in
// locks, including zero, in ascending order.
func lockCombinations(locks []uint16) []uint16 {
	var distinct []uint16
	seen := map[uint16]bool{0: true}
	for _, m := range locks {
		if !seen[m] {
			seen[m] = true
			distinct = append(distinct, m)
		}
	}

	set := map[uint16]struct{}{0: {}}
	for subset := 1; subset < 1<<len(distinct); subset++ {
		var mask uint16
		for bit, m := range distinct {
			if subset&(1<<bit) != 0 {
				mask |= m
			}
		}
		set[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(set))
	for mask := range set {
		out = append(out, mask)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
