package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/1broseidon/panelsnap/internal/drag"
)

// SavedState is what the daemon remembers about the panel across restarts.
type SavedState struct {
	Edge     drag.Edge  `json:"edge"`
	Position drag.Point `json:"position"`
	WindowID uint32     `json:"window_id"`
	SavedAt  time.Time  `json:"saved_at"`
}

// ReadState loads the saved panel state from path.
func ReadState(path string) (*SavedState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read panel state: %w", err)
	}
	var st SavedState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse panel state %s: %w", path, err)
	}
	return &st, nil
}

// WriteState stores st at path, replacing any previous state atomically.
func WriteState(path string, st SavedState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode panel state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write panel state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace panel state: %w", err)
	}
	return nil
}
