package hotkeys

import (
	"reflect"
	"testing"
)

func TestLockCombinations(t *testing.T) {
	tests := []struct {
		name  string
		locks []uint16
		want  []uint16
	}{
		{"caps only", []uint16{2}, []uint16{0, 2}},
		{"caps and numlock", []uint16{2, 16}, []uint16{0, 2, 16, 18}},
		{"duplicate masks collapse", []uint16{2, 2, 16}, []uint16{0, 2, 16, 18}},
		{"zero mask ignored", []uint16{0, 2}, []uint16{0, 2}},
		{"three locks", []uint16{2, 16, 128}, []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lockCombinations(tt.locks)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("lockCombinations(%v) = %v, want %v", tt.locks, got, tt.want)
			}
		})
	}
}
