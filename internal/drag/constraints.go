package drag

import (
	"fmt"
	"strconv"
)

// DefaultHeaderHeight is the reserved header height used when MinY is unset.
const DefaultHeaderHeight = 115

// Constraints lower-bounds the panel position during drags and snaps.
// A nil field means the option was not supplied.
type Constraints struct {
	MinX *float64 `json:"min_x,omitempty" yaml:"min_x,omitempty"`
	MinY *float64 `json:"min_y,omitempty" yaml:"min_y,omitempty"`
}

// Float returns a pointer to v, for building Constraints literals.
func Float(v float64) *float64 {
	return &v
}

// HeaderHeight is the top of the usable area: MinY when set, otherwise
// DefaultHeaderHeight.
func (c Constraints) HeaderHeight() float64 {
	if c.MinY != nil {
		return *c.MinY
	}
	return DefaultHeaderHeight
}

func (c Constraints) minX() float64 {
	if c.MinX != nil {
		return *c.MinX
	}
	return 0
}

func (c Constraints) String() string {
	return fmt.Sprintf("min_x=%s min_y=%s", formatBound(c.MinX), formatBound(c.MinY))
}

func formatBound(v *float64) string {
	if v == nil {
		return "unset"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
