package drag

// Resolve maps an edge to the panel's resting position.
//
// Top and left resolve to the same point: a top snap only resets x and
// applies the header offset.
func Resolve(edge Edge, snap Snapshot, c Constraints) Point {
	var pos Point

	switch edge {
	case EdgeLeft:
		pos = Point{X: 0, Y: snap.HeaderHeight}
	case EdgeRight:
		pos = Point{X: snap.WindowWidth - snap.PanelWidth, Y: snap.HeaderHeight}
	case EdgeTop:
		pos = Point{X: 0, Y: snap.HeaderHeight}
	case EdgeBottom:
		pos = Point{X: 0, Y: snap.WindowHeight - snap.PanelHeight}
	}

	if c.MinY != nil && pos.Y < *c.MinY {
		pos.Y = *c.MinY
	}

	return pos
}
