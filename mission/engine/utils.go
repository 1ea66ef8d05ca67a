package engine

import "strings"

// wrapFully applies Wrap until c is back on the plateau. Wrap corrects one
// axis per call, so two calls cover a diagonal overflow.
func wrapFully(l Localizator, c Coordinate) Coordinate {
	for i := 0; i < 2 && l.IsCoordinateOutOfBounds(c); i++ {
		c = l.Wrap(c)
	}
	return c
}

// SurroundingCells lists the 8 neighbours of c, North first and clockwise
func SurroundingCells(l Localizator, c Coordinate) []SurroundingCell {
	offsets := []struct{ dx, dy int }{
		{0, 1},   // North
		{1, 1},   // North-East
		{1, 0},   // East
		{1, -1},  // South-East
		{0, -1},  // South
		{-1, -1}, // South-West
		{-1, 0},  // West
		{-1, 1},  // North-West
	}

	cells := make([]SurroundingCell, len(offsets))
	for i, o := range offsets {
		n := wrapFully(l, Coordinate{X: c.X + o.dx, Y: c.Y + o.dy})
		cells[i] = SurroundingCell{X: n.X, Y: n.Y, Occupied: l.IsCoordinateOccupied(n)}
	}
	return cells
}

// IsBoxedIn reports whether every orthogonal neighbour of c is occupied, so no
// translation can ever leave c
func IsBoxedIn(l Localizator, c Coordinate) bool {
	nav := NewNavigator(CompassRose{}, SingleStep{}, l)
	for _, d := range []Direction{North, East} {
		from := Position{Direction: d, Coordinate: c}
		for _, t := range []Translation{MoveForward, MoveBackward} {
			if _, ok := nav.HandleTranslation(t, from).(TranslationSuccess); ok {
				return false
			}
		}
	}
	return true
}

// CountFreeCells counts plateau cells without an obstacle
func CountFreeCells(p Plateau, l Localizator) int {
	free := 0
	for y := p.BottomLeft.Y; y <= p.TopRight.Y; y++ {
		for x := p.BottomLeft.X; x <= p.TopRight.X; x++ {
			if !l.IsCoordinateOccupied(Coordinate{X: x, Y: y}) {
				free++
			}
		}
	}
	return free
}

// RoverGlyph returns the character drawn for a rover heading d
func RoverGlyph(d Direction) byte {
	switch d {
	case North:
		return '^'
	case East:
		return '>'
	case South:
		return 'v'
	case West:
		return '<'
	}
	return 'R'
}

// RenderGrid draws p with '#' for obstacles, '.' for free cells and the rover
// as ^ > v <. The first row is the top edge.
func RenderGrid(p Plateau, l Localizator, rover Position) []string {
	if p.Width() <= 0 || p.Height() <= 0 {
		return nil
	}

	rows := make([]string, 0, p.Height())
	var b strings.Builder
	for y := p.TopRight.Y; y >= p.BottomLeft.Y; y-- {
		b.Reset()
		for x := p.BottomLeft.X; x <= p.TopRight.X; x++ {
			c := Coordinate{X: x, Y: y}
			switch {
			case c == rover.Coordinate:
				b.WriteByte(RoverGlyph(rover.Direction))
			case l.IsCoordinateOccupied(c):
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}
