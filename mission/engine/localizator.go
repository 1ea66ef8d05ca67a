package engine

// Localizator answers bounds and occupancy questions for a fixed plateau
type Localizator interface {
	IsCoordinateOccupied(coordinate Coordinate) bool
	IsCoordinateOutOfBounds(coordinate Coordinate) bool
	Wrap(coordinate Coordinate) Coordinate
}

// InMemoryLocalizator holds the plateau and obstacle set in memory. It is never
// mutated after construction, so one instance can serve many rovers.
type InMemoryLocalizator struct {
	plateau   Plateau
	obstacles map[Coordinate]struct{}
}

// NewInMemoryLocalizator builds a localizator. Inverted plateaus and obstacles
// outside the plateau are accepted as given; configuration loading rejects them.
func NewInMemoryLocalizator(plateau Plateau, obstacles []Obstacle) *InMemoryLocalizator {
	set := make(map[Coordinate]struct{}, len(obstacles))
	for _, o := range obstacles {
		set[o.Coordinate] = struct{}{}
	}
	return &InMemoryLocalizator{plateau: plateau, obstacles: set}
}

// Plateau returns the plateau the localizator was built with
func (l *InMemoryLocalizator) Plateau() Plateau {
	return l.plateau
}

// IsCoordinateOccupied reports whether an obstacle sits on coordinate
func (l *InMemoryLocalizator) IsCoordinateOccupied(coordinate Coordinate) bool {
	_, occupied := l.obstacles[coordinate]
	return occupied
}

// IsCoordinateOutOfBounds reports whether coordinate falls outside the plateau
func (l *InMemoryLocalizator) IsCoordinateOutOfBounds(coordinate Coordinate) bool {
	return !l.plateau.Contains(coordinate)
}

// Wrap moves an out-of-bounds coordinate to the opposite edge. Only the first
// offending axis is corrected, checked in the order: top-right x, top-right y,
// bottom-left x, bottom-left y.
func (l *InMemoryLocalizator) Wrap(coordinate Coordinate) Coordinate {
	bl, tr := l.plateau.BottomLeft, l.plateau.TopRight
	switch {
	case tr.X < coordinate.X:
		coordinate.X = bl.X
	case tr.Y < coordinate.Y:
		coordinate.Y = bl.Y
	case bl.X > coordinate.X:
		coordinate.X = tr.X
	case bl.Y > coordinate.Y:
		coordinate.Y = tr.Y
	}
	return coordinate
}
