package engine

// Rotator turns a heading to its neighbour on the compass
type Rotator interface {
	TurnRight(actual Direction) Direction
	TurnLeft(actual Direction) Direction
}

// CompassRose rotates over NORTH, EAST, SOUTH, WEST
type CompassRose struct{}

// TurnRight returns the next direction clockwise
func (CompassRose) TurnRight(actual Direction) Direction {
	switch actual {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	default:
		return North
	}
}

// TurnLeft returns the next direction counter-clockwise
func (CompassRose) TurnLeft(actual Direction) Direction {
	switch actual {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	default:
		return North
	}
}
