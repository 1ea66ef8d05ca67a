package engine

// Translator moves a coordinate one step along a heading. It knows nothing
// about plateau bounds or obstacles.
type Translator interface {
	MoveForward(actual Coordinate, direction Direction) Coordinate
	MoveBackward(actual Coordinate, direction Direction) Coordinate
}

// SingleStep translates by exactly one cell
type SingleStep struct{}

const speed = 1

// MoveForward steps towards the heading
func (SingleStep) MoveForward(actual Coordinate, direction Direction) Coordinate {
	switch direction {
	case North:
		actual.Y += speed
	case East:
		actual.X += speed
	case South:
		actual.Y -= speed
	case West:
		actual.X -= speed
	}
	return actual
}

// MoveBackward steps away from the heading
func (SingleStep) MoveBackward(actual Coordinate, direction Direction) Coordinate {
	switch direction {
	case North:
		actual.Y -= speed
	case East:
		actual.X -= speed
	case South:
		actual.Y += speed
	case West:
		actual.X += speed
	}
	return actual
}
