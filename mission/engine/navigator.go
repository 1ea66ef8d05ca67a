package engine

import "fmt"

// Navigator turns a single command into a Result. It holds no state of its own.
type Navigator struct {
	rotator     Rotator
	translator  Translator
	localizator Localizator
}

// NewNavigator creates a navigator from its collaborators
func NewNavigator(rotator Rotator, translator Translator, localizator Localizator) *Navigator {
	return &Navigator{
		rotator:     rotator,
		translator:  translator,
		localizator: localizator,
	}
}

// Localizator returns the localizator the navigator checks moves against
func (n *Navigator) Localizator() Localizator {
	return n.localizator
}

// HandleRotation turns direction according to command. Rotations always succeed.
func (n *Navigator) HandleRotation(command Rotation, direction Direction) Result {
	switch command {
	case RotateRight:
		return RotationSuccess{Direction: n.rotator.TurnRight(direction)}
	case RotateLeft:
		return RotationSuccess{Direction: n.rotator.TurnLeft(direction)}
	}
	panic(fmt.Sprintf("engine: unknown rotation %d", int(command)))
}

// HandleTranslation moves from position according to command, wrapping at the
// plateau edges. Landing on an obstacle fails with the position before the move.
func (n *Navigator) HandleTranslation(command Translation, position Position) Result {
	var coordinate Coordinate
	switch command {
	case MoveForward:
		coordinate = n.translator.MoveForward(position.Coordinate, position.Direction)
	case MoveBackward:
		coordinate = n.translator.MoveBackward(position.Coordinate, position.Direction)
	default:
		panic(fmt.Sprintf("engine: unknown translation %d", int(command)))
	}

	wrapped := n.localizator.IsCoordinateOutOfBounds(coordinate)
	if wrapped {
		coordinate = n.localizator.Wrap(coordinate)
	}

	if n.localizator.IsCoordinateOccupied(coordinate) {
		return Failure{Reason: ObstacleFound{Coordinate: coordinate, Position: position}}
	}
	return TranslationSuccess{Coordinate: coordinate, Wrapped: wrapped}
}

// Handle dispatches command to HandleRotation or HandleTranslation
func (n *Navigator) Handle(command Command, position Position) Result {
	switch c := command.(type) {
	case Rotation:
		return n.HandleRotation(c, position.Direction)
	case Translation:
		return n.HandleTranslation(c, position)
	}
	panic(fmt.Sprintf("engine: unknown command %T", command))
}
