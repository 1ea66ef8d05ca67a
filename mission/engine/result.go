package engine

import "fmt"

// Result is the outcome of a single command
type Result interface {
	isResult()
}

// RotationSuccess carries the heading after a rotation
type RotationSuccess struct {
	Direction Direction
}

// TranslationSuccess carries the coordinate after a translation, wrap applied.
// Wrapped is set when the move crossed a plateau edge.
type TranslationSuccess struct {
	Coordinate Coordinate
	Wrapped    bool
}

// Failure carries the reason a command could not be applied
type Failure struct {
	Reason FailureReason
}

func (RotationSuccess) isResult()    {}
func (TranslationSuccess) isResult() {}
func (Failure) isResult()            {}

// FailureReason explains a Failure. ObstacleFound is the only case.
type FailureReason interface {
	error
	isFailureReason()
}

// ObstacleFound reports the blocking coordinate and the position the rover
// was in when it attempted the move.
type ObstacleFound struct {
	Coordinate Coordinate `json:"coordinate"`
	Position   Position   `json:"position"`
}

func (ObstacleFound) isFailureReason() {}

func (o ObstacleFound) Error() string {
	return fmt.Sprintf("Obstacle found at %s when traveling from %s and direction: %s",
		o.Coordinate, o.Position.Coordinate, o.Position.Direction)
}

// CommandResult is the outcome of a whole command sequence
type CommandResult interface {
	isCommandResult()
}

// CommandSuccess holds the final position after every command applied
type CommandSuccess struct {
	Position Position
}

// CommandFailure holds the rendered reason of the first failing command.
// Cause and Index are kept for diagnostics.
type CommandFailure struct {
	Reason string
	Cause  FailureReason
	Index  int
}

func (CommandSuccess) isCommandResult() {}
func (CommandFailure) isCommandResult() {}
