package engine

// Step describes one executed command. After equals Before when the command failed.
type Step struct {
	Index   int      `json:"index"`
	Command Command  `json:"-"`
	Before  Position `json:"before"`
	After   Position `json:"after"`
	Result  Result   `json:"-"`
}

// Succeeded reports whether the step's command was applied
func (s Step) Succeeded() bool {
	_, failed := s.Result.(Failure)
	return !failed
}

// StepFunc observes commands as the rover executes them
type StepFunc func(step Step)

// Rover owns its current position and executes command sequences through a
// Navigator. A Rover is not safe for concurrent use.
type Rover struct {
	navigator *Navigator
	position  Position
}

// NewRover places a rover at position
func NewRover(navigator *Navigator, position Position) *Rover {
	return &Rover{navigator: navigator, position: position}
}

// Position returns the last successfully reached position
func (r *Rover) Position() Position {
	return r.position
}

// Handle executes commands in order and stops at the first failure
func (r *Rover) Handle(commands []Command) CommandResult {
	return r.HandleFunc(commands, nil)
}

// HandleFunc is Handle with fn called after every executed command, the failing
// one included. Commands after a failure are not executed and not reported.
func (r *Rover) HandleFunc(commands []Command, fn StepFunc) CommandResult {
	for i, command := range commands {
		before := r.position
		result := r.execute(command)

		if fn != nil {
			fn(Step{Index: i, Command: command, Before: before, After: r.position, Result: result})
		}

		if failure, ok := result.(Failure); ok {
			return CommandFailure{
				Reason: failure.Reason.Error(),
				Cause:  failure.Reason,
				Index:  i,
			}
		}
	}
	return CommandSuccess{Position: r.position}
}

func (r *Rover) execute(command Command) Result {
	result := r.navigator.Handle(command, r.position)

	switch res := result.(type) {
	case RotationSuccess:
		r.position = r.position.WithDirection(res.Direction)
	case TranslationSuccess:
		r.position = r.position.WithCoordinate(res.Coordinate)
	}
	return result
}
