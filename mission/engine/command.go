package engine

import "fmt"

// Command is an instruction for the rover. Rotation and Translation are the only
// implementations.
type Command interface {
	fmt.Stringer
	isCommand()
}

// Rotation turns the rover in place
type Rotation int

const (
	RotateRight Rotation = iota + 1
	RotateLeft
)

func (Rotation) isCommand() {}

func (r Rotation) String() string {
	switch r {
	case RotateRight:
		return "R"
	case RotateLeft:
		return "L"
	}
	return fmt.Sprintf("Rotation(%d)", int(r))
}

// Translation moves the rover one step along its heading
type Translation int

const (
	MoveForward Translation = iota + 1
	MoveBackward
)

func (Translation) isCommand() {}

func (t Translation) String() string {
	switch t {
	case MoveForward:
		return "F"
	case MoveBackward:
		return "B"
	}
	return fmt.Sprintf("Translation(%d)", int(t))
}

// CommandFromLetter maps R, L, F, B (and the M alias for F) to a command
func CommandFromLetter(letter rune) (Command, bool) {
	switch letter {
	case 'R', 'r':
		return RotateRight, true
	case 'L', 'l':
		return RotateLeft, true
	case 'F', 'f', 'M', 'm':
		return MoveForward, true
	case 'B', 'b':
		return MoveBackward, true
	}
	return nil, false
}
