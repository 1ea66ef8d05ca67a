package engine

import (
	"errors"
	"fmt"
	"testing"
)

func obstacleMessage(obstacle Coordinate, from Position) string {
	return fmt.Sprintf("Obstacle found at <X:%d; Y:%d> when traveling from <X:%d; Y:%d> and direction: %s",
		obstacle.X, obstacle.Y, from.Coordinate.X, from.Coordinate.Y, from.Direction)
}

func TestRover_Navigation(t *testing.T) {
	tests := []struct {
		name     string
		start    Position
		commands []Command
		expected CommandResult
	}{
		{
			name:     "move forward",
			start:    Position{North, Coordinate{0, 2}},
			commands: []Command{MoveForward},
			expected: CommandSuccess{Position: Position{North, Coordinate{0, 3}}},
		},
		{
			name:     "move forward and wrap",
			start:    Position{North, Coordinate{2, 5}},
			commands: []Command{MoveForward},
			expected: CommandSuccess{Position: Position{North, Coordinate{2, 0}}},
		},
		{
			name:     "move backward",
			start:    Position{North, Coordinate{0, 2}},
			commands: []Command{MoveBackward},
			expected: CommandSuccess{Position: Position{North, Coordinate{0, 1}}},
		},
		{
			name:     "move backward and wrap",
			start:    Position{North, Coordinate{2, 0}},
			commands: []Command{MoveBackward},
			expected: CommandSuccess{Position: Position{North, Coordinate{2, 5}}},
		},
		{
			name:     "empty sequence",
			start:    Position{South, Coordinate{4, 1}},
			commands: nil,
			expected: CommandSuccess{Position: Position{South, Coordinate{4, 1}}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rover := NewRover(newTestNavigator(), test.start)
			if got := rover.Handle(test.commands); got != test.expected {
				t.Errorf("expected %#v, got %#v", test.expected, got)
			}
		})
	}
}

func TestRover_ObstacleAfterWrap(t *testing.T) {
	tests := []struct {
		name    string
		start   Position
		command Command
	}{
		{"forward", Position{North, Coordinate{0, 5}}, MoveForward},
		{"backward", Position{North, Coordinate{0, 1}}, MoveBackward},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rover := NewRover(newTestNavigator(), test.start)
			result := rover.Handle([]Command{test.command})

			failure, ok := result.(CommandFailure)
			if !ok {
				t.Fatalf("expected failure, got %#v", result)
			}
			if want := obstacleMessage(Coordinate{0, 0}, test.start); failure.Reason != want {
				t.Errorf("expected %q, got %q", want, failure.Reason)
			}
			if rover.Position() != test.start {
				t.Errorf("rover should stay at %v, got %v", test.start, rover.Position())
			}

			var obstacle ObstacleFound
			if !errors.As(failure.Cause, &obstacle) || obstacle.Coordinate != (Coordinate{0, 0}) {
				t.Errorf("expected ObstacleFound cause at (0,0), got %#v", failure.Cause)
			}
		})
	}
}

func TestRover_FullRotation(t *testing.T) {
	for _, command := range []Rotation{RotateRight, RotateLeft} {
		for _, d := range Directions() {
			t.Run(command.String()+"_"+d.String(), func(t *testing.T) {
				start := Position{d, Coordinate{0, 1}}
				rover := NewRover(newTestNavigator(), start)

				result := rover.Handle([]Command{command, command, command, command})
				if result != (CommandSuccess{Position: start}) {
					t.Errorf("expected unchanged position %v, got %#v", start, result)
				}
			})
		}
	}
}

func TestRover_RotateAndMoveUntilObstacle(t *testing.T) {
	tests := []struct {
		translation Translation
		rotation    Rotation
		start       Coordinate
		startDir    Direction
		blockedAt   Coordinate
		heading     Direction
	}{
		{MoveBackward, RotateLeft, Coordinate{0, 5}, East, Coordinate{0, 1}, North},
		{MoveBackward, RotateRight, Coordinate{0, 5}, West, Coordinate{0, 1}, North},
		{MoveForward, RotateLeft, Coordinate{0, 1}, East, Coordinate{0, 5}, North},
		{MoveForward, RotateRight, Coordinate{0, 1}, West, Coordinate{0, 5}, North},
		{MoveBackward, RotateLeft, Coordinate{1, 0}, North, Coordinate{5, 0}, West},
		{MoveBackward, RotateRight, Coordinate{5, 0}, North, Coordinate{1, 0}, East},
		{MoveForward, RotateLeft, Coordinate{5, 0}, North, Coordinate{1, 0}, West},
		{MoveForward, RotateRight, Coordinate{5, 0}, South, Coordinate{1, 0}, West},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("case_%d", i+1), func(t *testing.T) {
			rover := NewRover(newTestNavigator(), Position{test.startDir, test.start})
			commands := []Command{test.rotation,
				test.translation, test.translation, test.translation, test.translation, test.translation}

			result := rover.Handle(commands)
			want := obstacleMessage(Coordinate{0, 0}, Position{test.heading, test.blockedAt})

			failure, ok := result.(CommandFailure)
			if !ok {
				t.Fatalf("expected failure, got %#v", result)
			}
			if failure.Reason != want {
				t.Errorf("expected %q, got %q", want, failure.Reason)
			}
			if failure.Index != 5 {
				t.Errorf("expected failure at command index 5, got %d", failure.Index)
			}
		})
	}
}

func TestRover_FailFast(t *testing.T) {
	start := Position{North, Coordinate{0, 4}}
	rover := NewRover(newTestNavigator(), start)

	// the second forward hits (0,0) after wrapping; the rest must not run
	commands := []Command{MoveForward, MoveForward, RotateRight, MoveForward, MoveForward}

	var executed []Step
	result := rover.HandleFunc(commands, func(step Step) {
		executed = append(executed, step)
	})

	if _, ok := result.(CommandFailure); !ok {
		t.Fatalf("expected failure, got %#v", result)
	}
	if len(executed) != 2 {
		t.Fatalf("expected 2 executed commands, got %d", len(executed))
	}
	if executed[1].Succeeded() {
		t.Error("second step should have failed")
	}
	if executed[1].Before != executed[1].After {
		t.Error("failed step must not change position")
	}

	want := Position{North, Coordinate{0, 5}}
	if rover.Position() != want {
		t.Errorf("expected rover at %v, got %v", want, rover.Position())
	}
}

func TestRover_ContinuesFromLastPositionAfterFailure(t *testing.T) {
	rover := NewRover(newTestNavigator(), Position{North, Coordinate{0, 5}})

	if _, ok := rover.Handle([]Command{MoveForward}).(CommandFailure); !ok {
		t.Fatal("expected first batch to fail")
	}

	result := rover.Handle([]Command{RotateRight, MoveForward})
	want := CommandSuccess{Position: Position{East, Coordinate{1, 5}}}
	if result != want {
		t.Errorf("expected %#v, got %#v", want, result)
	}
}

func TestRover_HandleFuncReportsEverySuccessfulStep(t *testing.T) {
	rover := NewRover(newTestNavigator(), Position{North, Coordinate{2, 2}})

	var steps []Step
	rover.HandleFunc([]Command{RotateRight, MoveForward, MoveBackward}, func(step Step) {
		steps = append(steps, step)
	})

	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	for i, step := range steps {
		if step.Index != i {
			t.Errorf("step %d has index %d", i, step.Index)
		}
		if !step.Succeeded() {
			t.Errorf("step %d should succeed", i)
		}
	}
	if steps[1].After.Coordinate != (Coordinate{3, 2}) {
		t.Errorf("expected (3,2) after forward east, got %v", steps[1].After.Coordinate)
	}
}
