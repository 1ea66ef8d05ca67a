package engine

import "testing"

func TestSingleStep_Moves(t *testing.T) {
	origin := Coordinate{X: 3, Y: 3}
	tests := []struct {
		direction Direction
		forward   Coordinate
		backward  Coordinate
	}{
		{North, Coordinate{3, 4}, Coordinate{3, 2}},
		{East, Coordinate{4, 3}, Coordinate{2, 3}},
		{South, Coordinate{3, 2}, Coordinate{3, 4}},
		{West, Coordinate{2, 3}, Coordinate{4, 3}},
	}

	translator := SingleStep{}
	for _, test := range tests {
		t.Run(test.direction.String(), func(t *testing.T) {
			if got := translator.MoveForward(origin, test.direction); got != test.forward {
				t.Errorf("MoveForward: expected %v, got %v", test.forward, got)
			}
			if got := translator.MoveBackward(origin, test.direction); got != test.backward {
				t.Errorf("MoveBackward: expected %v, got %v", test.backward, got)
			}
		})
	}
}

func TestSingleStep_BackwardUndoesForward(t *testing.T) {
	translator := SingleStep{}
	coords := []Coordinate{{0, 0}, {-3, 7}, {100, -100}, {5, 5}}
	for _, c := range coords {
		for _, d := range Directions() {
			if got := translator.MoveBackward(translator.MoveForward(c, d), d); got != c {
				t.Errorf("MoveBackward(MoveForward(%v, %s)) = %v", c, d, got)
			}
		}
	}
}

func TestSingleStep_NoBoundsChecking(t *testing.T) {
	got := SingleStep{}.MoveBackward(Coordinate{0, 0}, North)
	if got != (Coordinate{0, -1}) {
		t.Errorf("expected (0,-1), got %v", got)
	}
}
