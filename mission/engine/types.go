package engine

import (
	"fmt"
	"strings"
)

const (
	// Validation constants
	MaxPlateauSide      = 1000
	MaxCoordinate       = 1_000_000
	DefaultMaxCommands  = 500
	MaxCommandsPerBatch = 10000
)

// Coordinate is an integer point on the plateau
type Coordinate struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// String renders the coordinate the way failure messages do
func (c Coordinate) String() string {
	return fmt.Sprintf("<X:%d; Y:%d>", c.X, c.Y)
}

// Direction is a point of the compass rose
type Direction int

// Directions in clockwise order. The zero value is North.
const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"NORTH", "EAST", "SOUTH", "WEST"}

// Directions lists every direction in clockwise order
func Directions() []Direction {
	return []Direction{North, East, South, West}
}

// Valid reports whether d is one of the four compass points
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Letter returns the single-letter form (N, E, S, W)
func (d Direction) Letter() string {
	if !d.Valid() {
		return "?"
	}
	return directionNames[d][:1]
}

// ParseDirection accepts full names and single letters, case-insensitive
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N", "NORTH":
		return North, nil
	case "E", "EAST":
		return East, nil
	case "S", "SOUTH":
		return South, nil
	case "W", "WEST":
		return West, nil
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Position is the rover heading and location at an instant
type Position struct {
	Direction  Direction  `json:"direction"`
	Coordinate Coordinate `json:"coordinate"`
}

// WithDirection returns a copy of p facing d
func (p Position) WithDirection(d Direction) Position {
	p.Direction = d
	return p
}

// WithCoordinate returns a copy of p located at c
func (p Position) WithCoordinate(c Coordinate) Position {
	p.Coordinate = c
	return p
}

// String renders the position as "x y DIRECTION"
func (p Position) String() string {
	return fmt.Sprintf("%d %d %s", p.Coordinate.X, p.Coordinate.Y, p.Direction)
}

// Plateau is the inclusive rectangle the rover drives on
type Plateau struct {
	BottomLeft Coordinate `json:"bottom_left" yaml:"bottom_left"`
	TopRight   Coordinate `json:"top_right" yaml:"top_right"`
}

// Contains reports whether c lies inside the plateau, corners included
func (p Plateau) Contains(c Coordinate) bool {
	return c.X >= p.BottomLeft.X && c.X <= p.TopRight.X &&
		c.Y >= p.BottomLeft.Y && c.Y <= p.TopRight.Y
}

// Width is the number of columns
func (p Plateau) Width() int {
	return p.TopRight.X - p.BottomLeft.X + 1
}

// Height is the number of rows
func (p Plateau) Height() int {
	return p.TopRight.Y - p.BottomLeft.Y + 1
}

// Area is the number of cells
func (p Plateau) Area() int {
	return p.Width() * p.Height()
}

// Validate reports out of range corners, inverted corners and oversized
// plateaus. Corners are bounded first so the side arithmetic cannot overflow.
func (p Plateau) Validate() error {
	for _, corner := range []Coordinate{p.BottomLeft, p.TopRight} {
		if !withinCoordinateRange(corner.X) || !withinCoordinateRange(corner.Y) {
			return fmt.Errorf("plateau corner %s is out of range, coordinates must be between %d and %d", corner, -MaxCoordinate, MaxCoordinate)
		}
	}
	if p.BottomLeft.X > p.TopRight.X || p.BottomLeft.Y > p.TopRight.Y {
		return fmt.Errorf("plateau bottom_left %s must not exceed top_right %s", p.BottomLeft, p.TopRight)
	}
	if p.Width() > MaxPlateauSide || p.Height() > MaxPlateauSide {
		return fmt.Errorf("plateau sides must be at most %d, got %dx%d", MaxPlateauSide, p.Width(), p.Height())
	}
	return nil
}

func withinCoordinateRange(v int) bool {
	return v >= -MaxCoordinate && v <= MaxCoordinate
}

// Obstacle is an occupied coordinate
type Obstacle struct {
	Coordinate Coordinate `json:"coordinate"`
}
