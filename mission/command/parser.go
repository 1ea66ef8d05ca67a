// Package command parses the textual rover command language.
//
// A program is a sequence of letters, each optionally followed by a repeat
// count:
//
//	L R F B     rotate left, rotate right, move forward, move backward
//	M           alias of F
//	F3          F F F
//
// Letters are case-insensitive. Whitespace and commas separate instructions
// and are otherwise ignored.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/wricardo/mars-rover/mission/engine"
)

// MaxRepeat is the largest repeat count accepted after a letter
const MaxRepeat = 100

var (
	// ErrEmptyProgram is returned when the input holds no instruction
	ErrEmptyProgram = errors.New("no commands given")
	// ErrInvalidRepeat is returned when a repeat count is outside 1..MaxRepeat
	ErrInvalidRepeat = errors.New("invalid repeat count")
)

type program struct {
	Instructions []*instruction `parser:"@@*"`
}

type instruction struct {
	Pos    lexer.Position
	Letter string `parser:"@Letter"`
	Count  *int   `parser:"@Int?"`
}

var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Letter", Pattern: `[LRFBMlrfbm]`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Sep", Pattern: `[\s,]+`},
})

var parser = participle.MustBuild[program](
	participle.Lexer(commandLexer),
	participle.Elide("Sep"),
)

// Parse turns text into commands. Syntax errors carry the line and column of
// the offending character.
func Parse(text string) ([]engine.Command, error) {
	prog, err := parser.ParseString("commands", text)
	if err != nil {
		return nil, fmt.Errorf("parse commands: %w", err)
	}
	if len(prog.Instructions) == 0 {
		return nil, ErrEmptyProgram
	}

	var commands []engine.Command
	for _, in := range prog.Instructions {
		c, ok := engine.CommandFromLetter([]rune(in.Letter)[0])
		if !ok {
			return nil, fmt.Errorf("parse commands: %s: unknown command %q", in.Pos, in.Letter)
		}

		n := 1
		if in.Count != nil {
			n = *in.Count
			if n < 1 || n > MaxRepeat {
				return nil, fmt.Errorf("%s: %w %d for %s, must be 1..%d", in.Pos, ErrInvalidRepeat, n, in.Letter, MaxRepeat)
			}
		}
		for i := 0; i < n; i++ {
			commands = append(commands, c)
		}
	}
	return commands, nil
}

// ParseList parses every element of items and concatenates the results.
// Elements are full programs, so both "F" and "F2" are accepted.
func ParseList(items []string) ([]engine.Command, error) {
	var commands []engine.Command
	for i, item := range items {
		parsed, err := Parse(item)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
		commands = append(commands, parsed...)
	}
	if len(commands) == 0 {
		return nil, ErrEmptyProgram
	}
	return commands, nil
}

// Format renders commands as letters, e.g. "LFFR"
func Format(commands []engine.Command) string {
	var b strings.Builder
	b.Grow(len(commands))
	for _, c := range commands {
		b.WriteString(c.String())
	}
	return b.String()
}
