package game

import (
	"errors"
	"fmt"
)

// Color is the content of a single board cell.
type Color int8

const (
	Empty Color = iota
	Black       // Human player
	White       // Machine player
)

var (
	ErrInvalidCoordinate = errors.New("coordinate outside the board")
	ErrOccupiedCell      = errors.New("cell is not empty")
	ErrInvalidColor      = errors.New("color must be black or white")
	ErrInvalidSize       = errors.New("board size must be positive")
	ErrMalformedBoard    = errors.New("malformed board")
)

// Opponent returns the other stone color. Empty has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// Symbol is the character used by the text notation.
func (c Color) Symbol() byte {
	switch c {
	case Black:
		return 'p'
	case White:
		return 'b'
	default:
		return '-'
	}
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

func colorFromSymbol(symbol byte) (Color, bool) {
	switch symbol {
	case '-':
		return Empty, true
	case 'p':
		return Black, true
	case 'b':
		return White, true
	default:
		return Empty, false
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*c = Black
	case "white":
		*c = White
	case "empty":
		*c = Empty
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}
