package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"goban/game"
	"io"
	"time"

	"golang.org/x/exp/rand"
)

var (
	ErrUnreadableMove = errors.New("move must be two integers: row and column")
	ErrNoEmptyCell    = errors.New("no empty cell left")
)

// Player chooses the Black moves of a game.
type Player interface {
	NextMove(ctx context.Context, board *game.Board) (row, col int, err error)
}

type human struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewHuman reads "row col" lines from in, prompting on out before each one.
func NewHuman(in io.Reader, out io.Writer) Player {
	return &human{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (h *human) NextMove(ctx context.Context, board *game.Board) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	fmt.Fprint(h.out, "Move (p) - row and column: ")
	if !h.scanner.Scan() {
		if err := h.scanner.Err(); err != nil {
			return 0, 0, fmt.Errorf("failed to read move: %w", err)
		}
		return 0, 0, io.EOF
	}

	var row, col int
	line := h.scanner.Text()
	if n, err := fmt.Sscan(line, &row, &col); n != 2 || err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnreadableMove, line)
	}
	return row, col, nil
}

type random struct {
	rng *rand.Rand
}

// NewRandom picks uniformly among the empty cells. A zero seed uses the clock.
func NewRandom(seed uint64) Player {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &random{rng: rand.New(rand.NewSource(seed))}
}

func (r *random) NextMove(ctx context.Context, board *game.Board) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	cells := board.EmptyCells()
	if len(cells) == 0 {
		return 0, 0, ErrNoEmptyCell
	}
	row, col := board.Coordinates(cells[r.rng.Intn(len(cells))])
	return row, col, nil
}
