package engine

import (
	"errors"
	"fmt"
	"goban/game"
	"goban/searcher"
)

var (
	ErrGameOver  = errors.New("game is over")
	ErrWrongTurn = errors.New("not this side's turn")
)

// Game is the turn state of one match: the human plays Black, the machine replies with White.
// A game lasts Cells placements. Captures and suicides do not give placements back.
type Game struct {
	board      *game.Board
	level      int
	placements int
	budget     int
	turn       game.Color
	ended      bool
}

func NewGame(size int) (*Game, error) {
	board, err := game.NewBoard(size)
	if err != nil {
		return nil, err
	}
	return &Game{
		board:  board,
		budget: board.Cells(),
		turn:   game.Black,
	}, nil
}

// Board returns a copy of the current board.
func (g *Game) Board() *game.Board {
	return g.board.Copy()
}

func (g *Game) Size() int {
	return g.board.Size()
}

func (g *Game) Level() int {
	return g.level
}

func (g *Game) Placements() int {
	return g.placements
}

func (g *Game) Budget() int {
	return g.budget
}

// Score is white stones minus black stones, the machine's score.
func (g *Game) Score() int {
	return g.board.Score()
}

func (g *Game) Turn() game.Color {
	return g.turn
}

func (g *Game) Over() bool {
	return g.ended || g.placements >= g.budget
}

// MachineToMove reports whether the machine should search now.
func (g *Game) MachineToMove() bool {
	return !g.Over() && g.turn == game.White
}

// PlayHuman applies a Black move. A rejected move leaves the game untouched.
func (g *Game) PlayHuman(row, col int) error {
	if g.Over() {
		return ErrGameOver
	}
	if g.turn != game.Black {
		return fmt.Errorf("%w: machine to move", ErrWrongTurn)
	}
	if err := g.board.Play(game.Black, row, col); err != nil {
		return err
	}
	g.level++
	g.placements++
	g.turn = game.White
	return nil
}

// Adopt makes the board chosen by the search the new current board.
func (g *Game) Adopt(decision searcher.Decision) error {
	if g.Over() {
		return ErrGameOver
	}
	if g.turn != game.White {
		return fmt.Errorf("%w: human to move", ErrWrongTurn)
	}
	if decision.Board == nil || decision.Board.Size() != g.board.Size() {
		return fmt.Errorf("%w: decision board does not match the game", game.ErrMalformedBoard)
	}
	g.board = decision.Board.Copy()
	g.level = decision.Level
	g.placements++
	g.turn = game.Black
	return nil
}

// End stops the game before its placement budget is spent.
func (g *Game) End() {
	g.ended = true
}
