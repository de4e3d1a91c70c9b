package engine

import (
	"fmt"
	"goban/game"
	"goban/searcher"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

// View presents a running game.
type View interface {
	ShowBoard(board *game.Board)
	ShowSearch(decision searcher.Decision, elapsed time.Duration)
	ShowRejected(err error)
	ShowResult(score int)
}

// Terminal writes the board as rows of "-", "p" and "b". Stones are coloured when w is a terminal
// that supports it.
type Terminal struct {
	w   io.Writer
	out *termenv.Output
}

func NewTerminal(w io.Writer, options ...termenv.OutputOption) *Terminal {
	return &Terminal{
		w:   w,
		out: termenv.NewOutput(w, options...),
	}
}

func (t *Terminal) ShowBoard(board *game.Board) {
	var sb strings.Builder
	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			sb.WriteString(t.symbol(board.At(row, col)))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(t.w, sb.String())
}

func (t *Terminal) symbol(color game.Color) string {
	symbol := string(color.Symbol())
	switch color {
	case game.Black:
		return t.out.String(symbol).Foreground(t.out.Color("1")).Bold().String()
	case game.White:
		return t.out.String(symbol).Foreground(t.out.Color("4")).Bold().String()
	default:
		return t.out.String(symbol).Faint().String()
	}
}

func (t *Terminal) ShowSearch(decision searcher.Decision, elapsed time.Duration) {
	fmt.Fprintf(t.w, "MCTS result: %v with average %d. Time: %.6f s.\n",
		decision.Move, decision.Average, elapsed.Seconds())
	fmt.Fprintln(t.w, "Move (b):")
}

func (t *Terminal) ShowRejected(err error) {
	fmt.Fprintln(t.w, t.out.String("Move rejected: "+err.Error()).Foreground(t.out.Color("3")).String())
}

func (t *Terminal) ShowResult(score int) {
	fmt.Fprintf(t.w, "Game over - machine score (b): %d\n", score)
}

type silentView struct{}

// SilentView discards everything, for automated games.
func SilentView() View {
	return silentView{}
}

func (silentView) ShowBoard(*game.Board)                       {}
func (silentView) ShowSearch(searcher.Decision, time.Duration) {}
func (silentView) ShowRejected(error)                          {}
func (silentView) ShowResult(int)                              {}
