package searcher

import (
	"fmt"
	"goban/game"

	"golang.org/x/exp/rand"
)

// Rollout plays random moves on a copy of board until the placement budget of the game
// (Cells - level half-moves) is spent, and returns the final score.
//
// Black always moves first, whoever is actually next to play at the node being evaluated.
func Rollout(board *game.Board, level int, rng *rand.Rand) int {
	score, _ := playout(board.Copy(), level, rng)
	return score
}

// playout is Rollout on board in place. It reports false when the board filled up before the
// budget was spent, in which case the score of the full board is returned.
func playout(board *game.Board, level int, rng *rand.Rand) (int, bool) {
	empty := newEmptySet(board)
	color := game.Black

	for remaining := board.Cells() - level; remaining > 0; remaining-- {
		if empty.len() == 0 {
			return board.ComputeScore(), false
		}

		index := empty.at(rng.Intn(empty.len()))
		row, col := board.Coordinates(index)
		if err := board.Play(color, row, col); err != nil {
			panic(fmt.Sprintf("rollout picked an unplayable cell: %v", err))
		}
		empty.refresh(board, row, col)

		color = color.Opponent()
	}
	return board.ComputeScore(), true
}

// emptySet tracks the empty cells of a board so a random one can be drawn in O(1).
type emptySet struct {
	cells    []int // Empty cell indices, unordered
	position []int // Position of each cell index within cells, -1 when occupied
}

func newEmptySet(board *game.Board) *emptySet {
	s := &emptySet{
		cells:    board.EmptyCells(),
		position: make([]int, board.Cells()),
	}
	for i := range s.position {
		s.position[i] = -1
	}
	for i, cell := range s.cells {
		s.position[cell] = i
	}
	return s
}

func (s *emptySet) len() int {
	return len(s.cells)
}

func (s *emptySet) at(i int) int {
	return s.cells[i]
}

func (s *emptySet) add(cell int) {
	if s.position[cell] >= 0 {
		return
	}
	s.position[cell] = len(s.cells)
	s.cells = append(s.cells, cell)
}

func (s *emptySet) remove(cell int) {
	i := s.position[cell]
	if i < 0 {
		return
	}
	last := s.cells[len(s.cells)-1]
	s.cells[i] = last
	s.position[last] = i
	s.cells = s.cells[:len(s.cells)-1]
	s.position[cell] = -1
}

// refresh resyncs the placed cell and its neighbours, the only cells a move can change.
func (s *emptySet) refresh(board *game.Board, row, col int) {
	size := board.Size()
	for _, d := range [5][2]int{{0, 0}, {0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		r, c := row+d[0], col+d[1]
		if !board.InBounds(r, c) {
			continue
		}
		if board.At(r, c) == game.Empty {
			s.add(r*size + c)
		} else {
			s.remove(r*size + c)
		}
	}
}
