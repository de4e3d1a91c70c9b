package game

import "fmt"

// Orthogonal neighbour offsets: left, right, up, down.
var directions = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Play places a stone and resolves captures.
//
// Only single stones are ever captured: an opposing stone next to the new one is removed when
// all four of its neighbours are the placing color or the board edge. Connected groups are
// never captured as a unit. Afterwards the new stone itself is removed if it ended up
// surrounded by the opponent (suicide), so a move that captures its way out survives.
// There is no ko rule and no pass.
func (b *Board) Play(color Color, row, col int) error {
	if !b.InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, row, col)
	}
	if color != Black && color != White {
		return fmt.Errorf("%w: %s", ErrInvalidColor, color)
	}
	if b.At(row, col) != Empty {
		return fmt.Errorf("%w: (%d, %d)", ErrOccupiedCell, row, col)
	}

	b.cells[b.index(row, col)] = color
	opponent := color.Opponent()

	for _, d := range directions {
		r, c := row+d[0], col+d[1]
		if b.InBounds(r, c) && b.At(r, c) == opponent && b.surrounded(r, c, color) {
			b.cells[b.index(r, c)] = Empty
		}
	}

	if b.surrounded(row, col, opponent) {
		b.cells[b.index(row, col)] = Empty
	}

	b.ComputeScore()
	return nil
}

// surrounded reports whether every neighbour of (row, col) is off the board or holds by.
func (b *Board) surrounded(row, col int, by Color) bool {
	for _, d := range directions {
		r, c := row+d[0], col+d[1]
		if b.InBounds(r, c) && b.At(r, c) != by {
			return false
		}
	}
	return true
}
