package game

import "fmt"

// Board is a square grid of cells together with the score of the position.
type Board struct {
	size  int
	cells []Color // Row-major, indexed by row*size+col
	score int     // White stones minus black stones, refreshed on every placement
}

// NewBoard returns an empty board with size*size cells.
func NewBoard(size int) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Board{
		size:  size,
		cells: make([]Color, size*size),
	}, nil
}

// MustNewBoard is NewBoard for sizes known to be valid.
func MustNewBoard(size int) *Board {
	b, err := NewBoard(size)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) Size() int {
	return b.size
}

// Cells is the number of intersections, which is also the placement budget of a game.
func (b *Board) Cells() int {
	return len(b.cells)
}

// Score returns the cached score. It is valid after a placement or ComputeScore.
func (b *Board) Score() int {
	return b.score
}

func (b *Board) At(row, col int) Color {
	return b.cells[b.index(row, col)]
}

// Set overwrites a cell without applying any rule and refreshes the score.
func (b *Board) Set(row, col int, color Color) error {
	if !b.InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, row, col)
	}
	b.cells[b.index(row, col)] = color
	b.ComputeScore()
	return nil
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	cells := make([]Color, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		size:  b.size,
		cells: cells,
		score: b.score,
	}
}

// CopyTo overwrites dst with the content of b, reusing dst's storage when it fits.
func (b *Board) CopyTo(dst *Board) {
	if cap(dst.cells) < len(b.cells) {
		dst.cells = make([]Color, len(b.cells))
	}
	dst.cells = dst.cells[:len(b.cells)]
	copy(dst.cells, b.cells)
	dst.size = b.size
	dst.score = b.score
}

// ComputeScore rescans the whole board, caches and returns white minus black.
func (b *Board) ComputeScore() int {
	black, white := 0, 0
	for _, cell := range b.cells {
		switch cell {
		case Black:
			black++
		case White:
			white++
		}
	}
	b.score = white - black
	return b.score
}

// Count returns the number of cells holding color.
func (b *Board) Count(color Color) int {
	count := 0
	for _, cell := range b.cells {
		if cell == color {
			count++
		}
	}
	return count
}

// EmptyCells lists the empty cells as row-major indices.
func (b *Board) EmptyCells() []int {
	empty := make([]int, 0, len(b.cells))
	for i, cell := range b.cells {
		if cell == Empty {
			empty = append(empty, i)
		}
	}
	return empty
}

func (b *Board) IsFull() bool {
	for _, cell := range b.cells {
		if cell == Empty {
			return false
		}
	}
	return true
}

// Coordinates converts a row-major index back to (row, col).
func (b *Board) Coordinates(index int) (row, col int) {
	return index / b.size, index % b.size
}

// Equal reports whether both boards have the same size and cells.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (b *Board) index(row, col int) int {
	return row*b.size + col
}
