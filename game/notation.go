package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// String renders the board as rows of space separated symbols, one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(len(b.cells) * 2)
	for row := 0; row < b.size; row++ {
		sb.WriteString(b.row(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) row(row int) string {
	line := make([]byte, 0, b.size*2)
	for col := 0; col < b.size; col++ {
		if col > 0 {
			line = append(line, ' ')
		}
		line = append(line, b.At(row, col).Symbol())
	}
	return string(line)
}

// ParseBoard reads the format produced by Board.String. Blank lines and spacing between
// symbols are ignored, the grid must be square.
func ParseBoard(text string) (*Board, error) {
	rows := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), "")
		if line != "" {
			rows = append(rows, line)
		}
	}
	return parseRows(rows)
}

// parseRows checks the shape of every row before the board is allocated, so the cells
// allocated never exceed the text received.
func parseRows(rows []string) (*Board, error) {
	size := len(rows)
	if size == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedBoard)
	}

	lines := make([]string, size)
	for r, line := range rows {
		line = strings.ReplaceAll(line, " ", "")
		if len(line) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrMalformedBoard, r, len(line), size)
		}
		lines[r] = line
	}

	b := MustNewBoard(size)
	for r, line := range lines {
		for c := 0; c < size; c++ {
			color, ok := colorFromSymbol(line[c])
			if !ok {
				return nil, fmt.Errorf("%w: unknown symbol %q at (%d, %d)", ErrMalformedBoard, line[c], r, c)
			}
			b.cells[b.index(r, c)] = color
		}
	}
	b.ComputeScore()
	return b, nil
}

type boardJSON struct {
	Size  int      `json:"size"`
	Rows  []string `json:"rows"`
	Score int      `json:"score"`
}

func (b *Board) MarshalJSON() ([]byte, error) {
	rows := make([]string, b.size)
	for r := range rows {
		rows[r] = b.row(r)
	}
	return json.Marshal(boardJSON{Size: b.size, Rows: rows, Score: b.score})
}

// UnmarshalJSON ignores the encoded score and recomputes it from the cells.
func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Size != len(raw.Rows) {
		return fmt.Errorf("%w: size %d but %d rows", ErrMalformedBoard, raw.Size, len(raw.Rows))
	}
	parsed, err := parseRows(raw.Rows)
	if err != nil {
		return err
	}
	*b = *parsed
	return nil
}
