package game

import "fmt"

// Move places a stone of Color at (Row, Col).
type Move struct {
	Color Color `json:"color"`
	Row   int   `json:"row"`
	Col   int   `json:"col"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s(%d,%d)", m.Color, m.Row, m.Col)
}
