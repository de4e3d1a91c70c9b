package searcher

import (
	"fmt"
	"goban/game"
	"goban/utils"
)

// Node is one vertex of the search tree. It owns its board.
type Node struct {
	ID       int
	Board    *game.Board
	Parent   int   // NoParent for the root
	Children []int // Ids of the children, in creation order
	Move     game.Move
	Level    int // Placements made since the empty board
	Score    int
}

// Store is an arena of nodes addressed by id. It is sized once for the worst case (the root
// plus one child per cell) and never grows, so pointers returned by Node stay valid.
type Store struct {
	nodes []Node
}

// NewStore copies root into slot 0.
func NewStore(root *game.Board, level int) *Store {
	board := root.Copy()
	nodes := make([]Node, 1, board.Cells()+1)
	nodes[RootID] = Node{
		ID:     RootID,
		Board:  board,
		Parent: NoParent,
		Level:  level,
		Score:  board.ComputeScore(),
	}
	return &Store{nodes: nodes}
}

func (s *Store) Root() *Node {
	return &s.nodes[RootID]
}

// Node returns nil for ids that were never created.
func (s *Store) Node(id int) *Node {
	if id < 0 || id >= len(s.nodes) {
		return nil
	}
	return &s.nodes[id]
}

func (s *Store) Len() int {
	return len(s.nodes)
}

func (s *Store) Capacity() int {
	return cap(s.nodes)
}

// CreateChild copies the parent's board, plays the move on it and appends the result.
// A rejected move creates nothing and returns the game error.
func (s *Store) CreateChild(parentID int, color game.Color, row, col int) (int, error) {
	parent := s.Node(parentID)
	if parent == nil {
		return NoMove, fmt.Errorf("unknown parent node %d", parentID)
	}
	if len(s.nodes) == cap(s.nodes) {
		return NoMove, fmt.Errorf("%w: %d nodes", ErrStoreFull, cap(s.nodes))
	}

	board := parent.Board.Copy()
	if err := board.Play(color, row, col); err != nil {
		return NoMove, err
	}

	id := len(s.nodes)
	s.nodes = append(s.nodes, Node{
		ID:     id,
		Board:  board,
		Parent: parentID,
		Move:   game.Move{Color: color, Row: row, Col: col},
		Level:  parent.Level + 1,
		Score:  board.Score(),
	})
	parent.Children = append(parent.Children, id)
	return id, nil
}

// ChildIndex returns the position of childID among the parent's children, or -1.
func (s *Store) ChildIndex(parentID, childID int) int {
	parent := s.Node(parentID)
	if parent == nil {
		return -1
	}
	return utils.FindIndex(parent.Children, childID)
}

// truncate drops every node but the root, ready for a new expansion pass.
func (s *Store) truncate() {
	for i := 1; i < len(s.nodes); i++ {
		s.nodes[i] = Node{}
	}
	s.nodes = s.nodes[:1]
	s.nodes[RootID].Children = nil
}
