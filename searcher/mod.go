package searcher

import "errors"

const (
	RootID   = 0  // The root always lives in slot 0 of a Store
	NoParent = -1 // Parent of the root
	NoMove   = -1 // Returned when the root has no empty cell to expand
)

var (
	ErrNoLegalMove = errors.New("no legal move available")
	ErrStoreFull   = errors.New("node store capacity exceeded")
)
