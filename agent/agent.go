package agent

import (
	"context"
	"goban/game"
	"goban/searcher"
)

type Agent interface {
	// FindMove returns the chosen White move for board, where level placements have already been
	// made, together with search metrics (if collected)
	FindMove(ctx context.Context, board *game.Board, level int) (searcher.Decision, error)
}

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns an agent searching in process.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(ctx context.Context, board *game.Board, level int) (searcher.Decision, error) {
	return a.mcts.FindMove(ctx, board, level)
}
