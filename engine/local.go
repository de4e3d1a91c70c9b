package engine

import (
	"context"
	"errors"
	"goban/agent"
	"goban/experiments/metrics"
	"goban/game"
	"goban/player"
	"goban/searcher"
	"time"

	"github.com/rs/zerolog/log"
)

type Local struct {
	game    *Game
	human   player.Player
	machine agent.Agent
	view    View
}

func LocalEngine(g *Game, human player.Player, machine agent.Agent, view View) *Local {
	if g == nil || human == nil || machine == nil {
		panic("engine needs a game, a player and an agent")
	}
	if view == nil {
		view = SilentView()
	}
	return &Local{
		game:    g,
		human:   human,
		machine: machine,
		view:    view,
	}
}

// Run alternates human and machine moves until the game is over.
func (e *Local) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	start := time.Now()
	moveMetrics := []metrics.MoveMetric{}

	log.Info().Msgf("starting a %dx%d game with %d placements", e.game.Size(), e.game.Size(), e.game.Budget())
	e.view.ShowBoard(e.game.Board())

	for !e.game.Over() {
		row, col, err := e.humanTurn(ctx)
		if err != nil {
			return metrics.GameMetric{}, moveMetrics, err
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:   e.game.Placements(),
			Player: game.Black.String(),
			Row:    row,
			Col:    col,
		})
		e.view.ShowBoard(e.game.Board())

		if !e.game.MachineToMove() {
			break
		}

		searchStart := time.Now()
		decision, err := e.machine.FindMove(ctx, e.game.Board(), e.game.Level())
		elapsed := time.Since(searchStart)
		if errors.Is(err, searcher.ErrNoLegalMove) {
			log.Info().Msg("machine has no legal move, ending the game")
			e.game.End()
			break
		}
		if err != nil {
			return metrics.GameMetric{}, moveMetrics, err
		}
		if err := e.game.Adopt(decision); err != nil {
			return metrics.GameMetric{}, moveMetrics, err
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         e.game.Placements(),
			Player:       game.White.String(),
			Row:          decision.Move.Row,
			Col:          decision.Move.Col,
			SearchMetric: decision.Metric,
		})
		e.view.ShowSearch(decision, elapsed)
		e.view.ShowBoard(e.game.Board())
	}

	end := time.Now()
	e.view.ShowResult(e.game.Score())
	log.Info().Msgf("game finished after %d placements with score %d", e.game.Placements(), e.game.Score())

	return metrics.GameMetric{
		Size:       e.game.Size(),
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalMoves: e.game.Placements(),
		Score:      e.game.Score(),
	}, moveMetrics, nil
}

// humanTurn asks for moves until one is accepted. Only malformed or rejected moves are retried.
func (e *Local) humanTurn(ctx context.Context) (int, int, error) {
	for {
		row, col, err := e.human.NextMove(ctx, e.game.Board())
		if err == nil {
			err = e.game.PlayHuman(row, col)
		}
		if err == nil {
			return row, col, nil
		}
		if !retryable(err) {
			return 0, 0, err
		}
		log.Debug().Err(err).Msg("move rejected")
		e.view.ShowRejected(err)
	}
}

func retryable(err error) bool {
	return errors.Is(err, game.ErrInvalidCoordinate) ||
		errors.Is(err, game.ErrOccupiedCell) ||
		errors.Is(err, player.ErrUnreadableMove)
}
