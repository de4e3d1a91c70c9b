package communication

import (
	"goban/experiments/metrics"
	"goban/game"
	"goban/gamemaster"
	"goban/searcher"
	"time"
)

// Error codes carried by ErrorResponse
const (
	CodeBadRequest  = "bad_request"
	CodeInvalidMove = "invalid_move"
	CodeNotFound    = "not_found"
	CodeGameOver    = "game_over"
	CodeWrongTurn   = "wrong_turn"
	CodeNoLegalMove = "no_legal_move"
	CodeInternal    = "internal"
)

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// FindMoveRequest asks for a White move on Board, where Level placements have been made.
type FindMoveRequest struct {
	Board *game.Board `json:"board"`
	Level int         `json:"level"`
}

type FindMoveResponse struct {
	Move       game.Move   `json:"move"`
	Board      *game.Board `json:"board"`
	Level      int         `json:"level"`
	Average    int         `json:"average"`
	TimeMs     int64       `json:"time_ms"`
	Children   int         `json:"children"`
	Rollouts   int         `json:"rollouts"`
	EarlyStops int         `json:"early_stops"`
}

func NewFindMoveResponse(decision searcher.Decision) FindMoveResponse {
	return FindMoveResponse{
		Move:       decision.Move,
		Board:      decision.Board,
		Level:      decision.Level,
		Average:    decision.Average,
		TimeMs:     decision.Metric.Duration.Milliseconds(),
		Children:   decision.Metric.Children,
		Rollouts:   decision.Metric.Rollouts,
		EarlyStops: decision.Metric.EarlyStops,
	}
}

// Decision rebuilds the search result on the client side.
func (r FindMoveResponse) Decision() searcher.Decision {
	return searcher.Decision{
		Move:    r.Move,
		Board:   r.Board,
		Level:   r.Level,
		Average: r.Average,
		Metric: metrics.SearchMetric{
			Duration:    time.Duration(r.TimeMs) * time.Millisecond,
			Children:    r.Children,
			Rollouts:    r.Rollouts,
			EarlyStops:  r.EarlyStops,
			BestAverage: r.Average,
		},
	}
}

type NewGameRequest struct {
	Size int `json:"size"`
}

type PlayRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type GameResponse struct {
	GameID     string      `json:"game_id"`
	Board      *game.Board `json:"board"`
	Level      int         `json:"level"`
	Placements int         `json:"placements"`
	Budget     int         `json:"budget"`
	Score      int         `json:"score"`
	ToMove     game.Color  `json:"to_move"`
	Status     string      `json:"status"` // "ongoing" / "over"
	Reply      *game.Move  `json:"reply,omitempty"`
}

func NewGameResponse(snapshot gamemaster.Snapshot) GameResponse {
	status := "ongoing"
	if snapshot.Over {
		status = "over"
	}
	response := GameResponse{
		GameID:     snapshot.ID,
		Board:      snapshot.Board,
		Level:      snapshot.Level,
		Placements: snapshot.Placements,
		Budget:     snapshot.Budget,
		Score:      snapshot.Score,
		ToMove:     snapshot.Turn,
		Status:     status,
	}
	if snapshot.Reply != nil {
		move := snapshot.Reply.Move
		response.Reply = &move
	}
	return response
}
