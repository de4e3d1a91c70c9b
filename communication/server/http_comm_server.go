package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"goban/agent"
	"goban/communication"
	"goban/engine"
	"goban/game"
	"goban/gamemaster"
	"goban/meta"
	"goban/searcher"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Server exposes stateless searches and human-vs-machine games over HTTP.
type Server struct {
	search agent.Agent
	master *gamemaster.GameMaster
}

func NewServer(search agent.Agent, master *gamemaster.GameMaster) *Server {
	return &Server{
		search: search,
		master: master,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /findmove", s.handleFindMove)
	mux.HandleFunc("POST /games", s.handleNewGame)
	mux.HandleFunc("GET /games/{id}", s.handleGetGame)
	mux.HandleFunc("POST /games/{id}/moves", s.handlePlay)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var req communication.FindMoveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Board == nil {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest, fmt.Errorf("%w: missing board", game.ErrMalformedBoard))
		return
	}
	if req.Board.Size() > meta.MAX_BOARD_SIZE {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest,
			fmt.Errorf("%w: %d exceeds %d", game.ErrInvalidSize, req.Board.Size(), meta.MAX_BOARD_SIZE))
		return
	}
	if req.Level < 0 {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest, fmt.Errorf("negative level %d", req.Level))
		return
	}

	decision, err := s.search.FindMove(r.Context(), req.Board, req.Level)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, communication.NewFindMoveResponse(decision))
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	req := communication.NewGameRequest{Size: meta.BOARD_SIZE}
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
	}
	if req.Size > meta.MAX_BOARD_SIZE {
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest,
			fmt.Errorf("%w: %d exceeds %d", game.ErrInvalidSize, req.Size, meta.MAX_BOARD_SIZE))
		return
	}

	snapshot, err := s.master.NewGame(req.Size)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, communication.NewGameResponse(snapshot))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.master.Get(r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, communication.NewGameResponse(snapshot))
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req communication.PlayRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	snapshot, err := s.master.Play(r.Context(), r.PathValue("id"), req.Row, req.Col)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, communication.NewGameResponse(snapshot))
}

// decodeBody reads at most meta.MAX_REQUEST_BYTES of the request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, meta.MAX_REQUEST_BYTES)).Decode(v)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, communication.CodeBadRequest, err)
		return
	}
	writeError(w, http.StatusBadRequest, communication.CodeBadRequest, err)
}

// writeFailure maps domain errors to status codes.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidCoordinate), errors.Is(err, game.ErrOccupiedCell):
		writeError(w, http.StatusBadRequest, communication.CodeInvalidMove, err)
	case errors.Is(err, game.ErrMalformedBoard), errors.Is(err, game.ErrInvalidSize), errors.Is(err, game.ErrInvalidColor):
		writeError(w, http.StatusBadRequest, communication.CodeBadRequest, err)
	case errors.Is(err, gamemaster.ErrGameNotFound):
		writeError(w, http.StatusNotFound, communication.CodeNotFound, err)
	case errors.Is(err, gamemaster.ErrGameOver):
		writeError(w, http.StatusConflict, communication.CodeGameOver, err)
	case errors.Is(err, engine.ErrWrongTurn):
		writeError(w, http.StatusConflict, communication.CodeWrongTurn, err)
	case errors.Is(err, searcher.ErrNoLegalMove):
		writeError(w, http.StatusConflict, communication.CodeNoLegalMove, err)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, communication.CodeInternal, err)
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, communication.ErrorResponse{Code: code, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
