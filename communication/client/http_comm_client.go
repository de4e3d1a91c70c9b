package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"goban/communication"
	"goban/engine"
	"goban/game"
	"goban/gamemaster"
	"goban/searcher"
	"net/http"
	"strings"
)

var ErrRemote = errors.New("remote request failed")

// Client talks to a game server.
type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient uses http.DefaultClient when httpClient is nil.
func NewClient(serverURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: httpClient,
	}
}

// FindMove makes Client usable as an agent.Agent: the search runs on the server.
func (c *Client) FindMove(ctx context.Context, board *game.Board, level int) (searcher.Decision, error) {
	var resp communication.FindMoveResponse
	err := c.do(ctx, http.MethodPost, "/findmove", communication.FindMoveRequest{Board: board, Level: level}, &resp)
	if err != nil {
		return searcher.Decision{}, err
	}
	if resp.Board == nil {
		return searcher.Decision{}, fmt.Errorf("%w: response has no board", ErrRemote)
	}
	return resp.Decision(), nil
}

func (c *Client) NewGame(ctx context.Context, size int) (communication.GameResponse, error) {
	var resp communication.GameResponse
	err := c.do(ctx, http.MethodPost, "/games", communication.NewGameRequest{Size: size}, &resp)
	return resp, err
}

func (c *Client) Game(ctx context.Context, id string) (communication.GameResponse, error) {
	var resp communication.GameResponse
	err := c.do(ctx, http.MethodGet, "/games/"+id, nil, &resp)
	return resp, err
}

func (c *Client) Play(ctx context.Context, id string, row, col int) (communication.GameResponse, error) {
	var resp communication.GameResponse
	err := c.do(ctx, http.MethodPost, "/games/"+id+"/moves", communication.PlayRequest{Row: row, Col: col}, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, &payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var failure communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil {
			return fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
		}
		return remoteError(resp.StatusCode, failure)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// remoteError restores the sentinel errors callers inspect with errors.Is.
func remoteError(status int, failure communication.ErrorResponse) error {
	var sentinel error
	switch failure.Code {
	case communication.CodeNoLegalMove:
		sentinel = searcher.ErrNoLegalMove
	case communication.CodeInvalidMove:
		if strings.Contains(failure.Error, game.ErrOccupiedCell.Error()) {
			sentinel = game.ErrOccupiedCell
		} else {
			sentinel = game.ErrInvalidCoordinate
		}
	case communication.CodeBadRequest:
		if strings.Contains(failure.Error, game.ErrInvalidSize.Error()) {
			sentinel = game.ErrInvalidSize
		} else {
			sentinel = game.ErrMalformedBoard
		}
	case communication.CodeNotFound:
		sentinel = gamemaster.ErrGameNotFound
	case communication.CodeGameOver:
		sentinel = engine.ErrGameOver
	case communication.CodeWrongTurn:
		sentinel = engine.ErrWrongTurn
	default:
		sentinel = ErrRemote
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, status, failure.Error)
}
