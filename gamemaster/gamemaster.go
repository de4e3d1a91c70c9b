package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"goban/agent"
	"goban/engine"
	"goban/game"
	"goban/searcher"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameOver     = engine.ErrGameOver
)

// Snapshot is a copy of a session's state, safe to hand out.
type Snapshot struct {
	ID         string
	Board      *game.Board
	Level      int
	Placements int
	Budget     int
	Score      int
	Turn       game.Color
	Over       bool
	UpdatedAt  time.Time
	Reply      *searcher.Decision // Machine reply to the last human move, if any
}

type session struct {
	mu        sync.Mutex
	id        string
	game      *engine.Game
	updatedAt time.Time
}

func (s *session) snapshot() Snapshot {
	return Snapshot{
		ID:         s.id,
		Board:      s.game.Board(),
		Level:      s.game.Level(),
		Placements: s.game.Placements(),
		Budget:     s.game.Budget(),
		Score:      s.game.Score(),
		Turn:       s.game.Turn(),
		Over:       s.game.Over(),
		UpdatedAt:  s.updatedAt,
	}
}

// GameMaster keeps the games played over the network. Each game is a human (Black) against the
// machine agent (White).
type GameMaster struct {
	machine  agent.Agent
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewGameMaster(machine agent.Agent) *GameMaster {
	return &GameMaster{
		machine:  machine,
		sessions: make(map[string]*session),
	}
}

func (gm *GameMaster) NewGame(size int) (Snapshot, error) {
	g, err := engine.NewGame(size)
	if err != nil {
		return Snapshot{}, err
	}
	s := &session{
		id:        uuid.NewString(),
		game:      g,
		updatedAt: time.Now(),
	}

	gm.mu.Lock()
	gm.sessions[s.id] = s
	gm.mu.Unlock()

	log.Info().Msgf("created game %s on a %dx%d board", s.id, size, size)
	return s.snapshot(), nil
}

func (gm *GameMaster) Get(id string) (Snapshot, error) {
	s, err := gm.session(id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// Play applies the human move then lets the machine reply. A reply lost to a failed search is
// made before the next human move.
func (gm *GameMaster) Play(ctx context.Context, id string, row, col int) (Snapshot, error) {
	s, err := gm.session(id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.MachineToMove() {
		if _, err := gm.reply(ctx, s); err != nil {
			return s.snapshot(), err
		}
		if s.game.Over() {
			return s.snapshot(), ErrGameOver
		}
	}

	if err := s.game.PlayHuman(row, col); err != nil {
		return s.snapshot(), err
	}
	s.updatedAt = time.Now()

	var reply *searcher.Decision
	if s.game.MachineToMove() {
		reply, err = gm.reply(ctx, s)
		if err != nil {
			return s.snapshot(), err
		}
	}

	snapshot := s.snapshot()
	snapshot.Reply = reply
	return snapshot, nil
}

// reply returns nil when the machine had no move and the game was ended.
func (gm *GameMaster) reply(ctx context.Context, s *session) (*searcher.Decision, error) {
	decision, err := gm.machine.FindMove(ctx, s.game.Board(), s.game.Level())
	if errors.Is(err, searcher.ErrNoLegalMove) {
		log.Info().Msgf("machine has no legal move in game %s", s.id)
		s.game.End()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("machine search failed in game %s: %w", s.id, err)
	}
	if err := s.game.Adopt(decision); err != nil {
		return nil, err
	}
	s.updatedAt = time.Now()
	return &decision, nil
}

func (gm *GameMaster) session(id string) (*session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return s, nil
}

// Len returns the number of games being kept.
func (gm *GameMaster) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}
