package engine

import (
	"bytes"
	"context"
	"goban/agent"
	"goban/game"
	"goban/player"
	"goban/searcher"
	"io"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

type scriptedMove struct {
	row, col int
	err      error
}

type scripted struct {
	moves []scriptedMove
}

func (s *scripted) NextMove(ctx context.Context, board *game.Board) (int, int, error) {
	if len(s.moves) == 0 {
		return 0, 0, io.EOF
	}
	move := s.moves[0]
	s.moves = s.moves[1:]
	return move.row, move.col, move.err
}

// firstEmpty plays White on the first empty cell in row-major order.
type firstEmpty struct{}

func (firstEmpty) FindMove(ctx context.Context, board *game.Board, level int) (searcher.Decision, error) {
	cells := board.EmptyCells()
	if len(cells) == 0 {
		return searcher.Decision{}, searcher.ErrNoLegalMove
	}
	row, col := board.Coordinates(cells[0])
	next := board.Copy()
	if err := next.Play(game.White, row, col); err != nil {
		return searcher.Decision{}, err
	}
	return searcher.Decision{
		Move:  game.Move{Color: game.White, Row: row, Col: col},
		Board: next,
		Level: level + 1,
	}, nil
}

type resigning struct{}

func (resigning) FindMove(context.Context, *game.Board, int) (searcher.Decision, error) {
	return searcher.Decision{}, searcher.ErrNoLegalMove
}

type recordingView struct {
	boards   int
	searches int
	rejected []error
	score    *int
}

func (v *recordingView) ShowBoard(*game.Board) { v.boards++ }
func (v *recordingView) ShowSearch(searcher.Decision, time.Duration) {
	v.searches++
}
func (v *recordingView) ShowRejected(err error) { v.rejected = append(v.rejected, err) }
func (v *recordingView) ShowResult(score int)   { v.score = &score }

func TestGame(t *testing.T) {
	t.Run("new game", func(t *testing.T) {
		g, err := NewGame(3)

		require.NoError(t, err)
		require.Equal(t, 9, g.Budget())
		require.Equal(t, game.Black, g.Turn(), "Human should move first")
		require.False(t, g.Over())
		require.False(t, g.MachineToMove())
	})

	t.Run("invalid size", func(t *testing.T) {
		_, err := NewGame(0)

		require.ErrorIs(t, err, game.ErrInvalidSize)
	})

	t.Run("human move counts a placement", func(t *testing.T) {
		g, _ := NewGame(3)

		require.NoError(t, g.PlayHuman(1, 1))

		require.Equal(t, 1, g.Level())
		require.Equal(t, 1, g.Placements())
		require.Equal(t, -1, g.Score())
		require.True(t, g.MachineToMove())
		require.ErrorIs(t, g.PlayHuman(0, 0), ErrWrongTurn)
	})

	t.Run("rejected human move is not counted", func(t *testing.T) {
		g, _ := NewGame(3)

		require.ErrorIs(t, g.PlayHuman(3, 0), game.ErrInvalidCoordinate)

		require.Zero(t, g.Placements())
		require.Zero(t, g.Level())
		require.Equal(t, game.Black, g.Turn())
	})

	t.Run("adopting the machine's board", func(t *testing.T) {
		g, _ := NewGame(3)
		require.ErrorIs(t, g.Adopt(searcher.Decision{}), ErrWrongTurn)
		require.NoError(t, g.PlayHuman(0, 0))

		decision, err := firstEmpty{}.FindMove(context.Background(), g.Board(), g.Level())
		require.NoError(t, err)
		require.NoError(t, g.Adopt(decision))

		require.Equal(t, 2, g.Level())
		require.Equal(t, 2, g.Placements())
		require.Equal(t, game.White, g.Board().At(0, 1))
		require.Equal(t, game.Black, g.Turn())
	})

	t.Run("decision for another board size", func(t *testing.T) {
		g, _ := NewGame(3)
		require.NoError(t, g.PlayHuman(0, 0))

		err := g.Adopt(searcher.Decision{Board: game.MustNewBoard(2)})

		require.ErrorIs(t, err, game.ErrMalformedBoard)
		require.Equal(t, 1, g.Placements())
	})

	t.Run("game ends after every placement", func(t *testing.T) {
		g, _ := NewGame(1)

		require.NoError(t, g.PlayHuman(0, 0))

		require.True(t, g.Over())
		require.False(t, g.MachineToMove())
		require.ErrorIs(t, g.PlayHuman(0, 0), ErrGameOver)
	})

	t.Run("ending early", func(t *testing.T) {
		g, _ := NewGame(3)

		g.End()

		require.True(t, g.Over())
	})
}

func TestLocalEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("retrying rejected moves", func(t *testing.T) {
		g, _ := NewGame(2)
		human := &scripted{moves: []scriptedMove{
			{row: 5, col: 5},
			{err: player.ErrUnreadableMove},
			{row: 1, col: 1},
			{row: 0, col: 0}, // Taken by the machine
			{row: 0, col: 1},
		}}
		view := &recordingView{}

		gameMetric, moveMetrics, err := LocalEngine(g, human, firstEmpty{}, view).Run(ctx)

		require.NoError(t, err)
		require.Len(t, view.rejected, 3)
		require.ErrorIs(t, view.rejected[0], game.ErrInvalidCoordinate)
		require.ErrorIs(t, view.rejected[1], player.ErrUnreadableMove)
		require.ErrorIs(t, view.rejected[2], game.ErrOccupiedCell)
		require.Equal(t, 2, view.searches)

		require.Equal(t, 4, gameMetric.TotalMoves)
		require.Equal(t, 0, gameMetric.Score)
		require.Equal(t, 2, gameMetric.Size)
		require.NotNil(t, view.score)
		require.Equal(t, 0, *view.score)

		require.Len(t, moveMetrics, 4)
		players := []string{}
		for _, m := range moveMetrics {
			players = append(players, m.Player)
		}
		require.Equal(t, []string{"black", "white", "black", "white"}, players)
		require.Equal(t, [2]int{1, 0}, [2]int{moveMetrics[3].Row, moveMetrics[3].Col})
	})

	t.Run("machine without a move ends the game", func(t *testing.T) {
		g, _ := NewGame(2)
		human := &scripted{moves: []scriptedMove{{row: 0, col: 0}}}

		gameMetric, _, err := LocalEngine(g, human, resigning{}, nil).Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 1, gameMetric.TotalMoves)
		require.True(t, g.Over())
	})

	t.Run("player input error stops the game", func(t *testing.T) {
		g, _ := NewGame(2)

		_, _, err := LocalEngine(g, &scripted{}, firstEmpty{}, nil).Run(ctx)

		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("random player against the search", func(t *testing.T) {
		g, _ := NewGame(3)
		mcts := searcher.NewMCTS(2, searcher.WithSimulations(5))

		gameMetric, moveMetrics, err := LocalEngine(g, player.NewRandom(3), agent.NewEvaluationAgent(mcts), nil).Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 9, gameMetric.TotalMoves, "Every placement should be spent")
		require.Len(t, moveMetrics, 9)
		require.Equal(t, "black", moveMetrics[8].Player, "Human should make the last placement on an odd board")
	})
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	view := NewTerminal(&buf, termenv.WithProfile(termenv.Ascii))
	board, err := game.ParseBoard("p -\n- b")
	require.NoError(t, err)

	view.ShowBoard(board)
	view.ShowResult(3)

	require.Equal(t, "p - \n- b \nGame over - machine score (b): 3\n", buf.String())
}
