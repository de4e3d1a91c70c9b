package searcher

import (
	"goban/game"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *game.Board {
	t.Helper()
	b, err := game.ParseBoard(text)
	require.NoError(t, err)
	return b
}

func TestNewStore(t *testing.T) {
	board := mustParse(t, `
		p - -
		- b -
		- - -`)
	store := NewStore(board, 2)
	root := store.Root()

	require.Equal(t, 1, store.Len())
	require.Equal(t, 10, store.Capacity(), "Store should fit the root plus one child per cell")
	require.Equal(t, RootID, root.ID)
	require.Equal(t, NoParent, root.Parent)
	require.Equal(t, 2, root.Level)
	require.Equal(t, 0, root.Score)
	require.Empty(t, root.Children)

	require.NoError(t, board.Play(White, 2, 2))
	require.Equal(t, game.Empty, root.Board.At(2, 2), "Root should own a copy of the board")
}

const White = game.White

func TestCreateChild(t *testing.T) {
	t.Run("children get sequential ids", func(t *testing.T) {
		store := NewStore(game.MustNewBoard(3), 0)

		first, err := store.CreateChild(RootID, White, 0, 0)
		require.NoError(t, err)
		second, err := store.CreateChild(RootID, White, 1, 2)
		require.NoError(t, err)

		require.Equal(t, 1, first)
		require.Equal(t, 2, second)
		require.Equal(t, []int{1, 2}, store.Root().Children)
		require.Equal(t, 1, store.ChildIndex(RootID, second))
		require.Equal(t, -1, store.ChildIndex(RootID, 7))
	})

	t.Run("child copies the parent board and plays the move", func(t *testing.T) {
		store := NewStore(game.MustNewBoard(3), 4)

		id, err := store.CreateChild(RootID, White, 1, 1)
		require.NoError(t, err)

		child := store.Node(id)
		require.Equal(t, RootID, child.Parent)
		require.Equal(t, 5, child.Level)
		require.Equal(t, 1, child.Score)
		require.Equal(t, game.Move{Color: White, Row: 1, Col: 1}, child.Move)
		require.Equal(t, White, child.Board.At(1, 1))
		require.Equal(t, game.Empty, store.Root().Board.At(1, 1), "Root board should not change")
	})

	t.Run("rejected move creates no node", func(t *testing.T) {
		store := NewStore(mustParse(t, "p -\n- -"), 1)

		_, err := store.CreateChild(RootID, White, 0, 0)

		require.ErrorIs(t, err, game.ErrOccupiedCell)
		require.Equal(t, 1, store.Len())
		require.Empty(t, store.Root().Children)
	})

	t.Run("unknown parent", func(t *testing.T) {
		store := NewStore(game.MustNewBoard(2), 0)

		_, err := store.CreateChild(3, White, 0, 0)

		require.Error(t, err)
		require.Nil(t, store.Node(3))
	})

	t.Run("overflowing the store", func(t *testing.T) {
		store := NewStore(game.MustNewBoard(1), 0)

		// The single cell stays empty because the stone is suicidal
		_, err := store.CreateChild(RootID, White, 0, 0)
		require.NoError(t, err)

		_, err = store.CreateChild(RootID, White, 0, 0)
		require.ErrorIs(t, err, ErrStoreFull)
		require.Equal(t, 2, store.Len())
	})

	t.Run("truncating keeps only the root", func(t *testing.T) {
		store := NewStore(game.MustNewBoard(2), 0)
		_, err := store.CreateChild(RootID, White, 0, 0)
		require.NoError(t, err)

		store.truncate()

		require.Equal(t, 1, store.Len())
		require.Empty(t, store.Root().Children)
		require.Nil(t, store.Node(1))
	})
}
