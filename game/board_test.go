package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitialBoard(t *testing.T) {
	b := NewInitialBoard()

	require.Equal(t, 9, b.Rows())
	require.Equal(t, 9, b.Columns())
	require.Equal(t, 0, b.Score(), "Both players start with 24 towers")
	require.False(t, b.IsFinished())
	require.NotEmpty(t, b.Actions())
}

func TestBoardActions(t *testing.T) {
	t.Run("enumerating neighbours in row-major order", func(t *testing.T) {
		b := NewBoard([][]int{
			{1, -1},
			{0, 0},
		}, 5)

		require.Equal(t, []Action{
			{FromRow: 0, FromCol: 0, ToRow: 0, ToCol: 1},
			{FromRow: 0, FromCol: 1, ToRow: 0, ToCol: 0},
		}, b.Actions())
	})

	t.Run("rejecting stacks above the height cap", func(t *testing.T) {
		b := NewBoard([][]int{{3, -3}}, 5)

		require.Empty(t, b.Actions())
		require.True(t, b.IsFinished())
		require.False(t, b.IsTowerMovable(0, 0))
	})

	t.Run("rejecting capped towers", func(t *testing.T) {
		b := NewBoard([][]int{{5, -1, 1}}, 5)

		require.False(t, b.IsTowerMovable(0, 0))
		require.False(t, b.IsActionValid(Action{FromRow: 0, FromCol: 1, ToRow: 0, ToCol: 0}))
		require.True(t, b.IsTowerMovable(0, 1))
	})

	t.Run("rejecting out of board and non adjacent moves", func(t *testing.T) {
		b := NewBoard([][]int{{1, 0, 1}}, 5)

		require.False(t, b.IsActionValid(Action{FromRow: 0, FromCol: 0, ToRow: 0, ToCol: 2}))
		require.False(t, b.IsActionValid(Action{FromRow: 0, FromCol: 0, ToRow: -1, ToCol: 0}))
		require.False(t, b.IsActionValid(Action{FromRow: 0, FromCol: 0, ToRow: 0, ToCol: 0}))
	})
}

func TestBoardPlay(t *testing.T) {
	t.Run("stacking keeps the source owner", func(t *testing.T) {
		b := NewBoard([][]int{{-2, 1}}, 5)

		err := b.Play(Action{FromRow: 0, FromCol: 0, ToRow: 0, ToCol: 1})

		require.NoError(t, err)
		require.Equal(t, 0, b.Cell(0, 0))
		require.Equal(t, -3, b.Cell(0, 1))
	})

	t.Run("invalid action leaves the board untouched", func(t *testing.T) {
		b := NewBoard([][]int{{4, 2}}, 5)

		err := b.Play(Action{FromRow: 0, FromCol: 0, ToRow: 0, ToCol: 1})

		require.ErrorIs(t, err, ErrInvalidAction)
		require.Equal(t, [][]int{{4, 2}}, b.Matrix())
	})

	t.Run("clone does not alias the source", func(t *testing.T) {
		b := NewInitialBoard()
		c := b.Clone()

		require.NoError(t, c.Play(c.Actions()[0]))
		require.Equal(t, InitialBoard, b.Matrix())
		require.NotEqual(t, b.Hash(), c.Hash())
	})
}

func TestBoardHash(t *testing.T) {
	a := NewInitialBoard()
	b := NewInitialBoard()
	require.Equal(t, a.Hash(), b.Hash())
	require.NotEqual(t, a.Hash(), a.Negate().Hash())
}

func TestRecord(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		b := NewInitialBoard()

		got, err := FromRecord(b.Record())

		require.NoError(t, err)
		require.Equal(t, b, got)
	})

	t.Run("default height cap", func(t *testing.T) {
		got, err := FromRecord(Record{M: [][]int{{1, -1}}, Rows: 1})

		require.NoError(t, err)
		require.Equal(t, DefaultMaxHeight, got.MaxHeight())
	})

	t.Run("ragged matrix", func(t *testing.T) {
		_, err := FromRecord(Record{M: [][]int{{1, -1}, {1}}, Rows: 2, MaxHeight: 5})
		require.Error(t, err)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		_, err := FromRecord(Record{M: [][]int{{1}}, Rows: 3, MaxHeight: 5})
		require.Error(t, err)
	})

	t.Run("tower above the cap", func(t *testing.T) {
		_, err := FromRecord(Record{M: [][]int{{6}}, Rows: 1, MaxHeight: 5})
		require.Error(t, err)
	})
}
