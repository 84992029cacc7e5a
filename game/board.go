package game

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/pkg/errors"
)

const DefaultMaxHeight = 5

var ErrInvalidAction = errors.New("invalid action")

// InitialBoard is the standard Avalam starting position: 24 single towers per
// player laid out in alternating colors.
var InitialBoard = [][]int{
	{0, 0, 1, -1, 0, 0, 0, 0, 0},
	{0, 1, -1, 1, -1, 0, 0, 0, 0},
	{0, -1, 1, -1, 1, -1, 1, 0, 0},
	{0, 1, -1, 1, -1, 1, -1, 1, -1},
	{1, -1, 1, -1, 0, -1, 1, -1, 1},
	{-1, 1, -1, 1, -1, 1, -1, 1, 0},
	{0, 0, 1, -1, 1, -1, 1, -1, 0},
	{0, 0, 0, 0, -1, 1, -1, 1, 0},
	{0, 0, 0, 0, 0, -1, 1, 0, 0},
}

// Board is the dynamic state of an Avalam game. Cells are stored row-major.
type Board struct {
	rows      int
	columns   int
	maxHeight int
	cells     []int
}

// NewBoard copies m into a new board with the given height cap.
func NewBoard(m [][]int, maxHeight int) *Board {
	rows := len(m)
	columns := 0
	if rows > 0 {
		columns = len(m[0])
	}
	b := &Board{
		rows:      rows,
		columns:   columns,
		maxHeight: maxHeight,
		cells:     make([]int, rows*columns),
	}
	for i, row := range m {
		copy(b.cells[i*columns:(i+1)*columns], row)
	}
	return b
}

// NewInitialBoard returns the standard starting position.
func NewInitialBoard() *Board {
	return NewBoard(InitialBoard, DefaultMaxHeight)
}

func (b *Board) Clone() State {
	return b.Copy()
}

// Copy is Clone without the interface conversion.
func (b *Board) Copy() *Board {
	cells := make([]int, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		rows:      b.rows,
		columns:   b.columns,
		maxHeight: b.maxHeight,
		cells:     cells,
	}
}

func (b *Board) Rows() int      { return b.rows }
func (b *Board) Columns() int   { return b.columns }
func (b *Board) MaxHeight() int { return b.maxHeight }

func (b *Board) Cell(i, j int) int {
	return b.cells[i*b.columns+j]
}

func (b *Board) inside(i, j int) bool {
	return i >= 0 && j >= 0 && i < b.rows && j < b.columns
}

func (b *Board) height(i, j int) int {
	return abs(b.cells[i*b.columns+j])
}

// IsActionValid reports whether a can be played on the board.
func (b *Board) IsActionValid(a Action) bool {
	if !b.inside(a.FromRow, a.FromCol) || !b.inside(a.ToRow, a.ToCol) {
		return false
	}
	if a.FromRow == a.ToRow && a.FromCol == a.ToCol {
		return false
	}
	if abs(a.FromRow-a.ToRow) > 1 || abs(a.FromCol-a.ToCol) > 1 {
		return false
	}
	h1 := b.height(a.FromRow, a.FromCol)
	h2 := b.height(a.ToRow, a.ToCol)
	if h1 <= 0 || h1 >= b.maxHeight || h2 <= 0 || h2 >= b.maxHeight {
		return false
	}
	return h1+h2 <= b.maxHeight
}

// towerActions appends the valid actions starting at (i, j) in neighbourhood
// order: row offset first, then column offset, both from -1 to 1.
func (b *Board) towerActions(actions []Action, i, j int) []Action {
	h := b.height(i, j)
	if h == 0 || h >= b.maxHeight {
		return actions
	}
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			a := Action{FromRow: i, FromCol: j, ToRow: i + di, ToCol: j + dj}
			if b.IsActionValid(a) {
				actions = append(actions, a)
			}
		}
	}
	return actions
}

// Actions enumerates every legal action in row-major order of the source tower.
func (b *Board) Actions() []Action {
	var actions []Action
	for i := 0; i < b.rows; i++ {
		for j := 0; j < b.columns; j++ {
			actions = b.towerActions(actions, i, j)
		}
	}
	return actions
}

func (b *Board) IsTowerMovable(i, j int) bool {
	h := b.height(i, j)
	if h == 0 || h >= b.maxHeight {
		return false
	}
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if b.IsActionValid(Action{FromRow: i, FromCol: j, ToRow: i + di, ToCol: j + dj}) {
				return true
			}
		}
	}
	return false
}

// IsFinished reports whether no tower can move anymore.
func (b *Board) IsFinished() bool {
	for i := 0; i < b.rows; i++ {
		for j := 0; j < b.columns; j++ {
			if b.IsTowerMovable(i, j) {
				return false
			}
		}
	}
	return true
}

// Play moves the source tower onto the destination. The resulting tower
// belongs to the owner of the source tower.
func (b *Board) Play(a Action) error {
	if !b.IsActionValid(a) {
		return errors.Wrapf(ErrInvalidAction, "cannot play %s", a)
	}
	from := a.FromRow*b.columns + a.FromCol
	to := a.ToRow*b.columns + a.ToCol
	h := abs(b.cells[from]) + abs(b.cells[to])
	if b.cells[from] < 0 {
		h = -h
	}
	b.cells[to] = h
	b.cells[from] = 0
	return nil
}

// Score counts towers: +1 for every positive tower, -1 for every negative one.
func (b *Board) Score() int {
	score := 0
	for _, c := range b.cells {
		if c > 0 {
			score++
		} else if c < 0 {
			score--
		}
	}
	return score
}

// Negate swaps the owner of every tower.
func (b *Board) Negate() *Board {
	n := b.Copy()
	for i := range n.cells {
		n.cells[i] = -n.cells[i]
	}
	return n
}

func (b *Board) Hash() StateHash {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, c := range b.cells {
		binary.LittleEndian.PutUint64(buf, uint64(int64(c)))
		h.Write(buf)
	}
	return StateHash(h.Sum64())
}

// Matrix returns a copy of the cells as rows.
func (b *Board) Matrix() [][]int {
	m := make([][]int, b.rows)
	for i := range m {
		m[i] = make([]int, b.columns)
		copy(m[i], b.cells[i*b.columns:(i+1)*b.columns])
	}
	return m
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
