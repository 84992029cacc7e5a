package game

import "github.com/pkg/errors"

// Record is the flat serialized form of a board exchanged with the harness.
type Record struct {
	M         [][]int `json:"m"`
	Rows      int     `json:"rows"`
	MaxHeight int     `json:"max_height"`
}

// FromRecord builds a board from its serialized form. Rows must match the
// matrix and every row must have the same length.
func FromRecord(r Record) (*Board, error) {
	if len(r.M) == 0 {
		return nil, errors.New("record has an empty matrix")
	}
	if r.Rows != 0 && r.Rows != len(r.M) {
		return nil, errors.Errorf("record declares %d rows but holds %d", r.Rows, len(r.M))
	}
	columns := len(r.M[0])
	for i, row := range r.M {
		if len(row) != columns {
			return nil, errors.Errorf("record row %d has %d cells, expected %d", i, len(row), columns)
		}
	}
	maxHeight := r.MaxHeight
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	for i, row := range r.M {
		for j, c := range row {
			if abs(c) > maxHeight {
				return nil, errors.Errorf("tower at (%d, %d) is higher than %d", i, j, maxHeight)
			}
		}
	}
	return NewBoard(r.M, maxHeight), nil
}

func (b *Board) Record() Record {
	return Record{
		M:         b.Matrix(),
		Rows:      b.rows,
		MaxHeight: b.maxHeight,
	}
}
