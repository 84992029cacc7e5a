package game

import "fmt"

// Action moves the whole tower at (FromRow, FromCol) on top of the tower at
// (ToRow, ToCol).
type Action struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
}

func (a Action) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", a.FromRow, a.FromCol, a.ToRow, a.ToCol)
}
