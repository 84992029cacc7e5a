package game

// StateHash identifies a board position. Equal boards hash equally.
type StateHash uint64

// State is what a searcher needs from a position. Play mutates the receiver,
// so searchers always Play on a Clone and never on a state owned by the caller.
type State interface {
	Clone() State
	Actions() []Action
	Play(Action) error
	IsFinished() bool
	Score() int
	Hash() StateHash

	Rows() int
	Columns() int
	// Cell returns the signed tower at (i, j): sign is the owner, magnitude
	// is the height and 0 is an empty cell.
	Cell(i, j int) int
	MaxHeight() int
	IsTowerMovable(i, j int) bool
}

// Evaluates the state to a score where positive values favor the player whose
// towers are encoded with a positive sign.
type Evaluate func(State) float64
