package searcher

import (
	"math"

	"avalam/game"

	"github.com/pkg/errors"
)

// ErrDeadline aborts a timed pass. It is never a valid evaluation: the pass
// that returns it is discarded as a whole.
var ErrDeadline = errors.New("search deadline exceeded")

// Result of a search. Found is false when the root had no legal action or
// when no action was evaluated to completion.
type Result struct {
	Value  float64
	Action game.Action
	Found  bool
}

// Role is the side a search frame plays for.
type Role int

const (
	Maximizer Role = iota
	Minimizer
)

// RoleOf maps a player (+1 or -1) to its role: +1 owns the positive towers
// and maximizes the evaluation.
func RoleOf(player int) Role {
	if player < 0 {
		return Minimizer
	}
	return Maximizer
}

func (r Role) Opponent() Role {
	if r == Maximizer {
		return Minimizer
	}
	return Maximizer
}

// Sign is +1 for the maximizer and -1 for the minimizer.
func (r Role) Sign() float64 {
	if r == Maximizer {
		return 1
	}
	return -1
}

func (r Role) String() string {
	if r == Maximizer {
		return "max"
	}
	return "min"
}

func (r Role) worst() float64 {
	if r == Maximizer {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// improves reports whether value is strictly better than best for r.
func (r Role) improves(value, best float64) bool {
	if r == Maximizer {
		return value > best
	}
	return value < best
}
