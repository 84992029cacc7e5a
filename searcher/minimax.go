package searcher

import (
	"math"
	"time"

	"avalam/game"

	"github.com/pkg/errors"
)

// pass is one depth-limited minimax search. The same routine serves plain
// minimax (prune off), alpha-beta and the timed passes of iterative
// deepening.
type pass struct {
	evaluate game.Evaluate
	prune    bool

	// Timed passes only. A must-complete pass ignores the deadline.
	timed        bool
	mustComplete bool
	clock        func() time.Time
	start        time.Time
	budget       time.Duration

	nodes   int
	cutoffs int // Leaves cut by depth that were not terminal
}

func (p *pass) expired() bool {
	if !p.timed || p.mustComplete {
		return false
	}
	return p.clock().Sub(p.start) >= p.budget
}

// exhausted reports whether every leaf reached by the pass was terminal, in
// which case a deeper pass cannot see anything new.
func (p *pass) exhausted() bool {
	return p.cutoffs == 0
}

func (p *pass) run(state game.State, depth int, role Role) (Result, error) {
	return p.search(state, depth, role, math.Inf(-1), math.Inf(1))
}

func (p *pass) search(state game.State, depth int, role Role, alpha, beta float64) (Result, error) {
	p.nodes++
	if p.expired() {
		return Result{}, ErrDeadline
	}

	if depth <= 0 {
		if !state.IsFinished() {
			p.cutoffs++
		}
		return Result{Value: p.evaluate(state)}, nil
	}

	actions := state.Actions()
	if len(actions) == 0 { // Game over
		return Result{Value: p.evaluate(state)}, nil
	}

	best := Result{Value: role.worst()}
	for _, action := range actions {
		child := state.Clone()
		if err := child.Play(action); err != nil {
			return Result{}, errors.Wrapf(err, "failed to play enumerated action %s", action)
		}

		r, err := p.search(child, depth-1, role.Opponent(), alpha, beta)
		if err != nil {
			return Result{}, err
		}

		// Strict comparison: on equal values the first action in enumeration
		// order is kept
		if !best.Found || role.improves(r.Value, best.Value) {
			best = Result{Value: r.Value, Action: action, Found: true}
		}

		if !p.prune {
			continue
		}
		if role == Maximizer {
			alpha = math.Max(alpha, best.Value)
			if best.Value >= beta {
				return best, nil
			}
		} else {
			beta = math.Min(beta, best.Value)
			if best.Value <= alpha {
				return best, nil
			}
		}
	}
	return best, nil
}

// Minimax searches depth plies without pruning.
func Minimax(state game.State, depth int, role Role, evaluate game.Evaluate) (Result, error) {
	p := &pass{evaluate: evaluate}
	return p.run(state, depth, role)
}

// AlphaBeta searches depth plies with alpha-beta pruning and an infinite
// window. It returns the same value as Minimax.
func AlphaBeta(state game.State, depth int, role Role, evaluate game.Evaluate) (Result, error) {
	p := &pass{evaluate: evaluate, prune: true}
	return p.run(state, depth, role)
}
