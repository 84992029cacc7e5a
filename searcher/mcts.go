package searcher

import (
	"context"
	"time"

	"avalam/game"
	"avalam/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// MCTS is a single-threaded UCT search. Each decision runs a number of
// episodes (selection, expansion, rollout, backup) bounded by WithEpisodes,
// WithDuration or both, whichever runs out first.
type MCTS struct {
	episodes    int
	duration    time.Duration
	cutoff      int
	exploration float64
	reuse       bool
	evaluate    game.Evaluate
	rng         *rand.Rand
	logger      zerolog.Logger
	metrics     metrics.Collector
	clock       func() time.Time
	tree        *tree
}

func NewMCTS(options ...Option) *MCTS {
	o := newOptions(options)
	if o.episodes <= 0 && o.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return &MCTS{
		episodes:    o.episodes,
		duration:    o.duration,
		cutoff:      o.cutoff,
		exploration: o.exploration,
		reuse:       o.reuse,
		evaluate:    o.evaluate,
		rng:         rand.New(rand.NewSource(o.seed)),
		logger:      o.logger,
		metrics:     o.metrics,
		clock:       o.clock,
	}
}

// Search returns the most visited action at the root. Result.Value is the
// mean reward of that action for role, between Loss and Win.
func (m *MCTS) Search(ctx context.Context, state game.State, role Role) (Result, metrics.SearchMetric, error) {
	m.metrics.Start("mcts", 0, m.duration)
	m.findRoot(state, role)

	if err := m.run(ctx, role); err != nil {
		m.tree = nil
		return Result{}, m.metrics.Complete(), err
	}

	result := Result{}
	if best, ok := m.tree.mostVisited(); ok {
		result = Result{
			Value:  best.rewards / float64(best.visits),
			Action: best.action,
			Found:  true,
		}
		m.logger.Debug().Msgf("selected %s with %d of %d visits, tree size %d",
			best.action, best.visits, m.tree.root().visits, m.tree.size())
	}
	if !m.reuse {
		m.tree = nil
	}
	return result, m.metrics.Complete(), nil
}

func (m *MCTS) findRoot(state game.State, role Role) {
	if m.tree != nil && m.tree.role == role {
		if id, ok := m.tree.find(state); ok {
			m.tree = m.tree.subtree(id)
			m.metrics.SetTreeReset(false)
			m.logger.Debug().Msgf("reusing subtree with %d visits", m.tree.root().visits)
			return
		}
	}
	m.tree = newTree(state.Clone(), role)
	m.metrics.SetTreeReset(true)
}

func (m *MCTS) run(ctx context.Context, role Role) error {
	start := m.clock()
	for i := 0; m.episodes <= 0 || i < m.episodes; i++ {
		// At least one episode so that a legal action is always found
		if i > 0 {
			if m.duration > 0 && m.clock().Sub(start) >= m.duration {
				break
			}
			if ctx.Err() != nil {
				break
			}
		}
		if err := m.simulate(role); err != nil {
			return err
		}
		m.metrics.AddEpisode()
	}
	return nil
}

func (m *MCTS) simulate(role Role) error {
	leaf, err := m.tree.selectThenExpand(m.exploration)
	if err != nil {
		return err
	}
	reward, err := m.rollout(m.tree.nodes[leaf].state, role)
	if err != nil {
		return err
	}
	m.tree.backup(leaf, reward)
	return nil
}

// rollout plays uniformly random actions until the game is over or the cutoff
// is reached, and scores the outcome for role.
func (m *MCTS) rollout(state game.State, role Role) (float64, error) {
	state = state.Clone()
	depth := 0
	actions := state.Actions()
	// Rollout till game over or for cutoff number of moves
	for len(actions) > 0 && (m.cutoff == 0 || depth < m.cutoff) {
		action := actions[m.rng.Intn(len(actions))] // Random rollout policy
		if err := state.Play(action); err != nil {
			return 0, errors.Wrapf(err, "failed to play rollout action %s", action)
		}
		actions = state.Actions()
		depth++
	}

	if len(actions) == 0 { // Game over before cutoff
		m.metrics.AddFullPlayout()
		return outcome(float64(state.Score()) * role.Sign()), nil
	}

	// At cutoff state, score the evaluation
	return outcome(m.evaluate(state) * role.Sign()), nil
}
