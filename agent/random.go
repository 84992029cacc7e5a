package agent

import (
	"context"
	"sync"

	"avalam/game"
	"avalam/metrics"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent plays a uniformly random legal action. It is the baseline
// opponent of the arenas.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) Play(ctx context.Context, r Request) (game.Action, metrics.SearchMetric, error) {
	board, _, err := decode(r)
	if err != nil {
		return game.Action{}, metrics.SearchMetric{}, err
	}
	actions := board.Actions()
	if len(actions) == 0 {
		return game.Action{}, metrics.SearchMetric{}, ErrNoAction
	}

	a.mu.Lock()
	action := actions[a.rng.Intn(len(actions))]
	a.mu.Unlock()
	return action, metrics.SearchMetric{Strategy: "random"}, nil
}
