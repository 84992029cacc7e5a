package agent

import (
	"context"
	"fmt"
	"runtime/debug"

	"avalam/game"
	"avalam/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type guard struct {
	agent  Agent
	logger zerolog.Logger
}

// Guard recovers a panicking agent. The panic is logged with its stack and
// the harness gets ErrInternal instead of a crash.
func Guard(agent Agent, logger zerolog.Logger) Agent {
	return &guard{agent: agent, logger: logger}
}

func (g *guard) Play(ctx context.Context, r Request) (action game.Action, metric metrics.SearchMetric, err error) {
	defer func() {
		if p := recover(); p != nil {
			g.logger.Error().Str("stack", string(debug.Stack())).Msgf("agent panicked at step %d: %v", r.Step, p)
			action = game.Action{}
			err = errors.Wrap(ErrInternal, fmt.Sprint(p))
		}
	}()

	action, metric, err = g.agent.Play(ctx, r)
	if err != nil && !errors.Is(err, ErrNoAction) {
		g.logger.Error().Err(err).Msgf("agent failed at step %d", r.Step)
	}
	return action, metric, err
}
