package searcher

import (
	"context"
	"time"

	"avalam/game"
	"avalam/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// A deeper pass is only attempted when at least this share of the
	// allowance is left after the first pass.
	deepeningMargin = 0.7
	// The next pass is assumed to cost at least this many times the last one.
	deepeningGrowth = 1.5
)

// Deepener runs timed alpha-beta passes at increasing depth and keeps the
// action of the deepest pass that completed.
type Deepener struct {
	evaluate game.Evaluate
	clock    func() time.Time
	logger   zerolog.Logger
	metrics  metrics.Collector
}

func NewDeepener(options ...Option) *Deepener {
	o := newOptions(options)
	return &Deepener{
		evaluate: o.evaluate,
		clock:    o.clock,
		logger:   o.logger,
		metrics:  o.metrics,
	}
}

func (d *Deepener) newPass(budget time.Duration, mustComplete bool) *pass {
	return &pass{
		evaluate:     d.evaluate,
		prune:        true,
		timed:        true,
		mustComplete: mustComplete,
		clock:        d.clock,
		start:        d.clock(),
		budget:       budget,
	}
}

// Run searches state for role within allowance. The first pass at minDepth
// always completes, even past the allowance, so callers must pick a minDepth
// they can afford. ctx is checked between passes.
func (d *Deepener) Run(ctx context.Context, state game.State, role Role, minDepth int, allowance time.Duration) (Result, metrics.SearchMetric, error) {
	d.metrics.Start("iterative", minDepth, allowance)
	best, err := d.deepen(ctx, state, role, minDepth, allowance)
	return best, d.metrics.Complete(), err
}

func (d *Deepener) deepen(ctx context.Context, state game.State, role Role, minDepth int, allowance time.Duration) (Result, error) {
	start := d.clock()
	remaining := func() time.Duration { return allowance - d.clock().Sub(start) }

	d.logger.Debug().Msgf("running first pass at depth %d with %s available", minDepth, allowance)
	first := d.newPass(allowance, true)
	best, err := first.run(state, minDepth, role)
	d.metrics.AddNodes(first.nodes)
	if err != nil {
		return Result{}, errors.Wrapf(err, "first pass at depth %d failed", minDepth)
	}
	d.metrics.AddPass(minDepth, false)
	d.logger.Debug().Msgf("depth %d done, action %s value %.2f", minDepth, best.Action, best.Value)

	left := remaining()
	if allowance <= 0 || float64(left)/float64(allowance) < deepeningMargin {
		return best, nil
	}

	exhausted := first.exhausted()
	for depth := minDepth + 1; left > 0 && !exhausted; depth++ {
		if ctx.Err() != nil {
			d.logger.Debug().Msg("search cancelled between passes")
			break
		}

		d.logger.Debug().Msgf("running pass at depth %d with %s left", depth, left)
		p := d.newPass(left, false)
		r, err := p.run(state, depth, role)
		elapsed := d.clock().Sub(p.start)
		d.metrics.AddNodes(p.nodes)
		if errors.Is(err, ErrDeadline) {
			d.metrics.AddPass(depth, true)
			d.logger.Debug().Msgf("time ran out, discarding depth %d", depth)
			break
		}
		if err != nil {
			return best, errors.Wrapf(err, "pass at depth %d failed", depth)
		}
		d.metrics.AddPass(depth, false)

		// The deepest completed pass wins regardless of its value
		if r.Found {
			best = r
		}
		d.logger.Debug().Msgf("depth %d done, action %s value %.2f", depth, best.Action, best.Value)

		left = remaining()
		exhausted = p.exhausted()
		if time.Duration(float64(elapsed)*deepeningGrowth) > left {
			d.logger.Debug().Msgf("not trying depth %d: %s left, last pass took %s", depth+1, left, elapsed)
			break
		}
	}
	return best, nil
}
