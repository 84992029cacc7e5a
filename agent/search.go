package agent

import (
	"context"
	"time"

	"avalam/game"
	"avalam/metrics"
	"avalam/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// iterativeAgent plays within the match clock: the scheduler picks a starting
// depth and an allowance, the deepener searches as deep as that allows.
type iterativeAgent struct {
	scheduler *searcher.Scheduler
	deepener  *searcher.Deepener
	logger    zerolog.Logger
}

func NewIterativeAgent(scheduler *searcher.Scheduler, deepener *searcher.Deepener, logger zerolog.Logger) Agent {
	return &iterativeAgent{scheduler: scheduler, deepener: deepener, logger: logger}
}

func (a *iterativeAgent) Play(ctx context.Context, r Request) (game.Action, metrics.SearchMetric, error) {
	board, role, err := decode(r)
	if err != nil {
		return game.Action{}, metrics.SearchMetric{}, err
	}
	if board.IsFinished() {
		return game.Action{}, metrics.SearchMetric{}, ErrNoAction
	}

	plan := a.scheduler.Plan(r.Clock())
	a.logger.Info().Msgf("step %d: %s left, searching from depth %d for %s", r.Step, r.Clock(), plan.Depth, plan.Allowance)

	result, metric, err := a.deepener.Run(ctx, board, role, plan.Depth, plan.Allowance)
	if err != nil {
		return game.Action{}, metric, err
	}
	if !result.Found {
		return game.Action{}, metric, ErrNoAction
	}
	a.logger.Info().Msgf("step %d: chose %s, value %.2f at depth %d in %s", r.Step, result.Action, result.Value, metric.Depth, metric.Duration)
	return result.Action, metric, nil
}

// fixedDepthAgent always searches the same number of plies.
type fixedDepthAgent struct {
	depth    int
	prune    bool
	evaluate game.Evaluate
	logger   zerolog.Logger
}

// NewMinimaxAgent searches depth plies without pruning.
func NewMinimaxAgent(depth int, evaluate game.Evaluate, logger zerolog.Logger) Agent {
	return &fixedDepthAgent{depth: depth, evaluate: evaluate, logger: logger}
}

// NewAlphaBetaAgent searches depth plies with alpha-beta pruning.
func NewAlphaBetaAgent(depth int, evaluate game.Evaluate, logger zerolog.Logger) Agent {
	return &fixedDepthAgent{depth: depth, prune: true, evaluate: evaluate, logger: logger}
}

func (a *fixedDepthAgent) strategy() string {
	if a.prune {
		return "alphabeta"
	}
	return "minimax"
}

func (a *fixedDepthAgent) Play(ctx context.Context, r Request) (game.Action, metrics.SearchMetric, error) {
	board, role, err := decode(r)
	if err != nil {
		return game.Action{}, metrics.SearchMetric{}, err
	}
	if board.IsFinished() {
		return game.Action{}, metrics.SearchMetric{}, ErrNoAction
	}

	search := searcher.Minimax
	if a.prune {
		search = searcher.AlphaBeta
	}

	start := time.Now()
	result, err := search(board, a.depth, role, a.evaluate)
	metric := metrics.SearchMetric{
		Strategy:   a.strategy(),
		Duration:   time.Since(start),
		StartDepth: a.depth,
		Depth:      a.depth,
		Passes:     1,
	}
	if err != nil {
		return game.Action{}, metric, errors.Wrapf(err, "%s search failed", a.strategy())
	}
	if !result.Found {
		return game.Action{}, metric, ErrNoAction
	}
	a.logger.Debug().Msgf("step %d: chose %s, value %.2f", r.Step, result.Action, result.Value)
	return result.Action, metric, nil
}

type mctsAgent struct {
	mcts   *searcher.MCTS
	logger zerolog.Logger
}

func NewMCTSAgent(mcts *searcher.MCTS, logger zerolog.Logger) Agent {
	return &mctsAgent{mcts: mcts, logger: logger}
}

func (a *mctsAgent) Play(ctx context.Context, r Request) (game.Action, metrics.SearchMetric, error) {
	board, role, err := decode(r)
	if err != nil {
		return game.Action{}, metrics.SearchMetric{}, err
	}
	if board.IsFinished() {
		return game.Action{}, metrics.SearchMetric{}, ErrNoAction
	}

	result, metric, err := a.mcts.Search(ctx, board, role)
	if err != nil {
		return game.Action{}, metric, err
	}
	if !result.Found {
		return game.Action{}, metric, ErrNoAction
	}
	a.logger.Debug().Msgf("step %d: chose %s after %d episodes, mean reward %.2f", r.Step, result.Action, metric.Episodes, result.Value)
	return result.Action, metric, nil
}
