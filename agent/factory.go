package agent

import (
	"net/http"
	"time"

	"avalam/config"
	"avalam/game"
	"avalam/metrics"
	"avalam/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultMinimaxDepth   = 2
	DefaultAlphaBetaDepth = 3
	remoteTimeout         = 10 * time.Minute
)

// New builds a fresh agent from its configuration, wrapped in a Guard. Agents
// keep state between moves, so every game needs its own.
func New(cfg config.AgentConfig, logger zerolog.Logger) (Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logger.With().Str("agent", cfg.Name).Logger()

	evaluate := game.EvaluateTowers
	if cfg.Weights != nil {
		evaluate = game.NewTowerEvaluator(*cfg.Weights)
	}

	var a Agent
	switch cfg.Strategy {
	case config.Iterative:
		deepener := searcher.NewDeepener(
			searcher.WithEvaluationFn(evaluate),
			searcher.WithLogger(logger),
			searcher.WithMetrics(metrics.NewCollector()),
		)
		a = NewIterativeAgent(searcher.NewScheduler(cfg.UnboundedAllowance), deepener, logger)

	case config.Minimax:
		depth := cfg.Depth
		if depth == 0 {
			depth = DefaultMinimaxDepth
		}
		// The original baseline scores positions by tower count alone
		if cfg.Weights == nil {
			evaluate = game.EvaluateMaterial
		}
		a = NewMinimaxAgent(depth, evaluate, logger)

	case config.AlphaBeta:
		depth := cfg.Depth
		if depth == 0 {
			depth = DefaultAlphaBetaDepth
		}
		a = NewAlphaBetaAgent(depth, evaluate, logger)

	case config.MCTS:
		options := []searcher.Option{
			searcher.WithEvaluationFn(evaluate),
			searcher.WithLogger(logger),
			searcher.WithMetrics(metrics.NewCollector()),
		}
		if cfg.Episodes > 0 || cfg.Duration > 0 {
			// An explicit duration without episodes bounds by time only
			options = append(options, searcher.WithEpisodes(cfg.Episodes))
		}
		if cfg.Duration > 0 {
			options = append(options, searcher.WithDuration(cfg.Duration))
		}
		if cfg.Cutoff > 0 {
			options = append(options, searcher.WithCutoff(cfg.Cutoff))
		}
		if cfg.Exploration > 0 {
			options = append(options, searcher.WithExploration(cfg.Exploration))
		}
		if cfg.Seed != 0 {
			options = append(options, searcher.WithSeed(cfg.Seed))
		}
		if cfg.ReuseTree {
			options = append(options, searcher.WithTreeReuse())
		}
		a = NewMCTSAgent(searcher.NewMCTS(options...), logger)

	case config.Random:
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		a = NewRandomAgent(seed)

	case config.Remote:
		a = NewRemoteAgent(cfg.URL, &http.Client{Timeout: remoteTimeout})

	default:
		return nil, errors.Errorf("unknown strategy %q", cfg.Strategy)
	}
	return Guard(a, logger), nil
}
