package searcher

import (
	"time"

	"avalam/game"
	"avalam/metrics"

	"github.com/rs/zerolog"
)

// Hyperparameters for MCTS

const DefaultEpisodes = 1000

const DefaultExploration = 1.41

type Option func(o *options)

type options struct {
	episodes    int
	duration    time.Duration
	cutoff      int
	exploration float64
	seed        uint64
	reuse       bool
	evaluate    game.Evaluate
	logger      zerolog.Logger
	metrics     metrics.Collector
	clock       func() time.Time
}

func newOptions(opts []Option) options {
	o := options{ // Default values
		episodes:    DefaultEpisodes,
		exploration: DefaultExploration,
		seed:        uint64(time.Now().UnixNano()),
		evaluate:    game.EvaluateTowers,
		logger:      zerolog.Nop(),
		metrics:     metrics.NewDummyCollector(),
		clock:       time.Now,
	}
	for _, option := range opts {
		option(&o)
	}
	return o
}

// WithEpisodes sets the number of MCTS simulations per decision. Zero leaves
// the search bounded by WithDuration only.
func WithEpisodes(episodes int) Option {
	return func(o *options) {
		if episodes >= 0 {
			o.episodes = episodes
		}
	}
}

// WithDuration bounds each MCTS decision by wall-clock time.
func WithDuration(duration time.Duration) Option {
	return func(o *options) {
		if duration > 0 {
			o.duration = duration
		}
	}
}

// WithCutoff stops rollouts after depth moves and scores them with the
// evaluation function instead of the final tower count.
func WithCutoff(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.cutoff = depth
		}
	}
}

func WithExploration(c float64) Option {
	return func(o *options) {
		if c > 0 {
			o.exploration = c
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithTreeReuse keeps the MCTS tree between decisions and restarts from the
// subtree matching the next position when there is one.
func WithTreeReuse() Option {
	return func(o *options) {
		o.reuse = true
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(o *options) {
		if evaluate != nil {
			o.evaluate = evaluate
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(o *options) {
		if collector != nil {
			o.metrics = collector
		}
	}
}

// WithClock replaces the monotonic clock polled by timed searches.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}
