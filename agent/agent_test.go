package agent

import (
	"context"
	"testing"
	"time"

	"avalam/config"
	"avalam/game"
	"avalam/metrics"
	"avalam/searcher"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func smallRecord() game.Record {
	return game.Record{
		M: [][]int{
			{1, -1, 0, 1},
			{-1, 2, -1, 0},
			{0, 1, -1, 1},
			{1, 0, -2, -1},
		},
		Rows:      4,
		MaxHeight: 5,
	}
}

// finishedRecord has no two adjacent towers.
func finishedRecord() game.Record {
	return game.Record{M: [][]int{{1, 0, -1}}, Rows: 1, MaxHeight: 5}
}

func request(record game.Record, player int, timeLeft *float64) Request {
	return Request{Percepts: record, Player: player, Step: 1, TimeLeft: timeLeft}
}

func requireLegal(t *testing.T, record game.Record, action game.Action) {
	board, err := game.FromRecord(record)
	require.NoError(t, err)
	require.True(t, board.IsActionValid(action), "illegal action %s", action)
}

type panicAgent struct{}

func (panicAgent) Play(ctx context.Context, r Request) (game.Action, metrics.SearchMetric, error) {
	panic("corrupted board")
}

type staticAgent struct {
	action game.Action
	err    error
}

func (a staticAgent) Play(ctx context.Context, r Request) (game.Action, metrics.SearchMetric, error) {
	return a.action, metrics.SearchMetric{Strategy: "static"}, a.err
}

func TestRequest(t *testing.T) {
	t.Run("clock", func(t *testing.T) {
		require.Equal(t, searcher.Unbounded, Request{}.Clock())
		require.Equal(t, 1500*time.Millisecond, Request{TimeLeft: Seconds(1500 * time.Millisecond)}.Clock())
		require.Equal(t, time.Duration(0), Request{TimeLeft: Seconds(-time.Second)}.Clock())
	})

	t.Run("decode rejects bad requests", func(t *testing.T) {
		_, _, err := decode(request(smallRecord(), 0, nil))
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, _, err = decode(request(game.Record{M: [][]int{{1, 2}, {3}}}, 1, nil))
		require.ErrorIs(t, err, ErrInvalidRequest)

		_, role, err := decode(request(smallRecord(), -1, nil))
		require.NoError(t, err)
		require.Equal(t, searcher.Minimizer, role)
	})
}

func TestSearchAgents(t *testing.T) {
	logger := zerolog.Nop()
	agents := map[string]Agent{
		"iterative": NewIterativeAgent(searcher.NewScheduler(200*time.Millisecond), searcher.NewDeepener(), logger),
		"minimax":   NewMinimaxAgent(2, game.EvaluateMaterial, logger),
		"alphabeta": NewAlphaBetaAgent(3, game.EvaluateTowers, logger),
		"mcts":      NewMCTSAgent(searcher.NewMCTS(searcher.WithEpisodes(100), searcher.WithSeed(5)), logger),
		"random":    NewRandomAgent(5),
	}

	for name, a := range agents {
		t.Run(name+" plays a legal action", func(t *testing.T) {
			for _, player := range []int{1, -1} {
				action, _, err := a.Play(context.Background(), request(smallRecord(), player, Seconds(30*time.Second)))

				require.NoError(t, err)
				requireLegal(t, smallRecord(), action)
			}
		})

		t.Run(name+" has no action on a finished board", func(t *testing.T) {
			_, _, err := a.Play(context.Background(), request(finishedRecord(), 1, nil))

			require.ErrorIs(t, err, ErrNoAction)
		})

		t.Run(name+" rejects an unknown player", func(t *testing.T) {
			_, _, err := a.Play(context.Background(), request(smallRecord(), 2, nil))

			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	t.Run("pruning does not change the fixed-depth choice", func(t *testing.T) {
		for _, player := range []int{1, -1} {
			plain, _, err := NewMinimaxAgent(2, game.EvaluateTowers, logger).Play(context.Background(), request(smallRecord(), player, nil))
			require.NoError(t, err)
			pruned, metric, err := NewAlphaBetaAgent(2, game.EvaluateTowers, logger).Play(context.Background(), request(smallRecord(), player, nil))
			require.NoError(t, err)

			require.Equal(t, plain, pruned)
			require.Equal(t, "alphabeta", metric.Strategy)
		}
	})

	t.Run("iterative agent reports its search", func(t *testing.T) {
		deepener := searcher.NewDeepener(searcher.WithMetrics(metrics.NewCollector()))
		a := NewIterativeAgent(searcher.NewScheduler(0), deepener, logger)

		_, metric, err := a.Play(context.Background(), request(smallRecord(), 1, Seconds(20*time.Second)))

		require.NoError(t, err)
		require.Equal(t, "iterative", metric.Strategy)
		require.Equal(t, 3, metric.StartDepth, "A fresh clock allows the usual depth")
		require.GreaterOrEqual(t, metric.Depth, 3)
	})

	t.Run("random agent is reproducible", func(t *testing.T) {
		a, _, err := NewRandomAgent(9).Play(context.Background(), request(smallRecord(), 1, nil))
		require.NoError(t, err)
		b, _, err := NewRandomAgent(9).Play(context.Background(), request(smallRecord(), 1, nil))
		require.NoError(t, err)

		require.Equal(t, a, b)
	})
}

func TestGuard(t *testing.T) {
	t.Run("recovers a panic", func(t *testing.T) {
		g := Guard(panicAgent{}, zerolog.Nop())

		var err error
		require.NotPanics(t, func() {
			_, _, err = g.Play(context.Background(), request(smallRecord(), 1, nil))
		})
		require.ErrorIs(t, err, ErrInternal)
	})

	t.Run("passes results through", func(t *testing.T) {
		want := game.Action{FromRow: 1, FromCol: 1, ToRow: 0, ToCol: 0}
		action, metric, err := Guard(staticAgent{action: want}, zerolog.Nop()).Play(context.Background(), Request{})

		require.NoError(t, err)
		require.Equal(t, want, action)
		require.Equal(t, "static", metric.Strategy)

		_, _, err = Guard(staticAgent{err: ErrNoAction}, zerolog.Nop()).Play(context.Background(), Request{})
		require.ErrorIs(t, err, ErrNoAction)
	})
}

func TestNew(t *testing.T) {
	t.Run("every configured strategy", func(t *testing.T) {
		for _, cfg := range config.Default().Agents {
			a, err := New(cfg, zerolog.Nop())
			require.NoError(t, err, cfg.Name)

			action, _, err := a.Play(context.Background(), request(smallRecord(), 1, Seconds(time.Minute)))
			require.NoError(t, err, cfg.Name)
			requireLegal(t, smallRecord(), action)
		}
	})

	t.Run("mcts bounded by duration only", func(t *testing.T) {
		cfg := config.AgentConfig{ID: 1, Name: "timed", Strategy: config.MCTS, Duration: 20 * time.Millisecond, Seed: 1, Cutoff: 5}

		a, err := New(cfg, zerolog.Nop())
		require.NoError(t, err)

		_, _, err = a.Play(context.Background(), request(smallRecord(), -1, nil))
		require.NoError(t, err)
	})

	t.Run("custom weights", func(t *testing.T) {
		cfg := config.AgentConfig{ID: 1, Name: "weighted", Strategy: config.AlphaBeta, Depth: 1, Weights: &game.Weights{Material: 1}}

		a, err := New(cfg, zerolog.Nop())
		require.NoError(t, err)

		_, _, err = a.Play(context.Background(), request(smallRecord(), 1, nil))
		require.NoError(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := New(config.AgentConfig{ID: 1, Name: "x", Strategy: "greedy"}, zerolog.Nop())

		require.Error(t, err)
	})
}
