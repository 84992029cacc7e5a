package searcher

import (
	"context"
	"testing"
	"time"

	"avalam/game"
	"avalam/metrics"

	"github.com/stretchr/testify/require"
)

// deceptiveTree favors action 0 at depth 1 and action 1 at depth 2.
func deceptiveTree() *mockNode {
	return number(branch(0,
		branch(10, leaf(-5)),
		branch(0, leaf(3)),
	))
}

func TestDeepenerRun(t *testing.T) {
	t.Run("deeper pass supersedes the shallower one", func(t *testing.T) {
		clock := newFakeClock()
		collector := metrics.NewCollector()
		d := NewDeepener(WithEvaluationFn(mockEvaluate), WithClock(clock.Now), WithMetrics(collector))

		got, metric, err := d.Run(context.Background(), &mockState{node: deceptiveTree()}, Maximizer, 1, time.Second)

		require.NoError(t, err)
		require.Equal(t, game.Action{FromRow: 1}, got.Action)
		require.Equal(t, 3.0, got.Value)
		require.Equal(t, 2, metric.Depth, "Should stop once the tree is exhausted")
		require.Equal(t, 2, metric.Passes)
		require.False(t, metric.AbortedPass)
	})

	t.Run("aborted pass keeps the previous action", func(t *testing.T) {
		clock := newFakeClock()
		collector := metrics.NewCollector()
		d := NewDeepener(WithEvaluationFn(mockEvaluate), WithClock(clock.Now), WithMetrics(collector))
		plays := 0
		state := &mockState{node: deceptiveTree(), onPlay: func() {
			// The first pass plays both root actions, every later play is slow
			plays++
			if plays > 2 {
				clock.Advance(time.Hour)
			}
		}}

		got, metric, err := d.Run(context.Background(), state, Maximizer, 1, time.Second)

		require.NoError(t, err)
		require.Equal(t, game.Action{FromRow: 0}, got.Action)
		require.Equal(t, 10.0, got.Value)
		require.Equal(t, 1, metric.Depth)
		require.True(t, metric.AbortedPass)
	})

	t.Run("first pass completes past the allowance and stops deepening", func(t *testing.T) {
		clock := newFakeClock()
		d := NewDeepener(WithEvaluationFn(mockEvaluate), WithClock(clock.Now))
		state := &mockState{node: deceptiveTree(), onPlay: func() { clock.Advance(time.Hour) }}

		got, _, err := d.Run(context.Background(), state, Maximizer, 1, time.Second)

		require.NoError(t, err)
		require.True(t, got.Found)
		require.Equal(t, game.Action{FromRow: 0}, got.Action)
	})

	t.Run("thin margin after the first pass stops deepening", func(t *testing.T) {
		clock := newFakeClock()
		collector := metrics.NewCollector()
		d := NewDeepener(WithEvaluationFn(mockEvaluate), WithClock(clock.Now), WithMetrics(collector))
		// 2 plays of 200ms leave 60% of the allowance
		state := &mockState{node: deceptiveTree(), onPlay: func() { clock.Advance(200 * time.Millisecond) }}

		got, metric, err := d.Run(context.Background(), state, Maximizer, 1, time.Second)

		require.NoError(t, err)
		require.Equal(t, game.Action{FromRow: 0}, got.Action)
		require.Equal(t, 1, metric.Passes)
	})

	t.Run("unaffordable next depth stops deepening", func(t *testing.T) {
		root := number(branch(0,
			branch(10, branch(0, leaf(0))),
			branch(0, branch(0, leaf(0))),
		))
		clock := newFakeClock()
		collector := metrics.NewCollector()
		d := NewDeepener(WithEvaluationFn(mockEvaluate), WithClock(clock.Now), WithMetrics(collector))
		plays := 0
		state := &mockState{node: root, onPlay: func() {
			// Free first pass, then 150ms per play: the depth 2 pass takes
			// 600ms and 1.5 times that exceeds the 400ms left
			plays++
			if plays > 2 {
				clock.Advance(150 * time.Millisecond)
			}
		}}

		_, metric, err := d.Run(context.Background(), state, Maximizer, 1, time.Second)

		require.NoError(t, err)
		require.Equal(t, 2, metric.Passes)
		require.Equal(t, 2, metric.Depth)
	})

	t.Run("single legal action", func(t *testing.T) {
		d := NewDeepener(WithEvaluationFn(mockEvaluate))

		got, _, err := d.Run(context.Background(), &mockState{node: number(branch(0, branch(1, leaf(2), leaf(-2))))}, Minimizer, 1, time.Second)

		require.NoError(t, err)
		require.True(t, got.Found)
		require.Equal(t, game.Action{FromRow: 0}, got.Action)
	})

	t.Run("terminal root has no action", func(t *testing.T) {
		d := NewDeepener(WithEvaluationFn(mockEvaluate))

		got, _, err := d.Run(context.Background(), &mockState{node: number(leaf(2))}, Minimizer, 3, time.Second)

		require.NoError(t, err)
		require.False(t, got.Found)
	})

	t.Run("cancelled context stops after the first pass", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		clock := newFakeClock()
		collector := metrics.NewCollector()
		d := NewDeepener(WithEvaluationFn(mockEvaluate), WithClock(clock.Now), WithMetrics(collector))

		got, metric, err := d.Run(ctx, &mockState{node: deceptiveTree()}, Maximizer, 1, time.Second)

		require.NoError(t, err)
		require.Equal(t, game.Action{FromRow: 0}, got.Action)
		require.Equal(t, 1, metric.Passes)
	})

	t.Run("real board within a generous allowance", func(t *testing.T) {
		d := NewDeepener()

		got, _, err := d.Run(context.Background(), smallBoard(), Minimizer, 1, 200*time.Millisecond)

		require.NoError(t, err)
		require.True(t, got.Found)
		require.True(t, smallBoard().IsActionValid(got.Action))
	})
}
