package experiments

import (
	"context"

	"avalam/agent"
	"avalam/config"
	"avalam/engine"
	"avalam/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Pairing is one matchup. First plays +1 and moves first.
type Pairing struct {
	First  config.AgentConfig
	Second config.AgentConfig
}

// RoundRobin pairs every agent against every other one, once with each color.
func RoundRobin(agents []config.AgentConfig) []Pairing {
	pairings := []Pairing{}
	for i, first := range agents {
		for j, second := range agents {
			if i != j {
				pairings = append(pairings, Pairing{First: first, Second: second})
			}
		}
	}
	return pairings
}

// SelfPlay pairs every agent against itself, for the same playing strength
// and similar game length on both sides.
func SelfPlay(agents []config.AgentConfig) []Pairing {
	return lo.Map(agents, func(a config.AgentConfig, _ int) Pairing {
		return Pairing{First: a, Second: a}
	})
}

// Factory builds a fresh agent for one side of one game.
type Factory func(cfg config.AgentConfig, logger zerolog.Logger) (agent.Agent, error)

type Arena struct {
	match    config.MatchConfig
	logger   zerolog.Logger
	newAgent Factory
}

func NewArena(match config.MatchConfig, logger zerolog.Logger) *Arena {
	return &Arena{match: match, logger: logger, newAgent: agent.New}
}

// WithFactory replaces the agent factory.
func (a *Arena) WithFactory(f Factory) *Arena {
	a.newAgent = f
	return a
}

type Report struct {
	Agents []metrics.AgentRecord
	Games  []metrics.GameRecord
	Moves  []metrics.MoveRecord
}

type job struct {
	id      int
	pairing Pairing
}

// Run plays match.Games games per pairing, match.Concurrency at a time. The
// first failing game cancels the others.
func (a *Arena) Run(ctx context.Context, pairings []Pairing) (Report, error) {
	games := max(a.match.Games, 1)
	jobs := []job{}
	for _, p := range pairings {
		for i := 0; i < games; i++ {
			jobs = append(jobs, job{id: len(jobs) + 1, pairing: p})
		}
	}

	a.logger.Info().Msgf("starting %d games over %d pairings", len(jobs), len(pairings))
	results := make([]engine.Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.match.Concurrency, 1))
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			result, err := a.play(ctx, j)
			if err != nil {
				return errors.Wrapf(err, "game %d failed", j.id)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	a.logger.Info().Msgf("completed %d games", len(jobs))

	return a.report(pairings, jobs, results), nil
}

func (a *Arena) play(ctx context.Context, j job) (engine.Result, error) {
	logger := a.logger.With().Int("game", j.id).Logger()
	first, err := a.newAgent(j.pairing.First, logger)
	if err != nil {
		return engine.Result{}, errors.Wrapf(err, "failed to create agent %s", j.pairing.First.Name)
	}
	second, err := a.newAgent(j.pairing.Second, logger)
	if err != nil {
		return engine.Result{}, errors.Wrapf(err, "failed to create agent %s", j.pairing.Second.Name)
	}

	logger.Info().Msgf("starting %s vs %s", j.pairing.First.Name, j.pairing.Second.Name)
	m := engine.NewMatch(first, second,
		engine.WithTimeCredit(a.match.TimeCredit),
		engine.WithMaxSteps(a.match.MaxSteps),
		engine.WithLogger(logger),
	)
	result, err := m.Run(ctx)
	if err != nil {
		return engine.Result{}, err
	}
	logger.Info().Msgf("completed %s vs %s with winner %d, score %d", j.pairing.First.Name, j.pairing.Second.Name, result.Game.Winner, result.Game.Score)
	return result, nil
}

func (a *Arena) report(pairings []Pairing, jobs []job, results []engine.Result) Report {
	configs := lo.UniqBy(lo.FlatMap(pairings, func(p Pairing, _ int) []config.AgentConfig {
		return []config.AgentConfig{p.First, p.Second}
	}), func(c config.AgentConfig) int {
		return c.ID
	})

	report := Report{
		Agents: lo.Map(configs, func(c config.AgentConfig, _ int) metrics.AgentRecord {
			return metrics.AgentRecord{
				ID:       c.ID,
				Name:     c.Name,
				Strategy: c.Strategy,
				Depth:    c.Depth,
				Episodes: c.Episodes,
				Duration: c.Duration,
				Cutoff:   c.Cutoff,
			}
		}),
	}
	for i, j := range jobs {
		report.Games = append(report.Games, metrics.GameRecord{
			ID:         j.id,
			Agent1:     j.pairing.First.ID,
			Agent2:     j.pairing.Second.ID,
			GameMetric: results[i].Game,
		})
		for _, mm := range results[i].Moves {
			report.Moves = append(report.Moves, metrics.MoveRecord{Game: j.id, MoveMetric: mm})
		}
	}
	return report
}

// Write stores the report under <match.output>/<name>/<timestamp> and returns
// that directory.
func (a *Arena) Write(name string, report Report) (string, error) {
	writer, err := metrics.NewWriter(a.match.Output, name)
	if err != nil {
		return "", errors.Wrap(err, "failed to create experiment writer")
	}
	if err := writer.WriteAgentRecords(report.Agents); err != nil {
		return "", err
	}
	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", err
	}
	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return "", err
	}
	a.logger.Info().Msgf("stored %s experiment records in %s", name, writer.Dir())
	return writer.Dir(), nil
}
