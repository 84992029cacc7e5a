package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"avalam/agent"
	"avalam/config"
	"avalam/engine"
	"avalam/experiments"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "serve", "serve, match or experiment")
	configPath := flag.String("config", "", "YAML configuration file, defaults when empty")
	port := flag.Int("port", 0, "port of the agent server, overrides the configuration")
	agentName := flag.String("agent", "", "agent served, overrides the configuration")
	first := flag.String("first", "iterative", "agent playing +1 in a match")
	second := flag.String("second", "random", "agent playing -1 in a match")
	experiment := flag.String("experiment", "roundrobin", "roundrobin or selfplay")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *agentName != "" {
		cfg.Server.Agent = *agentName
	}
	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch *mode {
	case "serve":
		err = serve(ctx, cfg)
	case "match":
		err = match(ctx, cfg, *first, *second)
	case "experiment":
		err = runExperiment(ctx, cfg, *experiment)
	default:
		err = errors.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newAgent(cfg *config.Config, name string) (agent.Agent, error) {
	a, ok := cfg.Agent(name)
	if !ok {
		return nil, errors.Errorf("agent %q is not configured", name)
	}
	return agent.New(a, log.Logger)
}

func serve(ctx context.Context, cfg *config.Config) error {
	a, err := newAgent(cfg, cfg.Server.Agent)
	if err != nil {
		return err
	}
	return agent.NewServer(a, log.Logger).ListenAndServe(ctx, cfg.Server.Port)
}

func match(ctx context.Context, cfg *config.Config, first, second string) error {
	a, err := newAgent(cfg, first)
	if err != nil {
		return err
	}
	b, err := newAgent(cfg, second)
	if err != nil {
		return err
	}

	options := []engine.Option{
		engine.WithTimeCredit(cfg.Match.TimeCredit),
		engine.WithMaxSteps(cfg.Match.MaxSteps),
		engine.WithLogger(log.Logger),
	}
	if cfg.Match.Render {
		options = append(options, engine.WithRenderer(os.Stdout, termenv.ColorProfile()))
	}
	result, err := engine.NewMatch(a, b, options...).Run(ctx)
	if err != nil {
		return err
	}

	log.Info().Msgf("%s vs %s: winner %d, score %d, forfeit %t, %d moves in %s",
		first, second, result.Game.Winner, result.Game.Score, result.Game.Forfeit, result.Game.TotalMoves, result.Game.Duration)
	return nil
}

func runExperiment(ctx context.Context, cfg *config.Config, name string) error {
	var pairings []experiments.Pairing
	switch name {
	case "roundrobin":
		pairings = experiments.RoundRobin(cfg.Agents)
	case "selfplay":
		pairings = experiments.SelfPlay(cfg.Agents)
	default:
		return errors.Errorf("unknown experiment %q", name)
	}

	arena := experiments.NewArena(cfg.Match, log.Logger)
	report, err := arena.Run(ctx, pairings)
	if err != nil {
		return err
	}
	if _, err := arena.Write(name, report); err != nil {
		return err
	}

	for _, s := range experiments.Standings(report.Games) {
		log.Info().Msgf("agent %d: %.1f points, %d wins, %d draws, %d losses (%d forfeits)",
			s.Agent, s.Points(), s.Wins, s.Draws, s.Losses, s.Forfeits)
	}
	for _, t := range experiments.MeasureThroughput(report.Moves) {
		log.Info().Msgf("%s: %d moves, %.0f nodes/s, %.0f episodes/s, mean depth %.1f, %d aborted passes",
			t.Strategy, t.Moves, t.NodesPerSecond, t.EpisodesPerSecond, t.MeanDepth, t.AbortedPasses)
	}
	return nil
}
