package engine

import (
	"context"
	"io"
	"time"

	"avalam/agent"
	"avalam/game"
	"avalam/metrics"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MaxSteps bounds a game. Every action removes a tower, so a standard board
// ends well before.
const MaxSteps = 200

// Match is a game between two agents. The first agent plays +1 and moves
// first. Each player has its own clock when a time credit is set.
type Match struct {
	agents     [2]agent.Agent
	timeCredit time.Duration
	maxSteps   int
	board      *game.Board
	logger     zerolog.Logger
	render     io.Writer
	profile    termenv.Profile
	clock      func() time.Time
}

type Option func(m *Match)

// WithTimeCredit sets the clock of each player. Zero plays without a clock.
func WithTimeCredit(credit time.Duration) Option {
	return func(m *Match) {
		if credit > 0 {
			m.timeCredit = credit
		}
	}
}

func WithMaxSteps(steps int) Option {
	return func(m *Match) {
		if steps > 0 {
			m.maxSteps = steps
		}
	}
}

// WithBoard starts from another position than the standard one.
func WithBoard(board *game.Board) Option {
	return func(m *Match) {
		m.board = board.Copy()
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Match) {
		m.logger = logger
	}
}

// WithRenderer draws the board to w after every move.
func WithRenderer(w io.Writer, profile termenv.Profile) Option {
	return func(m *Match) {
		m.render = w
		m.profile = profile
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Match) {
		m.clock = now
	}
}

func NewMatch(first, second agent.Agent, options ...Option) *Match {
	m := &Match{
		agents:   [2]agent.Agent{first, second},
		maxSteps: MaxSteps,
		board:    game.NewInitialBoard(),
		logger:   zerolog.Nop(),
		clock:    time.Now,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

type Result struct {
	Board *game.Board
	Game  metrics.GameMetric
	Moves []metrics.MoveMetric
}

func agentIndex(player int) int {
	if player > 0 {
		return 0
	}
	return 1
}

// Run plays the game to its end. A player forfeits when it returns no action
// on an unfinished board, an illegal action, an error, or runs out of time.
// Otherwise the sign of the final score decides.
func (m *Match) Run(ctx context.Context) (Result, error) {
	board := m.board.Copy()
	left := [2]time.Duration{m.timeCredit, m.timeCredit}
	result := Result{Board: board}
	result.Game.StartingPlayer = 1
	result.Game.StartTime = m.clock()

	finish := func() Result {
		result.Game.Score = board.Score()
		result.Game.EndTime = m.clock()
		result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
		result.Game.TotalMoves = len(result.Moves)
		return result
	}

	player := 1
	for step := 1; step <= m.maxSteps && !board.IsFinished(); step++ {
		if err := ctx.Err(); err != nil {
			return finish(), errors.Wrap(err, "match interrupted")
		}

		idx := agentIndex(player)
		req := agent.Request{Percepts: board.Record(), Player: player, Step: step}
		if m.timeCredit > 0 {
			req.TimeLeft = agent.Seconds(left[idx])
		}

		start := m.clock()
		action, search, err := m.agents[idx].Play(ctx, req)
		elapsed := m.clock().Sub(start)
		if m.timeCredit > 0 {
			left[idx] -= elapsed
		}

		timeLeft := left[idx]
		if m.timeCredit == 0 {
			timeLeft = -1
		}
		result.Moves = append(result.Moves, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			TimeLeft:     timeLeft,
			SearchMetric: search,
		})

		if reason := m.check(board, action, err, left[idx]); reason != "" {
			if ctx.Err() != nil {
				return finish(), errors.Wrap(ctx.Err(), "match interrupted")
			}
			m.logger.Warn().Msgf("player %d forfeits at step %d: %s", player, step, reason)
			result.Game.Forfeit = true
			result.Game.Winner = -player
			return finish(), nil
		}

		if err := board.Play(action); err != nil {
			return finish(), errors.Wrapf(err, "failed to play checked action %s", action)
		}
		m.logger.Debug().Msgf("step %d: player %d played %s in %s", step, player, action, elapsed)
		if m.render != nil {
			if err := RenderBoard(m.render, board, m.profile); err != nil {
				m.logger.Warn().Err(err).Msg("failed to render board")
			}
		}
		player = -player
	}

	result.Game.Winner = sign(board.Score())
	m.logger.Info().Msgf("game over after %d moves, score %d", len(result.Moves), board.Score())
	return finish(), nil
}

// check returns why a move forfeits, or "" for a valid move.
func (m *Match) check(board *game.Board, action game.Action, err error, left time.Duration) string {
	switch {
	case errors.Is(err, agent.ErrNoAction):
		return "no action on an unfinished board"
	case err != nil:
		return err.Error()
	case m.timeCredit > 0 && left < 0:
		return "out of time"
	case !board.IsActionValid(action):
		return "illegal action " + action.String()
	}
	return ""
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
