package agent

import (
	"context"
	"time"

	"avalam/game"
	"avalam/metrics"
	"avalam/searcher"

	"github.com/pkg/errors"
)

var (
	// ErrNoAction is returned when the position has no legal action.
	ErrNoAction = errors.New("no legal action")
	// ErrInternal is returned instead of a recovered panic.
	ErrInternal = errors.New("internal agent failure")
	// ErrInvalidRequest is returned for malformed percepts or an unknown player.
	ErrInvalidRequest = errors.New("invalid request")
)

// Request is one decision asked by the harness.
type Request struct {
	Percepts game.Record `json:"percepts"`
	Player   int         `json:"player"`    // 1 or -1
	Step     int         `json:"step"`      // Starting from 1
	TimeLeft *float64    `json:"time_left"` // Seconds, nil without a clock
}

// Clock converts TimeLeft to a duration, searcher.Unbounded without a clock.
func (r Request) Clock() time.Duration {
	if r.TimeLeft == nil {
		return searcher.Unbounded
	}
	if *r.TimeLeft <= 0 {
		return 0
	}
	return time.Duration(*r.TimeLeft * float64(time.Second))
}

// Seconds returns a TimeLeft value.
func Seconds(d time.Duration) *float64 {
	s := d.Seconds()
	return &s
}

type Agent interface {
	// Play returns the action for r.Player and the metrics of the search
	// behind it. It returns ErrNoAction on a finished board.
	Play(ctx context.Context, r Request) (game.Action, metrics.SearchMetric, error)
}

func decode(r Request) (*game.Board, searcher.Role, error) {
	if r.Player != 1 && r.Player != -1 {
		return nil, 0, errors.Wrapf(ErrInvalidRequest, "player %d", r.Player)
	}
	board, err := game.FromRecord(r.Percepts)
	if err != nil {
		return nil, 0, errors.Wrapf(ErrInvalidRequest, "percepts: %v", err)
	}
	return board, searcher.RoleOf(r.Player), nil
}
