package searcher

import "time"

// Unbounded marks a match without a clock.
const Unbounded time.Duration = -1

// Share of the first observed time credit spent on an ordinary move.
const usualMoves = 20

// DefaultUnboundedAllowance is the per-move allowance when the match has no clock.
const DefaultUnboundedAllowance = 10 * time.Second

// Plan is the starting depth and time allowance for one decision.
type Plan struct {
	Depth     int
	Allowance time.Duration
}

// Scheduler turns the time left in the match into a Plan. The usual time per
// move is fixed at the first decision and both depth and allowance shrink as
// the clock runs down.
type Scheduler struct {
	usual     time.Duration
	unbounded time.Duration
}

func NewScheduler(unboundedAllowance time.Duration) *Scheduler {
	if unboundedAllowance <= 0 {
		unboundedAllowance = DefaultUnboundedAllowance
	}
	return &Scheduler{unbounded: unboundedAllowance}
}

// UsualTime is zero until the first bounded decision.
func (s *Scheduler) UsualTime() time.Duration {
	return s.usual
}

func (s *Scheduler) Plan(timeLeft time.Duration) Plan {
	if timeLeft < 0 {
		return Plan{Depth: 3, Allowance: s.unbounded}
	}
	if s.usual == 0 {
		s.usual = timeLeft / usualMoves
	}

	usual := s.usual
	switch {
	case timeLeft >= usual:
		return Plan{Depth: 3, Allowance: usual}
	case 3*timeLeft >= 2*usual:
		return Plan{Depth: 2, Allowance: timeLeft * 2 / 9}
	case 9*timeLeft >= 4*usual:
		return Plan{Depth: 1, Allowance: timeLeft / 9}
	case 9*timeLeft >= usual:
		return Plan{Depth: 1, Allowance: timeLeft / 18}
	default:
		return Plan{Depth: 1, Allowance: timeLeft / 45}
	}
}
