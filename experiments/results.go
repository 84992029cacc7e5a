package experiments

import (
	"sort"

	"avalam/metrics"

	"github.com/samber/lo"
)

type Standing struct {
	Agent    int
	Games    int
	Wins     int
	Losses   int
	Draws    int
	Forfeits int // Games lost by forfeit
}

// Points counts a win as 1 and a draw as half.
func (s Standing) Points() float64 {
	return float64(s.Wins) + float64(s.Draws)/2
}

// Standings tallies every game for both of its agents, best first. A self-play
// game counts once.
func Standings(games []metrics.GameRecord) []Standing {
	byAgent := map[int]*Standing{}
	tally := func(id int, winner, side int, forfeit bool) {
		s, ok := byAgent[id]
		if !ok {
			s = &Standing{Agent: id}
			byAgent[id] = s
		}
		s.Games++
		switch winner {
		case 0:
			s.Draws++
		case side:
			s.Wins++
		default:
			s.Losses++
			if forfeit {
				s.Forfeits++
			}
		}
	}
	for _, g := range games {
		tally(g.Agent1, g.Winner, 1, g.Forfeit)
		if g.Agent2 != g.Agent1 {
			tally(g.Agent2, g.Winner, -1, g.Forfeit)
		}
	}

	standings := lo.Map(lo.Values(byAgent), func(s *Standing, _ int) Standing { return *s })
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points() != standings[j].Points() {
			return standings[i].Points() > standings[j].Points()
		}
		return standings[i].Agent < standings[j].Agent
	})
	return standings
}

// Throughput summarizes the search effort of one strategy over its moves.
type Throughput struct {
	Strategy          string
	Moves             int
	NodesPerSecond    float64
	EpisodesPerSecond float64
	MeanDepth         float64
	AbortedPasses     int
}

func MeasureThroughput(moves []metrics.MoveRecord) []Throughput {
	groups := lo.GroupBy(moves, func(m metrics.MoveRecord) string {
		return m.Strategy
	})

	throughputs := lo.MapToSlice(groups, func(strategy string, moves []metrics.MoveRecord) Throughput {
		seconds := lo.SumBy(moves, func(m metrics.MoveRecord) float64 { return m.Duration.Seconds() })
		t := Throughput{
			Strategy:      strategy,
			Moves:         len(moves),
			MeanDepth:     float64(lo.SumBy(moves, func(m metrics.MoveRecord) int { return m.Depth })) / float64(len(moves)),
			AbortedPasses: lo.CountBy(moves, func(m metrics.MoveRecord) bool { return m.AbortedPass }),
		}
		if seconds > 0 {
			t.NodesPerSecond = float64(lo.SumBy(moves, func(m metrics.MoveRecord) int { return m.Nodes })) / seconds
			t.EpisodesPerSecond = float64(lo.SumBy(moves, func(m metrics.MoveRecord) int { return m.Episodes })) / seconds
		}
		return t
	})
	sort.Slice(throughputs, func(i, j int) bool {
		return throughputs[i].Strategy < throughputs[j].Strategy
	})
	return throughputs
}
