package searcher

import "math"

// Rewards are from the perspective of the player who moved into the node.

const Win = 1.0
const Loss = -Win
const Draw = 0.0

type uct struct {
	numerator float64
}

// newUCT precomputes the exploration numerator c^2 * 2 * ln(N) for a parent
// visited N times.
func newUCT(c float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: c * c * 2 * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + c*sqrt(2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// outcome maps a signed score to a win, a loss or a draw.
func outcome(score float64) float64 {
	switch {
	case score > 0:
		return Win
	case score < 0:
		return Loss
	}
	return Draw
}
