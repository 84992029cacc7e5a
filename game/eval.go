package game

// Components are the signed tallies the tower heuristic is built from. Every
// occupied cell adds its owner's sign to Material; towers at the height cap
// also add to Capped, and towers that cannot move but are below the cap add
// to Blocked.
type Components struct {
	Material int
	Blocked  int
	Capped   int
}

// Weights scale the components of the tower heuristic.
type Weights struct {
	Material float64 `yaml:"material"`
	Blocked  float64 `yaml:"blocked"`
	Capped   float64 `yaml:"capped"`
}

var DefaultWeights = Weights{Material: 1, Blocked: 0.2, Capped: 0.5}

func TallyComponents(s State) Components {
	var c Components
	maxHeight := s.MaxHeight()
	for i := 0; i < s.Rows(); i++ {
		for j := 0; j < s.Columns(); j++ {
			cell := s.Cell(i, j)
			if cell == 0 {
				continue
			}
			delta := 1
			if cell < 0 {
				delta = -1
			}

			c.Material += delta
			if abs(cell) == maxHeight {
				c.Capped += delta
			} else if !s.IsTowerMovable(i, j) {
				c.Blocked += delta
			}
		}
	}
	return c
}

// Score combines the components with the given weights.
func (w Weights) Score(c Components) float64 {
	return w.Material*float64(c.Material) + w.Blocked*float64(c.Blocked) + w.Capped*float64(c.Capped)
}

// NewTowerEvaluator returns the tower heuristic with custom weights.
func NewTowerEvaluator(w Weights) Evaluate {
	return func(s State) float64 {
		return w.Score(TallyComponents(s))
	}
}

// EvaluateTowers weighs owned towers, towers that can no longer move and
// towers at the height cap. Those last two can never change owner again.
func EvaluateTowers(s State) float64 {
	return DefaultWeights.Score(TallyComponents(s))
}

// EvaluateMaterial is the raw tower count.
func EvaluateMaterial(s State) float64 {
	return float64(s.Score())
}
