package predict

import "math"

const poissonMaxGoals = 10

// PoissonModel converts per-side expected goals into 1X2 probabilities via
// an independent-Poisson score matrix.
type PoissonModel struct {
	// HomeBoost scales the home side's expected goals.
	HomeBoost float64 `json:"home_boost"`
}

func NewPoissonModel() *PoissonModel {
	return &PoissonModel{HomeBoost: 1.1}
}

// Probabilities computes home/draw/away probabilities for a matchup from
// season scoring rates. Without stats both lambdas fall back to the league
// average of 1.25 goals per side.
func (p *PoissonModel) Probabilities(m Matchup) [NumClass]float64 {
	homeLambda, awayLambda := 1.25, 1.25
	if m.HomeStats != nil && m.AwayStats != nil {
		homeLambda = clampLambda((m.HomeStats.GoalsForPerGame() + m.AwayStats.GoalsAgainstPerGame()) / 2 * p.HomeBoost)
		awayLambda = clampLambda((m.AwayStats.GoalsForPerGame() + m.HomeStats.GoalsAgainstPerGame()) / 2)
	}

	var home, draw, away float64
	for hg := 0; hg <= poissonMaxGoals; hg++ {
		ph := poissonPMF(homeLambda, hg)
		for ag := 0; ag <= poissonMaxGoals; ag++ {
			pa := poissonPMF(awayLambda, ag)
			joint := ph * pa
			switch {
			case hg > ag:
				home += joint
			case hg < ag:
				away += joint
			default:
				draw += joint
			}
		}
	}

	total := home + draw + away
	return [NumClass]float64{home / total, draw / total, away / total}
}

func clampLambda(v float64) float64 {
	if v < 0.2 {
		return 0.2
	}
	if v > 4.5 {
		return 4.5
	}
	return v
}

func poissonPMF(lambda float64, k int) float64 {
	logP := -lambda + float64(k)*math.Log(lambda) - logFactorial(k)
	return math.Exp(logP)
}

func logFactorial(k int) float64 {
	total := 0.0
	for i := 2; i <= k; i++ {
		total += math.Log(float64(i))
	}
	return total
}
