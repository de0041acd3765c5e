package predict

import (
	"math"
	"testing"
)

func TestPoissonProbabilitiesSumToOne(t *testing.T) {
	model := NewPoissonModel()

	probs := model.Probabilities(matchupFixture())
	sum := probs[ClassHome] + probs[ClassDraw] + probs[ClassAway]
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities must sum to 1, got %.9f", sum)
	}
}

func TestPoissonFavoursStrongerAttack(t *testing.T) {
	model := NewPoissonModel()

	m := matchupFixture()
	probs := model.Probabilities(m)
	if probs[ClassHome] <= probs[ClassAway] {
		t.Fatalf("stronger home attack should be favoured: home=%.3f away=%.3f", probs[ClassHome], probs[ClassAway])
	}

	// Swap the sides; the away team now carries the stronger record.
	m.HomeStats, m.AwayStats = m.AwayStats, m.HomeStats
	flipped := model.Probabilities(m)
	if flipped[ClassHome] >= probs[ClassHome] {
		t.Fatalf("weaker home side must not gain probability: %.3f vs %.3f", flipped[ClassHome], probs[ClassHome])
	}
}

func TestPoissonDefaultsWithoutStats(t *testing.T) {
	model := NewPoissonModel()

	probs := model.Probabilities(Matchup{})
	sum := probs[ClassHome] + probs[ClassDraw] + probs[ClassAway]
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities must sum to 1, got %.9f", sum)
	}
	if math.Abs(probs[ClassHome]-probs[ClassAway]) > 1e-9 {
		t.Fatalf("equal lambdas must give symmetric sides: home=%.4f away=%.4f", probs[ClassHome], probs[ClassAway])
	}
}

func TestPoissonPMF(t *testing.T) {
	// P(k=0 | lambda=1) = e^-1.
	if got := poissonPMF(1, 0); math.Abs(got-math.Exp(-1)) > 1e-12 {
		t.Fatalf("pmf(1,0): expected %.6f, got %.6f", math.Exp(-1), got)
	}
	// P(k=2 | lambda=2) = 2 e^-2.
	if got := poissonPMF(2, 2); math.Abs(got-2*math.Exp(-2)) > 1e-12 {
		t.Fatalf("pmf(2,2): expected %.6f, got %.6f", 2*math.Exp(-2), got)
	}
}
