package predict

import (
	"context"
	"math"
	"testing"

	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
)

func TestBasicPredictorProbabilities(t *testing.T) {
	predictor := NewBasicPredictor()
	m := Matchup{
		MatchID: "m1",
		HomeTeam: team.Team{
			ID:              "home",
			LeagueID:        team.LeagueLaLiga,
			Name:            "Real Madrid",
			FoundedYear:     1902,
			StadiumCapacity: 81044,
		},
		AwayTeam: team.Team{
			ID:          "away",
			LeagueID:    team.LeagueSegunda,
			Name:        "CD Mirandes",
			FoundedYear: 1927,
		},
	}

	out, err := predictor.Predict(context.Background(), m)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	sum := out.HomeProb + out.DrawProb + out.AwayProb
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities must sum to 1, got %.6f", sum)
	}
	for _, p := range []float64{out.HomeProb, out.DrawProb, out.AwayProb} {
		if p <= 0 || p >= 1 {
			t.Fatalf("probability out of range: %.4f", p)
		}
	}

	if out.HomeProb <= out.AwayProb {
		t.Fatalf("top flight giant at home should be favoured: home=%.3f away=%.3f", out.HomeProb, out.AwayProb)
	}
	if out.Tier != prediction.TierBasic {
		t.Fatalf("expected basic tier, got %s", out.Tier)
	}
	if out.Explanation == "" {
		t.Fatalf("expected explanation text")
	}
}

func TestBasicPredictorDeterministic(t *testing.T) {
	predictor := NewBasicPredictor()
	m := matchupFixture()

	first, err := predictor.Predict(context.Background(), m)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := predictor.Predict(context.Background(), m)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first.HomeProb != second.HomeProb || first.Result != second.Result {
		t.Fatalf("prediction must be stable for the same match")
	}
}

func TestBasicPredictorAlwaysReady(t *testing.T) {
	if !NewBasicPredictor().Ready(context.Background()) {
		t.Fatalf("basic predictor must always be ready")
	}
}
