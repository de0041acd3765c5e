package predict

import (
	"context"
	"testing"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/advancedstats"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
)

func trainedEnsemble(t *testing.T) *EnsemblePredictor {
	t.Helper()
	model, _, err := TrainEnsemble(syntheticSamples(150), time.Now())
	if err != nil {
		t.Fatalf("train: expected no error, got %v", err)
	}
	return NewEnsemblePredictor(model)
}

func TestTieredFallsBackToBasic(t *testing.T) {
	ensemble := NewEnsemblePredictor(nil)
	tiered := NewTieredPredictor(NewEnhancedPredictor(ensemble), ensemble, NewBasicPredictor())

	out, err := tiered.Predict(context.Background(), matchupFixture())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Tier != prediction.TierBasic {
		t.Fatalf("expected basic tier without a trained model, got %s", out.Tier)
	}
}

func TestTieredUsesEnsembleWhenTrained(t *testing.T) {
	ensemble := trainedEnsemble(t)
	tiered := NewTieredPredictor(NewEnhancedPredictor(ensemble), ensemble, NewBasicPredictor())

	out, err := tiered.Predict(context.Background(), matchupFixture())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Tier != prediction.TierEnsemble {
		t.Fatalf("expected ensemble tier without advanced stats, got %s", out.Tier)
	}
}

func TestTieredUsesEnhancedWithAdvancedStats(t *testing.T) {
	ensemble := trainedEnsemble(t)
	tiered := NewTieredPredictor(NewEnhancedPredictor(ensemble), ensemble, NewBasicPredictor())

	m := matchupFixture()
	m.HomeAdv = &advancedstats.TeamStats{TeamID: "home", XG: 2.1, XGAgainst: 0.9, Source: "statsprovider"}
	m.AwayAdv = &advancedstats.TeamStats{TeamID: "away", XG: 0.8, XGAgainst: 1.7, Source: "statsprovider"}

	out, err := tiered.Predict(context.Background(), m)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Tier != prediction.TierEnhanced {
		t.Fatalf("expected enhanced tier, got %s", out.Tier)
	}
}

func TestEnhancedShiftsTowardXGEdge(t *testing.T) {
	ensemble := trainedEnsemble(t)
	enhanced := NewEnhancedPredictor(ensemble)

	m := matchupFixture()
	base, err := ensemble.Predict(context.Background(), m)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	m.HomeAdv = &advancedstats.TeamStats{TeamID: "home", XG: 2.4, XGAgainst: 0.8, Source: "statsprovider"}
	m.AwayAdv = &advancedstats.TeamStats{TeamID: "away", XG: 0.7, XGAgainst: 2.0, Source: "statsprovider"}

	out, err := enhanced.Predict(context.Background(), m)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.HomeProb <= base.HomeProb {
		t.Fatalf("home xG edge should raise home probability: %.3f vs %.3f", out.HomeProb, base.HomeProb)
	}
}

func TestEnhancedRequiresAdvancedStats(t *testing.T) {
	enhanced := NewEnhancedPredictor(trainedEnsemble(t))

	if _, err := enhanced.Predict(context.Background(), matchupFixture()); err == nil {
		t.Fatalf("expected error without advanced stats")
	}
}
