package predict

import (
	"context"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
)

// Outcome is one predictor's forecast for a matchup.
type Outcome struct {
	HomeProb      float64
	DrawProb      float64
	AwayProb      float64
	Result        match.Result
	Confidence    float64
	Explanation   string
	Tier          prediction.Tier
	ModelVersion  string
	ExpectedGoals float64
}

// Predictor produces 1X2 forecasts. Ready reports whether the tier can
// serve predictions right now.
type Predictor interface {
	Ready(ctx context.Context) bool
	Predict(ctx context.Context, m Matchup) (Outcome, error)
}

// pickResult resolves the most probable outcome; draws win ties, matching
// the conservative official default.
func pickResult(homeProb, drawProb, awayProb float64) (match.Result, float64) {
	switch {
	case homeProb > drawProb && homeProb > awayProb:
		return match.ResultHome, homeProb
	case awayProb > drawProb && awayProb > homeProb:
		return match.ResultAway, awayProb
	default:
		return match.ResultDraw, drawProb
	}
}

// EstimateExpectedGoals estimates total goals for the Pleno al 15: each
// side's scoring average against the opponent's concession average, scaled
// up when the home side holds a real home advantage.
func EstimateExpectedGoals(m Matchup) float64 {
	if m.HomeStats == nil || m.AwayStats == nil {
		return 2.5
	}

	expectedHome := (m.HomeStats.GoalsForPerGame() + m.AwayStats.GoalsAgainstPerGame()) / 2
	expectedAway := (m.AwayStats.GoalsForPerGame() + m.HomeStats.GoalsAgainstPerGame()) / 2
	total := expectedHome + expectedAway

	features := ExtractFeatures(m)
	if features["home_advantage"] > 0.1 {
		total *= 1.1
	}

	if total < 0.5 {
		return 0.5
	}
	if total > 6.0 {
		return 6.0
	}
	return total
}
