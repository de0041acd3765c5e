package prediction

import (
	"fmt"
	"time"
)

// Tier identifies which predictor produced a prediction.
type Tier string

const (
	TierBasic    Tier = "basic"
	TierEnsemble Tier = "ensemble"
	TierEnhanced Tier = "enhanced"
)

// Prediction is a stored 1X2 forecast for one match.
type Prediction struct {
	ID           string
	MatchID      string
	ModelVersion string
	Tier         Tier
	HomeProb     float64
	DrawProb     float64
	AwayProb     float64
	Result       string
	Confidence   float64
	Explanation  string
	CreatedAt    time.Time
}

func (p Prediction) Validate() error {
	if p.MatchID == "" {
		return fmt.Errorf("prediction match id is required")
	}
	if p.Result == "" {
		return fmt.Errorf("prediction result is required")
	}
	sum := p.HomeProb + p.DrawProb + p.AwayProb
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("prediction probabilities must sum to 1, got %.4f", sum)
	}

	return nil
}
