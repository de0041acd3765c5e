package predict

import (
	"context"
	"fmt"

	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
)

const (
	// Probability mass shifted per unit of per-game xG differential edge.
	xgShiftPerUnit = 0.08
	maxXGShift     = 0.12
)

// EnhancedPredictor layers externally sourced advanced stats on top of the
// trained ensemble. Without advanced stats for both sides it has nothing to
// add, so Predict requires them and the selector falls through.
type EnhancedPredictor struct {
	ensemble *EnsemblePredictor
}

func NewEnhancedPredictor(ensemble *EnsemblePredictor) *EnhancedPredictor {
	return &EnhancedPredictor{ensemble: ensemble}
}

func (p *EnhancedPredictor) Ready(ctx context.Context) bool {
	return p.ensemble.Ready(ctx)
}

func (p *EnhancedPredictor) Predict(ctx context.Context, m Matchup) (Outcome, error) {
	if m.HomeAdv == nil || m.AwayAdv == nil {
		return Outcome{}, fmt.Errorf("enhanced predictor: advanced stats missing for matchup %s", m.MatchID)
	}

	base, err := p.ensemble.Predict(ctx, m)
	if err != nil {
		return Outcome{}, err
	}

	shift := xgShift(m)
	homeProb := base.HomeProb + shift
	awayProb := base.AwayProb - shift
	drawProb := base.DrawProb
	if homeProb < probFloor {
		homeProb = probFloor
	}
	if awayProb < probFloor {
		awayProb = probFloor
	}

	total := homeProb + drawProb + awayProb
	homeProb /= total
	drawProb /= total
	awayProb /= total

	result, confidence := pickResult(homeProb, drawProb, awayProb)

	out := base
	out.HomeProb = homeProb
	out.DrawProb = drawProb
	out.AwayProb = awayProb
	out.Result = result
	out.Confidence = confidence
	out.Tier = prediction.TierEnhanced
	out.Explanation = fmt.Sprintf("%s Adjusted by xG differential (%+.2f home shift, source %s).", base.Explanation, shift, m.HomeAdv.Source)

	return out, nil
}

// xgShift converts the per-game xG differential edge between the sides
// into a bounded probability shift toward the stronger side.
func xgShift(m Matchup) float64 {
	edge := m.HomeAdv.XGDiff() - m.AwayAdv.XGDiff()

	shift := edge * xgShiftPerUnit
	if shift > maxXGShift {
		shift = maxXGShift
	}
	if shift < -maxXGShift {
		shift = -maxXGShift
	}
	return shift
}
