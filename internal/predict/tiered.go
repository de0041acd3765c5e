package predict

import (
	"context"
	"fmt"
)

// TieredPredictor dispatches to the richest available tier: enhanced when
// advanced stats exist, then the trained ensemble, then the heuristic
// fallback which is always ready.
type TieredPredictor struct {
	enhanced *EnhancedPredictor
	ensemble *EnsemblePredictor
	basic    *BasicPredictor
}

func NewTieredPredictor(enhanced *EnhancedPredictor, ensemble *EnsemblePredictor, basic *BasicPredictor) *TieredPredictor {
	return &TieredPredictor{enhanced: enhanced, ensemble: ensemble, basic: basic}
}

func (p *TieredPredictor) Ready(context.Context) bool {
	return true
}

func (p *TieredPredictor) Predict(ctx context.Context, m Matchup) (Outcome, error) {
	if p.enhanced != nil && p.enhanced.Ready(ctx) && m.HomeAdv != nil && m.AwayAdv != nil {
		out, err := p.enhanced.Predict(ctx, m)
		if err == nil {
			return out, nil
		}
	}

	if p.ensemble != nil && p.ensemble.Ready(ctx) {
		out, err := p.ensemble.Predict(ctx, m)
		if err == nil {
			return out, nil
		}
	}

	if p.basic == nil {
		return Outcome{}, fmt.Errorf("tiered predictor: no tier available")
	}

	return p.basic.Predict(ctx, m)
}
