package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
)

type PredictionRepository struct {
	mu          sync.RWMutex
	predictions []prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{}
}

func (r *PredictionRepository) Insert(_ context.Context, p prediction.Prediction) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.predictions = append(r.predictions, p)

	return nil
}

func (r *PredictionRepository) GetLatestByMatch(_ context.Context, matchID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := false
	var latest prediction.Prediction
	for _, item := range r.predictions {
		if item.MatchID != matchID {
			continue
		}
		if !found || item.CreatedAt.After(latest.CreatedAt) {
			latest = item
			found = true
		}
	}

	return latest, found, nil
}

func (r *PredictionRepository) ListRecent(_ context.Context, limit int) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, len(r.predictions))
	copy(out, r.predictions)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
