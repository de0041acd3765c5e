package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quinielabs/quiniela-assistant/internal/domain/modelperf"
)

type ModelPerfRepository struct {
	mu        sync.RWMutex
	snapshots map[string]modelperf.Snapshot
}

func NewModelPerfRepository() *ModelPerfRepository {
	return &ModelPerfRepository{snapshots: make(map[string]modelperf.Snapshot)}
}

func (r *ModelPerfRepository) Insert(_ context.Context, snapshot modelperf.Snapshot) error {
	if strings.TrimSpace(snapshot.ModelVersion) == "" {
		return fmt.Errorf("model version is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots[snapshot.ModelVersion] = snapshot

	return nil
}

func (r *ModelPerfRepository) GetLatest(_ context.Context) (modelperf.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := false
	var latest modelperf.Snapshot
	for _, item := range r.snapshots {
		if !found || item.TrainedAt.After(latest.TrainedAt) {
			latest = item
			found = true
		}
	}

	return latest, found, nil
}

func (r *ModelPerfRepository) List(_ context.Context, limit int) ([]modelperf.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]modelperf.Snapshot, 0, len(r.snapshots))
	for _, item := range r.snapshots {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TrainedAt.Equal(out[j].TrainedAt) {
			return out[i].TrainedAt.After(out[j].TrainedAt)
		}
		return out[i].ModelVersion > out[j].ModelVersion
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
