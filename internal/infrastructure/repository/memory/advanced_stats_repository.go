package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/quinielabs/quiniela-assistant/internal/domain/advancedstats"
)

type AdvancedStatsRepository struct {
	mu    sync.RWMutex
	stats map[string]advancedstats.TeamStats
}

func NewAdvancedStatsRepository(stats []advancedstats.TeamStats) *AdvancedStatsRepository {
	byKey := make(map[string]advancedstats.TeamStats, len(stats))
	for _, item := range stats {
		if strings.TrimSpace(item.TeamID) == "" || strings.TrimSpace(item.Season) == "" {
			continue
		}
		byKey[teamSeasonKey(item.TeamID, item.Season)] = item
	}

	return &AdvancedStatsRepository{stats: byKey}
}

func (r *AdvancedStatsRepository) GetByTeamAndSeason(_ context.Context, teamID, season string) (advancedstats.TeamStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.stats[teamSeasonKey(teamID, season)]
	return item, ok, nil
}

func (r *AdvancedStatsRepository) Upsert(_ context.Context, stats advancedstats.TeamStats) error {
	if strings.TrimSpace(stats.TeamID) == "" || strings.TrimSpace(stats.Season) == "" {
		return fmt.Errorf("team id and season are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats[teamSeasonKey(stats.TeamID, stats.Season)] = stats

	return nil
}
