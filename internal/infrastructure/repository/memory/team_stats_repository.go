package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
)

type TeamStatsRepository struct {
	mu    sync.RWMutex
	stats map[string]teamstats.SeasonStats
}

func NewTeamStatsRepository(stats []teamstats.SeasonStats) *TeamStatsRepository {
	byKey := make(map[string]teamstats.SeasonStats, len(stats))
	for _, item := range stats {
		if strings.TrimSpace(item.TeamID) == "" || strings.TrimSpace(item.Season) == "" {
			continue
		}
		byKey[teamSeasonKey(item.TeamID, item.Season)] = item
	}

	return &TeamStatsRepository{stats: byKey}
}

func (r *TeamStatsRepository) GetByTeamAndSeason(_ context.Context, teamID, season string) (teamstats.SeasonStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.stats[teamSeasonKey(teamID, season)]
	return item, ok, nil
}

func (r *TeamStatsRepository) ListBySeason(_ context.Context, season string) ([]teamstats.SeasonStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]teamstats.SeasonStats, 0, len(r.stats))
	for _, item := range r.stats {
		if item.Season == season {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].TeamID < out[j].TeamID
	})

	return out, nil
}

func (r *TeamStatsRepository) Upsert(_ context.Context, stats teamstats.SeasonStats) error {
	if strings.TrimSpace(stats.TeamID) == "" || strings.TrimSpace(stats.Season) == "" {
		return fmt.Errorf("team id and season are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats[teamSeasonKey(stats.TeamID, stats.Season)] = stats

	return nil
}

func teamSeasonKey(teamID, season string) string {
	return teamID + "|" + season
}
