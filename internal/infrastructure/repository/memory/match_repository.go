package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	byID := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		byID[item.ID] = item
	}

	return &MatchRepository{matches: byID}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[matchID]
	return item, ok, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.matches {
		if item.ExternalID == externalID {
			return item, true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *MatchRepository) ListBySeasonAndRound(_ context.Context, leagueID, season string, round int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filter(func(m match.Match) bool {
		if leagueID != "" && m.LeagueID != leagueID {
			return false
		}
		return m.Season == season && m.Round == round
	})
	sortByKickoffAsc(out)

	return out, nil
}

func (r *MatchRepository) ListFinishedBefore(_ context.Context, leagueID string, before time.Time, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filter(func(m match.Match) bool {
		if leagueID != "" && m.LeagueID != leagueID {
			return false
		}
		return match.IsFinishedStatus(m.Status) && m.KickoffAt.Before(before)
	})
	sortByKickoffDesc(out)

	return clampLimit(out, limit), nil
}

func (r *MatchRepository) ListFinishedByTeam(_ context.Context, teamID string, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filter(func(m match.Match) bool {
		if !match.IsFinishedStatus(m.Status) {
			return false
		}
		return m.HomeTeamID == teamID || m.AwayTeamID == teamID
	})
	sortByKickoffDesc(out)

	return clampLimit(out, limit), nil
}

func (r *MatchRepository) ListHeadToHead(_ context.Context, homeTeamID, awayTeamID string, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filter(func(m match.Match) bool {
		if !match.IsFinishedStatus(m.Status) {
			return false
		}
		direct := m.HomeTeamID == homeTeamID && m.AwayTeamID == awayTeamID
		reverse := m.HomeTeamID == awayTeamID && m.AwayTeamID == homeTeamID
		return direct || reverse
	})
	sortByKickoffDesc(out)

	return clampLimit(out, limit), nil
}

func (r *MatchRepository) ListUpcoming(_ context.Context, leagueID string, from time.Time, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filter(func(m match.Match) bool {
		if leagueID != "" && m.LeagueID != leagueID {
			return false
		}
		return m.Status == match.StatusScheduled && !m.KickoffAt.Before(from)
	})
	sortByKickoffAsc(out)

	return clampLimit(out, limit), nil
}

func (r *MatchRepository) Upsert(_ context.Context, m match.Match) error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.ID] = m

	return nil
}

func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		if keep(item) {
			out = append(out, item)
		}
	}

	return out
}

func sortByKickoffAsc(matches []match.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].KickoffAt.Equal(matches[j].KickoffAt) {
			return matches[i].KickoffAt.Before(matches[j].KickoffAt)
		}
		return matches[i].ID < matches[j].ID
	})
}

func sortByKickoffDesc(matches []match.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].KickoffAt.Equal(matches[j].KickoffAt) {
			return matches[i].KickoffAt.After(matches[j].KickoffAt)
		}
		return matches[i].ID < matches[j].ID
	})
}

func clampLimit(matches []match.Match, limit int) []match.Match {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
