package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
	basecache "github.com/quinielabs/quiniela-assistant/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	key := "team:list:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	key := "team:id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID int64) (team.Team, bool, error) {
	key := "team:external-id:" + strconv.FormatInt(externalID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) error {
	if err := r.next.Upsert(ctx, t); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

type cachedTeam struct {
	value  team.Team
	exists bool
}

type TeamStatsRepository struct {
	next  teamstats.Repository
	cache *basecache.Store
}

func NewTeamStatsRepository(next teamstats.Repository, cache *basecache.Store) *TeamStatsRepository {
	return &TeamStatsRepository{next: next, cache: cache}
}

func (r *TeamStatsRepository) GetByTeamAndSeason(ctx context.Context, teamID, season string) (teamstats.SeasonStats, bool, error) {
	key := "team-stats:season:" + season + ":team:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByTeamAndSeason(ctx, teamID, season)
		if err != nil {
			return nil, err
		}
		return cachedSeasonStats{value: item, exists: exists}, nil
	})
	if err != nil {
		return teamstats.SeasonStats{}, false, err
	}

	cached, _ := v.(cachedSeasonStats)
	return cached.value, cached.exists, nil
}

func (r *TeamStatsRepository) ListBySeason(ctx context.Context, season string) ([]teamstats.SeasonStats, error) {
	key := "team-stats:list:" + season
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]teamstats.SeasonStats(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]teamstats.SeasonStats)
	return append([]teamstats.SeasonStats(nil), items...), nil
}

func (r *TeamStatsRepository) Upsert(ctx context.Context, stats teamstats.SeasonStats) error {
	if err := r.next.Upsert(ctx, stats); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team-stats:season:"+stats.Season+":team:"+stats.TeamID)
	r.cache.Delete(ctx, "team-stats:list:"+stats.Season)
	return nil
}

type cachedSeasonStats struct {
	value  teamstats.SeasonStats
	exists bool
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	key := "match:id:" + matchID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatch{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatch)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID int64) (match.Match, bool, error) {
	key := "match:external-id:" + strconv.FormatInt(externalID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		return cachedMatch{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatch)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) ListBySeasonAndRound(ctx context.Context, leagueID, season string, round int) ([]match.Match, error) {
	key := "match:round:" + leagueID + ":" + season + ":" + strconv.Itoa(round)
	return r.cachedMatchList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListBySeasonAndRound(ctx, leagueID, season, round)
	})
}

func (r *MatchRepository) ListFinishedBefore(ctx context.Context, leagueID string, before time.Time, limit int) ([]match.Match, error) {
	key := "match:finished:" + leagueID + ":" + before.UTC().Format(time.RFC3339) + ":" + strconv.Itoa(limit)
	return r.cachedMatchList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListFinishedBefore(ctx, leagueID, before, limit)
	})
}

func (r *MatchRepository) ListFinishedByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	key := "match:finished-team:" + teamID + ":" + strconv.Itoa(limit)
	return r.cachedMatchList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListFinishedByTeam(ctx, teamID, limit)
	})
}

func (r *MatchRepository) ListHeadToHead(ctx context.Context, homeTeamID, awayTeamID string, limit int) ([]match.Match, error) {
	key := "match:h2h:" + homeTeamID + ":" + awayTeamID + ":" + strconv.Itoa(limit)
	return r.cachedMatchList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListHeadToHead(ctx, homeTeamID, awayTeamID, limit)
	})
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, leagueID string, from time.Time, limit int) ([]match.Match, error) {
	key := "match:upcoming:" + leagueID + ":" + from.UTC().Format(time.RFC3339) + ":" + strconv.Itoa(limit)
	return r.cachedMatchList(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListUpcoming(ctx, leagueID, from, limit)
	})
}

func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) error {
	if err := r.next.Upsert(ctx, m); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "match:")
	return nil
}

func (r *MatchRepository) cachedMatchList(ctx context.Context, key string, load func(context.Context) ([]match.Match, error)) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

type cachedMatch struct {
	value  match.Match
	exists bool
}
