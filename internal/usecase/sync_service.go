package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/quinielabs/quiniela-assistant/internal/domain/advancedstats"
	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
	"github.com/quinielabs/quiniela-assistant/internal/platform/id"
	"github.com/quinielabs/quiniela-assistant/internal/platform/logging"
)

const advancedStatsSource = "api-football"

type SyncConfig struct {
	Enabled   bool
	LeagueIDs []string
	Season    int
	Workers   int
}

type SyncResult struct {
	LeagueID       string `json:"league_id"`
	Season         string `json:"season"`
	Round          int    `json:"round,omitempty"`
	Teams          int    `json:"teams"`
	Matches        int    `json:"matches"`
	OddsUpdated    int    `json:"odds_updated"`
	StatsUpdated   int    `json:"stats_updated"`
	TeamsRecounted int    `json:"teams_recounted"`
	Failures       int    `json:"failures"`
	DurationMs     int64  `json:"duration_ms"`
}

type SyncService struct {
	provider      SportDataProvider
	teamRepo      team.Repository
	matchRepo     match.Repository
	teamStatsRepo teamstats.Repository
	advStatsRepo  advancedstats.Repository
	statistics    *StatisticsService
	idGen         id.Generator
	cfg           SyncConfig
	logger        *logging.Logger
	now           func() time.Time
}

func NewSyncService(
	provider SportDataProvider,
	teamRepo team.Repository,
	matchRepo match.Repository,
	teamStatsRepo teamstats.Repository,
	advStatsRepo advancedstats.Repository,
	statistics *StatisticsService,
	idGen id.Generator,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &SyncService{
		provider:      provider,
		teamRepo:      teamRepo,
		matchRepo:     matchRepo,
		teamStatsRepo: teamStatsRepo,
		advStatsRepo:  advStatsRepo,
		statistics:    statistics,
		idGen:         idGen,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *SyncService) season() string {
	return strconv.Itoa(s.cfg.Season)
}

func (s *SyncService) guard() error {
	if !s.cfg.Enabled {
		return fmt.Errorf("%w: data sync is disabled (API_FOOTBALL_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil {
		return fmt.Errorf("%w: no data provider configured", ErrDependencyUnavailable)
	}
	return nil
}

// SyncTeams upserts the provider's team list for one league. Teams already
// on record keep their public IDs.
func (s *SyncService) SyncTeams(ctx context.Context, leagueID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeams")
	defer span.End()

	if err := s.guard(); err != nil {
		return 0, err
	}
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return 0, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	items, err := s.provider.FetchTeams(ctx, leagueID, s.cfg.Season)
	if err != nil {
		return 0, fmt.Errorf("fetch teams league=%s: %w", leagueID, err)
	}

	count := 0
	for _, item := range items {
		existing, exists, err := s.teamRepo.GetByExternalID(ctx, item.ExternalID)
		if err != nil {
			return count, fmt.Errorf("get team external_id=%d: %w", item.ExternalID, err)
		}

		row := team.Team{
			ExternalID:      item.ExternalID,
			LeagueID:        leagueID,
			Name:            item.Name,
			Short:           item.Short,
			LogoURL:         item.LogoURL,
			StadiumCapacity: item.StadiumCapacity,
			FoundedYear:     item.FoundedYear,
		}
		if exists {
			row.ID = existing.ID
		} else {
			newID, err := s.idGen.NewID()
			if err != nil {
				return count, fmt.Errorf("generate team id: %w", err)
			}
			row.ID = newID
		}

		if err := s.teamRepo.Upsert(ctx, row); err != nil {
			return count, fmt.Errorf("upsert team external_id=%d: %w", item.ExternalID, err)
		}
		count++
	}

	s.logger.InfoContext(ctx, "synced teams", "league_id", leagueID, "count", count)
	return count, nil
}

// SyncRound ingests one league round end to end: fixtures, odds for every
// match, advanced stats from finished fixtures, then a season recompute.
// round <= 0 syncs the whole season's fixtures.
func (s *SyncService) SyncRound(ctx context.Context, leagueID string, round int) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncRound")
	defer span.End()

	if err := s.guard(); err != nil {
		return SyncResult{}, err
	}
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return SyncResult{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	start := s.now()
	result := SyncResult{
		LeagueID: leagueID,
		Season:   s.season(),
		Round:    round,
	}

	teamCount, err := s.SyncTeams(ctx, leagueID)
	if err != nil {
		return result, err
	}
	result.Teams = teamCount

	fixtures, err := s.provider.FetchFixtures(ctx, leagueID, s.cfg.Season, round)
	if err != nil {
		return result, fmt.Errorf("fetch fixtures league=%s round=%d: %w", leagueID, round, err)
	}

	teamIDByExternal, err := s.teamIDsByExternal(ctx, leagueID)
	if err != nil {
		return result, err
	}

	matches, err := s.upsertFixtures(ctx, leagueID, fixtures, teamIDByExternal)
	if err != nil {
		return result, err
	}
	result.Matches = len(matches)

	oddsUpdated, statsUpdated, failures, err := s.enrichMatches(ctx, matches, teamIDByExternal)
	if err != nil {
		return result, err
	}
	result.OddsUpdated = oddsUpdated
	result.StatsUpdated = statsUpdated
	result.Failures = failures

	recounted, err := s.statistics.RecomputeSeason(ctx, leagueID, s.season())
	if err != nil {
		return result, err
	}
	result.TeamsRecounted = recounted
	result.DurationMs = s.now().Sub(start).Milliseconds()

	s.logger.InfoContext(ctx, "synced round",
		"league_id", leagueID,
		"round", round,
		"matches", result.Matches,
		"odds_updated", result.OddsUpdated,
		"stats_updated", result.StatsUpdated,
		"failures", result.Failures,
	)

	return result, nil
}

// SyncAll runs a round sync for every configured league concurrently.
func (s *SyncService) SyncAll(ctx context.Context, round int) ([]SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncAll")
	defer span.End()

	if err := s.guard(); err != nil {
		return nil, err
	}
	if len(s.cfg.LeagueIDs) == 0 {
		return nil, fmt.Errorf("%w: no leagues configured", ErrInvalidInput)
	}

	results := make([]SyncResult, len(s.cfg.LeagueIDs))
	errs := make([]error, len(s.cfg.LeagueIDs))

	var wg conc.WaitGroup
	for i, leagueID := range s.cfg.LeagueIDs {
		i, leagueID := i, leagueID
		wg.Go(func() {
			results[i], errs[i] = s.SyncRound(ctx, leagueID, round)
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sync league=%s: %w", s.cfg.LeagueIDs[i], err)
		}
	}

	return results, nil
}

// SyncTeamStats pulls the provider's season aggregates for every team in a
// league and stores them as the baseline table. A later season recompute
// from local finished matches overwrites positions and points.
func (s *SyncService) SyncTeamStats(ctx context.Context, leagueID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeamStats")
	defer span.End()

	if err := s.guard(); err != nil {
		return 0, err
	}
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return 0, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return 0, fmt.Errorf("list teams league=%s: %w", leagueID, err)
	}

	count := 0
	updatedAt := s.now().UTC()
	for _, t := range teams {
		raw, err := s.provider.FetchTeamSeasonStats(ctx, leagueID, t.ExternalID, s.cfg.Season)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch season stats failed",
				"team_id", t.ID,
				"team_external_id", t.ExternalID,
				"error", err.Error(),
			)
			continue
		}

		stats := teamstats.SeasonStats{
			TeamID:       t.ID,
			Season:       s.season(),
			Played:       raw.Played,
			Wins:         raw.Wins,
			Draws:        raw.Draws,
			Losses:       raw.Losses,
			GoalsFor:     raw.GoalsFor,
			GoalsAgainst: raw.GoalsAgainst,
			Home: teamstats.SplitStats{
				Played:       raw.HomePlayed,
				Wins:         raw.HomeWins,
				Draws:        raw.HomeDraws,
				Losses:       raw.HomeLosses,
				GoalsFor:     raw.HomeGoalsFor,
				GoalsAgainst: raw.HomeGoalsAgainst,
			},
			Away: teamstats.SplitStats{
				Played:       raw.AwayPlayed,
				Wins:         raw.AwayWins,
				Draws:        raw.AwayDraws,
				Losses:       raw.AwayLosses,
				GoalsFor:     raw.AwayGoalsFor,
				GoalsAgainst: raw.AwayGoalsAgainst,
			},
			Points:    raw.Wins*3 + raw.Draws,
			Form:      raw.Form,
			UpdatedAt: updatedAt,
		}
		if err := s.teamStatsRepo.Upsert(ctx, stats); err != nil {
			return count, fmt.Errorf("upsert season stats team=%s: %w", t.ID, err)
		}
		count++
	}

	s.logger.InfoContext(ctx, "synced season stats", "league_id", leagueID, "count", count)
	return count, nil
}

func (s *SyncService) teamIDsByExternal(ctx context.Context, leagueID string) (map[int64]string, error) {
	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams league=%s: %w", leagueID, err)
	}

	byExternal := make(map[int64]string, len(teams))
	for _, t := range teams {
		byExternal[t.ExternalID] = t.ID
	}
	return byExternal, nil
}

func (s *SyncService) upsertFixtures(ctx context.Context, leagueID string, fixtures []ExternalMatch, teamIDByExternal map[int64]string) ([]match.Match, error) {
	out := make([]match.Match, 0, len(fixtures))
	for _, item := range fixtures {
		homeID, homeOK := teamIDByExternal[item.HomeTeamExternalID]
		awayID, awayOK := teamIDByExternal[item.AwayTeamExternalID]
		if !homeOK || !awayOK {
			s.logger.WarnContext(ctx, "skipping fixture with unknown team",
				"fixture_external_id", item.ExternalID,
				"home_external_id", item.HomeTeamExternalID,
				"away_external_id", item.AwayTeamExternalID,
			)
			continue
		}

		row := match.Match{
			ExternalID: item.ExternalID,
			LeagueID:   leagueID,
			Season:     strconv.Itoa(item.Season),
			Round:      item.Round,
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			KickoffAt:  item.KickoffAt,
			Status:     match.NormalizeStatus(item.Status),
			HomeGoals:  item.HomeGoals,
			AwayGoals:  item.AwayGoals,
		}

		existing, exists, err := s.matchRepo.GetByExternalID(ctx, item.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("get match external_id=%d: %w", item.ExternalID, err)
		}
		if exists {
			row.ID = existing.ID
			row.HomeOdds = existing.HomeOdds
			row.DrawOdds = existing.DrawOdds
			row.AwayOdds = existing.AwayOdds
		} else {
			newID, err := s.idGen.NewID()
			if err != nil {
				return nil, fmt.Errorf("generate match id: %w", err)
			}
			row.ID = newID
		}

		if match.IsFinishedStatus(row.Status) {
			row.Result = row.ResolveResult()
			finishedAt := row.KickoffAt.Add(105 * time.Minute)
			row.FinishedAt = &finishedAt
		}

		if err := s.matchRepo.Upsert(ctx, row); err != nil {
			return nil, fmt.Errorf("upsert match external_id=%d: %w", item.ExternalID, err)
		}
		out = append(out, row)
	}

	return out, nil
}

// enrichMatches fans fixture-scoped provider calls over a bounded worker
// pool: odds for upcoming matches, statistics lines for finished ones.
// Individual fixture failures are counted, not fatal.
func (s *SyncService) enrichMatches(ctx context.Context, matches []match.Match, teamIDByExternal map[int64]string) (int, int, int, error) {
	if len(matches) == 0 {
		return 0, 0, 0, nil
	}

	workerCount := s.cfg.Workers
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(matches) {
		workerCount = len(matches)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		oddsUpdated  atomic.Int32
		statsUpdated atomic.Int32
		failures     atomic.Int32
		mu           sync.Mutex
	)
	xg := make(map[string]*xgAccumulator)

	var workers sync.WaitGroup
	for _, matchItem := range matches {
		matchItem := matchItem
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if match.IsFinishedStatus(matchItem.Status) {
				lines, err := s.provider.FetchFixtureStats(ctx, matchItem.ExternalID)
				if err != nil {
					failures.Add(1)
					s.logger.WarnContext(ctx, "fetch fixture stats failed",
						"fixture_external_id", matchItem.ExternalID,
						"error", err.Error(),
					)
					return
				}
				mu.Lock()
				accumulateFixtureStats(xg, matchItem.Season, lines, teamIDByExternal)
				mu.Unlock()
				statsUpdated.Add(1)
				return
			}

			odds, err := s.provider.FetchOdds(ctx, matchItem.ExternalID)
			if err != nil {
				failures.Add(1)
				s.logger.WarnContext(ctx, "fetch odds failed",
					"fixture_external_id", matchItem.ExternalID,
					"error", err.Error(),
				)
				return
			}
			if odds.Home <= 1 || odds.Draw <= 1 || odds.Away <= 1 {
				return
			}

			matchItem.HomeOdds = &odds.Home
			matchItem.DrawOdds = &odds.Draw
			matchItem.AwayOdds = &odds.Away
			if err := s.matchRepo.Upsert(ctx, matchItem); err != nil {
				failures.Add(1)
				s.logger.WarnContext(ctx, "store odds failed",
					"match_id", matchItem.ID,
					"error", err.Error(),
				)
				return
			}
			oddsUpdated.Add(1)
		}); err != nil {
			workers.Done()
			return 0, 0, 0, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	if err := s.storeAdvancedStats(ctx, xg); err != nil {
		return int(oddsUpdated.Load()), int(statsUpdated.Load()), int(failures.Load()), err
	}

	return int(oddsUpdated.Load()), int(statsUpdated.Load()), int(failures.Load()), nil
}

type xgAccumulator struct {
	teamID        string
	season        string
	matches       int
	xgFor         float64
	xgAgainst     float64
	possessionSum float64
}

// accumulateFixtureStats folds one fixture's two stats lines into per-team
// season accumulators. Stats lines carry external team IDs, so each side
// resolves to a public team ID through the league map.
func accumulateFixtureStats(acc map[string]*xgAccumulator, season string, lines []ExternalFixtureTeamStats, teamIDByExternal map[int64]string) {
	if len(lines) != 2 {
		return
	}

	for i, own := range lines {
		opp := lines[1-i]
		teamID, ok := teamIDByExternal[own.TeamExternalID]
		if !ok {
			continue
		}

		key := teamID + "|" + season
		entry, found := acc[key]
		if !found {
			entry = &xgAccumulator{teamID: teamID, season: season}
			acc[key] = entry
		}
		entry.matches++
		entry.xgFor += own.ExpectedGoals
		entry.xgAgainst += opp.ExpectedGoals
		entry.possessionSum += own.PossessionPct
	}
}

func (s *SyncService) storeAdvancedStats(ctx context.Context, acc map[string]*xgAccumulator) error {
	keys := make([]string, 0, len(acc))
	for key := range acc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fetchedAt := s.now().UTC()
	for _, key := range keys {
		entry := acc[key]
		if entry.matches == 0 {
			continue
		}

		stats := advancedstats.TeamStats{
			TeamID:        entry.teamID,
			Season:        entry.season,
			XG:            entry.xgFor / float64(entry.matches),
			XGAgainst:     entry.xgAgainst / float64(entry.matches),
			PossessionPct: entry.possessionSum / float64(entry.matches),
			Source:        advancedStatsSource,
			FetchedAt:     fetchedAt,
		}
		if err := s.advStatsRepo.Upsert(ctx, stats); err != nil {
			return fmt.Errorf("upsert advanced stats team=%s: %w", entry.teamID, err)
		}
	}

	return nil
}
