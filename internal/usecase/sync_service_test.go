package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/infrastructure/repository/memory"
)

type fakeProvider struct {
	teams        []ExternalTeam
	fixtures     []ExternalMatch
	odds         map[int64]ExternalOdds
	fixtureStats map[int64][]ExternalFixtureTeamStats
	seasonStats  map[int64]ExternalTeamSeasonStats
}

func (p *fakeProvider) FetchTeams(_ context.Context, _ string, _ int) ([]ExternalTeam, error) {
	return p.teams, nil
}

func (p *fakeProvider) FetchFixtures(_ context.Context, _ string, _ int, _ int) ([]ExternalMatch, error) {
	return p.fixtures, nil
}

func (p *fakeProvider) FetchOdds(_ context.Context, fixtureExternalID int64) (ExternalOdds, error) {
	odds, ok := p.odds[fixtureExternalID]
	if !ok {
		return ExternalOdds{}, errors.New("no odds for fixture")
	}
	return odds, nil
}

func (p *fakeProvider) FetchTeamSeasonStats(_ context.Context, _ string, teamExternalID int64, _ int) (ExternalTeamSeasonStats, error) {
	stats, ok := p.seasonStats[teamExternalID]
	if !ok {
		return ExternalTeamSeasonStats{}, errors.New("no season stats for team")
	}
	return stats, nil
}

func (p *fakeProvider) FetchFixtureStats(_ context.Context, fixtureExternalID int64) ([]ExternalFixtureTeamStats, error) {
	lines, ok := p.fixtureStats[fixtureExternalID]
	if !ok {
		return nil, errors.New("no stats for fixture")
	}
	return lines, nil
}

func syncTestService(provider SportDataProvider) (*SyncService, *memory.TeamRepository, *memory.MatchRepository, *memory.AdvancedStatsRepository) {
	teamRepo := memory.NewTeamRepository(nil)
	matchRepo := memory.NewMatchRepository(nil)
	teamStatsRepo := memory.NewTeamStatsRepository(nil)
	advStatsRepo := memory.NewAdvancedStatsRepository(nil)
	statistics := NewStatisticsService(matchRepo, teamStatsRepo, nil)

	service := NewSyncService(
		provider,
		teamRepo,
		matchRepo,
		teamStatsRepo,
		advStatsRepo,
		statistics,
		&seqIDGenerator{},
		SyncConfig{Enabled: true, LeagueIDs: []string{team.LeagueLaLiga}, Season: 2025, Workers: 2},
		nil,
	)

	return service, teamRepo, matchRepo, advStatsRepo
}

func laLigaProvider() *fakeProvider {
	hg, ag := 3, 1
	return &fakeProvider{
		teams: []ExternalTeam{
			{ExternalID: 541, Name: "Real Madrid", Short: "RMA"},
			{ExternalID: 529, Name: "Barcelona", Short: "BAR"},
		},
		fixtures: []ExternalMatch{
			{
				ExternalID:         9001,
				Season:             2025,
				Round:              3,
				KickoffAt:          time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC),
				Status:             "FT",
				HomeTeamExternalID: 541,
				AwayTeamExternalID: 529,
				HomeGoals:          &hg,
				AwayGoals:          &ag,
			},
			{
				ExternalID:         9002,
				Season:             2025,
				Round:              4,
				KickoffAt:          time.Date(2025, 9, 13, 19, 0, 0, 0, time.UTC),
				Status:             "SCHEDULED",
				HomeTeamExternalID: 529,
				AwayTeamExternalID: 541,
			},
		},
		odds: map[int64]ExternalOdds{
			9002: {FixtureExternalID: 9002, Home: 2.05, Draw: 3.40, Away: 3.30},
		},
		fixtureStats: map[int64][]ExternalFixtureTeamStats{
			9001: {
				{FixtureExternalID: 9001, TeamExternalID: 541, ShotsTotal: 18, ShotsOnTarget: 8, PossessionPct: 58, ExpectedGoals: 2.4},
				{FixtureExternalID: 9001, TeamExternalID: 529, ShotsTotal: 9, ShotsOnTarget: 3, PossessionPct: 42, ExpectedGoals: 0.8},
			},
		},
	}
}

func TestSyncService_SyncRound(t *testing.T) {
	t.Parallel()

	service, teamRepo, matchRepo, advStatsRepo := syncTestService(laLigaProvider())

	result, err := service.SyncRound(context.Background(), team.LeagueLaLiga, 3)
	if err != nil {
		t.Fatalf("SyncRound error: %v", err)
	}
	if result.Teams != 2 || result.Matches != 2 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.OddsUpdated != 1 || result.StatsUpdated != 1 || result.Failures != 0 {
		t.Fatalf("unexpected enrichment counts: %+v", result)
	}
	if result.TeamsRecounted != 2 {
		t.Fatalf("expected season recompute over both teams, got %d", result.TeamsRecounted)
	}

	finished, exists, err := matchRepo.GetByExternalID(context.Background(), 9001)
	if err != nil || !exists {
		t.Fatalf("expected finished match on record, exists=%v err=%v", exists, err)
	}
	if finished.Result != "1" || finished.FinishedAt == nil {
		t.Fatalf("unexpected finished match: %+v", finished)
	}

	upcoming, exists, err := matchRepo.GetByExternalID(context.Background(), 9002)
	if err != nil || !exists {
		t.Fatalf("expected upcoming match on record, exists=%v err=%v", exists, err)
	}
	if upcoming.HomeOdds == nil || *upcoming.HomeOdds != 2.05 {
		t.Fatalf("expected odds on the upcoming match, got %+v", upcoming)
	}

	madrid, exists, err := teamRepo.GetByExternalID(context.Background(), 541)
	if err != nil || !exists {
		t.Fatalf("expected Real Madrid on record, exists=%v err=%v", exists, err)
	}
	adv, exists, err := advStatsRepo.GetByTeamAndSeason(context.Background(), madrid.ID, "2025")
	if err != nil || !exists {
		t.Fatalf("expected advanced stats, exists=%v err=%v", exists, err)
	}
	if adv.XG != 2.4 || adv.XGAgainst != 0.8 || adv.PossessionPct != 58 {
		t.Fatalf("unexpected advanced stats: %+v", adv)
	}
}

func TestSyncService_SyncRound_PreservesTeamIDs(t *testing.T) {
	t.Parallel()

	service, teamRepo, _, _ := syncTestService(laLigaProvider())

	first, err := service.SyncRound(context.Background(), team.LeagueLaLiga, 3)
	if err != nil {
		t.Fatalf("first SyncRound error: %v", err)
	}
	madridBefore, _, err := teamRepo.GetByExternalID(context.Background(), 541)
	if err != nil {
		t.Fatalf("GetByExternalID error: %v", err)
	}

	second, err := service.SyncRound(context.Background(), team.LeagueLaLiga, 3)
	if err != nil {
		t.Fatalf("second SyncRound error: %v", err)
	}
	madridAfter, _, err := teamRepo.GetByExternalID(context.Background(), 541)
	if err != nil {
		t.Fatalf("GetByExternalID error: %v", err)
	}

	if madridBefore.ID != madridAfter.ID {
		t.Fatalf("expected stable public team id across syncs, got %s vs %s", madridBefore.ID, madridAfter.ID)
	}
	if first.Matches != second.Matches {
		t.Fatalf("expected idempotent match counts, got %d vs %d", first.Matches, second.Matches)
	}
}

func TestSyncService_SyncAll(t *testing.T) {
	t.Parallel()

	service, _, _, _ := syncTestService(laLigaProvider())

	results, err := service.SyncAll(context.Background(), 3)
	if err != nil {
		t.Fatalf("SyncAll error: %v", err)
	}
	if len(results) != 1 || results[0].LeagueID != team.LeagueLaLiga {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSyncService_Disabled(t *testing.T) {
	t.Parallel()

	service, _, _, _ := syncTestService(laLigaProvider())
	service.cfg.Enabled = false

	_, err := service.SyncRound(context.Background(), team.LeagueLaLiga, 3)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if _, err := service.SyncTeams(context.Background(), team.LeagueLaLiga); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable for SyncTeams, got %v", err)
	}
}

func TestSyncService_SyncTeamStats(t *testing.T) {
	t.Parallel()

	provider := laLigaProvider()
	provider.seasonStats = map[int64]ExternalTeamSeasonStats{
		541: {TeamExternalID: 541, Played: 3, Wins: 3, GoalsFor: 8, GoalsAgainst: 2, HomePlayed: 2, HomeWins: 2, HomeGoalsFor: 5, HomeGoalsAgainst: 1, AwayPlayed: 1, AwayWins: 1, AwayGoalsFor: 3, AwayGoalsAgainst: 1, Form: "WWW"},
		529: {TeamExternalID: 529, Played: 3, Wins: 2, Draws: 1, GoalsFor: 7, GoalsAgainst: 3, Form: "WDW"},
	}
	service, teamRepo, _, _ := syncTestService(provider)

	if _, err := service.SyncTeams(context.Background(), team.LeagueLaLiga); err != nil {
		t.Fatalf("SyncTeams error: %v", err)
	}

	count, err := service.SyncTeamStats(context.Background(), team.LeagueLaLiga)
	if err != nil {
		t.Fatalf("SyncTeamStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 teams with season stats, got %d", count)
	}

	madrid, _, err := teamRepo.GetByExternalID(context.Background(), 541)
	if err != nil {
		t.Fatalf("GetByExternalID error: %v", err)
	}
	stats, exists, err := service.teamStatsRepo.GetByTeamAndSeason(context.Background(), madrid.ID, "2025")
	if err != nil || !exists {
		t.Fatalf("expected season stats, exists=%v err=%v", exists, err)
	}
	if stats.Points != 9 || stats.Form != "WWW" || stats.Home.Wins != 2 {
		t.Fatalf("unexpected season stats: %+v", stats)
	}
}
