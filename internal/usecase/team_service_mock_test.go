package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
)

type teamRepoMock struct {
	mock.Mock
}

func (m *teamRepoMock) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	args := m.Called(ctx, leagueID)
	items, _ := args.Get(0).([]team.Team)
	return items, args.Error(1)
}

func (m *teamRepoMock) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	args := m.Called(ctx, teamID)
	item, _ := args.Get(0).(team.Team)
	return item, args.Bool(1), args.Error(2)
}

func (m *teamRepoMock) GetByExternalID(ctx context.Context, externalID int64) (team.Team, bool, error) {
	args := m.Called(ctx, externalID)
	item, _ := args.Get(0).(team.Team)
	return item, args.Bool(1), args.Error(2)
}

func (m *teamRepoMock) Upsert(ctx context.Context, t team.Team) error {
	return m.Called(ctx, t).Error(0)
}

type teamStatsRepoMock struct {
	mock.Mock
}

func (m *teamStatsRepoMock) GetByTeamAndSeason(ctx context.Context, teamID, season string) (teamstats.SeasonStats, bool, error) {
	args := m.Called(ctx, teamID, season)
	stats, _ := args.Get(0).(teamstats.SeasonStats)
	return stats, args.Bool(1), args.Error(2)
}

func (m *teamStatsRepoMock) ListBySeason(ctx context.Context, season string) ([]teamstats.SeasonStats, error) {
	args := m.Called(ctx, season)
	items, _ := args.Get(0).([]teamstats.SeasonStats)
	return items, args.Error(1)
}

func (m *teamStatsRepoMock) Upsert(ctx context.Context, stats teamstats.SeasonStats) error {
	return m.Called(ctx, stats).Error(0)
}

func TestTeamService_ListTeams_UsingMocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := new(teamRepoMock)
	statsRepo := new(teamStatsRepoMock)
	service := NewTeamService(teamRepo, statsRepo)

	expected := []team.Team{
		{ID: "esp-rma", LeagueID: team.LeagueLaLiga, Name: "Real Madrid"},
		{ID: "esp-bar", LeagueID: team.LeagueLaLiga, Name: "FC Barcelona"},
	}
	teamRepo.
		On("ListByLeague", mock.Anything, team.LeagueLaLiga).
		Return(expected, nil).
		Once()

	got, err := service.ListTeams(ctx, team.LeagueLaLiga)
	if err != nil {
		t.Fatalf("ListTeams error: %v", err)
	}
	if len(got) != len(expected) {
		t.Fatalf("unexpected team count: got=%d want=%d", len(got), len(expected))
	}
	if got[0].ID != expected[0].ID {
		t.Fatalf("unexpected team id: got=%s want=%s", got[0].ID, expected[0].ID)
	}
	teamRepo.AssertExpectations(t)
}

func TestTeamService_GetTeamDetails_RepoErrorUsingMocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := new(teamRepoMock)
	statsRepo := new(teamStatsRepoMock)
	service := NewTeamService(teamRepo, statsRepo)

	repoErr := errors.New("connection reset")
	teamRepo.
		On("GetByID", mock.Anything, "esp-rma").
		Return(team.Team{}, false, repoErr).
		Once()

	_, err := service.GetTeamDetails(ctx, "esp-rma", "2025")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
	teamRepo.AssertExpectations(t)
}

func TestTeamService_GetTeamDetails_StatsOptionalUsingMocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := new(teamRepoMock)
	statsRepo := new(teamStatsRepoMock)
	service := NewTeamService(teamRepo, statsRepo)

	teamRepo.
		On("GetByID", mock.Anything, "esp-bar").
		Return(team.Team{ID: "esp-bar", Name: "FC Barcelona"}, true, nil).
		Once()
	statsRepo.
		On("GetByTeamAndSeason", mock.Anything, "esp-bar", "2025").
		Return(teamstats.SeasonStats{}, false, nil).
		Once()

	details, err := service.GetTeamDetails(ctx, "esp-bar", "2025")
	if err != nil {
		t.Fatalf("GetTeamDetails error: %v", err)
	}
	if details.Statistics != nil {
		t.Fatalf("expected nil stats when none stored, got %+v", details.Statistics)
	}
	teamRepo.AssertExpectations(t)
	statsRepo.AssertExpectations(t)
}
