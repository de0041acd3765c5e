package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
)

type TeamDetails struct {
	Team       team.Team
	Statistics *teamstats.SeasonStats
}

type TeamService struct {
	teamRepo      team.Repository
	teamStatsRepo teamstats.Repository
}

func NewTeamService(teamRepo team.Repository, teamStatsRepo teamstats.Repository) *TeamService {
	return &TeamService{
		teamRepo:      teamRepo,
		teamStatsRepo: teamStatsRepo,
	}
}

func (s *TeamService) ListTeams(ctx context.Context, leagueID string) ([]team.Team, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	items, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}

	return items, nil
}

func (s *TeamService) GetTeamDetails(ctx context.Context, teamID, season string) (TeamDetails, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TeamDetails{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	teamItem, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamDetails{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamDetails{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	details := TeamDetails{Team: teamItem}
	if season = strings.TrimSpace(season); season != "" {
		stats, exists, err := s.teamStatsRepo.GetByTeamAndSeason(ctx, teamID, season)
		if err != nil {
			return TeamDetails{}, fmt.Errorf("get team season stats: %w", err)
		}
		if exists {
			details.Statistics = &stats
		}
	}

	return details, nil
}
