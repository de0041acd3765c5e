package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
	"github.com/quinielabs/quiniela-assistant/internal/platform/logging"
)

const formLength = 5

type StatisticsService struct {
	matchRepo     match.Repository
	teamStatsRepo teamstats.Repository
	logger        *logging.Logger
	now           func() time.Time
}

func NewStatisticsService(
	matchRepo match.Repository,
	teamStatsRepo teamstats.Repository,
	logger *logging.Logger,
) *StatisticsService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &StatisticsService{
		matchRepo:     matchRepo,
		teamStatsRepo: teamStatsRepo,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *StatisticsService) GetTeamStats(ctx context.Context, teamID, season string) (teamstats.SeasonStats, error) {
	teamID = strings.TrimSpace(teamID)
	season = strings.TrimSpace(season)
	if teamID == "" || season == "" {
		return teamstats.SeasonStats{}, fmt.Errorf("%w: team id and season are required", ErrInvalidInput)
	}

	stats, exists, err := s.teamStatsRepo.GetByTeamAndSeason(ctx, teamID, season)
	if err != nil {
		return teamstats.SeasonStats{}, fmt.Errorf("get team season stats: %w", err)
	}
	if !exists {
		return teamstats.SeasonStats{}, fmt.Errorf("%w: stats team=%s season=%s", ErrNotFound, teamID, season)
	}

	return stats, nil
}

func (s *StatisticsService) ListSeasonTable(ctx context.Context, season string) ([]teamstats.SeasonStats, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	items, err := s.teamStatsRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list season stats: %w", err)
	}

	return items, nil
}

// RecomputeSeason rebuilds every team's season aggregates from the finished
// matches on record. Positions follow points then goal difference.
func (s *StatisticsService) RecomputeSeason(ctx context.Context, leagueID, season string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.RecomputeSeason")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" {
		return 0, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	finished, err := s.matchRepo.ListFinishedBefore(ctx, strings.TrimSpace(leagueID), s.now().UTC(), 0)
	if err != nil {
		return 0, fmt.Errorf("list finished matches: %w", err)
	}

	table := buildSeasonTable(finished, season)
	if len(table) == 0 {
		return 0, nil
	}

	updatedAt := s.now().UTC()
	for i := range table {
		table[i].UpdatedAt = updatedAt
		if err := s.teamStatsRepo.Upsert(ctx, table[i]); err != nil {
			return 0, fmt.Errorf("upsert season stats team=%s: %w", table[i].TeamID, err)
		}
	}

	s.logger.InfoContext(ctx, "recomputed season statistics",
		"season", season,
		"league_id", leagueID,
		"teams", len(table),
		"matches", len(finished),
	)

	return len(table), nil
}

func buildSeasonTable(finished []match.Match, season string) []teamstats.SeasonStats {
	type formEntry struct {
		kickoff time.Time
		letter  string
	}

	byTeam := make(map[string]*teamstats.SeasonStats)
	formByTeam := make(map[string][]formEntry)
	ensure := func(teamID string) *teamstats.SeasonStats {
		if s, ok := byTeam[teamID]; ok {
			return s
		}
		s := &teamstats.SeasonStats{TeamID: teamID, Season: season}
		byTeam[teamID] = s
		return s
	}

	for _, m := range finished {
		if m.Season != season || m.HomeGoals == nil || m.AwayGoals == nil {
			continue
		}
		result := m.ResolveResult()
		if result == match.ResultNone {
			continue
		}

		home := ensure(m.HomeTeamID)
		away := ensure(m.AwayTeamID)

		home.Played++
		away.Played++
		home.GoalsFor += *m.HomeGoals
		home.GoalsAgainst += *m.AwayGoals
		away.GoalsFor += *m.AwayGoals
		away.GoalsAgainst += *m.HomeGoals

		home.Home.Played++
		home.Home.GoalsFor += *m.HomeGoals
		home.Home.GoalsAgainst += *m.AwayGoals
		away.Away.Played++
		away.Away.GoalsFor += *m.AwayGoals
		away.Away.GoalsAgainst += *m.HomeGoals

		var homeLetter, awayLetter string
		switch result {
		case match.ResultHome:
			home.Wins++
			home.Home.Wins++
			home.Points += 3
			away.Losses++
			away.Away.Losses++
			homeLetter, awayLetter = "W", "L"
		case match.ResultAway:
			away.Wins++
			away.Away.Wins++
			away.Points += 3
			home.Losses++
			home.Home.Losses++
			homeLetter, awayLetter = "L", "W"
		default:
			home.Draws++
			home.Home.Draws++
			away.Draws++
			away.Away.Draws++
			home.Points++
			away.Points++
			homeLetter, awayLetter = "D", "D"
		}

		formByTeam[m.HomeTeamID] = append(formByTeam[m.HomeTeamID], formEntry{kickoff: m.KickoffAt, letter: homeLetter})
		formByTeam[m.AwayTeamID] = append(formByTeam[m.AwayTeamID], formEntry{kickoff: m.KickoffAt, letter: awayLetter})
	}

	for teamID, entries := range formByTeam {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].kickoff.Before(entries[j].kickoff)
		})
		if len(entries) > formLength {
			entries = entries[len(entries)-formLength:]
		}
		var form strings.Builder
		for _, entry := range entries {
			form.WriteString(entry.letter)
		}
		byTeam[teamID].Form = form.String()
	}

	out := make([]teamstats.SeasonStats, 0, len(byTeam))
	for _, s := range byTeam {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		gdI := out[i].GoalsFor - out[i].GoalsAgainst
		gdJ := out[j].GoalsFor - out[j].GoalsAgainst
		if gdI != gdJ {
			return gdI > gdJ
		}
		if out[i].GoalsFor != out[j].GoalsFor {
			return out[i].GoalsFor > out[j].GoalsFor
		}
		return out[i].TeamID < out[j].TeamID
	})
	for i := range out {
		out[i].Position = i + 1
	}

	return out
}
