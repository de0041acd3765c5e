package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/infrastructure/repository/memory"
)

func finishedMatch(id string, round int, home, away string, homeGoals, awayGoals int, kickoff time.Time) match.Match {
	hg, ag := homeGoals, awayGoals
	m := match.Match{
		ID:         id,
		LeagueID:   team.LeagueLaLiga,
		Season:     "2025",
		Round:      round,
		HomeTeamID: home,
		AwayTeamID: away,
		KickoffAt:  kickoff,
		Status:     match.StatusFinished,
		HomeGoals:  &hg,
		AwayGoals:  &ag,
	}
	m.Result = m.ResolveResult()
	return m
}

func TestStatisticsService_RecomputeSeason(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 8, 16, 18, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository([]match.Match{
		finishedMatch("m1", 1, "team-a", "team-b", 2, 0, base),
		finishedMatch("m2", 1, "team-c", "team-a", 1, 1, base.Add(2*time.Hour)),
		finishedMatch("m3", 2, "team-b", "team-c", 0, 3, base.Add(7*24*time.Hour)),
	})
	statsRepo := memory.NewTeamStatsRepository(nil)

	service := NewStatisticsService(matchRepo, statsRepo, nil)
	service.now = func() time.Time { return base.Add(30 * 24 * time.Hour) }

	count, err := service.RecomputeSeason(context.Background(), team.LeagueLaLiga, "2025")
	if err != nil {
		t.Fatalf("RecomputeSeason error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 teams recomputed, got %d", count)
	}

	table, err := service.ListSeasonTable(context.Background(), "2025")
	if err != nil {
		t.Fatalf("ListSeasonTable error: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("expected 3 table rows, got %d", len(table))
	}

	// team-a: W + D = 4 points, GD +2. team-c: D + W = 4 points, GD +3.
	if table[0].TeamID != "team-c" || table[0].Points != 4 || table[0].Position != 1 {
		t.Fatalf("unexpected leader: %+v", table[0])
	}
	if table[1].TeamID != "team-a" || table[1].Points != 4 || table[1].Position != 2 {
		t.Fatalf("unexpected runner-up: %+v", table[1])
	}
	if table[2].TeamID != "team-b" || table[2].Points != 0 || table[2].Position != 3 {
		t.Fatalf("unexpected last place: %+v", table[2])
	}

	if table[0].Form != "DW" {
		t.Fatalf("expected team-c form DW, got %q", table[0].Form)
	}
	if table[1].Home.Wins != 1 || table[1].Away.Draws != 1 {
		t.Fatalf("unexpected team-a splits: home=%+v away=%+v", table[1].Home, table[1].Away)
	}
}

func TestStatisticsService_RecomputeSeason_IgnoresOtherSeasons(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 9, 1, 16, 0, 0, 0, time.UTC)
	old := finishedMatch("m-old", 1, "team-a", "team-b", 1, 0, base)
	old.Season = "2024"
	matchRepo := memory.NewMatchRepository([]match.Match{old})
	statsRepo := memory.NewTeamStatsRepository(nil)

	service := NewStatisticsService(matchRepo, statsRepo, nil)
	service.now = func() time.Time { return base.Add(400 * 24 * time.Hour) }

	count, err := service.RecomputeSeason(context.Background(), team.LeagueLaLiga, "2025")
	if err != nil {
		t.Fatalf("RecomputeSeason error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no teams for empty season, got %d", count)
	}
}

func TestStatisticsService_GetTeamStats_NotFound(t *testing.T) {
	t.Parallel()

	service := NewStatisticsService(memory.NewMatchRepository(nil), memory.NewTeamStatsRepository(nil), nil)

	_, err := service.GetTeamStats(context.Background(), "team-x", "2025")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
