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

func TestMatchService_ListUpcoming(t *testing.T) {
	t.Parallel()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	service := NewMatchService(matchRepo)
	service.now = func() time.Time { return time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC) }

	upcoming, err := service.ListUpcoming(context.Background(), team.LeagueLaLiga, 0)
	if err != nil {
		t.Fatalf("ListUpcoming error: %v", err)
	}
	if len(upcoming) != 5 {
		t.Fatalf("expected 5 seeded upcoming matches, got %d", len(upcoming))
	}
	for _, m := range upcoming {
		if m.Status != match.StatusScheduled {
			t.Fatalf("expected scheduled matches only, got %+v", m)
		}
	}
	for i := 1; i < len(upcoming); i++ {
		if upcoming[i-1].KickoffAt.After(upcoming[i].KickoffAt) {
			t.Fatalf("expected kickoff ascending order")
		}
	}

	limited, err := service.ListUpcoming(context.Background(), team.LeagueLaLiga, 2)
	if err != nil {
		t.Fatalf("ListUpcoming (limited) error: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(limited))
	}
}

func TestMatchService_GetMatch(t *testing.T) {
	t.Parallel()

	seeded := memory.SeedMatches()
	service := NewMatchService(memory.NewMatchRepository(seeded))

	got, err := service.GetMatch(context.Background(), seeded[0].ID)
	if err != nil {
		t.Fatalf("GetMatch error: %v", err)
	}
	if got.ID != seeded[0].ID {
		t.Fatalf("unexpected match: %+v", got)
	}

	if _, err := service.GetMatch(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.GetMatch(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_ListRound(t *testing.T) {
	t.Parallel()

	service := NewMatchService(memory.NewMatchRepository(memory.SeedMatches()))

	round, err := service.ListRound(context.Background(), team.LeagueLaLiga, memory.SeedSeason, 3)
	if err != nil {
		t.Fatalf("ListRound error: %v", err)
	}
	if len(round) != 5 {
		t.Fatalf("expected 5 round matches, got %d", len(round))
	}

	if _, err := service.ListRound(context.Background(), team.LeagueLaLiga, "", 3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank season, got %v", err)
	}
}
