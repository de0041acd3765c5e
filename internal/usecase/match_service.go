package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
)

const defaultUpcomingLimit = 15

type MatchService struct {
	matchRepo match.Repository
	now       func() time.Time
}

func NewMatchService(matchRepo match.Repository) *MatchService {
	return &MatchService{
		matchRepo: matchRepo,
		now:       time.Now,
	}
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return item, nil
}

func (s *MatchService) ListUpcoming(ctx context.Context, leagueID string, limit int) ([]match.Match, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}

	items, err := s.matchRepo.ListUpcoming(ctx, strings.TrimSpace(leagueID), s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}

	return items, nil
}

func (s *MatchService) ListRound(ctx context.Context, leagueID, season string, round int) ([]match.Match, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if round <= 0 {
		return nil, fmt.Errorf("%w: round must be greater than zero", ErrInvalidInput)
	}

	items, err := s.matchRepo.ListBySeasonAndRound(ctx, strings.TrimSpace(leagueID), season, round)
	if err != nil {
		return nil, fmt.Errorf("list matches by round: %w", err)
	}

	return items, nil
}
