package match

import (
	"context"
	"time"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Match, bool, error)
	ListBySeasonAndRound(ctx context.Context, leagueID, season string, round int) ([]Match, error)
	ListFinishedBefore(ctx context.Context, leagueID string, before time.Time, limit int) ([]Match, error)
	ListFinishedByTeam(ctx context.Context, teamID string, limit int) ([]Match, error)
	ListHeadToHead(ctx context.Context, homeTeamID, awayTeamID string, limit int) ([]Match, error)
	ListUpcoming(ctx context.Context, leagueID string, from time.Time, limit int) ([]Match, error)
	Upsert(ctx context.Context, m Match) error
}
