package teamstats

import "context"

type Repository interface {
	GetByTeamAndSeason(ctx context.Context, teamID, season string) (SeasonStats, bool, error)
	ListBySeason(ctx context.Context, season string) ([]SeasonStats, error)
	Upsert(ctx context.Context, stats SeasonStats) error
}
