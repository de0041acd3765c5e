package advancedstats

import "context"

type Repository interface {
	GetByTeamAndSeason(ctx context.Context, teamID, season string) (TeamStats, bool, error)
	Upsert(ctx context.Context, stats TeamStats) error
}
