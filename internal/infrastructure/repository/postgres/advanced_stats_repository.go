package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quinielabs/quiniela-assistant/internal/domain/advancedstats"
	qb "github.com/quinielabs/quiniela-assistant/internal/platform/querybuilder"
)

type advancedStatsTableModel struct {
	ID            int64      `db:"id"`
	TeamID        string     `db:"team_public_id"`
	Season        string     `db:"season"`
	XG            float64    `db:"xg"`
	XA            float64    `db:"xa"`
	XT            float64    `db:"xt"`
	XGAgainst     float64    `db:"xg_against"`
	SetPieceXG    float64    `db:"set_piece_xg"`
	PossessionPct float64    `db:"possession_pct"`
	Source        string     `db:"source"`
	FetchedAt     time.Time  `db:"fetched_at"`
	CreatedAt     time.Time  `db:"created_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type advancedStatsInsertModel struct {
	TeamID        string    `db:"team_public_id"`
	Season        string    `db:"season"`
	XG            float64   `db:"xg"`
	XA            float64   `db:"xa"`
	XT            float64   `db:"xt"`
	XGAgainst     float64   `db:"xg_against"`
	SetPieceXG    float64   `db:"set_piece_xg"`
	PossessionPct float64   `db:"possession_pct"`
	Source        string    `db:"source"`
	FetchedAt     time.Time `db:"fetched_at"`
}

type AdvancedStatsRepository struct {
	db *sqlx.DB
}

func NewAdvancedStatsRepository(db *sqlx.DB) *AdvancedStatsRepository {
	return &AdvancedStatsRepository{db: db}
}

func (r *AdvancedStatsRepository) GetByTeamAndSeason(ctx context.Context, teamID, season string) (advancedstats.TeamStats, bool, error) {
	query, args, err := qb.Select("*").From("advanced_team_stats").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return advancedstats.TeamStats{}, false, fmt.Errorf("build select advanced stats query: %w", err)
	}

	var row advancedStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return advancedstats.TeamStats{}, false, nil
		}
		return advancedstats.TeamStats{}, false, fmt.Errorf("select advanced stats: %w", err)
	}

	return advancedstats.TeamStats{
		TeamID:        row.TeamID,
		Season:        row.Season,
		XG:            row.XG,
		XA:            row.XA,
		XT:            row.XT,
		XGAgainst:     row.XGAgainst,
		SetPieceXG:    row.SetPieceXG,
		PossessionPct: row.PossessionPct,
		Source:        row.Source,
		FetchedAt:     row.FetchedAt.UTC(),
	}, true, nil
}

func (r *AdvancedStatsRepository) Upsert(ctx context.Context, stats advancedstats.TeamStats) error {
	if stats.TeamID == "" || stats.Season == "" {
		return fmt.Errorf("team id and season are required")
	}

	fetchedAt := stats.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	insertModel := advancedStatsInsertModel{
		TeamID:        stats.TeamID,
		Season:        stats.Season,
		XG:            stats.XG,
		XA:            stats.XA,
		XT:            stats.XT,
		XGAgainst:     stats.XGAgainst,
		SetPieceXG:    stats.SetPieceXG,
		PossessionPct: stats.PossessionPct,
		Source:        stats.Source,
		FetchedAt:     fetchedAt,
	}
	query, args, err := qb.InsertModel("advanced_team_stats", insertModel, `ON CONFLICT (team_public_id, season) WHERE deleted_at IS NULL
DO UPDATE SET
    xg = EXCLUDED.xg,
    xa = EXCLUDED.xa,
    xt = EXCLUDED.xt,
    xg_against = EXCLUDED.xg_against,
    set_piece_xg = EXCLUDED.set_piece_xg,
    possession_pct = EXCLUDED.possession_pct,
    source = EXCLUDED.source,
    fetched_at = EXCLUDED.fetched_at,
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert advanced stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert advanced stats team=%s season=%s: %w", stats.TeamID, stats.Season, err)
	}

	return nil
}
