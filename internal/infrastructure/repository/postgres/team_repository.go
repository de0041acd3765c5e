package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	qb "github.com/quinielabs/quiniela-assistant/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("league_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by league query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("external_id", externalID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by external id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by external id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}

	insertModel := teamInsertModel{
		PublicID:        t.ID,
		ExternalID:      nullableInt64(t.ExternalID),
		LeagueID:        t.LeagueID,
		Name:            t.Name,
		Short:           t.Short,
		LogoURL:         t.LogoURL,
		StadiumCapacity: t.StadiumCapacity,
		FoundedYear:     t.FoundedYear,
	}
	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (external_id) WHERE deleted_at IS NULL
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    name = EXCLUDED.name,
    short = EXCLUDED.short,
    logo_url = EXCLUDED.logo_url,
    stadium_capacity = EXCLUDED.stadium_capacity,
    founded_year = EXCLUDED.founded_year,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team external_id=%d: %w", t.ExternalID, err)
	}

	return nil
}
