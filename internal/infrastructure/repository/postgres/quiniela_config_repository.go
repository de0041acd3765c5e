package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
	qb "github.com/quinielabs/quiniela-assistant/internal/platform/querybuilder"
)

type QuinielaConfigRepository struct {
	db *sqlx.DB
}

func NewQuinielaConfigRepository(db *sqlx.DB) *QuinielaConfigRepository {
	return &QuinielaConfigRepository{db: db}
}

func (r *QuinielaConfigRepository) Upsert(ctx context.Context, config quiniela.CustomConfig) error {
	if err := config.ValidateBasic(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	matchIDs, err := sonic.Marshal(config.MatchIDs)
	if err != nil {
		return fmt.Errorf("encode config match ids: %w", err)
	}

	createdAt := config.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := config.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	insertModel := quinielaConfigInsertModel{
		PublicID:     config.ID,
		Name:         config.Name,
		Season:       config.Season,
		Round:        config.Round,
		MatchIDs:     string(matchIDs),
		PlenoMatchID: config.PlenoMatchID,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
	}
	query, args, err := qb.InsertModel("quiniela_configs", insertModel, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    season = EXCLUDED.season,
    round = EXCLUDED.round,
    match_ids = EXCLUDED.match_ids,
    pleno_match_public_id = EXCLUDED.pleno_match_public_id,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert config query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert config id=%s: %w", config.ID, err)
	}

	return nil
}

func (r *QuinielaConfigRepository) GetByID(ctx context.Context, configID string) (quiniela.CustomConfig, bool, error) {
	query, args, err := qb.Select("*").From("quiniela_configs").
		Where(
			qb.Eq("public_id", configID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return quiniela.CustomConfig{}, false, fmt.Errorf("build select config by id query: %w", err)
	}

	var row quinielaConfigTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return quiniela.CustomConfig{}, false, nil
		}
		return quiniela.CustomConfig{}, false, fmt.Errorf("select config by id: %w", err)
	}

	config, err := row.toDomain()
	if err != nil {
		return quiniela.CustomConfig{}, false, err
	}

	return config, true, nil
}

func (r *QuinielaConfigRepository) ListBySeason(ctx context.Context, season string) ([]quiniela.CustomConfig, error) {
	query, args, err := qb.Select("*").From("quiniela_configs").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round", "name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select configs by season query: %w", err)
	}

	var rows []quinielaConfigTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select configs by season: %w", err)
	}

	out := make([]quiniela.CustomConfig, 0, len(rows))
	for _, row := range rows {
		config, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, config)
	}

	return out, nil
}
