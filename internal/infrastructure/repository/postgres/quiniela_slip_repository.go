package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
	qb "github.com/quinielabs/quiniela-assistant/internal/platform/querybuilder"
)

type QuinielaSlipRepository struct {
	db *sqlx.DB
}

func NewQuinielaSlipRepository(db *sqlx.DB) *QuinielaSlipRepository {
	return &QuinielaSlipRepository{db: db}
}

func (r *QuinielaSlipRepository) Insert(ctx context.Context, slip quiniela.UserSlip) error {
	if err := slip.ValidateBasic(); err != nil {
		return fmt.Errorf("validate slip: %w", err)
	}

	insertModel, err := slipInsertModelFromDomain(slip)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("quiniela_slips", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert slip query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert slip id=%s: %w", slip.ID, err)
	}

	return nil
}

func (r *QuinielaSlipRepository) GetByID(ctx context.Context, slipID string) (quiniela.UserSlip, bool, error) {
	query, args, err := qb.Select("*").From("quiniela_slips").
		Where(
			qb.Eq("public_id", slipID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return quiniela.UserSlip{}, false, fmt.Errorf("build select slip by id query: %w", err)
	}

	var row quinielaSlipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return quiniela.UserSlip{}, false, nil
		}
		return quiniela.UserSlip{}, false, fmt.Errorf("select slip by id: %w", err)
	}

	slip, err := row.toDomain()
	if err != nil {
		return quiniela.UserSlip{}, false, err
	}

	return slip, true, nil
}

func (r *QuinielaSlipRepository) ListBySeason(ctx context.Context, season string) ([]quiniela.UserSlip, error) {
	query, args, err := qb.Select("*").From("quiniela_slips").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round", "created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select slips by season query: %w", err)
	}

	return r.selectSlips(ctx, query, args)
}

func (r *QuinielaSlipRepository) ListAll(ctx context.Context) ([]quiniela.UserSlip, error) {
	query, args, err := qb.Select("*").From("quiniela_slips").
		Where(qb.IsNull("deleted_at")).
		OrderBy("season", "round", "created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select all slips query: %w", err)
	}

	return r.selectSlips(ctx, query, args)
}

func (r *QuinielaSlipRepository) Update(ctx context.Context, slip quiniela.UserSlip) error {
	if err := slip.ValidateBasic(); err != nil {
		return fmt.Errorf("validate slip: %w", err)
	}

	predictions, elige8, err := encodeSlipJSON(slip)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("quiniela_slips").
		Set("season", slip.Season).
		Set("round", slip.Round).
		Set("predictions", string(predictions)).
		Set("pleno_home", string(slip.Pleno.HomeGoals)).
		Set("pleno_away", string(slip.Pleno.AwayGoals)).
		Set("elige8", string(elige8)).
		Set("bet_type", string(slip.BetType)).
		Set("combinations", slip.Combinations).
		Set("cost_cents", slip.CostCents).
		Set("winning_cents", slip.WinningCents).
		Set("aciertos", slip.Aciertos).
		Set("finished", slip.Finished).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", slip.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update slip query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update slip id=%s: %w", slip.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slip rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update slip id=%s: no rows matched", slip.ID)
	}

	return nil
}

func (r *QuinielaSlipRepository) selectSlips(ctx context.Context, query string, args []any) ([]quiniela.UserSlip, error) {
	var rows []quinielaSlipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select slips: %w", err)
	}

	out := make([]quiniela.UserSlip, 0, len(rows))
	for _, row := range rows {
		slip, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, slip)
	}

	return out, nil
}
