package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
	qb "github.com/quinielabs/quiniela-assistant/internal/platform/querybuilder"
)

type predictionTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	MatchID      string    `db:"match_public_id"`
	ModelVersion string    `db:"model_version"`
	Tier         string    `db:"tier"`
	HomeProb     float64   `db:"home_prob"`
	DrawProb     float64   `db:"draw_prob"`
	AwayProb     float64   `db:"away_prob"`
	Result       string    `db:"result"`
	Confidence   float64   `db:"confidence"`
	Explanation  string    `db:"explanation"`
	CreatedAt    time.Time `db:"created_at"`
}

type predictionInsertModel struct {
	PublicID     string    `db:"public_id"`
	MatchID      string    `db:"match_public_id"`
	ModelVersion string    `db:"model_version"`
	Tier         string    `db:"tier"`
	HomeProb     float64   `db:"home_prob"`
	DrawProb     float64   `db:"draw_prob"`
	AwayProb     float64   `db:"away_prob"`
	Result       string    `db:"result"`
	Confidence   float64   `db:"confidence"`
	Explanation  string    `db:"explanation"`
	CreatedAt    time.Time `db:"created_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:           m.PublicID,
		MatchID:      m.MatchID,
		ModelVersion: m.ModelVersion,
		Tier:         prediction.Tier(m.Tier),
		HomeProb:     m.HomeProb,
		DrawProb:     m.DrawProb,
		AwayProb:     m.AwayProb,
		Result:       m.Result,
		Confidence:   m.Confidence,
		Explanation:  m.Explanation,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Insert(ctx context.Context, p prediction.Prediction) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate prediction: %w", err)
	}

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	insertModel := predictionInsertModel{
		PublicID:     p.ID,
		MatchID:      p.MatchID,
		ModelVersion: p.ModelVersion,
		Tier:         string(p.Tier),
		HomeProb:     p.HomeProb,
		DrawProb:     p.DrawProb,
		AwayProb:     p.AwayProb,
		Result:       p.Result,
		Confidence:   p.Confidence,
		Explanation:  p.Explanation,
		CreatedAt:    createdAt,
	}
	query, args, err := qb.InsertModel("predictions", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction match=%s: %w", p.MatchID, err)
	}

	return nil
}

func (r *PredictionRepository) GetLatestByMatch(ctx context.Context, matchID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build select latest prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("select latest prediction: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PredictionRepository) ListRecent(ctx context.Context, limit int) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
