package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/quinielabs/quiniela-assistant/internal/domain/modelperf"
	qb "github.com/quinielabs/quiniela-assistant/internal/platform/querybuilder"
)

type modelPerfTableModel struct {
	ID                int64     `db:"id"`
	PublicID          string    `db:"public_id"`
	ModelVersion      string    `db:"model_version"`
	TrainedAt         time.Time `db:"trained_at"`
	SampleCount       int       `db:"sample_count"`
	HoldoutAccuracy   float64   `db:"holdout_accuracy"`
	ClassPrecision    []byte    `db:"class_precision"`
	ClassRecall       []byte    `db:"class_recall"`
	FeatureImportance []byte    `db:"feature_importance"`
	CreatedAt         time.Time `db:"created_at"`
}

// JSON payloads go out as strings so the driver sends them as text, not bytea.
type modelPerfInsertModel struct {
	PublicID          string    `db:"public_id"`
	ModelVersion      string    `db:"model_version"`
	TrainedAt         time.Time `db:"trained_at"`
	SampleCount       int       `db:"sample_count"`
	HoldoutAccuracy   float64   `db:"holdout_accuracy"`
	ClassPrecision    string    `db:"class_precision"`
	ClassRecall       string    `db:"class_recall"`
	FeatureImportance string    `db:"feature_importance"`
}

func (m modelPerfTableModel) toDomain() (modelperf.Snapshot, error) {
	out := modelperf.Snapshot{
		ID:              m.PublicID,
		ModelVersion:    m.ModelVersion,
		TrainedAt:       m.TrainedAt.UTC(),
		SampleCount:     m.SampleCount,
		HoldoutAccuracy: m.HoldoutAccuracy,
	}
	if len(m.ClassPrecision) > 0 {
		if err := sonic.Unmarshal(m.ClassPrecision, &out.ClassPrecision); err != nil {
			return modelperf.Snapshot{}, fmt.Errorf("decode class precision: %w", err)
		}
	}
	if len(m.ClassRecall) > 0 {
		if err := sonic.Unmarshal(m.ClassRecall, &out.ClassRecall); err != nil {
			return modelperf.Snapshot{}, fmt.Errorf("decode class recall: %w", err)
		}
	}
	if len(m.FeatureImportance) > 0 {
		if err := sonic.Unmarshal(m.FeatureImportance, &out.FeatureImportance); err != nil {
			return modelperf.Snapshot{}, fmt.Errorf("decode feature importance: %w", err)
		}
	}
	return out, nil
}

type ModelPerfRepository struct {
	db *sqlx.DB
}

func NewModelPerfRepository(db *sqlx.DB) *ModelPerfRepository {
	return &ModelPerfRepository{db: db}
}

func (r *ModelPerfRepository) Insert(ctx context.Context, snapshot modelperf.Snapshot) error {
	if snapshot.ID == "" || snapshot.ModelVersion == "" {
		return fmt.Errorf("snapshot id and model version are required")
	}

	precision, err := sonic.Marshal(snapshot.ClassPrecision)
	if err != nil {
		return fmt.Errorf("encode class precision: %w", err)
	}
	recall, err := sonic.Marshal(snapshot.ClassRecall)
	if err != nil {
		return fmt.Errorf("encode class recall: %w", err)
	}
	importance, err := sonic.Marshal(snapshot.FeatureImportance)
	if err != nil {
		return fmt.Errorf("encode feature importance: %w", err)
	}

	insertModel := modelPerfInsertModel{
		PublicID:          snapshot.ID,
		ModelVersion:      snapshot.ModelVersion,
		TrainedAt:         snapshot.TrainedAt.UTC(),
		SampleCount:       snapshot.SampleCount,
		HoldoutAccuracy:   snapshot.HoldoutAccuracy,
		ClassPrecision:    string(precision),
		ClassRecall:       string(recall),
		FeatureImportance: string(importance),
	}
	query, args, err := qb.InsertModel("model_performance", insertModel, `ON CONFLICT (model_version)
DO UPDATE SET
    trained_at = EXCLUDED.trained_at,
    sample_count = EXCLUDED.sample_count,
    holdout_accuracy = EXCLUDED.holdout_accuracy,
    class_precision = EXCLUDED.class_precision,
    class_recall = EXCLUDED.class_recall,
    feature_importance = EXCLUDED.feature_importance`)
	if err != nil {
		return fmt.Errorf("build insert model snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert model snapshot version=%s: %w", snapshot.ModelVersion, err)
	}

	return nil
}

func (r *ModelPerfRepository) GetLatest(ctx context.Context) (modelperf.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("model_performance").
		OrderBy("trained_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return modelperf.Snapshot{}, false, fmt.Errorf("build select latest model snapshot query: %w", err)
	}

	var row modelPerfTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return modelperf.Snapshot{}, false, nil
		}
		return modelperf.Snapshot{}, false, fmt.Errorf("select latest model snapshot: %w", err)
	}

	out, err := row.toDomain()
	if err != nil {
		return modelperf.Snapshot{}, false, err
	}
	return out, true, nil
}

func (r *ModelPerfRepository) List(ctx context.Context, limit int) ([]modelperf.Snapshot, error) {
	query, args, err := qb.Select("*").From("model_performance").
		OrderBy("trained_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select model snapshots query: %w", err)
	}

	var rows []modelPerfTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select model snapshots: %w", err)
	}

	out := make([]modelperf.Snapshot, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
