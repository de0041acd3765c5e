package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
)

type quinielaSlipTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	Season       string     `db:"season"`
	Round        int        `db:"round"`
	Predictions  []byte     `db:"predictions"`
	PlenoHome    string     `db:"pleno_home"`
	PlenoAway    string     `db:"pleno_away"`
	Elige8       []byte     `db:"elige8"`
	BetType      string     `db:"bet_type"`
	Combinations int        `db:"combinations"`
	CostCents    int64      `db:"cost_cents"`
	WinningCents int64      `db:"winning_cents"`
	Aciertos     int        `db:"aciertos"`
	Finished     bool       `db:"finished"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

// JSON payloads go out as strings so the driver sends them as text, not bytea.
type quinielaSlipInsertModel struct {
	PublicID     string    `db:"public_id"`
	Season       string    `db:"season"`
	Round        int       `db:"round"`
	Predictions  string    `db:"predictions"`
	PlenoHome    string    `db:"pleno_home"`
	PlenoAway    string    `db:"pleno_away"`
	Elige8       string    `db:"elige8"`
	BetType      string    `db:"bet_type"`
	Combinations int       `db:"combinations"`
	CostCents    int64     `db:"cost_cents"`
	WinningCents int64     `db:"winning_cents"`
	Aciertos     int       `db:"aciertos"`
	Finished     bool      `db:"finished"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m quinielaSlipTableModel) toDomain() (quiniela.UserSlip, error) {
	out := quiniela.UserSlip{
		ID:     m.PublicID,
		Season: m.Season,
		Round:  m.Round,
		Pleno: quiniela.PlenoAl15{
			HomeGoals: quiniela.GoalsPick(m.PlenoHome),
			AwayGoals: quiniela.GoalsPick(m.PlenoAway),
		},
		BetType:      quiniela.BetType(m.BetType),
		Combinations: m.Combinations,
		CostCents:    m.CostCents,
		WinningCents: m.WinningCents,
		Aciertos:     m.Aciertos,
		Finished:     m.Finished,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	if len(m.Predictions) > 0 {
		if err := sonic.Unmarshal(m.Predictions, &out.Predictions); err != nil {
			return quiniela.UserSlip{}, fmt.Errorf("decode slip predictions: %w", err)
		}
	}
	if len(m.Elige8) > 0 {
		if err := sonic.Unmarshal(m.Elige8, &out.Elige8); err != nil {
			return quiniela.UserSlip{}, fmt.Errorf("decode slip elige8: %w", err)
		}
	}
	return out, nil
}

func encodeSlipJSON(slip quiniela.UserSlip) (predictions, elige8 []byte, err error) {
	predictions, err = sonic.Marshal(slip.Predictions)
	if err != nil {
		return nil, nil, fmt.Errorf("encode slip predictions: %w", err)
	}
	elige8, err = sonic.Marshal(slip.Elige8)
	if err != nil {
		return nil, nil, fmt.Errorf("encode slip elige8: %w", err)
	}
	return predictions, elige8, nil
}

func slipInsertModelFromDomain(slip quiniela.UserSlip) (quinielaSlipInsertModel, error) {
	predictions, elige8, err := encodeSlipJSON(slip)
	if err != nil {
		return quinielaSlipInsertModel{}, err
	}

	return quinielaSlipInsertModel{
		PublicID:     slip.ID,
		Season:       slip.Season,
		Round:        slip.Round,
		Predictions:  string(predictions),
		PlenoHome:    string(slip.Pleno.HomeGoals),
		PlenoAway:    string(slip.Pleno.AwayGoals),
		Elige8:       string(elige8),
		BetType:      string(slip.BetType),
		Combinations: slip.Combinations,
		CostCents:    slip.CostCents,
		WinningCents: slip.WinningCents,
		Aciertos:     slip.Aciertos,
		Finished:     slip.Finished,
		CreatedAt:    slip.CreatedAt.UTC(),
		UpdatedAt:    slip.UpdatedAt.UTC(),
	}, nil
}

type quinielaConfigTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	Name         string     `db:"name"`
	Season       string     `db:"season"`
	Round        int        `db:"round"`
	MatchIDs     []byte     `db:"match_ids"`
	PlenoMatchID string     `db:"pleno_match_public_id"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type quinielaConfigInsertModel struct {
	PublicID     string    `db:"public_id"`
	Name         string    `db:"name"`
	Season       string    `db:"season"`
	Round        int       `db:"round"`
	MatchIDs     string    `db:"match_ids"`
	PlenoMatchID string    `db:"pleno_match_public_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m quinielaConfigTableModel) toDomain() (quiniela.CustomConfig, error) {
	out := quiniela.CustomConfig{
		ID:           m.PublicID,
		Name:         m.Name,
		Season:       m.Season,
		Round:        m.Round,
		PlenoMatchID: m.PlenoMatchID,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	if len(m.MatchIDs) > 0 {
		if err := sonic.Unmarshal(m.MatchIDs, &out.MatchIDs); err != nil {
			return quiniela.CustomConfig{}, fmt.Errorf("decode config match ids: %w", err)
		}
	}
	return out, nil
}
