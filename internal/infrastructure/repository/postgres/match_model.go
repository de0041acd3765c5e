package postgres

import (
	"database/sql"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
)

type matchTableModel struct {
	ID         int64           `db:"id"`
	PublicID   string          `db:"public_id"`
	ExternalID sql.NullInt64   `db:"external_id"`
	LeagueID   string          `db:"league_id"`
	Season     string          `db:"season"`
	Round      int             `db:"round"`
	HomeTeamID string          `db:"home_team_public_id"`
	AwayTeamID string          `db:"away_team_public_id"`
	KickoffAt  time.Time       `db:"kickoff_at"`
	Status     string          `db:"status"`
	HomeGoals  sql.NullInt64   `db:"home_goals"`
	AwayGoals  sql.NullInt64   `db:"away_goals"`
	Result     string          `db:"result"`
	HomeOdds   sql.NullFloat64 `db:"home_odds"`
	DrawOdds   sql.NullFloat64 `db:"draw_odds"`
	AwayOdds   sql.NullFloat64 `db:"away_odds"`
	FinishedAt *time.Time      `db:"finished_at"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
	DeletedAt  *time.Time      `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID   string     `db:"public_id"`
	ExternalID *int64     `db:"external_id"`
	LeagueID   string     `db:"league_id"`
	Season     string     `db:"season"`
	Round      int        `db:"round"`
	HomeTeamID string     `db:"home_team_public_id"`
	AwayTeamID string     `db:"away_team_public_id"`
	KickoffAt  time.Time  `db:"kickoff_at"`
	Status     string     `db:"status"`
	HomeGoals  *int       `db:"home_goals"`
	AwayGoals  *int       `db:"away_goals"`
	Result     string     `db:"result"`
	HomeOdds   *float64   `db:"home_odds"`
	DrawOdds   *float64   `db:"draw_odds"`
	AwayOdds   *float64   `db:"away_odds"`
	FinishedAt *time.Time `db:"finished_at"`
}

func (m matchTableModel) toDomain() match.Match {
	out := match.Match{
		ID:         m.PublicID,
		ExternalID: nullInt64ToInt64(m.ExternalID),
		LeagueID:   m.LeagueID,
		Season:     m.Season,
		Round:      m.Round,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		KickoffAt:  m.KickoffAt.UTC(),
		Status:     match.NormalizeStatus(m.Status),
		Result:     match.Result(m.Result),
		FinishedAt: m.FinishedAt,
	}
	if m.HomeGoals.Valid {
		value := int(m.HomeGoals.Int64)
		out.HomeGoals = &value
	}
	if m.AwayGoals.Valid {
		value := int(m.AwayGoals.Int64)
		out.AwayGoals = &value
	}
	if m.HomeOdds.Valid {
		value := m.HomeOdds.Float64
		out.HomeOdds = &value
	}
	if m.DrawOdds.Valid {
		value := m.DrawOdds.Float64
		out.DrawOdds = &value
	}
	if m.AwayOdds.Valid {
		value := m.AwayOdds.Float64
		out.AwayOdds = &value
	}
	return out
}
