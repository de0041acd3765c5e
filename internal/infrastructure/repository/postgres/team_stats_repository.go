package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
	qb "github.com/quinielabs/quiniela-assistant/internal/platform/querybuilder"
)

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

func (r *TeamStatsRepository) GetByTeamAndSeason(ctx context.Context, teamID, season string) (teamstats.SeasonStats, bool, error) {
	query, args, err := qb.Select("*").From("team_season_stats").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return teamstats.SeasonStats{}, false, fmt.Errorf("build select team stats query: %w", err)
	}

	var row teamStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return teamstats.SeasonStats{}, false, nil
		}
		return teamstats.SeasonStats{}, false, fmt.Errorf("select team stats: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamStatsRepository) ListBySeason(ctx context.Context, season string) ([]teamstats.SeasonStats, error) {
	query, args, err := qb.Select("*").From("team_season_stats").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position", "team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team stats by season query: %w", err)
	}

	var rows []teamStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team stats by season: %w", err)
	}

	out := make([]teamstats.SeasonStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamStatsRepository) Upsert(ctx context.Context, stats teamstats.SeasonStats) error {
	if stats.TeamID == "" || stats.Season == "" {
		return fmt.Errorf("team id and season are required")
	}

	updatedAt := stats.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	insertModel := teamStatsInsertModel{
		TeamID:           stats.TeamID,
		Season:           stats.Season,
		Played:           stats.Played,
		Wins:             stats.Wins,
		Draws:            stats.Draws,
		Losses:           stats.Losses,
		GoalsFor:         stats.GoalsFor,
		GoalsAgainst:     stats.GoalsAgainst,
		HomePlayed:       stats.Home.Played,
		HomeWins:         stats.Home.Wins,
		HomeDraws:        stats.Home.Draws,
		HomeLosses:       stats.Home.Losses,
		HomeGoalsFor:     stats.Home.GoalsFor,
		HomeGoalsAgainst: stats.Home.GoalsAgainst,
		AwayPlayed:       stats.Away.Played,
		AwayWins:         stats.Away.Wins,
		AwayDraws:        stats.Away.Draws,
		AwayLosses:       stats.Away.Losses,
		AwayGoalsFor:     stats.Away.GoalsFor,
		AwayGoalsAgainst: stats.Away.GoalsAgainst,
		Position:         stats.Position,
		Points:           stats.Points,
		Form:             stats.Form,
		UpdatedAt:        updatedAt,
	}
	query, args, err := qb.InsertModel("team_season_stats", insertModel, `ON CONFLICT (team_public_id, season) WHERE deleted_at IS NULL
DO UPDATE SET
    played = EXCLUDED.played,
    wins = EXCLUDED.wins,
    draws = EXCLUDED.draws,
    losses = EXCLUDED.losses,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    home_played = EXCLUDED.home_played,
    home_wins = EXCLUDED.home_wins,
    home_draws = EXCLUDED.home_draws,
    home_losses = EXCLUDED.home_losses,
    home_goals_for = EXCLUDED.home_goals_for,
    home_goals_against = EXCLUDED.home_goals_against,
    away_played = EXCLUDED.away_played,
    away_wins = EXCLUDED.away_wins,
    away_draws = EXCLUDED.away_draws,
    away_losses = EXCLUDED.away_losses,
    away_goals_for = EXCLUDED.away_goals_for,
    away_goals_against = EXCLUDED.away_goals_against,
    position = EXCLUDED.position,
    points = EXCLUDED.points,
    form = EXCLUDED.form,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert team stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team stats team=%s season=%s: %w", stats.TeamID, stats.Season, err)
	}

	return nil
}
