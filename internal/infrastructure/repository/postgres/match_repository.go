package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	qb "github.com/quinielabs/quiniela-assistant/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("external_id", externalID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by external id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match by external id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListBySeasonAndRound(ctx context.Context, leagueID, season string, round int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
			qb.Eq("round", round),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by round query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListFinishedBefore(ctx context.Context, leagueID string, before time.Time, limit int) ([]match.Match, error) {
	conditions := []qb.Condition{
		qb.Eq("status", match.StatusFinished),
		qb.Expr("kickoff_at < ?", before),
		qb.IsNull("deleted_at"),
	}
	if leagueID != "" {
		conditions = append(conditions, qb.Eq("league_id", leagueID))
	}

	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("kickoff_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select finished matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListFinishedByTeam(ctx context.Context, teamID string, limit int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("status", match.StatusFinished),
			qb.Expr("(home_team_public_id = ? OR away_team_public_id = ?)", teamID, teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select finished matches by team query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListHeadToHead(ctx context.Context, homeTeamID, awayTeamID string, limit int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("status", match.StatusFinished),
			qb.Expr(
				"((home_team_public_id = ? AND away_team_public_id = ?) OR (home_team_public_id = ? AND away_team_public_id = ?))",
				homeTeamID, awayTeamID, awayTeamID, homeTeamID,
			),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select head to head query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, leagueID string, from time.Time, limit int) ([]match.Match, error) {
	conditions := []qb.Condition{
		qb.Eq("status", match.StatusScheduled),
		qb.Expr("kickoff_at >= ?", from),
		qb.IsNull("deleted_at"),
	}
	if leagueID != "" {
		conditions = append(conditions, qb.Eq("league_id", leagueID))
	}

	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("kickoff_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}

	insertModel := matchInsertModel{
		PublicID:   m.ID,
		ExternalID: nullableInt64(m.ExternalID),
		LeagueID:   m.LeagueID,
		Season:     m.Season,
		Round:      m.Round,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		KickoffAt:  m.KickoffAt.UTC(),
		Status:     match.NormalizeStatus(m.Status),
		HomeGoals:  m.HomeGoals,
		AwayGoals:  m.AwayGoals,
		Result:     string(m.Result),
		HomeOdds:   m.HomeOdds,
		DrawOdds:   m.DrawOdds,
		AwayOdds:   m.AwayOdds,
		FinishedAt: m.FinishedAt,
	}
	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (external_id) WHERE deleted_at IS NULL
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    season = EXCLUDED.season,
    round = EXCLUDED.round,
    home_team_public_id = EXCLUDED.home_team_public_id,
    away_team_public_id = EXCLUDED.away_team_public_id,
    kickoff_at = EXCLUDED.kickoff_at,
    status = EXCLUDED.status,
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    result = EXCLUDED.result,
    home_odds = COALESCE(EXCLUDED.home_odds, matches.home_odds),
    draw_odds = COALESCE(EXCLUDED.draw_odds, matches.draw_odds),
    away_odds = COALESCE(EXCLUDED.away_odds, matches.away_odds),
    finished_at = EXCLUDED.finished_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match external_id=%d: %w", m.ExternalID, err)
	}

	return nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
