package postgres

import (
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
)

type teamStatsTableModel struct {
	ID               int64      `db:"id"`
	TeamID           string     `db:"team_public_id"`
	Season           string     `db:"season"`
	Played           int        `db:"played"`
	Wins             int        `db:"wins"`
	Draws            int        `db:"draws"`
	Losses           int        `db:"losses"`
	GoalsFor         int        `db:"goals_for"`
	GoalsAgainst     int        `db:"goals_against"`
	HomePlayed       int        `db:"home_played"`
	HomeWins         int        `db:"home_wins"`
	HomeDraws        int        `db:"home_draws"`
	HomeLosses       int        `db:"home_losses"`
	HomeGoalsFor     int        `db:"home_goals_for"`
	HomeGoalsAgainst int        `db:"home_goals_against"`
	AwayPlayed       int        `db:"away_played"`
	AwayWins         int        `db:"away_wins"`
	AwayDraws        int        `db:"away_draws"`
	AwayLosses       int        `db:"away_losses"`
	AwayGoalsFor     int        `db:"away_goals_for"`
	AwayGoalsAgainst int        `db:"away_goals_against"`
	Position         int        `db:"position"`
	Points           int        `db:"points"`
	Form             string     `db:"form"`
	UpdatedAt        time.Time  `db:"updated_at"`
	CreatedAt        time.Time  `db:"created_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

type teamStatsInsertModel struct {
	TeamID           string    `db:"team_public_id"`
	Season           string    `db:"season"`
	Played           int       `db:"played"`
	Wins             int       `db:"wins"`
	Draws            int       `db:"draws"`
	Losses           int       `db:"losses"`
	GoalsFor         int       `db:"goals_for"`
	GoalsAgainst     int       `db:"goals_against"`
	HomePlayed       int       `db:"home_played"`
	HomeWins         int       `db:"home_wins"`
	HomeDraws        int       `db:"home_draws"`
	HomeLosses       int       `db:"home_losses"`
	HomeGoalsFor     int       `db:"home_goals_for"`
	HomeGoalsAgainst int       `db:"home_goals_against"`
	AwayPlayed       int       `db:"away_played"`
	AwayWins         int       `db:"away_wins"`
	AwayDraws        int       `db:"away_draws"`
	AwayLosses       int       `db:"away_losses"`
	AwayGoalsFor     int       `db:"away_goals_for"`
	AwayGoalsAgainst int       `db:"away_goals_against"`
	Position         int       `db:"position"`
	Points           int       `db:"points"`
	Form             string    `db:"form"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (m teamStatsTableModel) toDomain() teamstats.SeasonStats {
	return teamstats.SeasonStats{
		TeamID:       m.TeamID,
		Season:       m.Season,
		Played:       m.Played,
		Wins:         m.Wins,
		Draws:        m.Draws,
		Losses:       m.Losses,
		GoalsFor:     m.GoalsFor,
		GoalsAgainst: m.GoalsAgainst,
		Home: teamstats.SplitStats{
			Played:       m.HomePlayed,
			Wins:         m.HomeWins,
			Draws:        m.HomeDraws,
			Losses:       m.HomeLosses,
			GoalsFor:     m.HomeGoalsFor,
			GoalsAgainst: m.HomeGoalsAgainst,
		},
		Away: teamstats.SplitStats{
			Played:       m.AwayPlayed,
			Wins:         m.AwayWins,
			Draws:        m.AwayDraws,
			Losses:       m.AwayLosses,
			GoalsFor:     m.AwayGoalsFor,
			GoalsAgainst: m.AwayGoalsAgainst,
		},
		Position:  m.Position,
		Points:    m.Points,
		Form:      m.Form,
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
