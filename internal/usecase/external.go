package usecase

import (
	"context"
	"time"
)

// ExternalTeam is a provider-shaped team row before it is mapped into the
// domain model.
type ExternalTeam struct {
	ExternalID      int64
	LeagueID        string
	Name            string
	Short           string
	LogoURL         string
	FoundedYear     int
	StadiumCapacity int
}

// ExternalMatch is a provider-shaped fixture row.
type ExternalMatch struct {
	ExternalID         int64
	LeagueID           string
	Season             int
	Round              int
	KickoffAt          time.Time
	Status             string
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	HomeGoals          *int
	AwayGoals          *int
}

// ExternalOdds carries decimal 1X2 odds for one fixture. Zero values mean
// the bookmaker offered no price.
type ExternalOdds struct {
	FixtureExternalID int64
	Home              float64
	Draw              float64
	Away              float64
}

// ExternalTeamSeasonStats is the provider's season aggregate for one team.
type ExternalTeamSeasonStats struct {
	TeamExternalID   int64
	LeagueID         string
	Season           int
	Played           int
	Wins             int
	Draws            int
	Losses           int
	GoalsFor         int
	GoalsAgainst     int
	HomePlayed       int
	HomeWins         int
	HomeDraws        int
	HomeLosses       int
	HomeGoalsFor     int
	HomeGoalsAgainst int
	AwayPlayed       int
	AwayWins         int
	AwayDraws        int
	AwayLosses       int
	AwayGoalsFor     int
	AwayGoalsAgainst int
	Form             string
}

// ExternalFixtureTeamStats is one team's post-match statistics line for a
// fixture, including the provider's expected-goals estimate when present.
type ExternalFixtureTeamStats struct {
	FixtureExternalID int64
	TeamExternalID    int64
	ShotsTotal        int
	ShotsOnTarget     int
	PossessionPct     float64
	ExpectedGoals     float64
}

// SportDataProvider is the football data source consumed by SyncService.
type SportDataProvider interface {
	FetchTeams(ctx context.Context, leagueID string, season int) ([]ExternalTeam, error)
	FetchFixtures(ctx context.Context, leagueID string, season int, round int) ([]ExternalMatch, error)
	FetchOdds(ctx context.Context, fixtureExternalID int64) (ExternalOdds, error)
	FetchTeamSeasonStats(ctx context.Context, leagueID string, teamExternalID int64, season int) (ExternalTeamSeasonStats, error)
	FetchFixtureStats(ctx context.Context, fixtureExternalID int64) ([]ExternalFixtureTeamStats, error)
}
