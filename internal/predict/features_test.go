package predict

import (
	"math"
	"testing"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
)

func intPtr(v int) *int { return &v }

func statsFixture(wins, draws, losses, goalsFor, goalsAgainst, position int) *teamstats.SeasonStats {
	played := wins + draws + losses
	return &teamstats.SeasonStats{
		Played:       played,
		Wins:         wins,
		Draws:        draws,
		Losses:       losses,
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
		Home:         teamstats.SplitStats{Played: played / 2, Wins: wins / 2, Draws: draws / 2},
		Away:         teamstats.SplitStats{Played: played / 2, Wins: wins / 4, Draws: draws / 2},
		Position:     position,
		Points:       wins*3 + draws,
	}
}

func matchupFixture() Matchup {
	return Matchup{
		MatchID:   "m1",
		LeagueID:  team.LeagueLaLiga,
		Season:    "2025",
		HomeTeam:  team.Team{ID: "home", LeagueID: team.LeagueLaLiga},
		AwayTeam:  team.Team{ID: "away", LeagueID: team.LeagueLaLiga},
		HomeStats: statsFixture(10, 4, 2, 28, 12, 3),
		AwayStats: statsFixture(4, 4, 8, 14, 22, 15),
	}
}

func TestExtractFeaturesCoversAllNames(t *testing.T) {
	features := ExtractFeatures(matchupFixture())

	if len(features) != len(FeatureNames) {
		t.Fatalf("expected %d features, got %d", len(FeatureNames), len(features))
	}
	for _, name := range FeatureNames {
		if _, ok := features[name]; !ok {
			t.Fatalf("missing feature %s", name)
		}
	}
}

func TestExtractFeaturesValues(t *testing.T) {
	features := ExtractFeatures(matchupFixture())

	if got := features["home_win_pct"]; math.Abs(got-10.0/16) > 1e-9 {
		t.Fatalf("home_win_pct: expected %.4f, got %.4f", 10.0/16, got)
	}
	if got := features["home_ppg"]; math.Abs(got-34.0/16) > 1e-9 {
		t.Fatalf("home_ppg: expected %.4f, got %.4f", 34.0/16, got)
	}
	if got := features["goal_diff_difference"]; math.Abs(got-24.0) > 1e-9 {
		t.Fatalf("goal_diff_difference: expected 24, got %.4f", got)
	}
	if got := features["home_top_six"]; got != 1 {
		t.Fatalf("home_top_six: expected 1, got %.1f", got)
	}
	if got := features["away_relegation_zone"]; got != 0 {
		t.Fatalf("away_relegation_zone: expected 0, got %.1f", got)
	}
	if got := features["position_difference"]; got != 12 {
		t.Fatalf("position_difference: expected 12, got %.1f", got)
	}
}

func TestHeadToHeadFeaturesOrientation(t *testing.T) {
	m := matchupFixture()
	m.HeadToHead = []match.Match{
		// Current home side won 3-1 at home.
		{HomeTeamID: "home", AwayTeamID: "away", HomeGoals: intPtr(3), AwayGoals: intPtr(1)},
		// Current home side won 2-0 away.
		{HomeTeamID: "away", AwayTeamID: "home", HomeGoals: intPtr(0), AwayGoals: intPtr(2)},
		// Draw.
		{HomeTeamID: "home", AwayTeamID: "away", HomeGoals: intPtr(1), AwayGoals: intPtr(1)},
	}

	features := ExtractFeatures(m)
	if got := features["h2h_home_wins"]; math.Abs(got-2.0/3) > 1e-9 {
		t.Fatalf("h2h_home_wins: expected %.4f, got %.4f", 2.0/3, got)
	}
	if got := features["h2h_home_goals_avg"]; math.Abs(got-2.0) > 1e-9 {
		t.Fatalf("h2h_home_goals_avg: expected 2, got %.4f", got)
	}
	if got := features["h2h_total_matches"]; got != 3 {
		t.Fatalf("h2h_total_matches: expected 3, got %.1f", got)
	}
}

func TestFormFeatures(t *testing.T) {
	m := matchupFixture()
	m.HomeForm = []match.Match{
		{HomeTeamID: "home", AwayTeamID: "x", HomeGoals: intPtr(2), AwayGoals: intPtr(0)},
		{HomeTeamID: "y", AwayTeamID: "home", HomeGoals: intPtr(1), AwayGoals: intPtr(1)},
		{HomeTeamID: "home", AwayTeamID: "z", HomeGoals: intPtr(0), AwayGoals: intPtr(2)},
	}
	m.AwayForm = []match.Match{
		{HomeTeamID: "away", AwayTeamID: "x", HomeGoals: intPtr(0), AwayGoals: intPtr(3)},
	}

	features := ExtractFeatures(m)
	if got := features["home_form_points"]; got != 4 {
		t.Fatalf("home_form_points: expected 4, got %.1f", got)
	}
	if got := features["home_form_goals_for"]; got != 3 {
		t.Fatalf("home_form_goals_for: expected 3, got %.1f", got)
	}
	if got := features["away_form_points"]; got != 0 {
		t.Fatalf("away_form_points: expected 0, got %.1f", got)
	}
	if got := features["form_difference"]; got != 4 {
		t.Fatalf("form_difference: expected 4, got %.1f", got)
	}
}

func TestFeatureVectorOrder(t *testing.T) {
	features := ExtractFeatures(matchupFixture())
	vec := FeatureVector(features)

	if len(vec) != len(FeatureNames) {
		t.Fatalf("expected vector length %d, got %d", len(FeatureNames), len(vec))
	}
	for i, name := range FeatureNames {
		if vec[i] != features[name] {
			t.Fatalf("index %d (%s): expected %.4f, got %.4f", i, name, features[name], vec[i])
		}
	}
}
