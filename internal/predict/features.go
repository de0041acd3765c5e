package predict

import (
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/advancedstats"
	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
)

// Matchup bundles everything known about one fixture before kickoff.
// Stats, history and advanced metrics are optional; predictors degrade to
// whatever is present.
type Matchup struct {
	MatchID    string
	LeagueID   string
	Season     string
	Round      int
	KickoffAt  time.Time
	HomeTeam   team.Team
	AwayTeam   team.Team
	HomeStats  *teamstats.SeasonStats
	AwayStats  *teamstats.SeasonStats
	HeadToHead []match.Match
	HomeForm   []match.Match
	AwayForm   []match.Match
	HomeAdv    *advancedstats.TeamStats
	AwayAdv    *advancedstats.TeamStats
	HomeOdds   *float64
	DrawOdds   *float64
	AwayOdds   *float64
}

// FeatureNames lists every engineered feature in canonical order. Training
// and inference both index vectors by this order.
var FeatureNames = []string{
	"home_win_pct",
	"away_win_pct",
	"home_draw_pct",
	"away_draw_pct",
	"home_ppg",
	"away_ppg",
	"ppg_difference",
	"win_pct_diff",
	"home_goals_per_game",
	"away_goals_per_game",
	"home_goals_against_per_game",
	"away_goals_against_per_game",
	"home_goal_diff",
	"away_goal_diff",
	"goal_diff_difference",
	"attack_vs_defense",
	"defense_vs_attack",
	"home_team_home_win_pct",
	"home_team_home_draw_pct",
	"away_team_away_win_pct",
	"away_team_away_draw_pct",
	"home_advantage",
	"h2h_home_wins",
	"h2h_draws",
	"h2h_away_wins",
	"h2h_home_goals_avg",
	"h2h_away_goals_avg",
	"h2h_total_matches",
	"home_form_points",
	"away_form_points",
	"home_form_goals_for",
	"away_form_goals_for",
	"home_form_goals_against",
	"away_form_goals_against",
	"form_difference",
	"home_position",
	"away_position",
	"position_difference",
	"home_top_half",
	"away_top_half",
	"home_top_six",
	"away_top_six",
	"home_relegation_zone",
	"away_relegation_zone",
}

const formWindow = 5

// ExtractFeatures computes the engineered feature map for one matchup.
// Missing inputs leave the affected features at zero.
func ExtractFeatures(m Matchup) map[string]float64 {
	features := make(map[string]float64, len(FeatureNames))
	for _, name := range FeatureNames {
		features[name] = 0
	}

	if m.HomeStats != nil && m.AwayStats != nil {
		performanceFeatures(features, *m.HomeStats, *m.AwayStats)
		goalFeatures(features, *m.HomeStats, *m.AwayStats)
		splitFeatures(features, *m.HomeStats, *m.AwayStats)
		positionFeatures(features, *m.HomeStats, *m.AwayStats)
	}

	headToHeadFeatures(features, m.HeadToHead, m.HomeTeam.ID)
	formFeatures(features, m.HomeForm, m.HomeTeam.ID, m.AwayForm, m.AwayTeam.ID)

	return features
}

// FeatureVector orders a feature map by FeatureNames.
func FeatureVector(features map[string]float64) []float64 {
	vec := make([]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		vec[i] = features[name]
	}
	return vec
}

func performanceFeatures(out map[string]float64, home, away teamstats.SeasonStats) {
	out["home_win_pct"] = home.WinPct()
	out["away_win_pct"] = away.WinPct()
	out["home_draw_pct"] = home.DrawPct()
	out["away_draw_pct"] = away.DrawPct()
	out["home_ppg"] = home.PointsPerGame()
	out["away_ppg"] = away.PointsPerGame()
	out["ppg_difference"] = out["home_ppg"] - out["away_ppg"]
	out["win_pct_diff"] = out["home_win_pct"] - out["away_win_pct"]
}

func goalFeatures(out map[string]float64, home, away teamstats.SeasonStats) {
	out["home_goals_per_game"] = home.GoalsForPerGame()
	out["away_goals_per_game"] = away.GoalsForPerGame()
	out["home_goals_against_per_game"] = home.GoalsAgainstPerGame()
	out["away_goals_against_per_game"] = away.GoalsAgainstPerGame()
	out["home_goal_diff"] = float64(home.GoalsFor - home.GoalsAgainst)
	out["away_goal_diff"] = float64(away.GoalsFor - away.GoalsAgainst)
	out["goal_diff_difference"] = out["home_goal_diff"] - out["away_goal_diff"]
	out["attack_vs_defense"] = out["home_goals_per_game"] - out["away_goals_against_per_game"]
	out["defense_vs_attack"] = out["away_goals_per_game"] - out["home_goals_against_per_game"]
}

func splitFeatures(out map[string]float64, home, away teamstats.SeasonStats) {
	homePlayed := home.Home.Played
	if homePlayed == 0 {
		homePlayed = 1
	}
	awayPlayed := away.Away.Played
	if awayPlayed == 0 {
		awayPlayed = 1
	}

	out["home_team_home_win_pct"] = float64(home.Home.Wins) / float64(homePlayed)
	out["home_team_home_draw_pct"] = float64(home.Home.Draws) / float64(homePlayed)
	out["away_team_away_win_pct"] = float64(away.Away.Wins) / float64(awayPlayed)
	out["away_team_away_draw_pct"] = float64(away.Away.Draws) / float64(awayPlayed)
	out["home_advantage"] = out["home_team_home_win_pct"] - out["away_team_away_win_pct"]
}

func headToHeadFeatures(out map[string]float64, history []match.Match, homeTeamID string) {
	if len(history) == 0 {
		return
	}

	var homeWins, draws, awayWins int
	var homeGoals, awayGoals int
	counted := 0

	for _, m := range history {
		if m.HomeGoals == nil || m.AwayGoals == nil {
			continue
		}
		counted++

		// Orient goals from the current home team's perspective.
		forGoals, againstGoals := *m.HomeGoals, *m.AwayGoals
		if m.HomeTeamID != homeTeamID {
			forGoals, againstGoals = againstGoals, forGoals
		}
		homeGoals += forGoals
		awayGoals += againstGoals

		switch {
		case forGoals > againstGoals:
			homeWins++
		case forGoals < againstGoals:
			awayWins++
		default:
			draws++
		}
	}

	if counted == 0 {
		return
	}

	total := float64(counted)
	out["h2h_home_wins"] = float64(homeWins) / total
	out["h2h_draws"] = float64(draws) / total
	out["h2h_away_wins"] = float64(awayWins) / total
	out["h2h_home_goals_avg"] = float64(homeGoals) / total
	out["h2h_away_goals_avg"] = float64(awayGoals) / total
	out["h2h_total_matches"] = total
}

func formFeatures(out map[string]float64, homeForm []match.Match, homeTeamID string, awayForm []match.Match, awayTeamID string) {
	homePoints, homeFor, homeAgainst := tallyForm(homeForm, homeTeamID)
	awayPoints, awayFor, awayAgainst := tallyForm(awayForm, awayTeamID)

	out["home_form_points"] = float64(homePoints)
	out["away_form_points"] = float64(awayPoints)
	out["home_form_goals_for"] = float64(homeFor)
	out["away_form_goals_for"] = float64(awayFor)
	out["home_form_goals_against"] = float64(homeAgainst)
	out["away_form_goals_against"] = float64(awayAgainst)
	out["form_difference"] = float64(homePoints - awayPoints)
}

func tallyForm(recent []match.Match, teamID string) (points, goalsFor, goalsAgainst int) {
	if len(recent) > formWindow {
		recent = recent[len(recent)-formWindow:]
	}

	for _, m := range recent {
		if m.HomeGoals == nil || m.AwayGoals == nil {
			continue
		}

		forGoals, againstGoals := *m.HomeGoals, *m.AwayGoals
		if m.HomeTeamID != teamID {
			forGoals, againstGoals = againstGoals, forGoals
		}

		goalsFor += forGoals
		goalsAgainst += againstGoals
		switch {
		case forGoals > againstGoals:
			points += 3
		case forGoals == againstGoals:
			points++
		}
	}

	return points, goalsFor, goalsAgainst
}

func positionFeatures(out map[string]float64, home, away teamstats.SeasonStats) {
	homePos := home.Position
	if homePos == 0 {
		homePos = 20
	}
	awayPos := away.Position
	if awayPos == 0 {
		awayPos = 20
	}

	out["home_position"] = float64(homePos)
	out["away_position"] = float64(awayPos)
	out["position_difference"] = float64(awayPos - homePos)
	out["home_top_half"] = boolFeature(homePos <= 10)
	out["away_top_half"] = boolFeature(awayPos <= 10)
	out["home_top_six"] = boolFeature(homePos <= 6)
	out["away_top_six"] = boolFeature(awayPos <= 6)
	out["home_relegation_zone"] = boolFeature(homePos >= 18)
	out["away_relegation_zone"] = boolFeature(awayPos >= 18)
}

func boolFeature(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
