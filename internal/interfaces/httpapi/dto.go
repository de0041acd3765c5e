package httpapi

import (
	"context"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/modelperf"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
	"github.com/quinielabs/quiniela-assistant/internal/usecase"
)

type teamDTO struct {
	ID              string `json:"id"`
	LeagueID        string `json:"league_id"`
	Name            string `json:"name"`
	Short           string `json:"short,omitempty"`
	LogoURL         string `json:"logo_url,omitempty"`
	StadiumCapacity int    `json:"stadium_capacity,omitempty"`
	FoundedYear     int    `json:"founded_year,omitempty"`
}

type splitStatsDTO struct {
	Played       int `json:"played"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

type seasonStatsDTO struct {
	TeamID       string        `json:"team_id"`
	Season       string        `json:"season"`
	Played       int           `json:"played"`
	Wins         int           `json:"wins"`
	Draws        int           `json:"draws"`
	Losses       int           `json:"losses"`
	GoalsFor     int           `json:"goals_for"`
	GoalsAgainst int           `json:"goals_against"`
	Home         splitStatsDTO `json:"home"`
	Away         splitStatsDTO `json:"away"`
	Position     int           `json:"position"`
	Points       int           `json:"points"`
	Form         string        `json:"form,omitempty"`
}

type teamDetailDTO struct {
	Team       teamDTO         `json:"team"`
	Statistics *seasonStatsDTO `json:"statistics,omitempty"`
}

type matchDTO struct {
	ID         string     `json:"id"`
	LeagueID   string     `json:"league_id"`
	Season     string     `json:"season"`
	Round      int        `json:"round"`
	HomeTeamID string     `json:"home_team_id"`
	AwayTeamID string     `json:"away_team_id"`
	KickoffAt  time.Time  `json:"kickoff_at"`
	Status     string     `json:"status"`
	HomeGoals  *int       `json:"home_goals,omitempty"`
	AwayGoals  *int       `json:"away_goals,omitempty"`
	Result     string     `json:"result,omitempty"`
	HomeOdds   *float64   `json:"home_odds,omitempty"`
	DrawOdds   *float64   `json:"draw_odds,omitempty"`
	AwayOdds   *float64   `json:"away_odds,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type predictionDTO struct {
	ID           string    `json:"id"`
	MatchID      string    `json:"match_id"`
	ModelVersion string    `json:"model_version,omitempty"`
	Tier         string    `json:"tier"`
	HomeProb     float64   `json:"home_prob"`
	DrawProb     float64   `json:"draw_prob"`
	AwayProb     float64   `json:"away_prob"`
	Result       string    `json:"result"`
	Confidence   float64   `json:"confidence"`
	Explanation  string    `json:"explanation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type matchPredictionDTO struct {
	Match      matchDTO      `json:"match"`
	Prediction predictionDTO `json:"prediction"`
}

type slipRowDTO struct {
	MatchNumber int      `json:"match_number"`
	MatchID     string   `json:"match_id,omitempty"`
	HomeTeam    string   `json:"home_team,omitempty"`
	AwayTeam    string   `json:"away_team,omitempty"`
	Options     []string `json:"options"`
}

type elige8DTO struct {
	Enabled         bool     `json:"enabled"`
	SelectedMatches []int    `json:"selected_matches,omitempty"`
	Predictions     []string `json:"predictions,omitempty"`
}

type plenoDTO struct {
	HomeGoals string `json:"home_goals"`
	AwayGoals string `json:"away_goals"`
}

type validationResultDTO struct {
	Valid             bool     `json:"valid"`
	TotalCombinations int      `json:"total_combinations"`
	BaseCostCents     int64    `json:"base_cost_cents"`
	Elige8CostCents   int64    `json:"elige8_cost_cents"`
	TotalCostCents    int64    `json:"total_cost_cents"`
	BetType           string   `json:"bet_type"`
	Warnings          []string `json:"warnings,omitempty"`
}

type slipDTO struct {
	ID           string       `json:"id"`
	Season       string       `json:"season"`
	Round        int          `json:"round"`
	Predictions  []slipRowDTO `json:"predictions"`
	Pleno        plenoDTO     `json:"pleno"`
	Elige8       *elige8DTO   `json:"elige8,omitempty"`
	BetType      string       `json:"bet_type"`
	Combinations int          `json:"combinations"`
	CostCents    int64        `json:"cost_cents"`
	WinningCents int64        `json:"winning_cents"`
	Aciertos     int          `json:"aciertos"`
	Finished     bool         `json:"finished"`
	CreatedAt    time.Time    `json:"created_at"`
}

type scoreDTO struct {
	Aciertos      int    `json:"aciertos"`
	PlenoAcertado bool   `json:"pleno_acertado"`
	Category      string `json:"category,omitempty"`
}

type slipResultsDTO struct {
	Slip           slipDTO  `json:"slip"`
	Score          scoreDTO `json:"score"`
	SettledMatches int      `json:"settled_matches"`
	Finished       bool     `json:"finished"`
}

type seasonSummaryDTO struct {
	Season      string `json:"season"`
	Slips       int    `json:"slips"`
	StakedCents int64  `json:"staked_cents"`
	WonCents    int64  `json:"won_cents"`
	NetCents    int64  `json:"net_cents"`
}

type financialSummaryDTO struct {
	TotalSlips       int                `json:"total_slips"`
	SettledSlips     int                `json:"settled_slips"`
	TotalStakedCents int64              `json:"total_staked_cents"`
	TotalWonCents    int64              `json:"total_won_cents"`
	NetCents         int64              `json:"net_cents"`
	BySeason         []seasonSummaryDTO `json:"by_season"`
}

type configDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Season       string    `json:"season"`
	Round        int       `json:"round"`
	MatchIDs     []string  `json:"match_ids"`
	PlenoMatchID string    `json:"pleno_match_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type slipDraftDTO struct {
	Season      string              `json:"season"`
	Round       int                 `json:"round"`
	Predictions []slipRowDTO        `json:"predictions"`
	Pleno       plenoDTO            `json:"pleno"`
	Validation  validationResultDTO `json:"validation"`
}

type trainResultDTO struct {
	ModelVersion    string  `json:"model_version"`
	SampleCount     int     `json:"sample_count"`
	HoldoutAccuracy float64 `json:"holdout_accuracy"`
}

type modelPerfDTO struct {
	ModelVersion      string             `json:"model_version"`
	TrainedAt         time.Time          `json:"trained_at"`
	SampleCount       int                `json:"sample_count"`
	HoldoutAccuracy   float64            `json:"holdout_accuracy"`
	ClassPrecision    map[string]float64 `json:"class_precision,omitempty"`
	ClassRecall       map[string]float64 `json:"class_recall,omitempty"`
	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:              v.ID,
		LeagueID:        v.LeagueID,
		Name:            v.Name,
		Short:           v.Short,
		LogoURL:         v.LogoURL,
		StadiumCapacity: v.StadiumCapacity,
		FoundedYear:     v.FoundedYear,
	}
}

func seasonStatsToDTO(v teamstats.SeasonStats) seasonStatsDTO {
	return seasonStatsDTO{
		TeamID:       v.TeamID,
		Season:       v.Season,
		Played:       v.Played,
		Wins:         v.Wins,
		Draws:        v.Draws,
		Losses:       v.Losses,
		GoalsFor:     v.GoalsFor,
		GoalsAgainst: v.GoalsAgainst,
		Home:         splitStatsDTO(v.Home),
		Away:         splitStatsDTO(v.Away),
		Position:     v.Position,
		Points:       v.Points,
		Form:         v.Form,
	}
}

func teamDetailToDTO(ctx context.Context, v usecase.TeamDetails) teamDetailDTO {
	out := teamDetailDTO{Team: teamToDTO(ctx, v.Team)}
	if v.Statistics != nil {
		stats := seasonStatsToDTO(*v.Statistics)
		out.Statistics = &stats
	}
	return out
}

func matchToDTO(ctx context.Context, v match.Match) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		ID:         v.ID,
		LeagueID:   v.LeagueID,
		Season:     v.Season,
		Round:      v.Round,
		HomeTeamID: v.HomeTeamID,
		AwayTeamID: v.AwayTeamID,
		KickoffAt:  v.KickoffAt,
		Status:     v.Status,
		HomeGoals:  v.HomeGoals,
		AwayGoals:  v.AwayGoals,
		Result:     string(v.Result),
		HomeOdds:   v.HomeOdds,
		DrawOdds:   v.DrawOdds,
		AwayOdds:   v.AwayOdds,
		FinishedAt: v.FinishedAt,
	}
}

func predictionToDTO(v prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:           v.ID,
		MatchID:      v.MatchID,
		ModelVersion: v.ModelVersion,
		Tier:         string(v.Tier),
		HomeProb:     v.HomeProb,
		DrawProb:     v.DrawProb,
		AwayProb:     v.AwayProb,
		Result:       v.Result,
		Confidence:   v.Confidence,
		Explanation:  v.Explanation,
		CreatedAt:    v.CreatedAt,
	}
}

func matchPredictionToDTO(ctx context.Context, v usecase.MatchPrediction) matchPredictionDTO {
	return matchPredictionDTO{
		Match:      matchToDTO(ctx, v.Match),
		Prediction: predictionToDTO(v.Prediction),
	}
}

func optionsToStrings(options []quiniela.Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, string(opt))
	}
	return out
}

func optionsFromStrings(values []string) []quiniela.Option {
	out := make([]quiniela.Option, 0, len(values))
	for _, v := range values {
		out = append(out, quiniela.Option(v))
	}
	return out
}

func slipRowToDTO(v quiniela.Prediction) slipRowDTO {
	return slipRowDTO{
		MatchNumber: v.MatchNumber,
		MatchID:     v.MatchID,
		HomeTeam:    v.HomeTeam,
		AwayTeam:    v.AwayTeam,
		Options:     optionsToStrings(v.Options),
	}
}

func slipRowsToDTO(rows []quiniela.Prediction) []slipRowDTO {
	out := make([]slipRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, slipRowToDTO(row))
	}
	return out
}

func plenoToDTO(v quiniela.PlenoAl15) plenoDTO {
	return plenoDTO{
		HomeGoals: string(v.HomeGoals),
		AwayGoals: string(v.AwayGoals),
	}
}

func validationToDTO(v quiniela.ValidationResult) validationResultDTO {
	return validationResultDTO{
		Valid:             v.Valid,
		TotalCombinations: v.TotalCombinations,
		BaseCostCents:     v.BaseCost,
		Elige8CostCents:   v.Elige8Cost,
		TotalCostCents:    v.TotalCost,
		BetType:           string(v.BetType),
		Warnings:          v.Warnings,
	}
}

func slipToDTO(ctx context.Context, v quiniela.UserSlip) slipDTO {
	ctx, span := startSpan(ctx, "httpapi.slipToDTO")
	defer span.End()

	out := slipDTO{
		ID:           v.ID,
		Season:       v.Season,
		Round:        v.Round,
		Predictions:  slipRowsToDTO(v.Predictions),
		Pleno:        plenoToDTO(v.Pleno),
		BetType:      string(v.BetType),
		Combinations: v.Combinations,
		CostCents:    v.CostCents,
		WinningCents: v.WinningCents,
		Aciertos:     v.Aciertos,
		Finished:     v.Finished,
		CreatedAt:    v.CreatedAt,
	}
	if v.Elige8.Enabled {
		out.Elige8 = &elige8DTO{
			Enabled:         true,
			SelectedMatches: v.Elige8.SelectedMatches,
			Predictions:     optionsToStrings(v.Elige8.Predictions),
		}
	}
	return out
}

func slipResultsToDTO(ctx context.Context, v usecase.SlipResults) slipResultsDTO {
	return slipResultsDTO{
		Slip: slipToDTO(ctx, v.Slip),
		Score: scoreDTO{
			Aciertos:      v.Score.Aciertos,
			PlenoAcertado: v.Score.PlenoAcertado,
			Category:      string(v.Score.Category),
		},
		SettledMatches: v.SettledMatches,
		Finished:       v.Finished,
	}
}

func summaryToDTO(v usecase.FinancialSummary) financialSummaryDTO {
	bySeason := make([]seasonSummaryDTO, 0, len(v.BySeason))
	for _, s := range v.BySeason {
		bySeason = append(bySeason, seasonSummaryDTO{
			Season:      s.Season,
			Slips:       s.Slips,
			StakedCents: s.StakedCents,
			WonCents:    s.WonCents,
			NetCents:    s.NetCents,
		})
	}

	return financialSummaryDTO{
		TotalSlips:       v.TotalSlips,
		SettledSlips:     v.SettledSlips,
		TotalStakedCents: v.TotalStakedCents,
		TotalWonCents:    v.TotalWonCents,
		NetCents:         v.NetCents,
		BySeason:         bySeason,
	}
}

func configToDTO(v quiniela.CustomConfig) configDTO {
	return configDTO{
		ID:           v.ID,
		Name:         v.Name,
		Season:       v.Season,
		Round:        v.Round,
		MatchIDs:     v.MatchIDs,
		PlenoMatchID: v.PlenoMatchID,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func slipDraftToDTO(v usecase.SlipDraft) slipDraftDTO {
	return slipDraftDTO{
		Season:      v.Season,
		Round:       v.Round,
		Predictions: slipRowsToDTO(v.Predictions),
		Pleno:       plenoToDTO(v.Pleno),
		Validation:  validationToDTO(v.Validation),
	}
}

func modelPerfToDTO(v modelperf.Snapshot) modelPerfDTO {
	return modelPerfDTO{
		ModelVersion:      v.ModelVersion,
		TrainedAt:         v.TrainedAt,
		SampleCount:       v.SampleCount,
		HoldoutAccuracy:   v.HoldoutAccuracy,
		ClassPrecision:    v.ClassPrecision,
		ClassRecall:       v.ClassRecall,
		FeatureImportance: v.FeatureImportance,
	}
}
