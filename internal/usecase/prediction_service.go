package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/advancedstats"
	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
	"github.com/quinielabs/quiniela-assistant/internal/platform/id"
	"github.com/quinielabs/quiniela-assistant/internal/platform/logging"
	"github.com/quinielabs/quiniela-assistant/internal/predict"
)

const (
	headToHeadWindow = 10
	teamFormWindow   = 5
	quinielaRoundLen = 15
)

type MatchPrediction struct {
	Match      match.Match
	Prediction prediction.Prediction
}

type PredictionService struct {
	matchRepo     match.Repository
	teamRepo      team.Repository
	teamStatsRepo teamstats.Repository
	advStatsRepo  advancedstats.Repository
	predRepo      prediction.Repository
	predictor     predict.Predictor
	idGen         id.Generator
	logger        *logging.Logger
	now           func() time.Time
}

func NewPredictionService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	teamStatsRepo teamstats.Repository,
	advStatsRepo advancedstats.Repository,
	predRepo prediction.Repository,
	predictor predict.Predictor,
	idGen id.Generator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &PredictionService{
		matchRepo:     matchRepo,
		teamRepo:      teamRepo,
		teamStatsRepo: teamStatsRepo,
		advStatsRepo:  advStatsRepo,
		predRepo:      predRepo,
		predictor:     predictor,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

// PredictMatch runs the tiered predictor for one match and persists the
// outcome. A previously stored prediction is returned as-is unless refresh
// is requested.
func (s *PredictionService) PredictMatch(ctx context.Context, matchID string, refresh bool) (MatchPrediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchPrediction{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	matchItem, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchPrediction{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchPrediction{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	if !refresh {
		stored, exists, err := s.predRepo.GetLatestByMatch(ctx, matchID)
		if err != nil {
			return MatchPrediction{}, fmt.Errorf("get stored prediction: %w", err)
		}
		if exists {
			return MatchPrediction{Match: matchItem, Prediction: stored}, nil
		}
	}

	return s.predictAndStore(ctx, matchItem)
}

// PredictRound forecasts every match of a league round, reusing stored
// predictions where present.
func (s *PredictionService) PredictRound(ctx context.Context, leagueID, season string, round int) ([]MatchPrediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.PredictRound")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if round <= 0 {
		return nil, fmt.Errorf("%w: round must be greater than zero", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListBySeasonAndRound(ctx, strings.TrimSpace(leagueID), season, round)
	if err != nil {
		return nil, fmt.Errorf("list matches by round: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no matches for season=%s round=%d", ErrNotFound, season, round)
	}
	if len(matches) > quinielaRoundLen {
		matches = matches[:quinielaRoundLen]
	}

	out := make([]MatchPrediction, 0, len(matches))
	for _, matchItem := range matches {
		stored, exists, err := s.predRepo.GetLatestByMatch(ctx, matchItem.ID)
		if err != nil {
			return nil, fmt.Errorf("get stored prediction match=%s: %w", matchItem.ID, err)
		}
		if exists {
			out = append(out, MatchPrediction{Match: matchItem, Prediction: stored})
			continue
		}

		predicted, err := s.predictAndStore(ctx, matchItem)
		if err != nil {
			return nil, err
		}
		out = append(out, predicted)
	}

	return out, nil
}

func (s *PredictionService) History(ctx context.Context, limit int) ([]prediction.Prediction, error) {
	if limit <= 0 {
		limit = 50
	}

	items, err := s.predRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent predictions: %w", err)
	}

	return items, nil
}

// BuildMatchup assembles the feature inputs for one match: both teams,
// season stats, head to head, recent form and advanced metrics. Missing
// pieces stay nil so predictors degrade instead of failing.
func (s *PredictionService) BuildMatchup(ctx context.Context, matchItem match.Match) (predict.Matchup, error) {
	homeTeam, exists, err := s.teamRepo.GetByID(ctx, matchItem.HomeTeamID)
	if err != nil {
		return predict.Matchup{}, fmt.Errorf("get home team: %w", err)
	}
	if !exists {
		return predict.Matchup{}, fmt.Errorf("%w: team=%s", ErrNotFound, matchItem.HomeTeamID)
	}
	awayTeam, exists, err := s.teamRepo.GetByID(ctx, matchItem.AwayTeamID)
	if err != nil {
		return predict.Matchup{}, fmt.Errorf("get away team: %w", err)
	}
	if !exists {
		return predict.Matchup{}, fmt.Errorf("%w: team=%s", ErrNotFound, matchItem.AwayTeamID)
	}

	m := predict.Matchup{
		MatchID:   matchItem.ID,
		LeagueID:  matchItem.LeagueID,
		Season:    matchItem.Season,
		Round:     matchItem.Round,
		KickoffAt: matchItem.KickoffAt,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeOdds:  matchItem.HomeOdds,
		DrawOdds:  matchItem.DrawOdds,
		AwayOdds:  matchItem.AwayOdds,
	}

	if homeStats, exists, err := s.teamStatsRepo.GetByTeamAndSeason(ctx, homeTeam.ID, matchItem.Season); err != nil {
		return predict.Matchup{}, fmt.Errorf("get home team stats: %w", err)
	} else if exists {
		m.HomeStats = &homeStats
	}
	if awayStats, exists, err := s.teamStatsRepo.GetByTeamAndSeason(ctx, awayTeam.ID, matchItem.Season); err != nil {
		return predict.Matchup{}, fmt.Errorf("get away team stats: %w", err)
	} else if exists {
		m.AwayStats = &awayStats
	}

	if m.HeadToHead, err = s.matchRepo.ListHeadToHead(ctx, homeTeam.ID, awayTeam.ID, headToHeadWindow); err != nil {
		return predict.Matchup{}, fmt.Errorf("list head to head: %w", err)
	}
	if m.HomeForm, err = s.matchRepo.ListFinishedByTeam(ctx, homeTeam.ID, teamFormWindow); err != nil {
		return predict.Matchup{}, fmt.Errorf("list home form: %w", err)
	}
	if m.AwayForm, err = s.matchRepo.ListFinishedByTeam(ctx, awayTeam.ID, teamFormWindow); err != nil {
		return predict.Matchup{}, fmt.Errorf("list away form: %w", err)
	}

	if s.advStatsRepo != nil {
		if homeAdv, exists, err := s.advStatsRepo.GetByTeamAndSeason(ctx, homeTeam.ID, matchItem.Season); err != nil {
			return predict.Matchup{}, fmt.Errorf("get home advanced stats: %w", err)
		} else if exists {
			m.HomeAdv = &homeAdv
		}
		if awayAdv, exists, err := s.advStatsRepo.GetByTeamAndSeason(ctx, awayTeam.ID, matchItem.Season); err != nil {
			return predict.Matchup{}, fmt.Errorf("get away advanced stats: %w", err)
		} else if exists {
			m.AwayAdv = &awayAdv
		}
	}

	return m, nil
}

func (s *PredictionService) predictAndStore(ctx context.Context, matchItem match.Match) (MatchPrediction, error) {
	matchup, err := s.BuildMatchup(ctx, matchItem)
	if err != nil {
		return MatchPrediction{}, err
	}

	outcome, err := s.predictor.Predict(ctx, matchup)
	if err != nil {
		return MatchPrediction{}, fmt.Errorf("predict match=%s: %w", matchItem.ID, err)
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return MatchPrediction{}, fmt.Errorf("generate prediction id: %w", err)
	}

	stored := prediction.Prediction{
		ID:           newID,
		MatchID:      matchItem.ID,
		ModelVersion: outcome.ModelVersion,
		Tier:         outcome.Tier,
		HomeProb:     outcome.HomeProb,
		DrawProb:     outcome.DrawProb,
		AwayProb:     outcome.AwayProb,
		Result:       string(outcome.Result),
		Confidence:   outcome.Confidence,
		Explanation:  outcome.Explanation,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.predRepo.Insert(ctx, stored); err != nil {
		return MatchPrediction{}, fmt.Errorf("store prediction match=%s: %w", matchItem.ID, err)
	}

	s.logger.DebugContext(ctx, "stored match prediction",
		"match_id", matchItem.ID,
		"tier", string(outcome.Tier),
		"result", string(outcome.Result),
		"confidence", outcome.Confidence,
	)

	return MatchPrediction{Match: matchItem, Prediction: stored}, nil
}
