package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/modelperf"
	"github.com/quinielabs/quiniela-assistant/internal/platform/id"
	"github.com/quinielabs/quiniela-assistant/internal/platform/logging"
	"github.com/quinielabs/quiniela-assistant/internal/predict"
)

const maxTrainingMatches = 2000

type TrainResult struct {
	ModelVersion    string
	SampleCount     int
	HoldoutAccuracy float64
}

type TrainingService struct {
	matchRepo  match.Repository
	matchups   *PredictionService
	perfRepo   modelperf.Repository
	modelStore *predict.ModelStore
	ensemble   *predict.EnsemblePredictor
	idGen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewTrainingService(
	matchRepo match.Repository,
	matchups *PredictionService,
	perfRepo modelperf.Repository,
	modelStore *predict.ModelStore,
	ensemble *predict.EnsemblePredictor,
	idGen id.Generator,
	logger *logging.Logger,
) *TrainingService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &TrainingService{
		matchRepo:  matchRepo,
		matchups:   matchups,
		perfRepo:   perfRepo,
		modelStore: modelStore,
		ensemble:   ensemble,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Train fits a fresh ensemble on the finished matches of a league, persists
// the model file and a performance snapshot, then swaps the live predictor
// to the new version.
func (s *TrainingService) Train(ctx context.Context, leagueID string) (TrainResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrainingService.Train")
	defer span.End()

	finished, err := s.matchRepo.ListFinishedBefore(ctx, strings.TrimSpace(leagueID), s.now().UTC(), maxTrainingMatches)
	if err != nil {
		return TrainResult{}, fmt.Errorf("list finished matches: %w", err)
	}

	samples, err := s.buildSamples(ctx, finished)
	if err != nil {
		return TrainResult{}, err
	}
	if len(samples) < predict.MinTrainingMatches {
		return TrainResult{}, fmt.Errorf("%w: need at least %d finished matches with results, got %d",
			ErrInvalidInput, predict.MinTrainingMatches, len(samples))
	}

	model, report, err := predict.TrainEnsemble(samples, s.now().UTC())
	if err != nil {
		return TrainResult{}, fmt.Errorf("train ensemble: %w", err)
	}

	if err := s.modelStore.Save(model); err != nil {
		return TrainResult{}, fmt.Errorf("save model version=%s: %w", model.Version, err)
	}

	snapshotID, err := s.idGen.NewID()
	if err != nil {
		return TrainResult{}, fmt.Errorf("generate snapshot id: %w", err)
	}
	snapshot := modelperf.Snapshot{
		ID:                snapshotID,
		ModelVersion:      report.Version,
		TrainedAt:         model.TrainedAt,
		SampleCount:       report.SampleCount,
		HoldoutAccuracy:   report.HoldoutAccuracy,
		ClassPrecision:    report.ClassPrecision,
		ClassRecall:       report.ClassRecall,
		FeatureImportance: report.FeatureImportance,
	}
	if err := s.perfRepo.Insert(ctx, snapshot); err != nil {
		return TrainResult{}, fmt.Errorf("store performance snapshot: %w", err)
	}

	s.ensemble.Swap(model)

	s.logger.InfoContext(ctx, "trained new ensemble model",
		"model_version", report.Version,
		"samples", report.SampleCount,
		"holdout_accuracy", report.HoldoutAccuracy,
	)

	return TrainResult{
		ModelVersion:    report.Version,
		SampleCount:     report.SampleCount,
		HoldoutAccuracy: report.HoldoutAccuracy,
	}, nil
}

func (s *TrainingService) LatestPerformance(ctx context.Context) (modelperf.Snapshot, error) {
	snapshot, exists, err := s.perfRepo.GetLatest(ctx)
	if err != nil {
		return modelperf.Snapshot{}, fmt.Errorf("get latest performance snapshot: %w", err)
	}
	if !exists {
		return modelperf.Snapshot{}, fmt.Errorf("%w: no trained model on record", ErrNotFound)
	}

	return snapshot, nil
}

func (s *TrainingService) buildSamples(ctx context.Context, finished []match.Match) ([]predict.TrainingSample, error) {
	samples := make([]predict.TrainingSample, 0, len(finished))
	for _, matchItem := range finished {
		result := matchItem.ResolveResult()
		if result == match.ResultNone {
			continue
		}

		matchup, err := s.matchups.BuildMatchup(ctx, matchItem)
		if err != nil {
			// Matches referencing teams that were never synced are skipped.
			s.logger.WarnContext(ctx, "skipping training sample",
				"match_id", matchItem.ID,
				"error", err.Error(),
			)
			continue
		}

		samples = append(samples, predict.TrainingSample{
			Matchup: matchup,
			Result:  result,
		})
	}

	return samples, nil
}
