package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
	"github.com/quinielabs/quiniela-assistant/internal/platform/id"
	"github.com/quinielabs/quiniela-assistant/internal/platform/logging"
	"github.com/quinielabs/quiniela-assistant/internal/predict"
)

// Average historical payout per prize category, euro cents. Used to settle
// slips until official prize breakdowns are ingested.
var estimatedCategoryPrizeCents = map[quiniela.PrizeCategory]int64{
	quiniela.PrizeQuinta:   1_500,
	quiniela.PrizeCuarta:   2_500,
	quiniela.PrizeTercera:  8_000,
	quiniela.PrizeSegunda:  50_000,
	quiniela.PrizePrimera:  1_500_000,
	quiniela.PrizeEspecial: 30_000_000,
}

const doubleConfidenceThreshold = 0.6

type CreateSlipInput struct {
	Season      string
	Round       int
	Predictions []quiniela.Prediction
	Pleno       quiniela.PlenoAl15
	Elige8      *quiniela.Elige8
}

type SlipResults struct {
	Slip           quiniela.UserSlip
	Score          quiniela.ScoreResult
	SettledMatches int
	Finished       bool
}

type SaveConfigInput struct {
	ID           string
	Name         string
	Season       string
	Round        int
	MatchIDs     []string
	PlenoMatchID string
}

type SlipDraft struct {
	Season      string
	Round       int
	Predictions []quiniela.Prediction
	Pleno       quiniela.PlenoAl15
	Validation  quiniela.ValidationResult
}

type FinancialSummary struct {
	TotalSlips       int
	SettledSlips     int
	TotalStakedCents int64
	TotalWonCents    int64
	NetCents         int64
	BySeason         []SeasonSummary
}

type SeasonSummary struct {
	Season      string
	Slips       int
	StakedCents int64
	WonCents    int64
	NetCents    int64
}

type QuinielaService struct {
	slipRepo    quiniela.SlipRepository
	configRepo  quiniela.ConfigRepository
	matchRepo   match.Repository
	predictions *PredictionService
	idGen       id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewQuinielaService(
	slipRepo quiniela.SlipRepository,
	configRepo quiniela.ConfigRepository,
	matchRepo match.Repository,
	predictions *PredictionService,
	idGen id.Generator,
	logger *logging.Logger,
) *QuinielaService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &QuinielaService{
		slipRepo:    slipRepo,
		configRepo:  configRepo,
		matchRepo:   matchRepo,
		predictions: predictions,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// ValidateSlip prices a slip against official rules. Rule violations come
// back as ErrInvalidInput with every violation joined.
func (s *QuinielaService) ValidateSlip(predictions []quiniela.Prediction, elige8 *quiniela.Elige8) (quiniela.ValidationResult, error) {
	result, err := quiniela.Validate(predictions, elige8)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return result, nil
}

func (s *QuinielaService) CreateSlip(ctx context.Context, input CreateSlipInput) (quiniela.UserSlip, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuinielaService.CreateSlip")
	defer span.End()

	season := strings.TrimSpace(input.Season)
	if season == "" {
		return quiniela.UserSlip{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if input.Round <= 0 {
		return quiniela.UserSlip{}, fmt.Errorf("%w: round must be greater than zero", ErrInvalidInput)
	}

	validation, err := quiniela.Validate(input.Predictions, input.Elige8)
	if err != nil {
		return quiniela.UserSlip{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := quiniela.ValidatePleno(input.Pleno); err != nil {
		return quiniela.UserSlip{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return quiniela.UserSlip{}, fmt.Errorf("generate slip id: %w", err)
	}

	createdAt := s.now().UTC()
	slip := quiniela.UserSlip{
		ID:           newID,
		Season:       season,
		Round:        input.Round,
		Predictions:  input.Predictions,
		Pleno:        input.Pleno,
		BetType:      validation.BetType,
		Combinations: validation.TotalCombinations,
		CostCents:    validation.TotalCost,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if input.Elige8 != nil {
		slip.Elige8 = *input.Elige8
	}

	if err := s.slipRepo.Insert(ctx, slip); err != nil {
		return quiniela.UserSlip{}, fmt.Errorf("insert slip: %w", err)
	}

	s.logger.InfoContext(ctx, "created quiniela slip",
		"slip_id", slip.ID,
		"season", slip.Season,
		"round", slip.Round,
		"combinations", slip.Combinations,
		"cost_cents", slip.CostCents,
	)

	return slip, nil
}

func (s *QuinielaService) ListSlips(ctx context.Context, season string) ([]quiniela.UserSlip, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		slips, err := s.slipRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list slips: %w", err)
		}
		return slips, nil
	}

	slips, err := s.slipRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list slips by season: %w", err)
	}

	return slips, nil
}

// SlipResults checks a slip against the official results on record. When
// every referenced match has finished the slip is settled and persisted
// with its aciertos and estimated winnings.
func (s *QuinielaService) SlipResults(ctx context.Context, slipID string) (SlipResults, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuinielaService.SlipResults")
	defer span.End()

	slipID = strings.TrimSpace(slipID)
	if slipID == "" {
		return SlipResults{}, fmt.Errorf("%w: slip id is required", ErrInvalidInput)
	}

	slip, exists, err := s.slipRepo.GetByID(ctx, slipID)
	if err != nil {
		return SlipResults{}, fmt.Errorf("get slip: %w", err)
	}
	if !exists {
		return SlipResults{}, fmt.Errorf("%w: slip=%s", ErrNotFound, slipID)
	}

	results := make(map[int]quiniela.Option, len(slip.Predictions))
	settled := 0
	plenoOK := false
	allFinished := true
	for _, pred := range slip.Predictions {
		matchItem, exists, err := s.matchRepo.GetByID(ctx, pred.MatchID)
		if err != nil {
			return SlipResults{}, fmt.Errorf("get match=%s: %w", pred.MatchID, err)
		}
		if !exists {
			return SlipResults{}, fmt.Errorf("%w: match=%s", ErrNotFound, pred.MatchID)
		}

		result := matchItem.ResolveResult()
		if result == match.ResultNone {
			allFinished = false
			continue
		}
		results[pred.MatchNumber] = quiniela.Option(result)
		settled++

		if pred.MatchNumber == quiniela.SlipSize {
			plenoOK = matchItem.HomeGoals != nil && matchItem.AwayGoals != nil &&
				quiniela.GoalsPickFor(*matchItem.HomeGoals) == slip.Pleno.HomeGoals &&
				quiniela.GoalsPickFor(*matchItem.AwayGoals) == slip.Pleno.AwayGoals
		}
	}

	score := quiniela.Score(slip.Predictions, results, plenoOK)

	if allFinished && !slip.Finished {
		slip.Aciertos = score.Aciertos
		slip.Finished = true
		slip.WinningCents = estimatedCategoryPrizeCents[score.Category]
		slip.UpdatedAt = s.now().UTC()
		if err := s.slipRepo.Update(ctx, slip); err != nil {
			return SlipResults{}, fmt.Errorf("settle slip: %w", err)
		}

		s.logger.InfoContext(ctx, "settled quiniela slip",
			"slip_id", slip.ID,
			"aciertos", score.Aciertos,
			"category", string(score.Category),
			"winning_cents", slip.WinningCents,
		)
	}

	return SlipResults{
		Slip:           slip,
		Score:          score,
		SettledMatches: settled,
		Finished:       allFinished,
	}, nil
}

func (s *QuinielaService) Summary(ctx context.Context) (FinancialSummary, error) {
	slips, err := s.slipRepo.ListAll(ctx)
	if err != nil {
		return FinancialSummary{}, fmt.Errorf("list slips: %w", err)
	}

	summary := FinancialSummary{TotalSlips: len(slips)}
	bySeason := make(map[string]*SeasonSummary)
	for _, slip := range slips {
		summary.TotalStakedCents += slip.CostCents
		if slip.Finished {
			summary.SettledSlips++
			summary.TotalWonCents += slip.WinningCents
		}

		entry, ok := bySeason[slip.Season]
		if !ok {
			entry = &SeasonSummary{Season: slip.Season}
			bySeason[slip.Season] = entry
		}
		entry.Slips++
		entry.StakedCents += slip.CostCents
		if slip.Finished {
			entry.WonCents += slip.WinningCents
		}
	}
	summary.NetCents = summary.TotalWonCents - summary.TotalStakedCents

	summary.BySeason = make([]SeasonSummary, 0, len(bySeason))
	for _, entry := range bySeason {
		entry.NetCents = entry.WonCents - entry.StakedCents
		summary.BySeason = append(summary.BySeason, *entry)
	}
	sort.Slice(summary.BySeason, func(i, j int) bool {
		return summary.BySeason[i].Season < summary.BySeason[j].Season
	})

	return summary, nil
}

// SaveConfig stores a reusable 15-match round selection. Every referenced
// match must exist and the Pleno match must be one of the fifteen.
func (s *QuinielaService) SaveConfig(ctx context.Context, input SaveConfigInput) (quiniela.CustomConfig, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuinielaService.SaveConfig")
	defer span.End()

	config := quiniela.CustomConfig{
		ID:           strings.TrimSpace(input.ID),
		Name:         strings.TrimSpace(input.Name),
		Season:       strings.TrimSpace(input.Season),
		Round:        input.Round,
		MatchIDs:     input.MatchIDs,
		PlenoMatchID: strings.TrimSpace(input.PlenoMatchID),
	}
	if config.ID == "" {
		newID, err := s.idGen.NewID()
		if err != nil {
			return quiniela.CustomConfig{}, fmt.Errorf("generate config id: %w", err)
		}
		config.ID = newID
	}
	if err := config.ValidateBasic(); err != nil {
		return quiniela.CustomConfig{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	seen := make(map[string]struct{}, len(config.MatchIDs))
	plenoIncluded := false
	for _, matchID := range config.MatchIDs {
		matchID = strings.TrimSpace(matchID)
		if matchID == "" {
			return quiniela.CustomConfig{}, fmt.Errorf("%w: blank match id in config", ErrInvalidInput)
		}
		if _, dup := seen[matchID]; dup {
			return quiniela.CustomConfig{}, fmt.Errorf("%w: duplicate match id %s", ErrInvalidInput, matchID)
		}
		seen[matchID] = struct{}{}
		if matchID == config.PlenoMatchID {
			plenoIncluded = true
		}

		_, exists, err := s.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return quiniela.CustomConfig{}, fmt.Errorf("get match=%s: %w", matchID, err)
		}
		if !exists {
			return quiniela.CustomConfig{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}
	}
	if !plenoIncluded {
		return quiniela.CustomConfig{}, fmt.Errorf("%w: pleno match must be one of the config matches", ErrInvalidInput)
	}

	config.CreatedAt = s.now().UTC()
	config.UpdatedAt = config.CreatedAt
	if err := s.configRepo.Upsert(ctx, config); err != nil {
		return quiniela.CustomConfig{}, fmt.Errorf("upsert config: %w", err)
	}

	return config, nil
}

func (s *QuinielaService) ListConfigs(ctx context.Context, season string) ([]quiniela.CustomConfig, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	configs, err := s.configRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list configs by season: %w", err)
	}

	return configs, nil
}

// BuildSlipFromConfig drafts a slip for a saved config: every match gets
// the predicted outcome, low-confidence rows are widened to doubles while
// combinations stay legal, and the Pleno pick follows the goals estimate.
func (s *QuinielaService) BuildSlipFromConfig(ctx context.Context, configID string) (SlipDraft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuinielaService.BuildSlipFromConfig")
	defer span.End()

	configID = strings.TrimSpace(configID)
	if configID == "" {
		return SlipDraft{}, fmt.Errorf("%w: config id is required", ErrInvalidInput)
	}

	config, exists, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		return SlipDraft{}, fmt.Errorf("get config: %w", err)
	}
	if !exists {
		return SlipDraft{}, fmt.Errorf("%w: config=%s", ErrNotFound, configID)
	}

	// The Pleno match goes last so it carries match number 15.
	orderedIDs := make([]string, 0, len(config.MatchIDs))
	for _, matchID := range config.MatchIDs {
		if matchID != config.PlenoMatchID {
			orderedIDs = append(orderedIDs, matchID)
		}
	}
	orderedIDs = append(orderedIDs, config.PlenoMatchID)

	draft := SlipDraft{
		Season:      config.Season,
		Round:       config.Round,
		Predictions: make([]quiniela.Prediction, 0, len(orderedIDs)),
	}
	combinations := 1
	leastConfident := -1
	leastConfidence := 0.0
	var leastConfidentSecond quiniela.Option
	for i, matchID := range orderedIDs {
		predicted, err := s.predictions.PredictMatch(ctx, matchID, false)
		if err != nil {
			return SlipDraft{}, err
		}

		row := quiniela.Prediction{
			MatchNumber: i + 1,
			MatchID:     matchID,
			HomeTeam:    predicted.Match.HomeTeamID,
			AwayTeam:    predicted.Match.AwayTeamID,
			Options:     []quiniela.Option{quiniela.Option(predicted.Prediction.Result)},
		}
		if second, ok := secondBestOption(predicted.Prediction); ok {
			if predicted.Prediction.Confidence < doubleConfidenceThreshold &&
				combinations*2 <= quiniela.MaxCombinations {
				row.Options = append(row.Options, second)
			} else if leastConfident < 0 || predicted.Prediction.Confidence < leastConfidence {
				leastConfident = i
				leastConfidence = predicted.Prediction.Confidence
				leastConfidentSecond = second
			}
		}
		combinations *= len(row.Options)
		draft.Predictions = append(draft.Predictions, row)

		if matchID == config.PlenoMatchID {
			matchup, err := s.predictions.BuildMatchup(ctx, predicted.Match)
			if err != nil {
				return SlipDraft{}, err
			}
			draft.Pleno = predict.SuggestPleno(matchup)
		}
	}

	// A slip needs at least two combinations; widen the shakiest row when
	// every pick came out as a single.
	if combinations == 1 && leastConfident >= 0 {
		draft.Predictions[leastConfident].Options = append(draft.Predictions[leastConfident].Options, leastConfidentSecond)
	}

	draft.Validation, err = quiniela.Validate(draft.Predictions, nil)
	if err != nil {
		return SlipDraft{}, fmt.Errorf("validate drafted slip: %w", err)
	}

	return draft, nil
}

func secondBestOption(p prediction.Prediction) (quiniela.Option, bool) {
	type ranked struct {
		option quiniela.Option
		prob   float64
	}
	options := []ranked{
		{quiniela.OptionHome, p.HomeProb},
		{quiniela.OptionDraw, p.DrawProb},
		{quiniela.OptionAway, p.AwayProb},
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].prob > options[j].prob
	})

	if options[1].prob <= 0 || string(options[1].option) == p.Result {
		return "", false
	}
	return options[1].option, true
}
