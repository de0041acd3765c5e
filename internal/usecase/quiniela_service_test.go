package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/infrastructure/repository/memory"
	"github.com/quinielabs/quiniela-assistant/internal/predict"
)

// roundTeams and roundMatches set up a full 15-match round. Home sides win
// 2-1 everywhere, so every official result is "1" and the Pleno bands are
// two and one.
func roundTeams() []team.Team {
	teams := make([]team.Team, 0, 6)
	for i := 1; i <= 6; i++ {
		teams = append(teams, team.Team{
			ID:         fmt.Sprintf("team-%02d", i),
			ExternalID: int64(i),
			LeagueID:   team.LeagueLaLiga,
			Name:       fmt.Sprintf("Club %02d", i),
		})
	}
	return teams
}

func roundMatches(finished bool) []match.Match {
	kickoff := time.Date(2025, 9, 13, 14, 0, 0, 0, time.UTC)
	status := match.StatusScheduled
	if finished {
		status = match.StatusFinished
	}

	matches := make([]match.Match, 0, quiniela.SlipSize)
	for i := 1; i <= quiniela.SlipSize; i++ {
		m := match.Match{
			ID:         fmt.Sprintf("m%02d", i),
			ExternalID: int64(1000 + i),
			LeagueID:   team.LeagueLaLiga,
			Season:     "2025",
			Round:      4,
			HomeTeamID: fmt.Sprintf("team-%02d", (i%3)+1),
			AwayTeamID: fmt.Sprintf("team-%02d", (i%3)+4),
			KickoffAt:  kickoff.Add(time.Duration(i) * time.Hour),
			Status:     status,
		}
		if finished {
			hg, ag := 2, 1
			m.HomeGoals = &hg
			m.AwayGoals = &ag
			m.Result = m.ResolveResult()
		}
		matches = append(matches, m)
	}
	return matches
}

func roundPredictions() []quiniela.Prediction {
	predictions := make([]quiniela.Prediction, 0, quiniela.SlipSize)
	for i := 1; i <= quiniela.SlipSize; i++ {
		options := []quiniela.Option{quiniela.OptionHome}
		if i == 1 {
			options = append(options, quiniela.OptionDraw)
		}
		predictions = append(predictions, quiniela.Prediction{
			MatchNumber: i,
			MatchID:     fmt.Sprintf("m%02d", i),
			HomeTeam:    "home",
			AwayTeam:    "away",
			Options:     options,
		})
	}
	return predictions
}

func newTestQuinielaService(matchRepo *memory.MatchRepository, predictions *PredictionService) (*QuinielaService, *memory.QuinielaSlipRepository, *memory.QuinielaConfigRepository) {
	slipRepo := memory.NewQuinielaSlipRepository()
	configRepo := memory.NewQuinielaConfigRepository()
	service := NewQuinielaService(slipRepo, configRepo, matchRepo, predictions, &seqIDGenerator{}, nil)
	return service, slipRepo, configRepo
}

func TestQuinielaService_ValidateSlip_RejectsSingleCombination(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestQuinielaService(memory.NewMatchRepository(nil), nil)

	predictions := roundPredictions()
	predictions[0].Options = []quiniela.Option{quiniela.OptionHome}

	_, err := service.ValidateSlip(predictions, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a single combination slip, got %v", err)
	}
}

func TestQuinielaService_CreateSlip(t *testing.T) {
	t.Parallel()

	service, slipRepo, _ := newTestQuinielaService(memory.NewMatchRepository(nil), nil)

	slip, err := service.CreateSlip(context.Background(), CreateSlipInput{
		Season:      "2025",
		Round:       4,
		Predictions: roundPredictions(),
		Pleno:       quiniela.PlenoAl15{HomeGoals: quiniela.GoalsTwo, AwayGoals: quiniela.GoalsOne},
	})
	if err != nil {
		t.Fatalf("CreateSlip error: %v", err)
	}
	if slip.Combinations != 2 {
		t.Fatalf("expected 2 combinations, got %d", slip.Combinations)
	}
	if slip.CostCents != 2*quiniela.BetPriceCents {
		t.Fatalf("expected cost %d, got %d", 2*quiniela.BetPriceCents, slip.CostCents)
	}
	if slip.BetType != quiniela.BetTypeMultiple {
		t.Fatalf("expected multiple bet type, got %q", slip.BetType)
	}

	stored, exists, err := slipRepo.GetByID(context.Background(), slip.ID)
	if err != nil || !exists {
		t.Fatalf("expected slip to be stored, exists=%v err=%v", exists, err)
	}
	if stored.Season != "2025" || stored.Round != 4 {
		t.Fatalf("unexpected stored slip: %+v", stored)
	}
}

func TestQuinielaService_CreateSlip_InvalidPleno(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestQuinielaService(memory.NewMatchRepository(nil), nil)

	_, err := service.CreateSlip(context.Background(), CreateSlipInput{
		Season:      "2025",
		Round:       4,
		Predictions: roundPredictions(),
		Pleno:       quiniela.PlenoAl15{HomeGoals: "7", AwayGoals: quiniela.GoalsOne},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad pleno band, got %v", err)
	}
}

func TestQuinielaService_SlipResults_SettlesFinishedRound(t *testing.T) {
	t.Parallel()

	matchRepo := memory.NewMatchRepository(roundMatches(true))
	service, slipRepo, _ := newTestQuinielaService(matchRepo, nil)

	slip, err := service.CreateSlip(context.Background(), CreateSlipInput{
		Season:      "2025",
		Round:       4,
		Predictions: roundPredictions(),
		Pleno:       quiniela.PlenoAl15{HomeGoals: quiniela.GoalsTwo, AwayGoals: quiniela.GoalsOne},
	})
	if err != nil {
		t.Fatalf("CreateSlip error: %v", err)
	}

	results, err := service.SlipResults(context.Background(), slip.ID)
	if err != nil {
		t.Fatalf("SlipResults error: %v", err)
	}
	if !results.Finished || results.SettledMatches != quiniela.SlipSize {
		t.Fatalf("expected all matches settled, got %+v", results)
	}
	if results.Score.Aciertos != quiniela.SlipSize || !results.Score.PlenoAcertado {
		t.Fatalf("expected a full hit with pleno, got %+v", results.Score)
	}
	if results.Score.Category != quiniela.PrizeEspecial {
		t.Fatalf("expected especial category, got %q", results.Score.Category)
	}

	settled, _, err := slipRepo.GetByID(context.Background(), slip.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !settled.Finished || settled.Aciertos != quiniela.SlipSize {
		t.Fatalf("expected slip to be settled, got %+v", settled)
	}
	if settled.WinningCents != estimatedCategoryPrizeCents[quiniela.PrizeEspecial] {
		t.Fatalf("unexpected winnings: %d", settled.WinningCents)
	}
}

func TestQuinielaService_SlipResults_PartialRoundDoesNotSettle(t *testing.T) {
	t.Parallel()

	matches := roundMatches(true)
	matches[7].Status = match.StatusScheduled
	matches[7].HomeGoals = nil
	matches[7].AwayGoals = nil
	matches[7].Result = match.ResultNone
	matchRepo := memory.NewMatchRepository(matches)
	service, slipRepo, _ := newTestQuinielaService(matchRepo, nil)

	slip, err := service.CreateSlip(context.Background(), CreateSlipInput{
		Season:      "2025",
		Round:       4,
		Predictions: roundPredictions(),
		Pleno:       quiniela.PlenoAl15{HomeGoals: quiniela.GoalsTwo, AwayGoals: quiniela.GoalsOne},
	})
	if err != nil {
		t.Fatalf("CreateSlip error: %v", err)
	}

	results, err := service.SlipResults(context.Background(), slip.ID)
	if err != nil {
		t.Fatalf("SlipResults error: %v", err)
	}
	if results.Finished {
		t.Fatalf("expected round to be unfinished")
	}
	if results.SettledMatches != quiniela.SlipSize-1 {
		t.Fatalf("expected 14 settled matches, got %d", results.SettledMatches)
	}

	stored, _, err := slipRepo.GetByID(context.Background(), slip.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if stored.Finished || stored.WinningCents != 0 {
		t.Fatalf("expected slip to stay unsettled, got %+v", stored)
	}
}

func TestQuinielaService_Summary(t *testing.T) {
	t.Parallel()

	service, slipRepo, _ := newTestQuinielaService(memory.NewMatchRepository(nil), nil)

	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	slips := []quiniela.UserSlip{
		{ID: "s1", Season: "2024", Round: 10, Predictions: roundPredictions(), CostCents: 150, WinningCents: 8_000, Aciertos: 12, Finished: true, CreatedAt: base},
		{ID: "s2", Season: "2025", Round: 4, Predictions: roundPredictions(), CostCents: 300, CreatedAt: base.Add(time.Hour)},
	}
	for _, s := range slips {
		if err := slipRepo.Insert(context.Background(), s); err != nil {
			t.Fatalf("seed slip %s: %v", s.ID, err)
		}
	}

	summary, err := service.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if summary.TotalSlips != 2 || summary.SettledSlips != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.TotalStakedCents != 450 || summary.TotalWonCents != 8_000 || summary.NetCents != 7_550 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if len(summary.BySeason) != 2 || summary.BySeason[0].Season != "2024" || summary.BySeason[0].NetCents != 7_850 {
		t.Fatalf("unexpected season rows: %+v", summary.BySeason)
	}
}

func TestQuinielaService_SaveConfig(t *testing.T) {
	t.Parallel()

	matchRepo := memory.NewMatchRepository(roundMatches(false))
	service, _, configRepo := newTestQuinielaService(matchRepo, nil)

	matchIDs := make([]string, 0, quiniela.SlipSize)
	for i := 1; i <= quiniela.SlipSize; i++ {
		matchIDs = append(matchIDs, fmt.Sprintf("m%02d", i))
	}

	config, err := service.SaveConfig(context.Background(), SaveConfigInput{
		Name:         "Jornada 4",
		Season:       "2025",
		Round:        4,
		MatchIDs:     matchIDs,
		PlenoMatchID: "m15",
	})
	if err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}
	if config.ID == "" {
		t.Fatalf("expected a generated config id")
	}

	stored, err := configRepo.ListBySeason(context.Background(), "2025")
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected 1 stored config, got %d err=%v", len(stored), err)
	}

	// Pleno match outside the selection is rejected.
	_, err = service.SaveConfig(context.Background(), SaveConfigInput{
		Name:         "Bad pleno",
		Season:       "2025",
		Round:        4,
		MatchIDs:     matchIDs,
		PlenoMatchID: "m99",
	})
	if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected rejection for external pleno match, got %v", err)
	}

	// Duplicate match IDs are rejected.
	dup := append([]string(nil), matchIDs...)
	dup[1] = dup[0]
	_, err = service.SaveConfig(context.Background(), SaveConfigInput{
		Name:         "Duplicates",
		Season:       "2025",
		Round:        4,
		MatchIDs:     dup,
		PlenoMatchID: "m15",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate matches, got %v", err)
	}
}

func TestQuinielaService_BuildSlipFromConfig(t *testing.T) {
	t.Parallel()

	teamRepo := memory.NewTeamRepository(roundTeams())
	matchRepo := memory.NewMatchRepository(roundMatches(false))
	predictor := &stubPredictor{outcome: predict.Outcome{
		HomeProb:   0.7,
		DrawProb:   0.2,
		AwayProb:   0.1,
		Result:     match.ResultHome,
		Confidence: 0.7,
		Tier:       prediction.TierBasic,
	}}
	predictions := NewPredictionService(
		matchRepo,
		teamRepo,
		memory.NewTeamStatsRepository(nil),
		memory.NewAdvancedStatsRepository(nil),
		memory.NewPredictionRepository(),
		predictor,
		&seqIDGenerator{},
		nil,
	)
	service, _, _ := newTestQuinielaService(matchRepo, predictions)

	matchIDs := make([]string, 0, quiniela.SlipSize)
	for i := 1; i <= quiniela.SlipSize; i++ {
		matchIDs = append(matchIDs, fmt.Sprintf("m%02d", i))
	}
	config, err := service.SaveConfig(context.Background(), SaveConfigInput{
		Name:         "Jornada 4",
		Season:       "2025",
		Round:        4,
		MatchIDs:     matchIDs,
		PlenoMatchID: "m03",
	})
	if err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}

	draft, err := service.BuildSlipFromConfig(context.Background(), config.ID)
	if err != nil {
		t.Fatalf("BuildSlipFromConfig error: %v", err)
	}
	if len(draft.Predictions) != quiniela.SlipSize {
		t.Fatalf("expected 15 rows, got %d", len(draft.Predictions))
	}
	if draft.Predictions[quiniela.SlipSize-1].MatchID != "m03" {
		t.Fatalf("expected pleno match last, got %s", draft.Predictions[quiniela.SlipSize-1].MatchID)
	}
	if !draft.Validation.Valid {
		t.Fatalf("expected a valid draft, got %+v", draft.Validation)
	}
	// Confident singles everywhere forces one widened double to stay legal.
	if draft.Validation.TotalCombinations != 2 {
		t.Fatalf("expected 2 combinations, got %d", draft.Validation.TotalCombinations)
	}
	if draft.Pleno.HomeGoals == "" || draft.Pleno.AwayGoals == "" {
		t.Fatalf("expected a pleno suggestion, got %+v", draft.Pleno)
	}
}
