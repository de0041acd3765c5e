package quiniela

import (
	"errors"
	"testing"
)

func slipWithDoubles(doubles int) []Prediction {
	predictions := make([]Prediction, 0, SlipSize)
	for i := 1; i <= SlipSize; i++ {
		options := []Option{OptionHome}
		if i <= doubles {
			options = []Option{OptionHome, OptionDraw}
		}
		predictions = append(predictions, Prediction{
			MatchNumber: i,
			MatchID:     "m" + string(rune('a'+i-1)),
			HomeTeam:    "Home",
			AwayTeam:    "Away",
			Options:     options,
		})
	}
	return predictions
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func([]Prediction) []Prediction
		elige8    *Elige8
		targetErr error
	}{
		{
			name: "valid two doubles",
			mutate: func(preds []Prediction) []Prediction {
				return preds
			},
			targetErr: nil,
		},
		{
			name: "invalid size",
			mutate: func(preds []Prediction) []Prediction {
				return preds[:14]
			},
			targetErr: ErrInvalidSlipSize,
		},
		{
			name: "repeated match number",
			mutate: func(preds []Prediction) []Prediction {
				preds[3].MatchNumber = 3
				return preds
			},
			targetErr: ErrInvalidNumbering,
		},
		{
			name: "match number out of range",
			mutate: func(preds []Prediction) []Prediction {
				preds[14].MatchNumber = 16
				return preds
			},
			targetErr: ErrInvalidNumbering,
		},
		{
			name: "unknown option",
			mutate: func(preds []Prediction) []Prediction {
				preds[4].Options = []Option{"3"}
				return preds
			},
			targetErr: ErrInvalidOption,
		},
		{
			name: "repeated option",
			mutate: func(preds []Prediction) []Prediction {
				preds[4].Options = []Option{OptionHome, OptionHome}
				return preds
			},
			targetErr: ErrDuplicateOption,
		},
		{
			name: "multiplicity above triple",
			mutate: func(preds []Prediction) []Prediction {
				preds[4].Options = []Option{OptionHome, OptionDraw, OptionAway, OptionHome}
				return preds
			},
			targetErr: ErrInvalidMultiplicity,
		},
		{
			name: "single column below minimum",
			mutate: func(preds []Prediction) []Prediction {
				for i := range preds {
					preds[i].Options = []Option{OptionHome}
				}
				return preds
			},
			targetErr: ErrTooFewCombinations,
		},
		{
			name: "elige 8 off slip",
			mutate: func(preds []Prediction) []Prediction {
				return preds
			},
			elige8: &Elige8{
				Enabled:         true,
				SelectedMatches: []int{1, 2, 3, 4, 5, 6, 7, 16},
				Predictions:     []Option{"1", "X", "2", "1", "X", "2", "1", "X"},
			},
			targetErr: ErrInvalidElige8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds := tt.mutate(slipWithDoubles(2))

			result, err := Validate(preds, tt.elige8)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if !result.Valid {
					t.Fatalf("expected valid result")
				}
				return
			}

			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
			if result.Valid {
				t.Fatalf("expected invalid result")
			}
		})
	}
}

func TestValidatePricing(t *testing.T) {
	result, err := Validate(slipWithDoubles(2), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.TotalCombinations != 4 {
		t.Fatalf("expected 4 combinations, got %d", result.TotalCombinations)
	}
	if result.BaseCost != 300 {
		t.Fatalf("expected base cost 300, got %d", result.BaseCost)
	}
	if result.TotalCost != 300 {
		t.Fatalf("expected total cost 300, got %d", result.TotalCost)
	}
	if result.BetType != BetTypeMultiple {
		t.Fatalf("expected multiple bet type, got %s", result.BetType)
	}
}

func TestValidateElige8Pricing(t *testing.T) {
	elige8 := &Elige8{
		Enabled:         true,
		SelectedMatches: []int{1, 2, 3, 4, 5, 6, 7, 8},
		Predictions:     []Option{"1", "X", "2", "1", "X", "2", "1", "X"},
	}

	result, err := Validate(slipWithDoubles(2), elige8)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Elige8Cost != Elige8PriceCents {
		t.Fatalf("expected elige 8 cost %d, got %d", Elige8PriceCents, result.Elige8Cost)
	}
	if result.TotalCost != 350 {
		t.Fatalf("expected total cost 350, got %d", result.TotalCost)
	}
}

func TestDetermineBetType(t *testing.T) {
	tests := []struct {
		name    string
		doubles int
		triples int
		want    BetType
	}{
		{name: "seven doubles is official", doubles: 7, triples: 0, want: BetType("reduced_segunda")},
		{name: "four triples is official", doubles: 0, triples: 4, want: BetType("reduced_primera")},
		{name: "three and three is official", doubles: 3, triples: 3, want: BetType("reduced_tercera")},
		{name: "eleven doubles is official", doubles: 11, triples: 0, want: BetType("reduced_sexta")},
		{name: "free form is multiple", doubles: 1, triples: 1, want: BetTypeMultiple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds := slipWithDoubles(0)
			for i := 0; i < tt.doubles; i++ {
				preds[i].Options = []Option{OptionHome, OptionDraw}
			}
			for i := tt.doubles; i < tt.doubles+tt.triples; i++ {
				preds[i].Options = []Option{OptionHome, OptionDraw, OptionAway}
			}

			if got := DetermineBetType(preds); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestScore(t *testing.T) {
	preds := slipWithDoubles(2)
	results := make(map[int]Option, SlipSize)
	for i := 1; i <= SlipSize; i++ {
		results[i] = OptionHome
	}

	score := Score(preds, results, true)
	if score.Aciertos != 15 {
		t.Fatalf("expected 15 aciertos, got %d", score.Aciertos)
	}
	if score.Category != PrizeEspecial {
		t.Fatalf("expected especial, got %s", score.Category)
	}

	results[1] = OptionAway
	results[2] = OptionAway
	results[3] = OptionAway
	score = Score(preds, results, false)
	if score.Aciertos != 12 {
		t.Fatalf("expected 12 aciertos, got %d", score.Aciertos)
	}
	if score.Category != PrizeTercera {
		t.Fatalf("expected tercera, got %s", score.Category)
	}
}

func TestPrizeCategories(t *testing.T) {
	tests := []struct {
		aciertos int
		pleno    bool
		want     PrizeCategory
	}{
		{14, true, PrizeEspecial},
		{14, false, PrizePrimera},
		{13, false, PrizeSegunda},
		{12, false, PrizeTercera},
		{11, false, PrizeCuarta},
		{10, false, PrizeQuinta},
		{9, true, PrizeNone},
	}

	for _, tt := range tests {
		if got := prizeCategory(tt.aciertos, tt.pleno); got != tt.want {
			t.Fatalf("aciertos=%d pleno=%v: expected %q, got %q", tt.aciertos, tt.pleno, got, tt.want)
		}
	}
}

func TestGoalsPickFor(t *testing.T) {
	tests := []struct {
		goals int
		want  GoalsPick
	}{
		{0, GoalsZero},
		{1, GoalsOne},
		{2, GoalsTwo},
		{3, GoalsThree},
		{6, GoalsThree},
	}

	for _, tt := range tests {
		if got := GoalsPickFor(tt.goals); got != tt.want {
			t.Fatalf("goals=%d: expected %s, got %s", tt.goals, tt.want, got)
		}
	}
}

func TestSuggestReductions(t *testing.T) {
	suggestions := SuggestReductions(20000)
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 affordable systems, got %d", len(suggestions))
	}
	for _, s := range suggestions {
		if int64(s.System.Combinations)*BetPriceCents > 20000 {
			t.Fatalf("system %s exceeds budget", s.System.Name)
		}
	}
	if len(suggestions) > 1 && suggestions[0].Efficiency < suggestions[1].Efficiency {
		t.Fatalf("expected suggestions sorted by efficiency")
	}
}
