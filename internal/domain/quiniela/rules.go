package quiniela

import (
	"errors"
	"fmt"
	"sort"
)

// Official La Quiniela pricing, euro cents. Limits per BOE-A-1998-17040.
const (
	SlipSize = 15

	BetPriceCents    int64 = 75
	Elige8PriceCents int64 = 50
	MinTotalCents    int64 = 150

	MinCombinations = 2
	MaxCombinations = 31104

	highRiskCombinations  = 1000
	reductionHintMinCombo = 100
)

var (
	ErrInvalidSlipSize     = errors.New("slip must have exactly 15 matches")
	ErrInvalidNumbering    = errors.New("match numbers must cover 1..15 without repeats")
	ErrInvalidOption       = errors.New("invalid prediction option")
	ErrDuplicateOption     = errors.New("repeated option in prediction")
	ErrInvalidMultiplicity = errors.New("multiplicity must be 1, 2 or 3")
	ErrTooFewCombinations  = errors.New("below minimum combinations")
	ErrTooManyCombinations = errors.New("above maximum combinations")
	ErrBelowMinimumStake   = errors.New("below minimum stake")
	ErrInvalidElige8       = errors.New("invalid elige 8 selection")
	ErrInvalidPleno        = errors.New("invalid pleno al 15 pick")
)

// ReducedSystem is one of the officially authorised reduced systems: full
// coverage combinations versus the reduced number of plays actually staked.
type ReducedSystem struct {
	Name         string
	Triples      int
	Doubles      int
	Combinations int
	Plays        int
	PriceCents   int64
}

// OfficialReducedSystems lists the six authorised systems in official order.
var OfficialReducedSystems = []ReducedSystem{
	{Name: "primera", Triples: 4, Doubles: 0, Combinations: 81, Plays: 9, PriceCents: 675},
	{Name: "segunda", Triples: 0, Doubles: 7, Combinations: 128, Plays: 16, PriceCents: 1200},
	{Name: "tercera", Triples: 3, Doubles: 3, Combinations: 216, Plays: 24, PriceCents: 1800},
	{Name: "cuarta", Triples: 2, Doubles: 6, Combinations: 576, Plays: 64, PriceCents: 4800},
	{Name: "quinta", Triples: 8, Doubles: 0, Combinations: 6561, Plays: 81, PriceCents: 6075},
	{Name: "sexta", Triples: 0, Doubles: 11, Combinations: 2048, Plays: 132, PriceCents: 9900},
}

// Combinations multiplies row multiplicities into the total bet count.
func Combinations(predictions []Prediction) int {
	total := 1
	for _, p := range predictions {
		total *= p.Multiplicity()
	}
	return total
}

// Validate checks a slip against official rules and prices it. The returned
// error joins every violation found so callers can report all of them; the
// result carries pricing and non-fatal warnings.
func Validate(predictions []Prediction, elige8 *Elige8) (ValidationResult, error) {
	var violations []error

	if len(predictions) != SlipSize {
		violations = append(violations, fmt.Errorf("%w: got %d", ErrInvalidSlipSize, len(predictions)))
	}

	if err := validateNumbering(predictions); err != nil {
		violations = append(violations, err)
	}

	totalCombinations := 1
	for _, pred := range predictions {
		if err := validateOptions(pred); err != nil {
			violations = append(violations, err)
			continue
		}
		totalCombinations *= pred.Multiplicity()
	}

	if totalCombinations < MinCombinations {
		violations = append(violations, fmt.Errorf("%w: minimum %d, calculated %d", ErrTooFewCombinations, MinCombinations, totalCombinations))
	}
	if totalCombinations > MaxCombinations {
		violations = append(violations, fmt.Errorf("%w: maximum %d, calculated %d", ErrTooManyCombinations, MaxCombinations, totalCombinations))
	}

	betType := DetermineBetType(predictions)

	baseCost := int64(totalCombinations) * BetPriceCents
	var elige8Cost int64
	if elige8 != nil && elige8.Enabled {
		elige8Cost = Elige8PriceCents
		if err := ValidateElige8(*elige8, predictions); err != nil {
			violations = append(violations, err)
		}
	}
	totalCost := baseCost + elige8Cost

	if totalCost < MinTotalCents {
		violations = append(violations, fmt.Errorf("%w: minimum %d cents, calculated %d", ErrBelowMinimumStake, MinTotalCents, totalCost))
	}

	var warnings []string
	if totalCombinations > highRiskCombinations {
		warnings = append(warnings, fmt.Sprintf("high risk bet: %d combinations (%.2f EUR)", totalCombinations, float64(baseCost)/100))
	}
	if betType == BetTypeMultiple && totalCombinations > reductionHintMinCombo {
		warnings = append(warnings, "consider an official reduced system to balance coverage and cost")
	}

	result := ValidationResult{
		Valid:             len(violations) == 0,
		TotalCombinations: totalCombinations,
		BaseCost:          baseCost,
		Elige8Cost:        elige8Cost,
		TotalCost:         totalCost,
		BetType:           betType,
		Warnings:          warnings,
	}

	return result, errors.Join(violations...)
}

func validateNumbering(predictions []Prediction) error {
	seen := make(map[int]struct{}, len(predictions))
	for _, pred := range predictions {
		if pred.MatchNumber < 1 || pred.MatchNumber > SlipSize {
			return fmt.Errorf("%w: match number %d out of range", ErrInvalidNumbering, pred.MatchNumber)
		}
		if _, ok := seen[pred.MatchNumber]; ok {
			return fmt.Errorf("%w: match number %d repeated", ErrInvalidNumbering, pred.MatchNumber)
		}
		seen[pred.MatchNumber] = struct{}{}
	}
	if len(predictions) == SlipSize && len(seen) != SlipSize {
		return fmt.Errorf("%w: covered %d of %d", ErrInvalidNumbering, len(seen), SlipSize)
	}

	return nil
}

func validateOptions(pred Prediction) error {
	mult := pred.Multiplicity()
	if mult < 1 || mult > 3 {
		return fmt.Errorf("%w: match %d has %d options", ErrInvalidMultiplicity, pred.MatchNumber, mult)
	}

	optionSet := make(map[Option]struct{}, mult)
	for _, opt := range pred.Options {
		if _, ok := AllOptions[opt]; !ok {
			return fmt.Errorf("%w: match %d option %q", ErrInvalidOption, pred.MatchNumber, opt)
		}
		if _, exists := optionSet[opt]; exists {
			return fmt.Errorf("%w: match %d option %q", ErrDuplicateOption, pred.MatchNumber, opt)
		}
		optionSet[opt] = struct{}{}
	}

	return nil
}

// DetermineBetType classifies the slip from its multiplicity profile. A
// double/triple split matching an official reduced system is reported as
// that system.
func DetermineBetType(predictions []Prediction) BetType {
	doubles := 0
	triples := 0
	allSimple := true
	for _, pred := range predictions {
		switch pred.Multiplicity() {
		case 2:
			doubles++
			allSimple = false
		case 3:
			triples++
			allSimple = false
		case 1:
		default:
			allSimple = false
		}
	}

	if allSimple {
		return BetTypeSimple
	}
	if doubles == len(predictions) {
		return BetType("reduced_doubles")
	}
	if triples == len(predictions) {
		return BetType("reduced_triples")
	}

	for _, sys := range OfficialReducedSystems {
		if sys.Doubles == doubles && sys.Triples == triples {
			return ReducedBetType(sys.Name)
		}
	}

	return BetTypeMultiple
}

// ValidateElige8 requires exactly 8 distinct matches, all present in the
// slip, each with a valid single prediction.
func ValidateElige8(e Elige8, predictions []Prediction) error {
	if len(e.SelectedMatches) != 8 {
		return fmt.Errorf("%w: requires exactly 8 matches, selected %d", ErrInvalidElige8, len(e.SelectedMatches))
	}

	slipNumbers := make(map[int]struct{}, len(predictions))
	for _, pred := range predictions {
		slipNumbers[pred.MatchNumber] = struct{}{}
	}

	selected := make(map[int]struct{}, len(e.SelectedMatches))
	for _, num := range e.SelectedMatches {
		if _, exists := selected[num]; exists {
			return fmt.Errorf("%w: match %d repeated", ErrInvalidElige8, num)
		}
		selected[num] = struct{}{}
		if _, ok := slipNumbers[num]; !ok {
			return fmt.Errorf("%w: match %d is not on the slip", ErrInvalidElige8, num)
		}
	}

	if len(e.Predictions) != 8 {
		return fmt.Errorf("%w: requires 8 predictions, got %d", ErrInvalidElige8, len(e.Predictions))
	}
	for i, opt := range e.Predictions {
		if _, ok := AllOptions[opt]; !ok {
			return fmt.Errorf("%w: prediction %d option %q", ErrInvalidElige8, i+1, opt)
		}
	}

	return nil
}

// ValidatePleno checks both goal bands of a Pleno al 15 pick.
func ValidatePleno(p PlenoAl15) error {
	if _, ok := AllGoalsPicks[p.HomeGoals]; !ok {
		return fmt.Errorf("%w: home goals %q", ErrInvalidPleno, p.HomeGoals)
	}
	if _, ok := AllGoalsPicks[p.AwayGoals]; !ok {
		return fmt.Errorf("%w: away goals %q", ErrInvalidPleno, p.AwayGoals)
	}

	return nil
}

// Score counts aciertos against official results and resolves the prize
// category. results maps match number to the official 1X2 outcome; plenoOK
// reports whether the Pleno al 15 goal bands were both hit.
func Score(predictions []Prediction, results map[int]Option, plenoOK bool) ScoreResult {
	aciertos := 0
	for _, pred := range predictions {
		outcome, ok := results[pred.MatchNumber]
		if !ok {
			continue
		}
		for _, opt := range pred.Options {
			if opt == outcome {
				aciertos++
				break
			}
		}
	}

	return ScoreResult{
		Aciertos:      aciertos,
		PlenoAcertado: plenoOK,
		Category:      prizeCategory(aciertos, plenoOK),
	}
}

func prizeCategory(aciertos int, plenoOK bool) PrizeCategory {
	switch {
	case aciertos >= 14 && plenoOK:
		return PrizeEspecial
	case aciertos >= 14:
		return PrizePrimera
	case aciertos == 13:
		return PrizeSegunda
	case aciertos == 12:
		return PrizeTercera
	case aciertos == 11:
		return PrizeCuarta
	case aciertos == 10:
		return PrizeQuinta
	default:
		return PrizeNone
	}
}

// ReductionSuggestion pairs a reduced system with its coverage per euro.
type ReductionSuggestion struct {
	System     ReducedSystem
	Efficiency float64
}

// SuggestReductions returns the official systems affordable within the
// budget, most combinations per euro first.
func SuggestReductions(budgetCents int64) []ReductionSuggestion {
	var suggestions []ReductionSuggestion
	for _, sys := range OfficialReducedSystems {
		fullCost := int64(sys.Combinations) * BetPriceCents
		if fullCost > budgetCents {
			continue
		}
		suggestions = append(suggestions, ReductionSuggestion{
			System:     sys,
			Efficiency: float64(sys.Combinations) / (float64(fullCost) / 100),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Efficiency > suggestions[j].Efficiency
	})

	return suggestions
}
