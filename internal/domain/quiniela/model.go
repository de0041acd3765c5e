package quiniela

import (
	"fmt"
	"time"
)

// Option is a 1X2 pick for one match.
type Option string

const (
	OptionHome Option = "1"
	OptionDraw Option = "X"
	OptionAway Option = "2"
)

var AllOptions = map[Option]struct{}{
	OptionHome: {},
	OptionDraw: {},
	OptionAway: {},
}

// GoalsPick is a Pleno al 15 goals prediction for one side: 0, 1, 2 or M (3+).
type GoalsPick string

const (
	GoalsZero  GoalsPick = "0"
	GoalsOne   GoalsPick = "1"
	GoalsTwo   GoalsPick = "2"
	GoalsThree GoalsPick = "M"
)

var AllGoalsPicks = map[GoalsPick]struct{}{
	GoalsZero:  {},
	GoalsOne:   {},
	GoalsTwo:   {},
	GoalsThree: {},
}

// GoalsPickFor maps an actual goal count onto the official band.
func GoalsPickFor(goals int) GoalsPick {
	switch {
	case goals <= 0:
		return GoalsZero
	case goals == 1:
		return GoalsOne
	case goals == 2:
		return GoalsTwo
	default:
		return GoalsThree
	}
}

// Prediction is one row of a betting slip. Options carries the covered
// outcomes: one for a simple pick, two for a double, three for a triple.
type Prediction struct {
	MatchNumber int
	MatchID     string
	HomeTeam    string
	AwayTeam    string
	Options     []Option
}

// Multiplicity is the number of covered outcomes for the row.
func (p Prediction) Multiplicity() int {
	return len(p.Options)
}

// Elige8 is the optional side game played over 8 of the slip's matches.
type Elige8 struct {
	Enabled         bool
	SelectedMatches []int
	Predictions     []Option
}

// PlenoAl15 is the goals pick for the 15th match, one band per side.
type PlenoAl15 struct {
	HomeGoals GoalsPick
	AwayGoals GoalsPick
}

// BetType classifies a validated slip.
type BetType string

const (
	BetTypeSimple   BetType = "simple"
	BetTypeMultiple BetType = "multiple"
)

// ReducedBetType names the bet type for an official reduced system.
func ReducedBetType(systemName string) BetType {
	return BetType("reduced_" + systemName)
}

// ValidationResult is the outcome of validating and pricing a slip.
// Costs are euro cents.
type ValidationResult struct {
	Valid             bool
	TotalCombinations int
	BaseCost          int64
	Elige8Cost        int64
	TotalCost         int64
	BetType           BetType
	Warnings          []string
}

// PrizeCategory is an official prize tier.
type PrizeCategory string

const (
	PrizeEspecial PrizeCategory = "especial"
	PrizePrimera  PrizeCategory = "primera"
	PrizeSegunda  PrizeCategory = "segunda"
	PrizeTercera  PrizeCategory = "tercera"
	PrizeCuarta   PrizeCategory = "cuarta"
	PrizeQuinta   PrizeCategory = "quinta"
	PrizeNone     PrizeCategory = ""
)

// ScoreResult summarises a slip checked against official results.
type ScoreResult struct {
	Aciertos      int
	PlenoAcertado bool
	Category      PrizeCategory
}

// UserSlip is a persisted betting slip with its stake and settlement state.
type UserSlip struct {
	ID           string
	Season       string
	Round        int
	Predictions  []Prediction
	Pleno        PlenoAl15
	Elige8       Elige8
	BetType      BetType
	Combinations int
	CostCents    int64
	WinningCents int64
	Aciertos     int
	Finished     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s UserSlip) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("slip id is required")
	}
	if s.Season == "" {
		return fmt.Errorf("season is required")
	}
	if s.Round <= 0 {
		return fmt.Errorf("round must be greater than zero")
	}
	if len(s.Predictions) == 0 {
		return fmt.Errorf("slip predictions are required")
	}

	return nil
}

// CustomConfig is a saved selection of 15 matches for one round, reusable
// as the starting point of a slip.
type CustomConfig struct {
	ID           string
	Name         string
	Season       string
	Round        int
	MatchIDs     []string
	PlenoMatchID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c CustomConfig) ValidateBasic() error {
	if c.ID == "" {
		return fmt.Errorf("config id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("config name is required")
	}
	if c.Season == "" {
		return fmt.Errorf("season is required")
	}
	if len(c.MatchIDs) != SlipSize {
		return fmt.Errorf("config must reference exactly %d matches, got %d", SlipSize, len(c.MatchIDs))
	}
	if c.PlenoMatchID == "" {
		return fmt.Errorf("pleno al 15 match id is required")
	}

	return nil
}
