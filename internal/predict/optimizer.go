package predict

import (
	"fmt"
	"math"
	"sort"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
)

// Candidate pairs a matchup with its forecast while composing a round.
type Candidate struct {
	Matchup Matchup
	Outcome Outcome
}

// Average historical prize per aciertos tier, euro cents.
var estimatedPrizeCents = map[int]int64{
	10: 1_500,
	11: 2_500,
	12: 8_000,
	13: 50_000,
	14: 1_500_000,
}

const (
	lowConfidence     = 0.6
	lateSeasonRound   = 35
	maxFlippedMatches = 2
)

// SelectMatches ranks candidates for slip inclusion and returns the best n.
// The score favours well-covered data, meaningful fixtures, moderate
// predictability and balanced betting value.
func SelectMatches(candidates []Candidate, n int) []Candidate {
	scored := append([]Candidate(nil), candidates...)
	sort.SliceStable(scored, func(i, j int) bool {
		return matchScore(scored[i].Matchup) > matchScore(scored[j].Matchup)
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

func matchScore(m Matchup) float64 {
	return dataQuality(m)*0.25 +
		matchImportance(m)*0.20 +
		predictability(m)*0.25 +
		bettingValue(m)*0.30
}

func dataQuality(m Matchup) float64 {
	score := 0.0
	if m.HomeStats != nil && m.AwayStats != nil {
		score += 0.4
	}
	if len(m.HeadToHead) > 0 {
		score += 0.3
	}
	if len(m.HomeForm) > 0 && len(m.AwayForm) > 0 {
		score += 0.3
	}
	return math.Min(score, 1.0)
}

func matchImportance(m Matchup) float64 {
	score := 0.5
	switch m.LeagueID {
	case team.LeagueLaLiga:
		score += 0.3
	case team.LeagueSegunda:
		score += 0.1
	}
	if m.Round >= lateSeasonRound {
		score += 0.2
	}
	return math.Min(score, 1.0)
}

func predictability(m Matchup) float64 {
	score := 0.5
	if m.HomeStats == nil || m.AwayStats == nil {
		return score
	}

	ppgDiff := math.Abs(m.HomeStats.PointsPerGame() - m.AwayStats.PointsPerGame())
	if ppgDiff >= 0.5 && ppgDiff <= 1.5 {
		score += 0.3
	} else if ppgDiff > 2.0 {
		score += 0.1
	}

	avgConsistency := (consistency(m.HomeStats) + consistency(m.AwayStats)) / 2
	score += avgConsistency * 0.2

	return math.Min(score, 1.0)
}

func bettingValue(m Matchup) float64 {
	score := 0.5

	homeOdds, drawOdds, awayOdds := 2.0, 3.0, 2.0
	if m.HomeOdds != nil {
		homeOdds = *m.HomeOdds
	}
	if m.DrawOdds != nil {
		drawOdds = *m.DrawOdds
	}
	if m.AwayOdds != nil {
		awayOdds = *m.AwayOdds
	}

	oddsRange := math.Max(homeOdds, math.Max(drawOdds, awayOdds)) - math.Min(homeOdds, math.Min(drawOdds, awayOdds))
	if oddsRange >= 1.0 && oddsRange <= 2.5 {
		score += 0.3
	} else if oddsRange > 3.0 {
		score -= 0.2
	}

	return math.Max(score, 0.0)
}

// Teams with mid-band win rates give steadier 1X2 signals than streaky
// extremes.
func consistency(stats *teamstats.SeasonStats) float64 {
	if stats == nil || stats.Played < 5 {
		return 0.3
	}

	winRate := stats.WinPct()
	switch {
	case winRate >= 0.3 && winRate <= 0.7:
		return 0.8
	case winRate >= 0.1 && winRate <= 0.9:
		return 0.5
	default:
		return 0.2
	}
}

// SuggestPleno bands each side's expected goals for the Pleno al 15 match.
func SuggestPleno(plenoMatch Matchup) quiniela.PlenoAl15 {
	expectedHome, expectedAway := 1.25, 1.25
	if plenoMatch.HomeStats != nil && plenoMatch.AwayStats != nil {
		expectedHome = (plenoMatch.HomeStats.GoalsForPerGame() + plenoMatch.AwayStats.GoalsAgainstPerGame()) / 2 * 1.1
		expectedAway = (plenoMatch.AwayStats.GoalsForPerGame() + plenoMatch.HomeStats.GoalsAgainstPerGame()) / 2
	}

	return quiniela.PlenoAl15{
		HomeGoals: goalsBand(expectedHome),
		AwayGoals: goalsBand(expectedAway),
	}
}

func goalsBand(expected float64) quiniela.GoalsPick {
	switch {
	case expected < 0.5:
		return quiniela.GoalsZero
	case expected < 1.5:
		return quiniela.GoalsOne
	case expected < 2.5:
		return quiniela.GoalsTwo
	default:
		return quiniela.GoalsThree
	}
}

// ValueReport estimates the worth of staking one combination of picks.
type ValueReport struct {
	ExpectedValueCents int64
	TotalConfidence    float64
	Prob10Plus         float64
	Prob12Plus         float64
	Prob14             float64
	ROIPct             float64
}

// CombinationValue estimates expected winnings for a 14-pick column using
// the prize ladder and a normal approximation of the hit-count
// distribution.
func CombinationValue(outcomes []Outcome, betCents int64) ValueReport {
	totalConfidence := 1.0
	for _, out := range outcomes {
		c := out.Confidence
		if c == 0 {
			c = 1.0 / 3
		}
		totalConfidence *= c
	}

	prob10Plus := minSuccessProbability(outcomes, 10)
	prob12Plus := minSuccessProbability(outcomes, 12)
	prob14 := totalConfidence

	expected := prob10Plus*float64(estimatedPrizeCents[10]) +
		prob12Plus*float64(estimatedPrizeCents[12]) +
		prob14*float64(estimatedPrizeCents[14])
	expectedValue := int64(math.Round(expected)) - betCents

	roi := 0.0
	if betCents > 0 {
		roi = float64(expectedValue) / float64(betCents) * 100
	}

	return ValueReport{
		ExpectedValueCents: expectedValue,
		TotalConfidence:    totalConfidence,
		Prob10Plus:         prob10Plus,
		Prob12Plus:         prob12Plus,
		Prob14:             prob14,
		ROIPct:             roi,
	}
}

// minSuccessProbability approximates P(at least k hits) for independent
// picks via the normal approximation to the binomial, with continuity
// correction.
func minSuccessProbability(outcomes []Outcome, k int) float64 {
	n := len(outcomes)
	if n == 0 {
		return 0
	}

	sum := 0.0
	for _, out := range outcomes {
		c := out.Confidence
		if c == 0 {
			c = 1.0 / 3
		}
		sum += c
	}
	avgProb := sum / float64(n)

	mean := float64(n) * avgProb
	variance := float64(n) * avgProb * (1 - avgProb)
	if variance == 0 {
		if mean >= float64(k) {
			return 1
		}
		return 0
	}

	z := (float64(k) - 0.5 - mean) / math.Sqrt(variance)
	prob := 1 - normalCDF(z)

	return math.Max(0, math.Min(1, prob))
}

func normalCDF(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	return 0.5 * (1 + sign*math.Sqrt(1-math.Exp(-2*x*x/math.Pi)))
}

// Suggestion is one staking option built from a base column.
type Suggestion struct {
	Candidates      []Candidate
	Variation       string
	InvestmentCents int64
}

// SuggestCombinations proposes the base column plus variants that flip the
// least confident picks to their second-best outcome, within budget.
func SuggestCombinations(base []Candidate, budgetCents int64) []Suggestion {
	suggestions := []Suggestion{{
		Candidates:      base,
		Variation:       "principal combination",
		InvestmentCents: budgetCents * 70 / 100,
	}}

	var uncertain []int
	for i, cand := range base {
		if cand.Outcome.Confidence < lowConfidence {
			uncertain = append(uncertain, i)
		}
	}

	if len(uncertain) > 3 || budgetCents < 500 {
		return suggestions
	}

	flipBudget := budgetCents * 30 / 100
	if flipBudget > 300 {
		flipBudget = 300
	}

	for i, idx := range uncertain {
		if i >= maxFlippedMatches {
			break
		}

		alternative := make([]Candidate, len(base))
		copy(alternative, base)

		original := alternative[idx].Outcome.Result
		flippedResult, flippedProb := secondBest(alternative[idx].Outcome)
		out := alternative[idx].Outcome
		out.Result = flippedResult
		out.Confidence = flippedProb
		alternative[idx].Outcome = out

		suggestions = append(suggestions, Suggestion{
			Candidates:      alternative,
			Variation:       fmt.Sprintf("match %d: %s to %s", idx+1, original, flippedResult),
			InvestmentCents: flipBudget,
		})
	}

	return suggestions
}

func secondBest(out Outcome) (match.Result, float64) {
	type option struct {
		result match.Result
		prob   float64
	}
	options := []option{
		{match.ResultHome, out.HomeProb},
		{match.ResultDraw, out.DrawProb},
		{match.ResultAway, out.AwayProb},
	}
	sort.Slice(options, func(i, j int) bool { return options[i].prob > options[j].prob })

	return options[1].result, options[1].prob
}
