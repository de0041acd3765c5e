package predict

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
)

const (
	basicHomeAdvantage = 0.15
	basicJitter        = 0.05
)

// BasicPredictor forecasts from club attributes alone: age, stadium size
// and league tier. It needs no historical data and is always ready.
type BasicPredictor struct {
	now func() time.Time
}

func NewBasicPredictor() *BasicPredictor {
	return &BasicPredictor{now: time.Now}
}

func (p *BasicPredictor) Ready(context.Context) bool {
	return true
}

func (p *BasicPredictor) Predict(_ context.Context, m Matchup) (Outcome, error) {
	homeScore := p.experienceScore(m.HomeTeam)*0.3 +
		stadiumFactor(m.HomeTeam)*0.2 +
		leagueFactor(m.HomeTeam)*0.3 +
		basicHomeAdvantage*0.2

	awayScore := p.experienceScore(m.AwayTeam)*0.3 +
		stadiumFactor(m.AwayTeam)*0.2 +
		leagueFactor(m.AwayTeam)*0.3

	homeRaw, awayRaw := 0.5, 0.5
	if total := homeScore + awayScore; total > 0 {
		homeRaw = homeScore / total
		awayRaw = awayScore / total
	}

	// Draws get likelier the closer the sides are.
	balance := homeRaw - awayRaw
	if balance < 0 {
		balance = -balance
	}
	drawProb := 0.25 + 0.15*(1-balance)

	remaining := 1.0 - drawProb
	homeProb := homeRaw * remaining
	awayProb := awayRaw * remaining

	// Deterministic jitter keyed on the match so repeated slips do not all
	// collapse onto the same obvious picks.
	jitter := jitterFor(m.MatchID)
	homeProb += jitter
	awayProb -= jitter
	drawProb += jitter * 0.5

	total := homeProb + drawProb + awayProb
	homeProb /= total
	drawProb /= total
	awayProb /= total

	result, confidence := pickResult(homeProb, drawProb, awayProb)

	return Outcome{
		HomeProb:      homeProb,
		DrawProb:      drawProb,
		AwayProb:      awayProb,
		Result:        result,
		Confidence:    confidence,
		Explanation:   p.explain(m, result, homeProb, drawProb, awayProb),
		Tier:          prediction.TierBasic,
		ModelVersion:  "heuristic",
		ExpectedGoals: EstimateExpectedGoals(m),
	}, nil
}

func (p *BasicPredictor) experienceScore(t team.Team) float64 {
	if t.FoundedYear == 0 {
		return 0.5
	}

	years := p.now().Year() - t.FoundedYear
	switch {
	case years > 100:
		return 1.0
	case years > 50:
		return 0.8
	case years > 25:
		return 0.6
	default:
		return 0.4
	}
}

func stadiumFactor(t team.Team) float64 {
	if t.StadiumCapacity == 0 {
		return 0.5
	}

	switch {
	case t.StadiumCapacity > 80000:
		return 1.0
	case t.StadiumCapacity > 50000:
		return 0.8
	case t.StadiumCapacity > 30000:
		return 0.6
	case t.StadiumCapacity > 15000:
		return 0.4
	default:
		return 0.2
	}
}

func leagueFactor(t team.Team) float64 {
	switch t.LeagueID {
	case team.LeagueLaLiga:
		return 1.0
	case team.LeagueSegunda:
		return 0.7
	default:
		return 0.5
	}
}

func jitterFor(matchID string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(matchID))
	// Map the hash onto [-basicJitter, basicJitter].
	unit := float64(h.Sum32()%10000)/10000 - 0.5
	return unit * 2 * basicJitter
}

func (p *BasicPredictor) explain(m Matchup, result match.Result, homeProb, drawProb, awayProb float64) string {
	var b strings.Builder

	switch result {
	case match.ResultHome:
		b.WriteString("Home win")
	case match.ResultAway:
		b.WriteString("Away win")
	default:
		b.WriteString("Draw")
	}
	fmt.Fprintf(&b, " (%.0f%% - %.0f%% - %.0f%%).", homeProb*100, drawProb*100, awayProb*100)

	var factors []string
	if m.HomeTeam.LeagueID == team.LeagueLaLiga && m.AwayTeam.LeagueID == team.LeagueSegunda {
		factors = append(factors, displayName(m.HomeTeam)+" plays in the top flight")
	} else if m.AwayTeam.LeagueID == team.LeagueLaLiga && m.HomeTeam.LeagueID == team.LeagueSegunda {
		factors = append(factors, displayName(m.AwayTeam)+" plays in the top flight")
	}

	homeYears := p.clubYears(m.HomeTeam)
	awayYears := p.clubYears(m.AwayTeam)
	if diff := homeYears - awayYears; diff > 25 || diff < -25 {
		older := m.HomeTeam
		if awayYears > homeYears {
			older = m.AwayTeam
		}
		factors = append(factors, displayName(older)+" has the longer history")
	}

	if m.HomeTeam.StadiumCapacity > 40000 {
		factors = append(factors, fmt.Sprintf("%s stadium holds %d spectators", displayName(m.HomeTeam), m.HomeTeam.StadiumCapacity))
	}
	factors = append(factors, "home ground advantage")

	if len(factors) > 3 {
		factors = factors[:3]
	}
	b.WriteString(" Key factors: ")
	b.WriteString(strings.Join(factors, "; "))
	b.WriteString(". Based on club heuristics (history, stadium, league).")

	return b.String()
}

func (p *BasicPredictor) clubYears(t team.Team) int {
	founded := t.FoundedYear
	if founded == 0 {
		founded = 1900
	}
	return p.now().Year() - founded
}

func displayName(t team.Team) string {
	if t.Short != "" {
		return t.Short
	}
	return t.Name
}
