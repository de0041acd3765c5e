package teamstats

import "time"

// SplitStats holds the home-only or away-only slice of a season record.
type SplitStats struct {
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

func (s SplitStats) WinPct() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Played)
}

// SeasonStats is the aggregated record of one team in one season.
// Form is most-recent-last, e.g. "WWDLW".
type SeasonStats struct {
	TeamID       string
	Season       string
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	Home         SplitStats
	Away         SplitStats
	Position     int
	Points       int
	Form         string
	UpdatedAt    time.Time
}

func (s SeasonStats) WinPct() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Played)
}

func (s SeasonStats) DrawPct() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.Played)
}

func (s SeasonStats) PointsPerGame() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Points) / float64(s.Played)
}

func (s SeasonStats) GoalsForPerGame() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.GoalsFor) / float64(s.Played)
}

func (s SeasonStats) GoalsAgainstPerGame() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.GoalsAgainst) / float64(s.Played)
}

func (s SeasonStats) GoalDiffPerGame() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.GoalsFor-s.GoalsAgainst) / float64(s.Played)
}

// FormPoints sums league points over the last n form characters.
func (s SeasonStats) FormPoints(n int) int {
	form := s.Form
	if len(form) > n {
		form = form[len(form)-n:]
	}

	points := 0
	for _, c := range form {
		switch c {
		case 'W':
			points += 3
		case 'D':
			points++
		}
	}
	return points
}
