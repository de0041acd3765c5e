package advancedstats

import "time"

// TeamStats holds externally sourced advanced metrics for one team season.
type TeamStats struct {
	TeamID        string
	Season        string
	XG            float64
	XA            float64
	XT            float64
	XGAgainst     float64
	SetPieceXG    float64
	PossessionPct float64
	Source        string
	FetchedAt     time.Time
}

// XGDiff is expected goals created minus conceded.
func (s TeamStats) XGDiff() float64 {
	return s.XG - s.XGAgainst
}
