package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Result is the official 1X2 outcome of a finished match.
type Result string

const (
	ResultHome Result = "1"
	ResultDraw Result = "X"
	ResultAway Result = "2"
	ResultNone Result = ""
)

// Match represents one fixture between two teams.
type Match struct {
	ID         string
	ExternalID int64
	LeagueID   string
	Season     string
	Round      int
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
	Status     string
	HomeGoals  *int
	AwayGoals  *int
	Result     Result
	HomeOdds   *float64
	DrawOdds   *float64
	AwayOdds   *float64
	FinishedAt *time.Time
}

// ResolveResult derives the 1X2 outcome. Only finished matches with both
// goal counts set resolve to a result.
func (m Match) ResolveResult() Result {
	if !IsFinishedStatus(m.Status) || m.HomeGoals == nil || m.AwayGoals == nil {
		return ResultNone
	}
	switch {
	case *m.HomeGoals > *m.AwayGoals:
		return ResultHome
	case *m.HomeGoals < *m.AwayGoals:
		return ResultAway
	default:
		return ResultDraw
	}
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLive, "IN_PLAY", "HT", "1H", "2H", "ET":
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED":
		return true
	default:
		return false
	}
}
