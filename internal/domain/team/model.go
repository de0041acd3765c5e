package team

import "fmt"

// Spanish league identifiers as used by the data provider.
const (
	LeagueLaLiga  = "140"
	LeagueSegunda = "141"
)

// Team is a real football club inside a league.
type Team struct {
	ID              string
	ExternalID      int64
	LeagueID        string
	Name            string
	Short           string
	LogoURL         string
	StadiumCapacity int
	FoundedYear     int
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
