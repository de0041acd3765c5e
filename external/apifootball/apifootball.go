package apifootball

// API-Football v3 payload shapes. The provider wraps every endpoint in the
// same envelope; `errors` is a list on success and an object on failure, so
// it is decoded separately per call site.

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type teamsEnvelope struct {
	Results  int        `json:"results"`
	Paging   paging     `json:"paging"`
	Response []teamItem `json:"response"`
}

type teamItem struct {
	Team  teamInfo  `json:"team"`
	Venue venueInfo `json:"venue"`
}

type teamInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country"`
	Founded *int   `json:"founded"` // bisa null for young clubs
	Logo    string `json:"logo"`
}

type venueInfo struct {
	ID       *int64 `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Capacity *int   `json:"capacity"`
}

type fixturesEnvelope struct {
	Results  int           `json:"results"`
	Paging   paging        `json:"paging"`
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture fixtureInfo  `json:"fixture"`
	League  leagueInfo   `json:"league"`
	Teams   fixtureSides `json:"teams"`
	Goals   fixtureGoals `json:"goals"`
}

type fixtureInfo struct {
	ID        int64         `json:"id"`
	Date      string        `json:"date"` // RFC3339 with offset
	Timestamp int64         `json:"timestamp"`
	Status    fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
	Round  string `json:"round"` // e.g. "Regular Season - 12"
}

type fixtureSides struct {
	Home fixtureSide `json:"home"`
	Away fixtureSide `json:"away"`
}

type fixtureSide struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Winner *bool  `json:"winner"`
}

type fixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type oddsEnvelope struct {
	Results  int        `json:"results"`
	Response []oddsItem `json:"response"`
}

type oddsItem struct {
	Fixture    fixtureInfo `json:"fixture"`
	Bookmakers []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Bets []betLine `json:"bets"`
}

type betLine struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Values []betValue `json:"values"`
}

type betValue struct {
	Value string `json:"value"` // "Home", "Draw", "Away"
	Odd   string `json:"odd"`   // decimal odds as string
}

// teams/statistics responds with a single object, not an array.
type teamStatsEnvelope struct {
	Response teamStatsResponse `json:"response"`
}

type teamStatsResponse struct {
	League   leagueInfo     `json:"league"`
	Team     teamInfo       `json:"team"`
	Form     string         `json:"form"`
	Fixtures teamStatsTally `json:"fixtures"`
	Goals    teamStatsGoals `json:"goals"`
}

type teamStatsTally struct {
	Played splitCount `json:"played"`
	Wins   splitCount `json:"wins"`
	Draws  splitCount `json:"draws"`
	Loses  splitCount `json:"loses"`
}

type splitCount struct {
	Home  int `json:"home"`
	Away  int `json:"away"`
	Total int `json:"total"`
}

type teamStatsGoals struct {
	For     teamStatsGoalSide `json:"for"`
	Against teamStatsGoalSide `json:"against"`
}

type teamStatsGoalSide struct {
	Total splitCount `json:"total"`
}

type fixtureStatsEnvelope struct {
	Results  int                `json:"results"`
	Response []fixtureStatsItem `json:"response"`
}

type fixtureStatsItem struct {
	Team       fixtureSide        `json:"team"`
	Statistics []fixtureStatValue `json:"statistics"`
}

type fixtureStatValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"` // null, number, or "55%"
}
