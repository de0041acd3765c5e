package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/usecase"
)

func TestMapFixtureStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"FT":   "FINISHED",
		"AET":  "FINISHED",
		"PEN":  "FINISHED",
		"1H":   "LIVE",
		"HT":   "LIVE",
		"SUSP": "LIVE",
		"PST":  "POSTPONED",
		"CANC": "CANCELLED",
		"ABD":  "CANCELLED",
		"NS":   "SCHEDULED",
		"TBD":  "SCHEDULED",
		"":     "SCHEDULED",
	}
	for short, want := range cases {
		if got := mapFixtureStatus(short); got != want {
			t.Fatalf("status %q: expected %q, got %q", short, want, got)
		}
	}
}

func TestParseRound(t *testing.T) {
	t.Parallel()

	if got := parseRound("Regular Season - 12", 1); got != 12 {
		t.Fatalf("expected round 12, got %d", got)
	}
	if got := parseRound("Relegation Round", 1); got != 1 {
		t.Fatalf("expected fallback round 1, got %d", got)
	}
	if got := parseRound("", 3); got != 3 {
		t.Fatalf("expected fallback round 3, got %d", got)
	}
}

func TestNumericStatValue(t *testing.T) {
	t.Parallel()

	if got := numericStatValue("55%"); got != 55 {
		t.Fatalf("expected 55, got %v", got)
	}
	if got := numericStatValue("1.29"); got != 1.29 {
		t.Fatalf("expected 1.29, got %v", got)
	}
	if got := numericStatValue(float64(7)); got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
	if got := numericStatValue(nil); got != 0 {
		t.Fatalf("expected 0 for nil, got %v", got)
	}
	if got := numericStatValue("n/a"); got != 0 {
		t.Fatalf("expected 0 for non-numeric, got %v", got)
	}
}

func TestApplyMatchWinnerValues_KeepsFirstPrice(t *testing.T) {
	t.Parallel()

	odds := usecase.ExternalOdds{FixtureExternalID: 1}
	applyMatchWinnerValues(&odds, []betValue{
		{Value: "Home", Odd: "1.85"},
		{Value: "Draw", Odd: "3.60"},
		{Value: "Away", Odd: "4.20"},
		{Value: "Home", Odd: "1.95"},
		{Value: "Away", Odd: "bad"},
	})
	if odds.Home != 1.85 {
		t.Fatalf("expected first home price kept, got %v", odds.Home)
	}
	if odds.Draw != 3.60 {
		t.Fatalf("unexpected draw price: %v", odds.Draw)
	}
	if odds.Away != 4.20 {
		t.Fatalf("unexpected away price: %v", odds.Away)
	}
}

func TestMapFixtureItem(t *testing.T) {
	t.Parallel()

	home := 2
	away := 1
	item := fixtureItem{
		Fixture: fixtureInfo{
			ID:     871234,
			Date:   "2026-03-08T20:00:00+01:00",
			Status: fixtureStatus{Short: "FT"},
		},
		League: leagueInfo{ID: 140, Season: 2025, Round: "Regular Season - 27"},
		Teams: fixtureSides{
			Home: fixtureSide{ID: 541, Name: "Real Madrid"},
			Away: fixtureSide{ID: 543, Name: "Real Betis"},
		},
		Goals: fixtureGoals{Home: &home, Away: &away},
	}

	row, ok := mapFixtureItem("140", 2025, item)
	if !ok {
		t.Fatalf("expected fixture to map")
	}
	if row.ExternalID != 871234 {
		t.Fatalf("unexpected external id: %d", row.ExternalID)
	}
	if row.Round != 27 {
		t.Fatalf("unexpected round: %d", row.Round)
	}
	if row.Status != "FINISHED" {
		t.Fatalf("unexpected status: %q", row.Status)
	}
	if row.KickoffAt.UTC().Hour() != 19 {
		t.Fatalf("expected kickoff normalized to UTC, got %s", row.KickoffAt)
	}
	if row.HomeGoals == nil || *row.HomeGoals != 2 {
		t.Fatalf("unexpected home goals: %v", row.HomeGoals)
	}

	item.Teams.Home.ID = 0
	if _, ok := mapFixtureItem("140", 2025, item); ok {
		t.Fatalf("expected fixture without home team to be skipped")
	}
}

func TestFetchTeams_MapsVenueAndFounded(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("league") != "140" {
			t.Errorf("unexpected league query: %s", r.URL.Query().Get("league"))
		}
		if r.Header.Get(apiKeyHeader) != "secret-key" {
			t.Errorf("expected api key header to be set")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": 2,
			"response": [
				{"team": {"id": 541, "name": "Real Madrid", "code": "REA", "founded": 1902, "logo": "https://example.com/541.png"},
				 "venue": {"id": 1456, "name": "Santiago Bernabeu", "capacity": 85000}},
				{"team": {"id": 798, "name": "Mirandes", "code": "MIR", "founded": null, "logo": ""},
				 "venue": {"id": null, "name": "", "capacity": null}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "secret-key",
		Timeout: 5 * time.Second,
	})

	teams, err := client.FetchTeams(context.Background(), "140", 2025)
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
	if teams[0].Name != "Mirandes" {
		t.Fatalf("expected name-sorted output, got %q first", teams[0].Name)
	}
	madrid := teams[1]
	if madrid.FoundedYear != 1902 {
		t.Fatalf("unexpected founded year: %d", madrid.FoundedYear)
	}
	if madrid.StadiumCapacity != 85000 {
		t.Fatalf("unexpected stadium capacity: %d", madrid.StadiumCapacity)
	}
	if teams[0].FoundedYear != 0 || teams[0].StadiumCapacity != 0 {
		t.Fatalf("expected null venue fields to stay zero")
	}
}

func TestFetchFixtureStats_ExtractsExpectedGoals(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": 2,
			"response": [
				{"team": {"id": 543, "name": "Real Betis"},
				 "statistics": [
					{"type": "Shots on Goal", "value": 3},
					{"type": "Total Shots", "value": 11},
					{"type": "Ball Possession", "value": "42%"},
					{"type": "expected_goals", "value": "0.87"}
				 ]},
				{"team": {"id": 541, "name": "Real Madrid"},
				 "statistics": [
					{"type": "Shots on Goal", "value": 7},
					{"type": "Total Shots", "value": 18},
					{"type": "Ball Possession", "value": "58%"},
					{"type": "expected_goals", "value": "2.31"}
				 ]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "k", Timeout: 5 * time.Second})

	stats, err := client.FetchFixtureStats(context.Background(), 871234)
	if err != nil {
		t.Fatalf("fetch fixture stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 stat rows, got %d", len(stats))
	}
	if stats[0].TeamExternalID != 541 {
		t.Fatalf("expected rows sorted by team id")
	}
	if stats[0].ExpectedGoals != 2.31 {
		t.Fatalf("unexpected xg: %v", stats[0].ExpectedGoals)
	}
	if stats[1].PossessionPct != 42 {
		t.Fatalf("unexpected possession: %v", stats[1].PossessionPct)
	}
	if stats[1].ShotsOnTarget != 3 || stats[1].ShotsTotal != 11 {
		t.Fatalf("unexpected shot counts: %+v", stats[1])
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial tcp: request with key secret-key failed", "secret-key")
	if got != "dial tcp: request with key REDACTED failed" {
		t.Fatalf("expected key redacted, got %q", got)
	}
}
