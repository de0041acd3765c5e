package memory

import (
	"sort"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/domain/teamstats"
)

const SeedSeason = "2025"

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "esp-rma", ExternalID: 541, LeagueID: team.LeagueLaLiga, Name: "Real Madrid", Short: "RMA", StadiumCapacity: 85000, FoundedYear: 1902},
		{ID: "esp-bar", ExternalID: 529, LeagueID: team.LeagueLaLiga, Name: "Barcelona", Short: "BAR", StadiumCapacity: 99354, FoundedYear: 1899},
		{ID: "esp-atm", ExternalID: 530, LeagueID: team.LeagueLaLiga, Name: "Atletico Madrid", Short: "ATM", StadiumCapacity: 70460, FoundedYear: 1903},
		{ID: "esp-ath", ExternalID: 531, LeagueID: team.LeagueLaLiga, Name: "Athletic Club", Short: "ATH", StadiumCapacity: 53289, FoundedYear: 1898},
		{ID: "esp-rso", ExternalID: 548, LeagueID: team.LeagueLaLiga, Name: "Real Sociedad", Short: "RSO", StadiumCapacity: 39500, FoundedYear: 1909},
		{ID: "esp-sev", ExternalID: 536, LeagueID: team.LeagueLaLiga, Name: "Sevilla", Short: "SEV", StadiumCapacity: 43883, FoundedYear: 1890},
		{ID: "esp-bet", ExternalID: 543, LeagueID: team.LeagueLaLiga, Name: "Real Betis", Short: "BET", StadiumCapacity: 60720, FoundedYear: 1907},
		{ID: "esp-val", ExternalID: 532, LeagueID: team.LeagueLaLiga, Name: "Valencia", Short: "VAL", StadiumCapacity: 49430, FoundedYear: 1919},
		{ID: "esp-vil", ExternalID: 533, LeagueID: team.LeagueLaLiga, Name: "Villarreal", Short: "VIL", StadiumCapacity: 23500, FoundedYear: 1923},
		{ID: "esp-cel", ExternalID: 538, LeagueID: team.LeagueLaLiga, Name: "Celta Vigo", Short: "CEL", StadiumCapacity: 29000, FoundedYear: 1923},
	}
}

func SeedMatches() []match.Match {
	finished := []struct {
		id        string
		external  int64
		round     int
		home      string
		away      string
		kickoff   time.Time
		homeGoals int
		awayGoals int
		odds      [3]float64
	}{
		{"esp-m001", 1213001, 1, "esp-rma", "esp-sev", time.Date(2025, 8, 16, 19, 0, 0, 0, time.UTC), 3, 1, [3]float64{1.35, 5.25, 8.50}},
		{"esp-m002", 1213002, 1, "esp-bar", "esp-cel", time.Date(2025, 8, 16, 17, 0, 0, 0, time.UTC), 2, 2, [3]float64{1.40, 5.00, 7.75}},
		{"esp-m003", 1213003, 1, "esp-atm", "esp-val", time.Date(2025, 8, 17, 19, 0, 0, 0, time.UTC), 1, 0, [3]float64{1.70, 3.60, 5.30}},
		{"esp-m004", 1213004, 1, "esp-ath", "esp-bet", time.Date(2025, 8, 17, 17, 0, 0, 0, time.UTC), 2, 1, [3]float64{2.05, 3.30, 3.90}},
		{"esp-m005", 1213005, 1, "esp-rso", "esp-vil", time.Date(2025, 8, 18, 19, 0, 0, 0, time.UTC), 0, 1, [3]float64{2.60, 3.25, 2.80}},
		{"esp-m006", 1213006, 2, "esp-sev", "esp-bar", time.Date(2025, 8, 23, 19, 0, 0, 0, time.UTC), 0, 2, [3]float64{4.75, 4.00, 1.70}},
		{"esp-m007", 1213007, 2, "esp-cel", "esp-rma", time.Date(2025, 8, 23, 17, 0, 0, 0, time.UTC), 1, 3, [3]float64{6.00, 4.30, 1.55}},
		{"esp-m008", 1213008, 2, "esp-val", "esp-ath", time.Date(2025, 8, 24, 19, 0, 0, 0, time.UTC), 1, 1, [3]float64{2.75, 3.10, 2.80}},
		{"esp-m009", 1213009, 2, "esp-bet", "esp-rso", time.Date(2025, 8, 24, 17, 0, 0, 0, time.UTC), 2, 0, [3]float64{2.45, 3.25, 3.05}},
		{"esp-m010", 1213010, 2, "esp-vil", "esp-atm", time.Date(2025, 8, 25, 19, 0, 0, 0, time.UTC), 0, 0, [3]float64{2.90, 3.20, 2.55}},
	}

	upcoming := []struct {
		id       string
		external int64
		round    int
		home     string
		away     string
		kickoff  time.Time
		odds     [3]float64
	}{
		{"esp-m011", 1213011, 3, "esp-rma", "esp-atm", time.Date(2025, 8, 30, 19, 0, 0, 0, time.UTC), [3]float64{1.95, 3.50, 4.00}},
		{"esp-m012", 1213012, 3, "esp-bar", "esp-ath", time.Date(2025, 8, 30, 17, 0, 0, 0, time.UTC), [3]float64{1.55, 4.20, 6.00}},
		{"esp-m013", 1213013, 3, "esp-rso", "esp-sev", time.Date(2025, 8, 31, 19, 0, 0, 0, time.UTC), [3]float64{2.10, 3.30, 3.60}},
		{"esp-m014", 1213014, 3, "esp-bet", "esp-cel", time.Date(2025, 8, 31, 17, 0, 0, 0, time.UTC), [3]float64{2.25, 3.30, 3.30}},
		{"esp-m015", 1213015, 3, "esp-val", "esp-vil", time.Date(2025, 9, 1, 19, 0, 0, 0, time.UTC), [3]float64{2.70, 3.15, 2.75}},
	}

	out := make([]match.Match, 0, len(finished)+len(upcoming))
	for _, f := range finished {
		homeGoals, awayGoals := f.homeGoals, f.awayGoals
		homeOdds, drawOdds, awayOdds := f.odds[0], f.odds[1], f.odds[2]
		finishedAt := f.kickoff.Add(105 * time.Minute)
		m := match.Match{
			ID:         f.id,
			ExternalID: f.external,
			LeagueID:   team.LeagueLaLiga,
			Season:     SeedSeason,
			Round:      f.round,
			HomeTeamID: f.home,
			AwayTeamID: f.away,
			KickoffAt:  f.kickoff,
			Status:     match.StatusFinished,
			HomeGoals:  &homeGoals,
			AwayGoals:  &awayGoals,
			HomeOdds:   &homeOdds,
			DrawOdds:   &drawOdds,
			AwayOdds:   &awayOdds,
			FinishedAt: &finishedAt,
		}
		m.Result = m.ResolveResult()
		out = append(out, m)
	}
	for _, u := range upcoming {
		homeOdds, drawOdds, awayOdds := u.odds[0], u.odds[1], u.odds[2]
		out = append(out, match.Match{
			ID:         u.id,
			ExternalID: u.external,
			LeagueID:   team.LeagueLaLiga,
			Season:     SeedSeason,
			Round:      u.round,
			HomeTeamID: u.home,
			AwayTeamID: u.away,
			KickoffAt:  u.kickoff,
			Status:     match.StatusScheduled,
			HomeOdds:   &homeOdds,
			DrawOdds:   &drawOdds,
			AwayOdds:   &awayOdds,
		})
	}

	return out
}

// SeedTeamStats derives season tables from the seeded finished matches so
// the in-memory boot starts internally consistent.
func SeedTeamStats() []teamstats.SeasonStats {
	byTeam := make(map[string]*teamstats.SeasonStats)
	ensure := func(teamID string) *teamstats.SeasonStats {
		if s, ok := byTeam[teamID]; ok {
			return s
		}
		s := &teamstats.SeasonStats{TeamID: teamID, Season: SeedSeason}
		byTeam[teamID] = s
		return s
	}

	for _, m := range SeedMatches() {
		if !match.IsFinishedStatus(m.Status) || m.HomeGoals == nil || m.AwayGoals == nil {
			continue
		}
		home := ensure(m.HomeTeamID)
		away := ensure(m.AwayTeamID)

		home.Played++
		away.Played++
		home.GoalsFor += *m.HomeGoals
		home.GoalsAgainst += *m.AwayGoals
		away.GoalsFor += *m.AwayGoals
		away.GoalsAgainst += *m.HomeGoals

		home.Home.Played++
		home.Home.GoalsFor += *m.HomeGoals
		home.Home.GoalsAgainst += *m.AwayGoals
		away.Away.Played++
		away.Away.GoalsFor += *m.AwayGoals
		away.Away.GoalsAgainst += *m.HomeGoals

		switch m.Result {
		case match.ResultHome:
			home.Wins++
			home.Home.Wins++
			home.Points += 3
			away.Losses++
			away.Away.Losses++
			home.Form += "W"
			away.Form += "L"
		case match.ResultAway:
			away.Wins++
			away.Away.Wins++
			away.Points += 3
			home.Losses++
			home.Home.Losses++
			home.Form += "L"
			away.Form += "W"
		default:
			home.Draws++
			home.Home.Draws++
			away.Draws++
			away.Away.Draws++
			home.Points++
			away.Points++
			home.Form += "D"
			away.Form += "D"
		}
	}

	out := make([]teamstats.SeasonStats, 0, len(byTeam))
	for _, s := range byTeam {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		gdI := out[i].GoalsFor - out[i].GoalsAgainst
		gdJ := out[j].GoalsFor - out[j].GoalsAgainst
		if gdI != gdJ {
			return gdI > gdJ
		}
		return out[i].TeamID < out[j].TeamID
	})
	for i := range out {
		out[i].Position = i + 1
	}

	return out
}
