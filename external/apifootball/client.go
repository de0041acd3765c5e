package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/quinielabs/quiniela-assistant/internal/platform/logging"
	"github.com/quinielabs/quiniela-assistant/internal/platform/resilience"
	"github.com/quinielabs/quiniela-assistant/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL  = "https://v3.football.api-sports.io"
	matchWinnerBet  = "match winner"
	apiKeyHeader    = "x-apisports-key"
	maxResponseSize = 6 << 20
)

var digitsRegex = regexp.MustCompile(`\d+`)
var errAPIFootballTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

func (c *Client) FetchTeams(ctx context.Context, leagueID string, season int) ([]usecase.ExternalTeam, error) {
	if strings.TrimSpace(leagueID) == "" {
		return nil, fmt.Errorf("league id cannot be empty")
	}
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	query := map[string]string{
		"league": strings.TrimSpace(leagueID),
		"season": strconv.Itoa(season),
	}
	var envelope teamsEnvelope
	if _, err := c.doJSON(ctx, "/teams", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams league=%s season=%d: %w", leagueID, season, err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.Team.ID <= 0 || strings.TrimSpace(item.Team.Name) == "" {
			continue
		}
		row := usecase.ExternalTeam{
			ExternalID: item.Team.ID,
			LeagueID:   strings.TrimSpace(leagueID),
			Name:       strings.TrimSpace(item.Team.Name),
			Short:      strings.ToUpper(strings.TrimSpace(item.Team.Code)),
			LogoURL:    strings.TrimSpace(item.Team.Logo),
		}
		if item.Team.Founded != nil && *item.Team.Founded > 0 {
			row.FoundedYear = *item.Team.Founded
		}
		if item.Venue.Capacity != nil && *item.Venue.Capacity > 0 {
			row.StadiumCapacity = *item.Venue.Capacity
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

// FetchFixtures lists fixtures for a league season. A round of zero fetches
// the whole season.
func (c *Client) FetchFixtures(ctx context.Context, leagueID string, season int, round int) ([]usecase.ExternalMatch, error) {
	if strings.TrimSpace(leagueID) == "" {
		return nil, fmt.Errorf("league id cannot be empty")
	}
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	query := map[string]string{
		"league": strings.TrimSpace(leagueID),
		"season": strconv.Itoa(season),
	}
	if round > 0 {
		query["round"] = fmt.Sprintf("Regular Season - %d", round)
	}

	var envelope fixturesEnvelope
	if _, err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%s season=%d round=%d: %w", leagueID, season, round, err)
	}

	out := make([]usecase.ExternalMatch, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		row, ok := mapFixtureItem(leagueID, season, item)
		if !ok {
			continue
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

func (c *Client) FetchOdds(ctx context.Context, fixtureExternalID int64) (usecase.ExternalOdds, error) {
	if fixtureExternalID <= 0 {
		return usecase.ExternalOdds{}, fmt.Errorf("fixture id must be greater than zero")
	}

	query := map[string]string{
		"fixture": strconv.FormatInt(fixtureExternalID, 10),
	}
	var envelope oddsEnvelope
	if _, err := c.doJSON(ctx, "/odds", query, &envelope); err != nil {
		return usecase.ExternalOdds{}, fmt.Errorf("fetch odds fixture=%d: %w", fixtureExternalID, err)
	}

	out := usecase.ExternalOdds{FixtureExternalID: fixtureExternalID}
	for _, item := range envelope.Response {
		for _, maker := range item.Bookmakers {
			for _, bet := range maker.Bets {
				if strings.ToLower(strings.TrimSpace(bet.Name)) != matchWinnerBet {
					continue
				}
				applyMatchWinnerValues(&out, bet.Values)
				if out.Home > 0 && out.Draw > 0 && out.Away > 0 {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

func (c *Client) FetchTeamSeasonStats(ctx context.Context, leagueID string, teamExternalID int64, season int) (usecase.ExternalTeamSeasonStats, error) {
	if strings.TrimSpace(leagueID) == "" {
		return usecase.ExternalTeamSeasonStats{}, fmt.Errorf("league id cannot be empty")
	}
	if teamExternalID <= 0 {
		return usecase.ExternalTeamSeasonStats{}, fmt.Errorf("team id must be greater than zero")
	}
	if season <= 0 {
		return usecase.ExternalTeamSeasonStats{}, fmt.Errorf("season must be greater than zero")
	}

	query := map[string]string{
		"league": strings.TrimSpace(leagueID),
		"season": strconv.Itoa(season),
		"team":   strconv.FormatInt(teamExternalID, 10),
	}
	var envelope teamStatsEnvelope
	if _, err := c.doJSON(ctx, "/teams/statistics", query, &envelope); err != nil {
		return usecase.ExternalTeamSeasonStats{}, fmt.Errorf("fetch team statistics team=%d league=%s season=%d: %w", teamExternalID, leagueID, season, err)
	}

	resp := envelope.Response
	return usecase.ExternalTeamSeasonStats{
		TeamExternalID:   teamExternalID,
		LeagueID:         strings.TrimSpace(leagueID),
		Season:           season,
		Played:           resp.Fixtures.Played.Total,
		Wins:             resp.Fixtures.Wins.Total,
		Draws:            resp.Fixtures.Draws.Total,
		Losses:           resp.Fixtures.Loses.Total,
		GoalsFor:         resp.Goals.For.Total.Total,
		GoalsAgainst:     resp.Goals.Against.Total.Total,
		HomePlayed:       resp.Fixtures.Played.Home,
		HomeWins:         resp.Fixtures.Wins.Home,
		HomeDraws:        resp.Fixtures.Draws.Home,
		HomeLosses:       resp.Fixtures.Loses.Home,
		HomeGoalsFor:     resp.Goals.For.Total.Home,
		HomeGoalsAgainst: resp.Goals.Against.Total.Home,
		AwayPlayed:       resp.Fixtures.Played.Away,
		AwayWins:         resp.Fixtures.Wins.Away,
		AwayDraws:        resp.Fixtures.Draws.Away,
		AwayLosses:       resp.Fixtures.Loses.Away,
		AwayGoalsFor:     resp.Goals.For.Total.Away,
		AwayGoalsAgainst: resp.Goals.Against.Total.Away,
		Form:             strings.TrimSpace(resp.Form),
	}, nil
}

func (c *Client) FetchFixtureStats(ctx context.Context, fixtureExternalID int64) ([]usecase.ExternalFixtureTeamStats, error) {
	if fixtureExternalID <= 0 {
		return nil, fmt.Errorf("fixture id must be greater than zero")
	}

	query := map[string]string{
		"fixture": strconv.FormatInt(fixtureExternalID, 10),
	}
	var envelope fixtureStatsEnvelope
	if _, err := c.doJSON(ctx, "/fixtures/statistics", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixture statistics fixture=%d: %w", fixtureExternalID, err)
	}

	out := make([]usecase.ExternalFixtureTeamStats, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.Team.ID <= 0 {
			continue
		}
		row := usecase.ExternalFixtureTeamStats{
			FixtureExternalID: fixtureExternalID,
			TeamExternalID:    item.Team.ID,
		}
		for _, stat := range item.Statistics {
			value := numericStatValue(stat.Value)
			switch normalizeStatType(stat.Type) {
			case "shots on goal":
				row.ShotsOnTarget = int(value)
			case "total shots":
				row.ShotsTotal = int(value)
			case "ball possession":
				row.PossessionPct = value
			case "expected goals":
				row.ExpectedGoals = value
			}
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TeamExternalID < out[j].TeamExternalID
	})
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				if isCircuitFailure(reqErr) {
					c.breaker.RecordFailure()
				} else {
					c.breaker.RecordSuccess()
				}
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errAPIFootballTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			// Bodies are read through a pooled buffer; fixture pages run to
			// hundreds of KB and sync fetches them in bursts.
			buf := bytebufferpool.Get()
			_, readErr := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseSize))
			raw := append([]byte(nil), buf.B...)
			bytebufferpool.Put(buf)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					lastErr = fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
					return nil, lastErr
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func mapFixtureItem(leagueID string, season int, item fixtureItem) (usecase.ExternalMatch, bool) {
	if item.Fixture.ID <= 0 || item.Teams.Home.ID <= 0 || item.Teams.Away.ID <= 0 {
		return usecase.ExternalMatch{}, false
	}
	kickoff := parseFixtureDate(item.Fixture.Date, item.Fixture.Timestamp)
	if kickoff.IsZero() {
		return usecase.ExternalMatch{}, false
	}

	row := usecase.ExternalMatch{
		ExternalID:         item.Fixture.ID,
		LeagueID:           strings.TrimSpace(leagueID),
		Season:             season,
		Round:              parseRound(item.League.Round, 1),
		KickoffAt:          kickoff,
		Status:             mapFixtureStatus(item.Fixture.Status.Short),
		HomeTeamExternalID: item.Teams.Home.ID,
		AwayTeamExternalID: item.Teams.Away.ID,
		HomeGoals:          item.Goals.Home,
		AwayGoals:          item.Goals.Away,
	}
	return row, true
}

func mapFixtureStatus(short string) string {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "FT", "AET", "PEN", "AWD", "WO":
		return "FINISHED"
	case "1H", "HT", "2H", "ET", "BT", "P", "LIVE", "INT", "SUSP":
		return "LIVE"
	case "PST":
		return "POSTPONED"
	case "CANC", "ABD":
		return "CANCELLED"
	default:
		return "SCHEDULED"
	}
}

func parseFixtureDate(raw string, timestamp int64) time.Time {
	value := strings.TrimSpace(raw)
	if value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err == nil {
			return parsed.UTC()
		}
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	return time.Time{}
}

func parseRound(raw string, fallback int) int {
	candidate := digitsRegex.FindString(strings.TrimSpace(raw))
	if candidate == "" {
		return fallback
	}
	value, err := strconv.Atoi(candidate)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func applyMatchWinnerValues(out *usecase.ExternalOdds, values []betValue) {
	for _, item := range values {
		odd, err := strconv.ParseFloat(strings.TrimSpace(item.Odd), 64)
		if err != nil || odd <= 1 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(item.Value)) {
		case "home", "1":
			if out.Home == 0 {
				out.Home = odd
			}
		case "draw", "x":
			if out.Draw == 0 {
				out.Draw = odd
			}
		case "away", "2":
			if out.Away == 0 {
				out.Away = odd
			}
		}
	}
}

func normalizeStatType(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	raw = strings.ReplaceAll(raw, "_", " ")
	raw = strings.ReplaceAll(raw, "-", " ")
	return strings.Join(strings.Fields(raw), " ")
}

func numericStatValue(value any) float64 {
	switch typed := value.(type) {
	case nil:
		return 0
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		cleaned := strings.TrimSuffix(strings.TrimSpace(typed), "%")
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return value
}

func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errAPIFootballTransient)
}

func abbreviateBody(raw []byte) string {
	const limit = 512
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
