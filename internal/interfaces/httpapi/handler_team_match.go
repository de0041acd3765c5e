package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/usecase"
)

func leagueFromQuery(r *http.Request) string {
	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	if leagueID == "" {
		return team.LeagueLaLiga
	}
	return leagueID
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	leagueID := leagueFromQuery(r)
	teams, err := h.teamService.ListTeams(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	season := strings.TrimSpace(r.URL.Query().Get("season"))

	details, err := h.teamService.GetTeamDetails(ctx, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get team details failed", "team_id", teamID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamDetailToDTO(ctx, details))
}

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingMatches")
	defer span.End()

	leagueID := leagueFromQuery(r)
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = v
	}

	matches, err := h.matchService.ListUpcoming(ctx, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming matches failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(ctx, item))
}

func (h *Handler) ListSeasonTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonTable")
	defer span.End()

	season := strings.TrimSpace(r.URL.Query().Get("season"))
	table, err := h.statisticsService.ListSeasonTable(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list season table failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonStatsDTO, 0, len(table))
	for _, row := range table {
		items = append(items, seasonStatsToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
