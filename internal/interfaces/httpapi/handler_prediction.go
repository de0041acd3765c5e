package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/usecase"
)

func (h *Handler) GetWeekPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeekPredictions")
	defer span.End()

	query := r.URL.Query()
	leagueID := leagueFromQuery(r)
	season := strings.TrimSpace(query.Get("season"))
	if season == "" {
		season = strconv.Itoa(time.Now().UTC().Year())
	}

	round, err := strconv.Atoi(strings.TrimSpace(query.Get("round")))
	if err != nil || round <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: round must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	predictions, err := h.predictionService.PredictRound(ctx, leagueID, season, round)
	if err != nil {
		h.logger.WarnContext(ctx, "predict round failed",
			"league_id", leagueID, "season", season, "round", round, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchPredictionDTO, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, matchPredictionToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PredictMatchByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictMatchByID")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	refresh := r.URL.Query().Get("refresh") == "true"

	result, err := h.predictionService.PredictMatch(ctx, matchID, refresh)
	if err != nil {
		h.logger.WarnContext(ctx, "predict match failed", "match_id", matchID, "refresh", refresh, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchPredictionToDTO(ctx, result))
}

func (h *Handler) PredictionHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictionHistory")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = v
	}

	history, err := h.predictionService.History(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "prediction history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(history))
	for _, p := range history {
		items = append(items, predictionToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetModelPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetModelPerformance")
	defer span.End()

	snapshot, err := h.trainingService.LatestPerformance(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "model performance lookup failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, modelPerfToDTO(snapshot))
}
