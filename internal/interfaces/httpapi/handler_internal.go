package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/quinielabs/quiniela-assistant/internal/domain/team"
	"github.com/quinielabs/quiniela-assistant/internal/usecase"
)

type syncRoundRequest struct {
	LeagueID string `json:"league_id"`
	Round    int    `json:"round" validate:"required,gt=0"`
}

type trainRequest struct {
	LeagueID string `json:"league_id"`
}

// SyncRound pulls one round from the upstream football API. Without a
// league_id the sync fans out over every configured league.
func (h *Handler) SyncRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncRound")
	defer span.End()

	var req syncRoundRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := strings.TrimSpace(req.LeagueID)
	if leagueID == "" {
		results, err := h.syncService.SyncAll(ctx, req.Round)
		if err != nil {
			h.logger.ErrorContext(ctx, "sync all leagues failed", "round", req.Round, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, results)
		return
	}

	result, err := h.syncService.SyncRound(ctx, leagueID, req.Round)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync round failed", "league_id", leagueID, "round", req.Round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TrainModel")
	defer span.End()

	var req trainRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	leagueID := strings.TrimSpace(req.LeagueID)
	if leagueID == "" {
		leagueID = team.LeagueLaLiga
	}

	result, err := h.trainingService.Train(ctx, leagueID)
	if err != nil {
		h.logger.ErrorContext(ctx, "model training failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, trainResultDTO{
		ModelVersion:    result.ModelVersion,
		SampleCount:     result.SampleCount,
		HoldoutAccuracy: result.HoldoutAccuracy,
	})
}
