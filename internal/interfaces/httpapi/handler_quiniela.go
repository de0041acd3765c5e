package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
	"github.com/quinielabs/quiniela-assistant/internal/usecase"
)

type slipRowRequest struct {
	MatchNumber int      `json:"match_number" validate:"required"`
	MatchID     string   `json:"match_id"`
	HomeTeam    string   `json:"home_team"`
	AwayTeam    string   `json:"away_team"`
	Options     []string `json:"options" validate:"required,min=1"`
}

type elige8Request struct {
	Enabled         bool     `json:"enabled"`
	SelectedMatches []int    `json:"selected_matches"`
	Predictions     []string `json:"predictions"`
}

type plenoRequest struct {
	HomeGoals string `json:"home_goals" validate:"required"`
	AwayGoals string `json:"away_goals" validate:"required"`
}

type validateSlipRequest struct {
	Predictions []slipRowRequest `json:"predictions" validate:"required,dive"`
	Elige8      *elige8Request   `json:"elige8"`
}

type validateSlipResponse struct {
	validationResultDTO
	Violations []string `json:"violations,omitempty"`
}

type createSlipRequest struct {
	Season      string           `json:"season" validate:"required"`
	Round       int              `json:"round" validate:"required,gt=0"`
	Predictions []slipRowRequest `json:"predictions" validate:"required,dive"`
	Pleno       plenoRequest     `json:"pleno" validate:"required"`
	Elige8      *elige8Request   `json:"elige8"`
}

type saveConfigRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" validate:"required"`
	Season       string   `json:"season" validate:"required"`
	Round        int      `json:"round"`
	MatchIDs     []string `json:"match_ids" validate:"required"`
	PlenoMatchID string   `json:"pleno_match_id" validate:"required"`
}

func slipRowsFromRequest(rows []slipRowRequest) []quiniela.Prediction {
	out := make([]quiniela.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, quiniela.Prediction{
			MatchNumber: row.MatchNumber,
			MatchID:     row.MatchID,
			HomeTeam:    row.HomeTeam,
			AwayTeam:    row.AwayTeam,
			Options:     optionsFromStrings(row.Options),
		})
	}
	return out
}

func elige8FromRequest(req *elige8Request) *quiniela.Elige8 {
	if req == nil {
		return nil
	}
	return &quiniela.Elige8{
		Enabled:         req.Enabled,
		SelectedMatches: req.SelectedMatches,
		Predictions:     optionsFromStrings(req.Predictions),
	}
}

func (h *Handler) decodeSlipPayload(w http.ResponseWriter, r *http.Request, spanName string) (validateSlipRequest, bool) {
	ctx := r.Context()

	var req validateSlipRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return validateSlipRequest{}, false
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.logger.WarnContext(ctx, spanName+" rejected payload", "error", err)
		writeError(ctx, w, err)
		return validateSlipRequest{}, false
	}

	return req, true
}

func (h *Handler) ValidateSlip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateSlip")
	defer span.End()
	r = r.WithContext(ctx)

	req, ok := h.decodeSlipPayload(w, r, "validate slip")
	if !ok {
		return
	}

	result, err := h.quinielaService.ValidateSlip(slipRowsFromRequest(req.Predictions), elige8FromRequest(req.Elige8))
	resp := validateSlipResponse{validationResultDTO: validationToDTO(result)}
	if err != nil {
		resp.Violations = strings.Split(strings.TrimPrefix(err.Error(), "invalid input: "), "\n")
	}

	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) PriceSlip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PriceSlip")
	defer span.End()
	r = r.WithContext(ctx)

	req, ok := h.decodeSlipPayload(w, r, "price slip")
	if !ok {
		return
	}

	result, err := h.quinielaService.ValidateSlip(slipRowsFromRequest(req.Predictions), elige8FromRequest(req.Elige8))
	if err != nil {
		h.logger.WarnContext(ctx, "price slip failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, validationToDTO(result))
}

func (h *Handler) CreateSlip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSlip")
	defer span.End()

	var req createSlipRequest
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

	slip, err := h.quinielaService.CreateSlip(ctx, usecase.CreateSlipInput{
		Season:      req.Season,
		Round:       req.Round,
		Predictions: slipRowsFromRequest(req.Predictions),
		Pleno: quiniela.PlenoAl15{
			HomeGoals: quiniela.GoalsPick(req.Pleno.HomeGoals),
			AwayGoals: quiniela.GoalsPick(req.Pleno.AwayGoals),
		},
		Elige8: elige8FromRequest(req.Elige8),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create slip failed", "season", req.Season, "round", req.Round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, slipToDTO(ctx, slip))
}

func (h *Handler) ListSlips(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSlips")
	defer span.End()

	season := strings.TrimSpace(r.URL.Query().Get("season"))
	slips, err := h.quinielaService.ListSlips(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list slips failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]slipDTO, 0, len(slips))
	for _, slip := range slips {
		items = append(items, slipToDTO(ctx, slip))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSlipResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSlipResults")
	defer span.End()

	slipID := strings.TrimSpace(r.PathValue("slipID"))
	results, err := h.quinielaService.SlipResults(ctx, slipID)
	if err != nil {
		h.logger.WarnContext(ctx, "slip results failed", "slip_id", slipID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slipResultsToDTO(ctx, results))
}

func (h *Handler) GetFinancialSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFinancialSummary")
	defer span.End()

	summary, err := h.quinielaService.Summary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "financial summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaryToDTO(summary))
}

func (h *Handler) SaveQuinielaConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveQuinielaConfig")
	defer span.End()

	var req saveConfigRequest
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

	config, err := h.quinielaService.SaveConfig(ctx, usecase.SaveConfigInput{
		ID:           req.ID,
		Name:         req.Name,
		Season:       req.Season,
		Round:        req.Round,
		MatchIDs:     req.MatchIDs,
		PlenoMatchID: req.PlenoMatchID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save quiniela config failed", "name", req.Name, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, configToDTO(config))
}

func (h *Handler) ListQuinielaConfigs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListQuinielaConfigs")
	defer span.End()

	season := strings.TrimSpace(r.URL.Query().Get("season"))
	configs, err := h.quinielaService.ListConfigs(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list quiniela configs failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]configDTO, 0, len(configs))
	for _, config := range configs {
		items = append(items, configToDTO(config))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) BuildSlipFromConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuildSlipFromConfig")
	defer span.End()

	configID := strings.TrimSpace(r.PathValue("configID"))
	draft, err := h.quinielaService.BuildSlipFromConfig(ctx, configID)
	if err != nil {
		h.logger.WarnContext(ctx, "build slip from config failed", "config_id", configID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, slipDraftToDTO(draft))
}
