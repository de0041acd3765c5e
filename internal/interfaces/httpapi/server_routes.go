package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/health", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/matches/upcoming", handler.ListUpcomingMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/statistics/table", handler.ListSeasonTable)

	mux.HandleFunc("GET /v1/predictions/week", handler.GetWeekPredictions)
	mux.HandleFunc("POST /v1/predictions/match/{matchID}", handler.PredictMatchByID)
	mux.HandleFunc("GET /v1/predictions/history", handler.PredictionHistory)
	mux.HandleFunc("GET /v1/predictions/model", handler.GetModelPerformance)

	mux.HandleFunc("POST /v1/quiniela/validate", handler.ValidateSlip)
	mux.HandleFunc("POST /v1/quiniela/price", handler.PriceSlip)
	mux.HandleFunc("POST /v1/quiniela/slips", handler.CreateSlip)
	mux.HandleFunc("GET /v1/quiniela/slips", handler.ListSlips)
	mux.HandleFunc("GET /v1/quiniela/slips/{slipID}/results", handler.GetSlipResults)
	mux.HandleFunc("GET /v1/quiniela/summary", handler.GetFinancialSummary)
	mux.HandleFunc("POST /v1/quiniela/configs", handler.SaveQuinielaConfig)
	mux.HandleFunc("GET /v1/quiniela/configs", handler.ListQuinielaConfigs)
	mux.HandleFunc("POST /v1/quiniela/configs/{configID}/slip", handler.BuildSlipFromConfig)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/v1/sync/round", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncRound)))
	mux.Handle("POST /internal/v1/train", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.TrainModel)))
}
