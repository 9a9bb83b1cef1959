package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/match/active", handler.GetActiveMatch)
	mux.HandleFunc("GET /v1/config/summoner", handler.GetHomeSummoner)
	mux.HandleFunc("POST /v1/config/summoner", handler.SetHomeSummoner)
	mux.HandleFunc("GET /v1/summoners/{summonerID}/tags", handler.ListSummonerTags)
	mux.HandleFunc("POST /v1/summoners/{summonerID}/tags", handler.AddSummonerTag)
}
