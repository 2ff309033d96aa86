package api

import (
	"net/http"

	"github.com/rs/cors"
)

const basePath = "/api/v1"

// NewRouter wires the handler's routes and middlewares into a single
// http.Handler. CORS is open for GET/POST, the frontend is a browser
// application served from a different origin.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+basePath+"/health", h.health)
	mux.HandleFunc("GET "+basePath+"/tracks", h.listTracks)
	mux.HandleFunc("GET "+basePath+"/tracks/{name}/profile", h.trackProfile)
	mux.HandleFunc("GET "+basePath+"/positions", h.getPositions)
	mux.HandleFunc("POST "+basePath+"/positions", h.postPositions)
	mux.HandleFunc("POST "+basePath+"/laps/csv", h.postLapsCSV)
	mux.HandleFunc("POST "+basePath+"/degradation", h.postDegradation)
	mux.HandleFunc("POST "+basePath+"/strategy", h.postStrategy)
	mux.HandleFunc("GET "+basePath+"/live", h.live)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(withRecovery(withLogging(mux)))
}
