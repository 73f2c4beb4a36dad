package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"bus-route-service/internal/api/handlers"
	"bus-route-service/internal/ports"
	"bus-route-service/internal/session"
)

type RouterConfig struct {
	AllowedOrigins []string
	SettleTimeout  time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	store *session.Store,
	publisher ports.PayloadPublisher,
	logger *zap.Logger,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "http"))

	sh := &handlers.SessionHandler{
		Store:          store,
		Publisher:      publisher,
		Logger:         logger,
		SettleTimeout:  cfg.SettleTimeout,
		OriginPatterns: originPatterns(cfg.AllowedOrigins),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /sessions", sh.Create)
	mux.HandleFunc("GET /sessions/{id}", sh.Get)
	mux.HandleFunc("DELETE /sessions/{id}", sh.Delete)
	mux.HandleFunc("POST /sessions/{id}/waypoints", sh.AddWaypoint)
	mux.HandleFunc("PUT /sessions/{id}/waypoints/{index}", sh.MoveWaypoint)
	mux.HandleFunc("POST /sessions/{id}/reset", sh.Reset)
	mux.HandleFunc("PUT /sessions/{id}/editing", sh.SetEditing)
	mux.HandleFunc("GET /sessions/{id}/route.geojson", sh.GeoJSON)
	mux.HandleFunc("GET /sessions/{id}/ws", sh.Stream)
	mux.HandleFunc("POST /sessions/{id}/submit", sh.Submit)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Location", requestIDHeader},
	})

	return requestIDMiddleware(loggingMiddleware(logger, c.Handler(mux)))
}

// originPatterns turns CORS origins into websocket origin host patterns.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		o = strings.TrimPrefix(strings.TrimPrefix(o, "https://"), "http://")
		out = append(out, o)
	}
	return out
}
