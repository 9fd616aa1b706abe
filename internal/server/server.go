package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dealsniper/internal/scan"
	"dealsniper/logger"
	"dealsniper/services/settings"
)

// Scanner is the scan entry point exposed over HTTP
type Scanner interface {
	Scan(ctx context.Context, req scan.Request) (scan.Result, error)
}

// Server is the thin HTTP layer over the scan pipeline and the tracked
// search options. Every response is JSON, including failures.
type Server struct {
	scanner Scanner
	store   *settings.Store
	webDir  string
	log     *logger.Logger
}

// NewServer creates a new HTTP server; webDir may be empty to disable the
// static form.
func NewServer(scanner Scanner, store *settings.Store, webDir string) *Server {
	return &Server{
		scanner: scanner,
		store:   store,
		webDir:  webDir,
		log:     logger.ForComponent("server"),
	}
}

// Routes builds the router
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/manual-scan", s.handleManualScan)
	r.Get("/search-options", s.handleListOptions)
	r.Post("/search-options", s.handleAppendOption)
	r.Get("/healthz", s.handleHealth)

	if s.webDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.webDir)))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
