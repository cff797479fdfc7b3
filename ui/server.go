// Package ui serves stored probe reports as a small JSON API, with an HTML
// rendering of each report's narrative for quick reading.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"voynstat/adapters/results"
	"voynstat/internal"
)

// Server exposes the results directory over HTTP
type Server struct {
	store  *results.Store
	log    *internal.Logger
	router http.Handler
}

// NewServer creates a report browser over the given store
func NewServer(store *results.Store) *Server {
	s := &Server{
		store: store,
		log:   internal.DefaultLogger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/probes", s.handleListProbes)
	r.Get("/api/reports", s.handleListReports)
	r.Get("/api/reports/{probe}", s.handleGetReport)
	r.Get("/api/reports/{probe}/narrative", s.handleNarrative)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	})
	s.router = c.Handler(r)
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts serving on the given port
func (s *Server) ListenAndServe(port string) error {
	s.log.Info("report browser listening on :%s (results dir %s)", port, s.store.Dir())
	return http.ListenAndServe(":"+port, s.router)
}
