/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
plan handlers to the Gemini planner built at startup.
*/
package server

import (
	"net/http"
	"time"

	"ApexAI/internal/config"
	"ApexAI/internal/geminiservice"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// cfg is the read-only process configuration.
	cfg *config.Config

	// planner produces workout and meal plans; shared by all requests.
	planner *geminiservice.Planner

	// cacheEnabled reports whether model replies are cached in memory.
	cacheEnabled bool

	startedAt time.Time
}

// New creates the Server. Nothing here is mutated after construction.
func New(cfg *config.Config, planner *geminiservice.Planner, cacheEnabled bool) *Server {
	return &Server{
		cfg:          cfg,
		planner:      planner,
		cacheEnabled: cacheEnabled,
		startedAt:    time.Now(),
	}
}

// NewHTTPServer returns a configured *http.Server for s.
// WriteTimeout is generous because a single plan can take a long time to generate.
func (s *Server) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
}
