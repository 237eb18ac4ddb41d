// Package http serves the watch-mode status surface: health, the latest run
// report, and Prometheus metrics.
package http

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hsp3-utils/extup/pkg/domain"
)

// StatusServer holds the latest run report for /status.
type StatusServer struct {
	mu     sync.RWMutex
	latest *domain.RunReport
}

// NewStatusServer creates an empty status server.
func NewStatusServer() *StatusServer {
	return &StatusServer{}
}

// SetReport publishes the latest run report.
func (s *StatusServer) SetReport(r *domain.RunReport) {
	s.mu.Lock()
	s.latest = r
	s.mu.Unlock()
}

// Handler builds the HTTP handler, exposing metrics from the given registry.
func (s *StatusServer) Handler(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.RLock()
		latest := s.latest
		s.mu.RUnlock()

		w.Header().Set("Content-Type", "application/json")
		if latest == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := json.NewEncoder(w).Encode(latest); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}
