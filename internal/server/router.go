package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/threatmesh-systems/threatmesh/internal/handlers"
	"github.com/threatmesh-systems/threatmesh/internal/middleware"
)

// NewRouter constructs a ServeMux with the analysis API routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/healthz", h.HealthCheck)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/v1/sources/health", h.SourceHealth)

	mux.HandleFunc("/api/v1/analyses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.RunAnalysis(w, r)
		case http.MethodGet:
			h.ListAnalyses(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/analyses/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.GetAnalysis(w, r)
	})

	return middleware.RequestID(mux)
}
