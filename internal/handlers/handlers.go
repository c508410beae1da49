package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/threatmesh-systems/threatmesh/internal/httputil"
	"github.com/threatmesh-systems/threatmesh/internal/logging"
	"github.com/threatmesh-systems/threatmesh/internal/orchestrator"
	"github.com/threatmesh-systems/threatmesh/internal/repository"
)

// Handler serves the analysis API.
type Handler struct {
	orch   *orchestrator.Orchestrator
	repo   repository.Repository
	logger *logging.Logger
}

// NewHandler creates a handler over the orchestrator and report store.
func NewHandler(orch *orchestrator.Orchestrator, repo repository.Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{orch: orch, repo: repo, logger: logger}
}

// HealthCheck handles health check requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// RunAnalysis handles POST /api/v1/analyses: runs a full analysis and
// returns the report. The run itself never fails hard; a pipeline
// failure is reported inside the report's error_message field.
func (h *Handler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	report := h.orch.ExecuteFullAnalysis(r.Context())

	if err := h.repo.SaveReport(r.Context(), report); err != nil {
		// The analysis succeeded; losing persistence is not worth
		// hiding the report from the caller.
		h.logger.WarnContext(r.Context(), "report save failed", logging.Error(err))
		httputil.WriteJSON(w, http.StatusOK, report)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, report)
}

// ListAnalyses handles GET /api/v1/analyses.
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 500 {
			httputil.WriteError(w, http.StatusBadRequest, "limit must be an integer between 1 and 500")
			return
		}
		limit = parsed
	}

	reports, err := h.repo.ListReports(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// GetAnalysis handles GET /api/v1/analyses/{id}.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/analyses/")
	if id == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing report id")
		return
	}

	report, err := h.repo.GetReport(r.Context(), id)
	if errors.Is(err, repository.ErrReportNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to get report")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// SourceHealth handles GET /api/v1/sources/health: runs every
// collector's liveness check.
func (h *Handler) SourceHealth(w http.ResponseWriter, r *http.Request) {
	status := make(map[string]bool)
	for _, c := range h.orch.Collectors() {
		status[c.Name()] = c.CheckHealth(r.Context())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"sources": status})
}
