package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/threatmesh-systems/threatmesh/internal/config"
	"github.com/threatmesh-systems/threatmesh/internal/correlation"
	"github.com/threatmesh-systems/threatmesh/internal/handlers"
	"github.com/threatmesh-systems/threatmesh/internal/orchestrator"
	"github.com/threatmesh-systems/threatmesh/internal/repository"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	engine := correlation.NewEngine(correlation.Config{}, nil)
	orch := orchestrator.New(nil, engine, config.AnalysisConfig{MinConfidence: 0.70}, nil)
	return NewRouter(handlers.NewHandler(orch, repository.NewMemoryRepository(), nil))
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/sources/health", http.StatusOK},
		{http.MethodGet, "/api/v1/analyses", http.StatusOK},
		{http.MethodPost, "/api/v1/analyses", http.StatusCreated},
		{http.MethodDelete, "/api/v1/analyses", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/analyses/absent", http.StatusNotFound},
		{http.MethodPost, "/api/v1/analyses/absent", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
