package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// MemoryRepository is an in-memory Repository for tests and runs
// without a configured database.
type MemoryRepository struct {
	mu      sync.RWMutex
	reports map[string]*models.AnalysisReport
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reports: make(map[string]*models.AnalysisReport)}
}

func (r *MemoryRepository) SaveReport(ctx context.Context, report *models.AnalysisReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

func (r *MemoryRepository) GetReport(ctx context.Context, id string) (*models.AnalysisReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	copied := *report
	return &copied, nil
}

func (r *MemoryRepository) ListReports(ctx context.Context, limit int) ([]*models.AnalysisReport, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	reports := make([]*models.AnalysisReport, 0, len(r.reports))
	for _, report := range r.reports {
		copied := *report
		reports = append(reports, &copied)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CompletedAt.After(reports[j].CompletedAt)
	})
	if len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
