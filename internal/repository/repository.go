// Package repository persists completed analysis reports so past runs
// can be listed and retrieved through the API.
package repository

import (
	"context"
	"errors"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// ErrReportNotFound is returned when no report exists for the given ID.
var ErrReportNotFound = errors.New("report not found")

// Repository stores and retrieves analysis reports.
type Repository interface {
	SaveReport(ctx context.Context, report *models.AnalysisReport) error
	GetReport(ctx context.Context, id string) (*models.AnalysisReport, error)
	// ListReports returns reports newest-first, up to limit.
	ListReports(ctx context.Context, limit int) ([]*models.AnalysisReport, error)
	Close() error
}
