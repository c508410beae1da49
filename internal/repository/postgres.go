package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL. Reports
// are stored as JSONB documents keyed by ID with the completion time
// broken out for ordering.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// SaveReport inserts or replaces a report.
func (r *PostgresRepository) SaveReport(ctx context.Context, report *models.AnalysisReport) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO analysis_reports (id, completed_at, total_indicators, total_actors, report)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			completed_at = EXCLUDED.completed_at,
			total_indicators = EXCLUDED.total_indicators,
			total_actors = EXCLUDED.total_actors,
			report = EXCLUDED.report
	`
	_, err = r.pool.Exec(ctx, query,
		report.ID, report.CompletedAt, report.TotalIndicators, report.TotalActors, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport retrieves a report by ID.
func (r *PostgresRepository) GetReport(ctx context.Context, id string) (*models.AnalysisReport, error) {
	query := `SELECT report FROM analysis_reports WHERE id = $1`

	var doc []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report models.AnalysisReport
	if err := json.Unmarshal(doc, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return &report, nil
}

// ListReports returns reports newest-first, up to limit.
func (r *PostgresRepository) ListReports(ctx context.Context, limit int) ([]*models.AnalysisReport, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT report FROM analysis_reports ORDER BY completed_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.AnalysisReport
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		var report models.AnalysisReport
		if err := json.Unmarshal(doc, &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
