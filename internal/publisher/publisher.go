// Package publisher emits analysis findings onto the NATS bus after
// each completed run.
package publisher

import (
	"context"
	"fmt"

	"github.com/threatmesh-systems/threatmesh/internal/messaging"
	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// bus is the subset of the messaging client the publisher needs.
type bus interface {
	PublishJSON(ctx context.Context, subject string, data interface{}) error
}

// Publisher publishes completed reports and their individual findings.
type Publisher struct {
	bus bus
}

// New creates a publisher on the given bus client.
func New(b bus) *Publisher {
	return &Publisher{bus: b}
}

// PublishReport publishes the full report, then each correlation and
// pivot on its own subject. The first failure aborts and is returned;
// the caller treats publication as best-effort.
func (p *Publisher) PublishReport(ctx context.Context, report *models.AnalysisReport) error {
	if err := p.bus.PublishJSON(ctx, messaging.SubjectReportsCompleted, report); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	for i := range report.Correlations {
		if err := p.bus.PublishJSON(ctx, messaging.SubjectFindingsCorrelation, &report.Correlations[i]); err != nil {
			return fmt.Errorf("publish correlation %s: %w", report.Correlations[i].ID, err)
		}
	}
	for i := range report.Pivots {
		if err := p.bus.PublishJSON(ctx, messaging.SubjectFindingsPivot, &report.Pivots[i]); err != nil {
			return fmt.Errorf("publish pivot %s: %w", report.Pivots[i].ID, err)
		}
	}
	return nil
}
