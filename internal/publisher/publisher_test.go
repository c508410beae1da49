package publisher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatmesh-systems/threatmesh/internal/messaging"
	"github.com/threatmesh-systems/threatmesh/internal/models"
)

type recordingBus struct {
	subjects []string
	failOn   string
}

func (b *recordingBus) PublishJSON(ctx context.Context, subject string, data interface{}) error {
	if b.failOn != "" && subject == b.failOn {
		return errors.New("nats unavailable")
	}
	b.subjects = append(b.subjects, subject)
	return nil
}

func TestPublishReport(t *testing.T) {
	bus := &recordingBus{}
	p := New(bus)

	report := &models.AnalysisReport{
		ID: "r1",
		Correlations: []models.CorrelationResult{
			{ID: "c1"}, {ID: "c2"},
		},
		Pivots: []models.InfrastructurePivot{{ID: "p1"}},
	}

	require.NoError(t, p.PublishReport(context.Background(), report))
	assert.Equal(t, []string{
		messaging.SubjectReportsCompleted,
		messaging.SubjectFindingsCorrelation,
		messaging.SubjectFindingsCorrelation,
		messaging.SubjectFindingsPivot,
	}, bus.subjects)
}

func TestPublishReportEmptyFindings(t *testing.T) {
	bus := &recordingBus{}
	p := New(bus)

	require.NoError(t, p.PublishReport(context.Background(), &models.AnalysisReport{ID: "r1"}))
	assert.Equal(t, []string{messaging.SubjectReportsCompleted}, bus.subjects)
}

func TestPublishReportStopsOnFirstFailure(t *testing.T) {
	bus := &recordingBus{failOn: messaging.SubjectFindingsCorrelation}
	p := New(bus)

	report := &models.AnalysisReport{
		ID:           "r1",
		Correlations: []models.CorrelationResult{{ID: "c1"}},
		Pivots:       []models.InfrastructurePivot{{ID: "p1"}},
	}

	err := p.PublishReport(context.Background(), report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish correlation c1")
	assert.Equal(t, []string{messaging.SubjectReportsCompleted}, bus.subjects,
		"pivots are not attempted after a correlation failure")
}
