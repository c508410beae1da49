package orchestrator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

func TestAssembleReportBreakdowns(t *testing.T) {
	indicators := []models.Indicator{
		{Value: "1.2.3.4", Kind: models.KindIP, Source: "alpha", Confidence: 95},
		{Value: "5.6.7.8", Kind: models.KindIP, Source: "bravo", Confidence: 72},
		{Value: "evil.com", Kind: models.KindDomain, Source: "alpha", Confidence: 55, MalwareFamily: "LockRat"},
		{Value: "bad.org", Kind: models.KindDomain, Source: "alpha", Confidence: 30, MalwareFamily: "LockRat"},
	}
	actors := []models.ThreatActor{{Name: "Fancy Lynx"}}

	var report models.AnalysisReport
	assembleReport(&report, indicators, actors, nil, nil, 0.70)

	assert.Equal(t, 4, report.TotalIndicators)
	assert.Equal(t, 1, report.TotalActors)
	assert.Equal(t, map[string]int{"ip": 2, "domain": 2}, report.ByKind)
	assert.Equal(t, map[string]int{"alpha": 3, "bravo": 1}, report.BySource)
	assert.Equal(t, map[string]int{"High": 1, "Medium": 1, "Low": 1, "Very Low": 1}, report.ByConfidence)

	require.Len(t, report.TopMalwareFamilies, 1)
	assert.Equal(t, "LockRat", report.TopMalwareFamilies[0].Family)
	assert.Equal(t, 2, report.TopMalwareFamilies[0].SampleCount)
}

func TestAssembleReportTopActorsCappedAtTen(t *testing.T) {
	actors := make([]models.ThreatActor, 0, 12)
	for i := 0; i < 12; i++ {
		actor := models.ThreatActor{Name: fmt.Sprintf("actor-%02d", i)}
		for j := 0; j <= i; j++ {
			actor.AddIndicator(models.Indicator{
				Value: fmt.Sprintf("10.0.%d.%d", i, j),
				Kind:  models.KindIP,
			})
		}
		actors = append(actors, actor)
	}

	var report models.AnalysisReport
	assembleReport(&report, nil, actors, nil, nil, 0.70)

	require.Len(t, report.TopActors, 10)
	assert.Equal(t, "actor-11", report.TopActors[0].Name)
	assert.Equal(t, 12, report.TopActors[0].IndicatorCount)
	assert.Equal(t, "actor-02", report.TopActors[9].Name)
}

func TestAssembleReportHighConfidenceSubset(t *testing.T) {
	correlations := []models.CorrelationResult{
		{ID: "a", ConfidenceScore: 0.95},
		{ID: "b", ConfidenceScore: 0.70},
		{ID: "c", ConfidenceScore: 0.69},
	}

	var report models.AnalysisReport
	assembleReport(&report, nil, nil, correlations, nil, 0.70)

	require.Len(t, report.Correlations, 3)
	require.Len(t, report.HighConfidenceCorrelations, 2)
	assert.Equal(t, "a", report.HighConfidenceCorrelations[0].ID)
	assert.Equal(t, "b", report.HighConfidenceCorrelations[1].ID, "threshold is inclusive")
}
