package orchestrator

import (
	"sort"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

const topListSize = 10

// assembleReport fills the report record from the pipeline outputs:
// totals, per-kind/per-source/per-confidence-bucket breakdowns, top
// actors and malware families, the full correlation and pivot lists,
// and the high-confidence correlation subset.
func assembleReport(report *models.AnalysisReport, indicators []models.Indicator, actors []models.ThreatActor, correlations []models.CorrelationResult, pivots []models.InfrastructurePivot, minConfidence float64) {
	report.TotalIndicators = len(indicators)
	report.TotalActors = len(actors)
	report.ByKind = make(map[string]int)
	report.BySource = make(map[string]int)
	report.ByConfidence = make(map[string]int)

	familyCounts := make(map[string]int)
	for _, ind := range indicators {
		report.ByKind[string(ind.Kind)]++
		report.BySource[ind.Source]++
		report.ByConfidence[models.ConfidenceBucket(ind.Confidence)]++
		if ind.MalwareFamily != "" {
			familyCounts[ind.MalwareFamily]++
		}
	}

	report.TopActors = topActors(actors)
	report.TopMalwareFamilies = topMalwareFamilies(familyCounts)

	report.Correlations = correlations
	report.Pivots = pivots

	high := make([]models.CorrelationResult, 0, len(correlations))
	for _, c := range correlations {
		if c.ConfidenceScore >= minConfidence {
			high = append(high, c)
		}
	}
	report.HighConfidenceCorrelations = high
}

func topActors(actors []models.ThreatActor) []models.ActorSummary {
	summaries := make([]models.ActorSummary, 0, len(actors))
	for i := range actors {
		summaries = append(summaries, models.ActorSummary{
			Name:           actors[i].Name,
			IndicatorCount: actors[i].IndicatorCount(),
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].IndicatorCount > summaries[j].IndicatorCount
	})
	if len(summaries) > topListSize {
		summaries = summaries[:topListSize]
	}
	return summaries
}

func topMalwareFamilies(counts map[string]int) []models.MalwareFamilySummary {
	summaries := make([]models.MalwareFamilySummary, 0, len(counts))
	for family, count := range counts {
		summaries = append(summaries, models.MalwareFamilySummary{
			Family:      family,
			SampleCount: count,
		})
	}
	// Count descending, then name for a stable order across runs.
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].SampleCount != summaries[j].SampleCount {
			return summaries[i].SampleCount > summaries[j].SampleCount
		}
		return summaries[i].Family < summaries[j].Family
	})
	if len(summaries) > topListSize {
		summaries = summaries[:topListSize]
	}
	return summaries
}
