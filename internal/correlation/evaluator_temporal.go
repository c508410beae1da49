package correlation

import (
	"fmt"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

const (
	temporalMinIndicators = 10 // strictly more than this per window
	temporalMinSources    = 2
	temporalWindowCap     = 20
	temporalMaxScore      = 0.9
)

// temporalPass clusters indicators created within the same UTC calendar
// hour. A window only counts when it holds more than ten indicators from
// at least two distinct sources; confidence combines a count term
// (0.02 each, max 0.6) and a source term (0.1 each, max 0.3), capped at 0.9.
func (e *Engine) temporalPass(indicators []models.Indicator) []models.CorrelationResult {
	grouped := groupBy(indicators, func(ind models.Indicator) (string, bool) {
		if ind.CreatedAt.IsZero() {
			return "", false
		}
		return ind.CreatedAt.UTC().Format("2006-01-02 15:00"), true
	})

	var results []models.CorrelationResult
	for _, window := range grouped.order {
		if len(results) >= temporalWindowCap {
			break
		}

		group := grouped.members[window]
		if len(group) <= temporalMinIndicators {
			continue
		}
		sources := distinctSources(group)
		if len(sources) < temporalMinSources {
			continue
		}

		countTerm := clamp(float64(len(group))*0.02, 0.6)
		sourceTerm := clamp(float64(len(sources))*0.1, 0.3)
		score := clamp(countTerm+sourceTerm, temporalMaxScore)

		description := fmt.Sprintf(
			"%d indicators from %d sources clustered in window %s UTC",
			len(group), len(sources), window,
		)
		results = append(results, e.newResult(
			models.TypeTemporalCluster, group, score, description,
			models.CorrelationDetails{
				Sources:        sources,
				SourceCount:    len(sources),
				IndicatorCount: len(group),
				Window:         window,
			},
		))
	}
	return results
}
