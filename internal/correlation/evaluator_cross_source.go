package correlation

import (
	"fmt"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

const (
	crossSourceMinSources = 2
	crossSourceGroupCap   = 50
	crossSourceMaxScore   = 0.95
)

// crossSourcePass finds indicators independently reported by more than
// one source. Grouping is by entity identity (lowercased value plus
// kind) across the still-distinct source-tagged copies; confidence
// grows 0.15 per source on a 0.5 base, capped at 0.95.
func (e *Engine) crossSourcePass(indicators []models.Indicator) []models.CorrelationResult {
	grouped := groupBy(indicators, func(ind models.Indicator) (string, bool) {
		return ind.Key(), true
	})

	var results []models.CorrelationResult
	for _, key := range grouped.order {
		if len(results) >= crossSourceGroupCap {
			break
		}

		group := grouped.members[key]
		sources := distinctSources(group)
		if len(sources) < crossSourceMinSources {
			continue
		}

		score := clamp(0.5+0.15*float64(len(sources)), crossSourceMaxScore)
		description := fmt.Sprintf(
			"Indicator %q confirmed by %d independent sources",
			group[0].Value, len(sources),
		)
		results = append(results, e.newResult(
			models.TypeCrossSource, group, score, description,
			models.CorrelationDetails{
				Sources:        sources,
				SourceCount:    len(sources),
				IndicatorCount: len(group),
			},
		))
	}
	return results
}
