package correlation

import (
	"fmt"
	"strings"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

const (
	actorMinIndicators = 5 // strictly more than this per actor
	actorGroupCap      = 25
	actorMaxScore      = 0.95
)

// actorAttributionPass groups indicators carrying the same attributed
// actor name. Confidence combines a count term (0.03 each, max 0.7) and
// a source term (0.1 each, max 0.25), capped at 0.95.
func (e *Engine) actorAttributionPass(indicators []models.Indicator) []models.CorrelationResult {
	grouped := groupBy(indicators, func(ind models.Indicator) (string, bool) {
		if ind.ActorName == "" {
			return "", false
		}
		return strings.ToLower(ind.ActorName), true
	})

	var results []models.CorrelationResult
	for _, key := range grouped.order {
		if len(results) >= actorGroupCap {
			break
		}

		group := grouped.members[key]
		if len(group) <= actorMinIndicators {
			continue
		}
		sources := distinctSources(group)

		countTerm := clamp(float64(len(group))*0.03, 0.7)
		sourceTerm := clamp(float64(len(sources))*0.1, 0.25)
		score := clamp(countTerm+sourceTerm, actorMaxScore)

		actorName := group[0].ActorName
		description := fmt.Sprintf(
			"%d indicators attributed to actor %q across %d sources",
			len(group), actorName, len(sources),
		)
		results = append(results, e.newResult(
			models.TypeActorAttribution, group, score, description,
			models.CorrelationDetails{
				Sources:        sources,
				SourceCount:    len(sources),
				IndicatorCount: len(group),
				ActorName:      actorName,
			},
		))
	}
	return results
}
