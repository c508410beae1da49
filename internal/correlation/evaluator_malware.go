package correlation

import (
	"fmt"
	"strings"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

const (
	malwareMinIndicators = 3 // strictly more than this per family
	malwareGroupCap      = 30
	malwareMaxScore      = 0.95
)

// malwareFamilyPass groups indicators tagged with the same malware
// family. Confidence combines a count term (0.04 each, max 0.8) and a
// source term (0.05 each, max 0.15), capped at 0.95.
func (e *Engine) malwareFamilyPass(indicators []models.Indicator) []models.CorrelationResult {
	grouped := groupBy(indicators, func(ind models.Indicator) (string, bool) {
		if ind.MalwareFamily == "" {
			return "", false
		}
		return strings.ToLower(ind.MalwareFamily), true
	})

	var results []models.CorrelationResult
	for _, key := range grouped.order {
		if len(results) >= malwareGroupCap {
			break
		}

		group := grouped.members[key]
		if len(group) <= malwareMinIndicators {
			continue
		}
		sources := distinctSources(group)

		countTerm := clamp(float64(len(group))*0.04, 0.8)
		sourceTerm := clamp(float64(len(sources))*0.05, 0.15)
		score := clamp(countTerm+sourceTerm, malwareMaxScore)

		family := group[0].MalwareFamily
		description := fmt.Sprintf(
			"%d samples linked to malware family %q across %d sources",
			len(group), family, len(sources),
		)
		results = append(results, e.newResult(
			models.TypeMalwareFamilyCluster, group, score, description,
			models.CorrelationDetails{
				Sources:        sources,
				SourceCount:    len(sources),
				IndicatorCount: len(group),
				MalwareFamily:  family,
			},
		))
	}
	return results
}
