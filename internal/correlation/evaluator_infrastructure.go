package correlation

import (
	"fmt"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

const (
	infraMinIndicators = 2 // strictly more than this per root domain
	infraGroupCap      = 15
	infraMaxScore      = 0.85
)

// infrastructureClusterPass groups domain indicators by their root
// domain (last two dot-separated labels). Roots on the configured ignore
// list (CDNs, shared hosting) are skipped. Confidence is 0.4 plus 0.08
// per clustered subdomain, capped at 0.85.
func (e *Engine) infrastructureClusterPass(indicators []models.Indicator) []models.CorrelationResult {
	grouped := groupBy(indicators, func(ind models.Indicator) (string, bool) {
		if ind.Kind != models.KindDomain {
			return "", false
		}
		root := rootDomain(ind.Value)
		if e.ignored[root] {
			return "", false
		}
		return root, true
	})

	var results []models.CorrelationResult
	for _, root := range grouped.order {
		if len(results) >= infraGroupCap {
			break
		}

		group := grouped.members[root]
		if len(group) <= infraMinIndicators {
			continue
		}
		sources := distinctSources(group)

		score := clamp(0.4+float64(len(group))*0.08, infraMaxScore)
		description := fmt.Sprintf(
			"%d domains share root domain %q",
			len(group), root,
		)
		results = append(results, e.newResult(
			models.TypeInfrastructureCluster, group, score, description,
			models.CorrelationDetails{
				Sources:        sources,
				SourceCount:    len(sources),
				IndicatorCount: len(group),
				RootDomain:     root,
			},
		))
	}
	return results
}
