package correlation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/threatmesh-systems/threatmesh/internal/logging"
	"github.com/threatmesh-systems/threatmesh/internal/models"
)

const pivotMaxScore = 0.95

// FindPivots detects infrastructure (IPs and domains) reused across
// threat actors or independently reported by multiple sources. Groups
// with a single actor and a single source are duplicate rows, not
// pivots, and are not emitted. Results are sorted by descending
// confidence. A failure inside the pass is contained and yields nil.
func (e *Engine) FindPivots(ctx context.Context, indicators []models.Indicator) (pivots []models.InfrastructurePivot) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "pivot pass failed",
				logging.Pass("infrastructure_pivot"), logging.FieldError, fmt.Sprint(r))
			pivots = nil
		}
	}()

	grouped := groupBy(indicators, func(ind models.Indicator) (string, bool) {
		if ind.Kind != models.KindIP && ind.Kind != models.KindDomain {
			return "", false
		}
		return strings.ToLower(ind.Value), true
	})

	for _, key := range grouped.order {
		group := grouped.members[key]
		if len(group) < 2 {
			continue
		}

		actors := distinctActors(group)
		sources := distinctSources(group)
		// Genuine sharing requires more than one actor or independent
		// confirmation from more than one source.
		if len(actors) <= 1 && len(sources) <= 1 {
			continue
		}

		actorTerm := clamp(float64(len(actors))*0.2, 0.3)
		sourceTerm := clamp(float64(len(sources))*0.1, 0.2)
		score := clamp(0.5+actorTerm+sourceTerm, pivotMaxScore)

		id, _ := uuid.NewV7()
		pivots = append(pivots, models.InfrastructurePivot{
			ID:              id.String(),
			ActorNames:      actors,
			Indicator:       group[0],
			Type:            pivotType(group[0].Kind),
			ConfidenceScore: score,
			DiscoveredAt:    time.Now().UTC(),
			Evidence:        pivotEvidence(group, actors, sources),
		})
	}

	sort.SliceStable(pivots, func(i, j int) bool {
		return pivots[i].ConfidenceScore > pivots[j].ConfidenceScore
	})
	return pivots
}

func pivotType(kind models.IndicatorKind) models.PivotType {
	switch kind {
	case models.KindIP:
		return models.PivotC2IPOverlap
	case models.KindDomain:
		return models.PivotC2DomainOverlap
	default:
		return models.PivotInfraOverlap
	}
}

// pivotEvidence builds the human-readable evidence lines for a pivot:
// actor count, source count, and the group's activity span.
func pivotEvidence(group []models.Indicator, actors, sources []string) []string {
	earliest := group[0].CreatedAt
	latest := group[0].LastSeenAt
	for _, ind := range group[1:] {
		if ind.CreatedAt.Before(earliest) {
			earliest = ind.CreatedAt
		}
		if ind.LastSeenAt.After(latest) {
			latest = ind.LastSeenAt
		}
	}

	return []string{
		fmt.Sprintf("shared by %d threat actors", len(actors)),
		fmt.Sprintf("reported by %d sources", len(sources)),
		fmt.Sprintf("first created %s", earliest.UTC().Format("2006-01-02")),
		fmt.Sprintf("last seen %s", latest.UTC().Format("2006-01-02")),
	}
}
