package orchestrator

import "github.com/threatmesh-systems/threatmesh/internal/models"

// dedupeIndicators collapses the concatenated multi-source indicator
// list to one entry per (lowercased value, kind) key, keeping the copy
// with the highest confidence. Equal confidence keeps the first
// encountered copy, and output preserves first-encounter order.
func dedupeIndicators(indicators []models.Indicator) []models.Indicator {
	index := make(map[string]int, len(indicators))
	out := make([]models.Indicator, 0, len(indicators))

	for _, ind := range indicators {
		key := ind.Key()
		if at, seen := index[key]; seen {
			if ind.Confidence > out[at].Confidence {
				out[at] = ind
			}
			continue
		}
		index[key] = len(out)
		out = append(out, ind)
	}
	return out
}
