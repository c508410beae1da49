package correlation

import (
	"strings"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// groups is an order-preserving grouping of indicators. Keys are kept in
// first-encounter order so result caps ("first N groups") are
// deterministic rather than subject to map iteration order.
type groups struct {
	order   []string
	members map[string][]models.Indicator
}

// groupBy buckets indicators by the given key function. Indicators for
// which the key function returns ok=false are skipped.
func groupBy(indicators []models.Indicator, key func(models.Indicator) (string, bool)) *groups {
	g := &groups{members: make(map[string][]models.Indicator)}
	for _, ind := range indicators {
		k, ok := key(ind)
		if !ok {
			continue
		}
		if _, seen := g.members[k]; !seen {
			g.order = append(g.order, k)
		}
		g.members[k] = append(g.members[k], ind)
	}
	return g
}

// distinctSources returns the distinct source names of a group in
// first-encounter order.
func distinctSources(indicators []models.Indicator) []string {
	seen := make(map[string]bool, len(indicators))
	var sources []string
	for _, ind := range indicators {
		if !seen[ind.Source] {
			seen[ind.Source] = true
			sources = append(sources, ind.Source)
		}
	}
	return sources
}

// distinctActors returns the distinct non-empty actor names of a group
// in first-encounter order.
func distinctActors(indicators []models.Indicator) []string {
	seen := make(map[string]bool, len(indicators))
	var actors []string
	for _, ind := range indicators {
		if ind.ActorName == "" {
			continue
		}
		key := strings.ToLower(ind.ActorName)
		if !seen[key] {
			seen[key] = true
			actors = append(actors, ind.ActorName)
		}
	}
	return actors
}

// normalizeRoot lowercases and trims a configured root domain entry.
func normalizeRoot(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// rootDomain extracts the last two dot-separated labels of a domain,
// lowercased. Single-label values are returned as-is.
func rootDomain(value string) string {
	v := strings.ToLower(strings.TrimSuffix(value, "."))
	labels := strings.Split(v, ".")
	if len(labels) < 2 {
		return v
	}
	return labels[len(labels)-2] + "." + labels[len(labels)-1]
}
