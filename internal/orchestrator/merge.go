package orchestrator

import (
	"strings"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// mergeActors groups actor profiles by lowercased name and folds each
// multi-member group into one profile. Output preserves first-encounter
// order of the group names.
func mergeActors(actors []models.ThreatActor) []models.ThreatActor {
	var order []string
	grouped := make(map[string][]models.ThreatActor)
	for _, actor := range actors {
		key := strings.ToLower(actor.Name)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], actor)
	}

	merged := make([]models.ThreatActor, 0, len(order))
	for _, key := range order {
		group := grouped[key]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}
		merged = append(merged, mergeActorProfiles(group))
	}
	return merged
}

// mergeActorProfiles folds a group of same-named profiles into one.
// The profile with the most indicators becomes primary (first
// encountered wins ties); every other profile's aliases, TTPs,
// indicators, targets, and motivations are unioned into it. FirstSeen
// becomes the group minimum, LastActivity the maximum.
func mergeActorProfiles(group []models.ThreatActor) models.ThreatActor {
	primaryIdx := 0
	for i, actor := range group[1:] {
		if actor.IndicatorCount() > group[primaryIdx].IndicatorCount() {
			primaryIdx = i + 1
		}
	}

	primary := group[primaryIdx]
	// Copy the owned sets so merging never mutates a collector's result.
	primary.Aliases = append([]string(nil), primary.Aliases...)
	primary.Motivations = append([]string(nil), primary.Motivations...)
	primary.Targets = append([]string(nil), primary.Targets...)
	primary.TTPs = append([]string(nil), primary.TTPs...)
	indicators := make(map[string]models.Indicator, len(primary.Indicators))
	for value, ind := range primary.Indicators {
		indicators[value] = ind
	}
	primary.Indicators = indicators

	for i, actor := range group {
		if i == primaryIdx {
			continue
		}
		primary.Aliases = unionStrings(primary.Aliases, actor.Aliases)
		primary.Motivations = unionStrings(primary.Motivations, actor.Motivations)
		primary.Targets = unionStrings(primary.Targets, actor.Targets)
		primary.TTPs = unionStrings(primary.TTPs, actor.TTPs)
		for _, ind := range actor.Indicators {
			primary.AddIndicator(ind)
		}
		if primary.Country == "" {
			primary.Country = actor.Country
		}
		if !actor.FirstSeen.IsZero() &&
			(primary.FirstSeen.IsZero() || actor.FirstSeen.Before(primary.FirstSeen)) {
			primary.FirstSeen = actor.FirstSeen
		}
		if actor.LastActivity.After(primary.LastActivity) {
			primary.LastActivity = actor.LastActivity
		}
	}
	return primary
}

// unionStrings appends the members of add not already present in base,
// by exact string match, preserving order.
func unionStrings(base, add []string) []string {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s] = true
	}
	for _, s := range add {
		if !seen[s] {
			seen[s] = true
			base = append(base, s)
		}
	}
	return base
}
