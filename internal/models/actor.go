package models

import "time"

// ThreatActor is a named adversary profile built by a collector from
// source-specific data. Name is the identity key, compared
// case-insensitively; same-named profiles from different sources are
// merged by the orchestrator.
type ThreatActor struct {
	Name         string               `json:"name"`
	Aliases      []string             `json:"aliases,omitempty"`
	Country      string               `json:"country,omitempty"`
	Motivations  []string             `json:"motivations,omitempty"`
	Targets      []string             `json:"targets,omitempty"`
	TTPs         []string             `json:"ttps,omitempty"`
	Indicators   map[string]Indicator `json:"indicators,omitempty"` // keyed by value
	FirstSeen    time.Time            `json:"first_seen"`
	LastActivity time.Time            `json:"last_activity"`
}

// IndicatorCount returns the number of indicators owned by the actor.
func (a *ThreatActor) IndicatorCount() int {
	return len(a.Indicators)
}

// AddIndicator attaches an indicator to the actor's owned set, keyed by
// value. An existing entry with the same value is left untouched.
func (a *ThreatActor) AddIndicator(ind Indicator) {
	if a.Indicators == nil {
		a.Indicators = make(map[string]Indicator)
	}
	if _, ok := a.Indicators[ind.Value]; !ok {
		a.Indicators[ind.Value] = ind
	}
}
