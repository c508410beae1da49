package models

import "time"

// ActorSummary is a report row for a top actor by indicator count.
type ActorSummary struct {
	Name           string `json:"name"`
	IndicatorCount int    `json:"indicator_count"`
}

// MalwareFamilySummary is a report row for a top malware family by sample count.
type MalwareFamilySummary struct {
	Family      string `json:"family"`
	SampleCount int    `json:"sample_count"`
}

// AnalysisReport is the record handed to the report assembler after a
// full analysis run. Its field set is the contract downstream renderers
// may rely on; wire formats are the assembler's concern.
type AnalysisReport struct {
	ID              string         `json:"id"`
	TotalIndicators int            `json:"total_indicators"`
	TotalActors     int            `json:"total_actors"`
	ByKind          map[string]int `json:"by_kind"`
	BySource        map[string]int `json:"by_source"`
	ByConfidence    map[string]int `json:"by_confidence"`

	TopActors          []ActorSummary         `json:"top_actors"`
	TopMalwareFamilies []MalwareFamilySummary `json:"top_malware_families"`

	Correlations []CorrelationResult `json:"correlations"`
	// HighConfidenceCorrelations is the subset of Correlations at or above
	// the configured minimum-confidence threshold.
	HighConfidenceCorrelations []CorrelationResult   `json:"high_confidence_correlations"`
	Pivots                     []InfrastructurePivot `json:"pivots"`

	// ErrorMessage is set only for pipeline-level failures; per-collector
	// and per-pass failures degrade silently into smaller result sets.
	ErrorMessage string    `json:"error_message,omitempty"`
	ElapsedMS    int64     `json:"elapsed_ms"`
	CompletedAt  time.Time `json:"completed_at"`
}
