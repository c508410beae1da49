package models

import "time"

// CorrelationType identifies which analysis pass produced a result.
type CorrelationType string

const (
	TypeCrossSource           CorrelationType = "cross_source_validation"
	TypeTemporalCluster       CorrelationType = "temporal_cluster"
	TypeActorAttribution      CorrelationType = "threat_actor_attribution"
	TypeMalwareFamilyCluster  CorrelationType = "malware_family_cluster"
	TypeInfrastructureCluster CorrelationType = "infrastructure_cluster"
)

// IsValid checks if the correlation type is valid.
func (ct CorrelationType) IsValid() bool {
	switch ct {
	case TypeCrossSource, TypeTemporalCluster, TypeActorAttribution,
		TypeMalwareFamilyCluster, TypeInfrastructureCluster:
		return true
	default:
		return false
	}
}

// CorrelationDetails carries pass-specific evidence. It is a closed set of
// optional fields rather than an open map so the result stays typed; each
// pass populates only the fields that apply to it.
type CorrelationDetails struct {
	Sources        []string `json:"sources,omitempty"`
	SourceCount    int      `json:"source_count,omitempty"`
	IndicatorCount int      `json:"indicator_count,omitempty"`
	Window         string   `json:"window,omitempty"` // temporal pass: UTC date+hour
	ActorName      string   `json:"actor_name,omitempty"`
	MalwareFamily  string   `json:"malware_family,omitempty"`
	RootDomain     string   `json:"root_domain,omitempty"`
}

// CorrelationResult is one scored finding from a correlation pass.
type CorrelationResult struct {
	ID              string             `json:"id"`
	Indicators      []Indicator        `json:"indicators"`
	Type            CorrelationType    `json:"correlation_type"`
	ConfidenceScore float64            `json:"confidence_score"` // 0.0-1.0
	DiscoveredAt    time.Time          `json:"discovered_at"`
	Description     string             `json:"description"`
	Details         CorrelationDetails `json:"details"`
}

// PivotType identifies the kind of shared infrastructure behind a pivot.
type PivotType string

const (
	PivotC2IPOverlap     PivotType = "C2_IP_OVERLAP"
	PivotC2DomainOverlap PivotType = "C2_DOMAIN_OVERLAP"
	PivotInfraOverlap    PivotType = "INFRASTRUCTURE_OVERLAP"
)

// InfrastructurePivot is a piece of infrastructure shared across actors
// or independently confirmed by multiple sources.
type InfrastructurePivot struct {
	ID               string    `json:"id"`
	ActorNames       []string  `json:"actor_names"`
	Indicator        Indicator `json:"indicator"`
	Type             PivotType `json:"pivot_type"`
	ConfidenceScore  float64   `json:"confidence_score"`
	DiscoveredAt     time.Time `json:"discovered_at"`
	Evidence         []string  `json:"evidence"`
	RelatedCampaigns []string  `json:"related_campaigns,omitempty"` // reserved
}
