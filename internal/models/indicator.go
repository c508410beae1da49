package models

import (
	"strings"
	"time"
)

// IndicatorKind represents the type of an indicator of compromise.
type IndicatorKind string

const (
	KindIP          IndicatorKind = "ip"
	KindDomain      IndicatorKind = "domain"
	KindURL         IndicatorKind = "url"
	KindFileHash    IndicatorKind = "file_hash"
	KindEmail       IndicatorKind = "email"
	KindMutex       IndicatorKind = "mutex"
	KindRegistryKey IndicatorKind = "registry_key"
	KindCertificate IndicatorKind = "certificate"
)

// AllIndicatorKinds lists every valid indicator kind, used for validation
// and report breakdowns.
var AllIndicatorKinds = []IndicatorKind{
	KindIP, KindDomain, KindURL, KindFileHash,
	KindEmail, KindMutex, KindRegistryKey, KindCertificate,
}

// IsValid checks if the indicator kind is valid.
func (k IndicatorKind) IsValid() bool {
	for _, valid := range AllIndicatorKinds {
		if k == valid {
			return true
		}
	}
	return false
}

// Indicator is a single indicator of compromise as reported by one source.
// Identity is (lowercased Value, Kind) regardless of Source; multiple
// source-tagged copies of the same entity exist until deduplication.
type Indicator struct {
	Value         string        `json:"value"`
	Kind          IndicatorKind `json:"kind"`
	Source        string        `json:"source"`
	Confidence    int           `json:"confidence"` // 0-100
	CreatedAt     time.Time     `json:"created_at"`
	LastSeenAt    time.Time     `json:"last_seen_at"`
	Tags          []string      `json:"tags,omitempty"`
	ActorName     string        `json:"actor_name,omitempty"`
	MalwareFamily string        `json:"malware_family,omitempty"`
	Description   string        `json:"description,omitempty"`
}

// Key returns the deduplication identity of the indicator:
// lowercased value plus kind. Two indicators with equal keys are the
// same entity even when reported by different sources.
func (i Indicator) Key() string {
	return strings.ToLower(i.Value) + "|" + string(i.Kind)
}

// ConfidenceBucket maps a raw 0-100 indicator confidence to a named bucket.
// Boundaries are fixed: <50 Very Low, 50-69 Low, 70-89 Medium, >=90 High.
func ConfidenceBucket(confidence int) string {
	switch {
	case confidence >= 90:
		return "High"
	case confidence >= 70:
		return "Medium"
	case confidence >= 50:
		return "Low"
	default:
		return "Very Low"
	}
}
