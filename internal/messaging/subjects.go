// Package messaging defines standard subject names for the ThreatMesh
// findings bus and a thin NATS client around them.
package messaging

// Subject constants for the findings bus.
// Follow the pattern: {domain}.{resource}.{event}
const (
	// Published once per completed analysis run with the full report.
	SubjectReportsCompleted = "threatmesh.reports.completed"

	// Published per finding so downstream consumers can subscribe
	// selectively.
	SubjectFindingsCorrelation = "threatmesh.findings.correlation"
	SubjectFindingsPivot       = "threatmesh.findings.pivot"
)
