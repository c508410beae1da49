// Package collector defines the source collector contract and the
// built-in collector implementations. Each collector wraps one
// intelligence feed; its Name is used as the Source tag on every
// indicator it produces.
package collector

import (
	"context"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// Collector fetches indicators and actor profiles from one source.
// Errors from a collector are contained by the orchestrator; a failing
// source contributes an empty result and never aborts the run.
type Collector interface {
	Name() string
	FetchIndicators(ctx context.Context) ([]models.Indicator, error)
	FetchActors(ctx context.Context) ([]models.ThreatActor, error)
	CheckHealth(ctx context.Context) bool
}
