// Package correlation implements the batch correlation and pivot engine.
// Given one collection round's indicator snapshot it runs five
// independent analysis passes plus an infrastructure pivot pass, each
// with its own grouping key, gate, result cap, and confidence formula.
package correlation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/threatmesh-systems/threatmesh/internal/logging"
	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// Config holds the engine's tunables.
type Config struct {
	// MaxIndicatorsPerResult caps the indicator list carried on a single
	// correlation result. Zero means no cap.
	MaxIndicatorsPerResult int
	// IgnoredRootDomains lists root domains excluded from the
	// infrastructure cluster pass (shared hosting, CDNs, URL shorteners).
	IgnoredRootDomains []string
}

// Engine runs the correlation and pivot passes over one indicator snapshot.
// The passes share no mutable state; they each read the same input slice
// and materialize their own results, so they could run concurrently with
// identical output.
type Engine struct {
	cfg     Config
	logger  *logging.Logger
	ignored map[string]bool
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	ignored := make(map[string]bool, len(cfg.IgnoredRootDomains))
	for _, d := range cfg.IgnoredRootDomains {
		ignored[normalizeRoot(d)] = true
	}
	return &Engine{cfg: cfg, logger: logger, ignored: ignored}
}

// Snapshot is one collection round's indicators in both views the
// passes need. Raw keeps every source-tagged copy so source-counting
// passes can tell independent reports apart; Unified holds exactly one
// entry per (value, kind).
type Snapshot struct {
	Raw     []models.Indicator
	Unified []models.Indicator
}

type pass struct {
	name  string
	input []models.Indicator
	run   func([]models.Indicator) []models.CorrelationResult
}

// Correlate runs all five passes and returns the combined result list
// sorted by descending confidence. Cross-source validation reads the
// raw copies; the remaining passes read the unified set. A failure
// inside one pass only drops that pass's results; everything gathered
// so far is still returned.
func (e *Engine) Correlate(ctx context.Context, snap Snapshot) []models.CorrelationResult {
	passes := []pass{
		{"cross_source", snap.Raw, e.crossSourcePass},
		{"temporal", snap.Unified, e.temporalPass},
		{"actor_attribution", snap.Unified, e.actorAttributionPass},
		{"malware_family", snap.Unified, e.malwareFamilyPass},
		{"infrastructure_cluster", snap.Unified, e.infrastructureClusterPass},
	}

	var results []models.CorrelationResult
	for _, p := range passes {
		results = append(results, e.runPass(ctx, p)...)
	}

	// Stable keeps the pass concatenation order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ConfidenceScore > results[j].ConfidenceScore
	})
	return results
}

// runPass executes one pass with panic containment.
func (e *Engine) runPass(ctx context.Context, p pass) (results []models.CorrelationResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "correlation pass failed",
				logging.Pass(p.name), logging.FieldError, fmt.Sprint(r))
			results = nil
		}
	}()

	start := time.Now()
	results = p.run(p.input)
	e.logger.DebugContext(ctx, "correlation pass complete",
		logging.Pass(p.name), logging.Count(len(results)),
		logging.Duration(time.Since(start).Milliseconds()))
	return results
}

// FindRelatedIndicators is an extension point for historical lookups.
// It always returns nil: relating an indicator to past collections needs
// a persistent index, which this batch-oriented engine does not keep.
func (e *Engine) FindRelatedIndicators(ind models.Indicator) []models.Indicator {
	return nil
}

// newResult assembles a correlation result, applying the per-result
// indicator cap.
func (e *Engine) newResult(ctype models.CorrelationType, indicators []models.Indicator, score float64, description string, details models.CorrelationDetails) models.CorrelationResult {
	if e.cfg.MaxIndicatorsPerResult > 0 && len(indicators) > e.cfg.MaxIndicatorsPerResult {
		indicators = indicators[:e.cfg.MaxIndicatorsPerResult]
	}
	id, _ := uuid.NewV7()
	return models.CorrelationResult{
		ID:              id.String(),
		Indicators:      indicators,
		Type:            ctype,
		ConfidenceScore: score,
		DiscoveredAt:    time.Now().UTC(),
		Description:     description,
		Details:         details,
	}
}

// clamp caps a score at max.
func clamp(score, max float64) float64 {
	if score > max {
		return max
	}
	return score
}
