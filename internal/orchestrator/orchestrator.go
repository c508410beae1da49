// Package orchestrator runs the collection pipeline: concurrent fan-out
// to every configured source collector, indicator deduplication, actor
// profile merging, and full-analysis assembly.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/threatmesh-systems/threatmesh/internal/collector"
	"github.com/threatmesh-systems/threatmesh/internal/config"
	"github.com/threatmesh-systems/threatmesh/internal/correlation"
	"github.com/threatmesh-systems/threatmesh/internal/logging"
	"github.com/threatmesh-systems/threatmesh/internal/metrics"
	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// SeenCache tracks indicator keys across runs so never-before-seen
// indicators can be tagged. Implementations must be safe for concurrent
// use.
type SeenCache interface {
	// CheckAndMark marks every key as seen and reports which of them
	// were new before this call.
	CheckAndMark(ctx context.Context, keys []string) (map[string]bool, error)
}

// FindingsPublisher pushes a completed report's findings onto the
// message bus.
type FindingsPublisher interface {
	PublishReport(ctx context.Context, report *models.AnalysisReport) error
}

// Archiver writes the deduplicated snapshot and the report to long-term
// indicator storage.
type Archiver interface {
	ArchiveIndicators(ctx context.Context, indicators []models.Indicator) error
	ArchiveReport(ctx context.Context, report *models.AnalysisReport) error
}

// Orchestrator fans out to all configured collectors, merges their
// results, and drives the correlation engine.
type Orchestrator struct {
	collectors []collector.Collector
	engine     *correlation.Engine
	cfg        config.AnalysisConfig
	logger     *logging.Logger

	// Optional stages; a failure in any of them is logged, never fatal.
	cache     SeenCache
	publisher FindingsPublisher
	archiver  Archiver
}

// New creates an orchestrator over the given collectors and engine.
func New(collectors []collector.Collector, engine *correlation.Engine, cfg config.AnalysisConfig, logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		collectors: collectors,
		engine:     engine,
		cfg:        cfg,
		logger:     logger,
	}
}

// SetSeenCache attaches a first-seen indicator cache.
func (o *Orchestrator) SetSeenCache(c SeenCache) { o.cache = c }

// SetPublisher attaches a findings publisher.
func (o *Orchestrator) SetPublisher(p FindingsPublisher) { o.publisher = p }

// SetArchiver attaches an indicator archive.
func (o *Orchestrator) SetArchiver(a Archiver) { o.archiver = a }

// Collectors returns the configured collectors, for health reporting.
func (o *Orchestrator) Collectors() []collector.Collector { return o.collectors }

// CollectIndicators fetches indicators from every collector
// concurrently and returns the deduplicated sequence. A failing
// collector contributes an empty result; it never aborts the others.
func (o *Orchestrator) CollectIndicators(ctx context.Context) []models.Indicator {
	raw := o.collectRawIndicators(ctx)
	return o.unifyIndicators(ctx, raw)
}

// collectRawIndicators fans out to every collector and concatenates the
// still-distinct source-tagged copies in collector order.
func (o *Orchestrator) collectRawIndicators(ctx context.Context) []models.Indicator {
	start := time.Now()
	perSource := fanOut(ctx, o.collectors, o.cfg.MaxConcurrentSources, o.logger, "indicators",
		func(ctx context.Context, c collector.Collector) ([]models.Indicator, error) {
			return c.FetchIndicators(ctx)
		})
	metrics.CollectionDuration.Observe(time.Since(start).Seconds())

	var all []models.Indicator
	for i, items := range perSource {
		source := o.collectors[i].Name()
		if items == nil {
			metrics.IndicatorsCollected.WithLabelValues(source, "error").Add(0)
			continue
		}
		metrics.IndicatorsCollected.WithLabelValues(source, "ok").Add(float64(len(items)))
		all = append(all, items...)
	}
	return all
}

// unifyIndicators dedupes the raw copies down to one entry per
// (value, kind) and tags never-before-seen entries.
func (o *Orchestrator) unifyIndicators(ctx context.Context, raw []models.Indicator) []models.Indicator {
	deduped := dedupeIndicators(raw)
	metrics.DeduplicatedIndicators.Set(float64(len(deduped)))
	o.logger.InfoContext(ctx, "indicator collection complete",
		"raw", len(raw), "deduplicated", len(deduped))
	return o.tagNewIndicators(ctx, deduped)
}

// CollectActors fetches actor profiles from every collector
// concurrently and merges same-named profiles into one.
func (o *Orchestrator) CollectActors(ctx context.Context) []models.ThreatActor {
	perSource := fanOut(ctx, o.collectors, o.cfg.MaxConcurrentSources, o.logger, "actors",
		func(ctx context.Context, c collector.Collector) ([]models.ThreatActor, error) {
			return c.FetchActors(ctx)
		})

	var all []models.ThreatActor
	for i, items := range perSource {
		source := o.collectors[i].Name()
		if items == nil {
			metrics.ActorsCollected.WithLabelValues(source, "error").Add(0)
			continue
		}
		metrics.ActorsCollected.WithLabelValues(source, "ok").Add(float64(len(items)))
		all = append(all, items...)
	}

	merged := mergeActors(all)
	o.logger.InfoContext(ctx, "actor collection complete",
		"raw", len(all), "merged", len(merged))
	return merged
}

// ExecuteFullAnalysis runs the whole pipeline and always returns a
// report, even when every collector failed or the pipeline itself blew
// up partway: any otherwise-uncaught failure is recorded as the
// report's ErrorMessage and the partial report is returned.
func (o *Orchestrator) ExecuteFullAnalysis(ctx context.Context) (report *models.AnalysisReport) {
	start := time.Now()
	id, _ := uuid.NewV7()
	report = &models.AnalysisReport{ID: id.String()}

	defer func() {
		if r := recover(); r != nil {
			report.ErrorMessage = fmt.Sprintf("analysis pipeline failed: %v", r)
			metrics.AnalysisErrors.Inc()
			o.logger.ErrorContext(ctx, "analysis pipeline failed", logging.FieldError, fmt.Sprint(r))
		}
		report.ElapsedMS = time.Since(start).Milliseconds()
		report.CompletedAt = time.Now().UTC()
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	raw := o.collectRawIndicators(ctx)
	indicators := o.unifyIndicators(ctx, raw)
	actors := o.CollectActors(ctx)

	// Cross-source validation and pivot detection need the raw copies:
	// independent reports of one indicator collapse to a single entry in
	// the unified set.
	correlations := o.engine.Correlate(ctx, correlation.Snapshot{Raw: raw, Unified: indicators})
	for _, c := range correlations {
		metrics.CorrelationsFound.WithLabelValues(string(c.Type)).Inc()
	}

	var pivots []models.InfrastructurePivot
	if o.cfg.EnablePivots {
		pivots = o.engine.FindPivots(ctx, raw)
		metrics.PivotsFound.Add(float64(len(pivots)))
	}

	assembleReport(report, indicators, actors, correlations, pivots, o.cfg.MinConfidence)

	o.runOptionalStages(ctx, indicators, report)

	o.logger.InfoContext(ctx, "analysis complete",
		logging.ReportID(report.ID),
		"indicators", report.TotalIndicators,
		"actors", report.TotalActors,
		"correlations", len(report.Correlations),
		"pivots", len(report.Pivots),
		logging.FieldDuration, report.ElapsedMS)
	return report
}

// runOptionalStages archives and publishes the results when the
// corresponding collaborators are attached. Failures degrade to a log
// line; the report is already complete.
func (o *Orchestrator) runOptionalStages(ctx context.Context, indicators []models.Indicator, report *models.AnalysisReport) {
	if o.archiver != nil {
		if err := o.archiver.ArchiveIndicators(ctx, indicators); err != nil {
			o.logger.WarnContext(ctx, "indicator archive failed", logging.Error(err))
		}
		if err := o.archiver.ArchiveReport(ctx, report); err != nil {
			o.logger.WarnContext(ctx, "report archive failed", logging.Error(err))
		}
	}
	if o.publisher != nil {
		if err := o.publisher.PublishReport(ctx, report); err != nil {
			o.logger.WarnContext(ctx, "findings publish failed", logging.Error(err))
		}
	}
}

// tagNewIndicators consults the seen cache, when attached, and tags
// never-before-seen indicators. Cache failures leave indicators untagged.
func (o *Orchestrator) tagNewIndicators(ctx context.Context, indicators []models.Indicator) []models.Indicator {
	if o.cache == nil || len(indicators) == 0 {
		return indicators
	}

	keys := make([]string, len(indicators))
	for i, ind := range indicators {
		keys[i] = ind.Key()
	}
	isNew, err := o.cache.CheckAndMark(ctx, keys)
	if err != nil {
		o.logger.WarnContext(ctx, "seen cache unavailable", logging.Error(err))
		return indicators
	}
	for i := range indicators {
		if isNew[keys[i]] {
			indicators[i].Tags = append(indicators[i].Tags, "new")
		}
	}
	return indicators
}

// fanOut runs one fetch task per collector with bounded parallelism and
// joins them all, collecting result-or-error per task. A panicking or
// failing collector yields a nil slice for its slot; there is no
// inter-collector ordering dependency and no shared mutable state
// between tasks (each writes only its own slot).
func fanOut[T any](ctx context.Context, collectors []collector.Collector, limit int, logger *logging.Logger, kind string, fetch func(context.Context, collector.Collector) ([]T, error)) [][]T {
	if limit <= 0 {
		limit = len(collectors)
	}
	sem := make(chan struct{}, limit)
	results := make([][]T, len(collectors))

	var wg sync.WaitGroup
	for i, c := range collectors {
		wg.Add(1)
		go func(slot int, c collector.Collector) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					metrics.CollectorFailures.WithLabelValues(c.Name()).Inc()
					logger.ErrorContext(ctx, "collector panicked",
						logging.Source(c.Name()), "fetch", kind, logging.FieldError, fmt.Sprint(r))
				}
			}()

			sem <- struct{}{}
			defer func() { <-sem }()

			items, err := fetch(ctx, c)
			if err != nil {
				metrics.CollectorFailures.WithLabelValues(c.Name()).Inc()
				logger.WarnContext(ctx, "collector fetch failed",
					logging.Source(c.Name()), "fetch", kind, logging.Error(err))
				return
			}
			if items == nil {
				items = []T{}
			}
			results[slot] = items
		}(i, c)
	}
	wg.Wait()
	return results
}
