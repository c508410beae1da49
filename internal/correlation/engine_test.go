package correlation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

func testEngine(cfg Config) *Engine {
	return NewEngine(cfg, nil)
}

func resultsOfType(results []models.CorrelationResult, t models.CorrelationType) []models.CorrelationResult {
	var out []models.CorrelationResult
	for _, r := range results {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

func TestCrossSourcePass(t *testing.T) {
	indicators := []models.Indicator{
		{Value: "1.2.3.4", Kind: models.KindIP, Source: "alpha"},
		{Value: "1.2.3.4", Kind: models.KindIP, Source: "bravo"},
		{Value: "1.2.3.4", Kind: models.KindIP, Source: "charlie"},
		{Value: "lonely.com", Kind: models.KindDomain, Source: "alpha"},
	}

	e := testEngine(Config{})
	results := e.crossSourcePass(indicators)
	require.Len(t, results, 1, "single-source indicators produce nothing")

	r := results[0]
	assert.Equal(t, models.TypeCrossSource, r.Type)
	assert.InDelta(t, 0.95, r.ConfidenceScore, 1e-9, "0.5 + 3*0.15 hits the cap")
	assert.Equal(t, `Indicator "1.2.3.4" confirmed by 3 independent sources`, r.Description)
	assert.ElementsMatch(t, []string{"alpha", "bravo", "charlie"}, r.Details.Sources)
	assert.Equal(t, 3, r.Details.SourceCount)
	assert.Equal(t, 3, r.Details.IndicatorCount)
}

func TestCrossSourcePassValueMatchIsCaseInsensitive(t *testing.T) {
	indicators := []models.Indicator{
		{Value: "Evil.COM", Kind: models.KindDomain, Source: "alpha"},
		{Value: "evil.com", Kind: models.KindDomain, Source: "bravo"},
	}

	e := testEngine(Config{})
	results := e.crossSourcePass(indicators)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.8, results[0].ConfidenceScore, 1e-9)
}

func TestCrossSourcePassKindDistinguishesEntities(t *testing.T) {
	// Same value, different kinds: distinct entities, never one group.
	indicators := []models.Indicator{
		{Value: "evil.com", Kind: models.KindDomain, Source: "alpha"},
		{Value: "evil.com", Kind: models.KindURL, Source: "bravo"},
	}

	e := testEngine(Config{})
	assert.Empty(t, e.crossSourcePass(indicators))

	// The same pair with matching kinds does correlate.
	indicators[1].Kind = models.KindDomain
	results := e.crossSourcePass(indicators)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Indicators, 2)
}

func TestCrossSourcePassSameSourceTwiceDoesNotCorrelate(t *testing.T) {
	indicators := []models.Indicator{
		{Value: "1.2.3.4", Kind: models.KindIP, Source: "alpha"},
		{Value: "1.2.3.4", Kind: models.KindIP, Source: "alpha"},
	}

	e := testEngine(Config{})
	assert.Empty(t, e.crossSourcePass(indicators))
}

func TestTemporalPassGates(t *testing.T) {
	window := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)

	burst := func(count int, twoSources bool) []models.Indicator {
		out := make([]models.Indicator, 0, count)
		for i := 0; i < count; i++ {
			source := "alpha"
			if twoSources && i%2 == 1 {
				source = "bravo"
			}
			out = append(out, models.Indicator{
				Value:     fmt.Sprintf("10.0.0.%d", i),
				Kind:      models.KindIP,
				Source:    source,
				CreatedAt: window.Add(time.Duration(i) * time.Minute),
			})
		}
		return out
	}

	e := testEngine(Config{})

	// Exactly ten in the window is not enough; the gate is strict.
	assert.Empty(t, e.temporalPass(burst(10, true)))

	// Eleven from a single source is still not a cluster.
	assert.Empty(t, e.temporalPass(burst(11, false)))

	results := e.temporalPass(burst(11, true))
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, models.TypeTemporalCluster, r.Type)
	assert.Equal(t, "2024-03-01 14:00", r.Details.Window)
	assert.InDelta(t, 0.42, r.ConfidenceScore, 1e-9, "11*0.02 + 2*0.1")
}

func TestTemporalPassSkipsZeroCreationTimes(t *testing.T) {
	indicators := make([]models.Indicator, 0, 12)
	for i := 0; i < 12; i++ {
		indicators = append(indicators, models.Indicator{
			Value:  fmt.Sprintf("10.0.0.%d", i),
			Kind:   models.KindIP,
			Source: fmt.Sprintf("src-%d", i%3),
		})
	}

	e := testEngine(Config{})
	assert.Empty(t, e.temporalPass(indicators))
}

func TestActorAttributionPass(t *testing.T) {
	attributed := func(count int, actor string) []models.Indicator {
		out := make([]models.Indicator, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, models.Indicator{
				Value:     fmt.Sprintf("10.1.0.%d", i),
				Kind:      models.KindIP,
				Source:    fmt.Sprintf("src-%d", i%2),
				ActorName: actor,
			})
		}
		return out
	}

	e := testEngine(Config{})

	// Five indicators does not clear the strict gate.
	assert.Empty(t, e.actorAttributionPass(attributed(5, "Fancy Lynx")))

	results := e.actorAttributionPass(attributed(6, "Fancy Lynx"))
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, models.TypeActorAttribution, r.Type)
	assert.Equal(t, "Fancy Lynx", r.Details.ActorName)
	assert.InDelta(t, 0.38, r.ConfidenceScore, 1e-9, "6*0.03 + 2*0.1")
}

func TestActorAttributionPassNameMatchIsCaseInsensitive(t *testing.T) {
	var indicators []models.Indicator
	for i := 0; i < 6; i++ {
		name := "Fancy Lynx"
		if i%2 == 1 {
			name = "FANCY LYNX"
		}
		indicators = append(indicators, models.Indicator{
			Value:     fmt.Sprintf("10.1.0.%d", i),
			Kind:      models.KindIP,
			Source:    "alpha",
			ActorName: name,
		})
	}

	e := testEngine(Config{})
	results := e.actorAttributionPass(indicators)
	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Details.IndicatorCount)
}

func TestMalwareFamilyPass(t *testing.T) {
	family := func(count int) []models.Indicator {
		out := make([]models.Indicator, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, models.Indicator{
				Value:         fmt.Sprintf("%064d", i),
				Kind:          models.KindFileHash,
				Source:        "alpha",
				MalwareFamily: "LockRat",
			})
		}
		return out
	}

	e := testEngine(Config{})

	assert.Empty(t, e.malwareFamilyPass(family(3)))

	results := e.malwareFamilyPass(family(4))
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, models.TypeMalwareFamilyCluster, r.Type)
	assert.Equal(t, "LockRat", r.Details.MalwareFamily)
	assert.InDelta(t, 0.21, r.ConfidenceScore, 1e-9, "4*0.04 + 1*0.05")
}

func TestInfrastructureClusterPass(t *testing.T) {
	subdomains := func(root string, count int) []models.Indicator {
		out := make([]models.Indicator, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, models.Indicator{
				Value:  fmt.Sprintf("host%d.%s", i, root),
				Kind:   models.KindDomain,
				Source: "alpha",
			})
		}
		return out
	}

	e := testEngine(Config{})

	// Two subdomains does not clear the strict gate.
	assert.Empty(t, e.infrastructureClusterPass(subdomains("evil.com", 2)))

	results := e.infrastructureClusterPass(subdomains("evil.com", 12))
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, models.TypeInfrastructureCluster, r.Type)
	assert.Equal(t, "evil.com", r.Details.RootDomain)
	assert.InDelta(t, 0.85, r.ConfidenceScore, 1e-9, "0.4 + 12*0.08 hits the cap")

	results = e.infrastructureClusterPass(subdomains("evil.com", 3))
	require.Len(t, results, 1)
	assert.InDelta(t, 0.64, results[0].ConfidenceScore, 1e-9)
}

func TestInfrastructureClusterPassIgnoresConfiguredRoots(t *testing.T) {
	e := testEngine(Config{IgnoredRootDomains: []string{"Cloudfront.NET "}})

	indicators := []models.Indicator{
		{Value: "a.cloudfront.net", Kind: models.KindDomain, Source: "alpha"},
		{Value: "b.cloudfront.net", Kind: models.KindDomain, Source: "alpha"},
		{Value: "c.cloudfront.net", Kind: models.KindDomain, Source: "alpha"},
		{Value: "d.cloudfront.net", Kind: models.KindDomain, Source: "alpha"},
	}
	assert.Empty(t, e.infrastructureClusterPass(indicators))
}

func TestInfrastructureClusterPassIgnoresNonDomainKinds(t *testing.T) {
	var indicators []models.Indicator
	for i := 0; i < 4; i++ {
		indicators = append(indicators, models.Indicator{
			Value:  fmt.Sprintf("http://host%d.evil.com/x", i),
			Kind:   models.KindURL,
			Source: "alpha",
		})
	}

	e := testEngine(Config{})
	assert.Empty(t, e.infrastructureClusterPass(indicators))
}

func TestCorrelateSortsByDescendingConfidence(t *testing.T) {
	// Cross-source pair scoring 0.8, reported by two sources.
	raw := []models.Indicator{
		{Value: "1.2.3.4", Kind: models.KindIP, Source: "alpha", Confidence: 60},
		{Value: "1.2.3.4", Kind: models.KindIP, Source: "bravo", Confidence: 90},
	}
	// Unified view: one copy of the IP plus a malware family of four
	// scoring 0.21.
	unified := []models.Indicator{raw[1]}
	for i := 0; i < 4; i++ {
		ind := models.Indicator{
			Value:         fmt.Sprintf("%064d", i),
			Kind:          models.KindFileHash,
			Source:        "alpha",
			MalwareFamily: "LockRat",
		}
		raw = append(raw, ind)
		unified = append(unified, ind)
	}

	e := testEngine(Config{})
	results := e.Correlate(context.Background(), Snapshot{Raw: raw, Unified: unified})
	require.Len(t, results, 2)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].ConfidenceScore, results[i].ConfidenceScore)
	}
	assert.Equal(t, models.TypeCrossSource, results[0].Type)
	assert.NotEmpty(t, results[0].ID)
	assert.False(t, results[0].DiscoveredAt.IsZero())
}

func TestCorrelateEmptyInput(t *testing.T) {
	e := testEngine(Config{})
	assert.Empty(t, e.Correlate(context.Background(), Snapshot{}))
	assert.Empty(t, resultsOfType(e.Correlate(context.Background(), Snapshot{}), models.TypeCrossSource))
}

func TestNewResultCapsIndicatorList(t *testing.T) {
	var indicators []models.Indicator
	for i := 0; i < 8; i++ {
		source := "alpha"
		if i%2 == 1 {
			source = "bravo"
		}
		indicators = append(indicators, models.Indicator{
			Value: "1.2.3.4", Kind: models.KindIP, Source: source,
		})
	}

	e := testEngine(Config{MaxIndicatorsPerResult: 3})
	results := e.crossSourcePass(indicators)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Indicators, 3)
	assert.Equal(t, 8, results[0].Details.IndicatorCount, "details keep the true group size")
}

func TestRootDomain(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"evil.com", "evil.com"},
		{"a.b.evil.com", "evil.com"},
		{"WWW.Evil.COM", "evil.com"},
		{"evil.com.", "evil.com"},
		{"localhost", "localhost"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rootDomain(tt.value), tt.value)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, clamp(0.5, 0.95))
	assert.Equal(t, 0.95, clamp(1.2, 0.95))
}
