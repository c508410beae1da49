package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

func actorWithIndicators(name, source string, values ...string) models.ThreatActor {
	actor := models.ThreatActor{Name: name}
	for _, v := range values {
		actor.AddIndicator(models.Indicator{Value: v, Kind: models.KindIP, Source: source})
	}
	return actor
}

func TestMergeActorsGroupsByLowercasedName(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a := actorWithIndicators("Fancy Lynx", "alpha", "1.1.1.1", "2.2.2.2")
	a.Aliases = []string{"FLX"}
	a.TTPs = []string{"spearphishing"}
	a.FirstSeen = late
	a.LastActivity = late

	b := actorWithIndicators("FANCY LYNX", "bravo", "3.3.3.3")
	b.Aliases = []string{"FLX", "LynxCrew"}
	b.TTPs = []string{"credential dumping"}
	b.Targets = []string{"finance"}
	b.Motivations = []string{"espionage"}
	b.FirstSeen = early
	b.LastActivity = early

	other := actorWithIndicators("Quiet Heron", "alpha", "4.4.4.4")

	merged := mergeActors([]models.ThreatActor{a, b, other})
	require.Len(t, merged, 2)

	lynx := merged[0]
	assert.Equal(t, "Fancy Lynx", lynx.Name, "primary has the most indicators")

	// Nothing from either profile may be lost.
	assert.ElementsMatch(t, []string{"FLX", "LynxCrew"}, lynx.Aliases)
	assert.ElementsMatch(t, []string{"spearphishing", "credential dumping"}, lynx.TTPs)
	assert.ElementsMatch(t, []string{"finance"}, lynx.Targets)
	assert.ElementsMatch(t, []string{"espionage"}, lynx.Motivations)
	assert.Equal(t, 3, lynx.IndicatorCount())

	assert.Equal(t, early, lynx.FirstSeen)
	assert.Equal(t, late, lynx.LastActivity)
	assert.True(t, !lynx.FirstSeen.After(a.FirstSeen))
	assert.True(t, !lynx.FirstSeen.After(b.FirstSeen))
}

func TestMergeActorProfilesPrimarySelection(t *testing.T) {
	small := actorWithIndicators("Actor", "alpha", "1.1.1.1")
	small.Country = "KP"
	big := actorWithIndicators("actor", "bravo", "2.2.2.2", "3.3.3.3")

	merged := mergeActorProfiles([]models.ThreatActor{small, big})
	assert.Equal(t, "actor", merged.Name, "profile with most indicators becomes primary")
	assert.Equal(t, "KP", merged.Country, "empty primary country filled from the group")

	// Equal indicator counts: first encountered wins.
	x := actorWithIndicators("Actor", "alpha", "1.1.1.1")
	y := actorWithIndicators("actor", "bravo", "2.2.2.2")
	merged = mergeActorProfiles([]models.ThreatActor{x, y})
	assert.Equal(t, "Actor", merged.Name)
}

func TestMergeActorProfilesDoesNotMutateInputs(t *testing.T) {
	a := actorWithIndicators("Actor", "alpha", "1.1.1.1", "2.2.2.2")
	a.Aliases = []string{"one"}
	b := actorWithIndicators("actor", "bravo", "3.3.3.3")
	b.Aliases = []string{"two"}

	_ = mergeActorProfiles([]models.ThreatActor{a, b})

	assert.Equal(t, []string{"one"}, a.Aliases)
	assert.Equal(t, 2, a.IndicatorCount())
	assert.Equal(t, 1, b.IndicatorCount())
}

func TestUnionStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, unionStrings([]string{"a", "b"}, []string{"b", "c", "a"}))
	assert.Equal(t, []string{"x"}, unionStrings(nil, []string{"x", "x"}))
	assert.Empty(t, unionStrings(nil, nil))
}
