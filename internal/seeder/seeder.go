// Package seeder generates synthetic multi-source intelligence feeds
// for demos and load testing. Generated feeds deliberately overlap in
// indicator values, actors, root domains, and creation-time bursts so
// every correlation pass has material to find.
package seeder

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Config controls feed generation.
type Config struct {
	Sources             []string
	IndicatorsPerSource int
	ActorsPerSource     int
	// OverlapRatio is the fraction of each source's indicators drawn
	// from the shared pool instead of generated fresh.
	OverlapRatio float64
	// TimeSpread is the window over which creation times are scattered,
	// ending at now. A cluster of indicators is additionally packed into
	// one hour to feed the temporal pass.
	TimeSpread time.Duration
	Seed       int64
}

// DefaultConfig returns a config that produces feeds rich enough to
// trigger every pass.
func DefaultConfig() Config {
	return Config{
		Sources:             []string{"alpha-feed", "bravo-feed", "charlie-feed"},
		IndicatorsPerSource: 200,
		ActorsPerSource:     8,
		OverlapRatio:        0.3,
		TimeSpread:          72 * time.Hour,
		Seed:                0,
	}
}

// Indicator mirrors the feed wire shape consumed by the collectors.
type Indicator struct {
	Value         string   `json:"value"`
	Kind          string   `json:"kind"`
	Confidence    int      `json:"confidence"`
	CreatedAt     string   `json:"created_at"`
	LastSeenAt    string   `json:"last_seen_at"`
	Tags          []string `json:"tags,omitempty"`
	ActorName     string   `json:"actor_name,omitempty"`
	MalwareFamily string   `json:"malware_family,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// Actor mirrors the feed wire shape consumed by the collectors.
type Actor struct {
	Name         string      `json:"name"`
	Aliases      []string    `json:"aliases,omitempty"`
	Country      string      `json:"country,omitempty"`
	Motivations  []string    `json:"motivations,omitempty"`
	Targets      []string    `json:"targets,omitempty"`
	TTPs         []string    `json:"ttps,omitempty"`
	Indicators   []Indicator `json:"indicators,omitempty"`
	FirstSeen    string      `json:"first_seen"`
	LastActivity string      `json:"last_activity"`
}

// Feed is one source's generated document.
type Feed struct {
	Indicators []Indicator `json:"indicators"`
	Actors     []Actor     `json:"actors"`
}

// Generator produces synthetic feeds from a shared threat landscape.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	faker *gofakeit.Faker

	actorNames []string
	families   []string
	roots      []string
	sharedPool []Indicator
}

// New creates a generator. A zero seed uses the current time.
func New(cfg Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(seed),
	}
	g.buildLandscape()
	return g
}

// Generate produces one feed per configured source.
func (g *Generator) Generate() map[string]*Feed {
	feeds := make(map[string]*Feed, len(g.cfg.Sources))
	for _, source := range g.cfg.Sources {
		feeds[source] = &Feed{
			Indicators: g.generateIndicators(),
			Actors:     g.generateActors(),
		}
	}
	return feeds
}

// WriteFeeds generates feeds and writes one <source>.json file per
// source into dir.
func (g *Generator) WriteFeeds(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for source, feed := range g.Generate() {
		data, err := json.MarshalIndent(feed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal feed %s: %w", source, err)
		}
		path := filepath.Join(dir, source+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// buildLandscape creates the shared actor, family, root-domain, and
// indicator pools every source draws from.
func (g *Generator) buildLandscape() {
	groups := []string{"Bear", "Panda", "Kitten", "Spider", "Chollima", "Jackal"}
	for i := 0; i < 8; i++ {
		g.actorNames = append(g.actorNames,
			fmt.Sprintf("APT-%d %s", 20+g.rng.Intn(60), groups[g.rng.Intn(len(groups))]))
	}

	suffixes := []string{"Loader", "RAT", "Stealer", "Locker", "Bot"}
	for i := 0; i < 6; i++ {
		g.families = append(g.families,
			g.faker.HackerNoun()+suffixes[g.rng.Intn(len(suffixes))])
	}

	for i := 0; i < 5; i++ {
		g.roots = append(g.roots, g.faker.DomainName())
	}

	// Shared pool: indicators multiple sources will report with their
	// own confidence and timestamps.
	poolSize := g.cfg.IndicatorsPerSource
	for i := 0; i < poolSize; i++ {
		g.sharedPool = append(g.sharedPool, g.newIndicator())
	}
}

func (g *Generator) generateIndicators() []Indicator {
	indicators := make([]Indicator, 0, g.cfg.IndicatorsPerSource)
	for i := 0; i < g.cfg.IndicatorsPerSource; i++ {
		var ind Indicator
		if g.rng.Float64() < g.cfg.OverlapRatio && len(g.sharedPool) > 0 {
			ind = g.sharedPool[g.rng.Intn(len(g.sharedPool))]
			// Same entity, independently observed: fresh confidence
			// and sighting times.
			ind.Confidence = 30 + g.rng.Intn(70)
		} else {
			ind = g.newIndicator()
		}
		created := g.creationTime(i)
		ind.CreatedAt = created.Format(time.RFC3339)
		ind.LastSeenAt = created.Add(time.Duration(g.rng.Intn(48)) * time.Hour).Format(time.RFC3339)
		indicators = append(indicators, ind)
	}
	return indicators
}

// creationTime scatters times over the spread but packs every tenth
// index into a single hour so the temporal pass has a window to find.
func (g *Generator) creationTime(index int) time.Time {
	now := time.Now().UTC()
	if index%10 == 0 {
		burst := now.Add(-g.cfg.TimeSpread / 2).Truncate(time.Hour)
		return burst.Add(time.Duration(g.rng.Intn(3600)) * time.Second)
	}
	offset := time.Duration(g.rng.Int63n(int64(g.cfg.TimeSpread)))
	return now.Add(-offset)
}

func (g *Generator) newIndicator() Indicator {
	ind := Indicator{
		Confidence: 30 + g.rng.Intn(70),
	}

	switch g.rng.Intn(5) {
	case 0:
		ind.Kind = "ip"
		ind.Value = g.faker.IPv4Address()
		ind.Description = "suspected C2 address"
	case 1:
		ind.Kind = "domain"
		root := g.roots[g.rng.Intn(len(g.roots))]
		ind.Value = g.faker.Word() + "." + root
		ind.Description = "malicious domain"
	case 2:
		ind.Kind = "url"
		ind.Value = "http://" + g.faker.DomainName() + "/" + g.faker.Word()
		ind.Description = "payload delivery URL"
	case 3:
		ind.Kind = "file_hash"
		ind.Value = g.hexString(64)
		ind.Description = "malware sample hash"
	default:
		ind.Kind = "email"
		ind.Value = g.faker.Email()
		ind.Description = "phishing sender"
	}

	if g.rng.Float64() < 0.5 {
		ind.ActorName = g.actorNames[g.rng.Intn(len(g.actorNames))]
	}
	if ind.Kind == "file_hash" || g.rng.Float64() < 0.3 {
		ind.MalwareFamily = g.families[g.rng.Intn(len(g.families))]
	}
	ind.Tags = []string{"synthetic"}
	return ind
}

func (g *Generator) generateActors() []Actor {
	count := g.cfg.ActorsPerSource
	if count > len(g.actorNames) {
		count = len(g.actorNames)
	}

	// Each source profiles a random subset of the shared actor pool, so
	// the orchestrator has same-named profiles to merge.
	perm := g.rng.Perm(len(g.actorNames))
	actors := make([]Actor, 0, count)
	for _, idx := range perm[:count] {
		name := g.actorNames[idx]
		first := time.Now().UTC().Add(-time.Duration(180+g.rng.Intn(900)) * 24 * time.Hour)
		last := time.Now().UTC().Add(-time.Duration(g.rng.Intn(30)) * 24 * time.Hour)

		actor := Actor{
			Name:         name,
			Aliases:      []string{g.faker.HackerNoun() + "-group"},
			Country:      g.faker.CountryAbr(),
			Motivations:  []string{pick(g.rng, "espionage", "financial", "disruption")},
			Targets:      []string{pick(g.rng, "government", "finance", "energy", "healthcare")},
			TTPs:         []string{pick(g.rng, "spearphishing attachments", "credential dumping", "supply chain compromise", "living off the land binaries")},
			FirstSeen:    first.Format(time.RFC3339),
			LastActivity: last.Format(time.RFC3339),
		}
		for i := 0; i < 3+g.rng.Intn(5); i++ {
			ind := g.newIndicator()
			ind.ActorName = name
			ind.CreatedAt = first.Format(time.RFC3339)
			ind.LastSeenAt = last.Format(time.RFC3339)
			actor.Indicators = append(actor.Indicators, ind)
		}
		actors = append(actors, actor)
	}
	return actors
}

func (g *Generator) hexString(n int) string {
	const hexdigits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = hexdigits[g.rng.Intn(len(hexdigits))]
	}
	return string(b)
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
