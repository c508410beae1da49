package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// feedIndicator is the wire shape of one indicator record on a JSON feed.
type feedIndicator struct {
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

// feedActor is the wire shape of one actor profile on a JSON feed.
type feedActor struct {
	Name         string          `json:"name"`
	Aliases      []string        `json:"aliases,omitempty"`
	Country      string          `json:"country,omitempty"`
	Motivations  []string        `json:"motivations,omitempty"`
	Targets      []string        `json:"targets,omitempty"`
	TTPs         []string        `json:"ttps,omitempty"`
	Indicators   []feedIndicator `json:"indicators,omitempty"`
	FirstSeen    string          `json:"first_seen"`
	LastActivity string          `json:"last_activity"`
}

type feedResponse struct {
	Indicators []feedIndicator `json:"indicators"`
	Actors     []feedActor     `json:"actors"`
}

// FeedCollector pulls indicators and actors from an HTTP JSON feed.
// It expects GET {baseURL}/indicators and GET {baseURL}/actors to
// return feed documents; the API key, when set, is passed through as a
// bearer credential.
type FeedCollector struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewFeedCollector creates a collector for an HTTP JSON feed.
func NewFeedCollector(name, baseURL, apiKey string, timeout time.Duration) *FeedCollector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FeedCollector{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *FeedCollector) Name() string { return c.name }

// FetchIndicators retrieves and maps the feed's indicator records.
func (c *FeedCollector) FetchIndicators(ctx context.Context) ([]models.Indicator, error) {
	doc, err := c.fetch(ctx, "/indicators")
	if err != nil {
		return nil, err
	}

	indicators := make([]models.Indicator, 0, len(doc.Indicators))
	for _, fi := range doc.Indicators {
		ind, err := c.mapIndicator(fi)
		if err != nil {
			// Malformed records are skipped, not fatal for the feed.
			continue
		}
		indicators = append(indicators, ind)
	}
	return indicators, nil
}

// FetchActors retrieves and maps the feed's actor profiles.
func (c *FeedCollector) FetchActors(ctx context.Context) ([]models.ThreatActor, error) {
	doc, err := c.fetch(ctx, "/actors")
	if err != nil {
		return nil, err
	}

	actors := make([]models.ThreatActor, 0, len(doc.Actors))
	for _, fa := range doc.Actors {
		actors = append(actors, c.mapActor(fa))
	}
	return actors, nil
}

// CheckHealth reports whether the feed answers on /health.
func (c *FeedCollector) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (c *FeedCollector) fetch(ctx context.Context, path string) (*feedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed %s: request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed %s: unexpected status %d: %s", c.name, resp.StatusCode, string(body))
	}

	var doc feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("feed %s: failed to decode response: %w", c.name, err)
	}
	return &doc, nil
}

func (c *FeedCollector) mapIndicator(fi feedIndicator) (models.Indicator, error) {
	kind := models.IndicatorKind(fi.Kind)
	if !kind.IsValid() {
		return models.Indicator{}, fmt.Errorf("invalid indicator kind: %q", fi.Kind)
	}
	if fi.Value == "" {
		return models.Indicator{}, fmt.Errorf("empty indicator value")
	}

	confidence := fi.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return models.Indicator{
		Value:         fi.Value,
		Kind:          kind,
		Source:        c.name,
		Confidence:    confidence,
		CreatedAt:     parseFeedTime(fi.CreatedAt),
		LastSeenAt:    parseFeedTime(fi.LastSeenAt),
		Tags:          fi.Tags,
		ActorName:     fi.ActorName,
		MalwareFamily: fi.MalwareFamily,
		Description:   fi.Description,
	}, nil
}

func (c *FeedCollector) mapActor(fa feedActor) models.ThreatActor {
	actor := models.ThreatActor{
		Name:         fa.Name,
		Aliases:      fa.Aliases,
		Country:      fa.Country,
		Motivations:  fa.Motivations,
		Targets:      fa.Targets,
		TTPs:         fa.TTPs,
		FirstSeen:    parseFeedTime(fa.FirstSeen),
		LastActivity: parseFeedTime(fa.LastActivity),
	}
	for _, fi := range fa.Indicators {
		ind, err := c.mapIndicator(fi)
		if err != nil {
			continue
		}
		actor.AddIndicator(ind)
	}
	return actor
}

// parseFeedTime accepts RFC3339 or date-only timestamps; zero time on
// anything else.
func parseFeedTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
