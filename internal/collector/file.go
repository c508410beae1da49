package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// FileCollector reads a feed snapshot from a local JSON file. It serves
// offline runs and the synthetic feeds written by the seeder; the file
// uses the same document shape as the HTTP feed.
type FileCollector struct {
	name string
	path string
}

// NewFileCollector creates a collector backed by a JSON snapshot file.
func NewFileCollector(name, path string) *FileCollector {
	return &FileCollector{name: name, path: path}
}

func (c *FileCollector) Name() string { return c.name }

func (c *FileCollector) FetchIndicators(ctx context.Context) ([]models.Indicator, error) {
	doc, err := c.read()
	if err != nil {
		return nil, err
	}

	mapper := &FeedCollector{name: c.name}
	indicators := make([]models.Indicator, 0, len(doc.Indicators))
	for _, fi := range doc.Indicators {
		ind, err := mapper.mapIndicator(fi)
		if err != nil {
			continue
		}
		indicators = append(indicators, ind)
	}
	return indicators, nil
}

func (c *FileCollector) FetchActors(ctx context.Context) ([]models.ThreatActor, error) {
	doc, err := c.read()
	if err != nil {
		return nil, err
	}

	mapper := &FeedCollector{name: c.name}
	actors := make([]models.ThreatActor, 0, len(doc.Actors))
	for _, fa := range doc.Actors {
		actors = append(actors, mapper.mapActor(fa))
	}
	return actors, nil
}

// CheckHealth reports whether the snapshot file is readable.
func (c *FileCollector) CheckHealth(ctx context.Context) bool {
	_, err := os.Stat(c.path)
	return err == nil
}

func (c *FileCollector) read() (*feedResponse, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("file source %s: %w", c.name, err)
	}
	var doc feedResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("file source %s: failed to parse %s: %w", c.name, c.path, err)
	}
	return &doc, nil
}
