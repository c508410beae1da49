package collector

import (
	"fmt"

	"github.com/threatmesh-systems/threatmesh/internal/config"
)

// FromConfig builds the collectors for every enabled source entry.
// Unknown source types are an error: a silently dropped source would
// look identical to a healthy-but-empty feed.
func FromConfig(sources []config.SourceConfig) ([]Collector, error) {
	collectors := make([]Collector, 0, len(sources))
	for _, src := range sources {
		if !src.Enabled {
			continue
		}
		switch src.Type {
		case "feed":
			if src.URL == "" {
				return nil, fmt.Errorf("source %s: feed sources require a url", src.Name)
			}
			collectors = append(collectors, NewFeedCollector(src.Name, src.URL, src.APIKey, src.Timeout))
		case "file":
			if src.Path == "" {
				return nil, fmt.Errorf("source %s: file sources require a path", src.Name)
			}
			collectors = append(collectors, NewFileCollector(src.Name, src.Path))
		default:
			return nil, fmt.Errorf("source %s: unknown source type %q", src.Name, src.Type)
		}
	}
	return collectors, nil
}
