package cmd

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/threatmesh-systems/threatmesh/internal/seeder"
	"github.com/threatmesh-systems/threatmesh/pkg/output"
)

var (
	seedDir     string
	seedSources string
	seedCount   int
	seedOverlap float64
	seedSpread  time.Duration
	seedSeed    int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic intelligence feed files",
	Long: `Generates overlapping synthetic feeds, one JSON file per source,
suitable for file-type sources. Feeds share indicator values, actors,
and root domains so every correlation pass has findings to produce.`,
	RunE: runSeed,
}

func init() {
	defaults := seeder.DefaultConfig()
	seedCmd.Flags().StringVar(&seedDir, "dir", "./feeds", "output directory for feed files")
	seedCmd.Flags().StringVar(&seedSources, "sources", strings.Join(defaults.Sources, ","), "comma-separated source names")
	seedCmd.Flags().IntVar(&seedCount, "count", defaults.IndicatorsPerSource, "indicators per source")
	seedCmd.Flags().Float64Var(&seedOverlap, "overlap", defaults.OverlapRatio, "fraction of indicators shared across sources")
	seedCmd.Flags().DurationVar(&seedSpread, "spread", defaults.TimeSpread, "time window for indicator creation times")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "random seed (0 = current time)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	gencfg := seeder.DefaultConfig()
	gencfg.Sources = strings.Split(seedSources, ",")
	gencfg.IndicatorsPerSource = seedCount
	gencfg.OverlapRatio = seedOverlap
	gencfg.TimeSpread = seedSpread
	gencfg.Seed = seedSeed

	gen := seeder.New(gencfg)
	if err := gen.WriteFeeds(seedDir); err != nil {
		return err
	}

	output.Success("wrote %d feeds to %s", len(gencfg.Sources), seedDir)
	output.Info("add them to config as file sources:")
	output.Info("\n%s", sourcesSnippet(gencfg.Sources, seedDir))
	return nil
}

// sourcesSnippet renders a ready-to-paste sources block for the config file.
func sourcesSnippet(sources []string, dir string) string {
	type entry struct {
		Name    string `yaml:"name"`
		Type    string `yaml:"type"`
		Path    string `yaml:"path"`
		Enabled bool   `yaml:"enabled"`
	}
	block := map[string][]entry{"sources": {}}
	for _, s := range sources {
		block["sources"] = append(block["sources"], entry{
			Name:    s,
			Type:    "file",
			Path:    filepath.Join(dir, s+".json"),
			Enabled: true,
		})
	}
	data, err := yaml.Marshal(block)
	if err != nil {
		return ""
	}
	return string(data)
}
