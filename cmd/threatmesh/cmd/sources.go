package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/threatmesh-systems/threatmesh/internal/collector"
	"github.com/threatmesh-systems/threatmesh/pkg/output"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured intelligence sources and check their health",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	newLogger()

	collectors, err := collector.FromConfig(cfg.Sources)
	if err != nil {
		return err
	}
	if len(collectors) == 0 {
		output.Warn("no enabled sources configured")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	table := output.NewTable("SOURCE", "HEALTHY")
	for _, c := range collectors {
		healthy := "no"
		if c.CheckHealth(ctx) {
			healthy = "yes"
		}
		table.AddRow(c.Name(), healthy)
	}
	table.Render()
	return nil
}
