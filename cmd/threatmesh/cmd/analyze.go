package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/threatmesh-systems/threatmesh/internal/cache"
	"github.com/threatmesh-systems/threatmesh/internal/collector"
	"github.com/threatmesh-systems/threatmesh/internal/correlation"
	"github.com/threatmesh-systems/threatmesh/internal/logging"
	"github.com/threatmesh-systems/threatmesh/internal/messaging"
	"github.com/threatmesh-systems/threatmesh/internal/models"
	"github.com/threatmesh-systems/threatmesh/internal/orchestrator"
	"github.com/threatmesh-systems/threatmesh/internal/publisher"
	"github.com/threatmesh-systems/threatmesh/internal/report"
	"github.com/threatmesh-systems/threatmesh/pkg/output"
)

var (
	analyzeJSON    bool
	analyzeOutJSON string
	analyzeOutCSV  string
	analyzeOutMD   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a full collection and correlation analysis",
	Long: `Runs one batch analysis: fetches indicators and actors from every
configured source in parallel, deduplicates and merges them, runs the
correlation and pivot passes, and prints the resulting report.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full report as JSON")
	analyzeCmd.Flags().StringVar(&analyzeOutJSON, "out-json", "", "write the full report to a JSON file")
	analyzeCmd.Flags().StringVar(&analyzeOutCSV, "out-csv", "", "write correlation findings to a CSV file")
	analyzeCmd.Flags().StringVar(&analyzeOutMD, "out-md", "", "write a Markdown summary file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := context.Background()

	orch, err := buildOrchestrator(ctx, logger)
	if err != nil {
		return err
	}

	rep := orch.ExecuteFullAnalysis(ctx)

	if analyzeOutJSON != "" {
		if err := report.WriteJSON(rep, analyzeOutJSON); err != nil {
			return err
		}
		output.Success("report written to %s", analyzeOutJSON)
	}
	if analyzeOutCSV != "" {
		if err := report.WriteCSV(rep, analyzeOutCSV); err != nil {
			return err
		}
		output.Success("findings written to %s", analyzeOutCSV)
	}
	if analyzeOutMD != "" {
		if err := report.WriteMarkdown(rep, analyzeOutMD); err != nil {
			return err
		}
		output.Success("summary written to %s", analyzeOutMD)
	}

	if analyzeJSON {
		return output.JSON(rep)
	}

	printReportSummary(rep)
	return nil
}

// buildOrchestrator wires collectors, engine, and the optional Redis
// and NATS stages from the loaded configuration.
func buildOrchestrator(ctx context.Context, logger *logging.Logger) (*orchestrator.Orchestrator, error) {
	collectors, err := collector.FromConfig(cfg.Sources)
	if err != nil {
		return nil, err
	}
	if len(collectors) == 0 {
		return nil, fmt.Errorf("no enabled sources configured")
	}

	engine := correlation.NewEngine(correlation.Config{
		MaxIndicatorsPerResult: cfg.Analysis.MaxIndicatorsPerCorrelation,
		IgnoredRootDomains:     cfg.Analysis.IgnoredRootDomains,
	}, logger)

	orch := orchestrator.New(collectors, engine, cfg.Analysis, logger)

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		seen := cache.New(client, cfg.Redis.SeenTTL)
		if err := seen.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, first-seen tagging disabled", "error", err.Error())
		} else {
			orch.SetSeenCache(seen)
		}
	}

	if cfg.NATS.Enabled {
		natsCfg := messaging.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.Name = cfg.NATS.Name
		client, err := messaging.NewClient(natsCfg)
		if err != nil {
			logger.Warn("nats unavailable, findings publishing disabled", "error", err.Error())
		} else {
			orch.SetPublisher(publisher.New(client))
		}
	}

	return orch, nil
}

func printReportSummary(rep *models.AnalysisReport) {
	output.Info("Analysis %s completed in %d ms", rep.ID, rep.ElapsedMS)
	if rep.ErrorMessage != "" {
		output.Error("pipeline error: %s", rep.ErrorMessage)
	}
	fmt.Println()

	totals := output.NewTable("INDICATORS", "ACTORS", "CORRELATIONS", "HIGH-CONF", "PIVOTS")
	totals.AddRow(
		fmt.Sprint(rep.TotalIndicators),
		fmt.Sprint(rep.TotalActors),
		fmt.Sprint(len(rep.Correlations)),
		fmt.Sprint(len(rep.HighConfidenceCorrelations)),
		fmt.Sprint(len(rep.Pivots)),
	)
	totals.Render()
	fmt.Println()

	if len(rep.HighConfidenceCorrelations) > 0 {
		findings := output.NewTable("SCORE", "TYPE", "DESCRIPTION")
		for _, c := range rep.HighConfidenceCorrelations {
			findings.AddRow(fmt.Sprintf("%.2f", c.ConfidenceScore), string(c.Type), c.Description)
		}
		findings.Render()
		fmt.Println()
	}

	if len(rep.Pivots) > 0 {
		pivots := output.NewTable("SCORE", "TYPE", "INDICATOR", "ACTORS")
		for _, p := range rep.Pivots {
			pivots.AddRow(
				fmt.Sprintf("%.2f", p.ConfidenceScore),
				string(p.Type),
				p.Indicator.Value,
				fmt.Sprint(len(p.ActorNames)),
			)
		}
		pivots.Render()
	}
}
