package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/threatmesh-systems/threatmesh/internal/config"
	"github.com/threatmesh-systems/threatmesh/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "threatmesh",
	Short: "ThreatMesh threat intelligence correlation",
	Long: `threatmesh collects indicators of compromise and threat actor
profiles from multiple intelligence sources, deduplicates them, and
correlates them into scored findings and infrastructure pivots.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or /etc/threatmesh/config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load config: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the loaded config.
func newLogger() *logging.Logger {
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)
	return logger
}
