package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/threatmesh-systems/threatmesh/internal/archive"
	"github.com/threatmesh-systems/threatmesh/internal/handlers"
	"github.com/threatmesh-systems/threatmesh/internal/repository"
	"github.com/threatmesh-systems/threatmesh/internal/server"
)

var migrationsPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP API",
	Long: `Starts the HTTP API for triggering analyses and browsing past
reports. Uses PostgreSQL for report history when configured, otherwise
an in-memory store.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&migrationsPath, "migrations", "file://migrations", "migrations source URL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := context.Background()

	orch, err := buildOrchestrator(ctx, logger)
	if err != nil {
		return err
	}

	if cfg.OpenSearch.Enabled {
		archiver, err := archive.NewClient(cfg.OpenSearch)
		if err != nil {
			logger.Warn("opensearch unavailable, archiving disabled", "error", err.Error())
		} else {
			orch.SetArchiver(archiver)
		}
	}

	var repo repository.Repository
	if cfg.Database.Enabled {
		connString := cfg.Database.ConnString()

		logger.Info("running database migrations")
		m, err := migrate.New(migrationsPath, connString)
		if err != nil {
			return fmt.Errorf("failed to initialize migrations: %w", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		repo, err = repository.NewPostgresRepository(ctx, connString)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
	} else {
		logger.Info("database disabled, using in-memory report store")
		repo = repository.NewMemoryRepository()
	}
	defer repo.Close()

	handler := handlers.NewHandler(orch, repo, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("threatmesh API listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
