// Command atc-server runs the headless session + tool-dispatch engine
// as an HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/airtrafficctl/atc/internal/config"
	"github.com/airtrafficctl/atc/internal/event"
	"github.com/airtrafficctl/atc/internal/httpserver"
	"github.com/airtrafficctl/atc/internal/logging"
	"github.com/airtrafficctl/atc/internal/store/sqlite"
	"github.com/airtrafficctl/atc/internal/tool"
)

var (
	projectRoot string
	listenAddr  string
	dbPath      string
)

var rootCmd = &cobra.Command{
	Use:   "atc-server",
	Short: "Run the air traffic control session engine as an HTTP service",
	RunE:  runServe,
}

func init() {
	rootCmd.Flags().StringVar(&projectRoot, "project-root", "", "Project directory whose .atc/config.json(c) is loaded")
	rootCmd.Flags().StringVar(&listenAddr, "listen", "", "Override the configured listen address")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Override the configured sqlite database path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Fatal().Err(err).Msg("atc-server exited")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	workDir := projectRoot
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		workDir = wd
	}

	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return err
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	ctx := context.Background()
	db, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	reg := tool.DefaultRegistry(db)
	bus := event.NewBus()
	defer bus.Close()

	srv := httpserver.New(*cfg, db, reg, bus)

	go func() {
		logging.Info().Str("addr", cfg.ListenAddr).Msg("atc-server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down atc-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}

	logging.Info().Msg("atc-server stopped")
	return nil
}
