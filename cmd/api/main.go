package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/srgjo27/airline_desk/internal/adapter/handler"
	"github.com/srgjo27/airline_desk/internal/adapter/repository/filestore"
	"github.com/srgjo27/airline_desk/internal/app"
	"github.com/srgjo27/airline_desk/internal/config"
	"github.com/srgjo27/airline_desk/internal/platform/logger"
)

func main() {
	var configPath, seedDir string

	flagSet := pflag.NewFlagSet("airline-desk-api", pflag.ExitOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (default: ./config/config.yaml if present)")
	flagSet.StringVar(&seedDir, "seed-dir", "", "directory with flights/aircraft JSON documents to copy into an empty store")
	_ = flagSet.Parse(os.Args[1:])

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	desk, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialise booking desk")
	}
	defer desk.Close()

	if seedDir != "" {
		seed(ctx, desk, seedDir, log)
	}

	go desk.Auditor.RunBackgroundAudit(ctx, cfg.App.AuditInterval)

	mux := http.NewServeMux()
	handler.NewBookingHandler(desk.Booking, desk.Inventory, desk.Directory, log).Routes(mux)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Logger(log, mux),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server startup failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exiting")
}

func seed(ctx context.Context, desk *app.App, dir string, log logrus.FieldLogger) {
	src, err := filestore.NewDocumentStore(dir)
	if err != nil {
		log.WithError(err).Fatal("Failed to open seed directory")
	}

	copied, err := desk.Seed(ctx, src, desk.Config.App.FlightsDocument, desk.Config.App.AircraftDocument)
	if err != nil {
		log.WithError(err).Fatal("Failed to seed documents")
	}
	if len(copied) > 0 {
		log.WithField("documents", copied).Info("Seeded documents")
	}
}
