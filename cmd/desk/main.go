package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/srgjo27/airline_desk/internal/adapter/cli"
	"github.com/srgjo27/airline_desk/internal/adapter/repository/filestore"
	"github.com/srgjo27/airline_desk/internal/app"
	"github.com/srgjo27/airline_desk/internal/config"
	"github.com/srgjo27/airline_desk/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, seedDir string

	flagSet := pflag.NewFlagSet("airline-desk", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (default: ./config/config.yaml if present)")
	flagSet.StringVar(&seedDir, "seed-dir", "", "directory with flights/aircraft JSON documents to copy into an empty store")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The menu owns stdout, so log lines go to stderr.
	log := logger.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	desk, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer desk.Close()

	if seedDir != "" {
		src, err := filestore.NewDocumentStore(seedDir)
		if err != nil {
			return err
		}
		if _, err := desk.Seed(ctx, src, cfg.App.FlightsDocument, cfg.App.AircraftDocument); err != nil {
			return err
		}
	}

	return cli.NewMenu(desk.Booking, desk.Inventory, desk.Directory, os.Stdin, os.Stdout, log).Run(ctx)
}
