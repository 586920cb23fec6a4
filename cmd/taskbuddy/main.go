package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/raghavn86/TaskBuddy/internal/cli"
	"github.com/raghavn86/TaskBuddy/internal/cli/formatter"
	"github.com/raghavn86/TaskBuddy/internal/config"
	"github.com/raghavn86/TaskBuddy/internal/service"
	"github.com/raghavn86/TaskBuddy/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("TASKBUDDY_CONFIG"))
	if err != nil {
		return err
	}

	planStore, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening plan store: %w", err)
	}
	defer planStore.Close()

	var logWriter io.Writer
	if cfg.LogOps {
		logWriter = os.Stderr
	}

	// Piped output gets plain text.
	if cfg.NoColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	app := &cli.App{
		Plans: service.NewPlanService(planStore,
			service.WithObserver(service.NewLogUseCaseObserver(logWriter)),
			service.WithRetry(cfg.RetryAttempts, time.Duration(cfg.RetryDelayMs)*time.Millisecond),
		),
		Config: cfg,
	}

	return cli.NewRootCmd(app).Execute()
}
