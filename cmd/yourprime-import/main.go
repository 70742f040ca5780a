package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rotnitxe/yourprime/internal/config"
	"github.com/rotnitxe/yourprime/internal/importer"
	"github.com/rotnitxe/yourprime/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("path", "", "path to directory of YourPrime JSON exports (required)")
	stateDir := flag.String("state-dir", ".yourprime-import", "directory for the import state database")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: yourprime-import -config config.yaml -path /path/to/exports [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Verify export directory exists
	info, err := os.Stat(*exportPath)
	if err != nil || !info.IsDir() {
		log.Error("export path does not exist or is not a directory", "path", *exportPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	settings, err := cfg.Settings.EngineSettings()
	if err != nil {
		log.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Open the dedup state db
	state, err := importer.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Run import
	imp := importer.New(db, settings.WeightUnit, log, *dryRun)
	stats, err := imp.Import(ctx, *exportPath, state)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"workouts_inserted", stats.WorkoutsInserted,
		"workouts_duplicated", stats.WorkoutsDuplicated,
		"sleep_logs_upserted", stats.SleepLogsUpserted,
		"feedback_upserted", stats.FeedbackUpserted,
		"exercises_upserted", stats.ExercisesUpserted,
		"sets_skipped", stats.SetsSkipped,
		"records_errored", stats.RecordsErrored,
	)
}
