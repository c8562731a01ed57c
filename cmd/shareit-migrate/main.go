// Package main is the entry point for the ShareIt database migration tool.
// It manages schema migrations for both the SQLite and PostgreSQL backends.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/config"
	"github.com/shareit-project/shareit/internal/repository/postgres"
	"github.com/shareit-project/shareit/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	flags := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := flags.String("config", "", "path to config file")

	switch command {
	case "version":
		fmt.Printf("ShareIt Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up":
		_ = flags.Parse(os.Args[2:])
		runCommand(*configPath, migrateUp)

	case "status":
		_ = flags.Parse(os.Args[2:])
		runCommand(*configPath, migrateStatus)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// migrator is what both backends expose for schema management.
type migrator interface {
	Migrate(ctx context.Context) error
	MigrationVersion(ctx context.Context) (int, error)
	Close() error
}

func runCommand(configPath string, fn func(ctx context.Context, db migrator) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.MustLoad(configPath)

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := fn(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (migrator, error) {
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	switch cfg.Database.Driver {
	case "sqlite":
		return sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
	case "postgres":
		return postgres.NewDB(ctx, cfg.Database, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func migrateUp(ctx context.Context, db migrator) error {
	before, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	after, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}

	if after == before {
		fmt.Printf("No pending migrations (version %d)\n", after)
	} else {
		fmt.Printf("Migrated from version %d to %d\n", before, after)
	}
	return nil
}

func migrateStatus(ctx context.Context, db migrator) error {
	version, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}

	if version == 0 {
		fmt.Println("Database is not migrated")
	} else {
		fmt.Printf("Current schema version: %d\n", version)
	}
	return nil
}

func printUsage() {
	fmt.Println(`ShareIt Migration Tool

Usage:
  shareit-migrate <command> [arguments]

Commands:
  up          Apply all pending migrations
  status      Show the current schema version
  version     Print version information
  help        Show this help message

Flags:
  -config     Path to the config file (default: ./config.yaml, ./configs/config.yaml)

The database backend and its connection settings come from the same
configuration the server reads, including SHAREIT_ environment
variables such as SHAREIT_DATABASE_DRIVER and SHAREIT_DATABASE_PATH.

Examples:
  shareit-migrate up
  shareit-migrate up -config ./configs/config.yaml
  shareit-migrate status`)
}
