package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/wellfield/backend/internal/infrastructure/config"
	"github.com/wellfield/backend/internal/infrastructure/logger"
	"github.com/wellfield/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	path, err := resolveMigrationsPath(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	command, commandArgs := args[0], args[1:]
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", path),
	)

	if err := run(log, path, command, commandArgs); err != nil {
		log.Fatal("Command failed", zap.String("command", command), zap.Error(err))
	}
}

// run dispatches the command, opening a database connection only for the
// commands that need one.
func run(log *zap.Logger, path, command string, args []string) error {
	switch command {
	case "create":
		return createCommand(log, path, args)
	case "list":
		return listCommand(log, path)
	case "up", "down", "step", "goto", "version", "force", "drop":
		// Handled below with a live connection.
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	m, err := migration.New(db, path, log)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	return migratorCommand(log, m, command, args)
}

func createCommand(log *zap.Logger, path string, args []string) error {
	if len(args) < 1 {
		return errors.New("migration name required. Usage: migrate create <name> [description]")
	}
	name := args[0]
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(path, name, description)
	if err != nil {
		return err
	}

	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func listCommand(log *zap.Logger, path string) error {
	migrations, err := migration.ListMigrations(path)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		log.Info("No migrations found")
		return nil
	}

	log.Info("Available migrations", zap.Int("count", len(migrations)))
	for _, m := range migrations {
		fmt.Println("  -", m)
	}
	return nil
}

func migratorCommand(log *zap.Logger, m *migration.Migrator, command string, args []string) error {
	switch command {
	case "up":
		return m.Up()

	case "down":
		return m.Down()

	case "step":
		n, err := argInt(args, "step count required. Usage: migrate step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)

	case "goto":
		if len(args) < 1 {
			return errors.New("version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		return m.GoTo(uint(version))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}
		return nil

	case "force":
		version, err := argInt(args, "version required. Usage: migrate force <version>")
		if err != nil {
			return err
		}
		log.Warn("Forcing migration version - use with caution!")
		return m.Force(version)

	case "drop":
		if !hasConfirmFlag(args) {
			return errors.New("drop cancelled. Use 'migrate drop -confirm' to confirm")
		}
		log.Warn("Dropping all database objects")
		return m.Drop()
	}
	return fmt.Errorf("unknown command: %s", command)
}

func argInt(args []string, missingMsg string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New(missingMsg)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", args[0])
	}
	return n, nil
}

func hasConfirmFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return true
		}
	}
	return false
}

// resolveMigrationsPath expands the -path flag, falling back to ./migrations
// and then to the directory next to the executable.
func resolveMigrationsPath(flagValue string) (string, error) {
	path := flagValue
	if path == "" {
		if _, err := os.Stat(defaultMigrationsPath); err == nil {
			path = defaultMigrationsPath
		} else if execPath, err := os.Executable(); err == nil {
			candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsPath)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
		if path == "" {
			path = defaultMigrationsPath
		}
	}
	return filepath.Abs(path)
}

func printUsage() {
	fmt.Println(`Wellfield Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  WELLFIELD_DATABASE_HOST, WELLFIELD_DATABASE_PORT, WELLFIELD_DATABASE_USER,
  WELLFIELD_DATABASE_PASSWORD, WELLFIELD_DATABASE_NAME, WELLFIELD_DATABASE_SSL_MODE

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Create a new migration
  migrate create add_partner_approvals "One row per AFE and partner decision"

  # Check current version
  migrate version`)
}
