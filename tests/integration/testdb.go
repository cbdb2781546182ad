// Package integration provides the database harness for the wellfield
// integration tests. Each test talks to a real PostgreSQL instance started
// through testcontainers, with the full migration set applied.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The shared container is started once per package run and reused by every
// test that calls NewSharedTestDB.
var (
	sharedMu           sync.Mutex
	sharedContainer    testcontainers.Container
	sharedContainerDSN string
)

// TestDB bundles the GORM handle, the raw connection, and the container
// backing a test database.
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// startPostgres launches a PostgreSQL container and returns it with its DSN.
func startPostgres(t *testing.T, dbName string) (testcontainers.Container, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	return container, dsn
}

// NewTestDB starts a dedicated container for the calling test. Use this when
// the test mutates global database state that CleanTables cannot undo.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	container, dsn := startPostgres(t, "wellfield_test")
	db, sqlDB := connect(t, dsn)
	applyMigrations(t, sqlDB)

	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: container, DSN: dsn, t: t}
	t.Cleanup(tdb.Close)
	return tdb
}

// NewSharedTestDB returns a connection to the package-wide shared container,
// starting it and applying migrations on first use. Tests are expected to
// call CleanTables to reset state.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedMu.Lock()
	if sharedContainer == nil {
		container, dsn := startPostgres(t, "wellfield_shared_test")

		_, sqlDB := connect(t, dsn)
		applyMigrations(t, sqlDB)
		sqlDB.Close()

		sharedContainer = container
		sharedContainerDSN = dsn
	}
	dsn := sharedContainerDSN
	sharedMu.Unlock()

	db, sqlDB := connect(t, dsn)
	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: sharedContainer, DSN: dsn, t: t}

	// The container outlives the test; only the connection is closed here.
	t.Cleanup(func() {
		if tdb.SqlDB != nil {
			tdb.SqlDB.Close()
		}
	})
	return tdb
}

// Close releases the connection and, for dedicated containers, terminates
// the container.
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		tdb.SqlDB.Close()
	}

	if tdb.Container != nil && tdb.Container != sharedContainer {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("Warning: Failed to terminate container: %v", err)
		}
	}
}

// CleanTables truncates every application table, leaving schema_migrations
// intact so migrations are not re-applied.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("Warning: Failed to truncate table %s: %v", table, err)
		}
	}
}

// WithTransaction runs fn inside a transaction that is always rolled back,
// for tests that want isolation without truncation.
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "Failed to begin transaction")
	defer tx.Rollback()

	fn(tx)
}

func connect(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "Could not find migrations directory")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "Failed to create migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	require.NoError(t, err, "Failed to create migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to run migrations")
	}
}

// findMigrationsPath walks up from this file (and then from the working
// directory) until it finds the migrations directory.
func findMigrationsPath() string {
	var roots []string

	if _, filename, _, ok := runtime.Caller(0); ok {
		dir := filepath.Dir(filename)
		for i := 0; i < 5; i++ {
			roots = append(roots, dir)
			dir = filepath.Dir(dir)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		roots = append(roots, wd, filepath.Dir(wd), filepath.Dir(filepath.Dir(wd)))
	}

	for _, root := range roots {
		candidate := filepath.Join(root, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// CleanupSharedContainer terminates the shared container. Call it from
// TestMain after m.Run.
func CleanupSharedContainer() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}
