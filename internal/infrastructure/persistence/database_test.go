package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// afeRow is a minimal model for exercising the organization scope
// without dragging in the full persistence mapping.
type afeRow struct {
	ID             uint
	OrganizationID string
	AfeNumber      string
	Status         string
}

func (afeRow) TableName() string { return "afes" }

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_WithOrganization(t *testing.T) {
	t.Run("scopes queries to the organization", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		organizationID := "550e8400-e29b-41d4-a716-446655440000"

		mock.ExpectQuery(`SELECT \* FROM "afes" WHERE organization_id = \$1`).
			WithArgs(organizationID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "afe_number", "status"}).
				AddRow(1, organizationID, "AFE-2026-00042", "DRAFT"))

		var results []afeRow
		err := db.WithOrganization(organizationID).Find(&results).Error
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "AFE-2026-00042", results[0].AfeNumber)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not modify the original DB handle", func(t *testing.T) {
		db, _, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		original := db.DB
		scoped := db.WithOrganization("550e8400-e29b-41d4-a716-446655440001")

		assert.NotEqual(t, original, scoped)
		assert.Equal(t, original, db.DB)
	})

	t.Run("panics on empty organization ID", func(t *testing.T) {
		db, _, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		assert.Panics(t, func() {
			db.WithOrganization("")
		})
	})

	t.Run("organization ID is passed as a bind parameter", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		// A hostile value must reach the driver as an argument, never
		// interpolated into the statement text.
		organizationID := "org'; DROP TABLE afes; --"

		mock.ExpectQuery(`SELECT \* FROM "afes" WHERE organization_id = \$1`).
			WithArgs(organizationID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id"}))

		var results []afeRow
		err := db.WithOrganization(organizationID).Find(&results).Error
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("composes with filters, ordering, and pagination", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		organizationID := "550e8400-e29b-41d4-a716-446655440002"

		mock.ExpectQuery(`SELECT \* FROM "afes" WHERE organization_id = \$1 AND status = \$2 ORDER BY afe_number ASC LIMIT \$3 OFFSET \$4`).
			WithArgs(organizationID, "SUBMITTED", 10, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "afe_number", "status"}).
				AddRow(6, organizationID, "AFE-2026-00106", "SUBMITTED"))

		var results []afeRow
		err := db.WithOrganization(organizationID).
			Where("status = ?", "SUBMITTED").
			Order("afe_number ASC").
			Limit(10).Offset(5).
			Find(&results).Error
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("different organizations get isolated scopes", func(t *testing.T) {
		db, _, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		first := db.WithOrganization("550e8400-e29b-41d4-a716-446655440003")
		second := db.WithOrganization("550e8400-e29b-41d4-a716-446655440004")

		assert.NotEqual(t, first, second)
	})
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		// Postgres GORM issues INSERT ... RETURNING as a query
		mock.ExpectQuery(`INSERT INTO "afes"`).
			WithArgs("550e8400-e29b-41d4-a716-446655440005", "AFE-2026-00200", "DRAFT").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&afeRow{
				OrganizationID: "550e8400-e29b-41d4-a716-446655440005",
				AfeNumber:      "AFE-2026-00200",
				Status:         "DRAFT",
			}).Error
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()

	assert.NoError(t, err)
	assert.IsType(t, ConnectionStats{}, stats)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.GreaterOrEqual(t, stats.WaitCount, int64(0))
	assert.GreaterOrEqual(t, stats.WaitDuration, time.Duration(0))
}

func TestDatabase_Ping(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	// GORM may ping during Open, so expect it first
	mock.ExpectPing()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	db := &Database{DB: gormDB}

	mock.ExpectPing()
	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
