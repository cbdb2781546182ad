package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellfield/backend/internal/domain/afe"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/shared/valueobject"
	"github.com/wellfield/backend/internal/infrastructure/persistence"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func newTestAfe(t *testing.T, organizationID uuid.UUID, afeNumber string) *afe.Afe {
	t.Helper()

	a, err := afe.NewAfe(
		organizationID,
		afeNumber,
		uuid.New(),
		"Spindletop 7H",
		afe.AfeCategoryDrilling,
		"Drill and case surface hole",
		valueobject.NewMoneyUSDFromFloat(250000),
	)
	require.NoError(t, err)
	return a
}

func TestAfeRepository_SaveAndFindByID(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormAfeRepository(tdb.DB)
	ctx := context.Background()

	organizationID := uuid.New()
	created := newTestAfe(t, organizationID, "AFE-2026-0001")
	require.NoError(t, repo.Save(ctx, created))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "AFE-2026-0001", found.AfeNumber)
	assert.Equal(t, afe.AfeStatusDraft, found.Status)
	assert.Equal(t, 1, found.Version)
	assert.True(t, found.EstimatedCost.Amount().Equal(created.EstimatedCost.Amount()))
}

func TestAfeRepository_FindByNumber_ScopedToOrganization(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormAfeRepository(tdb.DB)
	ctx := context.Background()

	org1 := uuid.New()
	org2 := uuid.New()

	// The same AFE number may exist in different organizations.
	require.NoError(t, repo.Save(ctx, newTestAfe(t, org1, "AFE-2026-0007")))
	require.NoError(t, repo.Save(ctx, newTestAfe(t, org2, "AFE-2026-0007")))

	found, err := repo.FindByNumber(ctx, org1, "AFE-2026-0007")
	require.NoError(t, err)
	assert.Equal(t, org1, found.OrganizationID)

	_, err = repo.FindByNumber(ctx, uuid.New(), "AFE-2026-0007")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAfeRepository_DuplicateNumberInOrganizationRejected(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormAfeRepository(tdb.DB)
	ctx := context.Background()

	organizationID := uuid.New()
	require.NoError(t, repo.Save(ctx, newTestAfe(t, organizationID, "AFE-2026-0042")))

	err := repo.Save(ctx, newTestAfe(t, organizationID, "AFE-2026-0042"))
	require.Error(t, err, "unique index on (organization_id, afe_number) must reject the duplicate")
}

func TestAfeRepository_OptimisticLocking(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormAfeRepository(tdb.DB)
	ctx := context.Background()

	organizationID := uuid.New()
	created := newTestAfe(t, organizationID, "AFE-2026-0100")
	require.NoError(t, repo.Save(ctx, created))

	// Two actors load the same draft.
	first, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, first.Submit())
	require.NoError(t, repo.Save(ctx, first))

	// The second actor still holds version 1, its write must lose.
	require.NoError(t, second.Submit())
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	current, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, afe.AfeStatusSubmitted, current.Status)
	assert.Equal(t, 2, current.Version)
}

func TestAfeRepository_FindOverdue(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormAfeRepository(tdb.DB)
	ctx := context.Background()

	organizationID := uuid.New()

	overdue := newTestAfe(t, organizationID, "AFE-2026-0200")
	require.NoError(t, overdue.Submit())
	past := time.Now().AddDate(0, 0, -45)
	overdue.SubmittedAt = &past
	require.NoError(t, repo.Save(ctx, overdue))

	fresh := newTestAfe(t, organizationID, "AFE-2026-0201")
	require.NoError(t, fresh.Submit())
	require.NoError(t, repo.Save(ctx, fresh))

	stillDraft := newTestAfe(t, organizationID, "AFE-2026-0202")
	require.NoError(t, repo.Save(ctx, stillDraft))

	cutoff := time.Now().AddDate(0, 0, -30)
	found, err := repo.FindOverdue(ctx, organizationID, cutoff)
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, "AFE-2026-0200", found[0].AfeNumber)
}

func TestAfeRepository_FindAllForOrganization_Pagination(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := persistence.NewGormAfeRepository(tdb.DB)
	ctx := context.Background()

	organizationID := uuid.New()
	for _, number := range []string{"AFE-2026-0301", "AFE-2026-0302", "AFE-2026-0303"} {
		require.NoError(t, repo.Save(ctx, newTestAfe(t, organizationID, number)))
	}
	require.NoError(t, repo.Save(ctx, newTestAfe(t, uuid.New(), "AFE-2026-0999")))

	filter := shared.Filter{
		Page:     1,
		PageSize: 2,
		OrderBy:  "afe_number",
		OrderDir: "asc",
	}
	page, err := repo.FindAllForOrganization(ctx, organizationID, filter)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "AFE-2026-0301", page[0].AfeNumber)
	assert.Equal(t, "AFE-2026-0302", page[1].AfeNumber)

	count, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}
