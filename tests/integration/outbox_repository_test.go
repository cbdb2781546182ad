package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/infrastructure/event"
)

func newOutboxEntry(t *testing.T, organizationID uuid.UUID) *shared.OutboxEntry {
	t.Helper()

	a := newTestAfe(t, organizationID, "AFE-OB-"+uuid.NewString()[:8])
	require.NoError(t, a.Submit())

	events := a.GetDomainEvents()
	require.NotEmpty(t, events)
	domainEvent := events[len(events)-1]

	payload, err := json.Marshal(domainEvent)
	require.NoError(t, err)

	return shared.NewOutboxEntry(organizationID, domainEvent, payload)
}

func TestOutboxRepository_SaveAndFindPending(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := event.NewGormOutboxRepository(tdb.DB)
	ctx := context.Background()

	organizationID := uuid.New()
	first := newOutboxEntry(t, organizationID)
	second := newOutboxEntry(t, organizationID)
	require.NoError(t, repo.Save(ctx, first, second))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	for _, entry := range pending {
		assert.Equal(t, shared.OutboxStatusPending, entry.Status)
		assert.Equal(t, "AfeSubmitted", entry.EventType)
		assert.Equal(t, organizationID, entry.OrganizationID)
	}
}

func TestOutboxRepository_MarkProcessingClaimsOnce(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := event.NewGormOutboxRepository(tdb.DB)
	ctx := context.Background()

	entry := newOutboxEntry(t, uuid.New())
	require.NoError(t, repo.Save(ctx, entry))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{entry.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, shared.OutboxStatusProcessing, claimed[0].Status)

	// A second claim for the same entry must come up empty.
	again, err := repo.MarkProcessing(ctx, []uuid.UUID{entry.ID})
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestOutboxRepository_SentEntriesLeavePendingQueue(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := event.NewGormOutboxRepository(tdb.DB)
	ctx := context.Background()

	entry := newOutboxEntry(t, uuid.New())
	require.NoError(t, repo.Save(ctx, entry))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{entry.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	claimed[0].MarkSent()
	require.NoError(t, repo.Update(ctx, claimed[0]))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[shared.OutboxStatusSent])
}

func TestOutboxRepository_FailedEntryBecomesRetryable(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := event.NewGormOutboxRepository(tdb.DB)
	ctx := context.Background()

	entry := newOutboxEntry(t, uuid.New())
	require.NoError(t, repo.Save(ctx, entry))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{entry.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	claimed[0].MarkFailed("bus unavailable")
	require.NoError(t, repo.Update(ctx, claimed[0]))

	retryable, err := repo.FindRetryable(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, shared.OutboxStatusFailed, retryable[0].Status)
	assert.Equal(t, 1, retryable[0].RetryCount)
}

func TestOutboxRepository_DeleteOlderThan(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()

	repo := event.NewGormOutboxRepository(tdb.DB)
	ctx := context.Background()

	entry := newOutboxEntry(t, uuid.New())
	require.NoError(t, repo.Save(ctx, entry))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{entry.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	claimed[0].MarkSent()
	require.NoError(t, repo.Update(ctx, claimed[0]))

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}
