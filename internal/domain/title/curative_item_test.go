package title

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T) *CurativeItem {
	t.Helper()
	ci, err := NewCurativeItem(uuid.New(), uuid.New(), "Smith Ranch A",
		"MISSING_PROBATE", "Heirship of J. Smith undetermined, 1/8 mineral interest",
		CurativeSeverityHigh)
	require.NoError(t, err)
	return ci
}

func TestCurativeStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     CurativeStatus
		to       CurativeStatus
		expected bool
	}{
		{CurativeStatusOpen, CurativeStatusInProgress, true},
		{CurativeStatusOpen, CurativeStatusResolved, false},
		{CurativeStatusOpen, CurativeStatusWaived, false},
		{CurativeStatusInProgress, CurativeStatusResolved, true},
		{CurativeStatusInProgress, CurativeStatusWaived, true},
		{CurativeStatusInProgress, CurativeStatusOpen, false},
		{CurativeStatusResolved, CurativeStatusOpen, false},
		{CurativeStatusWaived, CurativeStatusInProgress, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestNewCurativeItem(t *testing.T) {
	organizationID := uuid.New()
	leaseID := uuid.New()

	ci, err := NewCurativeItem(organizationID, leaseID, "Smith Ranch A",
		"MISSING_PROBATE", "Heirship undetermined", CurativeSeverityHigh)

	require.NoError(t, err)
	assert.Equal(t, organizationID, ci.OrganizationID)
	assert.Equal(t, leaseID, ci.LeaseID)
	assert.Equal(t, CurativeStatusOpen, ci.Status)
	assert.Nil(t, ci.AssignedTo)

	events := ci.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "CurativeItemCreated", events[0].EventType())
}

func TestNewCurativeItem_Validation(t *testing.T) {
	_, err := NewCurativeItem(uuid.New(), uuid.Nil, "Smith Ranch A",
		"MISSING_PROBATE", "desc", CurativeSeverityHigh)
	assert.Error(t, err)

	_, err = NewCurativeItem(uuid.New(), uuid.New(), "Smith Ranch A",
		"", "desc", CurativeSeverityHigh)
	assert.Error(t, err)

	_, err = NewCurativeItem(uuid.New(), uuid.New(), "Smith Ranch A",
		"MISSING_PROBATE", "", CurativeSeverityHigh)
	assert.Error(t, err)

	_, err = NewCurativeItem(uuid.New(), uuid.New(), "Smith Ranch A",
		"MISSING_PROBATE", "desc", CurativeSeverity("URGENT"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
}

func TestCurativeItem_StartWork(t *testing.T) {
	ci := newTestItem(t)
	ci.ClearDomainEvents()
	landman := uuid.New()

	err := ci.StartWork(landman)

	require.NoError(t, err)
	assert.Equal(t, CurativeStatusInProgress, ci.Status)
	require.NotNil(t, ci.AssignedTo)
	assert.Equal(t, landman, *ci.AssignedTo)
	require.NotNil(t, ci.StartedAt)

	events := ci.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "CurativeItemStatusChanged", events[0].EventType())
}

func TestCurativeItem_StartWork_RequiresAssignee(t *testing.T) {
	ci := newTestItem(t)

	err := ci.StartWork(uuid.Nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Assignee is required")
	assert.Equal(t, CurativeStatusOpen, ci.Status)
}

func TestCurativeItem_Reassign(t *testing.T) {
	ci := newTestItem(t)
	require.NoError(t, ci.StartWork(uuid.New()))
	replacement := uuid.New()

	require.NoError(t, ci.Reassign(replacement))
	assert.Equal(t, replacement, *ci.AssignedTo)

	fresh := newTestItem(t)
	assert.Error(t, fresh.Reassign(replacement))
}

func TestCurativeItem_Resolve(t *testing.T) {
	ci := newTestItem(t)
	require.NoError(t, ci.StartWork(uuid.New()))
	ci.ClearDomainEvents()

	err := ci.Resolve("Affidavit of heirship recorded vol 412 pg 88")

	require.NoError(t, err)
	assert.Equal(t, CurativeStatusResolved, ci.Status)
	assert.Equal(t, "Affidavit of heirship recorded vol 412 pg 88", ci.ResolutionNotes)
	require.NotNil(t, ci.ResolvedAt)

	events := ci.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "CurativeItemStatusChanged", events[0].EventType())
	assert.Equal(t, "CurativeItemResolved", events[1].EventType())
}

func TestCurativeItem_Resolve_RequiresNotes(t *testing.T) {
	ci := newTestItem(t)
	require.NoError(t, ci.StartWork(uuid.New()))

	err := ci.Resolve("")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "notes are required")
	assert.Equal(t, CurativeStatusInProgress, ci.Status)
}

func TestCurativeItem_Resolve_FromOpenFails(t *testing.T) {
	ci := newTestItem(t)

	err := ci.Resolve("notes")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CurativeItem transition from OPEN to RESOLVED")
}

func TestCurativeItem_Waive(t *testing.T) {
	ci := newTestItem(t)
	require.NoError(t, ci.StartWork(uuid.New()))
	ci.ClearDomainEvents()

	err := ci.Waive("De minimis interest, title opinion accepts risk")

	require.NoError(t, err)
	assert.Equal(t, CurativeStatusWaived, ci.Status)
	require.NotNil(t, ci.WaivedAt)

	events := ci.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "CurativeItemWaived", events[1].EventType())
}

func TestCurativeItem_Waive_RequiresReason(t *testing.T) {
	ci := newTestItem(t)
	require.NoError(t, ci.StartWork(uuid.New()))

	err := ci.Waive("")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reason is required")
}

func TestCurativeItem_TerminalStates(t *testing.T) {
	ci := newTestItem(t)
	require.NoError(t, ci.StartWork(uuid.New()))
	require.NoError(t, ci.Resolve("cured"))
	ci.ClearDomainEvents()

	assert.Error(t, ci.StartWork(uuid.New()))
	assert.Error(t, ci.Waive("late waiver"))
	assert.Empty(t, ci.GetDomainEvents())
	assert.True(t, ci.Status.IsTerminal())
}
