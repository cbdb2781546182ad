package afe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wellfield/backend/internal/domain/afe"
	"github.com/wellfield/backend/internal/domain/shared"
)

type captureNotifier struct {
	notices []AfeDecisionNotice
	err     error
}

func (n *captureNotifier) NotifyAfeDecision(_ context.Context, notice AfeDecisionNotice) error {
	if n.err != nil {
		return n.err
	}
	n.notices = append(n.notices, notice)
	return nil
}

func TestAfeNotificationHandlerEventTypes(t *testing.T) {
	h := NewAfeNotificationHandler(zap.NewNop())
	assert.ElementsMatch(t, []string{"AfeSubmitted", "AfeApproved", "AfeRejected"}, h.EventTypes())
}

func TestAfeNotificationHandlerApproved(t *testing.T) {
	notifier := &captureNotifier{}
	h := NewAfeNotificationHandler(zap.NewNop(), WithPartnerNotifier(notifier))

	orgID := uuid.New()
	afeID := uuid.New()
	event := &afe.AfeApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AfeApproved", "Afe", afeID, orgID),
		AfeID:           afeID,
		AfeNumber:       "AFE-2026-0042",
		WellID:          uuid.New(),
		ApprovedAmount:  decimal.NewFromFloat(125000.50),
		Currency:        "USD",
		ApprovedAt:      time.Now(),
	}

	require.NoError(t, h.Handle(context.Background(), event))
	require.Len(t, notifier.notices, 1)

	notice := notifier.notices[0]
	assert.Equal(t, "approved", notice.Decision)
	assert.Equal(t, "AFE-2026-0042", notice.AfeNumber)
	assert.Equal(t, orgID, notice.OrganizationID)
	assert.Contains(t, notice.Detail, "125000.50 USD")
}

func TestAfeNotificationHandlerRejected(t *testing.T) {
	notifier := &captureNotifier{}
	h := NewAfeNotificationHandler(zap.NewNop(), WithPartnerNotifier(notifier))

	afeID := uuid.New()
	event := &afe.AfeRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AfeRejected", "Afe", afeID, uuid.New()),
		AfeID:           afeID,
		AfeNumber:       "AFE-2026-0007",
		WellID:          uuid.New(),
		RejectionReason: "estimated cost exceeds drilling budget",
		RejectedAt:      time.Now(),
	}

	require.NoError(t, h.Handle(context.Background(), event))
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "rejected", notifier.notices[0].Decision)
	assert.Equal(t, "estimated cost exceeds drilling budget", notifier.notices[0].Detail)
}

func TestAfeNotificationHandlerNotifierError(t *testing.T) {
	notifier := &captureNotifier{err: errors.New("smtp unavailable")}
	h := NewAfeNotificationHandler(zap.NewNop(), WithPartnerNotifier(notifier))

	afeID := uuid.New()
	event := &afe.AfeSubmittedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("AfeSubmitted", "Afe", afeID, uuid.New()),
		AfeID:            afeID,
		AfeNumber:        "AFE-2026-0100",
		WellID:           uuid.New(),
		EstimatedCost:    decimal.NewFromInt(80000),
		Currency:         "USD",
		SubmittedAt:      time.Now(),
		ApprovalDeadline: time.Now().AddDate(0, 0, 30),
	}

	err := h.Handle(context.Background(), event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AFE-2026-0100")
}

func TestAfeNotificationHandlerIgnoresUnknownEvent(t *testing.T) {
	notifier := &captureNotifier{}
	h := NewAfeNotificationHandler(zap.NewNop(), WithPartnerNotifier(notifier))

	afeID := uuid.New()
	event := &afe.AfeClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AfeClosed", "Afe", afeID, uuid.New()),
		AfeID:           afeID,
		AfeNumber:       "AFE-2026-0001",
		WellID:          uuid.New(),
		ClosedAt:        time.Now(),
	}

	require.NoError(t, h.Handle(context.Background(), event))
	assert.Empty(t, notifier.notices)
}
