package afe

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wellfield/backend/internal/domain/afe"
	"github.com/wellfield/backend/internal/domain/shared"
)

// AfeNotificationHandler reacts to AFE lifecycle events and notifies the
// well's working interest partners of submissions and final decisions.
type AfeNotificationHandler struct {
	notifier PartnerNotifier
	logger   *zap.Logger
}

// PartnerNotifier delivers AFE notices to partners. Implementations can
// support different channels (in-app, email).
type PartnerNotifier interface {
	NotifyAfeDecision(ctx context.Context, notice AfeDecisionNotice) error
}

// AfeDecisionNotice describes an AFE lifecycle change to be delivered to
// the well's partners.
type AfeDecisionNotice struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	AfeID          uuid.UUID `json:"afe_id"`
	AfeNumber      string    `json:"afe_number"`
	WellID         uuid.UUID `json:"well_id"`
	Decision       string    `json:"decision"` // "submitted", "approved", "rejected"
	Detail         string    `json:"detail"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// AfeNotificationHandlerOption is a functional option for configuring the handler
type AfeNotificationHandlerOption func(*AfeNotificationHandler)

// WithPartnerNotifier sets the notifier used to deliver notices
func WithPartnerNotifier(notifier PartnerNotifier) AfeNotificationHandlerOption {
	return func(h *AfeNotificationHandler) {
		h.notifier = notifier
	}
}

// NewAfeNotificationHandler creates a new handler for AFE lifecycle events.
// Without a notifier the handler only records the notice in the log, which
// keeps the approval trail visible in development environments.
func NewAfeNotificationHandler(logger *zap.Logger, opts ...AfeNotificationHandlerOption) *AfeNotificationHandler {
	h := &AfeNotificationHandler{
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *AfeNotificationHandler) EventTypes() []string {
	return []string{"AfeSubmitted", "AfeApproved", "AfeRejected"}
}

// Handle builds a notice from the event and hands it to the notifier
func (h *AfeNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var notice AfeDecisionNotice

	switch e := event.(type) {
	case *afe.AfeSubmittedEvent:
		notice = AfeDecisionNotice{
			OrganizationID: e.OrganizationID(),
			AfeID:          e.AfeID,
			AfeNumber:      e.AfeNumber,
			WellID:         e.WellID,
			Decision:       "submitted",
			Detail:         fmt.Sprintf("approval window closes %s", e.ApprovalDeadline.Format("2006-01-02")),
			OccurredAt:     e.SubmittedAt,
		}
	case *afe.AfeApprovedEvent:
		notice = AfeDecisionNotice{
			OrganizationID: e.OrganizationID(),
			AfeID:          e.AfeID,
			AfeNumber:      e.AfeNumber,
			WellID:         e.WellID,
			Decision:       "approved",
			Detail:         fmt.Sprintf("approved for %s %s", e.ApprovedAmount.StringFixed(2), e.Currency),
			OccurredAt:     e.ApprovedAt,
		}
	case *afe.AfeRejectedEvent:
		notice = AfeDecisionNotice{
			OrganizationID: e.OrganizationID(),
			AfeID:          e.AfeID,
			AfeNumber:      e.AfeNumber,
			WellID:         e.WellID,
			Decision:       "rejected",
			Detail:         e.RejectionReason,
			OccurredAt:     e.RejectedAt,
		}
	default:
		h.logger.Warn("unexpected event type for AFE notification",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if h.notifier == nil {
		h.logger.Info("afe decision notice",
			zap.String("afe_number", notice.AfeNumber),
			zap.String("decision", notice.Decision),
			zap.String("detail", notice.Detail),
			zap.String("organization_id", notice.OrganizationID.String()),
		)
		return nil
	}

	if err := h.notifier.NotifyAfeDecision(ctx, notice); err != nil {
		return fmt.Errorf("notify partners for AFE %s: %w", notice.AfeNumber, err)
	}

	h.logger.Info("afe decision notice delivered",
		zap.String("afe_number", notice.AfeNumber),
		zap.String("decision", notice.Decision),
	)
	return nil
}
