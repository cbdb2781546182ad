package event

import (
	"github.com/wellfield/backend/internal/domain/afe"
	"github.com/wellfield/backend/internal/domain/lease"
	"github.com/wellfield/backend/internal/domain/partner"
	"github.com/wellfield/backend/internal/domain/permit"
	"github.com/wellfield/backend/internal/domain/revenue"
	"github.com/wellfield/backend/internal/domain/shared"
	"github.com/wellfield/backend/internal/domain/title"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// AFE domain events
	serializer.Register("AfeCreated", &afe.AfeCreatedEvent{})
	serializer.Register("AfeEstimateRevised", &afe.AfeEstimateRevisedEvent{})
	serializer.Register("AfeSubmitted", &afe.AfeSubmittedEvent{})
	serializer.Register("AfeApproved", &afe.AfeApprovedEvent{})
	serializer.Register("AfeRejected", &afe.AfeRejectedEvent{})
	serializer.Register("AfeClosed", &afe.AfeClosedEvent{})
	serializer.Register("PartnerApprovalRecorded", &afe.PartnerApprovalRecordedEvent{})

	// Partner domain events
	serializer.Register("PartnerCreated", &partner.PartnerCreatedEvent{})
	serializer.Register("PartnerDeactivated", &partner.PartnerDeactivatedEvent{})
	serializer.Register("WellInterestAssigned", &partner.WellInterestAssignedEvent{})

	// Revenue domain events
	serializer.Register("RevenueDistributionCreated", &revenue.DistributionCreatedEvent{})
	serializer.Register("RevenueDistributionCalculated", &revenue.DistributionCalculatedEvent{})
	serializer.Register("RevenueDistributionDistributed", &revenue.DistributionDistributedEvent{})
	serializer.Register("RevenueDistributionVoided", &revenue.DistributionVoidedEvent{})

	// Lease domain events
	serializer.Register("LeaseStatementCreated", &lease.StatementCreatedEvent{})
	serializer.Register("LeaseStatementFinalized", &lease.StatementFinalizedEvent{})
	serializer.Register("LeaseStatementDistributed", &lease.StatementDistributedEvent{})

	// Title domain events
	serializer.Register("CurativeItemCreated", &title.CurativeItemCreatedEvent{})
	serializer.Register("CurativeItemResolved", &title.CurativeItemResolvedEvent{})
	serializer.Register("CurativeItemWaived", &title.CurativeItemWaivedEvent{})

	// Permit domain events
	serializer.Register("PermitCreated", &permit.PermitCreatedEvent{})
	serializer.Register("PermitFiled", &permit.PermitFiledEvent{})
	serializer.Register("PermitApproved", &permit.PermitApprovedEvent{})
	serializer.Register("PermitDenied", &permit.PermitDeniedEvent{})
	serializer.Register("PermitExpired", &permit.PermitExpiredEvent{})

	// Generic transition events recorded alongside the specific events.
	// The event type is the aggregate type plus the StatusChanged suffix.
	serializer.Register("AfeStatusChanged", &shared.StatusChangedEvent{})
	serializer.Register("RevenueDistributionStatusChanged", &shared.StatusChangedEvent{})
	serializer.Register("LeaseOperatingStatementStatusChanged", &shared.StatusChangedEvent{})
	serializer.Register("CurativeItemStatusChanged", &shared.StatusChangedEvent{})
	serializer.Register("PermitStatusChanged", &shared.StatusChangedEvent{})
}
