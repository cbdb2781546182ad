package afe

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// AfeRepository defines the persistence interface for AFE aggregates
type AfeRepository interface {
	shared.OrganizationRepository[Afe]
	// FindByNumber retrieves an AFE by its AFE number within an organization
	FindByNumber(ctx context.Context, organizationID uuid.UUID, afeNumber string) (*Afe, error)
	// FindByWell retrieves all AFEs for a well within an organization
	FindByWell(ctx context.Context, organizationID, wellID uuid.UUID) ([]Afe, error)
	// FindByStatus retrieves AFEs in a given status within an organization
	FindByStatus(ctx context.Context, organizationID uuid.UUID, status AfeStatus, filter shared.Filter) ([]Afe, error)
	// FindOverdue retrieves submitted AFEs whose approval window elapsed
	// before the given cutoff
	FindOverdue(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]Afe, error)
}

// PartnerApprovalRepository defines the persistence interface for
// partner approval records
type PartnerApprovalRepository interface {
	shared.OrganizationRepository[PartnerApproval]
	// FindByAfe retrieves all approval records for an AFE
	FindByAfe(ctx context.Context, organizationID, afeID uuid.UUID) ([]*PartnerApproval, error)
	// FindByAfeAndPartner retrieves a partner's approval record for an
	// AFE, or shared.ErrNotFound if the partner has not responded
	FindByAfeAndPartner(ctx context.Context, organizationID, afeID, partnerID uuid.UUID) (*PartnerApproval, error)
}
