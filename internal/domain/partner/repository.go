package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// PartnerRepository defines the persistence interface for partners
type PartnerRepository interface {
	shared.OrganizationRepository[Partner]
	// FindByCode retrieves a partner by its code within an organization
	FindByCode(ctx context.Context, organizationID uuid.UUID, code string) (*Partner, error)
	// FindActive retrieves all active partners within an organization
	FindActive(ctx context.Context, organizationID uuid.UUID) ([]Partner, error)
}

// WellInterestRepository defines the persistence interface for
// working-interest assignments
type WellInterestRepository interface {
	shared.OrganizationRepository[WellInterest]
	// FindRosterByWell retrieves the assignments active on the given
	// date for a well
	FindRosterByWell(ctx context.Context, organizationID, wellID uuid.UUID, on time.Time) ([]*WellInterest, error)
	// FindByPartner retrieves all assignments held by a partner
	FindByPartner(ctx context.Context, organizationID, partnerID uuid.UUID) ([]*WellInterest, error)
}
