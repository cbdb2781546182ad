package permit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// PermitRepository defines the persistence interface for permits
type PermitRepository interface {
	shared.OrganizationRepository[Permit]
	// FindByWell retrieves all permits for a well
	FindByWell(ctx context.Context, organizationID, wellID uuid.UUID) ([]Permit, error)
	// FindByNumber retrieves a permit by agency permit number
	FindByNumber(ctx context.Context, organizationID uuid.UUID, permitNumber string) (*Permit, error)
	// FindExpiring retrieves approved permits whose expiration date
	// falls on or before the cutoff
	FindExpiring(ctx context.Context, organizationID uuid.UUID, cutoff time.Time) ([]Permit, error)
}
