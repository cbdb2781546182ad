package revenue

import (
	"context"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// DistributionRepository defines the persistence interface for
// revenue distributions
type DistributionRepository interface {
	shared.OrganizationRepository[RevenueDistribution]
	// FindByWellAndPeriod retrieves the distribution for a well and
	// production month, or shared.ErrNotFound
	FindByWellAndPeriod(ctx context.Context, organizationID, wellID uuid.UUID, year, month int) (*RevenueDistribution, error)
	// FindByStatus retrieves distributions in a given status
	FindByStatus(ctx context.Context, organizationID uuid.UUID, status DistributionStatus, filter shared.Filter) ([]RevenueDistribution, error)
}
