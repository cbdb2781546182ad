package lease

import (
	"context"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// StatementRepository defines the persistence interface for lease
// operating statements
type StatementRepository interface {
	shared.OrganizationRepository[LeaseOperatingStatement]
	// FindByLeaseAndPeriod retrieves the statement for a lease and
	// production month, or shared.ErrNotFound
	FindByLeaseAndPeriod(ctx context.Context, organizationID, leaseID uuid.UUID, year, month int) (*LeaseOperatingStatement, error)
	// FindByStatus retrieves statements in a given status
	FindByStatus(ctx context.Context, organizationID uuid.UUID, status StatementStatus, filter shared.Filter) ([]LeaseOperatingStatement, error)
}
