package title

import (
	"context"

	"github.com/google/uuid"
	"github.com/wellfield/backend/internal/domain/shared"
)

// CurativeItemRepository defines the persistence interface for
// title curative items
type CurativeItemRepository interface {
	shared.OrganizationRepository[CurativeItem]
	// FindByLease retrieves all curative items for a lease
	FindByLease(ctx context.Context, organizationID, leaseID uuid.UUID) ([]CurativeItem, error)
	// FindOpenBySeverity retrieves non-terminal items at the given severity
	FindOpenBySeverity(ctx context.Context, organizationID uuid.UUID, severity CurativeSeverity, filter shared.Filter) ([]CurativeItem, error)
}
