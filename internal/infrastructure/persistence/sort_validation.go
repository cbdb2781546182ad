package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// AfeSortFields contains allowed sort fields for AFEs
var AfeSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"afe_number":     true,
	"well_id":        true,
	"well_name":      true,
	"category":       true,
	"status":         true,
	"estimated_cost": true,
	"submitted_at":   true,
}

// PartnerApprovalSortFields contains allowed sort fields for partner approvals
var PartnerApprovalSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"partner_name": true,
	"status":       true,
	"responded_at": true,
}

// PartnerSortFields contains allowed sort fields for partners
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
}

// WellInterestSortFields contains allowed sort fields for well interests
var WellInterestSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"well_id":        true,
	"well_name":      true,
	"partner_name":   true,
	"interest":       true,
	"effective_date": true,
	"end_date":       true,
}

// DistributionSortFields contains allowed sort fields for revenue distributions
var DistributionSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"well_id":      true,
	"well_name":    true,
	"period_year":  true,
	"period_month": true,
	"gross":        true,
	"status":       true,
}

// StatementSortFields contains allowed sort fields for lease operating statements
var StatementSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"lease_id":     true,
	"lease_name":   true,
	"period_year":  true,
	"period_month": true,
	"status":       true,
}

// CurativeItemSortFields contains allowed sort fields for curative items
var CurativeItemSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"lease_id":    true,
	"lease_name":  true,
	"defect_type": true,
	"severity":    true,
	"status":      true,
}

// PermitSortFields contains allowed sort fields for permits
var PermitSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"well_id":         true,
	"well_name":       true,
	"type":            true,
	"agency":          true,
	"permit_number":   true,
	"status":          true,
	"filed_at":        true,
	"expiration_date": true,
}
