package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewInvalidTransitionError creates the INVALID_STATE error every
// aggregate raises when a status change is not in its transition table.
func NewInvalidTransitionError(aggType, from, to string) *DomainError {
	return NewDomainError("INVALID_STATE",
		fmt.Sprintf("invalid %s transition from %s to %s", aggType, from, to))
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrCurrencyMismatch    = NewDomainError("CURRENCY_MISMATCH", "Monetary amounts have different currencies")
	ErrDuplicateApproval   = NewDomainError("DUPLICATE_APPROVAL", "Partner has already submitted an approval for this AFE")
)
