package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Workflow errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotApprovable     = errors.New("application cannot be approved in its current status")
	ErrNotRejectable     = errors.New("application cannot be rejected in its current status")
)

// Entity lookup errors. Sub-entity misses are distinct from the
// application itself not being found.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrDocumentNotFound    = errors.New("document not found for application")
	ErrReferenceNotFound   = errors.New("reference not found for applicant")
	ErrBankAccountNotFound = errors.New("bank account not found for applicant")
	ErrApplicantNotFound   = errors.New("applicant not found")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrStaffNotFound       = errors.New("staff account not found")
)

// InvalidTransitionError carries the rejected edge so callers can report
// the exact (from, to) pair. errors.Is(err, ErrInvalidTransition) matches.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// NewInvalidTransition builds the error for a rejected edge
func NewInvalidTransition(from, to Status) error {
	return &InvalidTransitionError{From: from, To: to}
}
