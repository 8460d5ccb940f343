package policy

import (
	"errors"

	"github.com/qalamdan/porsesh/pkg/models"
)

// Error kinds returned by policy operations. The api layer maps these to
// HTTP statuses; the policy core never formats user-facing messages beyond
// kind plus optional context.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid input")
)

// ConflictError carries the voter's existing vote so the caller can
// disambiguate a rejected re-vote. Unwraps to ErrConflict.
type ConflictError struct {
	Vote *models.Vote
}

func (e *ConflictError) Error() string { return "conflict: vote already cast" }

func (e *ConflictError) Unwrap() error { return ErrConflict }
