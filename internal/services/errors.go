package services

import (
	"errors"
)

// Error taxonomy surfaced by the engine. Handlers map these onto HTTP codes;
// anything else bubbling out of a service is an internal error.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("missing voter identity")
	ErrRateLimited     = errors.New("rate limit exceeded")

	// ErrConflict means stored counters disagree with the rows that justify
	// them. Transactional discipline should make this impossible; it is
	// logged and surfaced as a generic failure, never silently repaired.
	ErrConflict = errors.New("internal state conflict")
)
