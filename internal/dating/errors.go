package dating

import (
	"errors"
	"fmt"
)

var (
	ErrRequesterNotFound     = errors.New("requester not found")
	ErrRequesterNotOnboarded = errors.New("requester has not completed onboarding")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrSelfCompatibility     = errors.New("cannot score compatibility with yourself")
)

// ConfigurationError means a backing service is unreachable or misconfigured.
// It is not retried.
type ConfigurationError struct {
	Component string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Component, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// EnrichmentError records one candidate's failed side lookup. It is
// recovered locally and never fails a discovery request.
type EnrichmentError struct {
	CandidateID string
	Field       string
	Err         error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich %s for candidate %s: %v", e.Field, e.CandidateID, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }
