package service

import "errors"

var (
	// ErrValidation is returned for malformed input before any mutation
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity does not resolve
	ErrNotFound = errors.New("reference not found")

	// ErrConsistency marks a partial failure of the approve+create-audit
	// unit that escaped the transactional boundary. It indicates a
	// collaborator bug and is never retried here.
	ErrConsistency = errors.New("consistency violation")

	// ErrAdvisoryDisabled is returned when no AI classifier is configured
	ErrAdvisoryDisabled = errors.New("advisory classifier not configured")
)
