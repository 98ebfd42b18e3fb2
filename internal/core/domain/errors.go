package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates a malformed input record, such as a missing
	// required field. Nothing is persisted when validation fails.
	ErrValidation = errors.New("validation failed")

	// ErrReferentialIntegrity indicates a write referencing an entity that
	// does not exist, such as an amendment naming an unknown article.
	// The write is rejected as an atomic no-op.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrEmbedding indicates the embedding step of a search or ingest
	// failed. The whole operation fails; there is no partial result.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStoreUnavailable indicates the relational store could not serve a
	// query. Filtered searches fail outright rather than silently
	// degrading to unfiltered vector results.
	ErrStoreUnavailable = errors.New("store unavailable")
)
