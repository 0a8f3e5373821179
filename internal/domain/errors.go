package domain

import "errors"

// Sentinel errors for cache operations
var (
	// ErrNoCachedContent indicates a section resolved to zero valid
	// entities (all refs dangling or expired). Distinct from a section
	// that was never persisted.
	ErrNoCachedContent = errors.New("no cached content available")

	// ErrSectionNotFound indicates the named section does not exist in
	// the location's context.
	ErrSectionNotFound = errors.New("section not found")

	// ErrContextNotFound indicates no context is stored for the location
	// at any addressable level.
	ErrContextNotFound = errors.New("no cached context for location")

	// ErrNoActiveLocation indicates no active-location pointer has been
	// saved yet.
	ErrNoActiveLocation = errors.New("no active location recorded")
)
