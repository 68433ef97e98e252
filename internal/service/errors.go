package service

import "errors"

var (
	// ErrNoProducts is returned when an advice request has no products.
	ErrNoProducts = errors.New("no products to pack")
	// ErrAdviceNotFound is returned when an advice id does not exist.
	ErrAdviceNotFound = errors.New("advice not found")
	// ErrAdviceConflict is returned when concurrent computations keep replacing each other.
	ErrAdviceConflict = errors.New("advice was replaced concurrently")
	// ErrOrderSystemNotConfigured is returned when tags are requested without an order system client.
	ErrOrderSystemNotConfigured = errors.New("order system not configured")
	// ErrRepositoryNotConfigured is returned when the service has no backing store.
	ErrRepositoryNotConfigured = errors.New("repository not configured")
)
