package blob

import "errors"

var (
	// ErrAddressNotFound is returned when an address does not map to a storage location.
	ErrAddressNotFound = errors.New("blob address does not map to a storage location")
	// ErrNoExternalStore is returned when an external address is met without a configured store.
	ErrNoExternalStore = errors.New("no external blob store configured")
)
