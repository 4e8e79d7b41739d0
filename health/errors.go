package health

import "errors"

var (
	// ErrCheckFailed indicates a health check failed.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a health check timed out.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrNilStore indicates a store checker was built without a store.
	ErrNilStore = errors.New("health: store is nil")

	// ErrInvalidConfig indicates an invalid checker configuration.
	ErrInvalidConfig = errors.New("health: invalid config")
)
