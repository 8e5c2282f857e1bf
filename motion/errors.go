package motion

import "errors"

var (
	// ErrUnknownParameter indicates a parameter name that is not in the
	// registry.
	ErrUnknownParameter = errors.New("motion: unknown parameter")

	// ErrReadOnlyParameter indicates a write to a parameter that has no
	// write path on the device.
	ErrReadOnlyParameter = errors.New("motion: parameter is read-only")

	// ErrConfigWrite indicates that a configuration write was not
	// acknowledged by the device.
	ErrConfigWrite = errors.New("motion: configuration write not acknowledged")

	// ErrWaitTimeout indicates that a blocking wait exceeded the
	// module's configured wait timeout.
	ErrWaitTimeout = errors.New("motion: wait deadline exceeded")
)
