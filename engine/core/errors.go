package core

import (
	"errors"
)

var (
	// ErrPoolExhausted is returned when a pooled resource cannot be leased.
	ErrPoolExhausted = errors.New("resource pool exhausted")
	// ErrNullBackend is returned by operations that require a real GPU device.
	ErrNullBackend = errors.New("null renderer backend")
	ErrUnknown     = errors.New("unknown")
)
