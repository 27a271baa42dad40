package domain

import "errors"

var (
	ErrInvalidConfiguration    = errors.New("invalid session configuration")
	ErrInvalidState            = errors.New("operation not allowed in current session state")
	ErrIdentityNotFound        = errors.New("identity not found")
	ErrDeviceAlreadyRegistered = errors.New("device already registered")
)
