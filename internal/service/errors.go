package service

import "errors"

// Expected, user-facing failures. Anything else escaping the service is
// an internal error: logged with detail, surfaced opaquely.
var (
	ErrDuplicateCredential = errors.New("username or email already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
)
