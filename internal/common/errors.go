// Package common defines shared constants and sentinel errors used across
// the blog server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidationFailed   = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")

	// Mirror errors. Never fatal to the primary operation.
	ErrMirrorWriteFailed = errors.New("mirror write failed")
)
