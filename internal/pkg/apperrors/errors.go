package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrMagicLinkInvalid   = errors.New("invalid or expired login code")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Profile errors
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrSystemAdminLocked  = errors.New("system admin role cannot be changed")
)

// Event errors
var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotRegistered = errors.New("not registered for this event")
)

// Card and ledger errors
var (
	ErrCardNotFound      = errors.New("card not found")
	ErrCardAlreadyExists = errors.New("card with this label already exists")
	ErrCardExhausted     = errors.New("card has no remaining entries")
)

// Article errors
var (
	ErrArticleNotFound = errors.New("article not found")
	ErrCommentNotFound = errors.New("comment not found")
)
