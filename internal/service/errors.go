package service

import "errors"

var (
	ErrAdminExists        = errors.New("admin account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenMissing    = errors.New("token missing")
	ErrTokenMalformed  = errors.New("token malformed")
	ErrTokenExpired    = errors.New("token expired")
	ErrSubjectNotFound = errors.New("token subject not found")

	ErrStorage  = errors.New("storage failure")
	ErrInternal = errors.New("internal error")
)

// IsUnauthorized reports whether err is one of the token rejection outcomes
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrSubjectNotFound)
}

// RejectionReason names a token rejection for logs and metrics only
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "missing"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrSubjectNotFound):
		return "subject_not_found"
	default:
		return "error"
	}
}
