package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnknownKind         = errors.New("unknown principal kind")
	ErrPrincipalNotFound   = errors.New("principal not found")
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrAuthFailure         = errors.New("incorrect email, password, or role")
	ErrTooManyAttempts     = errors.New("too many login attempts, try again later")
	ErrSystemConfiguration = errors.New("system configuration error")
)

// ValidationError reports every problem found in a submitted form.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// RejectReason classifies why the access guard refused a request.
type RejectReason string

const (
	ReasonNotLoggedIn    RejectReason = "not_logged_in"
	ReasonRoleForbidden  RejectReason = "role_forbidden"
	ReasonSessionExpired RejectReason = "session_expired"
)

// Rejection is returned by the access guard. Every rejection redirects to the
// login page; Message is shown to the user there.
type Rejection struct {
	Reason  RejectReason
	Message string
}

func (r *Rejection) Error() string {
	return string(r.Reason) + ": " + r.Message
}

// IsRejection reports whether err is a guard rejection with the given reason.
func IsRejection(err error, reason RejectReason) bool {
	var r *Rejection
	return errors.As(err, &r) && r.Reason == reason
}
