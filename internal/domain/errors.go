package domain

import "fmt"

// AuthorizationError denies a mutation because the acting user's role is
// insufficient or a resource quota is exhausted. Both cases share the same
// control flow; Reason only affects logging and the user-facing message.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError reports a domain-rule violation the end user can fix and
// retry, e.g. "assignee belongs to a different workspace".
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers both "does not exist" and "exists but is outside the
// caller's visible workspaces". The two are indistinguishable on purpose so
// lookups never leak the existence of objects the caller cannot access.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NewNotFoundError creates a not-found error for the named resource
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// InternalError marks state corruption or a missed enum case, e.g. an
// unrecognized subscription status. Never coerced to a default; always
// propagated.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// NewInternalError creates an internal error
func NewInternalError(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
