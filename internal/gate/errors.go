package gate

import (
	"net/http"
)

// Error is a terminal authorization failure with a fixed client-visible
// status, code and message. The cause carries internal detail for logs and
// is never written to the response body.
type Error struct {
	Status  int
	Code    string
	Message string

	cause error
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// withCause returns a copy of the error carrying internal detail for logging.
func (e *Error) withCause(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

// The full failure taxonomy of the gate. Messages are part of the external
// contract; internal detail stays out of them.
var (
	errMissingAuthToken = &Error{
		Status:  http.StatusUnauthorized,
		Code:    "MISSING_AUTH_TOKEN",
		Message: "Authorization header missing",
	}
	errInvalidToken = &Error{
		Status:  http.StatusUnauthorized,
		Code:    "INVALID_TOKEN",
		Message: "Invalid or expired token",
	}
	errNoDefaultOrg = &Error{
		Status:  http.StatusForbidden,
		Code:    "NO_DEFAULT_ORG",
		Message: "User has no default organization.",
	}
	errInvalidTenantID = &Error{
		Status:  http.StatusBadRequest,
		Code:    "INVALID_TENANT_ID",
		Message: "X-Tenant-ID header must be a non-empty organization id",
	}
	errOrgNotFound = &Error{
		Status:  http.StatusNotFound,
		Code:    "ORG_NOT_FOUND",
		Message: "Organization not found",
	}
	errNotOrgMember = &Error{
		Status:  http.StatusForbidden,
		Code:    "NOT_ORG_MEMBER",
		Message: "Not a member of the specified organization",
	}
	errDependencyUnavailable = &Error{
		Status:  http.StatusServiceUnavailable,
		Code:    "DEPENDENCY_UNAVAILABLE",
		Message: "Authorization is temporarily unavailable",
	}
)
