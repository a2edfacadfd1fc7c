// Package domainerrors defines the closed set of error kinds the coordinators
// return. Handlers derive HTTP status codes from the kind, never from error
// message text.
package domainerrors

import (
	"fmt"
	"net/http"
)

// Code identifies an error kind. The set is closed: adding a code means
// deciding its HTTP mapping here, not at a call site.
type Code string

const (
	// CodeInvalidRequest covers malformed or unsupported request shapes,
	// including a response_type other than "code" and a redirect_uri not on
	// the client's allow-list.
	CodeInvalidRequest Code = "invalid_request"

	// CodeUnsupportedGrant is returned for any grant_type other than
	// "authorization_code".
	CodeUnsupportedGrant Code = "unsupported_grant_type"

	// CodeInvalidGrant covers a code that is missing, expired, or already
	// consumed, and mismatched redirect_uri/client_id bindings.
	CodeInvalidGrant Code = "invalid_grant"

	// CodeInvalidClient is returned when the client registry has no entry
	// for the presented client_id.
	CodeInvalidClient Code = "invalid_client"

	// CodeUnauthorized covers failed authentication: a wrong client secret,
	// bad login credentials, or an invalid token.
	CodeUnauthorized Code = "unauthorized"

	// CodeConflict is returned when a unique identifier is already taken.
	CodeConflict Code = "conflict"

	// CodeNotFound is returned when a requested entity does not exist.
	CodeNotFound Code = "not_found"

	// CodeInternal covers store, registry, and signing failures. Internal
	// detail never reaches the client; the wrapped cause is for logs only.
	CodeInternal Code = "server_error"
)

// Error is a domain error with a stable code and a short human-readable
// message. The optional cause is carried for logging and errors.Is/As
// traversal but is never serialized to clients.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause to a new domain error. Use at infrastructure
// boundaries so internal failures surface as typed domain errors.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports equality by code and message so tests can assert with
// errors.Is(err, domainerrors.New(code, msg)) regardless of wrapped causes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// CodeOf extracts the domain code from err, walking the unwrap chain.
// Non-domain errors map to CodeInternal.
func CodeOf(err error) Code {
	for err != nil {
		if de, ok := err.(*Error); ok {
			return de.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return CodeInternal
		}
		err = u.Unwrap()
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status. The mapping is total; unknown
// codes are treated as internal failures.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidRequest, CodeUnsupportedGrant, CodeInvalidGrant, CodeInvalidClient:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
