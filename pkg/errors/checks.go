package errors

import (
	"errors"
)

// AsError attempts to convert an error to an *Error.
// Returns the Error and true if successful, nil and false otherwise.
// This function traverses the error chain using errors.As.
//
// Example:
//
//	if e, ok := errors.AsError(err); ok {
//	    log.Printf("error code: %s, message: %s", e.Code, e.Message)
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetCode returns the error code from an error.
// If the error is not an *Error or is nil, returns an empty string.
//
// Example:
//
//	code := errors.GetCode(err)
//	if code == errors.CodeNotFound {
//	    // handle not found
//	}
func GetCode(err error) Code {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// HasCode checks if an error has the specified error code.
// Returns false if the error is nil or not an *Error.
//
// Example:
//
//	if errors.HasCode(err, errors.CodeTokenExpired) {
//	    // prompt re-authentication
//	}
func HasCode(err error, code Code) bool {
	return GetCode(err) == code
}

// IsNoToken checks if the error indicates a missing token (TOKEN_001).
// This is the condition boolean guard predicates swallow.
//
// Example:
//
//	if errors.IsNoToken(err) {
//	    // degrade to anonymous access
//	}
func IsNoToken(err error) bool {
	return HasCode(err, CodeNoToken)
}

// IsTokenInvalid checks if the error indicates a malformed or oversized
// token (TOKEN_002).
func IsTokenInvalid(err error) bool {
	return HasCode(err, CodeTokenInvalid)
}

// IsTokenValidation checks if the error indicates a signature verification
// failure (TOKEN_003).
func IsTokenValidation(err error) bool {
	return HasCode(err, CodeTokenValidation)
}

// IsTokenExpired checks if the error indicates an expired token (TOKEN_004).
//
// Example:
//
//	if errors.IsTokenExpired(err) {
//	    // refresh the token and retry
//	}
func IsTokenExpired(err error) bool {
	return HasCode(err, CodeTokenExpired)
}

// IsKeyFetch checks if the error is a signing key resolution error (KEY_xxx).
// Returns true if the error code starts with "KEY".
func IsKeyFetch(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "KEY"
}

// IsUnauthorized checks if the error is an authentication error (AUTH_xxx).
// Returns true if the error code starts with "AUTH".
//
// Example:
//
//	if errors.IsUnauthorized(err) {
//	    // return 401 Unauthorized
//	}
func IsUnauthorized(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "AUTH"
}

// IsHTTP checks if the error came from a platform API response (HTTP_xxx).
// Returns true if the error code starts with "HTTP".
//
// Example:
//
//	if errors.IsHTTP(err) {
//	    e, _ := errors.AsError(err)
//	    status := e.Details["status"]
//	}
func IsHTTP(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "HTTP"
}

// IsValidation checks if the error is a validation error (VAL_xxx).
// Returns true if the error code starts with "VAL".
//
// Example:
//
//	if errors.IsValidation(err) {
//	    // return 400 Bad Request
//	}
func IsValidation(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "VAL"
}

// IsNotFound checks if the error is a not found error (NF_xxx).
// Returns true if the error code starts with "NF".
//
// Example:
//
//	if errors.IsNotFound(err) {
//	    // return 404 Not Found
//	}
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "NF"
}

// IsConflict checks if the error is a conflict error (CONF_xxx).
// Returns true if the error code starts with "CONF".
func IsConflict(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "CONF"
}

// IsInternal checks if the error is an internal error (INT_xxx).
// Returns true if the error code starts with "INT".
func IsInternal(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "INT"
}

// IsUnavailable checks if the error is a service unavailable error (UNAVAIL_xxx).
// Returns true if the error code starts with "UNAVAIL".
func IsUnavailable(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "UNAVAIL"
}

// IsTimeout checks if the error is a timeout error (TIMEOUT_xxx).
// Returns true if the error code starts with "TIMEOUT".
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code.Category() == "TIMEOUT"
}

// IsRetryable checks if the error is potentially retryable.
// Key fetch, unavailable, and timeout errors are considered retryable;
// token errors never are.
//
// Example:
//
//	if errors.IsRetryable(err) {
//	    // implement retry with backoff
//	}
func IsRetryable(err error) bool {
	e, ok := AsError(err)
	if !ok {
		return false
	}
	switch e.Code.Category() {
	case "KEY", "UNAVAIL", "TIMEOUT":
		return true
	default:
		return false
	}
}

// IsClientError checks if the error is a client error (4xx HTTP status).
// Client errors include token, authentication, validation, not found, and
// conflict errors.
func IsClientError(err error) bool {
	e, ok := AsError(err)
	if !ok {
		return false
	}
	switch e.Code.Category() {
	case "TOKEN", "AUTH", "VAL", "NF", "CONF":
		return true
	default:
		return false
	}
}

// IsServerError checks if the error is a server error (5xx HTTP status).
// Server errors include internal, key fetch, unavailable, and timeout errors.
func IsServerError(err error) bool {
	e, ok := AsError(err)
	if !ok {
		return false
	}
	switch e.Code.Category() {
	case "INT", "KEY", "UNAVAIL", "TIMEOUT":
		return true
	default:
		return false
	}
}
