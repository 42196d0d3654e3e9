package errors

import (
	"errors"
	"fmt"
)

// New creates a new Error with the specified code and message.
// Use this for creating errors without an underlying cause.
//
// Example:
//
//	err := errors.New(errors.CodeTokenInvalid, "token exceeds maximum length")
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with the specified code and formatted message.
// Use this for creating errors with dynamic content in the message.
//
// Example:
//
//	err := errors.Newf(errors.CodeNotFound, "tenant %q not found", tenantID)
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
// The wrapped error becomes the Cause of the new error.
// If err is nil, Wrap returns nil.
//
// Example:
//
//	key, err := resolver.Resolve(ctx, kid)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeKeyFetch, "failed to resolve signing key")
//	}
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with a formatted message.
// The wrapped error becomes the Cause of the new error.
// If err is nil, Wrapf returns nil.
//
// Example:
//
//	err := errors.Wrapf(err, errors.CodeHTTP, "request to %s failed", path)
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// NoToken creates a new missing-token error.
// Use this when an operation needs a token kind that has not been set.
//
// Example:
//
//	err := errors.NoToken("no user token set")
func NoToken(message string) *Error {
	return New(CodeNoToken, message)
}

// InvalidToken creates a new invalid-token error.
// Use this for malformed, oversized, or wrongly-typed tokens.
//
// Example:
//
//	err := errors.InvalidToken("token is not a valid JWT")
func InvalidToken(message string) *Error {
	return New(CodeTokenInvalid, message)
}

// TokenValidation creates a new token validation error.
// Use this when signature verification fails.
//
// Example:
//
//	err := errors.TokenValidation("token signature verification failed")
func TokenValidation(message string) *Error {
	return New(CodeTokenValidation, message)
}

// TokenExpired creates a new expired-token error.
//
// Example:
//
//	err := errors.TokenExpired("token has expired")
func TokenExpired(message string) *Error {
	return New(CodeTokenExpired, message)
}

// KeyFetch creates a new key fetch error.
// Use this when signing key material cannot be obtained or parsed.
//
// Example:
//
//	err := errors.KeyFetch("JWKS endpoint returned no keys")
func KeyFetch(message string) *Error {
	return New(CodeKeyFetch, message)
}

// Unauthorized creates a new authentication error.
// Use this when an operation requires a token kind that is not present
// or when authentication against the platform fails.
//
// Example:
//
//	err := errors.Unauthorized("management operations require a vendor token")
func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

// Validation creates a new validation error.
// This is a convenience function equivalent to New(CodeValidation, message).
//
// Example:
//
//	err := errors.Validation("user ID is required")
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// Validationf creates a new validation error with a formatted message.
//
// Example:
//
//	err := errors.Validationf("field %q must not be empty", field)
func Validationf(format string, args ...any) *Error {
	return Newf(CodeValidation, format, args...)
}

// NotFound creates a new not found error.
// This is a convenience function equivalent to New(CodeNotFound, message).
//
// Example:
//
//	err := errors.NotFound("tenant not found")
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a new not found error with a formatted message.
//
// Example:
//
//	err := errors.NotFoundf("user %q not found", userID)
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// Conflict creates a new conflict error.
// Use this when an operation conflicts with the current state.
//
// Example:
//
//	err := errors.Conflict("user with email already exists")
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// Internal creates a new internal error.
// Use this for unexpected system failures that should not expose details to users.
//
// Example:
//
//	err := errors.Internal("an unexpected error occurred")
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates a new internal error with a formatted message.
// Use this for logging detailed internal errors.
//
// Example:
//
//	err := errors.Internalf("failed to decode response: %v", underlyingErr)
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// Configuration creates a new configuration error.
// Use this when the SDK configuration is invalid or incomplete.
//
// Example:
//
//	err := errors.Configuration("client ID is required")
func Configuration(message string) *Error {
	return New(CodeConfiguration, message)
}

// Unavailable creates a new service unavailable error.
// Use this when a dependency is temporarily unavailable.
//
// Example:
//
//	err := errors.Unavailable("cache backend is temporarily unavailable")
func Unavailable(message string) *Error {
	return New(CodeUnavailable, message)
}

// Timeout creates a new timeout error.
// Use this when an operation exceeds its time limit.
//
// Example:
//
//	err := errors.Timeout("request timed out after 30s")
func Timeout(message string) *Error {
	return New(CodeTimeout, message)
}

// FromError converts a standard error to an Error.
// If the error is already an *Error, it is returned as-is.
// Otherwise, it is wrapped as an internal error.
//
// Example:
//
//	sdkErr := errors.FromError(err)
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return Wrap(err, CodeInternal, "an unexpected error occurred")
}
