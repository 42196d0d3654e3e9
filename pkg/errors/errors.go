// Package errors provides standardized error types and error handling utilities
// for the Frontegg Go SDK. It defines the token lifecycle error taxonomy, error
// codes, and helper functions for creating, wrapping, and inspecting errors
// across the SDK packages.
//
// # Error Categories
//
// The package defines several error categories that map to the SDK's failure
// scenarios:
//
//   - Token errors: absent, malformed, expired, or cryptographically invalid tokens
//   - Key errors: signing key material could not be fetched or parsed
//   - Authentication errors: an operation requires a token kind that is not present
//   - HTTP errors: the platform API returned a non-2xx response
//   - Validation errors: invalid input or configuration values
//   - NotFound / Conflict errors: resource-level failures from the REST clients
//   - Internal / Unavailable / Timeout errors: unexpected or transient failures
//
// # Error Codes
//
// Each error includes a machine-readable code (e.g., "TOKEN_002") that can be
// used for error tracking and for branching in calling code. Error codes follow
// the pattern CATEGORY_XXX where CATEGORY is a short identifier and XXX is a
// numeric code.
//
// # Usage
//
// Create a new error with context:
//
//	err := errors.New(errors.CodeTokenInvalid, "token is malformed")
//
// Wrap an existing error:
//
//	err := errors.Wrap(err, errors.CodeKeyFetch, "failed to fetch signing key")
//
// Check error category:
//
//	if errors.IsNoToken(err) {
//	    // degrade to anonymous access
//	}
//
// Extract error details for logging:
//
//	if e, ok := errors.AsError(err); ok {
//	    logger.Error("operation failed",
//	        zap.String("code", e.Code.String()),
//	        zap.String("message", e.Message),
//	    )
//	}
package errors
