package errors

// Code represents a machine-readable error code for categorizing errors.
// Error codes follow the pattern CATEGORY_XXX where CATEGORY is a short
// identifier (e.g., TOKEN, KEY, HTTP) and XXX is a three-digit numeric code.
//
// Error codes are designed to be:
//   - Stable: Codes do not change once assigned
//   - Unique: Each error condition has a distinct code
//   - Machine-readable: Suitable for automated error handling and branching
type Code string

// Error code categories and their ranges:
//
//	TOKEN_xxx   - Token lifecycle errors (401 Unauthorized)
//	KEY_xxx     - Signing key resolution errors (503 Service Unavailable)
//	AUTH_xxx    - Authentication gate errors (401 Unauthorized)
//	HTTP_xxx    - Platform API HTTP errors (status carried in Details)
//	VAL_xxx     - Validation errors (400 Bad Request)
//	NF_xxx      - Not found errors (404 Not Found)
//	CONF_xxx    - Conflict errors (409 Conflict)
//	INT_xxx     - Internal errors (500 Internal Server Error)
//	UNAVAIL_xxx - Service unavailable (503 Service Unavailable)
//	TIMEOUT_xxx - Timeout errors (504 Gateway Timeout)
const (
	// Token lifecycle errors (TOKEN_xxx) - HTTP 401
	// Used by the identity manager and token verifier.

	// CodeNoToken indicates the requested token kind is not set. This is a
	// recoverable condition; callers commonly degrade to anonymous access.
	CodeNoToken Code = "TOKEN_001"

	// CodeTokenInvalid indicates a token is malformed, oversized, or has the
	// wrong shape for the requested kind. Not retryable.
	CodeTokenInvalid Code = "TOKEN_002"

	// CodeTokenValidation indicates signature verification failed. Not
	// retryable; signals tampering or a stale verification key.
	CodeTokenValidation Code = "TOKEN_003"

	// CodeTokenExpired indicates the token's exp claim is in the past.
	CodeTokenExpired Code = "TOKEN_004"

	// Key resolution errors (KEY_xxx) - HTTP 503

	// CodeKeyFetch indicates the signing key endpoint is unreachable or
	// returned no usable key material. Retryable by caller policy.
	CodeKeyFetch Code = "KEY_001"

	// Authentication errors (AUTH_xxx) - HTTP 401

	// CodeUnauthorized indicates an operation requiring a specific token kind
	// was attempted without one, or an authenticate call failed. This is the
	// facade-level signal wrapping the lower-level token errors.
	CodeUnauthorized Code = "AUTH_001"

	// HTTP transport errors (HTTP_xxx)

	// CodeHTTP indicates the platform API returned a non-2xx response. The
	// response status and parsed error body are carried in the error Details
	// under the "status" and "body" keys.
	CodeHTTP Code = "HTTP_001"

	// Validation errors (VAL_xxx) - HTTP 400

	// CodeValidation indicates a general validation failure (invalid input,
	// invalid configuration value, or a 400 from a resource endpoint).
	CodeValidation Code = "VAL_001"

	// Not found errors (NF_xxx) - HTTP 404

	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound Code = "NF_001"

	// Conflict errors (CONF_xxx) - HTTP 409

	// CodeConflict indicates the resource already exists or the operation
	// conflicts with current state.
	CodeConflict Code = "CONF_001"

	// Internal errors (INT_xxx) - HTTP 500

	// CodeInternal indicates a general internal error.
	CodeInternal Code = "INT_001"

	// CodeConfiguration indicates the SDK configuration is invalid or
	// incomplete.
	CodeConfiguration Code = "INT_002"

	// CodeInternalCache indicates a cache adapter operation failed.
	CodeInternalCache Code = "INT_003"

	// Unavailable errors (UNAVAIL_xxx) - HTTP 503

	// CodeUnavailable indicates a dependency (e.g., the distributed cache)
	// is temporarily unavailable.
	CodeUnavailable Code = "UNAVAIL_001"

	// Timeout errors (TIMEOUT_xxx) - HTTP 504

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout Code = "TIMEOUT_001"
)

// String returns the string representation of the error code.
func (c Code) String() string {
	return string(c)
}

// Category returns the category prefix of the error code (e.g., "TOKEN", "KEY").
func (c Code) Category() string {
	s := string(c)
	for i, r := range s {
		if r == '_' {
			return s[:i]
		}
	}
	return s
}
