// Package identity implements the token lifecycle for the Frontegg SDK:
// vendor authentication, verification of user and tenant tokens against the
// workspace signing key, the typed claims model, and the token store that
// decides which bearer token accompanies outgoing platform requests.
package identity

import (
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind classifies a verified JWT by the actor it represents.
type TokenKind string

const (
	// KindVendor identifies the workspace's own token, obtained by
	// exchanging the client ID and API key.
	KindVendor TokenKind = "vendor"

	// KindUser identifies a token issued to an end user, either through a
	// hosted login flow (type "userToken") or a personal API token
	// (type "userApiToken").
	KindUser TokenKind = "user"

	// KindTenant identifies a tenant-scoped API token (type
	// "tenantApiToken").
	KindTenant TokenKind = "tenant"

	// KindUnknown is returned for token types this SDK version does not
	// recognize. Unknown tokens verify but are never stored.
	KindUnknown TokenKind = "unknown"
)

// String returns the string representation of the token kind.
func (k TokenKind) String() string { return string(k) }

// ParseTokenType maps the platform's "type" claim to a [TokenKind].
func ParseTokenType(typ string) TokenKind {
	switch typ {
	case "userToken", "userApiToken":
		return KindUser
	case "tenantApiToken":
		return KindTenant
	default:
		return KindUnknown
	}
}

// Claims is the interface shared by all verified token claims. Use a type
// switch or the Kind method to recover the concrete variant.
type Claims interface {
	// Kind reports which actor the token represents.
	Kind() TokenKind

	// Base returns the claims common to every token variant.
	Base() *TokenClaims
}

// TokenClaims holds the claims present on every platform-issued token.
// Values are captured at verification time; all accessors that return
// reference types return copies, so a TokenClaims is immutable once built.
type TokenClaims struct {
	tokenType     string
	tenantID      string
	applicationID string
	metadata      map[string]any
	permissions   []string
	roles         []string

	issuer    string
	subject   string
	audience  []string
	id        string
	expiresAt *time.Time
	notBefore *time.Time
	issuedAt  *time.Time
}

// newTokenClaims builds the common claims from a verified claim map.
func newTokenClaims(mc jwt.MapClaims) *TokenClaims {
	tc := &TokenClaims{
		tokenType:     claimString(mc, "type"),
		tenantID:      claimString(mc, "tenantId"),
		applicationID: claimString(mc, "applicationId"),
		metadata:      claimMap(mc, "metadata"),
		permissions:   claimStrings(mc, "permissions"),
		roles:         claimStrings(mc, "roles"),
		issuer:        claimString(mc, "iss"),
		subject:       claimString(mc, "sub"),
		id:            claimString(mc, "jti"),
	}

	if aud, err := mc.GetAudience(); err == nil {
		tc.audience = []string(aud)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		tc.expiresAt = &t
	}
	if nbf, err := mc.GetNotBefore(); err == nil && nbf != nil {
		t := nbf.Time
		tc.notBefore = &t
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		tc.issuedAt = &t
	}
	return tc
}

// Kind classifies the token from its "type" claim.
func (c *TokenClaims) Kind() TokenKind { return ParseTokenType(c.tokenType) }

// Base returns the receiver, satisfying [Claims].
func (c *TokenClaims) Base() *TokenClaims { return c }

// TokenType returns the raw "type" claim as issued by the platform.
func (c *TokenClaims) TokenType() string { return c.tokenType }

// TenantID returns the tenant the token is scoped to. For user tokens this
// is the active tenant selected at login.
func (c *TokenClaims) TenantID() string { return c.tenantID }

// ApplicationID returns the application the token was issued for, when the
// workspace uses application scoping.
func (c *TokenClaims) ApplicationID() string { return c.applicationID }

// Metadata returns a copy of the token's metadata claim.
func (c *TokenClaims) Metadata() map[string]any {
	if c.metadata == nil {
		return nil
	}
	out := make(map[string]any, len(c.metadata))
	for k, v := range c.metadata {
		out[k] = v
	}
	return out
}

// Permissions returns a copy of the granted permission keys, in token order.
func (c *TokenClaims) Permissions() []string { return copyStrings(c.permissions) }

// Roles returns a copy of the granted role keys, in token order.
func (c *TokenClaims) Roles() []string { return copyStrings(c.roles) }

// Issuer returns the "iss" claim.
func (c *TokenClaims) Issuer() string { return c.issuer }

// Subject returns the "sub" claim.
func (c *TokenClaims) Subject() string { return c.subject }

// Audience returns a copy of the "aud" claim values.
func (c *TokenClaims) Audience() []string { return copyStrings(c.audience) }

// ID returns the "jti" claim.
func (c *TokenClaims) ID() string { return c.id }

// ExpiresAt returns the "exp" claim, or nil when the token carries none.
func (c *TokenClaims) ExpiresAt() *time.Time { return copyTime(c.expiresAt) }

// NotBefore returns the "nbf" claim, or nil when the token carries none.
func (c *TokenClaims) NotBefore() *time.Time { return copyTime(c.notBefore) }

// IssuedAt returns the "iat" claim, or nil when the token carries none.
func (c *TokenClaims) IssuedAt() *time.Time { return copyTime(c.issuedAt) }

// Expired reports whether the token's expiration has passed at the given
// instant. Tokens without an "exp" claim never expire.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.expiresAt != nil && now.After(*c.expiresAt)
}

// HasPermission reports whether the token grants the given permission key.
// Grants match exactly, or by prefix when the grant ends in ".*": the grant
// "fe.secure.*" covers "fe.secure" and "fe.secure.read" but not
// "fe.secured". The bare grant "*" covers every key.
func (c *TokenClaims) HasPermission(key string) bool {
	for _, grant := range c.permissions {
		if permissionMatches(grant, key) {
			return true
		}
	}
	return false
}

// HasRole reports whether the token carries the given role key. Role
// comparison is case-insensitive.
func (c *TokenClaims) HasRole(role string) bool {
	for _, r := range c.roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// permissionMatches evaluates a single grant against a permission key.
func permissionMatches(grant, key string) bool {
	if grant == "*" || grant == key {
		return true
	}
	if !strings.HasSuffix(grant, ".*") {
		return false
	}
	prefix := strings.TrimSuffix(grant, ".*")
	return key == prefix || strings.HasPrefix(key, prefix+".")
}

// UserTokenClaims carries the claims of a user token or user API token.
type UserTokenClaims struct {
	TokenClaims

	name              string
	email             string
	emailVerified     bool
	tenantIDs         []string
	profilePictureURL string
}

// newUserTokenClaims builds user claims from a verified claim map.
func newUserTokenClaims(mc jwt.MapClaims) *UserTokenClaims {
	return &UserTokenClaims{
		TokenClaims:       *newTokenClaims(mc),
		name:              claimString(mc, "name"),
		email:             claimString(mc, "email"),
		emailVerified:     claimBool(mc, "email_verified"),
		tenantIDs:         claimStrings(mc, "tenantIds"),
		profilePictureURL: claimString(mc, "profilePictureUrl"),
	}
}

// Kind always returns [KindUser].
func (c *UserTokenClaims) Kind() TokenKind { return KindUser }

// Base returns the claims common to every token variant.
func (c *UserTokenClaims) Base() *TokenClaims { return &c.TokenClaims }

// UserID returns the user's identifier (the token subject).
func (c *UserTokenClaims) UserID() string { return c.subject }

// Name returns the user's display name.
func (c *UserTokenClaims) Name() string { return c.name }

// Email returns the user's email address.
func (c *UserTokenClaims) Email() string { return c.email }

// EmailVerified reports whether the platform has verified the user's email.
func (c *UserTokenClaims) EmailVerified() bool { return c.emailVerified }

// TenantIDs returns a copy of all tenants the user belongs to.
func (c *UserTokenClaims) TenantIDs() []string { return copyStrings(c.tenantIDs) }

// ProfilePictureURL returns the user's avatar URL.
func (c *UserTokenClaims) ProfilePictureURL() string { return c.profilePictureURL }

// FirstName returns the first whitespace-separated word of the display
// name, or the empty string when the name is empty.
func (c *UserTokenClaims) FirstName() string {
	fields := strings.Fields(c.name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastName returns everything after the first word of the display name
// verbatim, or the empty string for single-word and empty names.
func (c *UserTokenClaims) LastName() string {
	return nameRemainder(c.name)
}

// nameRemainder splits a display name on its first whitespace run and
// returns the remainder with internal spacing preserved.
func nameRemainder(name string) string {
	name = strings.TrimSpace(name)
	i := strings.IndexFunc(name, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimLeftFunc(name[i:], unicode.IsSpace)
}

// TenantTokenClaims carries the claims of a tenant API token.
type TenantTokenClaims struct {
	TokenClaims

	createdByUserID string
}

// newTenantTokenClaims builds tenant claims from a verified claim map.
func newTenantTokenClaims(mc jwt.MapClaims) *TenantTokenClaims {
	return &TenantTokenClaims{
		TokenClaims:     *newTokenClaims(mc),
		createdByUserID: claimString(mc, "createdByUserId"),
	}
}

// Kind always returns [KindTenant].
func (c *TenantTokenClaims) Kind() TokenKind { return KindTenant }

// Base returns the claims common to every token variant.
func (c *TenantTokenClaims) Base() *TokenClaims { return &c.TokenClaims }

// CreatedByUserID returns the user who created the tenant API token.
func (c *TenantTokenClaims) CreatedByUserID() string { return c.createdByUserID }

// newClaims builds the claims variant matching the token's "type" claim.
// Unrecognized types yield the base [TokenClaims], whose Kind reports
// [KindUnknown].
func newClaims(mc jwt.MapClaims) Claims {
	switch ParseTokenType(claimString(mc, "type")) {
	case KindUser:
		return newUserTokenClaims(mc)
	case KindTenant:
		return newTenantTokenClaims(mc)
	default:
		return newTokenClaims(mc)
	}
}

// claimString extracts a string claim, returning "" when absent or not a
// string.
func claimString(mc jwt.MapClaims, key string) string {
	s, _ := mc[key].(string)
	return s
}

// claimBool extracts a boolean claim, returning false when absent.
func claimBool(mc jwt.MapClaims, key string) bool {
	b, _ := mc[key].(bool)
	return b
}

// claimStrings extracts a string-array claim, preserving order and skipping
// non-string elements. Returns nil when the claim is absent.
func claimStrings(mc jwt.MapClaims, key string) []string {
	raw, ok := mc[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// claimMap extracts an object claim. Returns nil when absent.
func claimMap(mc jwt.MapClaims, key string) map[string]any {
	m, ok := mc[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyTime(in *time.Time) *time.Time {
	if in == nil {
		return nil
	}
	t := *in
	return &t
}
