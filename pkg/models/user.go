// Package models defines the wire models exchanged with the Frontegg
// platform's management and self-service APIs.
//
// Field names and JSON tags follow the platform's camelCase wire format;
// the structs unmarshal platform responses directly. Optional fields use
// omitempty so partially populated models serialize cleanly as request
// bodies.
package models

import (
	"strings"
	"time"
	"unicode"
)

// User is a platform user as returned by the identity users endpoints.
type User struct {
	ID                 string         `json:"id"`
	Sub                string         `json:"sub,omitempty"`
	Email              string         `json:"email"`
	Name               string         `json:"name,omitempty"`
	PhoneNumber        string         `json:"phoneNumber,omitempty"`
	ProfilePictureURL  string         `json:"profilePictureUrl,omitempty"`
	TenantID           string         `json:"tenantId,omitempty"`
	TenantIDs          []string       `json:"tenantIds,omitempty"`
	Tenants            []UserTenant   `json:"tenants,omitempty"`
	Roles              []UserRole     `json:"roles,omitempty"`
	Permissions        []Permission   `json:"permissions,omitempty"`
	Groups             []any          `json:"groups,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	VendorMetadata     map[string]any `json:"vendorMetadata,omitempty"`
	MFAEnrolled        bool           `json:"mfaEnrolled,omitempty"`
	MFAProviders       []string       `json:"mfaProviders,omitempty"`
	ActivatedForTenant bool           `json:"activatedForTenant,omitempty"`
	Disabled           bool           `json:"isDisabled,omitempty"`
	Locked             bool           `json:"isLocked,omitempty"`
	Verified           bool           `json:"verified,omitempty"`
	ManagedBy          string         `json:"managedBy,omitempty"`
	Provider           string         `json:"provider,omitempty"`
	Source             string         `json:"source,omitempty"`
	LastLogin          *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt          *time.Time     `json:"createdAt,omitempty"`
}

// UserTenant is a user's membership in one tenant, as returned by the
// vendor-scoped users endpoints.
type UserTenant struct {
	TenantID                string     `json:"tenantId"`
	Roles                   []UserRole `json:"roles,omitempty"`
	Disabled                bool       `json:"isDisabled,omitempty"`
	TemporaryExpirationDate *time.Time `json:"temporaryExpirationDate,omitempty"`
}

// UserRole is the role summary embedded in user responses.
type UserRole struct {
	ID          string `json:"id"`
	VendorID    string `json:"vendorId,omitempty"`
	Key         string `json:"key,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Permission is a permission grant embedded in user responses.
type Permission struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
}

// FirstName returns the first whitespace-separated word of the user's
// display name, or the empty string when the name is empty.
func (u *User) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastName returns everything after the first word of the display name
// verbatim, or the empty string for single-word and empty names.
func (u *User) LastName() string {
	name := strings.TrimSpace(u.Name)
	i := strings.IndexFunc(name, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimLeftFunc(name[i:], unicode.IsSpace)
}

// HasRole reports whether the user carries a role with the given key.
// Comparison is case-insensitive, matching the token claims behavior.
func (u *User) HasRole(key string) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(r.Key, key) {
			return true
		}
	}
	return false
}

// InTenant reports whether the user belongs to the given tenant.
func (u *User) InTenant(tenantID string) bool {
	for _, id := range u.TenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}
