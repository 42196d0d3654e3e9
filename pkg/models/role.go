package models

import "time"

// Role is a platform role as returned by the roles endpoints. Permissions
// holds permission IDs; the roles endpoints carry IDs rather than the full
// permission objects attached to users.
type Role struct {
	ID            string     `json:"id,omitempty"`
	VendorID      string     `json:"vendorId,omitempty"`
	TenantID      string     `json:"tenantId,omitempty"`
	Key           string     `json:"key"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	IsDefault     bool       `json:"isDefault,omitempty"`
	FirstUserRole bool       `json:"firstUserRole,omitempty"`
	Level         int        `json:"level,omitempty"`
	Permissions   []string   `json:"permissions,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// HasPermission reports whether the role carries the given permission ID.
// This is an exact match; wildcard evaluation happens on token claims, not
// on role definitions.
func (r *Role) HasPermission(permissionID string) bool {
	for _, id := range r.Permissions {
		if id == permissionID {
			return true
		}
	}
	return false
}
