package models

import "time"

// Tenant is a platform account (organization) as returned by the tenants
// endpoints.
type Tenant struct {
	ID                string          `json:"id,omitempty"`
	TenantID          string          `json:"tenantId"`
	Name              string          `json:"name"`
	WebsiteURL        string          `json:"websiteUrl,omitempty"`
	Metadata          map[string]any  `json:"metadata,omitempty"`
	VendorMetadata    map[string]any  `json:"vendorMetadata,omitempty"`
	Features          []TenantFeature `json:"features,omitempty"`
	Locked            bool            `json:"isLocked,omitempty"`
	BackOfficeEnabled bool            `json:"backOfficeEnabled,omitempty"`
	CreatedAt         *time.Time      `json:"createdAt,omitempty"`
	LastLogin         *time.Time      `json:"lastLogin,omitempty"`
}

// TenantFeature is a feature flag enabled for a tenant.
type TenantFeature struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// HasFeature reports whether the tenant has the feature with the given key.
func (t *Tenant) HasFeature(key string) bool {
	for _, f := range t.Features {
		if f.Key == key {
			return true
		}
	}
	return false
}
