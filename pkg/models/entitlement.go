package models

import "time"

// Entitlement assignment levels.
const (
	AssignLevelUser   = "USER"
	AssignLevelTenant = "TENANT"
)

// Entitlement links a user or tenant to a plan, as returned by the
// entitlements endpoints.
type Entitlement struct {
	ID             string         `json:"id"`
	PlanID         string         `json:"planId"`
	AssignLevel    string         `json:"assignLevel"`
	UserID         string         `json:"userId,omitempty"`
	TenantID       string         `json:"tenantId,omitempty"`
	ExpirationDate *time.Time     `json:"expirationDate,omitempty"`
	CreatedAt      *time.Time     `json:"createdAt,omitempty"`
	Plan           *Plan          `json:"plan,omitempty"`
	User           map[string]any `json:"user,omitempty"`
	Tenant         map[string]any `json:"tenant,omitempty"`
}

// Plan is a subscription plan referenced by entitlements.
type Plan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Features    []Feature `json:"features,omitempty"`
}

// Feature is a capability included in a plan.
type Feature struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Expired reports whether the entitlement's expiration date has passed.
// Entitlements without an expiration date never expire.
func (e *Entitlement) Expired(now time.Time) bool {
	return e.ExpirationDate != nil && now.After(*e.ExpirationDate)
}

// IsUserLevel reports whether the entitlement is assigned to a single user.
func (e *Entitlement) IsUserLevel() bool {
	return e.AssignLevel == AssignLevelUser
}

// IsTenantLevel reports whether the entitlement is assigned to a whole
// tenant.
func (e *Entitlement) IsTenantLevel() bool {
	return e.AssignLevel == AssignLevelTenant
}
