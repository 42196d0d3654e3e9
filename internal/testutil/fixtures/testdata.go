// Package fixtures provides shared test data constants and sample payloads
// for the Frontegg SDK test suite.
//
// Using common constants for test identities prevents magic strings in
// tests and ensures consistency across packages.
package fixtures

// Standard identity values used across the resource client tests.
const (
	// TenantID is the default tenant for unit tests.
	TenantID = "tenant-1"

	// AltTenantID is an alternative tenant for tests requiring two tenants.
	AltTenantID = "tenant-2"

	// UserID is the default user for unit tests.
	UserID = "user-1"

	// UserEmail is the default user email for unit tests.
	UserEmail = "ada@example.com"

	// UserName is the default user display name for unit tests.
	UserName = "Ada Lovelace"

	// RoleID is the default role for unit tests.
	RoleID = "role-1"
)

// Sample platform list responses used by the resource client tests.
const (
	// UsersListJSON is a minimal users list envelope.
	UsersListJSON = `{"users":[{"id":"user-1","email":"ada@example.com","name":"Ada Lovelace"}]}`

	// TenantsListJSON is a minimal tenants list envelope.
	TenantsListJSON = `{"tenants":[{"tenantId":"tenant-1","name":"Acme"},{"tenantId":"tenant-2","name":"Initech"}]}`

	// RolesListJSON is a minimal roles list response. Roles are returned
	// as a bare array, without an envelope.
	RolesListJSON = `[{"id":"role-1","key":"admin","name":"Admin"}]`

	// EntitlementsListJSON is a minimal entitlements list envelope.
	EntitlementsListJSON = `{"items":[{"id":"ent-1","planId":"plan-1","assignLevel":"TENANT","tenantId":"tenant-1"}]}`

	// AuditsListJSON is a minimal audits list envelope.
	AuditsListJSON = `{"audits":[{"id":"audit-1","tenantId":"tenant-1","type":"user.login","severity":"Info"}]}`

	// AuditsExportCSV is a minimal audits CSV export.
	AuditsExportCSV = "id,tenantId,type\naudit-1,tenant-1,user.login\n"
)
