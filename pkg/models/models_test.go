package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalsWireFormat(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": "u1",
		"sub": "u1",
		"email": "ada@example.com",
		"name": "Ada Lovelace",
		"profilePictureUrl": "https://img.example.com/ada.png",
		"tenantId": "t1",
		"tenantIds": ["t1", "t2"],
		"roles": [{"id": "r1", "key": "admin", "name": "Admin"}],
		"permissions": [{"id": "p1", "key": "fe.secure.read.users"}],
		"metadata": {"plan": "pro"},
		"mfaEnrolled": true,
		"isDisabled": false,
		"verified": true,
		"provider": "frontegg",
		"createdAt": "2024-03-01T12:00:00Z"
	}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, []string{"t1", "t2"}, u.TenantIDs)
	assert.Equal(t, "admin", u.Roles[0].Key)
	assert.Equal(t, "fe.secure.read.users", u.Permissions[0].Key)
	assert.True(t, u.MFAEnrolled)
	assert.True(t, u.Verified)
	require.NotNil(t, u.CreatedAt)
	assert.Equal(t, 2024, u.CreatedAt.Year())
}

func TestUser_NameSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		wantFirst string
		wantLast  string
	}{
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"Ada King Lovelace", "Ada", "King Lovelace"},
		{"Ada  Mary   Lovelace", "Ada", "Mary   Lovelace"},
		{"Ada", "Ada", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		u := User{Name: tt.name}
		assert.Equal(t, tt.wantFirst, u.FirstName(), "first name of %q", tt.name)
		assert.Equal(t, tt.wantLast, u.LastName(), "last name of %q", tt.name)
	}
}

func TestUser_HasRoleAndInTenant(t *testing.T) {
	t.Parallel()

	u := User{
		TenantIDs: []string{"t1"},
		Roles:     []UserRole{{ID: "r1", Key: "Admin"}},
	}

	assert.True(t, u.HasRole("admin"))
	assert.False(t, u.HasRole("viewer"))
	assert.True(t, u.InTenant("t1"))
	assert.False(t, u.InTenant("t2"))
}

func TestTenant_HasFeature(t *testing.T) {
	t.Parallel()

	tenant := Tenant{
		TenantID: "t1",
		Name:     "Acme",
		Features: []TenantFeature{{Key: "sso"}, {Key: "audit-log"}},
	}

	assert.True(t, tenant.HasFeature("sso"))
	assert.False(t, tenant.HasFeature("scim"))
}

func TestRole_HasPermission(t *testing.T) {
	t.Parallel()

	role := Role{
		Key:         "admin",
		Permissions: []string{"perm-1", "perm-2"},
	}

	assert.True(t, role.HasPermission("perm-1"))
	assert.False(t, role.HasPermission("perm"), "role permission match is exact")
}

func TestEntitlement_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&Entitlement{ExpirationDate: &past}).Expired(now))
	assert.False(t, (&Entitlement{ExpirationDate: &future}).Expired(now))
	assert.False(t, (&Entitlement{}).Expired(now), "no expiration date means never expired")
}

func TestEntitlement_AssignLevels(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Entitlement{AssignLevel: AssignLevelUser}).IsUserLevel())
	assert.True(t, (&Entitlement{AssignLevel: AssignLevelTenant}).IsTenantLevel())
	assert.False(t, (&Entitlement{AssignLevel: AssignLevelTenant}).IsUserLevel())
}

func TestNewAuditEvent(t *testing.T) {
	t.Parallel()

	audit := NewAuditEvent("t1", "user.login", "Auth")

	assert.NotEmpty(t, audit.ID, "a fresh UUID should be assigned")
	assert.Equal(t, "t1", audit.TenantID)
	assert.Equal(t, "user.login", audit.Type)
	assert.Equal(t, "Auth", audit.Category)
	assert.Equal(t, SeverityInfo, audit.Severity)
	require.NotNil(t, audit.CreatedAt)

	other := NewAuditEvent("t1", "user.login", "Auth")
	assert.NotEqual(t, audit.ID, other.ID)
}

func TestAudit_RoundTrip(t *testing.T) {
	t.Parallel()

	audit := NewAuditEvent("t1", "user.login", "Auth")
	audit.UserID = "u1"
	audit.IP = "203.0.113.9"

	raw, err := json.Marshal(audit)
	require.NoError(t, err)

	var decoded Audit
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, audit.ID, decoded.ID)
	assert.Equal(t, "203.0.113.9", decoded.IP)
}
