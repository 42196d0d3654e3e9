package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  string
		want TokenKind
	}{
		{"userToken", KindUser},
		{"userApiToken", KindUser},
		{"tenantApiToken", KindTenant},
		{"vendorToken", KindUnknown},
		{"", KindUnknown},
		{"UserToken", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTokenType(tt.typ))
		})
	}
}

func TestNewClaims_Variants(t *testing.T) {
	t.Parallel()

	user := newClaims(jwt.MapClaims{"type": "userToken"})
	assert.IsType(t, (*UserTokenClaims)(nil), user)
	assert.Equal(t, KindUser, user.Kind())

	tenant := newClaims(jwt.MapClaims{"type": "tenantApiToken"})
	assert.IsType(t, (*TenantTokenClaims)(nil), tenant)
	assert.Equal(t, KindTenant, tenant.Kind())

	unknown := newClaims(jwt.MapClaims{"type": "somethingElse"})
	assert.IsType(t, (*TokenClaims)(nil), unknown)
	assert.Equal(t, KindUnknown, unknown.Kind())
}

func TestUserTokenClaims_Fields(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims := newUserTokenClaims(jwt.MapClaims{
		"sub":               "user-1",
		"type":              "userToken",
		"name":              "Ada Lovelace",
		"email":             "ada@example.com",
		"email_verified":    true,
		"tenantId":          "tenant-1",
		"tenantIds":         []any{"tenant-1", "tenant-2"},
		"roles":             []any{"Admin", "Admin", "ReadOnly"},
		"permissions":       []any{"fe.secure.read.users", "fe.secure.read.users"},
		"profilePictureUrl": "https://img.example.com/ada.png",
		"applicationId":     "app-1",
		"metadata":          map[string]any{"plan": "pro"},
		"iss":               "frontegg",
		"jti":               "token-id",
		"exp":               float64(exp.Unix()),
	})

	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "user-1", claims.Subject())
	assert.Equal(t, "userToken", claims.TokenType())
	assert.Equal(t, "Ada Lovelace", claims.Name())
	assert.Equal(t, "ada@example.com", claims.Email())
	assert.True(t, claims.EmailVerified())
	assert.Equal(t, "tenant-1", claims.TenantID())
	assert.Equal(t, []string{"tenant-1", "tenant-2"}, claims.TenantIDs())
	assert.Equal(t, "https://img.example.com/ada.png", claims.ProfilePictureURL())
	assert.Equal(t, "app-1", claims.ApplicationID())
	assert.Equal(t, "frontegg", claims.Issuer())
	assert.Equal(t, "token-id", claims.ID())
	assert.Equal(t, map[string]any{"plan": "pro"}, claims.Metadata())

	// Roles and permissions keep token order and are not deduplicated.
	assert.Equal(t, []string{"Admin", "Admin", "ReadOnly"}, claims.Roles())
	assert.Equal(t, []string{"fe.secure.read.users", "fe.secure.read.users"}, claims.Permissions())

	require.NotNil(t, claims.ExpiresAt())
	assert.Equal(t, exp.Unix(), claims.ExpiresAt().Unix())
	assert.Nil(t, claims.NotBefore())
}

func TestTenantTokenClaims_Fields(t *testing.T) {
	t.Parallel()

	claims := newTenantTokenClaims(jwt.MapClaims{
		"sub":             "api-token-1",
		"type":            "tenantApiToken",
		"tenantId":        "tenant-1",
		"createdByUserId": "user-9",
	})

	assert.Equal(t, KindTenant, claims.Kind())
	assert.Equal(t, "tenant-1", claims.TenantID())
	assert.Equal(t, "user-9", claims.CreatedByUserID())
	assert.Equal(t, "api-token-1", claims.Subject())
}

func TestTokenClaims_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := newTokenClaims(jwt.MapClaims{"exp": float64(now.Add(time.Minute).Unix())})
	assert.False(t, claims.Expired(now))
	assert.True(t, claims.Expired(now.Add(2*time.Minute)))

	// Tokens without exp never expire.
	eternal := newTokenClaims(jwt.MapClaims{})
	assert.False(t, eternal.Expired(now.Add(100*time.Hour)))
}

func TestTokenClaims_DefensiveCopies(t *testing.T) {
	t.Parallel()

	claims := newTokenClaims(jwt.MapClaims{
		"roles":       []any{"Admin"},
		"permissions": []any{"fe.secure.read"},
		"metadata":    map[string]any{"plan": "pro"},
	})

	claims.Roles()[0] = "mutated"
	claims.Permissions()[0] = "mutated"
	claims.Metadata()["plan"] = "mutated"

	assert.Equal(t, []string{"Admin"}, claims.Roles())
	assert.Equal(t, []string{"fe.secure.read"}, claims.Permissions())
	assert.Equal(t, map[string]any{"plan": "pro"}, claims.Metadata())
}

func TestUserTokenClaims_NameSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fullName  string
		wantFirst string
		wantLast  string
	}{
		{"two words", "Ada Lovelace", "Ada", "Lovelace"},
		{"three words", "Ada King Lovelace", "Ada", "King Lovelace"},
		{"single word", "Ada", "Ada", ""},
		{"empty", "", "", ""},
		{"extra whitespace", "  Ada   Lovelace  ", "Ada", "Lovelace"},
		{"remainder spacing preserved", "Ada  Mary   Lovelace", "Ada", "Mary   Lovelace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := newUserTokenClaims(jwt.MapClaims{"name": tt.fullName})
			assert.Equal(t, tt.wantFirst, claims.FirstName())
			assert.Equal(t, tt.wantLast, claims.LastName())
		})
	}
}

func TestHasPermission_Wildcards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		grants []any
		key    string
		want   bool
	}{
		{"exact match", []any{"fe.secure.read.users"}, "fe.secure.read.users", true},
		{"no match", []any{"fe.secure.read.users"}, "fe.secure.write.users", false},
		{"wildcard covers child", []any{"admin.*"}, "admin.billing.read", true},
		{"wildcard covers prefix itself", []any{"admin.*"}, "admin", true},
		{"wildcard respects segment boundary", []any{"admin.*"}, "administrator.read", false},
		{"wildcard is not substring match", []any{"admin.*"}, "adm", false},
		{"global wildcard", []any{"*"}, "anything.at.all", true},
		{"later grant matches", []any{"other", "fe.account.*"}, "fe.account.read", true},
		{"empty grants", []any{}, "fe.secure.read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := newUserTokenClaims(jwt.MapClaims{"permissions": tt.grants})
			assert.Equal(t, tt.want, claims.HasPermission(tt.key))
		})
	}
}

func TestHasRole_CaseInsensitive(t *testing.T) {
	t.Parallel()

	claims := newUserTokenClaims(jwt.MapClaims{"roles": []any{"Admin", "ReadOnly"}})

	assert.True(t, claims.HasRole("Admin"))
	assert.True(t, claims.HasRole("admin"))
	assert.True(t, claims.HasRole("READONLY"))
	assert.False(t, claims.HasRole("Operator"))
}
