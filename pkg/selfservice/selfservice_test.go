package selfservice

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheniwork/frontegg-go/internal/testutil"
	"github.com/wheniwork/frontegg-go/internal/testutil/fixtures"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/identity"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// newTestClients returns a registry with an authenticated user when
// authenticated is true.
func newTestClients(t *testing.T, p *testutil.Platform, authenticated bool) (*Clients, *identity.Manager) {
	t.Helper()
	cfg := p.Config()
	transport := p.Transport()
	mgr := identity.NewManager(cfg, transport, nil, nil)
	if authenticated {
		_, err := mgr.SetUserToken(context.Background(), p.SignUserToken(nil))
		require.NoError(t, err)
	}
	return New(cfg, transport, mgr, fixtures.TenantID, nil), mgr
}

func respondJSON(t *testing.T, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestClients_RequiresUserToken(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	clients, _ := newTestClients(t, p, false)

	_, err := clients.Users().Profile(context.Background())
	testutil.RequireErrorCode(t, err, fgerr.CodeUnauthorized)
	assert.Empty(t, p.Requests(), "no resource request should be made without a user token")
}

func TestClients_InjectsUserHeaders(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	p.Handle(respondJSON(t, `{"id":"user-1","email":"ada@example.com"}`))
	clients, mgr := newTestClients(t, p, true)

	_, err := clients.Users().Profile(context.Background())
	require.NoError(t, err)

	token, err := mgr.UserToken()
	require.NoError(t, err)

	req := p.LastRequest()
	assert.Equal(t, "Bearer "+token, req.Header.Get("Authorization"))
	assert.Equal(t, testutil.PlatformClientID, req.Header.Get(httpclient.ClientIDHeader))
	assert.Equal(t, fixtures.TenantID, req.Header.Get(httpclient.TenantIDHeader))
}

func TestUsers_Profile(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	p.Handle(respondJSON(t, `{"id":"user-1","email":"ada@example.com","name":"Ada Lovelace"}`))
	clients, _ := newTestClients(t, p, true)

	profile, err := clients.Users().Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixtures.UserEmail, profile.Email)
	assert.Equal(t, "Ada", profile.FirstName())

	req := p.LastRequest()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/identity/resources/users/v2/me", req.Path)
}

func TestUsers_UpdateProfile(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	p.Handle(respondJSON(t, `{"id":"user-1","name":"Ada King"}`))
	clients, _ := newTestClients(t, p, true)

	updated, err := clients.Users().UpdateProfile(context.Background(), &UpdateProfileRequest{Name: "Ada King"})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", updated.Name)

	req := p.LastRequest()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/identity/resources/users/v1/me", req.Path)
	assert.JSONEq(t, `{"name":"Ada King"}`, string(req.Body))
}

func TestEntitlements_List(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	p.Handle(respondJSON(t, fixtures.EntitlementsListJSON))
	clients, _ := newTestClients(t, p, true)

	ents, err := clients.Entitlements().List(context.Background())
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, "plan-1", ents[0].PlanID)
	assert.Equal(t, "/resources/entitlements/v2", p.LastRequest().Path)
}

func TestAudits_ListOwn(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	p.Handle(respondJSON(t, fixtures.AuditsListJSON))
	clients, _ := newTestClients(t, p, true)

	audits, err := clients.Audits().ListOwn(context.Background(), &AuditQuery{Limit: 5})
	require.NoError(t, err)
	require.Len(t, audits, 1)

	req := p.LastRequest()
	assert.Equal(t, "/resources/audits/v1/me", req.Path)
	assert.Equal(t, "5", req.Query.Get("_limit"))
}

func TestAudits_ListTenant(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	p.Handle(respondJSON(t, fixtures.AuditsListJSON))
	clients, _ := newTestClients(t, p, true)

	_, err := clients.Audits().ListTenant(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/resources/audits/v1", p.LastRequest().Path)
}

func TestAudits_Create(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	p.Handle(respondJSON(t, `{"id":"audit-9","type":"profile.updated"}`))
	clients, _ := newTestClients(t, p, true)

	created, err := clients.Audits().Create(context.Background(),
		models.NewAuditEvent(fixtures.TenantID, "profile.updated", "account"))
	require.NoError(t, err)
	assert.Equal(t, "audit-9", created.ID)
	assert.Equal(t, http.MethodPost, p.LastRequest().Method)
}

func TestTranslateHTTP_ForbiddenBecomesUnauthorized(t *testing.T) {
	t.Parallel()

	p := testutil.NewPlatform(t)
	p.Handle(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":["insufficient permissions"]}`))
	})
	clients, _ := newTestClients(t, p, true)

	_, err := clients.Users().Profile(context.Background())
	testutil.RequireErrorCode(t, err, fgerr.CodeUnauthorized)
}
