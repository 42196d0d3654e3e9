package identity

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wheniwork/frontegg-go/pkg/cache"
	"github.com/wheniwork/frontegg-go/pkg/config"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
)

// vendorAuthPath is the platform endpoint that exchanges workspace
// credentials for a vendor token.
const vendorAuthPath = "/auth/vendor"

// Manager owns the SDK's token state: the vendor token obtained from the
// workspace credentials, plus at most one verified user token and one
// verified tenant token. It implements [httpclient.TokenProvider], handing
// the transport the highest-precedence token available: user, then tenant,
// then vendor.
//
// Manager is safe for concurrent use. The vendor token exchange runs under
// the state lock, so concurrent callers share a single exchange per expiry
// window.
type Manager struct {
	cfg       *config.Config
	transport *httpclient.Client
	verifier  *Verifier
	resolver  *KeyResolver
	logger    *zap.Logger
	now       func() time.Time

	mu           sync.Mutex
	vendorToken  string
	vendorExpiry time.Time
	userToken    string
	userClaims   *UserTokenClaims
	tenantToken  string
	tenantClaims *TenantTokenClaims
}

// Compile-time assertion that Manager provides tokens to the transport.
var _ httpclient.TokenProvider = (*Manager)(nil)

// NewManager creates a token manager wired to the given transport. The
// distributed adapter backs the verification key cache and may be nil; a
// nil logger disables logging.
func NewManager(cfg *config.Config, transport *httpclient.Client, distributed cache.Adapter, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := NewKeyResolver(cfg, transport, distributed, logger)
	m := &Manager{
		cfg:       cfg,
		transport: transport,
		verifier:  NewVerifier(resolver, logger),
		resolver:  resolver,
		logger:    logger,
		now:       time.Now,
	}
	resolver.SetVendorTokenSource(m)
	return m
}

// Verifier returns the manager's token verifier.
func (m *Manager) Verifier() *Verifier { return m.verifier }

// KeyResolver returns the manager's verification key resolver.
func (m *Manager) KeyResolver() *KeyResolver { return m.resolver }

// vendorAuthResponse is the /auth/vendor response shape.
type vendorAuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// VendorToken returns a vendor token, exchanging the workspace credentials
// when no unexpired token is held. The token is reused until its expiry
// window lapses.
func (m *Manager) VendorToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vendorTokenLocked(ctx)
}

// vendorTokenLocked implements VendorToken. Caller must hold m.mu.
func (m *Manager) vendorTokenLocked(ctx context.Context) (string, error) {
	if m.vendorToken != "" && m.now().Before(m.vendorExpiry) {
		return m.vendorToken, nil
	}

	body := map[string]string{
		"clientId": m.cfg.ClientID,
		"secret":   m.cfg.APIKey.Value(),
	}
	raw, err := m.transport.Post(ctx, vendorAuthPath,
		&httpclient.RequestOptions{Body: body}, false, true)
	if err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeUnauthorized,
			"identity: vendor authentication failed")
	}

	var resp vendorAuthResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeUnauthorized,
			"identity: failed to parse vendor authentication response")
	}
	if resp.Token == "" {
		return "", fgerr.Unauthorized(
			"identity: vendor authentication response carries no token")
	}

	// The response normally carries expiresIn (3600 at the time of
	// writing); the configured fallback lifetime covers responses that
	// omit it.
	ttl := m.cfg.VendorTTL()
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}

	m.vendorToken = resp.Token
	m.vendorExpiry = m.now().Add(ttl)
	m.logger.Debug("vendor token refreshed",
		zap.Duration("ttl", ttl),
	)
	return m.vendorToken, nil
}

// SetToken verifies a token of any kind and stores it under the slot
// matching its kind. Tokens of an unrecognized kind verify and are
// returned, but are not stored. Verification failures leave the stored
// state unchanged.
func (m *Manager) SetToken(ctx context.Context, token string) (Claims, error) {
	claims, err := m.verifier.Parse(ctx, token)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch c := claims.(type) {
	case *UserTokenClaims:
		m.userToken = token
		m.userClaims = c
	case *TenantTokenClaims:
		m.tenantToken = token
		m.tenantClaims = c
	default:
		m.logger.Debug("token verified but kind is not storable",
			zap.String("type", claims.Base().TokenType()),
		)
	}
	return claims, nil
}

// SetUserToken verifies and stores a user token. A verified token of any
// other kind is rejected with [fgerr.CodeTokenInvalid].
func (m *Manager) SetUserToken(ctx context.Context, token string) (*UserTokenClaims, error) {
	claims, err := m.ParseUserToken(ctx, token)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userToken = token
	m.userClaims = claims
	return claims, nil
}

// SetTenantToken verifies and stores a tenant token. A verified token of
// any other kind is rejected with [fgerr.CodeTokenInvalid].
func (m *Manager) SetTenantToken(ctx context.Context, token string) (*TenantTokenClaims, error) {
	claims, err := m.ParseTenantToken(ctx, token)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenantToken = token
	m.tenantClaims = claims
	return claims, nil
}

// ParseUserToken verifies a token and asserts it is a user token, without
// storing it.
func (m *Manager) ParseUserToken(ctx context.Context, token string) (*UserTokenClaims, error) {
	claims, err := m.verifier.Parse(ctx, token)
	if err != nil {
		return nil, err
	}
	user, ok := claims.(*UserTokenClaims)
	if !ok {
		return nil, fgerr.Newf(fgerr.CodeTokenInvalid,
			"identity: expected a user token, got %q", claims.Base().TokenType())
	}
	return user, nil
}

// ParseTenantToken verifies a token and asserts it is a tenant token,
// without storing it.
func (m *Manager) ParseTenantToken(ctx context.Context, token string) (*TenantTokenClaims, error) {
	claims, err := m.verifier.Parse(ctx, token)
	if err != nil {
		return nil, err
	}
	tenant, ok := claims.(*TenantTokenClaims)
	if !ok {
		return nil, fgerr.Newf(fgerr.CodeTokenInvalid,
			"identity: expected a tenant token, got %q", claims.Base().TokenType())
	}
	return tenant, nil
}

// ClearUserToken removes the stored user token and its claims.
func (m *Manager) ClearUserToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userToken = ""
	m.userClaims = nil
}

// ClearTenantToken removes the stored tenant token and its claims.
func (m *Manager) ClearTenantToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenantToken = ""
	m.tenantClaims = nil
}

// UserToken returns the stored user token, or [fgerr.CodeNoToken] when
// none is held.
func (m *Manager) UserToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userToken == "" {
		return "", fgerr.NoToken("identity: no user token set")
	}
	return m.userToken, nil
}

// TenantToken returns the stored tenant token, or [fgerr.CodeNoToken] when
// none is held.
func (m *Manager) TenantToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tenantToken == "" {
		return "", fgerr.NoToken("identity: no tenant token set")
	}
	return m.tenantToken, nil
}

// UserClaims returns the stored user claims, or [fgerr.CodeNoToken] when no
// user token is held.
func (m *Manager) UserClaims() (*UserTokenClaims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userClaims == nil {
		return nil, fgerr.NoToken("identity: no user token set")
	}
	return m.userClaims, nil
}

// TenantClaims returns the stored tenant claims, or [fgerr.CodeNoToken]
// when no tenant token is held.
func (m *Manager) TenantClaims() (*TenantTokenClaims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tenantClaims == nil {
		return nil, fgerr.NoToken("identity: no tenant token set")
	}
	return m.tenantClaims, nil
}

// HasUserToken reports whether an unexpired user token is held.
func (m *Manager) HasUserToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userClaims != nil && !m.userClaims.Expired(m.now())
}

// HasTenantToken reports whether an unexpired tenant token is held.
func (m *Manager) HasTenantToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tenantClaims != nil && !m.tenantClaims.Expired(m.now())
}

// HasVendorToken reports whether an unexpired vendor token is held. It
// never triggers an exchange.
func (m *Manager) HasVendorToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vendorToken != "" && m.now().Before(m.vendorExpiry)
}

// Token implements [httpclient.TokenProvider]. It returns the stored user
// token when one is held and unexpired, then the tenant token, and finally
// the vendor token, refreshing the vendor token if needed. With no token of
// any kind available the error carries [fgerr.CodeNoToken].
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userToken != "" && m.userClaims != nil && !m.userClaims.Expired(m.now()) {
		return m.userToken, nil
	}
	if m.tenantToken != "" && m.tenantClaims != nil && !m.tenantClaims.Expired(m.now()) {
		return m.tenantToken, nil
	}
	if m.cfg.ClientID == "" || m.cfg.APIKey.Value() == "" {
		return "", fgerr.NoToken("identity: no token available")
	}
	return m.vendorTokenLocked(ctx)
}

// HasPermission reports whether the stored user token grants the given
// permission key, honoring suffix wildcards. It returns false when no user
// token is held.
func (m *Manager) HasPermission(key string) bool {
	m.mu.Lock()
	claims := m.userClaims
	m.mu.Unlock()
	return claims != nil && claims.HasPermission(key)
}

// HasAnyRole reports whether the stored user token carries at least one of
// the given roles. It returns false when no user token is held. The
// intersection is case-sensitive; case folding applies only to the
// single-role [TokenClaims.HasRole] check.
func (m *Manager) HasAnyRole(roles ...string) bool {
	m.mu.Lock()
	claims := m.userClaims
	m.mu.Unlock()
	if claims == nil {
		return false
	}
	held := claims.Roles()
	for _, role := range roles {
		for _, h := range held {
			if h == role {
				return true
			}
		}
	}
	return false
}
