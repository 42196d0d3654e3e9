// Package frontegg is the entry point of the Frontegg SDK. A [Client]
// bundles the HTTP transport, the token lifecycle, and the resource client
// registries behind a single facade:
//
//	cfg, err := config.FromEnv()
//	if err != nil { ... }
//	client, err := frontegg.New(cfg)
//	if err != nil { ... }
//
//	if err := client.Authenticate(ctx, bearerToken); err != nil { ... }
//	if client.HasPermission("fe.secure.read.users") {
//		users, err := client.Management().Users().List(ctx, nil)
//		...
//	}
//
// Authenticating a user token selects that user's tenant; resource clients
// obtained afterwards are scoped to it. [Client.SelectTenant] switches the
// scope explicitly.
package frontegg

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wheniwork/frontegg-go/pkg/cache"
	"github.com/wheniwork/frontegg-go/pkg/config"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/identity"
	"github.com/wheniwork/frontegg-go/pkg/management"
	"github.com/wheniwork/frontegg-go/pkg/selfservice"
)

// Option customizes a [Client].
type Option func(*options)

type options struct {
	logger *zap.Logger
	cache  cache.Adapter
}

// WithLogger installs a structured logger. Without one the SDK is silent.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCache installs a distributed cache adapter for verification keys, so
// multiple SDK instances share fetched key material.
func WithCache(adapter cache.Adapter) Option {
	return func(o *options) { o.cache = adapter }
}

// Client is the SDK facade. It is safe for concurrent use.
type Client struct {
	cfg      *config.Config
	http     *httpclient.Client
	identity *identity.Manager
	logger   *zap.Logger

	mu               sync.Mutex
	management       *management.Clients
	selfService      *selfservice.Clients
	selectedTenantID string
}

// New creates an SDK client from the configuration. ClientID and APIKey
// are required.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fgerr.Configuration("frontegg: configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	transport := httpclient.New(cfg, o.logger)
	mgr := identity.NewManager(cfg, transport, o.cache, o.logger)
	transport.SetTokenProvider(mgr)

	return &Client{
		cfg:      cfg,
		http:     transport,
		identity: mgr,
		logger:   o.logger,
	}, nil
}

// Authenticate verifies and stores the given bearer token. A user token
// additionally selects the user's tenant, so resource clients obtained
// afterwards are scoped to it. Verification failures are returned as
// [fgerr.CodeUnauthorized].
func (c *Client) Authenticate(ctx context.Context, token string) error {
	claims, err := c.identity.SetToken(ctx, token)
	if err != nil {
		return fgerr.Wrap(err, fgerr.CodeUnauthorized, "frontegg: authentication failed")
	}
	if claims.Kind() == identity.KindUser {
		if tenantID := claims.Base().TenantID(); tenantID != "" {
			c.SelectTenant(tenantID)
		}
	}
	return nil
}

// SelectTenant scopes subsequent resource operations to the given tenant.
// Cached resource client sets are dropped and rebuilt with the new scope on
// next access.
func (c *Client) SelectTenant(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedTenantID == tenantID {
		return
	}
	c.selectedTenantID = tenantID
	c.management = nil
	c.selfService = nil
}

// ClearTenant removes the tenant scope.
func (c *Client) ClearTenant() {
	c.SelectTenant("")
}

// SelectedTenant returns the currently selected tenant ID, or "".
func (c *Client) SelectedTenant() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedTenantID
}

// Management returns the vendor-scoped resource clients, scoped to the
// selected tenant.
func (c *Client) Management() *management.Clients {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.management == nil {
		c.management = management.New(c.cfg, c.http, c.identity, c.selectedTenantID, c.logger)
	}
	return c.management
}

// SelfService returns the user-scoped resource clients, scoped to the
// selected tenant.
func (c *Client) SelfService() *selfservice.Clients {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selfService == nil {
		c.selfService = selfservice.New(c.cfg, c.http, c.identity, c.selectedTenantID, c.logger)
	}
	return c.selfService
}

// Identity returns the underlying token lifecycle manager.
func (c *Client) Identity() *identity.Manager {
	return c.identity
}

// HasValidUser reports whether an unexpired user token is held.
func (c *Client) HasValidUser() bool {
	return c.identity.HasUserToken()
}

// HasValidTenant reports whether an unexpired tenant token is held.
func (c *Client) HasValidTenant() bool {
	return c.identity.HasTenantToken()
}

// UserClaims returns the authenticated user's claims, or
// [fgerr.CodeUnauthorized] when no user is authenticated.
func (c *Client) UserClaims() (*identity.UserTokenClaims, error) {
	claims, err := c.identity.UserClaims()
	if err != nil {
		return nil, fgerr.Wrap(err, fgerr.CodeUnauthorized, "frontegg: no authenticated user")
	}
	return claims, nil
}

// TenantClaims returns the held tenant token's claims, or
// [fgerr.CodeUnauthorized] when no tenant token is held.
func (c *Client) TenantClaims() (*identity.TenantTokenClaims, error) {
	claims, err := c.identity.TenantClaims()
	if err != nil {
		return nil, fgerr.Wrap(err, fgerr.CodeUnauthorized, "frontegg: no tenant token")
	}
	return claims, nil
}

// HasPermission reports whether the authenticated user's claims grant the
// permission key, honoring wildcard grants. False without a user.
func (c *Client) HasPermission(key string) bool {
	return c.identity.HasPermission(key)
}

// HasAnyRole reports whether the authenticated user holds at least one of
// the roles. False without a user.
func (c *Client) HasAnyRole(roles ...string) bool {
	return c.identity.HasAnyRole(roles...)
}

// CurrentToken returns the token subsequent requests would authenticate
// with, preferring user over tenant over vendor credentials.
func (c *Client) CurrentToken(ctx context.Context) (string, error) {
	return c.identity.Token(ctx)
}
