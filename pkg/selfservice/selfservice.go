// Package selfservice provides the user-scoped resource clients of the
// Frontegg SDK: the authenticated user's profile, entitlements, and audit
// events. Every operation acts as the authenticated user; operations fail
// with [fgerr.CodeUnauthorized] before any network call when no valid user
// token is held.
package selfservice

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wheniwork/frontegg-go/pkg/config"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/identity"
)

// Clients is the registry of self-service resource clients. Individual
// clients are created lazily and share the registry's transport, identity
// manager, and selected tenant.
//
// Clients is safe for concurrent use.
type Clients struct {
	http     *httpclient.Client
	identity *identity.Manager
	clientID string
	tenantID string
	logger   *zap.Logger

	mu           sync.Mutex
	users        *UsersClient
	entitlements *EntitlementsClient
	audits       *AuditsClient
}

// New creates the self-service client registry. tenantID is the currently
// selected tenant; when non-empty it is sent as the tenant scope header on
// every request.
func New(cfg *config.Config, transport *httpclient.Client, mgr *identity.Manager, tenantID string, logger *zap.Logger) *Clients {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clients{
		http:     transport,
		identity: mgr,
		clientID: cfg.ClientID,
		tenantID: tenantID,
		logger:   logger,
	}
}

// Users returns the profile client.
func (c *Clients) Users() *UsersClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users == nil {
		c.users = &UsersClient{c}
	}
	return c.users
}

// Entitlements returns the entitlements client.
func (c *Clients) Entitlements() *EntitlementsClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entitlements == nil {
		c.entitlements = &EntitlementsClient{c}
	}
	return c.entitlements
}

// Audits returns the audit events client.
func (c *Clients) Audits() *AuditsClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.audits == nil {
		c.audits = &AuditsClient{c}
	}
	return c.audits
}

// headers builds the user-authenticated header set. It fails with
// [fgerr.CodeUnauthorized] when no user token is held, before any resource
// request is made.
func (c *Clients) headers(_ context.Context) (map[string]string, error) {
	token, err := c.identity.UserToken()
	if err != nil {
		return nil, fgerr.Wrap(err, fgerr.CodeUnauthorized,
			"selfservice: this operation requires user authentication")
	}

	h := map[string]string{
		"Authorization": "Bearer " + token,
	}
	if c.clientID != "" {
		h[httpclient.ClientIDHeader] = c.clientID
	}
	if c.tenantID != "" {
		h[httpclient.TenantIDHeader] = c.tenantID
	}
	return h, nil
}
