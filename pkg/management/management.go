// Package management provides the vendor-scoped resource clients of the
// Frontegg SDK: users, tenants, roles, entitlements, and audit logs. Every
// operation authenticates as the vendor; operations fail with
// [fgerr.CodeUnauthorized] before any network call when vendor
// authentication is unavailable.
package management

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/wheniwork/frontegg-go/pkg/config"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/identity"
)

// Clients is the registry of management resource clients. Individual
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
	tenants      *TenantsClient
	roles        *RolesClient
	entitlements *EntitlementsClient
	audits       *AuditsClient
}

// New creates the management client registry. tenantID is the currently
// selected tenant; when non-empty it is sent as the tenant scope header on
// every request unless an operation overrides it.
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

// Users returns the users client.
func (c *Clients) Users() *UsersClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users == nil {
		c.users = &UsersClient{c}
	}
	return c.users
}

// Tenants returns the tenants client.
func (c *Clients) Tenants() *TenantsClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tenants == nil {
		c.tenants = &TenantsClient{c}
	}
	return c.tenants
}

// Roles returns the roles client.
func (c *Clients) Roles() *RolesClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.roles == nil {
		c.roles = &RolesClient{c}
	}
	return c.roles
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

// Audits returns the audit logs client.
func (c *Clients) Audits() *AuditsClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.audits == nil {
		c.audits = &AuditsClient{c}
	}
	return c.audits
}

// headers builds the vendor-authenticated header set. It fails with
// [fgerr.CodeUnauthorized] when a vendor token cannot be obtained, before
// any resource request is made. The selected tenant becomes the tenant
// scope header unless extra overrides it.
func (c *Clients) headers(ctx context.Context, extra map[string]string) (map[string]string, error) {
	token, err := c.identity.VendorToken(ctx)
	if err != nil {
		return nil, fgerr.Wrap(err, fgerr.CodeUnauthorized,
			"management: this operation requires vendor authentication")
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
	for k, v := range extra {
		h[k] = v
	}
	return h, nil
}

// tenantHeader builds the extra header map scoping a request to one
// tenant.
func tenantHeader(tenantID string) map[string]string {
	return map[string]string{httpclient.TenantIDHeader: tenantID}
}

// ListOptions carries the paging and filter parameters shared by the
// management list endpoints. The zero value lists with platform defaults.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit caps the number of records returned.
	Limit int

	// Filter is matched against record fields server-side.
	Filter string

	// SortBy names the field to order by.
	SortBy string

	// Order is "ASC" or "DESC".
	Order string
}

// query converts the options to URL query parameters using the platform's
// underscore-prefixed parameter names.
func (o *ListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.Offset > 0 {
		q.Set("_offset", strconv.Itoa(o.Offset))
	}
	if o.Limit > 0 {
		q.Set("_limit", strconv.Itoa(o.Limit))
	}
	if o.Filter != "" {
		q.Set("_filter", o.Filter)
	}
	if o.SortBy != "" {
		q.Set("_sortBy", o.SortBy)
	}
	if o.Order != "" {
		q.Set("_order", o.Order)
	}
	return q
}

// translateHTTP maps platform HTTP failures onto resource error codes: 404
// to not found, 400 to validation, 409 to conflict. Other errors pass
// through unchanged.
func translateHTTP(err error) error {
	if err == nil {
		return nil
	}
	e, ok := fgerr.AsError(err)
	if !ok || e.Code != fgerr.CodeHTTP {
		return err
	}
	status, _ := e.Details["status"].(int)
	switch status {
	case http.StatusNotFound:
		return fgerr.Wrap(e, fgerr.CodeNotFound, e.Message)
	case http.StatusBadRequest:
		return fgerr.Wrap(e, fgerr.CodeValidation, e.Message)
	case http.StatusConflict:
		return fgerr.Wrap(e, fgerr.CodeConflict, e.Message)
	default:
		return err
	}
}
