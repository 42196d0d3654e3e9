package management

import (
	"context"
	"encoding/json"

	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// Tenants endpoint paths. Updates use the v2 API; everything else remains
// on v1, matching the platform.
const (
	tenantsV1Path = "/resources/tenants/v1"
	tenantsV2Path = "/resources/tenants/v2"
)

// TenantsClient manages the workspace's tenants (accounts).
type TenantsClient struct {
	reg *Clients
}

// tenantsListResponse is the tenants list envelope.
type tenantsListResponse struct {
	Tenants []models.Tenant `json:"tenants"`
}

// List returns the workspace's tenants.
func (t *TenantsClient) List(ctx context.Context, opts *ListOptions) ([]models.Tenant, error) {
	headers, err := t.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := t.reg.http.Get(ctx, tenantsV1Path,
		&httpclient.RequestOptions{Headers: headers, Query: opts.query()}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var resp tenantsListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return resp.Tenants, nil
}

// Get returns a single tenant by ID.
func (t *TenantsClient) Get(ctx context.Context, tenantID string) (*models.Tenant, error) {
	headers, err := t.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := t.reg.http.Get(ctx, tenantsV1Path+"/"+tenantID,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var tenant models.Tenant
	if err := json.Unmarshal(raw, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Create creates a tenant. TenantID and Name are required by the platform.
func (t *TenantsClient) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	headers, err := t.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := t.reg.http.Post(ctx, tenantsV1Path,
		&httpclient.RequestOptions{Headers: headers, Body: tenant}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var created models.Tenant
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces a tenant's mutable fields.
func (t *TenantsClient) Update(ctx context.Context, tenantID string, tenant *models.Tenant) (*models.Tenant, error) {
	headers, err := t.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := t.reg.http.Put(ctx, tenantsV2Path+"/"+tenantID,
		&httpclient.RequestOptions{Headers: headers, Body: tenant}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var updated models.Tenant
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateMetadata merges the given metadata into the tenant's metadata.
func (t *TenantsClient) UpdateMetadata(ctx context.Context, tenantID string, metadata map[string]any) (*models.Tenant, error) {
	headers, err := t.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"metadata": metadata}
	raw, err := t.reg.http.Patch(ctx, tenantsV1Path+"/"+tenantID+"/metadata",
		&httpclient.RequestOptions{Headers: headers, Body: body}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var updated models.Tenant
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a tenant.
func (t *TenantsClient) Delete(ctx context.Context, tenantID string) error {
	headers, err := t.reg.headers(ctx, nil)
	if err != nil {
		return err
	}

	_, err = t.reg.http.Delete(ctx, tenantsV1Path+"/"+tenantID,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	return translateHTTP(err)
}
