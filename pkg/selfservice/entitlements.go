package selfservice

import (
	"context"
	"encoding/json"

	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// entitlementsV2Path is the entitlements endpoint. The user token scopes
// the results to the authenticated user and their tenant.
const entitlementsV2Path = "/resources/entitlements/v2"

// EntitlementsClient reads the entitlements visible to the authenticated
// user.
type EntitlementsClient struct {
	reg *Clients
}

// entitlementsListResponse is the entitlements list envelope.
type entitlementsListResponse struct {
	Items []models.Entitlement `json:"items"`
}

// List returns the authenticated user's entitlements.
func (e *EntitlementsClient) List(ctx context.Context) ([]models.Entitlement, error) {
	headers, err := e.reg.headers(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := e.reg.http.Get(ctx, entitlementsV2Path,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var resp entitlementsListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Get returns a single entitlement by ID, provided the authenticated user
// can see it.
func (e *EntitlementsClient) Get(ctx context.Context, entitlementID string) (*models.Entitlement, error) {
	headers, err := e.reg.headers(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := e.reg.http.Get(ctx, entitlementsV2Path+"/"+entitlementID,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var ent models.Entitlement
	if err := json.Unmarshal(raw, &ent); err != nil {
		return nil, err
	}
	return &ent, nil
}
