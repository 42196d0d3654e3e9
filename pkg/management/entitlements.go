package management

import (
	"context"
	"encoding/json"

	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// entitlementsV2Path is the entitlements endpoint.
const entitlementsV2Path = "/resources/entitlements/v2"

// EntitlementsClient manages plan entitlements granted to users and
// tenants.
type EntitlementsClient struct {
	reg *Clients
}

// entitlementsListResponse is the entitlements list envelope.
type entitlementsListResponse struct {
	Items []models.Entitlement `json:"items"`
}

// List returns the workspace's entitlements.
func (e *EntitlementsClient) List(ctx context.Context, opts *ListOptions) ([]models.Entitlement, error) {
	headers, err := e.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := e.reg.http.Get(ctx, entitlementsV2Path,
		&httpclient.RequestOptions{Headers: headers, Query: opts.query()}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var resp entitlementsListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Get returns a single entitlement by ID.
func (e *EntitlementsClient) Get(ctx context.Context, entitlementID string) (*models.Entitlement, error) {
	headers, err := e.reg.headers(ctx, nil)
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

// Create grants a single entitlement.
func (e *EntitlementsClient) Create(ctx context.Context, ent *models.Entitlement) (*models.Entitlement, error) {
	headers, err := e.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := e.reg.http.Post(ctx, entitlementsV2Path,
		&httpclient.RequestOptions{Headers: headers, Body: ent}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var created models.Entitlement
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// entitlementsBatchBody is the request body for batch grants.
type entitlementsBatchBody struct {
	Entitlements []models.Entitlement `json:"entitlements"`
}

// CreateBatch grants several entitlements in one request.
func (e *EntitlementsClient) CreateBatch(ctx context.Context, ents []models.Entitlement) ([]models.Entitlement, error) {
	headers, err := e.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := e.reg.http.Post(ctx, entitlementsV2Path+"/batch",
		&httpclient.RequestOptions{Headers: headers, Body: entitlementsBatchBody{Entitlements: ents}}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var created []models.Entitlement
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Delete revokes an entitlement.
func (e *EntitlementsClient) Delete(ctx context.Context, entitlementID string) error {
	headers, err := e.reg.headers(ctx, nil)
	if err != nil {
		return err
	}

	_, err = e.reg.http.Delete(ctx, entitlementsV2Path+"/"+entitlementID,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	return translateHTTP(err)
}
