package management

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// auditsV1Path is the audit logs endpoint.
const auditsV1Path = "/resources/audits/v1"

// AuditsClient reads and records audit log events.
type AuditsClient struct {
	reg *Clients
}

// auditsListResponse is the audit list envelope.
type auditsListResponse struct {
	Audits []models.Audit `json:"audits"`
}

// AuditFilter narrows audit list and export queries. The zero value
// returns everything the token can see.
type AuditFilter struct {
	// TenantID scopes the query to one tenant via the tenant header.
	TenantID string

	// Filter is matched against event fields server-side.
	Filter string

	// Offset and Limit page the results.
	Offset int
	Limit  int

	// SortBy names the field to order by; Order is "ASC" or "DESC".
	SortBy string
	Order  string
}

func (f *AuditFilter) query() url.Values {
	if f == nil {
		return url.Values{}
	}
	opts := ListOptions{
		Offset: f.Offset,
		Limit:  f.Limit,
		Filter: f.Filter,
		SortBy: f.SortBy,
		Order:  f.Order,
	}
	return opts.query()
}

func (f *AuditFilter) scope() map[string]string {
	if f == nil || f.TenantID == "" {
		return nil
	}
	return tenantHeader(f.TenantID)
}

// List returns audit events matching the filter.
func (a *AuditsClient) List(ctx context.Context, filter *AuditFilter) ([]models.Audit, error) {
	headers, err := a.reg.headers(ctx, filter.scope())
	if err != nil {
		return nil, err
	}

	raw, err := a.reg.http.Get(ctx, auditsV1Path,
		&httpclient.RequestOptions{Headers: headers, Query: filter.query()}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var resp auditsListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return resp.Audits, nil
}

// Get returns a single audit event by ID.
func (a *AuditsClient) Get(ctx context.Context, auditID string) (*models.Audit, error) {
	headers, err := a.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := a.reg.http.Get(ctx, auditsV1Path+"/"+auditID,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var audit models.Audit
	if err := json.Unmarshal(raw, &audit); err != nil {
		return nil, err
	}
	return &audit, nil
}

// Create records a single audit event. The event's TenantID scopes the
// request.
func (a *AuditsClient) Create(ctx context.Context, audit *models.Audit) (*models.Audit, error) {
	var extra map[string]string
	if audit != nil && audit.TenantID != "" {
		extra = tenantHeader(audit.TenantID)
	}
	headers, err := a.reg.headers(ctx, extra)
	if err != nil {
		return nil, err
	}

	raw, err := a.reg.http.Post(ctx, auditsV1Path,
		&httpclient.RequestOptions{Headers: headers, Body: audit}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var created models.Audit
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// auditsBatchBody is the request body for batch recording.
type auditsBatchBody struct {
	Audits []models.Audit `json:"audits"`
}

// CreateBatch records several audit events in one request and returns the
// stored events.
func (a *AuditsClient) CreateBatch(ctx context.Context, audits []models.Audit) ([]models.Audit, error) {
	headers, err := a.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := a.reg.http.Post(ctx, auditsV1Path+"/batch",
		&httpclient.RequestOptions{Headers: headers, Body: auditsBatchBody{Audits: audits}}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var created []models.Audit
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Export returns matching audit events as CSV.
func (a *AuditsClient) Export(ctx context.Context, filter *AuditFilter) (string, error) {
	headers, err := a.reg.headers(ctx, filter.scope())
	if err != nil {
		return "", err
	}

	raw, err := a.reg.http.Get(ctx, auditsV1Path+"/export",
		&httpclient.RequestOptions{Headers: headers, Query: filter.query()}, false, true)
	if err != nil {
		return "", translateHTTP(err)
	}
	return string(raw), nil
}
