package selfservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// Audit endpoint paths. The /me variant returns only the authenticated
// user's own events; the base path returns the tenant's events the user is
// allowed to see.
const (
	auditsV1Path  = "/resources/audits/v1"
	auditsOwnPath = "/resources/audits/v1/me"
)

// AuditsClient reads and records audit events as the authenticated user.
type AuditsClient struct {
	reg *Clients
}

// auditsListResponse is the audit list envelope.
type auditsListResponse struct {
	Audits []models.Audit `json:"audits"`
}

// AuditQuery pages and filters audit queries. The zero value returns
// everything the token can see.
type AuditQuery struct {
	Filter string
	Offset int
	Limit  int
	SortBy string
	Order  string
}

func (q *AuditQuery) values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	if q.Offset > 0 {
		v.Set("_offset", strconv.Itoa(q.Offset))
	}
	if q.Limit > 0 {
		v.Set("_limit", strconv.Itoa(q.Limit))
	}
	if q.Filter != "" {
		v.Set("_filter", q.Filter)
	}
	if q.SortBy != "" {
		v.Set("_sortBy", q.SortBy)
	}
	if q.Order != "" {
		v.Set("_order", q.Order)
	}
	return v
}

// ListOwn returns the authenticated user's own audit events.
func (a *AuditsClient) ListOwn(ctx context.Context, query *AuditQuery) ([]models.Audit, error) {
	return a.list(ctx, auditsOwnPath, query)
}

// ListTenant returns the selected tenant's audit events visible to the
// authenticated user.
func (a *AuditsClient) ListTenant(ctx context.Context, query *AuditQuery) ([]models.Audit, error) {
	return a.list(ctx, auditsV1Path, query)
}

func (a *AuditsClient) list(ctx context.Context, path string, query *AuditQuery) ([]models.Audit, error) {
	headers, err := a.reg.headers(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := a.reg.http.Get(ctx, path,
		&httpclient.RequestOptions{Headers: headers, Query: query.values()}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var resp auditsListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return resp.Audits, nil
}

// Create records an audit event as the authenticated user.
func (a *AuditsClient) Create(ctx context.Context, audit *models.Audit) (*models.Audit, error) {
	headers, err := a.reg.headers(ctx)
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

// translateHTTP maps platform HTTP failures onto resource error codes: 404
// to not found, 400 to validation, 403 to unauthorized. Other errors pass
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
	case http.StatusForbidden, http.StatusUnauthorized:
		return fgerr.Wrap(e, fgerr.CodeUnauthorized, e.Message)
	default:
		return err
	}
}
