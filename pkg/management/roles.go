package management

import (
	"context"
	"encoding/json"

	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// rolesV1Path is the roles endpoint. Role operations are tenant-scoped via
// the tenant header.
const rolesV1Path = "/identity/resources/roles/v1"

// RolesClient manages the roles defined for a tenant.
type RolesClient struct {
	reg *Clients
}

// List returns the roles visible in the given tenant. An empty tenantID
// uses the registry's selected tenant.
func (r *RolesClient) List(ctx context.Context, tenantID string) ([]models.Role, error) {
	headers, err := r.reg.headers(ctx, r.scope(tenantID))
	if err != nil {
		return nil, err
	}

	raw, err := r.reg.http.Get(ctx, rolesV1Path,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var roles []models.Role
	if err := json.Unmarshal(raw, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Create creates roles in the given tenant and returns the created
// definitions.
func (r *RolesClient) Create(ctx context.Context, tenantID string, roles []models.Role) ([]models.Role, error) {
	headers, err := r.reg.headers(ctx, r.scope(tenantID))
	if err != nil {
		return nil, err
	}

	raw, err := r.reg.http.Post(ctx, rolesV1Path,
		&httpclient.RequestOptions{Headers: headers, Body: roles}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var created []models.Role
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update modifies a role's fields.
func (r *RolesClient) Update(ctx context.Context, tenantID, roleID string, role *models.Role) (*models.Role, error) {
	headers, err := r.reg.headers(ctx, r.scope(tenantID))
	if err != nil {
		return nil, err
	}

	raw, err := r.reg.http.Patch(ctx, rolesV1Path+"/"+roleID,
		&httpclient.RequestOptions{Headers: headers, Body: role}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var updated models.Role
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a role.
func (r *RolesClient) Delete(ctx context.Context, tenantID, roleID string) error {
	headers, err := r.reg.headers(ctx, r.scope(tenantID))
	if err != nil {
		return err
	}

	_, err = r.reg.http.Delete(ctx, rolesV1Path+"/"+roleID,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	return translateHTTP(err)
}

// permissionIDsBody is the request body for role permission operations.
type permissionIDsBody struct {
	PermissionIDs []string `json:"permissionIds"`
}

// SetPermissions replaces a role's permission set.
func (r *RolesClient) SetPermissions(ctx context.Context, tenantID, roleID string, permissionIDs []string) (*models.Role, error) {
	headers, err := r.reg.headers(ctx, r.scope(tenantID))
	if err != nil {
		return nil, err
	}

	raw, err := r.reg.http.Put(ctx, rolesV1Path+"/"+roleID+"/permissions",
		&httpclient.RequestOptions{Headers: headers, Body: permissionIDsBody{PermissionIDs: permissionIDs}}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var updated models.Role
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// scope builds the tenant header for the explicit tenantID, falling back
// to the registry's selected tenant via the default headers.
func (r *RolesClient) scope(tenantID string) map[string]string {
	if tenantID == "" {
		return nil
	}
	return tenantHeader(tenantID)
}
