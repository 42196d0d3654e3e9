package management

import (
	"context"
	"encoding/json"

	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// Users endpoint paths. Listing and creation use the v2 API; per-user
// operations remain on v1, matching the platform.
const (
	usersV2Path = "/identity/resources/users/v2"
	usersV1Path = "/identity/resources/users/v1"
)

// UsersClient manages the workspace's users across all tenants.
type UsersClient struct {
	reg *Clients
}

// usersListResponse is the v2 list envelope.
type usersListResponse struct {
	Users []models.User `json:"users"`
}

// List returns the workspace's users. Pass nil opts for platform defaults.
func (u *UsersClient) List(ctx context.Context, opts *ListOptions) ([]models.User, error) {
	headers, err := u.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := u.reg.http.Get(ctx, usersV2Path,
		&httpclient.RequestOptions{Headers: headers, Query: opts.query()}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var resp usersListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, translateHTTP(err)
	}
	return resp.Users, nil
}

// Get returns a single user by ID.
func (u *UsersClient) Get(ctx context.Context, userID string) (*models.User, error) {
	headers, err := u.reg.headers(ctx, nil)
	if err != nil {
		return nil, err
	}

	raw, err := u.reg.http.Get(ctx, usersV1Path+"/"+userID,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserRequest carries the fields accepted when creating (inviting) a
// user into a tenant.
type CreateUserRequest struct {
	Email           string         `json:"email"`
	Name            string         `json:"name,omitempty"`
	Password        string         `json:"password,omitempty"`
	RoleIDs         []string       `json:"roleIds,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	SkipInviteEmail bool           `json:"skipInviteEmail,omitempty"`
}

// Create creates a user inside the given tenant.
func (u *UsersClient) Create(ctx context.Context, tenantID string, req *CreateUserRequest) (*models.User, error) {
	headers, err := u.reg.headers(ctx, tenantHeader(tenantID))
	if err != nil {
		return nil, err
	}

	raw, err := u.reg.http.Post(ctx, usersV2Path,
		&httpclient.RequestOptions{Headers: headers, Body: req}, false, true)
	if err != nil {
		return nil, translateHTTP(err)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user from the given tenant.
func (u *UsersClient) Delete(ctx context.Context, userID, tenantID string) error {
	headers, err := u.reg.headers(ctx, tenantHeader(tenantID))
	if err != nil {
		return err
	}

	_, err = u.reg.http.Delete(ctx, usersV1Path+"/"+userID,
		&httpclient.RequestOptions{Headers: headers}, false, true)
	return translateHTTP(err)
}

// roleIDsBody is the request body for role assignment operations.
type roleIDsBody struct {
	RoleIDs []string `json:"roleIds"`
}

// AddRoles assigns roles to a user within a tenant.
func (u *UsersClient) AddRoles(ctx context.Context, userID, tenantID string, roleIDs []string) error {
	headers, err := u.reg.headers(ctx, tenantHeader(tenantID))
	if err != nil {
		return err
	}

	_, err = u.reg.http.Post(ctx, usersV1Path+"/"+userID+"/roles",
		&httpclient.RequestOptions{Headers: headers, Body: roleIDsBody{RoleIDs: roleIDs}}, false, true)
	return translateHTTP(err)
}

// RemoveRoles removes roles from a user within a tenant.
func (u *UsersClient) RemoveRoles(ctx context.Context, userID, tenantID string, roleIDs []string) error {
	headers, err := u.reg.headers(ctx, tenantHeader(tenantID))
	if err != nil {
		return err
	}

	_, err = u.reg.http.Delete(ctx, usersV1Path+"/"+userID+"/roles",
		&httpclient.RequestOptions{Headers: headers, Body: roleIDsBody{RoleIDs: roleIDs}}, false, true)
	return translateHTTP(err)
}
