package selfservice

import (
	"context"
	"encoding/json"

	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/models"
)

// Profile endpoint paths. Reads use the v2 API; updates remain on v1.
const (
	profileV2Path = "/identity/resources/users/v2/me"
	profileV1Path = "/identity/resources/users/v1/me"
)

// UsersClient reads and updates the authenticated user's own profile.
type UsersClient struct {
	reg *Clients
}

// Profile returns the authenticated user's profile.
func (u *UsersClient) Profile(ctx context.Context) (*models.User, error) {
	headers, err := u.reg.headers(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := u.reg.http.Get(ctx, profileV2Path,
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

// UpdateProfileRequest carries the profile fields a user may change about
// themselves.
type UpdateProfileRequest struct {
	Name              string         `json:"name,omitempty"`
	PhoneNumber       string         `json:"phoneNumber,omitempty"`
	ProfilePictureURL string         `json:"profilePictureUrl,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// UpdateProfile updates the authenticated user's profile and returns the
// stored result.
func (u *UsersClient) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error) {
	headers, err := u.reg.headers(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := u.reg.http.Put(ctx, profileV1Path,
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
