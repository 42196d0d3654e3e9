package testutil

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/wheniwork/frontegg-go/pkg/config"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
	"github.com/wheniwork/frontegg-go/pkg/identity"
)

// Well-known identity values served by the fake platform.
const (
	PlatformClientID    = "client-123"
	PlatformAPIKey      = "api-key-456"
	PlatformKid         = "kid-1"
	PlatformVendorToken = "vendor-token-abc"
)

// RecordedRequest is one resource request captured by the fake platform.
// Key exchange and vendor authentication requests are not recorded.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Platform is an httptest-backed stand-in for the Frontegg API. It serves
// the JWKS document and the vendor token exchange itself and hands every
// other request to the handler installed with [Platform.Handle], recording
// it for later inspection.
type Platform struct {
	t      testing.TB
	Server *httptest.Server
	Key    *rsa.PrivateKey

	mu          sync.Mutex
	vendorCalls int
	requests    []RecordedRequest
	handler     http.HandlerFunc
}

// NewPlatform starts a fake platform server. The server is shut down when
// the test finishes.
func NewPlatform(t testing.TB) *Platform {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "generate RSA key")

	p := &Platform{t: t, Key: key}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

// Handle installs the handler for resource requests. Without one, resource
// requests are answered with an empty JSON object.
func (p *Platform) Handle(fn http.HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = fn
}

// Config returns a configuration pointing both base URLs at the fake
// platform.
func (p *Platform) Config() *config.Config {
	return &config.Config{
		ClientID:        PlatformClientID,
		APIKey:          config.Secret(PlatformAPIKey),
		BaseURL:         p.Server.URL,
		PlatformBaseURL: p.Server.URL,
	}
}

// Transport returns an HTTP transport wired to the fake platform.
func (p *Platform) Transport() *httpclient.Client {
	return httpclient.New(p.Config(), nil)
}

// Manager returns an identity manager wired to the fake platform, without
// a distributed cache.
func (p *Platform) Manager() *identity.Manager {
	return identity.NewManager(p.Config(), p.Transport(), nil, nil)
}

// VendorCalls reports how many vendor token exchanges the platform served.
func (p *Platform) VendorCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vendorCalls
}

// Requests returns a copy of the recorded resource requests.
func (p *Platform) Requests() []RecordedRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]RecordedRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// LastRequest returns the most recent resource request and halts the test
// when none were made.
func (p *Platform) LastRequest() RecordedRequest {
	p.t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(p.t, p.requests, "no resource requests recorded")
	return p.requests[len(p.requests)-1]
}

// SignToken signs claims with the platform's key under its published kid.
func (p *Platform) SignToken(claims jwt.MapClaims) string {
	p.t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = PlatformKid
	signed, err := tok.SignedString(p.Key)
	require.NoError(p.t, err, "sign token")
	return signed
}

// SignUserToken signs a representative user token. mutate, when non-nil,
// may adjust the claims before signing.
func (p *Platform) SignUserToken(mutate func(jwt.MapClaims)) string {
	p.t.Helper()
	claims := jwt.MapClaims{
		"sub":         "user-1",
		"type":        "userToken",
		"name":        "Ada Lovelace",
		"email":       "ada@example.com",
		"tenantId":    "tenant-1",
		"tenantIds":   []string{"tenant-1", "tenant-2"},
		"roles":       []string{"Admin"},
		"permissions": []string{"fe.secure.read.users", "fe.account.*"},
		"exp":         time.Now().Add(time.Hour).Unix(),
		"iat":         time.Now().Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}
	return p.SignToken(claims)
}

// SignTenantToken signs a representative tenant API token. mutate, when
// non-nil, may adjust the claims before signing.
func (p *Platform) SignTenantToken(mutate func(jwt.MapClaims)) string {
	p.t.Helper()
	claims := jwt.MapClaims{
		"sub":             "api-token-1",
		"type":            "tenantApiToken",
		"tenantId":        "tenant-1",
		"createdByUserId": "user-9",
		"exp":             time.Now().Add(time.Hour).Unix(),
		"iat":             time.Now().Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}
	return p.SignToken(claims)
}

func (p *Platform) serve(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/.well-known/jwks.json":
		p.serveJWKS(w)
	case "/auth/vendor":
		p.serveVendorAuth(w, r)
	default:
		p.serveResource(w, r)
	}
}

func (p *Platform) serveJWKS(w http.ResponseWriter) {
	pub := &p.Key.PublicKey
	writeJSON(w, http.StatusOK, map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": PlatformKid,
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

func (p *Platform) serveVendorAuth(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.vendorCalls++
	p.mu.Unlock()

	var body struct {
		ClientID string `json:"clientId"`
		Secret   string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ClientID == "" || body.Secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"clientId and secret are required"}})
		return
	}
	if body.ClientID != PlatformClientID || body.Secret != PlatformAPIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"errors": []string{"invalid credentials"}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     PlatformVendorToken,
		"expiresIn": 3600,
	})
}

func (p *Platform) serveResource(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	p.mu.Lock()
	p.requests = append(p.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	handler := p.handler
	p.mu.Unlock()

	r.Body = io.NopCloser(bytes.NewReader(body))
	if handler == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	handler(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
