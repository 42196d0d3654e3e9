package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/wheniwork/frontegg-go/pkg/config"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
)

// testGenerateRSAKey generates a 2048-bit RSA key pair for signing test
// tokens.
func testGenerateRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate RSA key pair")
	return key
}

// testSignToken creates an RS256-signed JWT with the given claims. A
// non-empty kid is set on the token header.
func testSignToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	tokenStr, err := token.SignedString(key)
	require.NoError(t, err, "failed to sign token")
	return tokenStr
}

// testUserClaims returns a representative set of user token claims expiring
// one hour from now.
func testUserClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":               "user-1",
		"type":              "userToken",
		"name":              "Ada Lovelace",
		"email":             "ada@example.com",
		"email_verified":    true,
		"tenantId":          "tenant-1",
		"tenantIds":         []any{"tenant-1", "tenant-2"},
		"roles":             []any{"Admin", "ReadOnly"},
		"permissions":       []any{"fe.secure.read.users", "fe.account.*"},
		"profilePictureUrl": "https://img.example.com/ada.png",
		"metadata":          map[string]any{"plan": "pro"},
		"iss":               "frontegg",
		"aud":               "client-123",
		"exp":               now.Add(time.Hour).Unix(),
		"iat":               now.Unix(),
	}
}

// testTenantClaims returns a representative set of tenant API token claims.
func testTenantClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":             "api-token-1",
		"type":            "tenantApiToken",
		"tenantId":        "tenant-1",
		"createdByUserId": "user-9",
		"roles":           []any{"Machine"},
		"permissions":     []any{"fe.secure.read.users"},
		"exp":             now.Add(time.Hour).Unix(),
		"iat":             now.Unix(),
	}
}

// testJWK converts an RSA public key to a JWKS entry map.
func testJWK(kid string, pub *rsa.PublicKey) map[string]any {
	e := big64(pub.E)
	return map[string]any{
		"kty": "RSA",
		"kid": kid,
		"alg": "RS256",
		"use": "sig",
		"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(e),
	}
}

// big64 encodes a public exponent as big-endian bytes without leading
// zeros.
func big64(e int) []byte {
	buf := make([]byte, 0, 4)
	for shift := 24; shift >= 0; shift -= 8 {
		b := byte(e >> shift)
		if b == 0 && len(buf) == 0 {
			continue
		}
		buf = append(buf, b)
	}
	return buf
}

// testPlatform is a fake platform server covering the endpoints the
// identity package talks to: the JWKS document, vendor authentication, and
// the legacy configurations endpoint.
type testPlatform struct {
	t   *testing.T
	srv *httptest.Server

	// jwks maps kid to public key served at /.well-known/jwks.json.
	jwks map[string]*rsa.PublicKey

	// legacyKey is the bare base64 key material served by the
	// configurations endpoint when non-empty.
	legacyKey string

	// vendorToken is returned by /auth/vendor. Exchange requests are
	// rejected with 401 when empty.
	vendorToken string

	// expiresIn is included in the vendor auth response when positive.
	expiresIn int

	// counters
	jwksCalls   int
	vendorCalls int
	legacyCalls int
}

// newTestPlatform starts the fake platform. The server is closed via
// t.Cleanup.
func newTestPlatform(t *testing.T) *testPlatform {
	t.Helper()
	p := &testPlatform{
		t:           t,
		jwks:        map[string]*rsa.PublicKey{},
		vendorToken: "vendor-token",
		expiresIn:   3600,
	}
	p.srv = httptest.NewServer(http.HandlerFunc(p.handle))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *testPlatform) handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/.well-known/jwks.json":
		p.jwksCalls++
		keys := make([]map[string]any, 0, len(p.jwks))
		for kid, pub := range p.jwks {
			keys = append(keys, testJWK(kid, pub))
		}
		writeJSON(w, map[string]any{"keys": keys})

	case "/auth/vendor":
		p.vendorCalls++
		if p.vendorToken == "" {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, map[string]any{"errors": []string{"invalid credentials"}})
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["clientId"] == "" || body["secret"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]any{"errors": []string{"missing credentials"}})
			return
		}
		resp := map[string]any{"token": p.vendorToken}
		if p.expiresIn > 0 {
			resp["expiresIn"] = p.expiresIn
		}
		writeJSON(w, resp)

	case "/identity/resources/configurations/v1":
		p.legacyCalls++
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"publicKey": p.legacyKey})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// config returns an SDK configuration pointing both base URLs at the fake
// platform.
func (p *testPlatform) config() *config.Config {
	return &config.Config{
		ClientID:        "client-123",
		APIKey:          "api-key",
		BaseURL:         p.srv.URL,
		PlatformBaseURL: p.srv.URL,
	}
}

// transport returns an HTTP transport wired to the fake platform.
func (p *testPlatform) transport() *httpclient.Client {
	return httpclient.New(p.config(), nil)
}

// bareBase64Key marshals a public key to the bare base64 form the legacy
// configurations endpoint returns.
func bareBase64Key(t *testing.T, pub *rsa.PublicKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(der)
}
