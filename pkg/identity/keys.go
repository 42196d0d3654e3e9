package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wheniwork/frontegg-go/pkg/cache"
	"github.com/wheniwork/frontegg-go/pkg/config"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
	"github.com/wheniwork/frontegg-go/pkg/httpclient"
)

// jwksPath is the standard JWKS document served by the workspace domain.
const jwksPath = "/.well-known/jwks.json"

// legacyKeyPath is the vendor configurations endpoint that predates the
// JWKS document. It requires a vendor token.
const legacyKeyPath = "/identity/resources/configurations/v1"

// keyCacheName is the distributed cache key stem for verification keys,
// appended to the configured cache key prefix.
const keyCacheName = "public_key"

// vendorTokenSource supplies a vendor token for the legacy key endpoint.
// The [Manager] satisfies it.
type vendorTokenSource interface {
	VendorToken(ctx context.Context) (string, error)
}

// KeyResolver fetches and caches the workspace's token verification key in
// PEM form. Keys pass through two cache tiers: a process-local slot holding
// the most recently used key, and an optional distributed [cache.Adapter]
// shared across SDK instances.
//
// KeyResolver is safe for concurrent use.
type KeyResolver struct {
	cfg         *config.Config
	transport   *httpclient.Client
	distributed cache.Adapter
	vendor      vendorTokenSource
	logger      *zap.Logger

	mu       sync.Mutex
	localPEM string
	localKid string
}

// NewKeyResolver creates a resolver backed by the given transport. Pass a
// nil adapter to disable the distributed tier, and a nil logger to disable
// logging. Legacy key endpoint mode additionally needs a vendor token
// source; see [KeyResolver.SetVendorTokenSource].
func NewKeyResolver(cfg *config.Config, transport *httpclient.Client, distributed cache.Adapter, logger *zap.Logger) *KeyResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyResolver{
		cfg:         cfg,
		transport:   transport,
		distributed: distributed,
		logger:      logger,
	}
}

// SetVendorTokenSource installs the vendor token source used by the legacy
// key endpoint. JWKS mode never consults it.
func (r *KeyResolver) SetVendorTokenSource(src vendorTokenSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vendor = src
}

// Key returns the PEM-encoded verification key for the given key ID. An
// empty kid selects the workspace's primary key. With ignoreCache set, both
// cache tiers are bypassed and the key is refetched from the platform; the
// fresh key then overwrites both tiers.
//
// Fetch failures return a [fgerr.CodeKeyFetch] error. Distributed cache
// read and write failures are logged and degrade to a platform fetch; they
// never fail resolution on their own.
func (r *KeyResolver) Key(ctx context.Context, ignoreCache bool, kid string) (string, error) {
	if !ignoreCache {
		if pem, ok := r.localKey(kid); ok {
			return pem, nil
		}
		if pem, ok := r.distributedKey(ctx, kid); ok {
			r.storeLocal(pem, kid)
			return pem, nil
		}
	}

	pemKey, err := r.fetch(ctx, kid)
	if err != nil {
		return "", err
	}

	r.storeLocal(pemKey, kid)
	r.storeDistributed(ctx, pemKey, kid)
	return pemKey, nil
}

// Invalidate drops the process-local key so the next resolution consults
// the distributed cache or the platform again. Called by the verifier when
// a signature check fails, which usually means the workspace rotated keys.
func (r *KeyResolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.localPEM = ""
	r.localKid = ""
}

// cacheKey builds the distributed cache key for a key ID.
func (r *KeyResolver) cacheKey(kid string) string {
	key := r.cfg.Prefix() + keyCacheName
	if kid != "" {
		key += "_" + kid
	}
	return key
}

func (r *KeyResolver) localKey(kid string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.localPEM != "" && r.localKid == kid {
		return r.localPEM, true
	}
	return "", false
}

func (r *KeyResolver) storeLocal(pem, kid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.localPEM = pem
	r.localKid = kid
}

func (r *KeyResolver) distributedKey(ctx context.Context, kid string) (string, bool) {
	if r.distributed == nil {
		return "", false
	}
	val, ok, err := r.distributed.Get(ctx, r.cacheKey(kid))
	if err != nil {
		r.logger.Warn("key cache read failed; falling back to fetch",
			zap.String("kid", kid),
			zap.Error(err),
		)
		return "", false
	}
	return val, ok && val != ""
}

func (r *KeyResolver) storeDistributed(ctx context.Context, pem, kid string) {
	if r.distributed == nil {
		return
	}
	if err := r.distributed.Set(ctx, r.cacheKey(kid), pem, r.cfg.KeyTTL()); err != nil {
		r.logger.Warn("key cache write failed",
			zap.String("kid", kid),
			zap.Error(err),
		)
	}
}

// fetch retrieves the key from the platform using the configured endpoint
// mode.
func (r *KeyResolver) fetch(ctx context.Context, kid string) (string, error) {
	if r.cfg.Mode() == config.KeyEndpointLegacy {
		return r.fetchLegacy(ctx)
	}
	return r.fetchJWKS(ctx, kid)
}

// jwksDocument is the JWKS response shape. Only RSA fields are read; the
// platform signs with RS256.
type jwksDocument struct {
	Keys []jwksKey `json:"keys"`
}

type jwksKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// fetchJWKS retrieves the JWKS document from the workspace domain and
// converts the entry matching kid (or the first entry when no kid matches)
// to PEM.
func (r *KeyResolver) fetchJWKS(ctx context.Context, kid string) (string, error) {
	raw, err := r.transport.Get(ctx, jwksPath, nil, false, false)
	if err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeKeyFetch,
			"identity: failed to fetch JWKS document")
	}

	var doc jwksDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeKeyFetch,
			"identity: failed to parse JWKS document")
	}
	if len(doc.Keys) == 0 {
		return "", fgerr.KeyFetch("identity: JWKS document contains no keys")
	}

	entry := doc.Keys[0]
	if kid != "" {
		for _, k := range doc.Keys {
			if k.Kid == kid {
				entry = k
				break
			}
		}
	}

	pemKey, err := jwkToPEM(entry)
	if err != nil {
		return "", err
	}
	r.logger.Debug("fetched verification key from JWKS",
		zap.String("kid", entry.Kid),
	)
	return pemKey, nil
}

// legacyKeyResponse is the vendor configurations response. Only the key
// material is read.
type legacyKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

// fetchLegacy retrieves the key from the vendor configurations endpoint,
// which requires a vendor token. The endpoint returns the key either as a
// full PEM document or as bare base64, which is wrapped into PEM form.
func (r *KeyResolver) fetchLegacy(ctx context.Context) (string, error) {
	r.mu.Lock()
	vendor := r.vendor
	r.mu.Unlock()
	if vendor == nil {
		return "", fgerr.KeyFetch(
			"identity: legacy key endpoint requires a vendor token source")
	}

	token, err := vendor.VendorToken(ctx)
	if err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeKeyFetch,
			"identity: vendor authentication failed during key fetch")
	}

	opts := &httpclient.RequestOptions{
		Headers: map[string]string{"Authorization": "Bearer " + token},
	}
	raw, err := r.transport.Get(ctx, legacyKeyPath, opts, false, true)
	if err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeKeyFetch,
			"identity: failed to fetch key from configurations endpoint")
	}

	var resp legacyKeyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeKeyFetch,
			"identity: failed to parse configurations response")
	}
	if resp.PublicKey == "" {
		return "", fgerr.KeyFetch(
			"identity: configurations response carries no public key")
	}

	r.logger.Debug("fetched verification key from configurations endpoint")
	return wrapPublicKeyPEM(resp.PublicKey), nil
}

// jwkToPEM converts a JWKS RSA entry to a PEM-encoded PKIX public key.
func jwkToPEM(k jwksKey) (string, error) {
	if k.Kty != "RSA" {
		return "", fgerr.Newf(fgerr.CodeKeyFetch,
			"identity: unsupported JWKS key type %q", k.Kty)
	}
	if k.N == "" || k.E == "" {
		return "", fgerr.KeyFetch("identity: JWKS key is missing RSA parameters")
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeKeyFetch,
			"identity: failed to decode RSA modulus")
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeKeyFetch,
			"identity: failed to decode RSA exponent")
	}

	pub := &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fgerr.Wrap(err, fgerr.CodeKeyFetch,
			"identity: failed to encode public key")
	}

	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// wrapPublicKeyPEM wraps bare base64 key material into a PEM document with
// 64-character lines. Input that already carries PEM armor is returned
// unchanged.
func wrapPublicKeyPEM(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "-----BEGIN") {
		return raw
	}

	var b strings.Builder
	b.WriteString("-----BEGIN PUBLIC KEY-----\n")
	for len(raw) > 64 {
		b.WriteString(raw[:64])
		b.WriteByte('\n')
		raw = raw[64:]
	}
	if raw != "" {
		b.WriteString(raw)
		b.WriteByte('\n')
	}
	b.WriteString("-----END PUBLIC KEY-----\n")
	return b.String()
}
