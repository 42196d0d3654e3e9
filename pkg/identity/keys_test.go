package identity

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheniwork/frontegg-go/pkg/cache"
	"github.com/wheniwork/frontegg-go/pkg/config"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
)

func TestKeyResolver_JWKSFetch(t *testing.T) {
	platform := newTestPlatform(t)
	key := testGenerateRSAKey(t)
	platform.jwks["kid-1"] = &key.PublicKey

	resolver := NewKeyResolver(platform.config(), platform.transport(), nil, nil)

	pemKey, err := resolver.Key(context.Background(), false, "kid-1")
	require.NoError(t, err)

	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	require.NoError(t, err, "fetched key should be a parseable RSA PEM")
	assert.True(t, pub.Equal(&key.PublicKey))
	assert.Equal(t, 1, platform.jwksCalls)
}

func TestKeyResolver_LocalSlotAvoidsRefetch(t *testing.T) {
	platform := newTestPlatform(t)
	key := testGenerateRSAKey(t)
	platform.jwks["kid-1"] = &key.PublicKey

	resolver := NewKeyResolver(platform.config(), platform.transport(), nil, nil)

	_, err := resolver.Key(context.Background(), false, "kid-1")
	require.NoError(t, err)
	_, err = resolver.Key(context.Background(), false, "kid-1")
	require.NoError(t, err)

	assert.Equal(t, 1, platform.jwksCalls, "second resolution should hit the local slot")
}

func TestKeyResolver_KidSelection(t *testing.T) {
	platform := newTestPlatform(t)
	keyA := testGenerateRSAKey(t)
	keyB := testGenerateRSAKey(t)
	platform.jwks["kid-a"] = &keyA.PublicKey
	platform.jwks["kid-b"] = &keyB.PublicKey

	resolver := NewKeyResolver(platform.config(), platform.transport(), nil, nil)

	pemKey, err := resolver.Key(context.Background(), false, "kid-b")
	require.NoError(t, err)

	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	require.NoError(t, err)
	assert.True(t, pub.Equal(&keyB.PublicKey), "resolver should pick the entry matching the kid")
}

func TestKeyResolver_DistributedCache(t *testing.T) {
	platform := newTestPlatform(t)
	key := testGenerateRSAKey(t)
	platform.jwks["kid-1"] = &key.PublicKey

	distributed := cache.NewMemory()
	resolver := NewKeyResolver(platform.config(), platform.transport(), distributed, nil)

	ctx := context.Background()
	pemKey, err := resolver.Key(ctx, false, "kid-1")
	require.NoError(t, err)

	// The fetched key lands in the distributed tier under the prefixed key.
	cached, ok, err := distributed.Get(ctx, "frontegg_public_key_kid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pemKey, cached)

	// A second resolver instance warms itself from the distributed tier
	// without touching the platform.
	fresh := NewKeyResolver(platform.config(), platform.transport(), distributed, nil)
	got, err := fresh.Key(ctx, false, "kid-1")
	require.NoError(t, err)
	assert.Equal(t, pemKey, got)
	assert.Equal(t, 1, platform.jwksCalls)
}

func TestKeyResolver_IgnoreCacheBypassesBothTiers(t *testing.T) {
	platform := newTestPlatform(t)
	key := testGenerateRSAKey(t)
	platform.jwks["kid-1"] = &key.PublicKey

	distributed := cache.NewMemory()
	ctx := context.Background()
	require.NoError(t, distributed.Set(ctx, "frontegg_public_key_kid-1", "stale-pem", 0))

	resolver := NewKeyResolver(platform.config(), platform.transport(), distributed, nil)

	pemKey, err := resolver.Key(ctx, true, "kid-1")
	require.NoError(t, err)
	assert.NotEqual(t, "stale-pem", pemKey)
	assert.Equal(t, 1, platform.jwksCalls)

	// The fresh key overwrites the stale distributed entry.
	cached, ok, err := distributed.Get(ctx, "frontegg_public_key_kid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pemKey, cached)
}

func TestKeyResolver_Invalidate(t *testing.T) {
	platform := newTestPlatform(t)
	key := testGenerateRSAKey(t)
	platform.jwks["kid-1"] = &key.PublicKey

	resolver := NewKeyResolver(platform.config(), platform.transport(), nil, nil)

	ctx := context.Background()
	_, err := resolver.Key(ctx, false, "kid-1")
	require.NoError(t, err)

	resolver.Invalidate()

	_, err = resolver.Key(ctx, false, "kid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, platform.jwksCalls, "invalidation should force a refetch")
}

func TestKeyResolver_EmptyJWKS(t *testing.T) {
	platform := newTestPlatform(t)

	resolver := NewKeyResolver(platform.config(), platform.transport(), nil, nil)

	_, err := resolver.Key(context.Background(), false, "")
	require.Error(t, err)
	assert.True(t, fgerr.IsKeyFetch(err))
}

func TestKeyResolver_UnreachablePlatform(t *testing.T) {
	platform := newTestPlatform(t)
	cfg := platform.config()
	transport := platform.transport()
	platform.srv.Close()

	resolver := NewKeyResolver(cfg, transport, nil, nil)

	_, err := resolver.Key(context.Background(), false, "")
	require.Error(t, err)
	assert.True(t, fgerr.IsKeyFetch(err))
	assert.True(t, fgerr.IsRetryable(err))
}

func TestKeyResolver_LegacyEndpoint(t *testing.T) {
	platform := newTestPlatform(t)
	key := testGenerateRSAKey(t)
	platform.legacyKey = bareBase64Key(t, &key.PublicKey)

	cfg := platform.config()
	cfg.KeyEndpointMode = config.KeyEndpointLegacy
	transport := platform.transport()

	manager := NewManager(cfg, transport, nil, nil)
	resolver := manager.KeyResolver()

	pemKey, err := resolver.Key(context.Background(), false, "")
	require.NoError(t, err)

	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	require.NoError(t, err, "bare base64 key should be wrapped into valid PEM")
	assert.True(t, pub.Equal(&key.PublicKey))

	assert.Equal(t, 1, platform.vendorCalls, "legacy fetch should authenticate as the vendor")
	assert.Equal(t, 1, platform.legacyCalls)
	assert.Equal(t, 0, platform.jwksCalls)
}

func TestKeyResolver_LegacyWithoutVendorSource(t *testing.T) {
	platform := newTestPlatform(t)
	cfg := platform.config()
	cfg.KeyEndpointMode = config.KeyEndpointLegacy

	resolver := NewKeyResolver(cfg, platform.transport(), nil, nil)

	_, err := resolver.Key(context.Background(), false, "")
	require.Error(t, err)
	assert.True(t, fgerr.IsKeyFetch(err))
}

func TestWrapPublicKeyPEM(t *testing.T) {
	t.Parallel()

	wrapped := wrapPublicKeyPEM("QUJDREVGR0g")
	assert.Contains(t, wrapped, "-----BEGIN PUBLIC KEY-----\n")
	assert.Contains(t, wrapped, "QUJDREVGR0g\n")
	assert.Contains(t, wrapped, "-----END PUBLIC KEY-----\n")

	// Already-armored input passes through unchanged.
	armored := "-----BEGIN PUBLIC KEY-----\nABC\n-----END PUBLIC KEY-----"
	assert.Equal(t, armored, wrapPublicKeyPEM(armored))
}

func TestKeyResolver_CacheKeyPrefix(t *testing.T) {
	platform := newTestPlatform(t)
	key := testGenerateRSAKey(t)
	platform.jwks[""] = &key.PublicKey

	cfg := platform.config()
	cfg.CacheKeyPrefix = "acme_"
	distributed := cache.NewMemory()
	resolver := NewKeyResolver(cfg, platform.transport(), distributed, nil)

	ctx := context.Background()
	_, err := resolver.Key(ctx, false, "")
	require.NoError(t, err)

	_, ok, err := distributed.Get(ctx, "acme_public_key")
	require.NoError(t, err)
	assert.True(t, ok, "keyless entries use the bare prefixed name")
}
