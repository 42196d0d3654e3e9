package config

import (
	"net/url"
	"strings"
	"time"

	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
)

// Secret is a string type that prevents accidental logging of sensitive
// values such as the vendor API key. Its [Secret.String] and
// [Secret.GoString] methods return a redacted placeholder. Use
// [Secret.Value] to retrieve the actual secret value.
//
// Security: This type provides defense-in-depth against credential leakage
// in log output, error messages, and serialized configuration. It does NOT
// provide encryption at rest; use a secret manager for secret storage.
type Secret string

// redacted is the placeholder string returned by Secret's string methods.
const redacted = "[REDACTED]"

// String returns "[REDACTED]" to prevent accidental logging of the secret.
func (s Secret) String() string {
	return redacted
}

// GoString returns "[REDACTED]" for fmt.Sprintf("%#v", secret) safety.
func (s Secret) GoString() string {
	return redacted
}

// Value returns the actual secret string. Handle the returned value with
// care; avoid logging, serializing, or storing it in plaintext.
func (s Secret) Value() string {
	return string(s)
}

// MarshalText implements encoding.TextMarshaler, returning "[REDACTED]" to
// prevent the secret from appearing in JSON, YAML, or other text-based
// serialization formats.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// KeyEndpointMode selects which platform endpoint supplies the token
// verification key.
type KeyEndpointMode string

const (
	// KeyEndpointJWKS fetches keys from the standard JWKS document at
	// /.well-known/jwks.json. This is the default and requires no
	// authentication.
	KeyEndpointJWKS KeyEndpointMode = "jwks"

	// KeyEndpointLegacy fetches the key from the vendor configurations
	// endpoint. This path requires a vendor token and exists for
	// workspaces that predate the JWKS document.
	KeyEndpointLegacy KeyEndpointMode = "legacy"
)

// String returns the string representation of the key endpoint mode.
func (m KeyEndpointMode) String() string {
	return string(m)
}

// Region identifies the platform region hosting the workspace. The region
// determines the default platform API base URL when PlatformBaseURL is not
// set explicitly.
type Region string

const (
	RegionEU Region = "eu"
	RegionUS Region = "us"
	RegionAU Region = "au"
)

// regionBaseURLs maps each region to its platform API base.
var regionBaseURLs = map[Region]string{
	RegionEU: "https://api.frontegg.com",
	RegionUS: "https://api.us.frontegg.com",
	RegionAU: "https://api.au.frontegg.com",
}

// Config holds the Frontegg SDK configuration. Populate it directly, or use
// [FromEnv] / [Load] to resolve values from the environment and an optional
// config file. All environment variables carry the FRONTEGG_ prefix.
type Config struct {
	// ClientID is the workspace client identifier used for vendor
	// authentication. Required.
	// Environment variable: FRONTEGG_CLIENT_ID
	ClientID string `json:"client_id" yaml:"client_id" env:"CLIENT_ID" required:"true"`

	// APIKey is the vendor API key exchanged for a vendor token. Uses the
	// [Secret] type to prevent accidental logging. Required.
	// Environment variable: FRONTEGG_API_KEY
	APIKey Secret `json:"-" yaml:"api_key" env:"API_KEY" required:"true"`

	// BaseURL is the workspace base URL, typically the vendor's custom
	// domain (e.g., https://auth.example.com). Token verification keys are
	// fetched from this base. Defaults to the platform API base for the
	// configured region.
	// Environment variable: FRONTEGG_BASE_URL
	BaseURL string `json:"base_url" yaml:"base_url" env:"BASE_URL"`

	// PlatformBaseURL is the platform API base used for vendor
	// authentication and resource operations. When empty, it is derived
	// from Region.
	// Environment variable: FRONTEGG_PLATFORM_BASE_URL
	PlatformBaseURL string `json:"platform_base_url" yaml:"platform_base_url" env:"PLATFORM_BASE_URL"`

	// CustomDomain optionally overrides the base used for the JWKS fetch
	// without changing BaseURL. When empty, BaseURL is used.
	// Environment variable: FRONTEGG_CUSTOM_DOMAIN
	CustomDomain string `json:"custom_domain,omitempty" yaml:"custom_domain" env:"CUSTOM_DOMAIN"`

	// Region selects the platform region. Default: "eu".
	// Environment variable: FRONTEGG_REGION
	Region Region `json:"region" yaml:"region" env:"REGION" envDefault:"eu"`

	// KeyEndpointMode selects the key fetch path. Default: "jwks".
	// Environment variable: FRONTEGG_KEY_ENDPOINT_MODE
	KeyEndpointMode KeyEndpointMode `json:"key_endpoint_mode" yaml:"key_endpoint_mode" env:"KEY_ENDPOINT_MODE" envDefault:"jwks"`

	// CacheKeyPrefix is prepended to every distributed cache key so
	// multiple SDK instances can share one cache backend without
	// collisions. Default: "frontegg_".
	// Environment variable: FRONTEGG_CACHE_KEY_PREFIX
	CacheKeyPrefix string `json:"cache_key_prefix" yaml:"cache_key_prefix" env:"CACHE_KEY_PREFIX" envDefault:"frontegg_"`

	// KeyCacheTTL is how long a fetched verification key stays in the
	// distributed cache. Default: 12h.
	// Environment variable: FRONTEGG_KEY_CACHE_TTL
	KeyCacheTTL time.Duration `json:"key_cache_ttl" yaml:"key_cache_ttl" env:"KEY_CACHE_TTL" envDefault:"12h"`

	// VendorTokenTTL is the fallback lifetime for a vendor token when the
	// authentication response omits expiresIn. Default: 1h.
	// Environment variable: FRONTEGG_VENDOR_TOKEN_TTL
	VendorTokenTTL time.Duration `json:"vendor_token_ttl" yaml:"vendor_token_ttl" env:"VENDOR_TOKEN_TTL" envDefault:"1h"`

	// HTTPTimeout bounds every platform API request. Default: 30s.
	// Environment variable: FRONTEGG_HTTP_TIMEOUT
	HTTPTimeout time.Duration `json:"http_timeout" yaml:"http_timeout" env:"HTTP_TIMEOUT" envDefault:"30s"`
}

// envPrefix is the prefix applied to all SDK environment variables.
const envPrefix = "FRONTEGG"

// FromEnv loads the SDK configuration from FRONTEGG_-prefixed environment
// variables, applying struct tag defaults for unset values.
func FromEnv() (*Config, error) {
	return load(NewLoader().WithEnvPrefix(envPrefix))
}

// Load loads the SDK configuration from the given YAML or JSON file, with
// FRONTEGG_-prefixed environment variables taking precedence over file
// values. A missing file is not an error; environment variables and
// defaults still apply.
func Load(path string) (*Config, error) {
	return load(NewLoader().WithEnvPrefix(envPrefix).WithFile(path))
}

func load(loader *Loader) (*Config, error) {
	var cfg Config
	if err := loader.Load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for completeness and well-formedness.
// It is called automatically by [FromEnv] and [Load]; call it directly when
// constructing a Config programmatically.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fgerr.Configuration("config: client ID is required")
	}
	if c.APIKey.Value() == "" {
		return fgerr.Configuration("config: API key is required")
	}

	if _, ok := regionBaseURLs[c.Region]; c.Region != "" && !ok {
		return fgerr.Newf(fgerr.CodeConfiguration,
			"config: unknown region %q (use eu, us, or au)", c.Region)
	}

	switch c.KeyEndpointMode {
	case KeyEndpointJWKS, KeyEndpointLegacy, "":
	default:
		return fgerr.Newf(fgerr.CodeConfiguration,
			"config: unknown key endpoint mode %q (use jwks or legacy)", c.KeyEndpointMode)
	}

	for name, raw := range map[string]string{
		"base URL":          c.BaseURL,
		"platform base URL": c.PlatformBaseURL,
		"custom domain":     c.CustomDomain,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fgerr.Newf(fgerr.CodeConfiguration,
				"config: %s %q is not an absolute URL", name, raw)
		}
	}

	if c.KeyCacheTTL < 0 || c.VendorTokenTTL < 0 || c.HTTPTimeout < 0 {
		return fgerr.Configuration("config: durations must not be negative")
	}

	return nil
}

// PlatformURL returns the platform API base used for vendor authentication
// and resource operations: PlatformBaseURL when set, otherwise the base for
// the configured region (EU when no region is set).
func (c *Config) PlatformURL() string {
	if c.PlatformBaseURL != "" {
		return strings.TrimRight(c.PlatformBaseURL, "/")
	}
	region := c.Region
	if region == "" {
		region = RegionEU
	}
	if base, ok := regionBaseURLs[region]; ok {
		return base
	}
	return regionBaseURLs[RegionEU]
}

// WorkspaceURL returns the workspace base URL: BaseURL when set, otherwise
// the platform URL.
func (c *Config) WorkspaceURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return c.PlatformURL()
}

// KeyURL returns the base URL used for the JWKS fetch: CustomDomain when
// set, otherwise the workspace URL.
func (c *Config) KeyURL() string {
	if c.CustomDomain != "" {
		return strings.TrimRight(c.CustomDomain, "/")
	}
	return c.WorkspaceURL()
}

// Mode returns the effective key endpoint mode, treating the zero value as
// [KeyEndpointJWKS].
func (c *Config) Mode() KeyEndpointMode {
	if c.KeyEndpointMode == "" {
		return KeyEndpointJWKS
	}
	return c.KeyEndpointMode
}

// Prefix returns the effective distributed cache key prefix, treating the
// zero value as "frontegg_".
func (c *Config) Prefix() string {
	if c.CacheKeyPrefix == "" {
		return "frontegg_"
	}
	return c.CacheKeyPrefix
}

// KeyTTL returns the effective key cache TTL, treating the zero value as
// 12 hours.
func (c *Config) KeyTTL() time.Duration {
	if c.KeyCacheTTL == 0 {
		return 12 * time.Hour
	}
	return c.KeyCacheTTL
}

// VendorTTL returns the effective vendor token fallback lifetime, treating
// the zero value as 1 hour.
func (c *Config) VendorTTL() time.Duration {
	if c.VendorTokenTTL == 0 {
		return time.Hour
	}
	return c.VendorTokenTTL
}

// Timeout returns the effective HTTP timeout, treating the zero value as
// 30 seconds.
func (c *Config) Timeout() time.Duration {
	if c.HTTPTimeout == 0 {
		return 30 * time.Second
	}
	return c.HTTPTimeout
}
