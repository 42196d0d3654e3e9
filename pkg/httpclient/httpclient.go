// Package httpclient provides the HTTP transport for the Frontegg SDK. It
// centralizes request construction, bearer token injection, JSON
// encoding/decoding, response size limits, OpenTelemetry tracing, and the
// translation of non-2xx responses into structured errors.
//
// The transport knows two base URLs: the workspace base (typically the
// vendor's custom domain, used for unauthenticated key fetches) and the
// platform API base (used for vendor authentication and resource
// operations). Each request selects a base via the usePlatformBase flag.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wheniwork/frontegg-go/pkg/config"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
)

// tracerName is the OpenTelemetry instrumentation scope name for this package.
const tracerName = "github.com/wheniwork/frontegg-go/pkg/httpclient"

// maxResponseBytes caps how much of a response body is read. Platform
// responses are small JSON documents; the limit guards against a
// misbehaving endpoint streaming unbounded data.
const maxResponseBytes = 1 << 20 // 1 MiB

// ClientIDHeader carries the workspace client ID on authenticated requests.
const ClientIDHeader = "x-client-id"

// TenantIDHeader scopes a request to a specific tenant.
const TenantIDHeader = "frontegg-tenant-id"

// TokenProvider supplies the bearer token attached to authenticated
// requests. The identity manager implements this interface; it is set
// after construction to break the dependency cycle between the transport
// and the token lifecycle.
//
// A [fgerr.CodeNoToken] error means no token is currently held; the
// request proceeds unauthenticated. Any other error aborts the request.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// RequestOptions carries optional per-request parameters.
type RequestOptions struct {
	// Headers are added to the request verbatim.
	Headers map[string]string

	// Query is appended to the request URL.
	Query url.Values

	// Body is JSON-encoded as the request body when non-nil.
	Body any
}

// Client is the SDK HTTP transport. It is safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	workspaceURL string
	platformURL  string
	clientID     string
	logger       *zap.Logger
	tracer       trace.Tracer

	mu       sync.RWMutex
	provider TokenProvider
}

// New creates a transport from the SDK configuration. The underlying
// http.Client uses the configured timeout and an otelhttp transport so
// outbound requests produce client spans with HTTP semantic attributes.
//
// Pass a nil logger to disable transport logging.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		workspaceURL: cfg.KeyURL(),
		platformURL:  cfg.PlatformURL(),
		clientID:     cfg.ClientID,
		logger:       logger,
		tracer:       otel.Tracer(tracerName),
	}
}

// SetTokenProvider installs the bearer token source. It must be called
// before any request with requiresAuth=true; until then such requests
// proceed unauthenticated.
func (c *Client) SetTokenProvider(p TokenProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider = p
}

// tokenProvider returns the installed provider, or nil.
func (c *Client) tokenProvider() TokenProvider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provider
}

// WorkspaceURL returns the workspace base URL. When a custom domain is
// configured it takes precedence, since key material must be fetched from
// the domain that issued the tokens.
func (c *Client) WorkspaceURL() string {
	return c.workspaceURL
}

// PlatformURL returns the configured platform API base URL.
func (c *Client) PlatformURL() string {
	return c.platformURL
}

// Get issues a GET request. See [Client.Do].
func (c *Client) Get(ctx context.Context, path string, opts *RequestOptions, requiresAuth, usePlatformBase bool) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, opts, requiresAuth, usePlatformBase)
}

// Post issues a POST request. See [Client.Do].
func (c *Client) Post(ctx context.Context, path string, opts *RequestOptions, requiresAuth, usePlatformBase bool) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, opts, requiresAuth, usePlatformBase)
}

// Put issues a PUT request. See [Client.Do].
func (c *Client) Put(ctx context.Context, path string, opts *RequestOptions, requiresAuth, usePlatformBase bool) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, opts, requiresAuth, usePlatformBase)
}

// Patch issues a PATCH request. See [Client.Do].
func (c *Client) Patch(ctx context.Context, path string, opts *RequestOptions, requiresAuth, usePlatformBase bool) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, path, opts, requiresAuth, usePlatformBase)
}

// Delete issues a DELETE request. See [Client.Do].
func (c *Client) Delete(ctx context.Context, path string, opts *RequestOptions, requiresAuth, usePlatformBase bool) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, opts, requiresAuth, usePlatformBase)
}

// Do issues a request against the workspace base (usePlatformBase=false)
// or the platform API base (usePlatformBase=true) and returns the raw JSON
// response body. Empty and 204 responses return a nil body.
//
// When requiresAuth is true the installed [TokenProvider] is consulted and
// the token attached as an Authorization bearer header along with the
// workspace client ID. A missing token ([fgerr.CodeNoToken]) lets the
// request proceed unauthenticated; other provider errors abort the request.
//
// Non-2xx responses are returned as [*fgerr.Error] with code
// [fgerr.CodeHTTP]; the response status and parsed body are carried in
// Details under "status" and "body". The error message is taken from
// errors[0] or the message field of the body when present.
func (c *Client) Do(ctx context.Context, method, path string, opts *RequestOptions, requiresAuth, usePlatformBase bool) (json.RawMessage, error) {
	base := c.workspaceURL
	if usePlatformBase {
		base = c.platformURL
	}

	reqURL, err := buildURL(base, path, opts)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "frontegg."+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.Bool("frontegg.platform_base", usePlatformBase),
	)

	var bodyReader io.Reader
	if opts != nil && opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, spanError(span, fgerr.Wrap(err, fgerr.CodeInternal,
				"httpclient: failed to encode request body"))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, spanError(span, fgerr.Wrap(err, fgerr.CodeInternal,
			"httpclient: failed to build request"))
	}
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	if requiresAuth {
		if err := c.attachAuth(ctx, req); err != nil {
			return nil, spanError(span, err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, spanError(span, fgerr.Wrap(err, fgerr.CodeTimeout,
				"httpclient: request timed out"))
		}
		return nil, spanError(span, fgerr.Wrap(err, fgerr.CodeUnavailable,
			"httpclient: request failed"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, spanError(span, fgerr.Wrap(err, fgerr.CodeInternal,
			"httpclient: failed to read response body"))
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, spanError(span, newHTTPError(resp.StatusCode, raw))
	}

	span.SetStatus(codes.Ok, "")
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// attachAuth fetches a token from the provider and sets the Authorization
// and client ID headers. A CodeNoToken error is swallowed so the request
// proceeds unauthenticated.
func (c *Client) attachAuth(ctx context.Context, req *http.Request) error {
	provider := c.tokenProvider()
	if provider == nil {
		return nil
	}
	token, err := provider.Token(ctx)
	if err != nil {
		if fgerr.IsNoToken(err) {
			return nil
		}
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.clientID != "" {
		req.Header.Set(ClientIDHeader, c.clientID)
	}
	return nil
}

// buildURL joins a base URL with a path and optional query parameters.
func buildURL(base, path string, opts *RequestOptions) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fgerr.Wrapf(err, fgerr.CodeConfiguration,
			"httpclient: invalid base URL %q", base)
	}
	u = u.JoinPath(strings.Split(strings.Trim(path, "/"), "/")...)
	if opts != nil && len(opts.Query) > 0 {
		u.RawQuery = opts.Query.Encode()
	}
	return u.String(), nil
}

// newHTTPError builds the structured error for a non-2xx response,
// extracting the platform's error message from the body when possible.
func newHTTPError(status int, raw []byte) *fgerr.Error {
	message := "httpclient: request returned " + http.StatusText(status)

	var body any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = string(raw)
		}
	}
	if extracted := extractErrorMessage(body); extracted != "" {
		message = extracted
	}

	return fgerr.New(fgerr.CodeHTTP, message).WithDetails(map[string]any{
		"status": status,
		"body":   body,
	})
}

// extractErrorMessage pulls the human-readable message from a platform
// error body. The platform returns either {"errors": ["...", ...]} or
// {"message": "..."}.
func extractErrorMessage(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	if errs, ok := obj["errors"].([]any); ok && len(errs) > 0 {
		switch first := errs[0].(type) {
		case string:
			return first
		case map[string]any:
			if msg, ok := first["message"].(string); ok {
				return msg
			}
		}
	}
	if msg, ok := obj["message"].(string); ok {
		return msg
	}
	return ""
}

// spanError records err on the span, marks it failed, and returns err.
func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
