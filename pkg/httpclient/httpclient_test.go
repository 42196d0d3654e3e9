package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/wheniwork/frontegg-go/pkg/config"
	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
)

// staticProvider returns a fixed token or error for every call.
type staticProvider struct {
	token string
	err   error
}

func (p *staticProvider) Token(context.Context) (string, error) {
	return p.token, p.err
}

// newTestClient creates a Client whose workspace and platform bases both
// point at the given server.
func newTestClient(serverURL string) *Client {
	return New(&config.Config{
		ClientID:        "client-123",
		APIKey:          "key",
		BaseURL:         serverURL,
		PlatformBaseURL: serverURL,
	}, nil)
}

func TestDo_SuccessfulGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/identity/resources/users/v2", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"u1"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	raw, err := c.Get(context.Background(), "/identity/resources/users/v2", nil, false, true)
	require.NoError(t, err)

	var parsed struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "u1", parsed.Items[0].ID)
}

func TestDo_PostEncodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "my-client", body["clientId"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	raw, err := c.Post(context.Background(), "/auth/vendor",
		&RequestOptions{Body: map[string]string{"clientId": "my-client"}}, false, true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"abc"}`, string(raw))
}

func TestDo_QueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("_limit"))
		assert.Equal(t, "1", r.URL.Query().Get("_offset"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	q := url.Values{}
	q.Set("_limit", "50")
	q.Set("_offset", "1")
	_, err := c.Get(context.Background(), "/resources/audits/v1",
		&RequestOptions{Query: q}, false, true)
	require.NoError(t, err)
}

func TestDo_CustomHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tenant-1", r.Header.Get(TenantIDHeader))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Get(context.Background(), "/resources/tenants/v1",
		&RequestOptions{Headers: map[string]string{TenantIDHeader: "tenant-1"}}, false, true)
	require.NoError(t, err)
}

func TestDo_AttachesBearerTokenAndClientID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer vendor-token", r.Header.Get("Authorization"))
		assert.Equal(t, "client-123", r.Header.Get(ClientIDHeader))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetTokenProvider(&staticProvider{token: "vendor-token"})

	_, err := c.Get(context.Background(), "/identity/resources/users/v2", nil, true, true)
	require.NoError(t, err)
}

func TestDo_NoTokenProceedsUnauthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetTokenProvider(&staticProvider{err: fgerr.NoToken("no vendor token set")})

	_, err := c.Get(context.Background(), "/.well-known/jwks.json", nil, true, false)
	require.NoError(t, err)
}

func TestDo_ProviderErrorAbortsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetTokenProvider(&staticProvider{err: fgerr.Unauthorized("vendor authentication failed")})

	_, err := c.Get(context.Background(), "/identity/resources/users/v2", nil, true, true)
	require.Error(t, err)
	assert.True(t, fgerr.IsUnauthorized(err))
	assert.False(t, called, "request should not reach the server")
}

func TestDo_NonOKStatus_ReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":["user not found"]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Get(context.Background(), "/identity/resources/users/v1/u1", nil, false, true)
	require.Error(t, err)

	e, ok := fgerr.AsError(err)
	require.True(t, ok)
	assert.Equal(t, fgerr.CodeHTTP, e.Code)
	assert.Equal(t, "user not found", e.Message)
	assert.Equal(t, http.StatusNotFound, e.Details["status"])
	assert.Equal(t, http.StatusNotFound, e.HTTPStatus())
}

func TestDo_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"errors array of strings", `{"errors":["invalid tenant"]}`, "invalid tenant"},
		{"errors array of objects", `{"errors":[{"message":"nested message"}]}`, "nested message"},
		{"message field", `{"message":"top-level message"}`, "top-level message"},
		{"non-JSON body falls back", `<html>bad gateway</html>`, "httpclient: request returned Bad Request"},
		{"empty body falls back", ``, "httpclient: request returned Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			_, err := c.Get(context.Background(), "/x", nil, false, true)
			require.Error(t, err)

			e, ok := fgerr.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Message)
		})
	}
}

func TestDo_EmptyResponseBody_ReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	raw, err := c.Delete(context.Background(), "/identity/resources/users/v1/u1", nil, false, true)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDo_BaseSelection(t *testing.T) {
	workspace := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"workspace"}`))
	}))
	defer workspace.Close()

	platform := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"platform"}`))
	}))
	defer platform.Close()

	c := New(&config.Config{
		ClientID:        "c",
		APIKey:          "k",
		BaseURL:         workspace.URL,
		PlatformBaseURL: platform.URL,
	}, nil)

	raw, err := c.Get(context.Background(), "/.well-known/jwks.json", nil, false, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":"workspace"}`, string(raw))

	raw, err = c.Get(context.Background(), "/auth/vendor", nil, false, true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":"platform"}`, string(raw))
}

func TestDo_ConnectionFailure_IsUnavailable(t *testing.T) {
	// A server that is immediately closed gives a refused connection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Get(context.Background(), "/x", nil, false, true)
	require.Error(t, err)
	assert.True(t, fgerr.IsUnavailable(err))
	assert.True(t, fgerr.IsRetryable(err))
}

func TestDo_EmitsClientSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Get(context.Background(), "/.well-known/jwks.json", nil, false, false)
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans, "expected at least one span")

	var found bool
	for _, s := range spans {
		if s.Name == "frontegg.GET /.well-known/jwks.json" {
			found = true
		}
	}
	assert.True(t, found, "expected transport span, got %v", spanNames(spans))
}

func spanNames(spans tracetest.SpanStubs) []string {
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name)
	}
	return names
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	got, err := buildURL("https://api.frontegg.com", "/identity/resources/users/v2", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.frontegg.com/identity/resources/users/v2", got)

	q := url.Values{}
	q.Set("ids", "a,b")
	got, err = buildURL("https://api.frontegg.com/", "resources/tenants/v1", &RequestOptions{Query: q})
	require.NoError(t, err)
	assert.Equal(t, "https://api.frontegg.com/resources/tenants/v1?ids=a%2Cb", got)
}
