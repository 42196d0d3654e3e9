package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	fgerr "github.com/wheniwork/frontegg-go/pkg/errors"
)

// tracerName is the OpenTelemetry instrumentation scope name for this package.
const tracerName = "github.com/wheniwork/frontegg-go/pkg/identity"

// MaxTokenLength is the maximum accepted size for a JWT string (8 KB).
// Larger tokens are rejected before parsing to prevent resource exhaustion.
const MaxTokenLength = 8192

// Verifier verifies platform-issued JWTs against the workspace's RSA
// verification key and builds the typed claims model. Only RS256 signatures
// are accepted; the platform does not issue tokens with other algorithms,
// and restricting the method set prevents algorithm confusion attacks.
//
// Verifier is safe for concurrent use.
type Verifier struct {
	keys   *KeyResolver
	parser *jwt.Parser
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewVerifier creates a verifier backed by the given key resolver. Pass a
// nil logger to disable logging.
func NewVerifier(keys *KeyResolver, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &Verifier{
		keys:   keys,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithTimeFunc(func() time.Time { return v.now() }),
	)
	return v
}

// Parse verifies the token's signature and standard time claims and returns
// the claims variant matching the token's type. Errors carry a token
// category code:
//
//   - [fgerr.CodeTokenInvalid] for empty, oversized, or malformed tokens
//   - [fgerr.CodeTokenExpired] for expired tokens
//   - [fgerr.CodeTokenValidation] for signature and claim failures
//   - [fgerr.CodeKeyFetch] when the verification key cannot be resolved
//
// A signature failure triggers one cache invalidation and refetch of the
// verification key before the failure is reported, so a workspace key
// rotation does not require an SDK restart.
func (v *Verifier) Parse(ctx context.Context, tokenStr string) (Claims, error) {
	ctx, span := v.tracer.Start(ctx, "frontegg.verify_token")
	defer span.End()

	if tokenStr == "" {
		return nil, v.fail(span, fgerr.InvalidToken("identity: token must not be empty"))
	}
	if len(tokenStr) > MaxTokenLength {
		return nil, v.fail(span, fgerr.InvalidToken("identity: token exceeds maximum size"))
	}

	token, err := v.parseOnce(ctx, tokenStr, false)
	if err != nil && errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		// Likely a key rotation; drop cached keys and retry once with
		// a freshly fetched key.
		v.keys.Invalidate()
		v.logger.Debug("token signature failed; refetching verification key")
		span.SetAttributes(attribute.Bool("frontegg.key_refetched", true))
		token, err = v.parseOnce(ctx, tokenStr, true)
	}
	if err != nil {
		classified := classifyTokenError(err)
		return nil, v.fail(span, classified)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, v.fail(span, fgerr.TokenValidation("identity: unable to extract token claims"))
	}

	claims := newClaims(mc)
	span.SetAttributes(attribute.String("frontegg.token_kind", claims.Kind().String()))
	span.SetStatus(codes.Ok, "")
	return claims, nil
}

// parseOnce runs a single parse attempt, resolving the verification key
// through the resolver with the given cache policy.
func (v *Verifier) parseOnce(ctx context.Context, tokenStr string, ignoreCache bool) (*jwt.Token, error) {
	return v.parser.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		pemKey, err := v.keys.Key(ctx, ignoreCache, kid)
		if err != nil {
			return nil, err
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
		if err != nil {
			return nil, fgerr.Wrap(err, fgerr.CodeKeyFetch,
				"identity: verification key is not a valid RSA PEM")
		}
		return pub, nil
	})
}

// fail records err on the span and returns it.
func (v *Verifier) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// classifyTokenError maps golang-jwt errors to the SDK's token error codes.
// Errors that already carry an SDK code, such as key fetch failures raised
// inside the keyfunc, pass through unchanged.
func classifyTokenError(err error) error {
	if e, ok := fgerr.AsError(err); ok {
		return e
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fgerr.Wrap(err, fgerr.CodeTokenInvalid, "identity: token is malformed")
	case errors.Is(err, jwt.ErrTokenExpired):
		return fgerr.Wrap(err, fgerr.CodeTokenExpired, "identity: token has expired")
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fgerr.Wrap(err, fgerr.CodeTokenValidation, "identity: token is not yet valid")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fgerr.Wrap(err, fgerr.CodeTokenValidation, "identity: token signature is invalid")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fgerr.Wrap(err, fgerr.CodeTokenValidation, "identity: token is unverifiable")
	default:
		return fgerr.Wrap(err, fgerr.CodeTokenValidation, "identity: token validation failed")
	}
}
