package blogpulse

import (
	"context"
	stderrors "errors"

	"github.com/goliatone/blog-pulse/middleware/jwtware"
	"github.com/goliatone/go-router"
)

// HTTPGate builds the middleware that protects routes behind a valid
// session token.
type HTTPGate struct {
	Logger       Logger
	cfg          Config
	tokenService TokenService
	ErrorHandler router.ErrorHandler
}

// NewHTTPGate wires a token service into route protection middleware.
func NewHTTPGate(cfg Config, tokenService TokenService) *HTTPGate {
	g := &HTTPGate{
		Logger:       DefaultLogger(),
		cfg:          cfg,
		tokenService: tokenService,
	}
	g.ErrorHandler = g.defaultAuthErrHandler
	return g
}

// WithLogger sets the gate logger
func (g *HTTPGate) WithLogger(logger Logger) *HTTPGate {
	if logger != nil {
		g.Logger = logger
	}
	return g
}

// ProtectedRoute returns middleware that rejects requests without a valid
// bearer token and stores the verified claims for downstream handlers.
func (g *HTTPGate) ProtectedRoute(errorHandler ...router.ErrorHandler) router.MiddlewareFunc {
	handler := g.ErrorHandler
	if len(errorHandler) > 0 && errorHandler[0] != nil {
		handler = errorHandler[0]
	}

	return jwtware.New(jwtware.Config{
		ErrorHandler:    handler,
		ContextKey:      g.cfg.GetContextKey(),
		TokenLookup:     g.cfg.GetTokenLookup(),
		AuthScheme:      g.cfg.GetAuthScheme(),
		TokenValidator:  validatorBridge{svc: g.tokenService},
		ContextEnricher: ContextEnricherAdapter,
	})
}

// defaultAuthErrHandler keeps the unauthenticated/forbidden split: no
// credential at all answers 401, a credential that fails validation answers
// 403.
func (g *HTTPGate) defaultAuthErrHandler(ctx router.Context, err error) error {
	if stderrors.Is(err, jwtware.ErrTokenMissing) {
		g.Logger.Debug("rejected request without credential: %s %s", ctx.Method(), ctx.OriginalURL())
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": "Access denied. Please log in.",
		})
	}

	g.Logger.Info("rejected invalid token: %s", err)
	return ctx.JSON(router.StatusForbidden, map[string]string{
		"error": "Invalid token",
	})
}

// validatorBridge adapts TokenService to the middleware's local validator
// interface.
type validatorBridge struct {
	svc TokenService
}

func (v validatorBridge) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.svc.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ContextEnricherAdapter adapts jwtware.AuthClaims to AuthClaims and stores
// them in the standard context for handlers that only see a context.Context.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, authClaims)
}
