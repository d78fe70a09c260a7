package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/journohub/pkg/logging"
	"github.com/Skotchmaster/journohub/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

type Verifier interface {
	Verify(token string) (*tokens.Claims, error)
}

// BearerAuth resolves "Authorization: Bearer <token>" into claims stored on
// the echo context. It never consults the user store.
type BearerAuth struct {
	Tokens Verifier
}

func NewBearerAuth(v Verifier) *BearerAuth {
	return &BearerAuth{Tokens: v}
}

func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("mw", "require_auth")

		raw, ok := bearerToken(c.Request())
		if !ok {
			l.Warn("auth_failed", "status", 401, "reason", "missing or malformed bearer credential")
			return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
		}

		claims, err := m.Tokens.Verify(raw)
		if err != nil || claims == nil {
			l.Warn("auth_failed", "status", 401, "reason", "token rejected", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// OptionalAuth lets anonymous requests through. A credential that is present
// but does not verify is still rejected.
func (m *BearerAuth) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
			return next(c)
		}
		return m.RequireAuth(next)(c)
	}
}

func RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !slices.Contains(required, role) {
				logging.FromContext(c.Request().Context()).Warn("auth_failed", "status", 403, "reason", "role not allowed", "role", role)
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims of the caller, if any.
func ClaimsFrom(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(CtxClaims).(*tokens.Claims)
	return claims, ok && claims != nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func setUserContext(c echo.Context, claims *tokens.Claims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxClaims, claims)
}
