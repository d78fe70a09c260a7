package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/journohub/pkg/tokens"
)

func newTokens() *tokens.Service {
	return tokens.NewService([]byte("test-jwt-secret"), time.Hour)
}

func issue(t *testing.T, svc *tokens.Service, role string) string {
	t.Helper()
	tok, _, err := svc.Issue(tokens.Identity{ID: "u-1", Email: "u@x.io", Role: role, Name: "U"})
	require.NoError(t, err)
	return tok
}

func run(t *testing.T, h echo.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, c, h(c)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}

func TestRequireAuth(t *testing.T) {
	svc := newTokens()
	mw := NewBearerAuth(svc)
	valid := issue(t, svc, "student")

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, want: http.StatusUnauthorized},
		{name: "no token", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + valid, want: http.StatusOK},
		{name: "case-insensitive scheme", header: "bearer " + valid, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c, err := run(t, mw.RequireAuth(ok), tt.header)
			if tt.want == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				claims, found := ClaimsFrom(c)
				require.True(t, found)
				assert.Equal(t, "u-1", claims.UserID)
				assert.Equal(t, "u-1", c.Get(CtxUserID))
				assert.Equal(t, "student", c.Get(CtxRole))
				return
			}
			assert.Equal(t, tt.want, statusOf(t, err))
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	svc := newTokens()
	mw := NewBearerAuth(svc)

	var anonymous bool
	h := mw.OptionalAuth(func(c echo.Context) error {
		_, found := ClaimsFrom(c)
		anonymous = !found
		return c.NoContent(http.StatusOK)
	})

	_, _, err := run(t, h, "")
	require.NoError(t, err)
	assert.True(t, anonymous)

	_, _, err = run(t, h, "Bearer "+issue(t, svc, "student"))
	require.NoError(t, err)
	assert.False(t, anonymous)

	_, _, err = run(t, h, "Bearer broken")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireRole(t *testing.T) {
	svc := newTokens()
	mw := NewBearerAuth(svc)
	h := mw.RequireAuth(RequireRole("admin")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))

	_, _, err := run(t, h, "Bearer "+issue(t, svc, "student"))
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	rec, _, err := run(t, h, "Bearer "+issue(t, svc, "admin"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, _, err = run(t, RequireRole("admin")(func(c echo.Context) error { return nil }), "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}
