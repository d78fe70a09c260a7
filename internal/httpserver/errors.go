package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/pkg/logging"
)

// messages overrides the default response text per sentinel.
type messages map[error]string

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Not authorized"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, domain.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// fail logs err and turns it into the HTTP error echo renders as
// {"message": ...}.
func fail(c echo.Context, op string, err error, overrides messages) error {
	l := logging.FromContext(c.Request().Context()).With("handler", op)

	code, msg := statusFor(err)
	if code != http.StatusBadRequest {
		for sentinel, m := range overrides {
			if errors.Is(err, sentinel) {
				msg = m
				break
			}
		}
	}

	if code >= http.StatusInternalServerError {
		l.Error(op+"_failed", "status", code, "reason", msg, "error", err)
	} else {
		l.Warn(op+"_failed", "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

func badRequest(c echo.Context, op, reason string, err error) error {
	logging.FromContext(c.Request().Context()).With("handler", op).
		Warn(op+"_failed", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// bindValid binds the request body into dst and validates it.
func bindValid(c echo.Context, op string, dst any) error {
	if err := c.Bind(dst); err != nil {
		return badRequest(c, op, "invalid body", err)
	}
	if err := c.Validate(dst); err != nil {
		return badRequest(c, op, err.Error(), err)
	}
	return nil
}
