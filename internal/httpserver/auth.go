package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/service"
	"github.com/Skotchmaster/journohub/internal/transport"
	middleware "github.com/Skotchmaster/journohub/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := bindValid(c, "auth.register", &req); err != nil {
		return err
	}

	res, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return fail(c, "auth.register", err, messages{
			domain.ErrConflict: "User with that email already exists",
		})
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "auth.login", "invalid body", err)
	}

	res, err := h.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return fail(c, "auth.login", err, nil)
	}
	return c.JSON(http.StatusOK, res)
}

// actorFrom returns the verified caller, or an anonymous actor when the
// request carried no credential.
func actorFrom(c echo.Context) domain.Actor {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return domain.Actor{}
	}
	return domain.Actor{ID: claims.UserID, Role: claims.Role}
}
