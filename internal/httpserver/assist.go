package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/service"
	"github.com/Skotchmaster/journohub/internal/transport"
)

type AssistHTTP struct {
	Svc *service.AssistService
}

func (h *AssistHTTP) Assist(c echo.Context) error {
	var req transport.AssistRequest
	if err := bindValid(c, "ai.assist", &req); err != nil {
		return err
	}

	s, err := h.Svc.Assist(c.Request().Context(), req.Prompt, req.Context)
	if err != nil {
		return fail(c, "ai.assist", err, messages{
			domain.ErrDependencyUnavailable: "Error getting AI assistance",
		})
	}
	return c.JSON(http.StatusOK, transport.AssistResponse{Suggestion: s})
}
