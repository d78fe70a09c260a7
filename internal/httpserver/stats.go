package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/journohub/internal/service"
)

type StatsHTTP struct {
	Svc *service.StatsService
}

func (h *StatsHTTP) Overview(c echo.Context) error {
	o, err := h.Svc.Overview(c.Request().Context())
	if err != nil {
		return fail(c, "stats.overview", err, nil)
	}
	return c.JSON(http.StatusOK, o)
}
