package controller

import (
	"log/slog"
	"net/http"

	"freelance-job-board/internal/service"

	"github.com/labstack/echo"
)

type diagnosticRoutesHandler struct {
	diagnosticService service.Diagnostics
	logger            *slog.Logger
}

func newDiagnosticRoutesHandler(outer *echo.Group, services *service.Services, logger *slog.Logger) *diagnosticRoutesHandler {
	h := &diagnosticRoutesHandler{diagnosticService: services.Diagnostics, logger: logger}
	outer.GET("/ping", h.Ping)

	return h
}

func (h *diagnosticRoutesHandler) Ping(c echo.Context) error {
	err := h.diagnosticService.Ping(c.Request().Context())
	if err != nil {
		h.logger.Error("storage is unreachable", "error", err)
		if e := c.NoContent(http.StatusServiceUnavailable); e != nil {
			return e
		}

		return nil
	}
	if e := c.JSON(http.StatusOK, "ok"); e != nil {
		return e
	}

	return nil
}
