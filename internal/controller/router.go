package controller

import (
	"log/slog"

	"freelance-job-board/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, logger *slog.Logger) {
	handler.Use(requestLogger(logger), recoverer(logger))

	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services, logger)

	secured := api.Group("", authenticate)
	newJobRoutesHandler(secured, services, validate, logger)
	newProposalRoutesHandler(secured, services, validate, logger)
	newContractRoutesHandler(secured, services, validate, logger)
	newChangeRequestRoutesHandler(secured, services, validate, logger)
	newNotificationRoutesHandler(secured, services, validate, logger)
}
