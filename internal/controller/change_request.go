package controller

import (
	"log/slog"
	"net/http"

	"freelance-job-board/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type changeRequestRoutesHandler struct {
	contractChangeService service.ContractChange
	validate              *validator.Validate
	logger                *slog.Logger
}

func newChangeRequestRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, logger *slog.Logger) *changeRequestRoutesHandler {
	h := &changeRequestRoutesHandler{contractChangeService: services.ContractChange, validate: v, logger: logger}

	outer.GET("/change-requests/pending", h.GetPendingChangeRequests)
	outer.PUT("/change-requests/:changeRequestId/respond", h.RespondToChangeRequest)

	return h
}

// /change-requests/pending
func (h *changeRequestRoutesHandler) GetPendingChangeRequests(c echo.Context) error {
	requests, err := h.contractChangeService.GetPendingChangeRequests(c.Request().Context(), currentUser(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, requests); e != nil {
		return e
	}

	return nil
}

// /change-requests/:changeRequestId/respond
func (h *changeRequestRoutesHandler) RespondToChangeRequest(c echo.Context) error {
	changeRequestId, ok, err := pathId(c, "changeRequestId")
	if !ok {
		return err
	}

	var input respondInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	request, err := h.contractChangeService.RespondToChangeRequest(c.Request().Context(), changeRequestId, currentUser(c), *input.Approve, input.Notes)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, request); e != nil {
		return e
	}

	return nil
}
