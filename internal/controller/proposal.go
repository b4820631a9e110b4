package controller

import (
	"log/slog"
	"net/http"

	"freelance-job-board/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type proposalRoutesHandler struct {
	proposalService service.Proposal
	validate        *validator.Validate
	logger          *slog.Logger
}

func newProposalRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, logger *slog.Logger) *proposalRoutesHandler {
	h := &proposalRoutesHandler{proposalService: services.Proposal, validate: v, logger: logger}

	outer.PUT("/proposals/:proposalId/accept", h.AcceptProposal)
	outer.PUT("/proposals/:proposalId/reject", h.RejectProposal)
	outer.PUT("/proposals/:proposalId/status", h.UpdateProposalStatus)

	return h
}

type reviewProposalInput struct {
	Feedback string `json:"feedback" validate:"max=2000"`
}

// /proposals/:proposalId/accept
func (h *proposalRoutesHandler) AcceptProposal(c echo.Context) error {
	proposalId, ok, err := pathId(c, "proposalId")
	if !ok {
		return err
	}

	var input reviewProposalInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	result, err := h.proposalService.AcceptProposal(c.Request().Context(), proposalId, currentUser(c), input.Feedback)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, result); e != nil {
		return e
	}

	return nil
}

// /proposals/:proposalId/reject
func (h *proposalRoutesHandler) RejectProposal(c echo.Context) error {
	proposalId, ok, err := pathId(c, "proposalId")
	if !ok {
		return err
	}

	var input reviewProposalInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	proposal, err := h.proposalService.RejectProposal(c.Request().Context(), proposalId, currentUser(c), input.Feedback)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, proposal); e != nil {
		return e
	}

	return nil
}

type updateProposalStatusInput struct {
	Status   string `json:"status" validate:"required"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// /proposals/:proposalId/status
// The status name is checked by the service so that an unknown name is
// reported the same way from every entry point.
func (h *proposalRoutesHandler) UpdateProposalStatus(c echo.Context) error {
	proposalId, ok, err := pathId(c, "proposalId")
	if !ok {
		return err
	}

	var input updateProposalStatusInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	proposal, err := h.proposalService.SetProposalStatus(c.Request().Context(), proposalId, currentUser(c), input.Status, input.Feedback)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, proposal); e != nil {
		return e
	}

	return nil
}
