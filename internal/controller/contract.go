package controller

import (
	"log/slog"
	"net/http"
	"time"

	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type contractRoutesHandler struct {
	contractService       service.Contract
	contractChangeService service.ContractChange
	validate              *validator.Validate
	logger                *slog.Logger
}

func newContractRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, logger *slog.Logger) *contractRoutesHandler {
	h := &contractRoutesHandler{
		contractService:       services.Contract,
		contractChangeService: services.ContractChange,
		validate:              v,
		logger:                logger,
	}

	outer.GET("/contracts/:contractId", h.GetContract)
	outer.PUT("/contracts/:contractId/status", h.UpdateContractStatus)
	outer.PUT("/contracts/:contractId/completion/request", h.RequestCompletion)
	outer.PUT("/contracts/:contractId/completion/respond", h.RespondToCompletion)
	outer.PUT("/contracts/:contractId/completion/cancel", h.CancelCompletion)
	outer.POST("/contracts/:contractId/changes", h.ProposeChange)
	outer.GET("/contracts/:contractId/history", h.GetContractHistory)

	return h
}

// /contracts/:contractId
func (h *contractRoutesHandler) GetContract(c echo.Context) error {
	contractId, ok, err := pathId(c, "contractId")
	if !ok {
		return err
	}

	contract, err := h.contractService.GetContractById(c.Request().Context(), contractId, currentUser(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, contract); e != nil {
		return e
	}

	return nil
}

type updateContractStatusInput struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// /contracts/:contractId/status
func (h *contractRoutesHandler) UpdateContractStatus(c echo.Context) error {
	contractId, ok, err := pathId(c, "contractId")
	if !ok {
		return err
	}

	var input updateContractStatusInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	contract, err := h.contractService.TransitionContractStatus(c.Request().Context(), contractId, currentUser(c), input.Status, input.Notes)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, contract); e != nil {
		return e
	}

	return nil
}

type notesInput struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// /contracts/:contractId/completion/request
func (h *contractRoutesHandler) RequestCompletion(c echo.Context) error {
	contractId, ok, err := pathId(c, "contractId")
	if !ok {
		return err
	}

	var input notesInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	contract, err := h.contractService.RequestContractCompletion(c.Request().Context(), contractId, currentUser(c), input.Notes)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, contract); e != nil {
		return e
	}

	return nil
}

type respondInput struct {
	Approve *bool  `json:"approve" validate:"required"`
	Notes   string `json:"notes" validate:"max=2000"`
}

// /contracts/:contractId/completion/respond
func (h *contractRoutesHandler) RespondToCompletion(c echo.Context) error {
	contractId, ok, err := pathId(c, "contractId")
	if !ok {
		return err
	}

	var input respondInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	contract, err := h.contractService.ApproveOrRejectCompletion(c.Request().Context(), contractId, currentUser(c), *input.Approve, input.Notes)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, contract); e != nil {
		return e
	}

	return nil
}

// /contracts/:contractId/completion/cancel
func (h *contractRoutesHandler) CancelCompletion(c echo.Context) error {
	contractId, ok, err := pathId(c, "contractId")
	if !ok {
		return err
	}

	var input notesInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	contract, err := h.contractService.CancelCompletionRequest(c.Request().Context(), contractId, currentUser(c), input.Notes)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, contract); e != nil {
		return e
	}

	return nil
}

type proposeChangeInput struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=5000"`
	PaymentAmount *float64   `json:"paymentAmount" validate:"omitempty,gt=0"`
	PaymentType   *string    `json:"paymentType" validate:"omitempty,oneof=Fixed Hourly"`
	Deadline      *time.Time `json:"deadline"`
	Deliverables  *string    `json:"deliverables" validate:"omitempty,max=5000"`
	Terms         *string    `json:"terms" validate:"omitempty,max=10000"`
	Notes         *string    `json:"notes" validate:"omitempty,max=2000"`
	Reason        string     `json:"reason" validate:"max=2000"`
}

type proposeChangeOutput struct {
	ChangeRequestId int64 `json:"changeRequestId"`
}

// /contracts/:contractId/changes
func (h *contractRoutesHandler) ProposeChange(c echo.Context) error {
	contractId, ok, err := pathId(c, "contractId")
	if !ok {
		return err
	}

	var input proposeChangeInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	terms := &entity.ContractTerms{
		Title: input.Title, Description: input.Description, PaymentAmount: input.PaymentAmount,
		PaymentType: input.PaymentType, Deadline: input.Deadline, Deliverables: input.Deliverables,
		Terms: input.Terms, Notes: input.Notes,
	}

	id, err := h.contractChangeService.ProposeContractChange(c.Request().Context(), contractId, currentUser(c), terms, input.Reason)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusCreated, proposeChangeOutput{ChangeRequestId: id}); e != nil {
		return e
	}

	return nil
}

// /contracts/:contractId/history
func (h *contractRoutesHandler) GetContractHistory(c echo.Context) error {
	contractId, ok, err := pathId(c, "contractId")
	if !ok {
		return err
	}

	history, err := h.contractChangeService.GetContractHistory(c.Request().Context(), contractId, currentUser(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, history); e != nil {
		return e
	}

	return nil
}
