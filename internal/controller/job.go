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

type jobRoutesHandler struct {
	jobService      service.Job
	proposalService service.Proposal
	validate        *validator.Validate
	logger          *slog.Logger
}

func newJobRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, logger *slog.Logger) *jobRoutesHandler {
	h := &jobRoutesHandler{
		jobService:      services.Job,
		proposalService: services.Proposal,
		validate:        v,
		logger:          logger,
	}

	outer.POST("/jobs", h.PostJob)
	outer.GET("/jobs/:jobId", h.GetJob)
	outer.POST("/jobs/:jobId/proposals", h.PostProposal)
	outer.GET("/jobs/:jobId/proposals", h.GetJobProposals)

	return h
}

type postJobInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required,max=5000"`
	Budget      float64    `json:"budget" validate:"gt=0"`
	PaymentType string     `json:"paymentType" validate:"required,oneof=Fixed Hourly"`
	Deadline    *time.Time `json:"deadline"`
}

// /jobs
func (h *jobRoutesHandler) PostJob(c echo.Context) error {
	var input postJobInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	model := &entity.CreateJobInput{
		ClientId: currentUser(c), Title: input.Title, Description: input.Description,
		Budget: input.Budget, PaymentType: input.PaymentType, Deadline: input.Deadline,
	}

	job, err := h.jobService.CreateJob(c.Request().Context(), model)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusCreated, job); e != nil {
		return e
	}

	return nil
}

// /jobs/:jobId
func (h *jobRoutesHandler) GetJob(c echo.Context) error {
	jobId, ok, err := pathId(c, "jobId")
	if !ok {
		return err
	}

	job, err := h.jobService.GetJobById(c.Request().Context(), jobId)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, job); e != nil {
		return e
	}

	return nil
}

type postProposalInput struct {
	BidAmount    float64 `json:"bidAmount" validate:"gt=0"`
	TimelineDays int     `json:"timelineDays" validate:"gte=1,lte=3650"`
	CoverLetter  string  `json:"coverLetter" validate:"required,max=5000"`
}

// /jobs/:jobId/proposals
func (h *jobRoutesHandler) PostProposal(c echo.Context) error {
	jobId, ok, err := pathId(c, "jobId")
	if !ok {
		return err
	}

	var input postProposalInput
	if ok, err := decode(c, h.validate, &input); !ok {
		return err
	}

	model := &entity.CreateProposalInput{
		JobId: jobId, FreelancerId: currentUser(c), BidAmount: input.BidAmount,
		TimelineDays: input.TimelineDays, CoverLetter: input.CoverLetter,
	}

	proposal, err := h.proposalService.SubmitProposal(c.Request().Context(), model)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusCreated, proposal); e != nil {
		return e
	}

	return nil
}

// /jobs/:jobId/proposals
func (h *jobRoutesHandler) GetJobProposals(c echo.Context) error {
	jobId, ok, err := pathId(c, "jobId")
	if !ok {
		return err
	}

	proposals, err := h.proposalService.GetJobProposals(c.Request().Context(), jobId, currentUser(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	if e := c.JSON(http.StatusOK, proposals); e != nil {
		return e
	}

	return nil
}
