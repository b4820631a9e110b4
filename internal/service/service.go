package service

import (
	"context"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/notify"
	"freelance-job-board/internal/repo"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Job interface {
	CreateJob(ctx context.Context, input *entity.CreateJobInput) (*entity.JobOutputModel, error)
	GetJobById(ctx context.Context, jobId int64) (*entity.JobOutputModel, error)
}

type Proposal interface {
	SubmitProposal(ctx context.Context, input *entity.CreateProposalInput) (*entity.ProposalOutputModel, error)
	GetJobProposals(ctx context.Context, jobId int64, userId uuid.UUID) ([]entity.ProposalOutputModel, error)

	AcceptProposal(ctx context.Context, proposalId int64, userId uuid.UUID, feedback string) (*entity.AcceptProposalOutputModel, error)
	RejectProposal(ctx context.Context, proposalId int64, userId uuid.UUID, feedback string) (*entity.ProposalOutputModel, error)
	// SetProposalStatus routes Accepted to AcceptProposal; the result then
	// describes the accepted proposal only.
	SetProposalStatus(ctx context.Context, proposalId int64, userId uuid.UUID, status string, feedback string) (*entity.ProposalOutputModel, error)
}

type Contract interface {
	GetContractById(ctx context.Context, contractId int64, userId uuid.UUID) (*entity.ContractOutputModel, error)

	RequestContractCompletion(ctx context.Context, contractId int64, userId uuid.UUID, notes string) (*entity.ContractOutputModel, error)
	ApproveOrRejectCompletion(ctx context.Context, contractId int64, userId uuid.UUID, approve bool, notes string) (*entity.ContractOutputModel, error)
	CancelCompletionRequest(ctx context.Context, contractId int64, userId uuid.UUID, notes string) (*entity.ContractOutputModel, error)

	TransitionContractStatus(ctx context.Context, contractId int64, userId uuid.UUID, targetStatus string, notes string) (*entity.ContractOutputModel, error)
}

type ContractChange interface {
	ProposeContractChange(ctx context.Context, contractId int64, userId uuid.UUID, terms *entity.ContractTerms, reason string) (int64, error)
	RespondToChangeRequest(ctx context.Context, changeRequestId int64, userId uuid.UUID, approve bool, notes string) (*entity.ChangeRequestOutputModel, error)

	GetContractHistory(ctx context.Context, contractId int64, userId uuid.UUID) (*entity.ContractHistoryOutputModel, error)
	GetPendingChangeRequests(ctx context.Context, userId uuid.UUID) ([]entity.ChangeRequestOutputModel, error)
}

type Notification interface {
	GetUserNotifications(ctx context.Context, userId uuid.UUID, pg *entity.PaginationInput) ([]entity.NotificationOutputModel, error)
	MarkNotificationRead(ctx context.Context, notificationId int64, userId uuid.UUID) error
}

type Services struct {
	Diagnostics    Diagnostics
	Job            Job
	Proposal       Proposal
	Contract       Contract
	ContractChange ContractChange
	Notification   Notification
}

const DefaultChangeRequestTTL = 7 * 24 * time.Hour

type Dependencies struct {
	Publisher        notify.Publisher
	Roles            RoleResolver
	Logger           *slog.Logger
	Now              func() time.Time
	ChangeRequestTTL time.Duration
}

func (d *Dependencies) withDefaults() Dependencies {
	deps := *d
	if deps.Publisher == nil {
		deps.Publisher = discardPublisher{}
	}
	if deps.Roles == nil {
		deps.Roles = PartyRoleResolver{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.ChangeRequestTTL <= 0 {
		deps.ChangeRequestTTL = DefaultChangeRequestTTL
	}

	return deps
}

type discardPublisher struct{}

func (discardPublisher) Publish(...notify.Event) {}

func NewServices(repos *repo.Repositories, deps Dependencies) *Services {
	deps = deps.withDefaults()

	return &Services{
		Diagnostics:    NewDiagnosticsService(repos),
		Job:            NewJobService(repos, deps),
		Proposal:       NewProposalService(repos, deps),
		Contract:       NewContractService(repos, deps),
		ContractChange: NewContractChangeService(repos, deps),
		Notification:   NewNotificationService(repos),
	}
}
