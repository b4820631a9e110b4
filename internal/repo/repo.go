package repo

import (
	"context"
	"freelance-job-board/internal/entity"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

// Lock* methods read a row and hold it until the surrounding transaction ends.
// Callers lock in the order job -> proposal/contract -> change request.

type Job interface {
	CreateJob(ctx context.Context, input *entity.CreateJobInput) (int64, error)
	GetJobById(ctx context.Context, id int64) (*entity.Job, error)
	LockJobById(ctx context.Context, id int64) (*entity.Job, error)
	UpdateJobStatusById(ctx context.Context, id int64, newStatus string) error
}

type Proposal interface {
	CreateProposal(ctx context.Context, input *entity.CreateProposalInput) (int64, error)
	GetProposalById(ctx context.Context, id int64) (*entity.Proposal, error)
	LockProposalById(ctx context.Context, id int64) (*entity.Proposal, error)
	GetJobProposals(ctx context.Context, jobId int64) ([]entity.Proposal, error)
	DoesFreelancerProposalExist(ctx context.Context, jobId int64, freelancerId uuid.UUID) (bool, error)
	// ReviewProposal stores p.Status/Feedback/ReviewedAt/ReviewedBy if p.RowVersion
	// still matches the stored row.
	ReviewProposal(ctx context.Context, p *entity.Proposal) error
	// ReviewProposals applies review to every listed proposal that is still in one
	// of the given statuses; it fails if any of them is not.
	ReviewProposals(ctx context.Context, ids []int64, fromStatuses []string, review *entity.ProposalReview) error
}

type Contract interface {
	CreateContract(ctx context.Context, input *entity.CreateContractInput) (int64, error)
	GetContractById(ctx context.Context, id int64) (*entity.Contract, error)
	LockContractById(ctx context.Context, id int64) (*entity.Contract, error)
	GetContractByProposalId(ctx context.Context, proposalId int64) (*entity.Contract, error)
	// UpdateContractState stores status, end time and completion request fields
	// if c.RowVersion still matches, then bumps c.RowVersion.
	UpdateContractState(ctx context.Context, c *entity.Contract) error
}

type ContractVersion interface {
	CreateVersion(ctx context.Context, v *entity.ContractVersion) (int64, error)
	GetVersionById(ctx context.Context, id int64) (*entity.ContractVersion, error)
	GetCurrentVersion(ctx context.Context, contractId int64) (*entity.ContractVersion, error)
	GetNextVersionNumber(ctx context.Context, contractId int64) (int, error)
	GetContractVersions(ctx context.Context, contractId int64) ([]entity.ContractVersion, error)
	SetCurrentVersion(ctx context.Context, contractId int64, versionId int64) error
}

type ChangeRequest interface {
	CreateChangeRequest(ctx context.Context, cr *entity.ContractChangeRequest) (int64, error)
	GetChangeRequestById(ctx context.Context, id int64) (*entity.ContractChangeRequest, error)
	LockChangeRequestById(ctx context.Context, id int64) (*entity.ContractChangeRequest, error)
	GetPendingChangeRequest(ctx context.Context, contractId int64) (*entity.ContractChangeRequest, error)
	GetContractChangeRequests(ctx context.Context, contractId int64) ([]entity.ContractChangeRequest, error)
	// GetPendingChangeRequestsForUser lists pending requests on open contracts
	// where userId is a party but not the requester.
	GetPendingChangeRequestsForUser(ctx context.Context, userId uuid.UUID) ([]entity.ContractChangeRequest, error)
	UpdateChangeRequestStatus(ctx context.Context, cr *entity.ContractChangeRequest) error
}

type Notification interface {
	CreateNotification(ctx context.Context, n *entity.Notification) (int64, error)
	GetUserNotifications(ctx context.Context, userId uuid.UUID, pg *entity.PaginationInput) ([]entity.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64, userId uuid.UUID) error
}

// TxRepositories are bound to one transaction.
type TxRepositories struct {
	Job
	Proposal
	Contract
	ContractVersion
	ChangeRequest
}

type Transactor interface {
	// WithinTransaction commits if fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(r *TxRepositories) error) error
}

type Repositories struct {
	Diagnostics
	Notification
	Transactor
}
