package service

import (
	"context"
	"errors"
	"fmt"
	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/notify"
	"freelance-job-board/internal/repo"
	"freelance-job-board/internal/repo/repo_errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

const siblingRejectedFeedback = "Another proposal was accepted for this job."

type ProposalService struct {
	transactor repo.Transactor
	publisher  notify.Publisher
	roles      RoleResolver
	logger     *slog.Logger
	now        func() time.Time
}

func NewProposalService(repos *repo.Repositories, deps Dependencies) *ProposalService {
	return &ProposalService{
		transactor: repos.Transactor,
		publisher:  deps.Publisher,
		roles:      deps.Roles,
		logger:     deps.Logger,
		now:        deps.Now,
	}
}

func (s *ProposalService) SubmitProposal(ctx context.Context, input *entity.CreateProposalInput) (*entity.ProposalOutputModel, error) {
	input.Status = common.ProposalSubmitted
	input.SubmittedAt = s.now()

	var (
		proposal *entity.Proposal
		clientId uuid.UUID
	)
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		job, err := r.Job.LockJobById(ctx, input.JobId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrJobNotFound
			}

			return err
		}

		parties := entity.Parties{ClientId: job.ClientId}
		if s.roles.ResolveRole(ctx, input.FreelancerId, parties) == common.RoleClient {
			return ErrCanNotBidOnOwnJob
		}
		if job.Status != common.JobOpen {
			return ErrJobNotOpen
		}

		exists, err := r.Proposal.DoesFreelancerProposalExist(ctx, job.Id, input.FreelancerId)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateProposal
		}

		id, err := r.Proposal.CreateProposal(ctx, input)
		if err != nil {
			if errors.Is(err, repo_errors.ErrAlreadyExists) {
				return ErrDuplicateProposal
			}

			return err
		}

		clientId = job.ClientId
		proposal, err = r.Proposal.GetProposalById(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(notify.Event{
		UserId:  clientId,
		Title:   "New proposal",
		Message: fmt.Sprintf("A freelancer submitted a proposal of %.2f for job #%d.", proposal.BidAmount, proposal.JobId),
	})

	return mapProposal(proposal), nil
}

// GetJobProposals is only available to the client who posted the job.
func (s *ProposalService) GetJobProposals(ctx context.Context, jobId int64, userId uuid.UUID) ([]entity.ProposalOutputModel, error) {
	var proposals []entity.Proposal
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		job, err := r.Job.GetJobById(ctx, jobId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrJobNotFound
			}

			return err
		}

		if s.roles.ResolveRole(ctx, userId, entity.Parties{ClientId: job.ClientId}) != common.RoleClient {
			return ErrUserHasNoAccessToJob
		}

		proposals, err = r.Proposal.GetJobProposals(ctx, jobId)
		return err
	})
	if err != nil {
		return nil, err
	}

	return mapProposals(proposals), nil
}

// reviewTarget loads a proposal and its job with both rows locked, and checks
// that userId is the job's client.
func (s *ProposalService) reviewTarget(ctx context.Context, r *repo.TxRepositories, proposalId int64, userId uuid.UUID) (*entity.Proposal, *entity.Job, error) {
	p, err := r.Proposal.GetProposalById(ctx, proposalId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrProposalNotFound
		}

		return nil, nil, err
	}

	job, err := r.Job.LockJobById(ctx, p.JobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrJobNotFound
		}

		return nil, nil, err
	}

	parties := entity.Parties{ClientId: job.ClientId, FreelancerId: p.FreelancerId}
	if s.roles.ResolveRole(ctx, userId, parties) != common.RoleClient {
		return nil, nil, ErrUserHasNoAccessToProposal
	}

	p, err = r.Proposal.LockProposalById(ctx, proposalId)
	if err != nil {
		return nil, nil, err
	}

	return p, job, nil
}

func (s *ProposalService) AcceptProposal(ctx context.Context, proposalId int64, userId uuid.UUID, feedback string) (*entity.AcceptProposalOutputModel, error) {
	var (
		proposal *entity.Proposal
		contract *entity.Contract
		rejected []entity.Proposal
	)
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		p, job, err := s.reviewTarget(ctx, r, proposalId, userId)
		if err != nil {
			return err
		}

		if p.Status == common.ProposalAccepted {
			return ErrProposalAlreadyAccepted
		}

		siblings, err := r.Proposal.GetJobProposals(ctx, job.Id)
		if err != nil {
			return err
		}
		for _, sibling := range siblings {
			if sibling.Status == common.ProposalAccepted {
				return ErrJobAlreadyAssigned
			}
		}

		switch job.Status {
		case common.JobOpen:
		case common.JobInProgress:
			return ErrJobAlreadyAssigned
		default:
			return ErrJobNotOpen
		}

		_, err = r.Contract.GetContractByProposalId(ctx, p.Id)
		if err == nil {
			return ErrContractAlreadyExists
		}
		if !errors.Is(err, repo_errors.ErrNotFound) {
			return err
		}

		now := s.now()
		p.Status = common.ProposalAccepted
		p.Feedback = feedback
		p.ReviewedAt = &now
		p.ReviewedBy = &userId
		if err := r.Proposal.ReviewProposal(ctx, p); err != nil {
			return storeError(err)
		}

		if err := r.Job.UpdateJobStatusById(ctx, job.Id, common.JobInProgress); err != nil {
			return storeError(err)
		}

		contractId, err := r.Contract.CreateContract(ctx, &entity.CreateContractInput{
			JobId:         job.Id,
			ProposalId:    p.Id,
			ClientId:      job.ClientId,
			FreelancerId:  p.FreelancerId,
			PaymentAmount: p.BidAmount,
			StartTime:     now,
		})
		if err != nil {
			return storeError(err)
		}

		ids := make([]int64, 0)
		for _, sibling := range siblings {
			if sibling.Id != p.Id && slices.Contains(common.OpenProposalStatuses, sibling.Status) {
				ids = append(ids, sibling.Id)
				rejected = append(rejected, sibling)
			}
		}
		if len(ids) > 0 {
			err = r.Proposal.ReviewProposals(ctx, ids, common.OpenProposalStatuses, &entity.ProposalReview{
				Status:     common.ProposalRejected,
				Feedback:   siblingRejectedFeedback,
				ReviewedBy: userId,
				ReviewedAt: now,
			})
			if err != nil {
				return storeError(err)
			}
		}

		proposal = p
		contract, err = r.Contract.GetContractById(ctx, contractId)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proposal accepted",
		"proposal_id", proposal.Id,
		"job_id", proposal.JobId,
		"contract_id", contract.Id,
		"rejected", len(rejected),
	)

	events := []notify.Event{
		{
			UserId:  contract.FreelancerId,
			Title:   "Proposal accepted",
			Message: fmt.Sprintf("Your proposal for job #%d was accepted. Contract #%d has been created.", proposal.JobId, contract.Id),
		},
		{
			UserId:  contract.ClientId,
			Title:   "Contract created",
			Message: fmt.Sprintf("Contract #%d was created for job #%d.", contract.Id, proposal.JobId),
		},
	}
	rejectedIds := make([]int64, 0, len(rejected))
	for _, p := range rejected {
		rejectedIds = append(rejectedIds, p.Id)
		events = append(events, notify.Event{
			UserId:  p.FreelancerId,
			Title:   "Proposal rejected",
			Message: fmt.Sprintf("Your proposal for job #%d was not selected. %s", p.JobId, siblingRejectedFeedback),
		})
	}
	s.publisher.Publish(events...)

	return &entity.AcceptProposalOutputModel{
		Proposal:          *mapProposal(proposal),
		Contract:          *mapContract(contract),
		RejectedProposals: rejectedIds,
	}, nil
}

func (s *ProposalService) RejectProposal(ctx context.Context, proposalId int64, userId uuid.UUID, feedback string) (*entity.ProposalOutputModel, error) {
	return s.review(ctx, proposalId, userId, common.ProposalRejected, feedback)
}

func (s *ProposalService) SetProposalStatus(ctx context.Context, proposalId int64, userId uuid.UUID, status string, feedback string) (*entity.ProposalOutputModel, error) {
	switch status {
	case common.ProposalAccepted:
		out, err := s.AcceptProposal(ctx, proposalId, userId, feedback)
		if err != nil {
			return nil, err
		}

		return &out.Proposal, nil
	case common.ProposalPending, common.ProposalUnderReview, common.ProposalRejected:
		return s.review(ctx, proposalId, userId, status, feedback)
	}

	return nil, ErrInvalidProposalStatus
}

// review moves a proposal to a non-accepting status. An accepted proposal
// already backs a contract and can't be moved back.
func (s *ProposalService) review(ctx context.Context, proposalId int64, userId uuid.UUID, status string, feedback string) (*entity.ProposalOutputModel, error) {
	var proposal *entity.Proposal
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		p, job, err := s.reviewTarget(ctx, r, proposalId, userId)
		if err != nil {
			return err
		}

		if p.Status == common.ProposalAccepted {
			return ErrProposalAlreadyAccepted
		}
		if job.Status != common.JobOpen {
			return ErrJobNotOpen
		}

		now := s.now()
		p.Status = status
		p.Feedback = feedback
		p.ReviewedAt = &now
		p.ReviewedBy = &userId
		if err := r.Proposal.ReviewProposal(ctx, p); err != nil {
			return storeError(err)
		}

		proposal = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(notify.Event{
		UserId:  proposal.FreelancerId,
		Title:   "Proposal status updated",
		Message: fmt.Sprintf("Your proposal for job #%d is now %s.", proposal.JobId, proposal.Status),
	})

	return mapProposal(proposal), nil
}
