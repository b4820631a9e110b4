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

// contractTransitions lists the statuses reachable from each non-terminal
// status. Terminal statuses have no entry.
var contractTransitions = map[common.ContractStatus][]common.ContractStatus{
	common.ContractPending:         {common.ContractActive, common.ContractCancelled},
	common.ContractActive:          {common.ContractPendingApproval, common.ContractCancelled},
	common.ContractPendingApproval: {common.ContractCompleted, common.ContractActive, common.ContractCancelled},
}

// jobCascade is the job status implied by a contract reaching a terminal status.
var jobCascade = map[common.ContractStatus]string{
	common.ContractCompleted: common.JobCompleted,
	common.ContractCancelled: common.JobCancelled,
}

func transitionAllowed(from, to common.ContractStatus) bool {
	return slices.Contains(contractTransitions[from], to)
}

// applyTransition checks the guards for moving c to target on behalf of actor
// and, if they all pass, updates c in place. c is left untouched on error.
func applyTransition(c *entity.Contract, actor uuid.UUID, role common.Role, target common.ContractStatus, now time.Time) error {
	if role != common.RoleClient && role != common.RoleFreelancer {
		return ErrUserHasNoAccessToContract
	}
	if c.ContractStatusId.Terminal() {
		return ErrContractClosed
	}
	if !transitionAllowed(c.ContractStatusId, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, c.ContractStatusId, target)
	}

	switch target {
	case common.ContractPendingApproval:
		c.CompletionRequestedByUserId = &actor
		c.CompletionRequestedAt = &now
	case common.ContractCompleted:
		if c.CompletionRequestedByUserId == nil {
			return fmt.Errorf("%w: no completion request", ErrInvalidStatusTransition)
		}
		if *c.CompletionRequestedByUserId == actor {
			return ErrSelfApproval
		}
		c.EndTime = &now
		c.CompletionRequestedByUserId = nil
		c.CompletionRequestedAt = nil
	case common.ContractCancelled:
		c.EndTime = &now
		c.CompletionRequestedByUserId = nil
		c.CompletionRequestedAt = nil
	case common.ContractActive:
		c.CompletionRequestedByUserId = nil
		c.CompletionRequestedAt = nil
	}

	c.ContractStatusId = target
	c.UpdatedAt = now

	return nil
}

type ContractService struct {
	transactor repo.Transactor
	publisher  notify.Publisher
	roles      RoleResolver
	logger     *slog.Logger
	now        func() time.Time
}

func NewContractService(repos *repo.Repositories, deps Dependencies) *ContractService {
	return &ContractService{
		transactor: repos.Transactor,
		publisher:  deps.Publisher,
		roles:      deps.Roles,
		logger:     deps.Logger,
		now:        deps.Now,
	}
}

func (s *ContractService) GetContractById(ctx context.Context, contractId int64, userId uuid.UUID) (*entity.ContractOutputModel, error) {
	var contract *entity.Contract
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		c, err := r.Contract.GetContractById(ctx, contractId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrContractNotFound
			}

			return err
		}

		if s.roles.ResolveRole(ctx, userId, c.Parties()) == common.RoleNone {
			return ErrUserHasNoAccessToContract
		}

		contract = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapContract(contract), nil
}

func (s *ContractService) RequestContractCompletion(ctx context.Context, contractId int64, userId uuid.UUID, notes string) (*entity.ContractOutputModel, error) {
	return s.transition(ctx, contractId, userId, notes, func(c *entity.Contract) (common.ContractStatus, error) {
		return common.ContractPendingApproval, nil
	})
}

func (s *ContractService) ApproveOrRejectCompletion(ctx context.Context, contractId int64, userId uuid.UUID, approve bool, notes string) (*entity.ContractOutputModel, error) {
	return s.transition(ctx, contractId, userId, notes, func(c *entity.Contract) (common.ContractStatus, error) {
		if c.ContractStatusId != common.ContractPendingApproval {
			return 0, fmt.Errorf("%w: contract is %s, not awaiting completion approval", ErrInvalidStatusTransition, c.ContractStatusId)
		}
		if approve {
			return common.ContractCompleted, nil
		}

		return common.ContractActive, nil
	})
}

func (s *ContractService) CancelCompletionRequest(ctx context.Context, contractId int64, userId uuid.UUID, notes string) (*entity.ContractOutputModel, error) {
	return s.transition(ctx, contractId, userId, notes, func(c *entity.Contract) (common.ContractStatus, error) {
		if c.ContractStatusId != common.ContractPendingApproval {
			return 0, fmt.Errorf("%w: contract is %s, not awaiting completion approval", ErrInvalidStatusTransition, c.ContractStatusId)
		}
		if c.CompletionRequestedByUserId == nil || *c.CompletionRequestedByUserId != userId {
			return 0, ErrNotCompletionRequester
		}

		return common.ContractActive, nil
	})
}

// TransitionContractStatus accepts any status name. Leaving PendingApproval for
// Active is a withdrawal when userId requested completion and a rejection
// otherwise; both are allowed.
func (s *ContractService) TransitionContractStatus(ctx context.Context, contractId int64, userId uuid.UUID, targetStatus string, notes string) (*entity.ContractOutputModel, error) {
	target, ok := common.ParseContractStatus(targetStatus)
	if !ok {
		return nil, ErrInvalidContractStatus
	}

	return s.transition(ctx, contractId, userId, notes, func(c *entity.Contract) (common.ContractStatus, error) {
		return target, nil
	})
}

func (s *ContractService) transition(
	ctx context.Context,
	contractId int64,
	userId uuid.UUID,
	notes string,
	decide func(c *entity.Contract) (common.ContractStatus, error),
) (*entity.ContractOutputModel, error) {
	var (
		contract  *entity.Contract
		from      common.ContractStatus
		withdrawn bool
	)
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		c, err := r.Contract.GetContractById(ctx, contractId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrContractNotFound
			}

			return err
		}

		role := s.roles.ResolveRole(ctx, userId, c.Parties())
		if role == common.RoleNone {
			return ErrUserHasNoAccessToContract
		}

		job, err := r.Job.LockJobById(ctx, c.JobId)
		if err != nil {
			return err
		}
		c, err = r.Contract.LockContractById(ctx, contractId)
		if err != nil {
			return err
		}

		target, err := decide(c)
		if err != nil {
			return err
		}

		from = c.ContractStatusId
		withdrawn = from == common.ContractPendingApproval && target == common.ContractActive &&
			c.CompletionRequestedByUserId != nil && *c.CompletionRequestedByUserId == userId

		if err := applyTransition(c, userId, role, target, s.now()); err != nil {
			return err
		}
		if err := r.Contract.UpdateContractState(ctx, c); err != nil {
			return storeError(err)
		}

		if jobStatus, ok := jobCascade[target]; ok {
			if err := r.Job.UpdateJobStatusById(ctx, job.Id, jobStatus); err != nil {
				return storeError(err)
			}
		}

		contract = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract status changed",
		"contract_id", contract.Id,
		"from", from.String(),
		"to", contract.ContractStatusId.String(),
		"user_id", userId,
	)

	s.publisher.Publish(contractEvents(contract, from, userId, withdrawn, notes)...)

	return mapContract(contract), nil
}

func contractEvents(c *entity.Contract, from common.ContractStatus, actor uuid.UUID, withdrawn bool, notes string) []notify.Event {
	var title, message string
	switch {
	case c.ContractStatusId == common.ContractPendingApproval:
		title = "Completion requested"
		message = fmt.Sprintf("Completion of contract #%d was requested and awaits approval.", c.Id)
	case c.ContractStatusId == common.ContractCompleted:
		title = "Contract completed"
		message = fmt.Sprintf("Contract #%d was approved as completed.", c.Id)
	case c.ContractStatusId == common.ContractCancelled:
		title = "Contract cancelled"
		message = fmt.Sprintf("Contract #%d was cancelled.", c.Id)
	case from == common.ContractPendingApproval && withdrawn:
		title = "Completion request withdrawn"
		message = fmt.Sprintf("The completion request for contract #%d was withdrawn.", c.Id)
	case from == common.ContractPendingApproval:
		title = "Completion rejected"
		message = fmt.Sprintf("The completion request for contract #%d was rejected.", c.Id)
	default:
		title = "Contract activated"
		message = fmt.Sprintf("Contract #%d is now active.", c.Id)
	}
	if notes != "" {
		message += " Notes: " + notes
	}

	parties := c.Parties()
	return []notify.Event{
		{UserId: parties.Other(actor), Title: title, Message: message},
		{UserId: actor, Title: title, Message: message},
	}
}
