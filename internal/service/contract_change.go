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
	"time"

	"github.com/google/uuid"
)

type ContractChangeService struct {
	transactor repo.Transactor
	publisher  notify.Publisher
	roles      RoleResolver
	logger     *slog.Logger
	now        func() time.Time
	ttl        time.Duration
}

func NewContractChangeService(repos *repo.Repositories, deps Dependencies) *ContractChangeService {
	return &ContractChangeService{
		transactor: repos.Transactor,
		publisher:  deps.Publisher,
		roles:      deps.Roles,
		logger:     deps.Logger,
		now:        deps.Now,
		ttl:        deps.ChangeRequestTTL,
	}
}

// currentVersionOf returns the contract's current terms. A contract that has
// never been amended has no stored versions; its version 1 is derived from the
// job and the accepted proposal and returned with a zero Id.
func currentVersionOf(ctx context.Context, r *repo.TxRepositories, c *entity.Contract) (*entity.ContractVersion, error) {
	v, err := r.ContractVersion.GetCurrentVersion(ctx, c.Id)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, repo_errors.ErrNotFound) {
		return nil, err
	}

	job, err := r.Job.GetJobById(ctx, c.JobId)
	if err != nil {
		return nil, err
	}
	p, err := r.Proposal.GetProposalById(ctx, c.ProposalId)
	if err != nil {
		return nil, err
	}

	deadline := job.Deadline
	if p.TimelineDays > 0 {
		d := c.StartTime.AddDate(0, 0, p.TimelineDays)
		deadline = &d
	}

	return &entity.ContractVersion{
		ContractId:       c.Id,
		VersionNumber:    1,
		Title:            job.Title,
		Description:      job.Description,
		PaymentAmount:    c.PaymentAmount,
		PaymentType:      job.PaymentType,
		Deadline:         deadline,
		Notes:            fmt.Sprintf("Initial terms from proposal #%d", p.Id),
		CreatedByRole:    common.RoleSystem,
		IsCurrentVersion: true,
		CreatedAt:        c.StartTime,
	}, nil
}

// amend applies the non-nil fields of t on top of v.
func amend(v entity.ContractVersion, t *entity.ContractTerms) entity.ContractVersion {
	if t == nil {
		return v
	}
	if t.Title != nil {
		v.Title = *t.Title
	}
	if t.Description != nil {
		v.Description = *t.Description
	}
	if t.PaymentAmount != nil {
		v.PaymentAmount = *t.PaymentAmount
	}
	if t.PaymentType != nil {
		v.PaymentType = *t.PaymentType
	}
	if t.Deadline != nil {
		d := *t.Deadline
		v.Deadline = &d
	}
	if t.Deliverables != nil {
		v.Deliverables = *t.Deliverables
	}
	if t.Terms != nil {
		v.Terms = *t.Terms
	}
	if t.Notes != nil {
		v.Notes = *t.Notes
	}

	return v
}

func sameTerms(a, b *entity.ContractVersion) bool {
	sameDeadline := (a.Deadline == nil && b.Deadline == nil) ||
		(a.Deadline != nil && b.Deadline != nil && a.Deadline.Equal(*b.Deadline))

	return sameDeadline &&
		a.Title == b.Title &&
		a.Description == b.Description &&
		a.PaymentAmount == b.PaymentAmount &&
		a.PaymentType == b.PaymentType &&
		a.Deliverables == b.Deliverables &&
		a.Terms == b.Terms &&
		a.Notes == b.Notes
}

// expireIfStale marks a pending request whose expiry date has passed as
// Expired. It reports whether it did so.
func expireIfStale(ctx context.Context, r *repo.TxRepositories, cr *entity.ContractChangeRequest, now time.Time) (bool, error) {
	if !cr.Stale(now) {
		return false, nil
	}

	cr.Status = common.ChangeRequestExpired
	if err := r.ChangeRequest.UpdateChangeRequestStatus(ctx, cr); err != nil {
		return false, storeError(err)
	}

	return true, nil
}

func (s *ContractChangeService) ProposeContractChange(ctx context.Context, contractId int64, userId uuid.UUID, terms *entity.ContractTerms, reason string) (int64, error) {
	if terms != nil && terms.PaymentType != nil &&
		*terms.PaymentType != common.PaymentFixed && *terms.PaymentType != common.PaymentHourly {
		return 0, ErrInvalidPaymentType
	}

	var request *entity.ContractChangeRequest
	var contract *entity.Contract
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

		c, err = r.Contract.LockContractById(ctx, contractId)
		if err != nil {
			return err
		}
		if c.ContractStatusId.Terminal() {
			return ErrContractClosed
		}

		now := s.now()
		pending, err := r.ChangeRequest.GetPendingChangeRequest(ctx, c.Id)
		switch {
		case err == nil:
			expired, err := expireIfStale(ctx, r, pending, now)
			if err != nil {
				return err
			}
			if !expired {
				return ErrPendingChangeRequestExists
			}
		case !errors.Is(err, repo_errors.ErrNotFound):
			return err
		}

		current, err := currentVersionOf(ctx, r, c)
		if err != nil {
			return err
		}

		proposed := amend(*current, terms)
		if sameTerms(current, &proposed) {
			return ErrNoNewChanges
		}

		if current.Id == 0 {
			current.Id, err = r.ContractVersion.CreateVersion(ctx, current)
			if err != nil {
				return storeError(err)
			}
		}

		proposed.VersionNumber, err = r.ContractVersion.GetNextVersionNumber(ctx, c.Id)
		if err != nil {
			return err
		}
		proposed.Id = 0
		proposed.ContractId = c.Id
		proposed.CreatedByRole = role
		proposed.CreatedByUserId = &userId
		proposed.IsCurrentVersion = false
		proposed.CreatedAt = now

		proposedId, err := r.ContractVersion.CreateVersion(ctx, &proposed)
		if err != nil {
			return storeError(err)
		}

		request = &entity.ContractChangeRequest{
			ContractId:        c.Id,
			FromVersionId:     current.Id,
			ProposedVersionId: proposedId,
			RequestedByUserId: userId,
			RequestedByRole:   role,
			Reason:            reason,
			Status:            common.ChangeRequestPending,
			RequestDate:       now,
			ExpiryDate:        now.Add(s.ttl),
		}
		request.Id, err = r.ChangeRequest.CreateChangeRequest(ctx, request)
		if err != nil {
			if errors.Is(err, repo_errors.ErrAlreadyExists) {
				return ErrPendingChangeRequestExists
			}

			return storeError(err)
		}

		contract = c
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("contract change proposed",
		"contract_id", contract.Id,
		"change_request_id", request.Id,
		"proposed_version_id", request.ProposedVersionId,
		"user_id", userId,
	)

	message := fmt.Sprintf("A change to contract #%d was proposed and awaits your response until %s.",
		contract.Id, formatTime(request.ExpiryDate))
	if reason != "" {
		message += " Reason: " + reason
	}
	s.publisher.Publish(notify.Event{
		UserId:  contract.Parties().Other(userId),
		Title:   "Contract change proposed",
		Message: message,
	})

	return request.Id, nil
}

func (s *ContractChangeService) RespondToChangeRequest(ctx context.Context, changeRequestId int64, userId uuid.UUID, approve bool, notes string) (*entity.ChangeRequestOutputModel, error) {
	var (
		request *entity.ContractChangeRequest
		expired bool
	)
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		cr, err := r.ChangeRequest.GetChangeRequestById(ctx, changeRequestId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrChangeRequestNotFound
			}

			return err
		}

		c, err := r.Contract.GetContractById(ctx, cr.ContractId)
		if err != nil {
			return err
		}

		role := s.roles.ResolveRole(ctx, userId, c.Parties())
		if role == common.RoleNone {
			return ErrUserHasNoAccessToChangeRequest
		}

		c, err = r.Contract.LockContractById(ctx, cr.ContractId)
		if err != nil {
			return err
		}
		cr, err = r.ChangeRequest.LockChangeRequestById(ctx, changeRequestId)
		if err != nil {
			return err
		}

		if cr.RequestedByUserId == userId {
			return ErrSelfResponse
		}
		if cr.Status != common.ChangeRequestPending {
			return fmt.Errorf("%w: status is %s", ErrChangeRequestNotPending, cr.Status)
		}

		now := s.now()
		// the expiry is committed even though the response fails
		expired, err = expireIfStale(ctx, r, cr, now)
		if err != nil || expired {
			return err
		}

		if c.ContractStatusId.Terminal() {
			return ErrContractClosed
		}

		responseRole := string(role)
		cr.Status = common.ChangeRequestRejected
		if approve {
			cr.Status = common.ChangeRequestApproved
		}
		cr.ResponseByUserId = &userId
		cr.ResponseByRole = &responseRole
		cr.ResponseDate = &now
		if notes != "" {
			cr.ResponseNotes = &notes
		}

		if approve {
			if err := r.ContractVersion.SetCurrentVersion(ctx, c.Id, cr.ProposedVersionId); err != nil {
				return storeError(err)
			}
		}
		if err := r.ChangeRequest.UpdateChangeRequestStatus(ctx, cr); err != nil {
			return storeError(err)
		}

		request = cr
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, ErrChangeRequestExpired
	}

	s.logger.Info("contract change answered",
		"contract_id", request.ContractId,
		"change_request_id", request.Id,
		"status", request.Status,
		"user_id", userId,
	)

	message := fmt.Sprintf("Your proposed change to contract #%d was %s.", request.ContractId, request.Status)
	if notes != "" {
		message += " Notes: " + notes
	}
	s.publisher.Publish(notify.Event{
		UserId:  request.RequestedByUserId,
		Title:   "Contract change " + request.Status,
		Message: message,
	})

	return mapChangeRequest(request), nil
}

func (s *ContractChangeService) GetContractHistory(ctx context.Context, contractId int64, userId uuid.UUID) (*entity.ContractHistoryOutputModel, error) {
	var (
		contract *entity.Contract
		current  *entity.ContractVersion
		versions []entity.ContractVersion
		requests []entity.ContractChangeRequest
	)
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

		requests, err = r.ChangeRequest.GetContractChangeRequests(ctx, c.Id)
		if err != nil {
			return err
		}
		now := s.now()
		for i := range requests {
			if _, err := expireIfStale(ctx, r, &requests[i], now); err != nil {
				return err
			}
		}

		current, err = currentVersionOf(ctx, r, c)
		if err != nil {
			return err
		}

		versions, err = r.ContractVersion.GetContractVersions(ctx, c.Id)
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			versions = []entity.ContractVersion{*current}
		}

		contract = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entity.ContractHistoryOutputModel{
		Contract:       *mapContract(contract),
		CurrentVersion: *mapContractVersion(current),
		Versions:       mapContractVersions(versions),
		ChangeRequests: mapChangeRequests(requests),
	}, nil
}

func (s *ContractChangeService) GetPendingChangeRequests(ctx context.Context, userId uuid.UUID) ([]entity.ChangeRequestOutputModel, error) {
	var pending []entity.ContractChangeRequest
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		requests, err := r.ChangeRequest.GetPendingChangeRequestsForUser(ctx, userId)
		if err != nil {
			return err
		}

		now := s.now()
		pending = make([]entity.ContractChangeRequest, 0, len(requests))
		for i := range requests {
			expired, err := expireIfStale(ctx, r, &requests[i], now)
			if err != nil {
				return err
			}
			if !expired {
				pending = append(pending, requests[i])
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapChangeRequests(pending), nil
}
