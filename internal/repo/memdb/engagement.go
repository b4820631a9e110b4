package memdb

import (
	"context"
	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo/repo_errors"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

type JobRepo struct{ s *state }

func (r *JobRepo) CreateJob(ctx context.Context, input *entity.CreateJobInput) (int64, error) {
	id := r.s.nextId()
	r.s.jobs[id] = entity.Job{
		Id:          id,
		ClientId:    input.ClientId,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		PaymentType: input.PaymentType,
		Deadline:    input.Deadline,
		Status:      input.Status,
		CreatedAt:   input.CreatedAt,
		UpdatedAt:   input.CreatedAt,
	}

	return id, nil
}

func (r *JobRepo) GetJobById(ctx context.Context, id int64) (*entity.Job, error) {
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &job, nil
}

func (r *JobRepo) LockJobById(ctx context.Context, id int64) (*entity.Job, error) {
	return r.GetJobById(ctx, id)
}

func (r *JobRepo) UpdateJobStatusById(ctx context.Context, id int64, newStatus string) error {
	job, ok := r.s.jobs[id]
	if !ok {
		return repo_errors.ErrConcurrentUpdate
	}
	job.Status = newStatus
	job.UpdatedAt = time.Now().UTC()
	r.s.jobs[id] = job

	return nil
}

type ProposalRepo struct{ s *state }

func (r *ProposalRepo) CreateProposal(ctx context.Context, input *entity.CreateProposalInput) (int64, error) {
	for _, p := range r.s.proposals {
		if p.JobId == input.JobId && p.FreelancerId == input.FreelancerId {
			return 0, repo_errors.ErrAlreadyExists
		}
	}

	id := r.s.nextId()
	r.s.proposals[id] = entity.Proposal{
		Id:           id,
		JobId:        input.JobId,
		FreelancerId: input.FreelancerId,
		BidAmount:    input.BidAmount,
		TimelineDays: input.TimelineDays,
		CoverLetter:  input.CoverLetter,
		Status:       input.Status,
		RowVersion:   1,
		SubmittedAt:  input.SubmittedAt,
	}

	return id, nil
}

func (r *ProposalRepo) GetProposalById(ctx context.Context, id int64) (*entity.Proposal, error) {
	p, ok := r.s.proposals[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &p, nil
}

func (r *ProposalRepo) LockProposalById(ctx context.Context, id int64) (*entity.Proposal, error) {
	return r.GetProposalById(ctx, id)
}

func (r *ProposalRepo) GetJobProposals(ctx context.Context, jobId int64) ([]entity.Proposal, error) {
	proposals := make([]entity.Proposal, 0)
	for _, p := range r.s.proposals {
		if p.JobId == jobId {
			proposals = append(proposals, p)
		}
	}
	sort.Slice(proposals, func(i, j int) bool { return proposals[i].Id < proposals[j].Id })

	return proposals, nil
}

func (r *ProposalRepo) DoesFreelancerProposalExist(ctx context.Context, jobId int64, freelancerId uuid.UUID) (bool, error) {
	for _, p := range r.s.proposals {
		if p.JobId == jobId && p.FreelancerId == freelancerId {
			return true, nil
		}
	}

	return false, nil
}

func (r *ProposalRepo) ReviewProposal(ctx context.Context, p *entity.Proposal) error {
	stored, ok := r.s.proposals[p.Id]
	if !ok || stored.RowVersion != p.RowVersion {
		return repo_errors.ErrConcurrentUpdate
	}
	if p.Status == common.ProposalAccepted {
		for _, other := range r.s.proposals {
			if other.JobId == stored.JobId && other.Id != p.Id && other.Status == common.ProposalAccepted {
				return repo_errors.ErrAlreadyExists
			}
		}
	}

	stored.Status = p.Status
	stored.Feedback = p.Feedback
	stored.ReviewedAt = p.ReviewedAt
	stored.ReviewedBy = p.ReviewedBy
	stored.RowVersion++
	r.s.proposals[p.Id] = stored
	p.RowVersion = stored.RowVersion

	return nil
}

func (r *ProposalRepo) ReviewProposals(ctx context.Context, ids []int64, fromStatuses []string, review *entity.ProposalReview) error {
	for _, id := range ids {
		stored, ok := r.s.proposals[id]
		if !ok || !slices.Contains(fromStatuses, stored.Status) {
			return repo_errors.ErrConcurrentUpdate
		}
	}

	for _, id := range ids {
		stored := r.s.proposals[id]
		reviewedAt, reviewedBy := review.ReviewedAt, review.ReviewedBy
		stored.Status = review.Status
		stored.Feedback = review.Feedback
		stored.ReviewedAt = &reviewedAt
		stored.ReviewedBy = &reviewedBy
		stored.RowVersion++
		r.s.proposals[id] = stored
	}

	return nil
}

type ContractRepo struct{ s *state }

func (r *ContractRepo) CreateContract(ctx context.Context, input *entity.CreateContractInput) (int64, error) {
	for _, c := range r.s.contracts {
		if c.ProposalId == input.ProposalId {
			return 0, repo_errors.ErrAlreadyExists
		}
	}

	id := r.s.nextId()
	r.s.contracts[id] = entity.Contract{
		Id:               id,
		JobId:            input.JobId,
		ProposalId:       input.ProposalId,
		ClientId:         input.ClientId,
		FreelancerId:     input.FreelancerId,
		ContractStatusId: common.ContractPending,
		PaymentAmount:    input.PaymentAmount,
		StartTime:        input.StartTime,
		RowVersion:       1,
		CreatedAt:        input.StartTime,
		UpdatedAt:        input.StartTime,
	}

	return id, nil
}

func (r *ContractRepo) GetContractById(ctx context.Context, id int64) (*entity.Contract, error) {
	c, ok := r.s.contracts[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &c, nil
}

func (r *ContractRepo) LockContractById(ctx context.Context, id int64) (*entity.Contract, error) {
	return r.GetContractById(ctx, id)
}

func (r *ContractRepo) GetContractByProposalId(ctx context.Context, proposalId int64) (*entity.Contract, error) {
	for _, c := range r.s.contracts {
		if c.ProposalId == proposalId {
			return &c, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (r *ContractRepo) UpdateContractState(ctx context.Context, c *entity.Contract) error {
	stored, ok := r.s.contracts[c.Id]
	if !ok || stored.RowVersion != c.RowVersion {
		return repo_errors.ErrConcurrentUpdate
	}

	stored.ContractStatusId = c.ContractStatusId
	stored.EndTime = c.EndTime
	stored.CompletionRequestedByUserId = c.CompletionRequestedByUserId
	stored.CompletionRequestedAt = c.CompletionRequestedAt
	stored.UpdatedAt = c.UpdatedAt
	stored.RowVersion++
	r.s.contracts[c.Id] = stored
	c.RowVersion = stored.RowVersion

	return nil
}

type ContractVersionRepo struct{ s *state }

func (r *ContractVersionRepo) CreateVersion(ctx context.Context, v *entity.ContractVersion) (int64, error) {
	for _, existing := range r.s.versions {
		if existing.ContractId != v.ContractId {
			continue
		}
		if existing.VersionNumber == v.VersionNumber || (v.IsCurrentVersion && existing.IsCurrentVersion) {
			return 0, repo_errors.ErrAlreadyExists
		}
	}

	stored := *v
	stored.Id = r.s.nextId()
	r.s.versions[stored.Id] = stored

	return stored.Id, nil
}

func (r *ContractVersionRepo) GetVersionById(ctx context.Context, id int64) (*entity.ContractVersion, error) {
	v, ok := r.s.versions[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &v, nil
}

func (r *ContractVersionRepo) GetCurrentVersion(ctx context.Context, contractId int64) (*entity.ContractVersion, error) {
	for _, v := range r.s.versions {
		if v.ContractId == contractId && v.IsCurrentVersion {
			return &v, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (r *ContractVersionRepo) GetNextVersionNumber(ctx context.Context, contractId int64) (int, error) {
	last := 0
	for _, v := range r.s.versions {
		if v.ContractId == contractId && v.VersionNumber > last {
			last = v.VersionNumber
		}
	}

	return last + 1, nil
}

func (r *ContractVersionRepo) GetContractVersions(ctx context.Context, contractId int64) ([]entity.ContractVersion, error) {
	versions := make([]entity.ContractVersion, 0)
	for _, v := range r.s.versions {
		if v.ContractId == contractId {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].VersionNumber < versions[j].VersionNumber })

	return versions, nil
}

func (r *ContractVersionRepo) SetCurrentVersion(ctx context.Context, contractId int64, versionId int64) error {
	target, ok := r.s.versions[versionId]
	if !ok || target.ContractId != contractId {
		return repo_errors.ErrConcurrentUpdate
	}

	for id, v := range r.s.versions {
		if v.ContractId == contractId && v.IsCurrentVersion {
			v.IsCurrentVersion = false
			r.s.versions[id] = v
		}
	}
	target.IsCurrentVersion = true
	r.s.versions[versionId] = target

	return nil
}

type ChangeRequestRepo struct{ s *state }

func (r *ChangeRequestRepo) CreateChangeRequest(ctx context.Context, cr *entity.ContractChangeRequest) (int64, error) {
	if cr.Status == common.ChangeRequestPending {
		for _, existing := range r.s.changeRequests {
			if existing.ContractId == cr.ContractId && existing.Status == common.ChangeRequestPending {
				return 0, repo_errors.ErrAlreadyExists
			}
		}
	}

	stored := *cr
	stored.Id = r.s.nextId()
	r.s.changeRequests[stored.Id] = stored

	return stored.Id, nil
}

func (r *ChangeRequestRepo) GetChangeRequestById(ctx context.Context, id int64) (*entity.ContractChangeRequest, error) {
	cr, ok := r.s.changeRequests[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &cr, nil
}

func (r *ChangeRequestRepo) LockChangeRequestById(ctx context.Context, id int64) (*entity.ContractChangeRequest, error) {
	return r.GetChangeRequestById(ctx, id)
}

func (r *ChangeRequestRepo) GetPendingChangeRequest(ctx context.Context, contractId int64) (*entity.ContractChangeRequest, error) {
	for _, cr := range r.s.changeRequests {
		if cr.ContractId == contractId && cr.Status == common.ChangeRequestPending {
			return &cr, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (r *ChangeRequestRepo) GetContractChangeRequests(ctx context.Context, contractId int64) ([]entity.ContractChangeRequest, error) {
	return r.filter(func(cr entity.ContractChangeRequest) bool { return cr.ContractId == contractId }), nil
}

func (r *ChangeRequestRepo) GetPendingChangeRequestsForUser(ctx context.Context, userId uuid.UUID) ([]entity.ContractChangeRequest, error) {
	return r.filter(func(cr entity.ContractChangeRequest) bool {
		if cr.Status != common.ChangeRequestPending || cr.RequestedByUserId == userId {
			return false
		}
		c, ok := r.s.contracts[cr.ContractId]
		return ok && !c.ContractStatusId.Terminal() && (c.ClientId == userId || c.FreelancerId == userId)
	}), nil
}

func (r *ChangeRequestRepo) filter(keep func(cr entity.ContractChangeRequest) bool) []entity.ContractChangeRequest {
	requests := make([]entity.ContractChangeRequest, 0)
	for _, cr := range r.s.changeRequests {
		if keep(cr) {
			requests = append(requests, cr)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].Id < requests[j].Id })

	return requests
}

func (r *ChangeRequestRepo) UpdateChangeRequestStatus(ctx context.Context, cr *entity.ContractChangeRequest) error {
	stored, ok := r.s.changeRequests[cr.Id]
	if !ok || stored.Status != common.ChangeRequestPending {
		return repo_errors.ErrConcurrentUpdate
	}

	stored.Status = cr.Status
	stored.ResponseByUserId = cr.ResponseByUserId
	stored.ResponseByRole = cr.ResponseByRole
	stored.ResponseDate = cr.ResponseDate
	stored.ResponseNotes = cr.ResponseNotes
	r.s.changeRequests[cr.Id] = stored

	return nil
}
