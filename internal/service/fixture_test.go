package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/notify"
	"freelance-job-board/internal/repo"
	"freelance-job-board/internal/repo/memdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(events ...notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) For(userId uuid.UUID) []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var events []notify.Event
	for _, e := range p.events {
		if e.UserId == userId {
			events = append(events, e)
		}
	}

	return events
}

func (p *recordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	ctx       context.Context
	repos     *repo.Repositories
	services  *Services
	publisher *recordingPublisher
	clock     *testClock

	client      uuid.UUID
	freelancer  uuid.UUID
	freelancer2 uuid.UUID
	stranger    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:         context.Background(),
		repos:       memdb.NewRepositories(memdb.New()),
		publisher:   &recordingPublisher{},
		clock:       &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		client:      uuid.New(),
		freelancer:  uuid.New(),
		freelancer2: uuid.New(),
		stranger:    uuid.New(),
	}
	f.services = NewServices(f.repos, Dependencies{
		Publisher: f.publisher,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       f.clock.Now,
	})

	return f
}

func (f *fixture) createJob(t *testing.T) *entity.JobOutputModel {
	t.Helper()

	job, err := f.services.Job.CreateJob(f.ctx, &entity.CreateJobInput{
		ClientId:    f.client,
		Title:       "Landing page",
		Description: "Build a landing page",
		Budget:      1000,
		PaymentType: common.PaymentFixed,
	})
	require.NoError(t, err)

	return job
}

func (f *fixture) submit(t *testing.T, jobId int64, freelancer uuid.UUID, bid float64) *entity.ProposalOutputModel {
	t.Helper()

	p, err := f.services.Proposal.SubmitProposal(f.ctx, &entity.CreateProposalInput{
		JobId:        jobId,
		FreelancerId: freelancer,
		BidAmount:    bid,
		TimelineDays: 10,
		CoverLetter:  "I can do it",
	})
	require.NoError(t, err)

	return p
}

// pendingContract returns a freshly accepted contract between client and freelancer.
func (f *fixture) pendingContract(t *testing.T) *entity.ContractOutputModel {
	t.Helper()

	job := f.createJob(t)
	p := f.submit(t, job.Id, f.freelancer, 500)
	out, err := f.services.Proposal.AcceptProposal(f.ctx, p.Id, f.client, "")
	require.NoError(t, err)
	f.publisher.Reset()

	return &out.Contract
}

func (f *fixture) activeContract(t *testing.T) *entity.ContractOutputModel {
	t.Helper()

	c := f.pendingContract(t)
	c, err := f.services.Contract.TransitionContractStatus(f.ctx, c.Id, f.client, "Active", "")
	require.NoError(t, err)
	f.publisher.Reset()

	return c
}

func (f *fixture) read(t *testing.T, fn func(r *repo.TxRepositories) error) {
	t.Helper()
	require.NoError(t, f.repos.Transactor.WithinTransaction(f.ctx, fn))
}

func (f *fixture) job(t *testing.T, id int64) entity.Job {
	t.Helper()

	var job *entity.Job
	f.read(t, func(r *repo.TxRepositories) (err error) {
		job, err = r.Job.GetJobById(f.ctx, id)
		return
	})

	return *job
}

func (f *fixture) proposal(t *testing.T, id int64) entity.Proposal {
	t.Helper()

	var p *entity.Proposal
	f.read(t, func(r *repo.TxRepositories) (err error) {
		p, err = r.Proposal.GetProposalById(f.ctx, id)
		return
	})

	return *p
}

func (f *fixture) contract(t *testing.T, id int64) entity.Contract {
	t.Helper()

	var c *entity.Contract
	f.read(t, func(r *repo.TxRepositories) (err error) {
		c, err = r.Contract.GetContractById(f.ctx, id)
		return
	})

	return *c
}

func (f *fixture) versions(t *testing.T, contractId int64) []entity.ContractVersion {
	t.Helper()

	var versions []entity.ContractVersion
	f.read(t, func(r *repo.TxRepositories) (err error) {
		versions, err = r.ContractVersion.GetContractVersions(f.ctx, contractId)
		return
	})

	return versions
}

func (f *fixture) changeRequest(t *testing.T, id int64) entity.ContractChangeRequest {
	t.Helper()

	var cr *entity.ContractChangeRequest
	f.read(t, func(r *repo.TxRepositories) (err error) {
		cr, err = r.ChangeRequest.GetChangeRequestById(f.ctx, id)
		return
	})

	return *cr
}

func ptr[T any](v T) *T {
	return &v
}
