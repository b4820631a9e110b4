package service

import (
	"fmt"
	"sync"
	"testing"

	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo"
	"freelance-job-board/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const racers = 8

// race runs fn for every index at the same time and returns the errors by index.
func race(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()

	return errs
}

func assertSingleWinner(t *testing.T, errs []error) int {
	t.Helper()

	winner := -1
	for i, err := range errs {
		if err == nil {
			assert.Equal(t, -1, winner, "more than one call succeeded")
			winner = i
			continue
		}
		assert.Equal(t, KindConflict, KindOf(err), err.Error())
	}
	require.NotEqual(t, -1, winner, "no call succeeded")

	return winner
}

func TestConcurrentAcceptProposal(t *testing.T) {
	f := newFixture(t)
	job := f.createJob(t)

	proposals := make([]*entity.ProposalOutputModel, racers)
	for i := range proposals {
		proposals[i] = f.submit(t, job.Id, uuid.New(), float64(400+i*10))
	}

	errs := race(racers, func(i int) error {
		_, err := f.services.Proposal.AcceptProposal(f.ctx, proposals[i].Id, f.client, "")
		return err
	})
	winner := assertSingleWinner(t, errs)

	for i, err := range errs {
		if i != winner {
			assert.ErrorIs(t, err, ErrJobAlreadyAssigned)
		}
	}

	f.read(t, func(r *repo.TxRepositories) error {
		contracts := 0
		for i, p := range proposals {
			c, err := r.Contract.GetContractByProposalId(f.ctx, p.Id)
			if i != winner {
				assert.ErrorIs(t, err, repo_errors.ErrNotFound)
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, common.ContractPending, c.ContractStatusId)
			contracts++
		}
		assert.Equal(t, 1, contracts)

		stored, err := r.Proposal.GetJobProposals(f.ctx, job.Id)
		require.NoError(t, err)
		accepted := 0
		for _, p := range stored {
			if p.Status == common.ProposalAccepted {
				accepted++
			}
		}
		assert.Equal(t, 1, accepted)
		return nil
	})
	assert.Equal(t, common.JobInProgress, f.job(t, job.Id).Status)
}

func TestConcurrentProposeContractChange(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	errs := race(racers, func(i int) error {
		proposer := f.client
		if i%2 == 1 {
			proposer = f.freelancer
		}
		_, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, proposer,
			&entity.ContractTerms{Title: ptr(fmt.Sprintf("Revision %d", i))}, "")
		return err
	})
	winner := assertSingleWinner(t, errs)

	for i, err := range errs {
		if i != winner {
			assert.ErrorIs(t, err, ErrPendingChangeRequestExists)
		}
	}

	f.read(t, func(r *repo.TxRepositories) error {
		requests, err := r.ChangeRequest.GetContractChangeRequests(f.ctx, c.Id)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, common.ChangeRequestPending, requests[0].Status)
		return nil
	})

	versions := f.versions(t, c.Id)
	require.Len(t, versions, 2)
	assert.Equal(t, fmt.Sprintf("Revision %d", winner), versions[1].Title)
	assert.True(t, versions[0].IsCurrentVersion)
	assert.False(t, versions[1].IsCurrentVersion)
}
