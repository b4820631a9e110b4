package service

import (
	"testing"
	"time"

	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractHistoryOfUnamendedContract(t *testing.T) {
	f := newFixture(t)
	c := f.pendingContract(t)

	history, err := f.services.ContractChange.GetContractHistory(f.ctx, c.Id, f.freelancer)
	require.NoError(t, err)

	assert.Equal(t, c.Id, history.Contract.Id)
	assert.Equal(t, 1, history.CurrentVersion.VersionNumber)
	assert.True(t, history.CurrentVersion.IsCurrentVersion)
	assert.Equal(t, string(common.RoleSystem), history.CurrentVersion.CreatedByRole)
	assert.Equal(t, "Landing page", history.CurrentVersion.Title)
	assert.Equal(t, 500.0, history.CurrentVersion.PaymentAmount)
	assert.Equal(t, formatTime(f.clock.Now().AddDate(0, 0, 10)), history.CurrentVersion.Deadline)
	assert.Len(t, history.Versions, 1)
	assert.Empty(t, history.ChangeRequests)

	// reading doesn't persist the initial version
	assert.Empty(t, f.versions(t, c.Id))

	_, err = f.services.ContractChange.GetContractHistory(f.ctx, c.Id, f.stranger)
	assert.ErrorIs(t, err, ErrUserHasNoAccessToContract)
}

func TestProposeContractChange(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	id, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{
		PaymentAmount: ptr(650.0),
		Deliverables:  ptr("Landing page and blog"),
	}, "scope grew")
	require.NoError(t, err)

	versions := f.versions(t, c.Id)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.True(t, versions[0].IsCurrentVersion)
	assert.Equal(t, common.RoleSystem, versions[0].CreatedByRole)

	assert.Equal(t, 2, versions[1].VersionNumber)
	assert.False(t, versions[1].IsCurrentVersion)
	assert.Equal(t, common.RoleClient, versions[1].CreatedByRole)
	assert.Equal(t, 650.0, versions[1].PaymentAmount)
	assert.Equal(t, "Landing page and blog", versions[1].Deliverables)
	assert.Equal(t, versions[0].Title, versions[1].Title)

	cr := f.changeRequest(t, id)
	assert.Equal(t, common.ChangeRequestPending, cr.Status)
	assert.Equal(t, versions[0].Id, cr.FromVersionId)
	assert.Equal(t, versions[1].Id, cr.ProposedVersionId)
	assert.Equal(t, f.client, cr.RequestedByUserId)
	assert.Equal(t, common.RoleClient, cr.RequestedByRole)
	assert.Equal(t, f.clock.Now().Add(DefaultChangeRequestTTL), cr.ExpiryDate)

	require.Len(t, f.publisher.For(f.freelancer), 1)
	assert.Contains(t, f.publisher.For(f.freelancer)[0].Message, "scope grew")
	assert.Empty(t, f.publisher.For(f.client))

	_, err = f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.freelancer, &entity.ContractTerms{
		Title: ptr("Other"),
	}, "")
	assert.ErrorIs(t, err, ErrPendingChangeRequestExists)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Len(t, f.versions(t, c.Id), 2)
}

func TestProposeContractChangeGuards(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	_, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.stranger, &entity.ContractTerms{Title: ptr("x")}, "")
	assert.ErrorIs(t, err, ErrUserHasNoAccessToContract)

	_, err = f.services.ContractChange.ProposeContractChange(f.ctx, 999, f.client, &entity.ContractTerms{Title: ptr("x")}, "")
	assert.ErrorIs(t, err, ErrContractNotFound)

	_, err = f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{PaymentType: ptr("Barter")}, "")
	assert.ErrorIs(t, err, ErrInvalidPaymentType)

	_, err = f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, nil, "")
	assert.ErrorIs(t, err, ErrNoNewChanges)

	_, err = f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{
		Title: ptr("Landing page"), PaymentAmount: ptr(500.0),
	}, "")
	assert.ErrorIs(t, err, ErrNoNewChanges)
	assert.Empty(t, f.versions(t, c.Id))

	_, err = f.services.Contract.TransitionContractStatus(f.ctx, c.Id, f.client, "Cancelled", "")
	require.NoError(t, err)

	_, err = f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{Title: ptr("x")}, "")
	assert.ErrorIs(t, err, ErrContractClosed)
}

func TestRespondToChangeRequest(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	id, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.freelancer, &entity.ContractTerms{
		Deadline: ptr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
	}, "need more time")
	require.NoError(t, err)
	f.publisher.Reset()

	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.freelancer, true, "")
	assert.ErrorIs(t, err, ErrSelfResponse)

	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.stranger, true, "")
	assert.ErrorIs(t, err, ErrUserHasNoAccessToChangeRequest)

	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, 777, f.client, true, "")
	assert.ErrorIs(t, err, ErrChangeRequestNotFound)

	out, err := f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.client, true, "ok")
	require.NoError(t, err)
	assert.Equal(t, common.ChangeRequestApproved, out.Status)
	assert.Equal(t, f.client.String(), out.ResponseByUserId)
	assert.Equal(t, string(common.RoleClient), out.ResponseByRole)
	assert.Equal(t, "ok", out.ResponseNotes)
	assert.NotEmpty(t, out.ResponseDate)
	require.Len(t, f.publisher.For(f.freelancer), 1)

	history, err := f.services.ContractChange.GetContractHistory(f.ctx, c.Id, f.client)
	require.NoError(t, err)
	assert.Equal(t, 2, history.CurrentVersion.VersionNumber)
	assert.Equal(t, "2025-06-01T00:00:00Z", history.CurrentVersion.Deadline)
	assertSingleCurrentVersion(t, history.Versions)

	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.client, false, "")
	assert.ErrorIs(t, err, ErrChangeRequestNotPending)

	assert.Equal(t, 500.0, f.contract(t, c.Id).PaymentAmount)
}

func TestVersionNumbersAreNeverReused(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	propose := func(title string) int64 {
		id, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{Title: ptr(title)}, "")
		require.NoError(t, err)
		return id
	}

	id := propose("Second")
	_, err := f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.freelancer, false, "no")
	require.NoError(t, err)

	// re-proposing straight after a rejection is allowed
	id = propose("Third")
	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.freelancer, true, "")
	require.NoError(t, err)

	id = propose("Fourth")
	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.freelancer, false, "")
	require.NoError(t, err)

	history, err := f.services.ContractChange.GetContractHistory(f.ctx, c.Id, f.client)
	require.NoError(t, err)

	numbers := make([]int, 0)
	for _, v := range history.Versions {
		numbers = append(numbers, v.VersionNumber)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, numbers)
	assert.Equal(t, 3, history.CurrentVersion.VersionNumber)
	assert.Equal(t, "Third", history.CurrentVersion.Title)
	assertSingleCurrentVersion(t, history.Versions)
	require.Len(t, history.ChangeRequests, 3)
	assert.Equal(t, common.ChangeRequestRejected, history.ChangeRequests[0].Status)
	assert.Equal(t, common.ChangeRequestApproved, history.ChangeRequests[1].Status)
	assert.Equal(t, common.ChangeRequestRejected, history.ChangeRequests[2].Status)
}

func TestChangeRequestExpiry(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	id, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{Title: ptr("New")}, "")
	require.NoError(t, err)

	pending, err := f.services.ContractChange.GetPendingChangeRequests(f.ctx, f.freelancer)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].Id)

	pending, err = f.services.ContractChange.GetPendingChangeRequests(f.ctx, f.client)
	require.NoError(t, err)
	assert.Empty(t, pending)

	f.clock.Advance(DefaultChangeRequestTTL + time.Minute)

	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.freelancer, true, "")
	assert.ErrorIs(t, err, ErrChangeRequestExpired)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, common.ChangeRequestExpired, f.changeRequest(t, id).Status)

	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.freelancer, true, "")
	assert.ErrorIs(t, err, ErrChangeRequestNotPending)

	history, err := f.services.ContractChange.GetContractHistory(f.ctx, c.Id, f.client)
	require.NoError(t, err)
	assert.Equal(t, 1, history.CurrentVersion.VersionNumber)

	_, err = f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{Title: ptr("Newer")}, "")
	assert.NoError(t, err)
}

func TestExpiredRequestIsFlippedOnRead(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	id, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{Title: ptr("New")}, "")
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)

	pending, err := f.services.ContractChange.GetPendingChangeRequests(f.ctx, f.freelancer)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, common.ChangeRequestExpired, f.changeRequest(t, id).Status)
}

func TestProposeReplacesExpiredRequest(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	first, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{Title: ptr("New")}, "")
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)

	second, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.freelancer, &entity.ContractTerms{Title: ptr("Newer")}, "")
	require.NoError(t, err)
	assert.Equal(t, common.ChangeRequestExpired, f.changeRequest(t, first).Status)

	cr := f.changeRequest(t, second)
	assert.Equal(t, common.ChangeRequestPending, cr.Status)
	assert.Equal(t, common.RoleFreelancer, cr.RequestedByRole)
}

func TestRespondOnClosedContract(t *testing.T) {
	f := newFixture(t)
	c := f.activeContract(t)

	id, err := f.services.ContractChange.ProposeContractChange(f.ctx, c.Id, f.client, &entity.ContractTerms{Title: ptr("New")}, "")
	require.NoError(t, err)

	pending, err := f.services.ContractChange.GetPendingChangeRequests(f.ctx, f.freelancer)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = f.services.Contract.TransitionContractStatus(f.ctx, c.Id, f.freelancer, "Cancelled", "")
	require.NoError(t, err)

	pending, err = f.services.ContractChange.GetPendingChangeRequests(f.ctx, f.freelancer)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.services.ContractChange.RespondToChangeRequest(f.ctx, id, f.freelancer, true, "")
	assert.ErrorIs(t, err, ErrContractClosed)
	assert.Equal(t, common.ChangeRequestPending, f.changeRequest(t, id).Status)
}

func assertSingleCurrentVersion(t *testing.T, versions []entity.ContractVersionOutputModel) {
	t.Helper()

	current := 0
	for _, v := range versions {
		if v.IsCurrentVersion {
			current++
		}
	}
	assert.Equal(t, 1, current)
}
