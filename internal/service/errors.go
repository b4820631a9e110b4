package service

import (
	"errors"
	"fmt"
	"freelance-job-board/internal/repo/repo_errors"
)

var (
	ErrJobNotFound           = errors.New("job not found")
	ErrProposalNotFound      = errors.New("proposal not found")
	ErrContractNotFound      = errors.New("contract not found")
	ErrChangeRequestNotFound = errors.New("change request not found")
	ErrNotificationNotFound  = errors.New("notification not found")

	ErrUserHasNoAccessToJob           = errors.New("user isn't the client who posted the job")
	ErrUserHasNoAccessToProposal      = errors.New("user doesn't have sufficient rights to access the proposal")
	ErrUserHasNoAccessToContract      = errors.New("user isn't a party to the contract")
	ErrUserHasNoAccessToChangeRequest = errors.New("user isn't a party to the change request's contract")

	ErrInvalidProposalStatus = errors.New("proposal status must be one of Pending, UnderReview, Accepted, Rejected")
	ErrInvalidContractStatus = errors.New("unknown contract status")
	ErrInvalidPaymentType    = errors.New("payment type must be Fixed or Hourly")

	ErrJobNotOpen              = errors.New("job isn't open for proposals")
	ErrJobAlreadyAssigned      = errors.New("job already has an accepted proposal")
	ErrCanNotBidOnOwnJob       = errors.New("client can't submit a proposal on their own job")
	ErrDuplicateProposal       = errors.New("freelancer already submitted a proposal for this job")
	ErrProposalAlreadyAccepted = errors.New("proposal is already accepted")
	ErrContractAlreadyExists   = errors.New("contract already exists for the proposal")

	ErrInvalidStatusTransition = errors.New("contract status transition isn't allowed")
	ErrContractClosed          = errors.New("contract is completed or cancelled")
	ErrSelfApproval            = errors.New("completion can't be approved by the party who requested it")
	ErrNotCompletionRequester  = errors.New("only the party who requested completion can cancel the request")

	ErrPendingChangeRequestExists = errors.New("contract already has a pending change request")
	ErrChangeRequestNotPending    = errors.New("change request is no longer pending")
	ErrChangeRequestExpired       = errors.New("change request has expired")
	ErrSelfResponse               = errors.New("change request can't be answered by the party who proposed it")
	ErrNoNewChanges               = errors.New("proposed terms are identical to the current version")

	ErrConcurrentUpdate = errors.New("record was modified concurrently, retry the operation")
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthorized
	KindNotFound
	KindInvalidArgument
	KindConflict
)

var errorKinds = map[error]ErrorKind{
	ErrJobNotFound:           KindNotFound,
	ErrProposalNotFound:      KindNotFound,
	ErrContractNotFound:      KindNotFound,
	ErrChangeRequestNotFound: KindNotFound,
	ErrNotificationNotFound:  KindNotFound,

	ErrUserHasNoAccessToJob:           KindUnauthorized,
	ErrUserHasNoAccessToProposal:      KindUnauthorized,
	ErrUserHasNoAccessToContract:      KindUnauthorized,
	ErrUserHasNoAccessToChangeRequest: KindUnauthorized,

	ErrInvalidProposalStatus: KindInvalidArgument,
	ErrInvalidContractStatus: KindInvalidArgument,
	ErrInvalidPaymentType:    KindInvalidArgument,

	ErrJobNotOpen:                 KindConflict,
	ErrJobAlreadyAssigned:         KindConflict,
	ErrCanNotBidOnOwnJob:          KindConflict,
	ErrDuplicateProposal:          KindConflict,
	ErrProposalAlreadyAccepted:    KindConflict,
	ErrContractAlreadyExists:      KindConflict,
	ErrInvalidStatusTransition:    KindConflict,
	ErrContractClosed:             KindConflict,
	ErrSelfApproval:               KindConflict,
	ErrNotCompletionRequester:     KindConflict,
	ErrPendingChangeRequestExists: KindConflict,
	ErrChangeRequestNotPending:    KindConflict,
	ErrChangeRequestExpired:       KindConflict,
	ErrSelfResponse:               KindConflict,
	ErrNoNewChanges:               KindConflict,
	ErrConcurrentUpdate:           KindConflict,

	// serialization failures and deadlocks raised by the store outside a wrapped write
	repo_errors.ErrConcurrentUpdate: KindConflict,
}

// KindOf classifies err for the transport layer. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	for target, kind := range errorKinds {
		if errors.Is(err, target) {
			return kind
		}
	}

	return KindInternal
}

// IsRetryable reports whether the operation failed only because of a
// concurrent writer.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate) || errors.Is(err, repo_errors.ErrConcurrentUpdate)
}

// storeError translates persistence conflicts into ErrConcurrentUpdate and
// leaves everything else untouched.
func storeError(err error) error {
	if errors.Is(err, repo_errors.ErrConcurrentUpdate) || errors.Is(err, repo_errors.ErrAlreadyExists) {
		return fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
	}

	return err
}
