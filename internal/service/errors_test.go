package service

import (
	"errors"
	"fmt"
	"testing"

	"freelance-job-board/internal/repo/repo_errors"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{ErrContractNotFound, KindNotFound},
		{fmt.Errorf("lookup: %w", ErrJobNotFound), KindNotFound},
		{ErrUserHasNoAccessToChangeRequest, KindUnauthorized},
		{ErrInvalidContractStatus, KindInvalidArgument},
		{fmt.Errorf("%w: Pending -> Completed", ErrInvalidStatusTransition), KindConflict},
		{ErrConcurrentUpdate, KindConflict},
		{fmt.Errorf("%w: could not serialize access", repo_errors.ErrConcurrentUpdate), KindConflict},
		{repo_errors.ErrNotFound, KindInternal},
		{errors.New("disk full"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	for _, err := range []error{repo_errors.ErrConcurrentUpdate, repo_errors.ErrAlreadyExists} {
		wrapped := storeError(fmt.Errorf("update: %w", err))
		assert.ErrorIs(t, wrapped, ErrConcurrentUpdate)
		assert.ErrorIs(t, wrapped, err)
		assert.True(t, IsRetryable(wrapped))
	}

	assert.True(t, IsRetryable(fmt.Errorf("%w: deadlock detected", repo_errors.ErrConcurrentUpdate)))

	other := errors.New("connection refused")
	assert.Equal(t, other, storeError(other))
	assert.False(t, IsRetryable(other))
	assert.NoError(t, storeError(nil))
}
