package repo_errors

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrConcurrentUpdate reports that another transaction changed the rows this
	// one depended on. The whole unit of work may be retried.
	ErrConcurrentUpdate = errors.New("concurrent update")

	ErrAlreadyExists = errors.New("already exists")
)
