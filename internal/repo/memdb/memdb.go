// Package memdb keeps every record in process memory. Transactions are
// serialized by a single mutex and roll back by restoring a snapshot, so it
// provides the same atomicity and isolation guarantees as the postgres store
// for a single process.
package memdb

import (
	"context"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo"
	"maps"
	"sync"
)

type state struct {
	jobs           map[int64]entity.Job
	proposals      map[int64]entity.Proposal
	contracts      map[int64]entity.Contract
	versions       map[int64]entity.ContractVersion
	changeRequests map[int64]entity.ContractChangeRequest
	notifications  map[int64]entity.Notification
	lastId         int64
}

func newState() *state {
	return &state{
		jobs:           make(map[int64]entity.Job),
		proposals:      make(map[int64]entity.Proposal),
		contracts:      make(map[int64]entity.Contract),
		versions:       make(map[int64]entity.ContractVersion),
		changeRequests: make(map[int64]entity.ContractChangeRequest),
		notifications:  make(map[int64]entity.Notification),
	}
}

func (s *state) clone() *state {
	return &state{
		jobs:           maps.Clone(s.jobs),
		proposals:      maps.Clone(s.proposals),
		contracts:      maps.Clone(s.contracts),
		versions:       maps.Clone(s.versions),
		changeRequests: maps.Clone(s.changeRequests),
		notifications:  maps.Clone(s.notifications),
		lastId:         s.lastId,
	}
}

func (s *state) nextId() int64 {
	s.lastId++
	return s.lastId
}

type DB struct {
	mu    sync.Mutex
	state *state
}

func New() *DB {
	return &DB{state: newState()}
}

func (db *DB) WithinTransaction(ctx context.Context, fn func(r *repo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := db.state.clone()
	committed := false
	defer func() {
		if !committed {
			db.state = snapshot
		}
	}()

	s := db.state
	repos := &repo.TxRepositories{
		Job:             &JobRepo{s},
		Proposal:        &ProposalRepo{s},
		Contract:        &ContractRepo{s},
		ContractVersion: &ContractVersionRepo{s},
		ChangeRequest:   &ChangeRequestRepo{s},
	}
	if err := fn(repos); err != nil {
		return err
	}
	committed = true

	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return ctx.Err()
}

func NewRepositories(db *DB) *repo.Repositories {
	return &repo.Repositories{
		Diagnostics:  db,
		Notification: &NotificationRepo{db},
		Transactor:   db,
	}
}
