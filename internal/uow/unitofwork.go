// Package uow implements a per-request Unit of Work. Handlers register
// entities as new, dirty or deleted while servicing a request and commit
// once at the end; nothing is flushed before Commit.
package uow

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusclub/clubhub/internal/model"
)

// Store persists a single entity change. The mapper registry implements it
// by dispatching on the entity's concrete type.
type Store interface {
	Insert(ctx context.Context, e model.Entity) error
	Update(ctx context.Context, e model.Entity) error
	Delete(ctx context.Context, e model.Entity) error
}

// UnitOfWork tracks pending changes in registration order. It is built per
// request and never shared between goroutines.
type UnitOfWork struct {
	store Store
	log   zerolog.Logger

	newObjects     []model.Entity
	dirtyObjects   []model.Entity
	deletedObjects []model.Entity
}

// New builds an empty unit of work over the given store.
func New(store Store, log zerolog.Logger) *UnitOfWork {
	return &UnitOfWork{store: store, log: log}
}

// RegisterNew queues an entity for insertion. Registering the same value
// twice is a no-op.
func (u *UnitOfWork) RegisterNew(e model.Entity) {
	u.newObjects = register(u.newObjects, e)
}

// RegisterDirty queues an entity for update.
func (u *UnitOfWork) RegisterDirty(e model.Entity) {
	u.dirtyObjects = register(u.dirtyObjects, e)
}

// RegisterDeleted queues an entity for deletion.
func (u *UnitOfWork) RegisterDeleted(e model.Entity) {
	u.deletedObjects = register(u.deletedObjects, e)
}

func register(list []model.Entity, e model.Entity) []model.Entity {
	if e == nil {
		return list
	}
	for _, existing := range list {
		if existing == e {
			return list
		}
	}
	return append(list, e)
}

// Commit flushes all registered changes: inserts first, then updates, then
// deletes, each batch in registration order. A failing entity is logged and
// skipped so the remaining work still runs; the failures come back joined
// into one error.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	var errs []error

	for _, e := range u.newObjects {
		if err := u.store.Insert(ctx, e); err != nil {
			u.log.Error().Err(err).Type("entity", e).Msg("insert failed")
			errs = append(errs, fmt.Errorf("insert %T: %w", e, err))
		}
	}
	for _, e := range u.dirtyObjects {
		if err := u.store.Update(ctx, e); err != nil {
			u.log.Error().Err(err).Type("entity", e).Int64("id", e.ID()).Msg("update failed")
			errs = append(errs, fmt.Errorf("update %T %d: %w", e, e.ID(), err))
		}
	}
	for _, e := range u.deletedObjects {
		if err := u.store.Delete(ctx, e); err != nil {
			u.log.Error().Err(err).Type("entity", e).Int64("id", e.ID()).Msg("delete failed")
			errs = append(errs, fmt.Errorf("delete %T %d: %w", e, e.ID(), err))
		}
	}

	u.newObjects = nil
	u.dirtyObjects = nil
	u.deletedObjects = nil

	return errors.Join(errs...)
}
