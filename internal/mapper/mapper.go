// Package mapper translates domain entities to rows and back. One mapper
// per entity, all reachable through a Registry that also serves as the
// model.Loader for lazy hydration and as the store behind the unit of work.
//
// Every operation acquires a pooled connection for its own duration.
// Versioned updates (events, funding applications) run in a transaction
// that re-reads the row version under a shared lock first.
package mapper

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/campusclub/clubhub/internal/database"
)

var (
	// ErrNotFound is returned when an id or unique key matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint.
	ErrDuplicate = errors.New("duplicate")
	// ErrConcurrent is returned when a versioned update loses the race:
	// the row changed, or was deleted, since the caller read it.
	ErrConcurrent = errors.New("concurrent modification")
)

// Registry wires one mapper per entity over a shared pool. It is built once
// at startup and is safe for concurrent use.
type Registry struct {
	pool *database.Pool
	log  zerolog.Logger

	Students *StudentMapper
	Faculty  *FacultyMapper
	Clubs    *ClubMapper
	Venues   *VenueMapper
	Events   *EventMapper
	Rsvps    *RsvpMapper
	Tickets  *TicketMapper
	Funding  *FundingMapper
	Tokens   *TokenStore
}

// NewRegistry builds the mapper set over the given pool.
func NewRegistry(pool *database.Pool, log zerolog.Logger) *Registry {
	r := &Registry{pool: pool, log: log}
	r.Students = &StudentMapper{reg: r}
	r.Faculty = &FacultyMapper{reg: r}
	r.Clubs = &ClubMapper{reg: r}
	r.Venues = &VenueMapper{reg: r}
	r.Events = &EventMapper{reg: r}
	r.Rsvps = &RsvpMapper{reg: r}
	r.Tickets = &TicketMapper{reg: r}
	r.Funding = &FundingMapper{reg: r}
	r.Tokens = &TokenStore{reg: r}
	return r
}

// wrap maps driver errors onto the package's typed errors.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// scalar runs a single-column, single-row query on a pooled connection.
func scalar[T any](ctx context.Context, r *Registry, query string, args ...any) (T, error) {
	var zero T
	conn, err := r.pool.Acquire()
	if err != nil {
		return zero, err
	}
	defer r.pool.Release(conn)

	var v T
	if err := conn.QueryRow(ctx, query, args...).Scan(&v); err != nil {
		return zero, wrap(err)
	}
	return v, nil
}

// exec runs a statement on a pooled connection.
func (r *Registry) exec(ctx context.Context, query string, args ...any) error {
	conn, err := r.pool.Acquire()
	if err != nil {
		return err
	}
	defer r.pool.Release(conn)

	_, err = conn.Exec(ctx, query, args...)
	return wrap(err)
}

// insertReturning runs an INSERT ... RETURNING id and hands back the
// store-allocated id.
func (r *Registry) insertReturning(ctx context.Context, query string, args ...any) (int64, error) {
	return scalar[int64](ctx, r, query, args...)
}

// updateVersioned implements optimistic offline locking. Inside one
// transaction it reads the row's current version under a shared lock,
// rejects the update when the row is gone or the version moved, and
// otherwise runs write, which must bump version to expected+1.
func (r *Registry) updateVersioned(ctx context.Context, table, idColumn string, id int64, expected int, write func(pgx.Tx) error) error {
	conn, err := r.pool.Acquire()
	if err != nil {
		return err
	}
	defer r.pool.Release(conn)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current int
	query := fmt.Sprintf("SELECT version FROM %s WHERE %s = $1 FOR SHARE", table, idColumn)
	switch err := tx.QueryRow(ctx, query, id).Scan(&current); {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: modified after deletion", ErrConcurrent)
	case err != nil:
		return err
	}
	if current != expected {
		return fmt.Errorf("%w: version is %d, expected %d", ErrConcurrent, current, expected)
	}

	if err := write(tx); err != nil {
		return wrap(err)
	}
	return tx.Commit(ctx)
}
