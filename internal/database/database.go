// Package database provides a bounded pool of PostgreSQL connections
// using pgx, plus schema migration on startup.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/campusclub/clubhub/internal/config"
)

// ErrNoConnection is returned by Acquire when every handle in the pool is
// in use. Callers must treat this as retryable.
var ErrNoConnection = errors.New("no database connection available")

// Handle is the subset of *pgx.Conn the rest of the application uses.
// Handles are exclusively owned between Acquire and Release.
type Handle interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

// Pool hands out a fixed set of live database handles. Acquire fails fast
// when the pool is saturated rather than queueing callers.
type Pool struct {
	mu    sync.Mutex
	free  []Handle
	inUse []Handle
	log   zerolog.Logger
}

// Open eagerly dials cfg.PoolSize connections and returns the pool.
// It retries each dial a few times to accommodate containers starting up.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Pool, error) {
	handles := make([]Handle, 0, cfg.PoolSize)
	for i := 0; i < cfg.PoolSize; i++ {
		conn, err := dial(ctx, cfg.DSN())
		if err != nil {
			for _, h := range handles {
				_ = h.Close(ctx)
			}
			return nil, fmt.Errorf("open connection %d/%d: %w", i+1, cfg.PoolSize, err)
		}
		handles = append(handles, conn)
	}
	log.Info().Int("size", cfg.PoolSize).Msg("database pool ready")
	return NewPool(handles, log), nil
}

// NewPool builds a pool over already-open handles. Open is the usual entry
// point; NewPool exists for callers that dial their own connections.
func NewPool(handles []Handle, log zerolog.Logger) *Pool {
	return &Pool{free: handles, log: log}
}

func dial(ctx context.Context, dsn string) (*pgx.Conn, error) {
	var conn *pgx.Conn
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		conn, err = pgx.Connect(ctx, dsn)
		if err == nil {
			return conn, nil
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// Acquire removes a handle from the free list. It returns ErrNoConnection
// when all handles are in use.
func (p *Pool) Acquire() (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		return nil, ErrNoConnection
	}
	h := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.inUse = append(p.inUse, h)
	return h, nil
}

// Release returns a handle to the free list. Releasing nil is a no-op.
func (p *Pool) Release(h Handle) {
	if h == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, used := range p.inUse {
		if used == h {
			p.inUse = append(p.inUse[:i], p.inUse[i+1:]...)
			break
		}
	}
	p.free = append(p.free, h)
}

// Close closes every handle, free and in-use, best-effort.
func (p *Pool) Close(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range p.free {
		if err := h.Close(ctx); err != nil {
			p.log.Error().Err(err).Msg("close database connection")
		}
	}
	for _, h := range p.inUse {
		if err := h.Close(ctx); err != nil {
			p.log.Error().Err(err).Msg("close database connection")
		}
	}
	p.free = nil
	p.inUse = nil
}
