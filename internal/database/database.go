package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"techdesk_backend/internal/config"
	"techdesk_backend/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ErrPoolUnavailable is returned when a connection is requested from a pool
// that was never created or has been closed.
var ErrPoolUnavailable = errors.New("database pool unavailable")

// Pool bounds the number of concurrent database connections and hands out
// per-request leases.
type Pool struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// NewPool opens the database, applies the pool bounds and verifies connectivity.
// The first MaxIdle connections are opened eagerly so the pool starts at its minimum size.
func NewPool(ctx context.Context, cfg config.DBConfig) (*Pool, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pool := NewPoolFromDB(db, cfg.MaxOpen, cfg.MaxIdle)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.warmUp(pingCtx, cfg.MaxIdle); err != nil {
		db.Close()
		return nil, err
	}

	utils.LogInfo("Database pool created", map[string]interface{}{
		"host": cfg.Host, "db": cfg.Name, "max_open": cfg.MaxOpen, "min_idle": cfg.MaxIdle,
	})
	return pool, nil
}

// NewPoolFromDB wraps an already opened handle.
func NewPoolFromDB(db *sql.DB, maxOpen, maxIdle int) *Pool {
	if maxOpen <= 0 {
		maxOpen = 5
	}
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = 2
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxIdleTime(10 * time.Minute)
	return &Pool{db: db}
}

func (p *Pool) warmUp(ctx context.Context, n int) error {
	conns := make([]*sql.Conn, 0, n)
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()
	for i := 0; i < n; i++ {
		c, err := p.db.Conn(ctx)
		if err != nil {
			return fmt.Errorf("opening initial connection %d: %w", i+1, err)
		}
		conns = append(conns, c)
	}
	return nil
}

// DB exposes the underlying handle for single-statement reads.
func (p *Pool) DB() (*sql.DB, error) {
	if p == nil {
		return nil, ErrPoolUnavailable
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil || p.closed {
		return nil, ErrPoolUnavailable
	}
	return p.db, nil
}

// Ping checks connectivity.
func (p *Pool) Ping(ctx context.Context) error {
	db, err := p.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Acquire leases a connection. When ctx already carries a request lease
// (see ContextWithLease) that connection is shared and the returned lease's
// Release is a no-op; the request middleware owns it.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	if l := leaseFromContext(ctx); l != nil && !l.isReleased() {
		return &Lease{Conn: l.Conn, shared: true}, nil
	}
	db, err := p.DB()
	if err != nil {
		return nil, err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	return &Lease{Conn: conn}, nil
}

// Close releases every connection; later Acquire calls fail with ErrPoolUnavailable.
func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil || p.closed {
		return nil
	}
	p.closed = true
	return p.db.Close()
}
