package database

import (
	"context"
	"database/sql"
	"sync"

	"techdesk_backend/pkg/utils"
)

// Lease is a pooled connection held for the duration of one request.
type Lease struct {
	*sql.Conn
	shared bool

	once     sync.Once
	mu       sync.Mutex
	released bool
}

// Release returns the connection to the pool. It is safe to call more than once;
// only the first call has an effect.
func (l *Lease) Release() {
	if l == nil || l.shared {
		return
	}
	l.once.Do(func() {
		l.mu.Lock()
		l.released = true
		l.mu.Unlock()
		if err := l.Conn.Close(); err != nil {
			utils.LogError(err, "Failed to return connection to pool")
		}
	})
}

func (l *Lease) isReleased() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}

type leaseKey struct{}

// ContextWithLease attaches a request lease so nested Acquire calls reuse it.
func ContextWithLease(ctx context.Context, l *Lease) context.Context {
	return context.WithValue(ctx, leaseKey{}, l)
}

func leaseFromContext(ctx context.Context) *Lease {
	l, _ := ctx.Value(leaseKey{}).(*Lease)
	return l
}
