package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyLock is a session advisory lock held on a dedicated connection.
type CompanyLock struct {
	conn *pgxpool.Conn
	key  string
}

func lockKey(company string) string {
	return "fieldwork:company:" + company
}

// LockCompany takes the import lock for company without waiting. If another
// session holds it, ErrCompanyLocked is returned.
func (db *DB) LockCompany(ctx context.Context, company string) (*CompanyLock, error) {
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	key := lockKey(company)
	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtextextended($1, 0))`, key).Scan(&ok); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to lock company %s: %w", company, err)
	}
	if !ok {
		conn.Release()
		return nil, fmt.Errorf("%w: %s", ErrCompanyLocked, company)
	}
	return &CompanyLock{conn: conn, key: key}, nil
}

// Release unlocks the company and returns the connection to the pool. If the
// unlock fails the connection is closed, which drops the lock with it.
func (l *CompanyLock) Release(ctx context.Context) error {
	if l == nil || l.conn == nil {
		return nil
	}
	conn := l.conn
	l.conn = nil

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock(hashtextextended($1, 0))`, l.key); err != nil {
		_ = conn.Hijack().Close(context.Background())
		return fmt.Errorf("failed to unlock %s: %w", l.key, err)
	}
	conn.Release()
	return nil
}
