package ratelimit

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agentgrowth/leadflow/internal/db"
)

// upsertSQL bumps the counter for an identity, restarting the window when
// reset_at has passed. The stored count saturates one above the limit.
const upsertSQL = `INSERT INTO rate_limits (identity, count, reset_at) VALUES ($1, 1, $3)
ON CONFLICT (identity) DO UPDATE SET
	count = CASE WHEN rate_limits.reset_at <= $2 THEN 1 ELSE LEAST(rate_limits.count + 1, $4) END,
	reset_at = CASE WHEN rate_limits.reset_at <= $2 THEN $3 ELSE rate_limits.reset_at END
RETURNING count`

// Postgres keeps counters in the rate_limits table so that every instance
// behind a load balancer sees the same windows.
type Postgres struct {
	pool   db.Pool
	policy Policy
	now    func() time.Time
}

// NewPostgres creates a limiter backed by pool. The table is created by the
// store migration.
func NewPostgres(pool db.Pool, p Policy) *Postgres {
	return &Postgres{pool: pool, policy: p.withDefaults(), now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (p *Postgres) WithClock(now func() time.Time) *Postgres {
	p.now = now
	return p
}

// Allow performs one atomic upsert and compares the resulting count with the
// configured maximum.
func (p *Postgres) Allow(ctx context.Context, identity string) (bool, error) {
	now := p.now().UTC()
	var count int
	err := p.pool.QueryRow(ctx, upsertSQL,
		identity, now, now.Add(p.policy.Window), p.policy.MaxRequests+1,
	).Scan(&count)
	if err != nil {
		return false, eris.Wrap(err, "ratelimit: upsert counter")
	}
	return count <= p.policy.MaxRequests, nil
}

// Prune deletes expired windows and returns how many were removed.
func (p *Postgres) Prune(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM rate_limits WHERE reset_at <= $1`, p.now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "ratelimit: prune")
	}
	return tag.RowsAffected(), nil
}
