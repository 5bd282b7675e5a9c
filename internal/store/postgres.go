package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/agentgrowth/leadflow/internal/db"
	"github.com/agentgrowth/leadflow/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot-path store operations.
var preparedStatements = map[string]string{
	"insert_lead":           `INSERT INTO leads (` + leadColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`,
	"get_lead":              `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`,
	"update_delivery_flags": `UPDATE leads SET pdf_generated = $1, pdf_sent = $2, updated_at = $3 WHERE id = $4`,
	"update_crm_synced":     `UPDATE leads SET crm_synced = $1, updated_at = $2 WHERE id = $3`,
	"get_resource":          `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *db.PoolConfig) (*PostgresStore, error) {
	cfg := db.PoolConfig{Prepare: preparedStatements}
	if poolCfg != nil {
		cfg.MaxConns = poolCfg.MaxConns
		cfg.MinConns = poolCfg.MinConns
	}
	pool, err := db.Connect(ctx, connString, &cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. The caller keeps ownership of it.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that share it
// (the Postgres rate limiter).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                        TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	email                     TEXT NOT NULL,
	first_name                TEXT NOT NULL,
	last_name                 TEXT NOT NULL,
	phone                     TEXT NOT NULL DEFAULT '',
	location                  TEXT NOT NULL DEFAULT '',
	experience_level          TEXT NOT NULL DEFAULT '',
	current_brokerage         TEXT NOT NULL DEFAULT '',
	sphere_size               BIGINT NOT NULL DEFAULT 0 CHECK (sphere_size >= 0),
	annual_transactions       BIGINT NOT NULL DEFAULT 0 CHECK (annual_transactions >= 0),
	weekly_hours              DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (weekly_hours BETWEEN 0 AND 168),
	target_income             DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (target_income >= 0),
	preferred_markets         JSONB NOT NULL DEFAULT '[]',
	business_objectives       TEXT NOT NULL DEFAULT '',
	start_timeline            TEXT NOT NULL DEFAULT '',
	communication_preferences JSONB NOT NULL DEFAULT '[]',
	sphere_contact_frequency  TEXT NOT NULL DEFAULT '',
	budget_management         TEXT NOT NULL DEFAULT '',
	business_stress_level     TEXT NOT NULL DEFAULT '',
	biggest_challenge         TEXT NOT NULL DEFAULT '',
	status                    TEXT NOT NULL DEFAULT 'new',
	pdf_generated             BOOLEAN NOT NULL DEFAULT false,
	pdf_sent                  BOOLEAN NOT NULL DEFAULT false,
	crm_synced                BOOLEAN NOT NULL DEFAULT false,
	source_ip                 TEXT NOT NULL DEFAULT '',
	user_agent                TEXT NOT NULL DEFAULT '',
	created_at                TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at                TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC);

CREATE TABLE IF NOT EXISTS resources (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	title          TEXT NOT NULL,
	slug           TEXT NOT NULL UNIQUE,
	file_path      TEXT NOT NULL,
	download_count BIGINT NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS resource_downloads (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id       TEXT NOT NULL REFERENCES leads(id),
	resource_id   TEXT NOT NULL REFERENCES resources(id),
	downloaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_resource_downloads_lead ON resource_downloads(lead_id);
CREATE INDEX IF NOT EXISTS idx_resource_downloads_resource ON resource_downloads(resource_id);

CREATE TABLE IF NOT EXISTS rate_limits (
	identity TEXT PRIMARY KEY,
	count    INTEGER NOT NULL,
	reset_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rate_limits_reset_at ON rate_limits(reset_at);
`

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = model.LeadStatusNew
	}
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	args, err := leadArgs(&lead)
	if err != nil {
		return nil, err
	}
	if _, err := s.pool.Exec(ctx, preparedStatements["insert_lead"], args...); err != nil {
		return nil, eris.Wrap(err, "postgres: insert lead")
	}
	return &lead, nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	l, err := scanLead(s.pool.QueryRow(ctx, preparedStatements["get_lead"], id))
	if err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return l, nil
}

func (s *PostgresStore) UpdateDeliveryFlags(ctx context.Context, id string, generated, sent bool) error {
	tag, err := s.pool.Exec(ctx, preparedStatements["update_delivery_flags"],
		generated, sent, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update delivery flags %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	return nil
}

func (s *PostgresStore) UpdateCRMSynced(ctx context.Context, id string, synced bool) error {
	tag, err := s.pool.Exec(ctx, preparedStatements["update_crm_synced"],
		synced, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update crm synced %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	return nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(` AND created_at >= $%d`, argIdx)
		args = append(args, filter.Since)
		argIdx++
	}
	if filter.Undelivered {
		query += ` AND NOT (pdf_generated AND pdf_sent)`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	r, err := scanResource(s.pool.QueryRow(ctx, preparedStatements["get_resource"], id))
	if err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get resource %s", id)
	}
	return r, nil
}

// RecordDownload inserts the join row and bumps the resource counter in one
// transaction.
func (s *PostgresStore) RecordDownload(ctx context.Context, leadID, resourceID string) (*model.ResourceDownload, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin record download")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx,
		`UPDATE resources SET download_count = download_count + 1 WHERE id = $1`,
		resourceID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: increment downloads %s", resourceID)
	}
	if tag.RowsAffected() == 0 {
		return nil, eris.Wrapf(ErrNotFound, "resource %s", resourceID)
	}

	d := model.ResourceDownload{
		ID:           uuid.New().String(),
		LeadID:       leadID,
		ResourceID:   resourceID,
		DownloadedAt: time.Now().UTC(),
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO resource_downloads (id, lead_id, resource_id, downloaded_at) VALUES ($1, $2, $3, $4)`,
		d.ID, d.LeadID, d.ResourceID, d.DownloadedAt,
	); err != nil {
		return nil, eris.Wrap(err, "postgres: insert resource download")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit record download")
	}
	return &d, nil
}
