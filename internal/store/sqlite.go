package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/agentgrowth/leadflow/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It backs local
// development and the offline CLI commands.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                        TEXT PRIMARY KEY,
	email                     TEXT NOT NULL,
	first_name                TEXT NOT NULL,
	last_name                 TEXT NOT NULL,
	phone                     TEXT NOT NULL DEFAULT '',
	location                  TEXT NOT NULL DEFAULT '',
	experience_level          TEXT NOT NULL DEFAULT '',
	current_brokerage         TEXT NOT NULL DEFAULT '',
	sphere_size               INTEGER NOT NULL DEFAULT 0,
	annual_transactions       INTEGER NOT NULL DEFAULT 0,
	weekly_hours              REAL NOT NULL DEFAULT 0,
	target_income             REAL NOT NULL DEFAULT 0,
	preferred_markets         TEXT NOT NULL DEFAULT '[]',
	business_objectives       TEXT NOT NULL DEFAULT '',
	start_timeline            TEXT NOT NULL DEFAULT '',
	communication_preferences TEXT NOT NULL DEFAULT '[]',
	sphere_contact_frequency  TEXT NOT NULL DEFAULT '',
	budget_management         TEXT NOT NULL DEFAULT '',
	business_stress_level     TEXT NOT NULL DEFAULT '',
	biggest_challenge         TEXT NOT NULL DEFAULT '',
	status                    TEXT NOT NULL DEFAULT 'new',
	pdf_generated             BOOLEAN NOT NULL DEFAULT 0,
	pdf_sent                  BOOLEAN NOT NULL DEFAULT 0,
	crm_synced                BOOLEAN NOT NULL DEFAULT 0,
	source_ip                 TEXT NOT NULL DEFAULT '',
	user_agent                TEXT NOT NULL DEFAULT '',
	created_at                DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at                DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);

CREATE TABLE IF NOT EXISTS resources (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	slug           TEXT NOT NULL UNIQUE,
	file_path      TEXT NOT NULL,
	download_count INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS resource_downloads (
	id            TEXT PRIMARY KEY,
	lead_id       TEXT NOT NULL REFERENCES leads(id),
	resource_id   TEXT NOT NULL REFERENCES resources(id),
	downloaded_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_resource_downloads_lead ON resource_downloads(lead_id);
CREATE INDEX IF NOT EXISTS idx_resource_downloads_resource ON resource_downloads(resource_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
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
	// JSON list columns are TEXT in SQLite.
	args[12] = string(args[12].([]byte))
	args[15] = string(args[15].([]byte))

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (`+leadColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert lead")
	}
	return &lead, nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	l, err := scanLead(s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id,
	))
	if err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}
	return l, nil
}

func (s *SQLiteStore) UpdateDeliveryFlags(ctx context.Context, id string, generated, sent bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET pdf_generated = ?, pdf_sent = ?, updated_at = ? WHERE id = ?`,
		generated, sent, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update delivery flags %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

func (s *SQLiteStore) UpdateCRMSynced(ctx context.Context, id string, synced bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET crm_synced = ?, updated_at = ? WHERE id = ?`,
		synced, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update crm synced %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if !filter.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	if filter.Undelivered {
		query += ` AND NOT (pdf_generated AND pdf_sent)`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
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
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	r, err := scanResource(s.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id,
	))
	if err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get resource %s", id)
	}
	return r, nil
}

// CreateResource adds a catalogue entry. Used to seed local databases.
func (s *SQLiteStore) CreateResource(ctx context.Context, r model.Resource) (*model.Resource, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resources (`+resourceColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Slug, r.FilePath, r.DownloadCount, r.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert resource")
	}
	return &r, nil
}

func (s *SQLiteStore) RecordDownload(ctx context.Context, leadID, resourceID string) (*model.ResourceDownload, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin record download")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE resources SET download_count = download_count + 1 WHERE id = ?`,
		resourceID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: increment downloads %s", resourceID)
	}
	if err := checkRowsAffected(res, "resource", resourceID); err != nil {
		return nil, err
	}

	d := model.ResourceDownload{
		ID:           uuid.New().String(),
		LeadID:       leadID,
		ResourceID:   resourceID,
		DownloadedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO resource_downloads (id, lead_id, resource_id, downloaded_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.LeadID, d.ResourceID, d.DownloadedAt,
	); err != nil {
		return nil, eris.Wrap(err, "sqlite: insert resource download")
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit record download")
	}
	return &d, nil
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}
