package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
)

// schema is applied on startup; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS audit_logs (
	id          BIGSERIAL PRIMARY KEY,
	actor       TEXT NOT NULL,
	action      TEXT NOT NULL,
	resource    TEXT NOT NULL,
	resource_id TEXT NOT NULL DEFAULT '',
	details     JSONB NOT NULL DEFAULT '{}'::jsonb,
	ip          TEXT NOT NULL DEFAULT '',
	user_agent  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS audit_logs_action_idx ON audit_logs (action, created_at DESC);

CREATE TABLE IF NOT EXISTS publish_records (
	id         BIGSERIAL PRIMARY KEY,
	owner      TEXT NOT NULL,
	repo       TEXT NOT NULL,
	branch     TEXT NOT NULL,
	source_sha TEXT NOT NULL,
	commit_sha TEXT NOT NULL,
	file_count INTEGER NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS publish_records_repo_idx ON publish_records (owner, repo, created_at DESC);
`

// PostgresStore keeps the durable audit trail: HTTP audit logs and published commits.
// Staging sessions never touch it.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, applies the schema and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreFromDB wraps an existing handle without pinging or migrating.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the audit tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Publish Records ---

// RecordPublish implements service.PublishRecorder.
func (s *PostgresStore) RecordPublish(ctx context.Context, r domain.PublishRecord) error {
	query := `INSERT INTO publish_records (owner, repo, branch, source_sha, commit_sha, file_count, session_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, query,
		r.Owner, r.Repo, r.Branch, r.SourceSHA, r.CommitSHA, r.FileCount, r.SessionID,
	)
	if err != nil {
		return fmt.Errorf("record publish: %w", err)
	}
	return nil
}

// ListPublishRecords returns recent publishes, optionally scoped to owner/repo.
func (s *PostgresStore) ListPublishRecords(ctx context.Context, owner, repo string, limit int) ([]domain.PublishRecord, error) {
	query := `SELECT id, owner, repo, branch, source_sha, commit_sha, file_count, session_id, created_at
	          FROM publish_records`
	args := []interface{}{}
	argIdx := 1

	if owner != "" && repo != "" {
		query += fmt.Sprintf(" WHERE owner = $%d AND repo = $%d", argIdx, argIdx+1)
		args = append(args, owner, repo)
		argIdx += 2
	}

	query += " ORDER BY created_at DESC, id DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publish records: %w", err)
	}
	defer rows.Close()

	records := []domain.PublishRecord{}
	for rows.Next() {
		var r domain.PublishRecord
		if err := rows.Scan(
			&r.ID, &r.Owner, &r.Repo, &r.Branch, &r.SourceSHA,
			&r.CommitSHA, &r.FileCount, &r.SessionID, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan publish record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(actor, action, resource, resourceID, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (actor, action, resource, resource_id, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`
	_, err := s.db.ExecContext(context.Background(), query,
		actor, action, resource, resourceID, details, ip, userAgent,
	)
	return err
}

// ListAuditLogs returns recent audit logs with optional filters.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, actor, action, resource, resource_id, details, ip, user_agent, created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.AuditLog{}
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID, &l.Actor, &l.Action, &l.Resource, &l.ResourceID,
			&l.Details, &l.IP, &l.UserAgent, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
