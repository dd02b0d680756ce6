// Package pg implements the PostgreSQL repository over pgxpool.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

// Store is the PostgreSQL-backed repository.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects a pool and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const providerColumns = `id, slug, name, client_id, client_secret, extra_config, active, workspace_id, created_at, updated_at`

func scanProvider(row pgx.Row) (*core.ProviderRecord, error) {
	var (
		rec   core.ProviderRecord
		extra []byte
	)
	err := row.Scan(&rec.ID, &rec.Slug, &rec.Name, &rec.ClientID, &rec.ClientSecret,
		&extra, &rec.Active, &rec.WorkspaceID, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: scan provider: %w", err)
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &rec.ExtraConfig); err != nil {
			return nil, fmt.Errorf("pg: decode extra_config: %w", err)
		}
	}
	return &rec, nil
}

// GetProviderRecord fetches one provider by slug. A nil workspaceID matches
// only global records (workspace_id IS NULL); scoped and global rows are
// never mixed in one query.
func (s *Store) GetProviderRecord(ctx context.Context, slug string, workspaceID *int64, activeOnly bool) (*core.ProviderRecord, error) {
	q := `SELECT ` + providerColumns + ` FROM sso_providers WHERE slug = $1`
	args := []any{slug}
	if workspaceID != nil {
		q += ` AND workspace_id = $2`
		args = append(args, *workspaceID)
	} else {
		q += ` AND workspace_id IS NULL`
	}
	if activeOnly {
		q += ` AND active`
	}
	return scanProvider(s.pool.QueryRow(ctx, q, args...))
}

func (s *Store) CreateProviderRecord(ctx context.Context, rec *core.ProviderRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	extra, err := json.Marshal(rec.ExtraConfig)
	if err != nil {
		return fmt.Errorf("pg: encode extra_config: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO sso_providers (`+providerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.Slug, rec.Name, rec.ClientID, rec.ClientSecret,
		extra, rec.Active, rec.WorkspaceID, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrConflict
		}
		return fmt.Errorf("pg: insert provider: %w", err)
	}
	return nil
}

func (s *Store) UpdateProviderRecord(ctx context.Context, rec *core.ProviderRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	extra, err := json.Marshal(rec.ExtraConfig)
	if err != nil {
		return fmt.Errorf("pg: encode extra_config: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE sso_providers
		SET slug=$2, name=$3, client_id=$4, client_secret=$5, extra_config=$6,
		    active=$7, workspace_id=$8, updated_at=$9
		WHERE id=$1`,
		rec.ID, rec.Slug, rec.Name, rec.ClientID, rec.ClientSecret,
		extra, rec.Active, rec.WorkspaceID, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pg: update provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProviderRecord(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sso_providers WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("pg: delete provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListProviderRecords(ctx context.Context, workspaceID *int64) ([]*core.ProviderRecord, error) {
	q := `SELECT ` + providerColumns + ` FROM sso_providers WHERE workspace_id IS NULL ORDER BY slug`
	args := []any{}
	if workspaceID != nil {
		q = `SELECT ` + providerColumns + ` FROM sso_providers WHERE workspace_id = $1 ORDER BY slug`
		args = append(args, *workspaceID)
	}
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("pg: list providers: %w", err)
	}
	defer rows.Close()

	var out []*core.ProviderRecord
	for rows.Next() {
		rec, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) AppendLoginAttempt(ctx context.Context, att *core.LoginAttempt) error {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	if att.CreatedAt.IsZero() {
		att.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sso_login_attempts (id, provider_id, provider_slug, user_id, status, ip, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		att.ID, att.ProviderID, att.ProviderSlug, att.UserID, att.Status, att.IP, att.CreatedAt)
	if err != nil {
		return fmt.Errorf("pg: append login attempt: %w", err)
	}
	return nil
}

func (s *Store) ListLoginAttempts(ctx context.Context, slug string, limit int) ([]*core.LoginAttempt, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, provider_id, provider_slug, user_id, status, ip, created_at
		FROM sso_login_attempts
		WHERE ($1 = '' OR provider_slug = $1)
		ORDER BY created_at DESC
		LIMIT $2`, slug, limit)
	if err != nil {
		return nil, fmt.Errorf("pg: list login attempts: %w", err)
	}
	defer rows.Close()

	var out []*core.LoginAttempt
	for rows.Next() {
		var att core.LoginAttempt
		if err := rows.Scan(&att.ID, &att.ProviderID, &att.ProviderSlug, &att.UserID,
			&att.Status, &att.IP, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("pg: scan login attempt: %w", err)
		}
		out = append(out, &att)
	}
	return out, rows.Err()
}

// isUniqueViolation matches the PostgreSQL unique_violation SQLSTATE without
// importing pgconn into every caller.
func isUniqueViolation(err error) bool {
	type coder interface{ SQLState() string }
	var c coder
	return errors.As(err, &c) && c.SQLState() == "23505"
}
