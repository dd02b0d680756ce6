// Package mysql implements the MySQL repository over database/sql with
// squirrel as the query builder.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

// Store is the MySQL-backed repository.
type Store struct {
	db *sql.DB
}

// Open connects and verifies with a ping. The DSN must include
// parseTime=true so DATETIME columns scan into time.Time.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

var providerColumns = []string{
	"id", "slug", "name", "client_id", "client_secret", "extra_config",
	"active", "workspace_id", "created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProvider(row rowScanner) (*core.ProviderRecord, error) {
	var (
		rec   core.ProviderRecord
		extra []byte
	)
	err := row.Scan(&rec.ID, &rec.Slug, &rec.Name, &rec.ClientID, &rec.ClientSecret,
		&extra, &rec.Active, &rec.WorkspaceID, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mysql: scan provider: %w", err)
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &rec.ExtraConfig); err != nil {
			return nil, fmt.Errorf("mysql: decode extra_config: %w", err)
		}
	}
	return &rec, nil
}

// GetProviderRecord fetches one provider by slug. A nil workspaceID matches
// only global rows; scoped and global rows are never mixed in one query.
func (s *Store) GetProviderRecord(ctx context.Context, slug string, workspaceID *int64, activeOnly bool) (*core.ProviderRecord, error) {
	q := squirrel.Select(providerColumns...).
		From("sso_providers").
		Where(squirrel.Eq{"slug": slug}).
		Limit(1)
	if workspaceID != nil {
		q = q.Where(squirrel.Eq{"workspace_id": *workspaceID})
	} else {
		q = q.Where("workspace_id IS NULL")
	}
	if activeOnly {
		q = q.Where(squirrel.Eq{"active": true})
	}
	return scanProvider(q.RunWith(s.db).QueryRowContext(ctx))
}

func (s *Store) CreateProviderRecord(ctx context.Context, rec *core.ProviderRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	extra, err := json.Marshal(rec.ExtraConfig)
	if err != nil {
		return fmt.Errorf("mysql: encode extra_config: %w", err)
	}
	_, err = squirrel.Insert("sso_providers").
		SetMap(map[string]any{
			"id":            rec.ID,
			"slug":          rec.Slug,
			"name":          rec.Name,
			"client_id":     rec.ClientID,
			"client_secret": rec.ClientSecret,
			"extra_config":  extra,
			"active":        rec.Active,
			"workspace_id":  rec.WorkspaceID,
			"created_at":    rec.CreatedAt,
			"updated_at":    rec.UpdatedAt,
		}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		if isDuplicateEntry(err) {
			return core.ErrConflict
		}
		return fmt.Errorf("mysql: insert provider: %w", err)
	}
	return nil
}

func (s *Store) UpdateProviderRecord(ctx context.Context, rec *core.ProviderRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	extra, err := json.Marshal(rec.ExtraConfig)
	if err != nil {
		return fmt.Errorf("mysql: encode extra_config: %w", err)
	}
	res, err := squirrel.Update("sso_providers").
		SetMap(map[string]any{
			"slug":          rec.Slug,
			"name":          rec.Name,
			"client_id":     rec.ClientID,
			"client_secret": rec.ClientSecret,
			"extra_config":  extra,
			"active":        rec.Active,
			"workspace_id":  rec.WorkspaceID,
			"updated_at":    rec.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": rec.ID}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("mysql: update provider: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProviderRecord(ctx context.Context, id string) error {
	res, err := squirrel.Delete("sso_providers").
		Where(squirrel.Eq{"id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("mysql: delete provider: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ListProviderRecords(ctx context.Context, workspaceID *int64) ([]*core.ProviderRecord, error) {
	q := squirrel.Select(providerColumns...).
		From("sso_providers").
		OrderBy("slug")
	if workspaceID != nil {
		q = q.Where(squirrel.Eq{"workspace_id": *workspaceID})
	} else {
		q = q.Where("workspace_id IS NULL")
	}
	rows, err := q.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("mysql: list providers: %w", err)
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
	_, err := squirrel.Insert("sso_login_attempts").
		SetMap(map[string]any{
			"id":            att.ID,
			"provider_id":   att.ProviderID,
			"provider_slug": att.ProviderSlug,
			"user_id":       att.UserID,
			"status":        att.Status,
			"ip":            att.IP,
			"created_at":    att.CreatedAt,
		}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("mysql: append login attempt: %w", err)
	}
	return nil
}

func (s *Store) ListLoginAttempts(ctx context.Context, slug string, limit int) ([]*core.LoginAttempt, error) {
	if limit <= 0 {
		limit = 100
	}
	q := squirrel.Select("id", "provider_id", "provider_slug", "user_id", "status", "ip", "created_at").
		From("sso_login_attempts").
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if slug != "" {
		q = q.Where(squirrel.Eq{"provider_slug": slug})
	}
	rows, err := q.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("mysql: list login attempts: %w", err)
	}
	defer rows.Close()

	var out []*core.LoginAttempt
	for rows.Next() {
		var att core.LoginAttempt
		if err := rows.Scan(&att.ID, &att.ProviderID, &att.ProviderSlug, &att.UserID,
			&att.Status, &att.IP, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("mysql: scan login attempt: %w", err)
		}
		out = append(out, &att)
	}
	return out, rows.Err()
}

// isDuplicateEntry matches MySQL error 1062 (duplicate entry).
func isDuplicateEntry(err error) bool {
	var merr *mysqldrv.MySQLError
	return errors.As(err, &merr) && merr.Number == 1062
}
