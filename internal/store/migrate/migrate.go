// Package migrate applies the embedded schema migrations for a driver.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/ssobridge/internal/observability/logger"
	mysqlfs "github.com/dropDatabas3/ssobridge/migrations/mysql"
	pgfs "github.com/dropDatabas3/ssobridge/migrations/postgres"
)

type execFunc func(ctx context.Context, stmt string) error

// Run aplica las migraciones embebidas para el driver dado.
// action es "up" o "down"; steps > 0 limita cuántos archivos se ejecutan.
func Run(ctx context.Context, driver, dsn, action string, steps int) error {
	var (
		fsys fs.FS
		exec execFunc
		done func()
	)

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "pg":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("migrate: pgxpool: %w", err)
		}
		fsys = pgfs.FS
		exec = func(ctx context.Context, stmt string) error {
			_, err := pool.Exec(ctx, stmt)
			return err
		}
		done = pool.Close

	case "mysql":
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return fmt.Errorf("migrate: mysql open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("migrate: mysql ping: %w", err)
		}
		fsys = mysqlfs.FS
		exec = func(ctx context.Context, stmt string) error {
			_, err := db.ExecContext(ctx, stmt)
			return err
		}
		done = func() { _ = db.Close() }

	default:
		return fmt.Errorf("migrate: driver %q has no migrations", driver)
	}
	defer done()

	suffix := "_up.sql"
	switch strings.ToLower(action) {
	case "", "up":
	case "down":
		suffix = "_down.sql"
	default:
		return fmt.Errorf("migrate: unknown action %q (use up|down)", action)
	}

	files, err := listSQL(fsys, suffix)
	if err != nil {
		return fmt.Errorf("migrate: list files: %w", err)
	}
	if suffix == "_down.sql" {
		reverse(files)
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}

	log := logger.L().With(logger.Component("migrate"))
	for _, name := range files {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("migrate: read %s: %w", name, err)
		}
		start := time.Now()
		if err := exec(ctx, string(b)); err != nil {
			return fmt.Errorf("migrate: exec %s: %w", name, err)
		}
		log.Info("migration applied",
			logger.String("file", name),
			logger.Duration(time.Since(start)))
	}
	log.Info("migrations completed", logger.Count(len(files)))
	return nil
}

func listSQL(fsys fs.FS, suffix string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func reverse(ss []string) {
	for i, j := 0, len(ss)-1; i < j; i, j = i+1, j-1 {
		ss[i], ss[j] = ss[j], ss[i]
	}
}
