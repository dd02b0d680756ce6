// Package store selects and opens the configured repository backend.
package store

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/ssobridge/internal/store/core"
	"github.com/dropDatabas3/ssobridge/internal/store/memory"
	"github.com/dropDatabas3/ssobridge/internal/store/mysql"
	"github.com/dropDatabas3/ssobridge/internal/store/pg"
)

// Open returns a repository for the given driver. Supported drivers:
// postgres, mysql, memory.
func Open(ctx context.Context, driver, dsn string) (core.Repository, error) {
	switch driver {
	case "postgres", "pg":
		return pg.Open(ctx, dsn)
	case "mysql":
		return mysql.Open(ctx, dsn)
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
