// Package postgres embeds the PostgreSQL schema migrations.
package postgres

import "embed"

// FS contains the *_up.sql / *_down.sql migration files.
//
//go:embed *.sql
var FS embed.FS
