// Package mysql embeds the MySQL schema migrations.
package mysql

import "embed"

// FS contains the *_up.sql / *_down.sql migration files. Each file holds a
// single statement so the runner never needs multiStatements=true.
//
//go:embed *.sql
var FS embed.FS
