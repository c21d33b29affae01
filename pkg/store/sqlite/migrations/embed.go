package migrations

import "embed"

// FS contains embedded SQLite migrations for the character repository.
//
//go:embed *.sql
var FS embed.FS
