// Package migrations embeds the catalog's SQL schema migrations.
//
// Files follow golang-migrate naming: <version>_<name>.up.sql and
// <version>_<name>.down.sql.
package migrations

import "embed"

// FS holds every migration file.
//
//go:embed *.sql
var FS embed.FS
