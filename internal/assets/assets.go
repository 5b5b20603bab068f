package assets

import "embed"

// MigrationsFS holds the SQL schema migrations applied at startup.
//
//go:embed all:migrations
var MigrationsFS embed.FS
