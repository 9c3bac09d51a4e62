package postgres

import "embed"

// MigrationsFS carries the schema migrations inside the binary so deployments
// do not depend on a migrations directory being present on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
