package migrations

import "embed"

// FS holds the schema files for every supported SQL dialect, one directory
// per dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
