// Package migrations contains dialect-aware Go database migrations. The
// schema differs per driver (uuid/text key widths for MySQL, TIMESTAMPTZ for
// PostgreSQL), so each migration switches on the configured dialect.
package migrations

import "fmt"

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}

// Column type helpers shared by the schema migrations.

// idCol is the type used for uuid primary and foreign keys.
func idCol() string {
	if dialect == "mysql" {
		return "VARCHAR(36)"
	}
	return "TEXT"
}

// timeCol is the type used for non-null timestamps.
func timeCol() string {
	switch dialect {
	case "postgres":
		return "TIMESTAMPTZ"
	case "mysql":
		return "TIMESTAMP(6)"
	default: // sqlite3
		return "TIMESTAMP"
	}
}

// textCol is the type used for bounded text that must be indexable.
// n is the VARCHAR width used on MySQL; SQLite and PostgreSQL index TEXT fine.
func textCol(n int) string {
	if dialect == "mysql" {
		return fmt.Sprintf("VARCHAR(%d)", n)
	}
	return "TEXT"
}
