package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTags, downCreateTags)
}

func upCreateTags(ctx context.Context, tx *sql.Tx) error {
	// keyword is case-sensitive; MySQL needs an explicit binary collation
	// because utf8mb4 defaults to case-insensitive comparison.
	keywordCol := textCol(50)
	if dialect == "mysql" {
		keywordCol += " COLLATE utf8mb4_bin"
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tags (
    id         %s PRIMARY KEY,
    keyword    %s NOT NULL UNIQUE,
    created_at %s NOT NULL
)`, idCol(), keywordCol, timeCol())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tags table: %w", err)
	}
	return nil
}

func downCreateTags(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS tags`)
	return err
}
