package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookmarks, downCreateBookmarks)
}

func upCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS bookmarks (
    id         %s PRIMARY KEY,
    user_id    %s NOT NULL REFERENCES users(id),
    pin_id     %s NOT NULL REFERENCES pins(id),
    deleted    BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at %s NULL,
    created_at %s NOT NULL,
    CONSTRAINT uk_bookmark_user_pin UNIQUE (user_id, pin_id)
)`, idCol(), idCol(), idCol(), timeCol(), timeCol())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create bookmarks table: %w", err)
	}
	idx := `CREATE INDEX IF NOT EXISTS idx_bookmarks_pin ON bookmarks (pin_id)`
	if dialect == "mysql" {
		idx = `CREATE INDEX idx_bookmarks_pin ON bookmarks (pin_id)`
	}
	if _, err := tx.ExecContext(ctx, idx); err != nil {
		return fmt.Errorf("index bookmarks table: %w", err)
	}
	return nil
}

func downCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookmarks`)
	return err
}
