package migrations

// pin_tags, bookmarks, and likes all share the same shape: a uuid row keyed
// by a unique entity pair. The unique constraint is what turns concurrent
// check-then-insert races into a catchable conflict, so it is load-bearing,
// not just hygiene.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePinTags, downCreatePinTags)
}

func upCreatePinTags(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS pin_tags (
    id         %s PRIMARY KEY,
    pin_id     %s NOT NULL REFERENCES pins(id),
    tag_id     %s NOT NULL REFERENCES tags(id),
    deleted    BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at %s NULL,
    created_at %s NOT NULL,
    CONSTRAINT uk_pin_tag UNIQUE (pin_id, tag_id)
)`, idCol(), idCol(), idCol(), timeCol(), timeCol())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create pin_tags table: %w", err)
	}
	idx := `CREATE INDEX IF NOT EXISTS idx_pin_tags_tag ON pin_tags (tag_id)`
	if dialect == "mysql" {
		idx = `CREATE INDEX idx_pin_tags_tag ON pin_tags (tag_id)`
	}
	if _, err := tx.ExecContext(ctx, idx); err != nil {
		return fmt.Errorf("index pin_tags table: %w", err)
	}
	return nil
}

func downCreatePinTags(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS pin_tags`)
	return err
}
