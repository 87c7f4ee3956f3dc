package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLikes, downCreateLikes)
}

func upCreateLikes(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS likes (
    id          %s PRIMARY KEY,
    user_id     %s NOT NULL REFERENCES users(id),
    pin_id      %s NOT NULL REFERENCES pins(id),
    liked       BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  %s NOT NULL,
    modified_at %s NOT NULL,
    CONSTRAINT uk_like_user_pin UNIQUE (user_id, pin_id)
)`, idCol(), idCol(), idCol(), timeCol(), timeCol())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create likes table: %w", err)
	}
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_likes_pin_liked ON likes (pin_id, liked)`,
		`CREATE INDEX IF NOT EXISTS idx_likes_user ON likes (user_id)`,
	}
	if dialect == "mysql" {
		stmts = []string{
			`CREATE INDEX idx_likes_pin_liked ON likes (pin_id, liked)`,
			`CREATE INDEX idx_likes_user ON likes (user_id)`,
		}
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("index likes table: %w", err)
		}
	}
	return nil
}

func downCreateLikes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS likes`)
	return err
}
