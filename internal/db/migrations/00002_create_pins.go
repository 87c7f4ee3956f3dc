package migrations

// The engagement stores prefilter radius searches with a range scan over
// (latitude, longitude), so both columns are plain doubles with a composite
// index rather than a geometry type.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePins, downCreatePins)
}

func upCreatePins(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS pins (
    id         %s PRIMARY KEY,
    user_id    %s NOT NULL REFERENCES users(id),
    latitude   DOUBLE PRECISION NOT NULL,
    longitude  DOUBLE PRECISION NOT NULL,
    content    TEXT NOT NULL,
    is_public  BOOLEAN NOT NULL DEFAULT TRUE,
    like_count BIGINT NOT NULL DEFAULT 0,
    deleted    BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at %s NULL,
    created_at %s NOT NULL,
    updated_at %s NOT NULL
)`, idCol(), idCol(), timeCol(), timeCol(), timeCol())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create pins table: %w", err)
	}
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_pins_lat_lon ON pins (latitude, longitude)`,
		`CREATE INDEX IF NOT EXISTS idx_pins_user ON pins (user_id)`,
	}
	if dialect == "mysql" {
		// MySQL (pre-8.0.29 at least) has no IF NOT EXISTS for indexes.
		stmts = []string{
			`CREATE INDEX idx_pins_lat_lon ON pins (latitude, longitude)`,
			`CREATE INDEX idx_pins_user ON pins (user_id)`,
		}
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("index pins table: %w", err)
		}
	}
	return nil
}

func downCreatePins(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS pins`)
	return err
}
