package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PinTag represents a row in the pin_tags table. A row is created at most
// once per (pin, tag) pair; removal tombstones it and relinking restores the
// same row, so the id is stable across delete/restore cycles.
type PinTag struct {
	ID        string     `db:"id"`
	PinID     string     `db:"pin_id"`
	TagID     string     `db:"tag_id"`
	Deleted   bool       `db:"deleted"`
	DeletedAt *time.Time `db:"deleted_at"`
	CreatedAt time.Time  `db:"created_at"`
}

type PinTagStore struct {
	db  *sqlx.DB
	now Clock
}

func NewPinTagStore(db *sqlx.DB) *PinTagStore {
	return &PinTagStore{db: db, now: utcNow}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *PinTagStore) WithClock(c Clock) *PinTagStore {
	s.now = c
	return s
}

// Link attaches the tag named keyword to the pin. The keyword is resolved
// through the shared tag catalog (creating the tag on first use), then the
// link row transitions: no row inserts an active link, a tombstone restores
// in place, an active link fails with ErrTagAlreadyLinked. The whole
// sequence is one transaction; a concurrent writer losing the unique
// (pin_id, tag_id) race re-reads and applies the same rules.
func (s *PinTagStore) Link(ctx context.Context, pinID, keyword string) (*PinTag, error) {
	k, err := NormalizeKeyword(keyword)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := pinExistsTx(ctx, tx, pinID); err != nil {
		return nil, err
	}
	tag, err := getOrCreateTag(ctx, tx, s.now, k)
	if err != nil {
		return nil, err
	}

	link, err := s.linkTx(ctx, tx, pinID, tag.ID, false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return link, nil
}

// LinkMany applies Link semantics for each keyword but treats already-linked
// as success, so bulk linking during pin creation is idempotent. Returns the
// resolved tags in input order. All links commit atomically.
func (s *PinTagStore) LinkMany(ctx context.Context, pinID string, keywords []string) ([]*Tag, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := pinExistsTx(ctx, tx, pinID); err != nil {
		return nil, err
	}

	tags := make([]*Tag, 0, len(keywords))
	for _, keyword := range keywords {
		k, err := NormalizeKeyword(keyword)
		if err != nil {
			return nil, err
		}
		tag, err := getOrCreateTag(ctx, tx, s.now, k)
		if err != nil {
			return nil, err
		}
		if _, err := s.linkTx(ctx, tx, pinID, tag.ID, true); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return tags, nil
}

// linkTx performs the insert-or-restore transition for one (pin, tag) pair.
// When tolerateActive is set, an active link is returned as-is instead of
// failing, which is the LinkMany policy.
func (s *PinTagStore) linkTx(ctx context.Context, tx *sqlx.Tx, pinID, tagID string, tolerateActive bool) (*PinTag, error) {
	existing, err := getLinkTx(ctx, tx, pinID, tagID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	if err == sql.ErrNoRows {
		id := uuid.New().String()
		now := s.now()
		err = execConflictable(ctx, tx, tx.Rebind(`
			INSERT INTO pin_tags (id, pin_id, tag_id, deleted, created_at) VALUES (?, ?, ?, FALSE, ?)
		`), id, pinID, tagID, now)
		if err == nil {
			return &PinTag{ID: id, PinID: pinID, TagID: tagID, CreatedAt: now}, nil
		}
		if !isUniqueConstraintError(err) {
			return nil, err
		}
		// Lost the insert race; fall through to the row the winner created.
		existing, err = getLinkTx(ctx, tx, pinID, tagID)
		if err != nil {
			return nil, err
		}
	}

	if existing.Deleted {
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE pin_tags SET deleted = FALSE, deleted_at = NULL WHERE id = ?
		`), existing.ID)
		if err != nil {
			return nil, err
		}
		existing.Deleted = false
		existing.DeletedAt = nil
		return existing, nil
	}

	if tolerateActive {
		return existing, nil
	}
	return nil, ErrTagAlreadyLinked
}

// Unlink tombstones the link for (pin, tag). Unlinking an already-deleted
// link is a no-op success; a pair with no row at all is ErrLinkNotFound.
func (s *PinTagStore) Unlink(ctx context.Context, pinID, tagID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	link, err := getLinkTx(ctx, tx, pinID, tagID)
	if err == sql.ErrNoRows {
		return ErrLinkNotFound
	}
	if err != nil {
		return err
	}
	if link.Deleted {
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE pin_tags SET deleted = TRUE, deleted_at = ? WHERE id = ?
	`), s.now(), link.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Restore reactivates a tombstoned link. The row must exist and be deleted.
func (s *PinTagStore) Restore(ctx context.Context, pinID, tagID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	link, err := getLinkTx(ctx, tx, pinID, tagID)
	if err == sql.ErrNoRows {
		return ErrLinkNotFound
	}
	if err != nil {
		return err
	}
	if !link.Deleted {
		return ErrLinkActive
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE pin_tags SET deleted = FALSE, deleted_at = NULL WHERE id = ?
	`), link.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListActiveTags returns the tags actively linked to the pin, ordered by
// keyword. An empty result is a valid state, not an error.
func (s *PinTagStore) ListActiveTags(ctx context.Context, pinID string) ([]*Tag, error) {
	if err := pinExistsTx(ctx, s.db, pinID); err != nil {
		return nil, err
	}
	var tags []*Tag
	err := s.db.SelectContext(ctx, &tags, s.db.Rebind(`
		SELECT t.* FROM tags t
		INNER JOIN pin_tags pt ON pt.tag_id = t.id
		WHERE pt.pin_id = ? AND pt.deleted = FALSE
		ORDER BY t.keyword ASC
	`), pinID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListPinsByKeyword returns non-deleted pins with an active link to the tag,
// newest first. The keyword must name an existing tag.
func (s *PinTagStore) ListPinsByKeyword(ctx context.Context, keyword string) ([]*Pin, error) {
	var tagID string
	err := s.db.GetContext(ctx, &tagID, s.db.Rebind(`SELECT id FROM tags WHERE keyword = ?`), keyword)
	if err == sql.ErrNoRows {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	var pins []*Pin
	err = s.db.SelectContext(ctx, &pins, s.db.Rebind(`
		SELECT p.* FROM pins p
		INNER JOIN pin_tags pt ON pt.pin_id = p.id
		WHERE pt.tag_id = ? AND pt.deleted = FALSE AND p.deleted = FALSE
		ORDER BY p.created_at DESC
	`), tagID)
	if err != nil {
		return nil, err
	}
	return pins, nil
}

// getLinkTx fetches the link row for (pin, tag) regardless of deleted state.
func getLinkTx(ctx context.Context, ext sqlx.ExtContext, pinID, tagID string) (*PinTag, error) {
	var link PinTag
	err := sqlx.GetContext(ctx, ext, &link, ext.Rebind(`
		SELECT * FROM pin_tags WHERE pin_id = ? AND tag_id = ?
	`), pinID, tagID)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// pinExistsTx resolves a non-deleted pin on the caller's tx or db, returning
// ErrPinNotFound when absent.
func pinExistsTx(ctx context.Context, ext sqlx.ExtContext, pinID string) error {
	var count int
	err := sqlx.GetContext(ctx, ext, &count, ext.Rebind(`
		SELECT COUNT(*) FROM pins WHERE id = ? AND deleted = FALSE
	`), pinID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPinNotFound
	}
	return nil
}
