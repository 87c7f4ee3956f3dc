package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Bookmark represents a row in the bookmarks table. Same tombstone shape as
// PinTag, keyed by (user, pin).
type Bookmark struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	PinID     string     `db:"pin_id"`
	Deleted   bool       `db:"deleted"`
	DeletedAt *time.Time `db:"deleted_at"`
	CreatedAt time.Time  `db:"created_at"`
}

type BookmarkStore struct {
	db  *sqlx.DB
	now Clock
}

func NewBookmarkStore(db *sqlx.DB) *BookmarkStore {
	return &BookmarkStore{db: db, now: utcNow}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *BookmarkStore) WithClock(c Clock) *BookmarkStore {
	s.now = c
	return s
}

// Create saves the pin for the user. An active bookmark fails with
// ErrBookmarkExists; a tombstoned one is restored in place, so the create
// request is satisfied without a second row for the pair.
func (s *BookmarkStore) Create(ctx context.Context, userID, pinID string) (*Bookmark, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	exists, err := userExists(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	if err := pinExistsTx(ctx, tx, pinID); err != nil {
		return nil, err
	}

	existing, err := getBookmarkByPairTx(ctx, tx, userID, pinID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	if err == sql.ErrNoRows {
		id := uuid.New().String()
		now := s.now()
		err = execConflictable(ctx, tx, tx.Rebind(`
			INSERT INTO bookmarks (id, user_id, pin_id, deleted, created_at) VALUES (?, ?, ?, FALSE, ?)
		`), id, userID, pinID, now)
		if err == nil {
			if err := tx.Commit(); err != nil {
				return nil, err
			}
			return &Bookmark{ID: id, UserID: userID, PinID: pinID, CreatedAt: now}, nil
		}
		if !isUniqueConstraintError(err) {
			return nil, err
		}
		// Concurrent create won the unique (user_id, pin_id) race.
		existing, err = getBookmarkByPairTx(ctx, tx, userID, pinID)
		if err != nil {
			return nil, err
		}
	}

	if !existing.Deleted {
		return nil, ErrBookmarkExists
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE bookmarks SET deleted = FALSE, deleted_at = NULL WHERE id = ?
	`), existing.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	existing.Deleted = false
	existing.DeletedAt = nil
	return existing, nil
}

// Delete tombstones the user's bookmark. A missing row and a row owned by a
// different user both surface as ErrBookmarkNotFound. Deleting an
// already-deleted bookmark is a no-op success.
func (s *BookmarkStore) Delete(ctx context.Context, userID, bookmarkID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	b, err := getBookmarkOwnedTx(ctx, tx, userID, bookmarkID)
	if err != nil {
		return err
	}
	if b.Deleted {
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE bookmarks SET deleted = TRUE, deleted_at = ? WHERE id = ?
	`), s.now(), b.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Restore reactivates the user's tombstoned bookmark. Same ownership masking
// as Delete; an active bookmark fails with ErrBookmarkActive.
func (s *BookmarkStore) Restore(ctx context.Context, userID, bookmarkID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	b, err := getBookmarkOwnedTx(ctx, tx, userID, bookmarkID)
	if err != nil {
		return err
	}
	if !b.Deleted {
		return ErrBookmarkActive
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE bookmarks SET deleted = FALSE, deleted_at = NULL WHERE id = ?
	`), b.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ListActive returns the user's active bookmarks, newest first.
func (s *BookmarkStore) ListActive(ctx context.Context, userID string) ([]*Bookmark, error) {
	exists, err := userExists(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	var bookmarks []*Bookmark
	err = s.db.SelectContext(ctx, &bookmarks, s.db.Rebind(`
		SELECT * FROM bookmarks WHERE user_id = ? AND deleted = FALSE ORDER BY created_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// GetByID returns the user's bookmark by id with the same ownership masking
// as Delete/Restore.
func (s *BookmarkStore) GetByID(ctx context.Context, userID, bookmarkID string) (*Bookmark, error) {
	var b Bookmark
	err := s.db.GetContext(ctx, &b, s.db.Rebind(`SELECT * FROM bookmarks WHERE id = ?`), bookmarkID)
	if err == sql.ErrNoRows {
		return nil, ErrBookmarkNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrBookmarkNotFound
	}
	return &b, nil
}

func getBookmarkByPairTx(ctx context.Context, ext sqlx.ExtContext, userID, pinID string) (*Bookmark, error) {
	var b Bookmark
	err := sqlx.GetContext(ctx, ext, &b, ext.Rebind(`
		SELECT * FROM bookmarks WHERE user_id = ? AND pin_id = ?
	`), userID, pinID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// getBookmarkOwnedTx fetches a bookmark by id and verifies ownership,
// collapsing "absent" and "not yours" into ErrBookmarkNotFound.
func getBookmarkOwnedTx(ctx context.Context, ext sqlx.ExtContext, userID, bookmarkID string) (*Bookmark, error) {
	var b Bookmark
	err := sqlx.GetContext(ctx, ext, &b, ext.Rebind(`SELECT * FROM bookmarks WHERE id = ?`), bookmarkID)
	if err == sql.ErrNoRows {
		return nil, ErrBookmarkNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrBookmarkNotFound
	}
	return &b, nil
}
