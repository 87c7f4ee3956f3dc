package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Tag represents a row in the tags table. Keywords are globally unique and
// case-sensitive; tags are shared across all pins and never deleted.
type Tag struct {
	ID        string    `db:"id"`
	Keyword   string    `db:"keyword"`
	CreatedAt time.Time `db:"created_at"`
}

type TagStore struct {
	db  *sqlx.DB
	now Clock
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db, now: utcNow}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *TagStore) WithClock(c Clock) *TagStore {
	s.now = c
	return s
}

// q rebinds ? placeholders to the driver's native format.
func (s *TagStore) q(query string) string { return s.db.Rebind(query) }

// GetOrCreate returns the tag for keyword, creating it on first use. Two
// concurrent first uses race on the unique index: the losing insert observes
// the constraint violation and falls back to a single re-read.
func (s *TagStore) GetOrCreate(ctx context.Context, keyword string) (*Tag, error) {
	k, err := NormalizeKeyword(keyword)
	if err != nil {
		return nil, err
	}
	return getOrCreateTag(ctx, s.db, s.now, k)
}

// getOrCreateTag is the shared implementation; PinTagStore calls it with its
// transaction so tag creation commits atomically with the link.
func getOrCreateTag(ctx context.Context, ext sqlx.ExtContext, now Clock, keyword string) (*Tag, error) {
	var existing Tag
	err := sqlx.GetContext(ctx, ext, &existing, ext.Rebind(`SELECT * FROM tags WHERE keyword = ?`), keyword)
	if err == nil {
		return &existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	id := uuid.New().String()
	created := now()
	err = execConflictable(ctx, ext, ext.Rebind(`
		INSERT INTO tags (id, keyword, created_at) VALUES (?, ?, ?)
	`), id, keyword, created)
	if err != nil {
		// Race: another writer inserted the keyword first. Re-fetch once.
		if isUniqueConstraintError(err) {
			err = sqlx.GetContext(ctx, ext, &existing, ext.Rebind(`SELECT * FROM tags WHERE keyword = ?`), keyword)
			if err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}

	return &Tag{ID: id, Keyword: keyword, CreatedAt: created}, nil
}

// GetByKeyword returns the tag matching keyword exactly, or ErrTagNotFound.
func (s *TagStore) GetByKeyword(ctx context.Context, keyword string) (*Tag, error) {
	var t Tag
	err := s.db.GetContext(ctx, &t, s.q(`SELECT * FROM tags WHERE keyword = ?`), keyword)
	if err == sql.ErrNoRows {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID returns the tag matching id, or ErrTagNotFound.
func (s *TagStore) GetByID(ctx context.Context, id string) (*Tag, error) {
	var t Tag
	err := s.db.GetContext(ctx, &t, s.q(`SELECT * FROM tags WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SearchByKeyword returns tags whose keyword contains fragment,
// case-insensitive, ordered by keyword.
func (s *TagStore) SearchByKeyword(ctx context.Context, fragment string) ([]*Tag, error) {
	var tags []*Tag
	pattern := "%" + fragment + "%"
	err := s.db.SelectContext(ctx, &tags, s.q(`
		SELECT * FROM tags WHERE LOWER(keyword) LIKE LOWER(?) ORDER BY keyword ASC
	`), pattern)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListAll returns all tags ordered by keyword.
func (s *TagStore) ListAll(ctx context.Context) ([]*Tag, error) {
	var tags []*Tag
	err := s.db.SelectContext(ctx, &tags, `SELECT * FROM tags ORDER BY keyword ASC`)
	if err != nil {
		return nil, err
	}
	return tags, nil
}
